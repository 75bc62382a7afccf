package errors

// Common error codes
const (
	// System errors
	ErrInternal ErrorCode = "internal_error"

	// Argument errors
	ErrArgumentCount    ErrorCode = "argument_count"
	ErrInvalidThreshold ErrorCode = "invalid_threshold"
	ErrInvalidVariance  ErrorCode = "invalid_variance"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Logging errors
	ErrOpenLogFile ErrorCode = "open_log_file_failed"

	// Resource errors
	ErrAlreadyRunning ErrorCode = "already_running"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrArgumentCount:    "Expected threshold temperature and variance",
	ErrInvalidThreshold: "Expected integer for threshold temperature",
	ErrInvalidVariance:  "Expected integer for variance",
	ErrInvalidConfig:    "Invalid configuration",
	ErrBindFlags:        "Failed to bind flags",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrOpenLogFile:      "Failed to open log file",
	ErrAlreadyRunning:   "Another instance is already running",
}

// Register adds default messages for package-specific error codes.
// It is meant to be called from package init functions.
func Register(messages map[ErrorCode]string) {
	for code, msg := range messages {
		errorMessages[code] = msg
	}
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
