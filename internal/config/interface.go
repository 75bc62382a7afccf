package config

// Option defines a configuration option that can be passed to Load
type Option func(*options)

// options holds internal configuration options
type options struct {
	envPrefix string
	lookupEnv bool
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "PIFANCTL"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables environment overrides
func WithoutEnv() Option {
	return func(o *options) {
		o.lookupEnv = false
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// FailMode selects what a run does when the status file or sensor fails
type FailMode string

const (
	// FailClosed aborts without touching the pin.
	FailClosed FailMode = "closed"
	// FailOpen continues with best-effort input.
	FailOpen FailMode = "open"
)

// IsValid returns whether the fail mode is valid
func (m FailMode) IsValid() bool {
	return m == FailClosed || m == FailOpen
}

func (m FailMode) String() string {
	return string(m)
}
