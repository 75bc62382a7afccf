package logger

import (
	"io"
	"os"
	"syscall"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"github.com/rs/zerolog"
)

const (
	// TimeFormat renders the timestamp prefix of every log line.
	TimeFormat = "[2006-01-02 15:04:05]"

	defaultFilePerm = 0o644
)

var log zerolog.Logger

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(name string) (LogLevel, bool) {
	switch name {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warning", "warn":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return InfoLevel, false
	}
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Options controls where log lines go.
type Options struct {
	Level       LogLevel
	FilePath    string
	FileEnabled bool
	// Verbose mirrors the log to stdout.
	Verbose bool
}

// Init initializes the package logger. The returned closer releases the log
// file and is never nil. If the log file cannot be opened the logger falls
// back to stdout and the error is returned for the caller to report.
func Init(opts Options) (io.Closer, error) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
		openErr error
	)

	if opts.FileEnabled {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFilePerm)
		if err != nil {
			openErr = errors.New().Wrap(errors.ErrOpenLogFile, err)
		} else {
			writers = append(writers, newConsoleWriter(f, true))
			closer = f
		}
	}

	if opts.Verbose || len(writers) == 0 {
		writers = append(writers, newConsoleWriter(os.Stdout, IsService()))
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.Level(opts.Level)).
		With().Timestamp().Logger()

	return closer, openErr
}

// New returns a Logger writing console-formatted lines to w.
func New(w io.Writer, level LogLevel) Logger {
	return &zlog{
		l: zerolog.New(newConsoleWriter(w, true)).
			Level(zerolog.Level(level)).
			With().Timestamp().Logger(),
	}
}

// Default returns a Logger backed by the package logger.
func Default() Logger {
	return &zlog{l: log}
}

func newConsoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: TimeFormat,
	}
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return Default().ErrorWithCode(err)
}

type zlog struct {
	l zerolog.Logger
}

func (z *zlog) Debug() *LogEvent {
	return &LogEvent{z.l.Debug()}
}

func (z *zlog) Info() *LogEvent {
	return &LogEvent{z.l.Info()}
}

func (z *zlog) Warn() *LogEvent {
	return &LogEvent{z.l.Warn()}
}

func (z *zlog) Error() *LogEvent {
	return &LogEvent{z.l.Error()}
}

func (z *zlog) ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{z.l.Error().
		Str("error_code", string(err.Code())).
		Err(err)}
}

func (z *zlog) With(key, value string) Logger {
	return &zlog{l: z.l.With().Str(key, value).Logger()}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
