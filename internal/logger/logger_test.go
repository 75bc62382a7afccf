package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePrefix = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `)

func TestNewWritesTimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.InfoLevel)

	log.Info().Msg("Setting pin GPIO17 to HIGH")

	line := strings.TrimSpace(buf.String())
	assert.Regexp(t, linePrefix, line)
	assert.Contains(t, line, "INF")
	assert.Contains(t, line, "Setting pin GPIO17 to HIGH")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.WarnLevel)

	log.Info().Msg("hidden")
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.DebugLevel).With("run_id", "01ABC")

	log.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "run_id=01ABC")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.InfoLevel)

	log.ErrorWithCode(errors.New().New(errors.ErrAlreadyRunning)).Msg("lock")

	assert.Contains(t, buf.String(), "error_code=already_running")
	assert.Contains(t, buf.String(), "ERR")
}

func TestInitAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pifanctl.log")
	require.NoError(t, os.WriteFile(path, []byte("existing line\n"), 0o600))

	closer, err := logger.Init(logger.Options{
		Level:       logger.InfoLevel,
		FilePath:    path,
		FileEnabled: true,
	})
	require.NoError(t, err)

	logger.Info().Msg("CPU Temperature: 45.00°C")
	logger.Debug().Msg("filtered")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "existing line", lines[0])
	assert.Regexp(t, linePrefix, lines[1])
	assert.Contains(t, lines[1], "CPU Temperature: 45.00°C")
}

func TestInitReportsUnopenableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "pifanctl.log")

	closer, err := logger.Init(logger.Options{
		Level:       logger.InfoLevel,
		FilePath:    path,
		FileEnabled: true,
	})
	require.Error(t, err)
	require.NotNil(t, closer)
	assert.True(t, errors.HasCode(err, errors.ErrOpenLogFile))
	assert.NoError(t, closer.Close())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level logger.LogLevel
		ok    bool
	}{
		{"debug", logger.DebugLevel, true},
		{"info", logger.InfoLevel, true},
		{"", logger.InfoLevel, true},
		{"warning", logger.WarnLevel, true},
		{"error", logger.ErrorLevel, true},
		{"verbose", logger.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}
