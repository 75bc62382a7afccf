package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/pifanctl/internal/controller"
	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paths struct {
	dir        string
	temp       string
	statusFile string
	log        string
}

func newPaths(t *testing.T) paths {
	t.Helper()

	dir := t.TempDir()
	return paths{
		dir:        dir,
		temp:       filepath.Join(dir, "temp"),
		statusFile: filepath.Join(dir, "status"),
		log:        filepath.Join(dir, "pifanctl.log"),
	}
}

func (p paths) args(extra ...string) []string {
	args := []string{
		"--driver", "dry-run",
		"--sensor-path", p.temp,
		"--status-path", p.statusFile,
		"--log-path", p.log,
	}
	return append(args, extra...)
}

func (p paths) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (p paths) status(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(p.statusFile)
	require.NoError(t, err)
	return string(data)
}

func TestRunTurnsFanOn(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "66000\n")
	p.write(t, p.statusFile, "0\n")

	var out bytes.Buffer
	code := run(p.args("60", "5"), &out)

	assert.Equal(t, exitOK, code, out.String())
	assert.Equal(t, "1\n", p.status(t))

	logData, err := os.ReadFile(p.log)
	require.NoError(t, err)
	assert.Regexp(t, `\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] INF CPU Temperature: 66.00°C`, string(logData))
	assert.Contains(t, string(logData), "Setting pin GPIO17 to HIGH")
}

func TestRunDeadZoneKeepsState(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "58000\n")
	p.write(t, p.statusFile, "1\n")

	assert.Equal(t, exitOK, run(p.args("60", "5"), &bytes.Buffer{}))
	assert.Equal(t, "1\n", p.status(t))
}

func TestRunArgumentErrors(t *testing.T) {
	p := newPaths(t)

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"missing arguments", p.args("60"), exitArgumentCount, "Expected threshold temperature and variance"},
		{"bad threshold", p.args("x", "5"), exitThreshold, "Expected integer for threshold temperature: x"},
		{"zero variance", p.args("60", "0"), exitVariance, "Expected integer for variance: 0"},
		{"bad flag value", p.args("--fail-mode", "sometimes", "60", "5"), exitConfig, "Invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &out))
			assert.Contains(t, out.String(), tt.out)

			_, err := os.Stat(p.log)
			assert.True(t, os.IsNotExist(err), "nothing is logged before arguments parse")
		})
	}
}

func TestRunSensorMissingFailsClosed(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.statusFile, "1\n")

	assert.Equal(t, exitSensorOpen, run(p.args("60", "5"), &bytes.Buffer{}))
	assert.Equal(t, "1\n", p.status(t))

	logData, err := os.ReadFile(p.log)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "error_code=read_sensor_failed")
	assert.Contains(t, string(logData), "exit_code=2")
}

func TestRunSensorGarbageFailsClosed(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "garbage\n")
	p.write(t, p.statusFile, "0\n")

	assert.Equal(t, exitSensorRead, run(p.args("60", "5"), &bytes.Buffer{}))
}

func TestRunCorruptStatusFailsClosed(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "70000\n")
	p.write(t, p.statusFile, "-1\n")

	assert.Equal(t, exitLoadState, run(p.args("60", "5"), &bytes.Buffer{}))
	assert.Equal(t, "-1\n", p.status(t))
}

func TestRunFailOpen(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.statusFile, "garbage\n")

	assert.Equal(t, exitOK, run(p.args("--fail-mode", "open", "60", "5"), &bytes.Buffer{}))
	assert.Equal(t, "1\n", p.status(t), "unknown temperature forces the fan on")
}

func TestRunGPIOInitFailure(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "70000\n")

	var out bytes.Buffer
	code := run(p.args("--driver", "gpiocdev", "--chip", filepath.Join(p.dir, "nochip"), "60", "5"), &out)

	assert.Equal(t, exitGPIOInit, code)
	assert.Contains(t, out.String(), "Failed to initialize GPIO")
}

func TestRunLockFile(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "70000\n")
	lockPath := filepath.Join(p.dir, "pifanctl.pid")

	// PID 1 is always alive.
	p.write(t, lockPath, "1\n")
	assert.Equal(t, exitAlreadyRunning, run(p.args("--lock-file", lockPath, "60", "5"), &bytes.Buffer{}))

	p.write(t, lockPath, strconv.Itoa(1<<22)+"\n")
	assert.Equal(t, exitOK, run(p.args("--lock-file", lockPath, "60", "5"), &bytes.Buffer{}))

	_, err := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err), "lock is released")
}

func TestRunHistory(t *testing.T) {
	p := newPaths(t)
	p.write(t, p.temp, "70000\n")
	dbPath := filepath.Join(p.dir, "db", "history.db")

	assert.Equal(t, exitOK, run(p.args("--history", "--history-db", dbPath, "60", "5"), &bytes.Buffer{}))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, exitOK, run([]string{"--help"}, &out))
	assert.Contains(t, out.String(), "Usage: pifanctl")
	assert.Contains(t, out.String(), "--fail-mode")
}

func TestExitCode(t *testing.T) {
	f := errors.New()

	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitSensorOpen, exitCode(f.Wrap(controller.ErrReadSensor, f.New(sensor.ErrSensorUnavailable))))
	assert.Equal(t, exitSensorRead, exitCode(f.Wrap(controller.ErrReadSensor, f.New(sensor.ErrSensorUnreadable))))
	assert.Equal(t, exitWriteOutput, exitCode(f.New(controller.ErrWriteOutput)))
	assert.Equal(t, exitSaveState, exitCode(f.New(controller.ErrSaveState)))
	assert.Equal(t, exitConfig, exitCode(f.New(errors.ErrInvalidLogLevel)))
}
