package pid_test

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnv = "PIFANCTL_PID_HELPER"

// TestMain lets the test binary act as a competing process: with helperEnv set
// it acquires the file named by it, prints the outcome and holds the lock
// until stdin closes.
func TestMain(m *testing.M) {
	if path := os.Getenv(helperEnv); path != "" {
		f, err := pid.Acquire(path)
		if err != nil {
			fmt.Println("busy")
			os.Exit(0)
		}
		fmt.Println("ok")
		_, _ = io.Copy(io.Discard, os.Stdin)
		_ = f.Release()
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func TestAcquireIsExclusiveAcrossProcesses(t *testing.T) {
	const procs = 8
	path := filepath.Join(t.TempDir(), "pifanctl.pid")

	type helper struct {
		cmd   *exec.Cmd
		stdin io.WriteCloser
		out   *bufio.Reader
	}

	helpers := make([]helper, 0, procs)
	t.Cleanup(func() {
		for _, h := range helpers {
			_ = h.stdin.Close()
			_ = h.cmd.Wait()
		}
	})

	for i := 0; i < procs; i++ {
		cmd := exec.Command(os.Args[0], "-test.run=^$")
		cmd.Env = append(os.Environ(), helperEnv+"="+path)
		stdin, err := cmd.StdinPipe()
		require.NoError(t, err)
		stdout, err := cmd.StdoutPipe()
		require.NoError(t, err)
		require.NoError(t, cmd.Start())
		helpers = append(helpers, helper{cmd: cmd, stdin: stdin, out: bufio.NewReader(stdout)})
	}

	winners := 0
	for _, h := range helpers {
		line, err := h.out.ReadString('\n')
		require.NoError(t, err)
		if line == "ok\n" {
			winners++
		}
	}

	assert.Equal(t, 1, winners)
}

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "pifanctl.pid")

	f, err := pid.Acquire(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))

	require.NoError(t, f.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireRejectsLiveProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	path := filepath.Join(t.TempDir(), "pifanctl.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o600))

	_, err := pid.Acquire(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestAcquireReplacesStaleFile(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	path := filepath.Join(t.TempDir(), "pifanctl.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o600))

	f, err := pid.Acquire(path)
	require.NoError(t, err)
	defer f.Release()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
}

func TestAcquireReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pifanctl.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o600))

	f, err := pid.Acquire(path)
	require.NoError(t, err)
	require.NoError(t, f.Release())
}

func TestReleaseLeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pifanctl.pid")

	f, err := pid.Acquire(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o600))
	require.NoError(t, f.Release())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReleaseNil(t *testing.T) {
	var f *pid.File
	assert.NoError(t, f.Release())
}
