// Package pid guards against overlapping runs with a PID file.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"golang.org/x/sys/unix"
)

const (
	defaultFilePerm = 0o644
	maxAttempts     = 3
)

// File is an acquired PID file.
type File struct {
	path string
}

// Acquire creates path holding the current process ID. It fails with
// errors.ErrAlreadyRunning if the file names a live process other than this
// one; a stale or unreadable file is replaced.
func Acquire(path string) (*File, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := create(path)
		if err == nil {
			return &File{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, errFactory.Wrap(errors.ErrInternal, err)
		}

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrInternal, err)
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && pid != os.Getpid() && alive(pid) {
			return nil, errFactory.WithData(errors.ErrAlreadyRunning, pid)
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrInternal, err)
		}
	}

	// Another process keeps winning the create.
	return nil, errFactory.New(errors.ErrAlreadyRunning)
}

// create publishes a file holding the current process ID at path, failing
// with an os.IsExist error if path already exists. The link makes the file
// appear with its content already written.
func create(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Link(tmp.Name(), path)
}

// alive reports whether a process with pid exists. EPERM means it exists but
// belongs to another user.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

// Release removes the PID file if it still holds this process ID.
func (f *File) Release() error {
	if f == nil {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		return nil
	}

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}
