// Package state persists the last commanded fan state between runs.
package state

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/fan"
)

const (
	DefaultPath = "/var/lib/pifanctl/status"

	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// Store loads and saves the fan state.
type Store interface {
	Load() (fan.State, error)
	Save(s fan.State) error
}

// FileStore keeps the state as a single ASCII integer in a file.
type FileStore struct {
	path string
}

// NewFileStore returns a store at path, or DefaultPath if empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}

	return &FileStore{path: path}
}

// Path returns the status file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (fan.State, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fan.Off, errFactory.Wrap(ErrStoreUnavailable, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) != 1 {
		return fan.Off, errFactory.WithData(ErrStoreCorrupt, struct {
			Path   string
			Tokens int
		}{
			Path:   s.path,
			Tokens: len(fields),
		})
	}

	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return fan.Off, errFactory.Wrap(ErrStoreCorrupt, err)
	}

	st := fan.State(v)
	if !st.Valid() {
		return fan.Off, errFactory.WithData(ErrStoreCorrupt, st)
	}

	return st, nil
}

// Save overwrites the status file with st. Invalid states are rejected before
// anything is written.
func (s *FileStore) Save(st fan.State) error {
	errFactory := errors.New()

	if !st.Valid() {
		return errFactory.WithData(ErrInvalidState, int(st))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(strconv.Itoa(int(st)) + "\n"); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return errFactory.Wrap(ErrStoreUnwritable, err)
	}
	committed = true

	return nil
}
