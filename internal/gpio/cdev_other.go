//go:build !linux

package gpio

import "codeberg.org/mutker/pifanctl/internal/errors"

type cdevOutput struct{}

func newCdev(string) Output {
	return cdevOutput{}
}

func (cdevOutput) Initialize() error {
	return errors.New().WithData(ErrUnsupported, DriverCdev)
}

func (cdevOutput) SetMode(int, Mode) error {
	return errors.New().New(ErrNotInitialized)
}

func (cdevOutput) Write(int, Level) error {
	return errors.New().New(ErrNotInitialized)
}

func (cdevOutput) Close() error {
	return nil
}
