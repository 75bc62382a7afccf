package state

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	ErrStoreUnavailable = errors.ErrorCode("store_unavailable")
	ErrStoreCorrupt     = errors.ErrorCode("store_corrupt")
	ErrInvalidState     = errors.ErrorCode("invalid_state")
	ErrStoreUnwritable  = errors.ErrorCode("store_unwritable")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrStoreUnavailable: "Error reading fan status file",
		ErrStoreCorrupt:     "Fan status file is corrupt",
		ErrInvalidState:     "Invalid fan state",
		ErrStoreUnwritable:  "Error writing fan status file",
	})
}
