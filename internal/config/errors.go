package config

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	ErrParseFlags = errors.ErrorCode("parse_flags_failed")
	ErrNotInteger = errors.ErrorCode("not_an_integer")
	ErrZeroValue  = errors.ErrorCode("zero_value")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrParseFlags: "Failed to parse flags",
		ErrNotInteger: "Not an integer",
		ErrZeroValue:  "Zero is not accepted (use --allow-zero)",
	})
}
