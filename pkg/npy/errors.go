package npy

import "errors"

var (
	// ErrFormat reports a file that is not valid .npy: bad magic,
	// malformed header text, misaligned data or a size mismatch.
	ErrFormat = errors.New("npy: invalid file format")

	// ErrUnsupported reports a well-formed file outside the supported
	// subset: an unknown major version or a dtype other than the twelve
	// <kind><width> codes.
	ErrUnsupported = errors.New("npy: unsupported version or dtype")

	// ErrRange reports a size that exceeds a configured or physical
	// limit: an oversized header claim, an overflowing byte-size
	// computation or an assembly buffer that is too small.
	ErrRange = errors.New("npy: size out of range")

	// ErrTypeMismatch reports a typed accessor applied to an array
	// whose dtype does not match the requested element type.
	ErrTypeMismatch = errors.New("npy: element type mismatch")
)
