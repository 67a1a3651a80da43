package nvcodec

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when an entry point was not resolved from
	// the loaded library, usually because the driver is older than the
	// binding expects.
	ErrNotSupported = errors.New("nvcodec: entry point not supported")

	// ErrLibraryInUse is returned by Close on a library while contexts or
	// sessions created through it are still open.
	ErrLibraryInUse = errors.New("nvcodec: library still in use")

	// ErrClosed is returned when a closed library, context, stream or
	// session is used.
	ErrClosed = errors.New("nvcodec: use of closed handle")

	// ErrNullHandle is returned when the driver reports success but hands
	// back a null handle.
	ErrNullHandle = errors.New("nvcodec: driver returned a null handle")

	// ErrInvalidPitch is returned by the colour conversions when a pitch is
	// negative or narrower than a row of the image.
	ErrInvalidPitch = errors.New("nvcodec: invalid pitch")

	// ErrDriverVersion is returned when the installed driver cannot serve
	// the API version this package is built against.
	ErrDriverVersion = errors.New("nvcodec: driver too old")
)

// LoadError reports a library that could not be loaded or bound.
type LoadError struct {
	Library string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("nvcodec: load %s: %v", e.Library, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EntryPointError names an entry point missing from a loaded library.
// It matches ErrNotSupported with errors.Is.
type EntryPointError struct {
	Library string
	Symbol  string
}

func (e *EntryPointError) Error() string {
	return fmt.Sprintf("nvcodec: %s does not export %s", e.Library, e.Symbol)
}

func (e *EntryPointError) Is(target error) bool { return target == ErrNotSupported }
