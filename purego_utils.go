// Shared utilities for the purego bindings.

package nvcodec

import (
	"bytes"
	"unsafe"
)

// maxCStringLen bounds the scan for the terminator of a C string owned by
// a native library. Longer strings are truncated.
const maxCStringLen = 1024

// goStringFromPtr converts a C string pointer owned by the native library
// to a Go string of at most maxCStringLen bytes.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	length := 0
	for length < maxCStringLen && *(*byte)(unsafe.Add(p, length)) != 0 {
		length++
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// cString returns the NUL-terminated prefix of a buffer filled by C.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
