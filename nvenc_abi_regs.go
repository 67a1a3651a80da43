//go:build !windows

package nvcodec

import (
	"github.com/ebitengine/purego"
)

// SysV amd64 and AAPCS64 pass a 16-byte GUID by value in two integer
// registers, so each GUID argument is lowered to its two eightbytes.

func bindGUIDCount(addr uintptr) func(uintptr, GUID, *uint32) EncodeStatus {
	var raw func(encoder uintptr, lo, hi uint64, count *uint32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, count *uint32) EncodeStatus {
		lo, hi := g.words()
		return raw(encoder, lo, hi, count)
	}
}

func bindGUIDList[T any](addr uintptr) func(uintptr, GUID, *T, uint32, *uint32) EncodeStatus {
	var raw func(encoder uintptr, lo, hi uint64, out *T, size uint32, count *uint32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, out *T, size uint32, count *uint32) EncodeStatus {
		lo, hi := g.words()
		return raw(encoder, lo, hi, out, size, count)
	}
}

func bindGUIDCaps(addr uintptr) func(uintptr, GUID, *capsParam, *int32) EncodeStatus {
	var raw func(encoder uintptr, lo, hi uint64, params *capsParam, value *int32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, params *capsParam, value *int32) EncodeStatus {
		lo, hi := g.words()
		return raw(encoder, lo, hi, params, value)
	}
}
