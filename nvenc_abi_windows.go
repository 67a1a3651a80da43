//go:build windows

package nvcodec

import (
	"github.com/ebitengine/purego"
)

// The Windows x64 convention passes structs wider than eight bytes by
// reference to a caller-owned copy.

func bindGUIDCount(addr uintptr) func(uintptr, GUID, *uint32) EncodeStatus {
	var raw func(encoder uintptr, g *GUID, count *uint32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, count *uint32) EncodeStatus {
		return raw(encoder, &g, count)
	}
}

func bindGUIDList[T any](addr uintptr) func(uintptr, GUID, *T, uint32, *uint32) EncodeStatus {
	var raw func(encoder uintptr, g *GUID, out *T, size uint32, count *uint32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, out *T, size uint32, count *uint32) EncodeStatus {
		return raw(encoder, &g, out, size, count)
	}
}

func bindGUIDCaps(addr uintptr) func(uintptr, GUID, *capsParam, *int32) EncodeStatus {
	var raw func(encoder uintptr, g *GUID, params *capsParam, value *int32) EncodeStatus
	purego.RegisterFunc(&raw, addr)
	return func(encoder uintptr, g GUID, params *capsParam, value *int32) EncodeStatus {
		return raw(encoder, &g, params, value)
	}
}
