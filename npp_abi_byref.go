//go:build !amd64 || windows

package nvcodec

import (
	"github.com/ebitengine/purego"
)

// AAPCS64 and Windows x64 pass the 48-byte NppStreamContext by reference
// to a caller-owned copy, which is exactly a pointer argument.
func bindNV12Conversion(addr uintptr) nv12Conversion {
	var raw func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size uint64, ctx *nppStreamContext) NppStatus
	purego.RegisterFunc(&raw, addr)
	return func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size nppiSize, ctx *nppStreamContext) NppStatus {
		return raw(src, srcStep, dst, dstStep, uint64(size), ctx)
	}
}
