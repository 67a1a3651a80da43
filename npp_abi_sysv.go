//go:build amd64 && !windows

package nvcodec

import (
	"github.com/ebitengine/purego"
)

// NppStreamContext is 48 bytes, so SysV passes it in memory on the stack
// after the register arguments. The five real integer arguments leave r9
// free; a placeholder fills it so the six context words land on the stack.
func bindNV12Conversion(addr uintptr) nv12Conversion {
	var raw func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size uint64, _ uintptr,
		c0, c1, c2, c3, c4, c5 uint64) NppStatus
	purego.RegisterFunc(&raw, addr)
	return func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size nppiSize, ctx *nppStreamContext) NppStatus {
		w := ctx.words()
		return raw(src, srcStep, dst, dstStep, uint64(size), 0, w[0], w[1], w[2], w[3], w[4], w[5])
	}
}
