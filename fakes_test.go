package nvcodec

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeDriver is an in-memory CUDA driver that records every call and
// models the per-thread current-context stack.
type fakeDriver struct {
	mu      sync.Mutex
	calls   []string
	next    uintptr
	current []uintptr
	devices int

	nullContext      bool
	createErr        CudaResult
	pushErr          CudaResult
	popErr           CudaResult
	ctxDestroyErr    CudaResult
	streamCreateErr  CudaResult
	nullStream       bool
	streamDestroyErr CudaResult
	memFreeErr       CudaResult
	pitch            uintptr
	device           map[uintptr][]byte
}

func (d *fakeDriver) record(format string, args ...any) {
	d.mu.Lock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	d.mu.Unlock()
}

func (d *fakeDriver) handle() uintptr {
	d.next += 0x100
	return d.next
}

func (d *fakeDriver) funcs() cudaFuncs {
	return cudaFuncs{
		Init: func(flags uint32) CudaResult {
			d.record("init %d", flags)
			return CudaSuccess
		},
		DriverGetVersion: func(v *int32) CudaResult {
			*v = 12040
			return CudaSuccess
		},
		DeviceGetCount: func(n *int32) CudaResult {
			*n = int32(d.devices)
			return CudaSuccess
		},
		DeviceGet: func(dev *int32, ordinal int32) CudaResult {
			if ordinal >= int32(d.devices) {
				return CudaErrorInvalidDevice
			}
			*dev = ordinal
			return CudaSuccess
		},
		DeviceGetName: func(name *byte, length int32, dev int32) CudaResult {
			buf := unsafe.Slice(name, length)
			copy(buf, fmt.Sprintf("Fake GPU %d\x00", dev))
			return CudaSuccess
		},
		DeviceTotalMem: func(bytes *uint64, dev int32) CudaResult {
			*bytes = 8 << 30
			return CudaSuccess
		},
		DeviceGetAttribute: func(v *int32, attr DeviceAttribute, dev int32) CudaResult {
			switch attr {
			case AttrComputeCapabilityMajor:
				*v = 8
			case AttrComputeCapabilityMinor:
				*v = 6
			case AttrMultiprocessorCount:
				*v = 46
			default:
				*v = int32(attr)
			}
			return CudaSuccess
		},
		CtxCreate: func(ctx *uintptr, flags ContextFlags, dev int32) CudaResult {
			d.record("ctxCreate %d", flags)
			if !d.createErr.Ok() {
				return d.createErr
			}
			if d.nullContext {
				return CudaSuccess
			}
			*ctx = d.handle()
			d.current = append(d.current, *ctx)
			return CudaSuccess
		},
		CtxDestroy: func(ctx uintptr) CudaResult {
			d.record("ctxDestroy %#x", ctx)
			return d.ctxDestroyErr
		},
		CtxPushCurrent: func(ctx uintptr) CudaResult {
			d.record("push %#x", ctx)
			if !d.pushErr.Ok() {
				return d.pushErr
			}
			d.current = append(d.current, ctx)
			return CudaSuccess
		},
		CtxPopCurrent: func(ctx *uintptr) CudaResult {
			d.record("pop")
			if !d.popErr.Ok() {
				return d.popErr
			}
			if n := len(d.current); n > 0 {
				if ctx != nil {
					*ctx = d.current[n-1]
				}
				d.current = d.current[:n-1]
			}
			return CudaSuccess
		},
		CtxGetAPIVersion: func(ctx uintptr, v *uint32) CudaResult {
			*v = 3020
			return CudaSuccess
		},
		CtxSynchronize: func() CudaResult {
			d.record("ctxSynchronize")
			return CudaSuccess
		},
		StreamCreate: func(s *uintptr, flags uint32) CudaResult {
			d.record("streamCreate %d", flags)
			if !d.streamCreateErr.Ok() {
				return d.streamCreateErr
			}
			if !d.nullStream {
				*s = d.handle()
			}
			return CudaSuccess
		},
		StreamDestroy: func(s uintptr) CudaResult {
			d.record("streamDestroy %#x", s)
			return d.streamDestroyErr
		},
		StreamSynchronize: func(s uintptr) CudaResult {
			d.record("streamSynchronize %#x", s)
			return CudaSuccess
		},
		StreamQuery: func(s uintptr) CudaResult {
			return CudaErrorNotReady
		},
		MemAlloc: func(ptr *uintptr, size uintptr) CudaResult {
			*ptr = d.alloc(size)
			d.record("memAlloc %d", size)
			return CudaSuccess
		},
		MemAllocPitch: func(ptr *uintptr, pitch *uintptr, width, height uintptr, elem uint32) CudaResult {
			p := d.pitch
			if p < width {
				p = width
			}
			*pitch = p
			*ptr = d.alloc(p * height)
			d.record("memAllocPitch %d %d", width, height)
			return CudaSuccess
		},
		MemFree: func(ptr uintptr) CudaResult {
			d.record("memFree %#x", ptr)
			return d.memFreeErr
		},
		MemcpyHtoD: func(dst uintptr, src *byte, size uintptr) CudaResult {
			base, mem := d.lookup(dst)
			copy(mem[dst-base:], unsafe.Slice(src, size))
			return CudaSuccess
		},
		MemcpyDtoH: func(dst *byte, src uintptr, size uintptr) CudaResult {
			base, mem := d.lookup(src)
			copy(unsafe.Slice(dst, size), mem[src-base:])
			return CudaSuccess
		},
	}
}

func (d *fakeDriver) alloc(size uintptr) uintptr {
	if d.device == nil {
		d.device = map[uintptr][]byte{}
	}
	ptr := d.handle() << 20
	d.device[ptr] = make([]byte, size)
	return ptr
}

func (d *fakeDriver) lookup(addr uintptr) (uintptr, []byte) {
	for base, mem := range d.device {
		if addr >= base && addr < base+uintptr(len(mem)) {
			return base, mem
		}
	}
	panic(fmt.Sprintf("fake driver: %#x is not allocated", addr))
}

func newFakeCuda(t *testing.T) (*fakeDriver, *Cuda, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	d := &fakeDriver{devices: 2, next: 0x1000}
	return d, newCuda(d.funcs(), log), hook
}

func openFakeContext(t *testing.T, c *Cuda) *Context {
	t.Helper()
	dev, err := c.Device(0)
	require.NoError(t, err)
	ctx, err := c.NewContext(dev, ContextSchedAuto)
	require.NoError(t, err)
	return ctx
}

// errorEntries returns the error-level entries the hook captured.
func errorEntries(hook *logtest.Hook) []logrus.Entry {
	var out []logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, *e)
		}
	}
	return out
}

// fakeEncoder is an in-memory NVENC function table.
type fakeEncoder struct {
	calls []string

	handle        uintptr
	openStatus    EncodeStatus
	destroyStatus EncodeStatus
	lastError     string
	params        openSessionParams

	guids    []GUID
	profiles map[GUID][]GUID
	presets  map[GUID][]GUID
	formats  map[GUID][]BufferFormat
	caps     map[EncodeCap]int32

	countStatus EncodeStatus
	fillStatus  EncodeStatus
	lastCodec   GUID
}

func (e *fakeEncoder) record(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func fill[T any](src []T, out *T, size uint32, count *uint32) {
	n := min(uint32(len(src)), size)
	copy(unsafe.Slice(out, size), src[:n])
	*count = n
}

func (e *fakeEncoder) funcs() encodeFuncs {
	return encodeFuncs{
		OpenEncodeSessionEx: func(p *openSessionParams, encoder *uintptr) EncodeStatus {
			e.record("open %#x", p.Device)
			e.params = *p
			*encoder = e.handle
			return e.openStatus
		},
		DestroyEncoder: func(encoder uintptr) EncodeStatus {
			e.record("destroy %#x", encoder)
			return e.destroyStatus
		},
		GetLastErrorString: func(encoder uintptr) string {
			return e.lastError
		},
		GetEncodeGUIDCount: func(encoder uintptr, count *uint32) EncodeStatus {
			e.record("guidCount")
			*count = uint32(len(e.guids))
			return e.countStatus
		},
		GetEncodeGUIDs: func(encoder uintptr, out *GUID, size uint32, count *uint32) EncodeStatus {
			e.record("guids %d", size)
			if !e.fillStatus.Ok() {
				return e.fillStatus
			}
			fill(e.guids, out, size, count)
			return EncodeSuccess
		},
		GetEncodeProfileGUIDCount: func(encoder uintptr, codec GUID, count *uint32) EncodeStatus {
			e.lastCodec = codec
			*count = uint32(len(e.profiles[codec]))
			return EncodeSuccess
		},
		GetEncodeProfileGUIDs: func(encoder uintptr, codec GUID, out *GUID, size uint32, count *uint32) EncodeStatus {
			fill(e.profiles[codec], out, size, count)
			return EncodeSuccess
		},
		GetEncodePresetCount: func(encoder uintptr, codec GUID, count *uint32) EncodeStatus {
			*count = uint32(len(e.presets[codec]))
			return EncodeSuccess
		},
		GetEncodePresetGUIDs: func(encoder uintptr, codec GUID, out *GUID, size uint32, count *uint32) EncodeStatus {
			fill(e.presets[codec], out, size, count)
			return EncodeSuccess
		},
		GetInputFormatCount: func(encoder uintptr, codec GUID, count *uint32) EncodeStatus {
			*count = uint32(len(e.formats[codec]))
			return EncodeSuccess
		},
		GetInputFormats: func(encoder uintptr, codec GUID, out *BufferFormat, size uint32, count *uint32) EncodeStatus {
			fill(e.formats[codec], out, size, count)
			return EncodeSuccess
		},
		GetEncodeCaps: func(encoder uintptr, codec GUID, p *capsParam, v *int32) EncodeStatus {
			e.record("caps %d version %#x", p.CapsToQuery, p.Version)
			val, ok := e.caps[p.CapsToQuery]
			if !ok {
				return EncodeErrUnsupportedParam
			}
			*v = val
			return EncodeSuccess
		},
	}
}

func newFakeEncode(t *testing.T, e *fakeEncoder) (*Encode, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	return newEncode(e.funcs(), log), hook
}

// fakeNPP records the NPP calls and models its global current stream.
type fakeNPP struct {
	calls   []string
	current uintptr

	ctxErr     NppStatus
	convertErr NppStatus

	planes  [2]uintptr
	srcStep int32
	dstStep int32
	dst     uintptr
	size    nppiSize
	ctx     nppStreamContext

	onConvert func()
}

func (n *fakeNPP) record(format string, args ...any) {
	n.calls = append(n.calls, fmt.Sprintf(format, args...))
}

func (n *fakeNPP) convert(name string) nv12Conversion {
	return func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size nppiSize, ctx *nppStreamContext) NppStatus {
		n.record("%s stream %#x", name, ctx.Stream)
		if n.onConvert != nil {
			n.onConvert()
		}
		n.planes = *src
		n.srcStep, n.dstStep = srcStep, dstStep
		n.dst = dst
		n.size = size
		n.ctx = *ctx
		return n.convertErr
	}
}

func (n *fakeNPP) funcs() nppFuncs {
	return nppFuncs{
		GetStream: func() uintptr {
			n.record("getStream")
			return n.current
		},
		SetStream: func(stream uintptr) NppStatus {
			n.record("setStream %#x", stream)
			n.current = stream
			return NppSuccess
		},
		GetStreamContext: func(ctx *nppStreamContext) NppStatus {
			n.record("getStreamContext")
			if !n.ctxErr.Ok() {
				return n.ctxErr
			}
			*ctx = nppStreamContext{Stream: n.current, DeviceID: 0, MultiProcessorCount: 46}
			return NppSuccess
		},
		NV12ToRGB: n.convert("rgb"),
		NV12ToBGR: n.convert("bgr"),
	}
}

func newFakeNPP(t *testing.T, n *fakeNPP) *NPP {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	return newNPP(n.funcs(), log)
}

func newNullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func hexPtr(p uintptr) string {
	return fmt.Sprintf("%#x", p)
}
