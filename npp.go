package nvcodec

import (
	"unsafe"

	"github.com/sirupsen/logrus"
)

// nppStreamContext is NppStreamContext: the stream and the device
// properties the _Ctx primitives tune their launches with.
type nppStreamContext struct {
	Stream                      uintptr
	DeviceID                    int32
	MultiProcessorCount         int32
	MaxThreadsPerMultiProcessor int32
	MaxThreadsPerBlock          int32
	SharedMemPerBlock           uintptr
	ComputeCapabilityMajor      int32
	ComputeCapabilityMinor      int32
	StreamFlags                 uint32
	Reserved0                   int32
}

// words returns the struct as the six eightbytes it occupies in memory.
func (c *nppStreamContext) words() [6]uint64 {
	return *(*[6]uint64)(unsafe.Pointer(c))
}

// nppiSize is NppiSize packed into one register: width in the low half.
type nppiSize uint64

func packSize(width, height int32) nppiSize {
	return nppiSize(uint32(width)) | nppiSize(uint32(height))<<32
}

func (s nppiSize) dims() (width, height int32) {
	return int32(uint32(s)), int32(uint32(s >> 32))
}

// nv12Conversion is the shape of the nppiNV12To*_8u_P2C3R_Ctx primitives.
type nv12Conversion func(src *[2]uintptr, srcStep int32, dst uintptr, dstStep int32, size nppiSize, ctx *nppStreamContext) NppStatus

// nppFuncs is the NPP function table across nppc and nppicc.
type nppFuncs struct {
	GetStream        func() uintptr
	SetStream        func(stream uintptr) NppStatus
	GetStreamContext func(ctx *nppStreamContext) NppStatus

	NV12ToRGB nv12Conversion
	NV12ToBGR nv12Conversion
}

func (f *nppFuncs) coreSymbols() []symbol {
	return []symbol{
		{name: "nppGetStream", fn: &f.GetStream, optional: true},
		{name: "nppSetStream", fn: &f.SetStream, optional: true},
		{name: "nppGetStreamContext", fn: &f.GetStreamContext},
	}
}

// bindColor resolves the conversion primitives from nppicc through the
// platform binder.
func (f *nppFuncs) bindColor(lib *dynLib) error {
	for _, c := range []struct {
		name string
		fn   *nv12Conversion
	}{
		{"nppiNV12ToRGB_8u_P2C3R_Ctx", &f.NV12ToRGB},
		{"nppiNV12ToBGR_8u_P2C3R_Ctx", &f.NV12ToBGR},
	} {
		addr, err := lookupSymbol(lib.handle, c.name)
		if err != nil || addr == 0 {
			return &LoadError{
				Library: lib.id.String(),
				Err:     &EntryPointError{Library: lib.id.String(), Symbol: c.name},
			}
		}
		*c.fn = bindNV12Conversion(addr)
	}
	return nil
}

// NPP is the loaded NPP colour conversion libraries.
type NPP struct {
	*library
	fn nppFuncs
}

// LoadNPP loads nppc and nppicc from the CUDA toolkit.
func LoadNPP(opts ...Option) (*NPP, error) {
	o := newOptions(opts)
	core, err := loadLibrary(libNppc, o.cfg)
	if err != nil {
		return nil, err
	}
	color, err := loadLibrary(libNppicc, o.cfg)
	if err != nil {
		_ = core.close()
		return nil, err
	}
	libs := []*dynLib{core, color}

	n := &NPP{}
	if err := core.bind(n.fn.coreSymbols()); err != nil {
		closeAll(libs)
		return nil, err
	}
	if err := n.fn.bindColor(color); err != nil {
		closeAll(libs)
		return nil, err
	}
	n.library = newLibrary(SubsystemImage, o.log, libs...)
	markAvailable(SubsystemImage)
	n.log.WithField("path", color.path).Debug("loaded NPP")
	return n, nil
}

// newNPP wraps an already populated function table.
func newNPP(fn nppFuncs, log logrus.FieldLogger) *NPP {
	return &NPP{
		library: newLibrary(SubsystemImage, log),
		fn:      fn,
	}
}
