package nvcodec

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// cudaFuncs is the CUDA driver function table. A nil entry was not
// resolved and reports ErrNotSupported when called through the wrappers.
type cudaFuncs struct {
	Init               func(flags uint32) CudaResult
	DriverGetVersion   func(version *int32) CudaResult
	DeviceGetCount     func(count *int32) CudaResult
	DeviceGet          func(device *int32, ordinal int32) CudaResult
	DeviceGetName      func(name *byte, length int32, device int32) CudaResult
	DeviceTotalMem     func(bytes *uint64, device int32) CudaResult
	DeviceGetAttribute func(value *int32, attr DeviceAttribute, device int32) CudaResult

	CtxCreate        func(ctx *uintptr, flags ContextFlags, device int32) CudaResult
	CtxDestroy       func(ctx uintptr) CudaResult
	CtxPushCurrent   func(ctx uintptr) CudaResult
	CtxPopCurrent    func(ctx *uintptr) CudaResult
	CtxGetAPIVersion func(ctx uintptr, version *uint32) CudaResult
	CtxSynchronize   func() CudaResult

	StreamCreate      func(stream *uintptr, flags uint32) CudaResult
	StreamDestroy     func(stream uintptr) CudaResult
	StreamSynchronize func(stream uintptr) CudaResult
	StreamQuery       func(stream uintptr) CudaResult

	MemAlloc      func(dptr *uintptr, size uintptr) CudaResult
	MemAllocPitch func(dptr *uintptr, pitch *uintptr, widthBytes, height uintptr, elementSize uint32) CudaResult
	MemFree       func(dptr uintptr) CudaResult
	MemcpyHtoD    func(dst uintptr, src *byte, size uintptr) CudaResult
	MemcpyDtoH    func(dst *byte, src uintptr, size uintptr) CudaResult

	GetErrorName func(code CudaResult, name *uintptr) CudaResult
}

func (f *cudaFuncs) symbols() []symbol {
	return []symbol{
		{name: "cuInit", fn: &f.Init},
		{name: "cuDriverGetVersion", fn: &f.DriverGetVersion},
		{name: "cuDeviceGetCount", fn: &f.DeviceGetCount},
		{name: "cuDeviceGet", fn: &f.DeviceGet},
		{name: "cuDeviceGetName", fn: &f.DeviceGetName},
		{name: "cuDeviceTotalMem_v2", fn: &f.DeviceTotalMem},
		{name: "cuDeviceGetAttribute", fn: &f.DeviceGetAttribute},

		{name: "cuCtxCreate_v2", fn: &f.CtxCreate},
		{name: "cuCtxDestroy_v2", fn: &f.CtxDestroy},
		{name: "cuCtxPushCurrent_v2", fn: &f.CtxPushCurrent},
		{name: "cuCtxPopCurrent_v2", fn: &f.CtxPopCurrent},
		{name: "cuCtxGetApiVersion", fn: &f.CtxGetAPIVersion, optional: true},
		{name: "cuCtxSynchronize", fn: &f.CtxSynchronize, optional: true},

		{name: "cuStreamCreate", fn: &f.StreamCreate},
		{name: "cuStreamDestroy_v2", fn: &f.StreamDestroy},
		{name: "cuStreamSynchronize", fn: &f.StreamSynchronize, optional: true},
		{name: "cuStreamQuery", fn: &f.StreamQuery, optional: true},

		{name: "cuMemAlloc_v2", fn: &f.MemAlloc, optional: true},
		{name: "cuMemAllocPitch_v2", fn: &f.MemAllocPitch, optional: true},
		{name: "cuMemFree_v2", fn: &f.MemFree, optional: true},
		{name: "cuMemcpyHtoD_v2", fn: &f.MemcpyHtoD, optional: true},
		{name: "cuMemcpyDtoH_v2", fn: &f.MemcpyDtoH, optional: true},

		{name: "cuGetErrorName", fn: &f.GetErrorName, optional: true},
	}
}

// Cuda is a loaded CUDA driver library. Devices and contexts borrow it;
// Close fails while any context is open.
type Cuda struct {
	*library
	fn cudaFuncs
}

// LoadCuda loads and binds the CUDA driver library. It does not
// initialise the driver; call Init once per process.
func LoadCuda(opts ...Option) (*Cuda, error) {
	o := newOptions(opts)
	lib, err := loadLibrary(libCuda, o.cfg)
	if err != nil {
		return nil, err
	}
	c := &Cuda{}
	if err := lib.bind(c.fn.symbols()); err != nil {
		_ = lib.close()
		return nil, err
	}
	c.library = newLibrary(SubsystemDriver, o.log, lib)
	markAvailable(SubsystemDriver)
	c.log.WithField("path", lib.path).Debug("loaded CUDA driver")
	return c, nil
}

// newCuda wraps an already populated function table.
func newCuda(fn cudaFuncs, log logrus.FieldLogger) *Cuda {
	return &Cuda{
		library: newLibrary(SubsystemDriver, log),
		fn:      fn,
	}
}

// Init initialises the driver. It must precede every other call.
func (c *Cuda) Init(flags uint32) error {
	if c.fn.Init == nil {
		return c.unsupported("cuInit")
	}
	return checkStatus(c.fn.Init(flags))
}

// DriverVersion returns the driver API version, e.g. 12040 for 12.4.
func (c *Cuda) DriverVersion() (int, error) {
	if c.fn.DriverGetVersion == nil {
		return 0, c.unsupported("cuDriverGetVersion")
	}
	var v int32
	res := c.fn.DriverGetVersion(&v)
	return statusValue(res, int(v))
}

// DeviceCount returns the number of CUDA capable devices.
func (c *Cuda) DeviceCount() (int, error) {
	if c.fn.DeviceGetCount == nil {
		return 0, c.unsupported("cuDeviceGetCount")
	}
	var n int32
	res := c.fn.DeviceGetCount(&n)
	return statusValue(res, int(n))
}

// Device returns the device with the given ordinal.
func (c *Cuda) Device(ordinal int) (Device, error) {
	if c.fn.DeviceGet == nil {
		return Device{}, c.unsupported("cuDeviceGet")
	}
	if ordinal < 0 {
		return Device{}, CudaErrorInvalidDevice
	}
	d := Device{cuda: c, ordinal: ordinal}
	res := c.fn.DeviceGet(&d.handle, int32(ordinal))
	return statusValue(res, d)
}

// ErrorName returns the driver's name for r, falling back to the names
// compiled into this package.
func (c *Cuda) ErrorName(r CudaResult) string {
	if c.fn.GetErrorName != nil {
		var p uintptr
		if c.fn.GetErrorName(r, &p).Ok() && p != 0 {
			return goStringFromPtr(p)
		}
	}
	return r.String()
}

// NewContext creates a context on dev. The context is not left current on
// the calling thread.
func (c *Cuda) NewContext(dev Device, flags ContextFlags) (*Context, error) {
	if c.fn.CtxCreate == nil || c.fn.CtxPopCurrent == nil {
		return nil, c.unsupported("cuCtxCreate_v2")
	}
	if dev.cuda != c {
		return nil, fmt.Errorf("cuCtxCreate_v2: %w", CudaErrorInvalidDevice)
	}
	if err := c.acquire(); err != nil {
		return nil, err
	}

	var handle uintptr
	err := pinThread(func() error {
		if err := checkStatus(c.fn.CtxCreate(&handle, flags, dev.handle)); err != nil {
			return err
		}
		if handle == 0 {
			return ErrNullHandle
		}
		// cuCtxCreate makes the new context current; undo that so the
		// thread is left as it was found.
		return checkStatus(c.fn.CtxPopCurrent(nil))
	})
	if err != nil {
		if handle != 0 && c.fn.CtxDestroy != nil {
			if derr := checkStatus(c.fn.CtxDestroy(handle)); derr != nil {
				logReleaseFailure(c.log, "context", derr)
			}
		}
		c.release()
		return nil, fmt.Errorf("cuCtxCreate_v2: %w", err)
	}

	ctx := &Context{
		cuda:   c,
		device: dev,
		handle: handle,
	}
	c.log.WithField("device", dev.ordinal).Debug("created CUDA context")
	return ctx, nil
}
