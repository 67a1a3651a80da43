package nvcodec

// DeviceAttribute is a CUdevice_attribute.
type DeviceAttribute int32

// A subset of CUdevice_attribute.
const (
	AttrMaxThreadsPerBlock          DeviceAttribute = 1
	AttrMaxSharedMemoryPerBlock     DeviceAttribute = 8
	AttrWarpSize                    DeviceAttribute = 10
	AttrMaxPitch                    DeviceAttribute = 11
	AttrClockRate                   DeviceAttribute = 13
	AttrMultiprocessorCount         DeviceAttribute = 16
	AttrIntegrated                  DeviceAttribute = 18
	AttrComputeMode                 DeviceAttribute = 20
	AttrConcurrentKernels           DeviceAttribute = 31
	AttrPCIBusID                    DeviceAttribute = 33
	AttrPCIDeviceID                 DeviceAttribute = 34
	AttrMemoryClockRate             DeviceAttribute = 36
	AttrGlobalMemoryBusWidth        DeviceAttribute = 37
	AttrMaxThreadsPerMultiprocessor DeviceAttribute = 39
	AttrAsyncEngineCount            DeviceAttribute = 40
	AttrPCIDomainID                 DeviceAttribute = 50
	AttrComputeCapabilityMajor      DeviceAttribute = 75
	AttrComputeCapabilityMinor      DeviceAttribute = 76
)

// deviceNameLen is the buffer handed to cuDeviceGetName.
const deviceNameLen = 256

// Device names a physical GPU. It owns nothing and may be copied freely,
// but must not be used after the Cuda it came from is closed.
type Device struct {
	cuda    *Cuda
	ordinal int
	handle  int32
}

// Ordinal returns the index the device was looked up with.
func (d Device) Ordinal() int { return d.ordinal }

// Name returns the device's marketing name.
func (d Device) Name() (string, error) {
	if d.cuda == nil {
		return "", CudaErrorInvalidDevice
	}
	if d.cuda.fn.DeviceGetName == nil {
		return "", d.cuda.unsupported("cuDeviceGetName")
	}
	buf := make([]byte, deviceNameLen)
	if err := checkStatus(d.cuda.fn.DeviceGetName(&buf[0], int32(len(buf)), d.handle)); err != nil {
		return "", err
	}
	return cString(buf), nil
}

// TotalMemory returns the device memory size in bytes.
func (d Device) TotalMemory() (uint64, error) {
	if d.cuda == nil {
		return 0, CudaErrorInvalidDevice
	}
	if d.cuda.fn.DeviceTotalMem == nil {
		return 0, d.cuda.unsupported("cuDeviceTotalMem_v2")
	}
	var n uint64
	res := d.cuda.fn.DeviceTotalMem(&n, d.handle)
	return statusValue(res, n)
}

// Attribute queries a single device attribute.
func (d Device) Attribute(attr DeviceAttribute) (int, error) {
	if d.cuda == nil {
		return 0, CudaErrorInvalidDevice
	}
	if d.cuda.fn.DeviceGetAttribute == nil {
		return 0, d.cuda.unsupported("cuDeviceGetAttribute")
	}
	var v int32
	res := d.cuda.fn.DeviceGetAttribute(&v, attr, d.handle)
	return statusValue(res, int(v))
}

// ComputeCapability returns the SM version, e.g. 8, 6 for an RTX 30xx.
func (d Device) ComputeCapability() (major, minor int, err error) {
	if major, err = d.Attribute(AttrComputeCapabilityMajor); err != nil {
		return 0, 0, err
	}
	if minor, err = d.Attribute(AttrComputeCapabilityMinor); err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}
