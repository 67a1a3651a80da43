package nvcodec

import (
	"context"
	"fmt"
)

// DeviceInfo describes a CUDA device.
type DeviceInfo struct {
	DeviceID       string // Stable identifier, "cuda:<ordinal>"
	Ordinal        int    // Ordinal passed to Cuda.Device
	Label          string // Human-readable device name
	TotalMemory    uint64 // Device memory in bytes
	ComputeMajor   int    // SM major version
	ComputeMinor   int    // SM minor version
	Multiprocessor int    // Streaming multiprocessor count
	PCIBusID       int    // PCI bus of the device
}

// Info gathers the device's description.
func (d Device) Info() (DeviceInfo, error) {
	info := DeviceInfo{
		DeviceID: fmt.Sprintf("cuda:%d", d.ordinal),
		Ordinal:  d.ordinal,
	}
	var err error
	if info.Label, err = d.Name(); err != nil {
		return DeviceInfo{}, fmt.Errorf("cuDeviceGetName: %w", err)
	}
	if info.TotalMemory, err = d.TotalMemory(); err != nil {
		return DeviceInfo{}, fmt.Errorf("cuDeviceTotalMem_v2: %w", err)
	}
	if info.ComputeMajor, info.ComputeMinor, err = d.ComputeCapability(); err != nil {
		return DeviceInfo{}, fmt.Errorf("cuDeviceGetAttribute: %w", err)
	}
	if info.Multiprocessor, err = d.Attribute(AttrMultiprocessorCount); err != nil {
		return DeviceInfo{}, fmt.Errorf("cuDeviceGetAttribute: %w", err)
	}
	if info.PCIBusID, err = d.Attribute(AttrPCIBusID); err != nil {
		return DeviceInfo{}, fmt.Errorf("cuDeviceGetAttribute: %w", err)
	}
	return info, nil
}

// EnumerateDevices returns a description of every CUDA device. The driver
// must already be initialised. ctx is checked between devices.
func (c *Cuda) EnumerateDevices(ctx context.Context) ([]DeviceInfo, error) {
	n, err := c.DeviceCount()
	if err != nil {
		return nil, fmt.Errorf("cuDeviceGetCount: %w", err)
	}
	devices := make([]DeviceInfo, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := c.Device(i)
		if err != nil {
			return nil, fmt.Errorf("cuDeviceGet(%d): %w", i, err)
		}
		info, err := d.Info()
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, info)
	}
	c.log.WithField("count", len(devices)).Debug("enumerated CUDA devices")
	return devices, nil
}
