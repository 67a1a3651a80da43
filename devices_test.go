package nvcodec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateDevices(t *testing.T) {
	_, c, hook := newFakeCuda(t)

	devices, err := c.EnumerateDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	for i, d := range devices {
		assert.Equal(t, i, d.Ordinal)
		assert.NotEmpty(t, d.DeviceID)
		assert.NotEmpty(t, d.Label)
	}
	assert.Equal(t, DeviceInfo{
		DeviceID:       "cuda:1",
		Ordinal:        1,
		Label:          "Fake GPU 1",
		TotalMemory:    8 << 30,
		ComputeMajor:   8,
		ComputeMinor:   6,
		Multiprocessor: 46,
		PCIBusID:       int(AttrPCIBusID),
	}, devices[1])

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "enumerated CUDA devices", entry.Message)
	assert.Equal(t, 2, entry.Data["count"])
}

func TestEnumerateDevicesCancelled(t *testing.T) {
	_, c, _ := newFakeCuda(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.EnumerateDevices(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEnumerateDevicesNone(t *testing.T) {
	d, c, _ := newFakeCuda(t)
	d.devices = 0

	devices, err := c.EnumerateDevices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestEnumerateDevicesUnresolved(t *testing.T) {
	d := &fakeDriver{devices: 1, next: 0x1000}
	fn := d.funcs()
	fn.DeviceTotalMem = nil
	log, _ := newNullLogger()
	c := newCuda(fn, log)

	_, err := c.EnumerateDevices(context.Background())
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Contains(t, err.Error(), "device 0")
}
