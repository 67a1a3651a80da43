package nvcodec

import (
	"errors"
	"fmt"
	"sync"
)

// DevicePtr is a CUdeviceptr: an address in device memory.
type DevicePtr uintptr

// Offset returns p advanced by n bytes.
func (p DevicePtr) Offset(n uintptr) DevicePtr { return p + DevicePtr(n) }

// DeviceMemory owns a device allocation made on a Context. Rows are Pitch
// bytes apart; a linear allocation has a single row.
type DeviceMemory struct {
	ctx      *Context
	ptr      DevicePtr
	pitch    int
	rowBytes int
	rows     int
	id       uint64

	once sync.Once
}

// Alloc allocates size bytes of linear device memory.
func (c *Context) Alloc(size int) (*DeviceMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cuMemAlloc_v2: %w", CudaErrorInvalidValue)
	}
	f := &c.cuda.fn
	if f.MemAlloc == nil {
		return nil, c.cuda.unsupported("cuMemAlloc_v2")
	}
	return c.alloc("cuMemAlloc_v2", size, 1, func(ptr *uintptr) (int, CudaResult) {
		return size, f.MemAlloc(ptr, uintptr(size))
	})
}

// AllocPitch allocates height rows of widthBytes each, padded by the
// driver for coalesced access. elementSize must be 4, 8 or 16.
func (c *Context) AllocPitch(widthBytes, height int, elementSize uint32) (*DeviceMemory, error) {
	if widthBytes <= 0 || height <= 0 {
		return nil, fmt.Errorf("cuMemAllocPitch_v2: %w", CudaErrorInvalidValue)
	}
	f := &c.cuda.fn
	if f.MemAllocPitch == nil {
		return nil, c.cuda.unsupported("cuMemAllocPitch_v2")
	}
	return c.alloc("cuMemAllocPitch_v2", widthBytes, height, func(ptr *uintptr) (int, CudaResult) {
		var pitch uintptr
		res := f.MemAllocPitch(ptr, &pitch, uintptr(widthBytes), uintptr(height), elementSize)
		return int(pitch), res
	})
}

// AllocNV12 allocates a pitched NV12 surface: height luma rows followed by
// height/2 interleaved chroma rows.
func (c *Context) AllocNV12(width, height int) (*DeviceMemory, error) {
	return c.AllocPitch(width, frameRows(PixelFormatNV12, height), 4)
}

// AllocFrame allocates a pitched width x height image of format and
// returns it together with its frame descriptor.
func (c *Context) AllocFrame(width, height int, format PixelFormat) (*DeviceMemory, DeviceFrame, error) {
	if format.PlaneCount() == 0 {
		return nil, DeviceFrame{}, fmt.Errorf("%w: %s frames", ErrNotSupported, format)
	}
	m, err := c.AllocPitch(format.RowBytes(width), frameRows(format, height), 4)
	if err != nil {
		return nil, DeviceFrame{}, err
	}
	return m, m.Frame(width, height, format), nil
}

func (c *Context) alloc(op string, rowBytes, rows int, call func(ptr *uintptr) (int, CudaResult)) (*DeviceMemory, error) {
	m := &DeviceMemory{ctx: c, rowBytes: rowBytes, rows: rows}
	err := c.withHandle(func(uintptr) error {
		var ptr uintptr
		var pitch int
		err := c.withCurrent(func() error {
			var res CudaResult
			pitch, res = call(&ptr)
			return checkStatus(res)
		})
		if err != nil {
			return err
		}
		if ptr == 0 {
			return ErrNullHandle
		}
		m.ptr = DevicePtr(ptr)
		m.pitch = pitch
		m.id = c.children.add(m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// Ptr returns the device address of the first row.
func (m *DeviceMemory) Ptr() DevicePtr { return m.ptr }

// Pitch returns the distance between rows in bytes.
func (m *DeviceMemory) Pitch() int { return m.pitch }

// Size returns the allocated size in bytes.
func (m *DeviceMemory) Size() int { return m.pitch * m.rows }

// CopyFromHost uploads src, which holds rows of RowBytes packed back to
// back, honouring the device pitch.
func (m *DeviceMemory) CopyFromHost(src []byte) error {
	f := &m.ctx.cuda.fn
	if f.MemcpyHtoD == nil {
		return m.ctx.cuda.unsupported("cuMemcpyHtoD_v2")
	}
	if len(src) < m.rowBytes*m.rows {
		return errors.New("nvcodec: host buffer smaller than device allocation")
	}
	return m.ctx.withHandle(func(uintptr) error {
		return m.ctx.withCurrent(func() error {
			for row := 0; row < m.rows; row++ {
				dst := uintptr(m.ptr.Offset(uintptr(row * m.pitch)))
				if err := checkStatus(f.MemcpyHtoD(dst, &src[row*m.rowBytes], uintptr(m.rowBytes))); err != nil {
					return fmt.Errorf("cuMemcpyHtoD_v2: %w", err)
				}
			}
			return nil
		})
	})
}

// CopyToHost downloads the allocation into dst, dropping the pitch padding.
func (m *DeviceMemory) CopyToHost(dst []byte) error {
	f := &m.ctx.cuda.fn
	if f.MemcpyDtoH == nil {
		return m.ctx.cuda.unsupported("cuMemcpyDtoH_v2")
	}
	if len(dst) < m.rowBytes*m.rows {
		return errors.New("nvcodec: host buffer smaller than device allocation")
	}
	return m.ctx.withHandle(func(uintptr) error {
		return m.ctx.withCurrent(func() error {
			for row := 0; row < m.rows; row++ {
				src := uintptr(m.ptr.Offset(uintptr(row * m.pitch)))
				if err := checkStatus(f.MemcpyDtoH(&dst[row*m.rowBytes], src, uintptr(m.rowBytes))); err != nil {
					return fmt.Errorf("cuMemcpyDtoH_v2: %w", err)
				}
			}
			return nil
		})
	})
}

// Close frees the allocation. A failing free is logged, not returned.
func (m *DeviceMemory) Close() {
	m.ctx.mu.Lock()
	defer m.ctx.mu.Unlock()
	m.closeLocked()
}

func (m *DeviceMemory) closeLocked() {
	m.once.Do(func() {
		m.ctx.children.remove(m.id)
		c := m.ctx.cuda
		if c.fn.MemFree == nil {
			logReleaseFailure(c.log, "device memory", c.unsupported("cuMemFree_v2"))
			return
		}
		err := m.ctx.withCurrent(func() error {
			return checkStatus(c.fn.MemFree(uintptr(m.ptr)))
		})
		if err != nil {
			logReleaseFailure(c.log, "device memory", err)
		}
	})
}
