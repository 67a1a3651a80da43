package nvcodec

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// ContextFlags are the CUctx_flags passed to NewContext.
type ContextFlags uint32

const (
	ContextSchedAuto         ContextFlags = 0x00
	ContextSchedSpin         ContextFlags = 0x01
	ContextSchedYield        ContextFlags = 0x02
	ContextSchedBlockingSync ContextFlags = 0x04
	ContextMapHost           ContextFlags = 0x08
	ContextLmemResizeToMax   ContextFlags = 0x10
)

// Context owns a CUDA context. Streams, device allocations and encode
// sessions created from it are tracked and closed before the context
// itself is destroyed.
//
// A Context is not safe for concurrent use except for Close. Children
// close under the context lock, so none of them can be released after the
// context is destroyed.
type Context struct {
	cuda   *Cuda
	device Device
	handle uintptr

	mu       sync.Mutex
	closed   bool
	children dependents
}

// Device returns the device the context was created on.
func (c *Context) Device() Device { return c.device }

// APIVersion returns the driver API version the context was created with.
func (c *Context) APIVersion() (uint32, error) {
	if c.cuda.fn.CtxGetAPIVersion == nil {
		return 0, c.cuda.unsupported("cuCtxGetApiVersion")
	}
	var v uint32
	err := c.withHandle(func(h uintptr) error {
		return checkStatus(c.cuda.fn.CtxGetAPIVersion(h, &v))
	})
	return v, err
}

// Synchronize blocks until all work queued in the context has finished.
func (c *Context) Synchronize() error {
	if c.cuda.fn.CtxSynchronize == nil {
		return c.cuda.unsupported("cuCtxSynchronize")
	}
	return c.withHandle(func(uintptr) error {
		return c.withCurrent(func() error {
			return checkStatus(c.cuda.fn.CtxSynchronize())
		})
	})
}

// Close releases every resource still open on the context, newest first,
// and then destroys it. A failing destroy is logged, not returned. Close
// is idempotent.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	for _, child := range c.children.drain() {
		child.closeLocked()
	}

	if c.cuda.fn.CtxDestroy == nil {
		logReleaseFailure(c.cuda.log, "context", c.cuda.unsupported("cuCtxDestroy_v2"))
	} else if err := checkStatus(c.cuda.fn.CtxDestroy(c.handle)); err != nil {
		logReleaseFailure(c.cuda.log, "context", err)
	}
	c.handle = 0
	c.cuda.release()
}

// withHandle runs fn with the native handle while holding the context
// open. Children register themselves from inside fn.
func (c *Context) withHandle(fn func(handle uintptr) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return fn(c.handle)
}

// withCurrent makes the context current on the calling OS thread for the
// duration of fn and pops it on every exit path. The goroutine stays
// locked to its thread in between so the push and the pop hit the same
// thread-local context stack. The caller must keep the context open,
// normally by holding c.mu.
func (c *Context) withCurrent(fn func() error) error {
	f := &c.cuda.fn
	if f.CtxPushCurrent == nil {
		return c.cuda.unsupported("cuCtxPushCurrent_v2")
	}
	if f.CtxPopCurrent == nil {
		return c.cuda.unsupported("cuCtxPopCurrent_v2")
	}
	return pinThread(func() error {
		if err := checkStatus(f.CtxPushCurrent(c.handle)); err != nil {
			return fmt.Errorf("cuCtxPushCurrent_v2: %w", err)
		}
		fnErr := fn()
		popErr := checkStatus(f.CtxPopCurrent(nil))
		if fnErr != nil {
			if popErr != nil {
				c.cuda.log.WithError(popErr).Error("failed to pop current context")
			}
			return fnErr
		}
		if popErr != nil {
			return fmt.Errorf("cuCtxPopCurrent_v2: %w", popErr)
		}
		return nil
	})
}

// pinThread runs fn with the goroutine locked to its OS thread.
func pinThread(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return fn()
}

// dependent is a resource that must be closed before its context.
// closeLocked runs with the context lock held and is a no-op after the
// first call.
type dependent interface {
	closeLocked()
}

// dependents tracks the live children of a context.
type dependents struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]dependent
}

func (d *dependents) add(x dependent) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live == nil {
		d.live = map[uint64]dependent{}
	}
	d.next++
	d.live[d.next] = x
	return d.next
}

func (d *dependents) remove(id uint64) {
	d.mu.Lock()
	delete(d.live, id)
	d.mu.Unlock()
}

func (d *dependents) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// drain empties the set and returns its members newest first.
func (d *dependents) drain() []dependent {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]uint64, 0, len(d.live))
	for id := range d.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]dependent, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.live[id])
	}
	d.live = nil
	return out
}
