package nvcodec

import (
	"fmt"
	"sync"
)

// CUstream_flags.
const (
	streamDefault     uint32 = 0x0
	streamNonBlocking uint32 = 0x1
)

// Stream owns a CUDA stream created on a Context.
type Stream struct {
	ctx         *Context
	handle      uintptr
	nonBlocking bool
	id          uint64

	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// NewStream creates a stream on the context. A non-blocking stream does
// not synchronise with the legacy default stream.
//
// The context is pushed onto the calling thread only for the duration of
// the create call. It is popped again even when creation fails, and a
// stream created before a failed pop is destroyed again.
func (c *Context) NewStream(nonBlocking bool) (*Stream, error) {
	f := &c.cuda.fn
	if f.StreamCreate == nil {
		return nil, c.cuda.unsupported("cuStreamCreate")
	}
	flags := streamDefault
	if nonBlocking {
		flags = streamNonBlocking
	}

	s := &Stream{ctx: c, nonBlocking: nonBlocking}
	err := c.withHandle(func(uintptr) error {
		var handle uintptr
		created := false
		err := c.withCurrent(func() error {
			if err := checkStatus(f.StreamCreate(&handle, flags)); err != nil {
				return err
			}
			created = true
			return nil
		})
		if err != nil {
			if created && handle != 0 {
				destroyStream(c.cuda, handle)
			}
			return err
		}
		if handle == 0 {
			return ErrNullHandle
		}
		s.handle = handle
		s.id = c.children.add(s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cuStreamCreate: %w", err)
	}
	return s, nil
}

// NonBlocking reports whether the stream was created non-blocking.
func (s *Stream) NonBlocking() bool { return s.nonBlocking }

// Synchronize waits for all work queued on the stream.
func (s *Stream) Synchronize() error {
	f := &s.ctx.cuda.fn
	if f.StreamSynchronize == nil {
		return s.ctx.cuda.unsupported("cuStreamSynchronize")
	}
	h, err := s.nativeHandle()
	if err != nil {
		return err
	}
	return checkStatus(f.StreamSynchronize(h))
}

// Query reports whether all work queued on the stream has completed.
func (s *Stream) Query() (bool, error) {
	f := &s.ctx.cuda.fn
	if f.StreamQuery == nil {
		return false, s.ctx.cuda.unsupported("cuStreamQuery")
	}
	h, err := s.nativeHandle()
	if err != nil {
		return false, err
	}
	switch res := f.StreamQuery(h); res {
	case CudaSuccess:
		return true, nil
	case CudaErrorNotReady:
		return false, nil
	default:
		return false, res
	}
}

// Close destroys the stream. The owning context does not have to be
// current. A failing destroy is logged, not returned.
func (s *Stream) Close() {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.closeLocked()
}

func (s *Stream) closeLocked() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		h := s.handle
		s.handle = 0
		s.mu.Unlock()

		s.ctx.children.remove(s.id)
		destroyStream(s.ctx.cuda, h)
	})
}

func (s *Stream) nativeHandle() (uintptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.handle, nil
}

func destroyStream(c *Cuda, handle uintptr) {
	if c.fn.StreamDestroy == nil {
		logReleaseFailure(c.log, "stream", c.unsupported("cuStreamDestroy_v2"))
		return
	}
	if err := checkStatus(c.fn.StreamDestroy(handle)); err != nil {
		logReleaseFailure(c.log, "stream", err)
	}
}
