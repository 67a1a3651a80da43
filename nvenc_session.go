package nvcodec

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pion/webrtc/v4"
)

// EncodeSession is an NVENC encoder opened on a Context. It is closed
// before the context when the context is closed first.
type EncodeSession struct {
	enc    *Encode
	ctx    *Context
	handle uintptr
	id     uint64

	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// OpenSession opens an encode session on ctx using the CUDA device type.
func (e *Encode) OpenSession(ctx *Context) (*EncodeSession, error) {
	if e.fn.OpenEncodeSessionEx == nil {
		return nil, e.unsupported("nvEncOpenEncodeSessionEx")
	}
	if err := e.acquire(); err != nil {
		return nil, err
	}

	s := &EncodeSession{enc: e, ctx: ctx}
	err := ctx.withHandle(func(device uintptr) error {
		params := openSessionParams{
			Version:    openSessionParamsVersion,
			DeviceType: deviceTypeCUDA,
			Device:     device,
			APIVersion: nvencAPIVersion,
		}
		var handle uintptr
		status := e.fn.OpenEncodeSessionEx(&params, &handle)
		if !status.Ok() {
			err := e.statusError("nvEncOpenEncodeSessionEx", handle, status)
			if handle != 0 {
				e.destroy(handle)
			}
			return err
		}
		if handle == 0 {
			return fmt.Errorf("nvEncOpenEncodeSessionEx: %w", ErrNullHandle)
		}
		s.handle = handle
		s.id = ctx.children.add(s)
		return nil
	})
	if err != nil {
		e.release()
		return nil, err
	}
	e.log.WithField("device", ctx.device.ordinal).Debug("opened encode session")
	return s, nil
}

// Context returns the context the session was opened on.
func (s *EncodeSession) Context() *Context { return s.ctx }

// SupportedGUIDs returns the codec GUIDs the encoder supports.
func (s *EncodeSession) SupportedGUIDs() ([]GUID, error) {
	f := &s.enc.fn
	if f.GetEncodeGUIDCount == nil {
		return nil, s.enc.unsupported("nvEncGetEncodeGUIDCount")
	}
	if f.GetEncodeGUIDs == nil {
		return nil, s.enc.unsupported("nvEncGetEncodeGUIDs")
	}
	return enumerate(s,
		"nvEncGetEncodeGUIDCount", f.GetEncodeGUIDCount,
		"nvEncGetEncodeGUIDs", f.GetEncodeGUIDs)
}

// ProfileGUIDs returns the profiles supported for a codec GUID.
func (s *EncodeSession) ProfileGUIDs(codec GUID) ([]GUID, error) {
	f := &s.enc.fn
	if f.GetEncodeProfileGUIDCount == nil {
		return nil, s.enc.unsupported("nvEncGetEncodeProfileGUIDCount")
	}
	if f.GetEncodeProfileGUIDs == nil {
		return nil, s.enc.unsupported("nvEncGetEncodeProfileGUIDs")
	}
	return enumerate(s,
		"nvEncGetEncodeProfileGUIDCount", func(h uintptr, n *uint32) EncodeStatus {
			return f.GetEncodeProfileGUIDCount(h, codec, n)
		},
		"nvEncGetEncodeProfileGUIDs", func(h uintptr, out *GUID, size uint32, n *uint32) EncodeStatus {
			return f.GetEncodeProfileGUIDs(h, codec, out, size, n)
		})
}

// PresetGUIDs returns the presets supported for a codec GUID.
func (s *EncodeSession) PresetGUIDs(codec GUID) ([]GUID, error) {
	f := &s.enc.fn
	if f.GetEncodePresetCount == nil {
		return nil, s.enc.unsupported("nvEncGetEncodePresetCount")
	}
	if f.GetEncodePresetGUIDs == nil {
		return nil, s.enc.unsupported("nvEncGetEncodePresetGUIDs")
	}
	return enumerate(s,
		"nvEncGetEncodePresetCount", func(h uintptr, n *uint32) EncodeStatus {
			return f.GetEncodePresetCount(h, codec, n)
		},
		"nvEncGetEncodePresetGUIDs", func(h uintptr, out *GUID, size uint32, n *uint32) EncodeStatus {
			return f.GetEncodePresetGUIDs(h, codec, out, size, n)
		})
}

// InputFormats returns the input surface formats accepted for a codec.
func (s *EncodeSession) InputFormats(codec GUID) ([]BufferFormat, error) {
	f := &s.enc.fn
	if f.GetInputFormatCount == nil {
		return nil, s.enc.unsupported("nvEncGetInputFormatCount")
	}
	if f.GetInputFormats == nil {
		return nil, s.enc.unsupported("nvEncGetInputFormats")
	}
	return enumerate(s,
		"nvEncGetInputFormatCount", func(h uintptr, n *uint32) EncodeStatus {
			return f.GetInputFormatCount(h, codec, n)
		},
		"nvEncGetInputFormats", func(h uintptr, out *BufferFormat, size uint32, n *uint32) EncodeStatus {
			return f.GetInputFormats(h, codec, out, size, n)
		})
}

// Caps queries a single encoder capability for a codec GUID.
func (s *EncodeSession) Caps(codec GUID, capability EncodeCap) (int, error) {
	f := &s.enc.fn
	if f.GetEncodeCaps == nil {
		return 0, s.enc.unsupported("nvEncGetEncodeCaps")
	}
	var v int32
	err := s.withHandle(func(h uintptr) error {
		params := capsParam{Version: capsParamVersion, CapsToQuery: capability}
		return s.enc.statusError("nvEncGetEncodeCaps", h, f.GetEncodeCaps(h, codec, &params, &v))
	})
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// SupportedCodecs returns the WebRTC capabilities of the codecs the
// encoder supports. GUIDs without a WebRTC counterpart are skipped.
func (s *EncodeSession) SupportedCodecs() ([]webrtc.RTPCodecCapability, error) {
	guids, err := s.SupportedGUIDs()
	if err != nil {
		return nil, err
	}
	caps := make([]webrtc.RTPCodecCapability, 0, len(guids))
	for _, g := range guids {
		codec := g.VideoCodec()
		if codec == VideoCodecUnknown {
			s.enc.log.WithField("guid", g.String()).Debug("skipping encoder codec without WebRTC mapping")
			continue
		}
		caps = append(caps, codec.RTPCodecCapability())
	}
	return caps, nil
}

// SupportsMimeType reports whether the encoder can produce the codec a
// negotiated MIME type names, such as webrtc.MimeTypeH264.
func (s *EncodeSession) SupportsMimeType(mime string) (bool, error) {
	codec, ok := VideoCodecFromMimeType(mime).EncodeGUID()
	if !ok {
		return false, nil
	}
	guids, err := s.SupportedGUIDs()
	if err != nil {
		return false, err
	}
	return slices.Contains(guids, codec), nil
}

// SupportsH264Profile reports whether the H.264 encoder offers p.
func (s *EncodeSession) SupportsH264Profile(p H264Profile) (bool, error) {
	profiles, err := s.ProfileGUIDs(CodecH264)
	if err != nil {
		return false, err
	}
	return slices.Contains(profiles, p.GUID()), nil
}

// Close destroys the encoder exactly once. A failing destroy is logged,
// not returned.
func (s *EncodeSession) Close() {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.closeLocked()
}

func (s *EncodeSession) closeLocked() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		h := s.handle
		s.handle = 0
		s.mu.Unlock()

		s.ctx.children.remove(s.id)
		s.enc.destroy(h)
		s.enc.release()
	})
}

func (s *EncodeSession) withHandle(fn func(h uintptr) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.handle)
}

func (e *Encode) destroy(handle uintptr) {
	if e.fn.DestroyEncoder == nil {
		logReleaseFailure(e.log, "encode session", e.unsupported("nvEncDestroyEncoder"))
		return
	}
	if err := checkStatus(e.fn.DestroyEncoder(handle)); err != nil {
		logReleaseFailure(e.log, "encode session", err)
	}
}

// enumerate runs the two-phase NVENC query shape: ask for the count, then
// fill a buffer of that size. The driver may report fewer entries in the
// second phase; the result is trimmed to what it wrote.
func enumerate[T any](
	s *EncodeSession,
	countOp string, count func(h uintptr, n *uint32) EncodeStatus,
	fillOp string, fill func(h uintptr, out *T, size uint32, n *uint32) EncodeStatus,
) ([]T, error) {
	var out []T
	err := s.withHandle(func(h uintptr) error {
		var n uint32
		if err := s.enc.statusError(countOp, h, count(h, &n)); err != nil {
			return err
		}
		out = make([]T, n)
		if n == 0 {
			return nil
		}
		var written uint32
		if err := s.enc.statusError(fillOp, h, fill(h, &out[0], n, &written)); err != nil {
			return err
		}
		if written < n {
			out = out[:written]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.enc.log.WithField("op", fillOp).WithField("count", len(out)).Debug("enumerated encoder values")
	return out, nil
}
