package nvcodec

import (
	"fmt"
	"math"
	"sync"
)

// nppMu serialises the conversion facade. NPP keeps one process-wide
// current stream, and switching it must not interleave with another
// caller's conversion.
var nppMu sync.Mutex

// NV12ToRGB24 converts an NV12 image at src into packed RGB at dst. The
// chroma plane is expected srcPitch*height bytes after src. When stream
// is non-nil the conversion is queued on it, otherwise on NPP's current
// stream. A zero width or height is a no-op.
//
// With a stream, its context is made current for the conversion and src
// and dst must belong to that context. Without one, the calling thread
// must already have the owning context current, for example inside a
// runtime.LockOSThread section after cuCtxPushCurrent.
func (n *NPP) NV12ToRGB24(src DevicePtr, width, height uint32, srcPitch int32, dst DevicePtr, dstPitch int32, stream *Stream) error {
	return n.nv12ToPacked("nppiNV12ToRGB_8u_P2C3R_Ctx", n.fn.NV12ToRGB, src, width, height, srcPitch, dst, dstPitch, stream)
}

// NV12ToBGR24 is NV12ToRGB24 with the channels stored blue first.
func (n *NPP) NV12ToBGR24(src DevicePtr, width, height uint32, srcPitch int32, dst DevicePtr, dstPitch int32, stream *Stream) error {
	return n.nv12ToPacked("nppiNV12ToBGR_8u_P2C3R_Ctx", n.fn.NV12ToBGR, src, width, height, srcPitch, dst, dstPitch, stream)
}

// Convert converts between two device frames of the same size. Only NV12
// sources with RGB24 or BGR24 destinations are supported.
func (n *NPP) Convert(src, dst DeviceFrame, stream *Stream) error {
	if src.Width != dst.Width || src.Height != dst.Height {
		return fmt.Errorf("nvcodec: convert %dx%d to %dx%d: %w", src.Width, src.Height, dst.Width, dst.Height, NppSizeError)
	}
	if src.Format != PixelFormatNV12 {
		return fmt.Errorf("%w: conversion from %s", ErrNotSupported, src.Format)
	}
	if dst.Format.PlaneCount() != 1 {
		return fmt.Errorf("%w: conversion to non-packed %s", ErrNotSupported, dst.Format)
	}
	if src.Width < 0 || src.Height < 0 || src.Width > math.MaxInt32 || src.Height > math.MaxInt32 {
		return NppSizeError
	}
	if src.Pitch > math.MaxInt32 || dst.Pitch > math.MaxInt32 {
		return ErrInvalidPitch
	}
	w, h := uint32(src.Width), uint32(src.Height)
	switch dst.Format {
	case PixelFormatRGB24:
		return n.NV12ToRGB24(src.Ptr, w, h, int32(src.Pitch), dst.Ptr, int32(dst.Pitch), stream)
	case PixelFormatBGR24:
		return n.NV12ToBGR24(src.Ptr, w, h, int32(src.Pitch), dst.Ptr, int32(dst.Pitch), stream)
	default:
		return fmt.Errorf("%w: conversion from %s to %s", ErrNotSupported, src.Format, dst.Format)
	}
}

func (n *NPP) nv12ToPacked(op string, convert nv12Conversion, src DevicePtr, width, height uint32, srcPitch int32, dst DevicePtr, dstPitch int32, stream *Stream) error {
	if width == 0 || height == 0 {
		return nil
	}
	if convert == nil {
		return n.unsupported(op)
	}
	if n.fn.GetStreamContext == nil {
		return n.unsupported("nppGetStreamContext")
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return fmt.Errorf("%s: %w", op, NppSizeError)
	}
	if srcPitch < 0 || dstPitch < 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidPitch)
	}
	if int64(srcPitch) < int64(width) || int64(dstPitch) < 3*int64(width) {
		return fmt.Errorf("%s: %w: row of %d pixels", op, ErrInvalidPitch, width)
	}

	planes := nv12Planes(src, srcPitch, height)
	size := packSize(int32(width), int32(height))

	nppMu.Lock()
	defer nppMu.Unlock()

	if stream == nil {
		return n.convertOn(op, convert, 0, false, &planes, srcPitch, dst, dstPitch, size)
	}
	// NPP resolves the stream and both buffers through the calling
	// thread's current context, so the stream's context is pushed around
	// the whole switch, snapshot and launch.
	return stream.ctx.withHandle(func(uintptr) error {
		h, err := stream.nativeHandle()
		if err != nil {
			return err
		}
		return stream.ctx.withCurrent(func() error {
			return n.convertOn(op, convert, h, true, &planes, srcPitch, dst, dstPitch, size)
		})
	})
}

// convertOn switches NPP to the stream, takes a fresh stream context and
// launches the conversion. The caller holds nppMu.
func (n *NPP) convertOn(op string, convert nv12Conversion, stream uintptr, requested bool, planes *[2]uintptr, srcPitch int32, dst DevicePtr, dstPitch int32, size nppiSize) error {
	if err := n.useStream(stream, requested); err != nil {
		return err
	}
	var ctx nppStreamContext
	if err := checkStatus(n.fn.GetStreamContext(&ctx)); err != nil {
		return fmt.Errorf("nppGetStreamContext: %w", err)
	}
	if requested && n.fn.SetStream == nil {
		// No global stream to switch; pin the snapshot to the stream.
		ctx.Stream = stream
	}
	if err := checkStatus(convert(planes, srcPitch, uintptr(dst), dstPitch, size, &ctx)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// useStream makes handle NPP's current stream unless it already is.
func (n *NPP) useStream(handle uintptr, requested bool) error {
	if !requested || n.fn.SetStream == nil {
		return nil
	}
	if n.fn.GetStream != nil && n.fn.GetStream() == handle {
		return nil
	}
	if err := checkStatus(n.fn.SetStream(handle)); err != nil {
		return fmt.Errorf("nppSetStream: %w", err)
	}
	return nil
}

// nv12Planes returns the luma and chroma plane addresses of an NV12
// image. The chroma offset is computed unsigned so it can never wrap
// below the base pointer.
func nv12Planes(base DevicePtr, pitch int32, height uint32) [2]uintptr {
	luma := uintptr(base)
	return [2]uintptr{luma, luma + uintptr(pitch)*uintptr(height)}
}
