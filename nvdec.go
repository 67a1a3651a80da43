package nvcodec

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ChromaFormat is cudaVideoChromaFormat.
type ChromaFormat int32

const (
	ChromaMonochrome ChromaFormat = 0
	Chroma420        ChromaFormat = 1
	Chroma422        ChromaFormat = 2
	Chroma444        ChromaFormat = 3
)

func (c ChromaFormat) String() string {
	switch c {
	case ChromaMonochrome:
		return "Monochrome"
	case Chroma420:
		return "4:2:0"
	case Chroma422:
		return "4:2:2"
	case Chroma444:
		return "4:4:4"
	default:
		return "Unknown"
	}
}

// SurfaceFormat is cudaVideoSurfaceFormat, a decoder output layout.
type SurfaceFormat uint8

const (
	SurfaceNV12      SurfaceFormat = 0
	SurfaceP016      SurfaceFormat = 1
	SurfaceYUV444    SurfaceFormat = 2
	SurfaceYUV444P16 SurfaceFormat = 3
)

func (s SurfaceFormat) String() string {
	switch s {
	case SurfaceNV12:
		return "NV12"
	case SurfaceP016:
		return "P016"
	case SurfaceYUV444:
		return "YUV444"
	case SurfaceYUV444P16:
		return "YUV444_16Bit"
	default:
		return "Unknown"
	}
}

// decodeCaps is CUVIDDECODECAPS.
type decodeCaps struct {
	CodecType            cuvidCodec
	ChromaFormat         ChromaFormat
	BitDepthMinus8       uint32
	reserved1            [3]uint32
	IsSupported          uint8
	NumNVDECs            uint8
	OutputFormatMask     uint16
	MaxWidth             uint32
	MaxHeight            uint32
	MaxMBCount           uint32
	MinWidth             uint16
	MinHeight            uint16
	IsHistogramSupported uint8
	CounterBitDepth      uint8
	MaxHistogramBins     uint16
	reserved3            [10]uint32
}

// DecodeCapsQuery selects the stream shape to ask the decoder about.
type DecodeCapsQuery struct {
	Codec        VideoCodec
	ChromaFormat ChromaFormat
	BitDepth     int // 8, 10 or 12
}

// DecodeCaps is what NVDEC reports for a DecodeCapsQuery. The size
// limits are only meaningful when Supported is true.
type DecodeCaps struct {
	Supported      bool
	Engines        int
	MinWidth       int
	MinHeight      int
	MaxWidth       int
	MaxHeight      int
	MaxMacroblocks int
	OutputFormats  []SurfaceFormat
}

type decodeFuncs struct {
	GetDecoderCaps func(caps *decodeCaps) CudaResult
}

func (f *decodeFuncs) symbols() []symbol {
	return []symbol{
		{name: "cuvidGetDecoderCaps", fn: &f.GetDecoderCaps},
	}
}

// Decode is a loaded NVDEC (cuvid) library.
type Decode struct {
	*library
	fn decodeFuncs
}

// LoadDecode loads and binds nvcuvid.
func LoadDecode(opts ...Option) (*Decode, error) {
	o := newOptions(opts)
	lib, err := loadLibrary(libNvcuvid, o.cfg)
	if err != nil {
		return nil, err
	}
	d := &Decode{}
	if err := lib.bind(d.fn.symbols()); err != nil {
		_ = lib.close()
		return nil, err
	}
	d.library = newLibrary(SubsystemDecoder, o.log, lib)
	markAvailable(SubsystemDecoder)
	d.log.WithField("path", lib.path).Debug("loaded NVDEC")
	return d, nil
}

// newDecode wraps an already populated function table.
func newDecode(fn decodeFuncs, log logrus.FieldLogger) *Decode {
	return &Decode{
		library: newLibrary(SubsystemDecoder, log),
		fn:      fn,
	}
}

// Caps asks the decoder on ctx's device whether it can decode q. The
// query runs with ctx current on the calling thread.
func (d *Decode) Caps(ctx *Context, q DecodeCapsQuery) (DecodeCaps, error) {
	if d.fn.GetDecoderCaps == nil {
		return DecodeCaps{}, d.unsupported("cuvidGetDecoderCaps")
	}
	codec, ok := q.Codec.decodeCodec()
	if !ok {
		return DecodeCaps{}, fmt.Errorf("%w: no decoder for %s", ErrNotSupported, q.Codec)
	}
	depth := q.BitDepth
	if depth == 0 {
		depth = 8
	}
	if depth < 8 {
		return DecodeCaps{}, fmt.Errorf("cuvidGetDecoderCaps: bit depth %d: %w", depth, CudaErrorInvalidValue)
	}

	raw := decodeCaps{
		CodecType:      codec,
		ChromaFormat:   q.ChromaFormat,
		BitDepthMinus8: uint32(depth - 8),
	}
	err := ctx.withHandle(func(uintptr) error {
		return ctx.withCurrent(func() error {
			return checkStatus(d.fn.GetDecoderCaps(&raw))
		})
	})
	if err != nil {
		return DecodeCaps{}, fmt.Errorf("cuvidGetDecoderCaps: %w", err)
	}
	return raw.caps(), nil
}

func (c *decodeCaps) caps() DecodeCaps {
	out := DecodeCaps{
		Supported:      c.IsSupported != 0,
		Engines:        int(c.NumNVDECs),
		MinWidth:       int(c.MinWidth),
		MinHeight:      int(c.MinHeight),
		MaxWidth:       int(c.MaxWidth),
		MaxHeight:      int(c.MaxHeight),
		MaxMacroblocks: int(c.MaxMBCount),
	}
	for f := SurfaceNV12; f <= SurfaceYUV444P16; f++ {
		if c.OutputFormatMask&(1<<f) != 0 {
			out.OutputFormats = append(out.OutputFormats, f)
		}
	}
	return out
}
