package nvcodec

import (
	"encoding/binary"
	"fmt"
)

// GUID is the 128-bit identifier NVENC uses for codecs, profiles and
// presets. The layout matches the C GUID struct.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// String formats g in registry form.
func (g GUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// IsZero reports whether every byte of g is zero.
func (g GUID) IsZero() bool { return g == GUID{} }

// words splits g into the two little-endian eightbytes a by-value GUID
// occupies in registers.
func (g GUID) words() (lo, hi uint64) {
	lo = uint64(g.Data1) | uint64(g.Data2)<<32 | uint64(g.Data3)<<48
	hi = binary.LittleEndian.Uint64(g.Data4[:])
	return lo, hi
}

// Codec GUIDs.
var (
	CodecH264 = GUID{0x6bc82762, 0x4e63, 0x4ca4, [8]byte{0xaa, 0x85, 0x1e, 0x50, 0xf3, 0x21, 0xf6, 0xbf}}
	CodecHEVC = GUID{0x790cdc88, 0x4522, 0x4d7b, [8]byte{0x94, 0x25, 0xbd, 0xa9, 0x97, 0x5f, 0x76, 0x03}}
	CodecAV1  = GUID{0x0a352289, 0x0aa7, 0x4759, [8]byte{0x86, 0x2d, 0x5d, 0x15, 0xcd, 0x16, 0xd2, 0x54}}
)

// Profile GUIDs.
var (
	ProfileAutoSelect   = GUID{0xbfd6f8e7, 0x233c, 0x4341, [8]byte{0x8b, 0x3e, 0x48, 0x18, 0x52, 0x38, 0x03, 0xf4}}
	ProfileH264Baseline = GUID{0x0727bcaa, 0x78c4, 0x4c83, [8]byte{0x8c, 0x2f, 0xef, 0x3d, 0xff, 0x26, 0x7c, 0x6a}}
	ProfileH264Main     = GUID{0x60b5c1d4, 0x67fe, 0x4790, [8]byte{0x94, 0xd5, 0xc4, 0x72, 0x6d, 0x7b, 0x6e, 0x6d}}
	ProfileH264High     = GUID{0xe7cbc309, 0x4f7a, 0x4b89, [8]byte{0xaf, 0x2a, 0xd5, 0x37, 0xc9, 0x2b, 0xe3, 0x10}}
	ProfileH264High444  = GUID{0x7ac663cb, 0xa598, 0x4960, [8]byte{0xb8, 0x44, 0x33, 0x9b, 0x26, 0x1a, 0x7d, 0x52}}
	ProfileHEVCMain     = GUID{0xb514c39a, 0xb55b, 0x40fa, [8]byte{0x87, 0x8f, 0xf1, 0x25, 0x3b, 0x4d, 0xfd, 0xec}}
	ProfileHEVCMain10   = GUID{0xfa4d2b6c, 0x3a5b, 0x411a, [8]byte{0x80, 0x18, 0x0a, 0x3f, 0x5e, 0x3c, 0x9b, 0xe5}}
	ProfileAV1Main      = GUID{0x5f2a39f5, 0xf14e, 0x4f95, [8]byte{0x9a, 0x9e, 0xb7, 0x6d, 0x56, 0x8f, 0xcf, 0x97}}
)

// Preset GUIDs, P1 fastest to P7 slowest.
var (
	PresetP1 = GUID{0xfc0a8d3e, 0x45f8, 0x4cf8, [8]byte{0x80, 0xc7, 0x29, 0x88, 0x71, 0x59, 0x0e, 0xbf}}
	PresetP2 = GUID{0xf581cfb8, 0x88d6, 0x4381, [8]byte{0x93, 0xf0, 0xdf, 0x13, 0xf9, 0xc2, 0x7d, 0xab}}
	PresetP3 = GUID{0x36850110, 0x3a07, 0x441f, [8]byte{0x94, 0xd5, 0x36, 0x70, 0x63, 0x1f, 0x91, 0xf6}}
	PresetP4 = GUID{0x90a7b826, 0xdf06, 0x4862, [8]byte{0xb9, 0xd2, 0xcd, 0x6d, 0x73, 0xa0, 0x86, 0x81}}
	PresetP5 = GUID{0x21c6e6b4, 0x297a, 0x4cba, [8]byte{0x99, 0x8f, 0xb6, 0xcb, 0xde, 0x72, 0xad, 0xe3}}
	PresetP6 = GUID{0x8e75c279, 0x6299, 0x4ab6, [8]byte{0x83, 0x02, 0x0b, 0x21, 0x5a, 0x33, 0x5c, 0xf5}}
	PresetP7 = GUID{0x84848c12, 0x6f71, 0x4c13, [8]byte{0x93, 0x1b, 0x53, 0xe2, 0x83, 0xf5, 0x79, 0x74}}
)

// VideoCodec returns the codec a codec GUID names, or VideoCodecUnknown.
func (g GUID) VideoCodec() VideoCodec {
	switch g {
	case CodecH264:
		return VideoCodecH264
	case CodecHEVC:
		return VideoCodecH265
	case CodecAV1:
		return VideoCodecAV1
	default:
		return VideoCodecUnknown
	}
}

// BufferFormat is an NV_ENC_BUFFER_FORMAT input surface layout.
type BufferFormat uint32

const (
	BufferFormatUndefined BufferFormat = 0x00000000
	BufferFormatNV12      BufferFormat = 0x00000001
	BufferFormatYV12      BufferFormat = 0x00000010
	BufferFormatIYUV      BufferFormat = 0x00000100
	BufferFormatYUV444    BufferFormat = 0x00001000
	BufferFormatYUV420P10 BufferFormat = 0x00010000
	BufferFormatYUV444P10 BufferFormat = 0x00100000
	BufferFormatARGB      BufferFormat = 0x01000000
	BufferFormatARGB10    BufferFormat = 0x02000000
	BufferFormatAYUV      BufferFormat = 0x04000000
	BufferFormatABGR      BufferFormat = 0x10000000
	BufferFormatABGR10    BufferFormat = 0x20000000
)

func (f BufferFormat) String() string {
	switch f {
	case BufferFormatUndefined:
		return "Undefined"
	case BufferFormatNV12:
		return "NV12"
	case BufferFormatYV12:
		return "YV12"
	case BufferFormatIYUV:
		return "IYUV"
	case BufferFormatYUV444:
		return "YUV444"
	case BufferFormatYUV420P10:
		return "YUV420_10BIT"
	case BufferFormatYUV444P10:
		return "YUV444_10BIT"
	case BufferFormatARGB:
		return "ARGB"
	case BufferFormatARGB10:
		return "ARGB10"
	case BufferFormatAYUV:
		return "AYUV"
	case BufferFormatABGR:
		return "ABGR"
	case BufferFormatABGR10:
		return "ABGR10"
	default:
		return fmt.Sprintf("BufferFormat(%#x)", uint32(f))
	}
}

// PixelFormat maps f to the package's pixel format vocabulary. The
// second result is false for layouts with no counterpart.
func (f BufferFormat) PixelFormat() (PixelFormat, bool) {
	switch f {
	case BufferFormatNV12:
		return PixelFormatNV12, true
	case BufferFormatIYUV:
		return PixelFormatI420, true
	case BufferFormatARGB:
		// ARGB is a little-endian 32-bit word: B, G, R, A in memory.
		return PixelFormatBGRA32, true
	case BufferFormatABGR:
		return PixelFormatRGBA32, true
	default:
		return 0, false
	}
}

// EncodeCap is an NV_ENC_CAPS query passed to EncodeSession.Caps.
type EncodeCap int32

const (
	CapNumMaxBFrames             EncodeCap = 0
	CapSupportedRateControlModes EncodeCap = 1
	CapSupportFieldEncoding      EncodeCap = 2
	CapSupportMonochrome         EncodeCap = 3
	CapNumMaxTemporalLayers      EncodeCap = 10
	CapLevelMax                  EncodeCap = 13
	CapLevelMin                  EncodeCap = 14
	CapWidthMax                  EncodeCap = 16
	CapHeightMax                 EncodeCap = 17
	CapSupportTemporalSVC        EncodeCap = 18
	CapSupportDynResChange       EncodeCap = 19
	CapSupportDynBitrateChange   EncodeCap = 20
	CapSupportIntraRefresh       EncodeCap = 25
	CapAsyncEncodeSupport        EncodeCap = 30
	CapMBNumMax                  EncodeCap = 31
	CapMBPerSecMax               EncodeCap = 32
	CapSupportYUV444Encode       EncodeCap = 33
	CapSupportLosslessEncode     EncodeCap = 34
	CapSupportLookahead          EncodeCap = 37
	CapSupportTemporalAQ         EncodeCap = 38
	CapSupport10BitEncode        EncodeCap = 39
	CapNumMaxLTRFrames           EncodeCap = 40
	CapSupportWeightedPrediction EncodeCap = 41
	CapWidthMin                  EncodeCap = 45
	CapHeightMin                 EncodeCap = 46
	CapSupportMultipleRefFrames  EncodeCap = 47
	CapNumEncoderEngines         EncodeCap = 49
)
