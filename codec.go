package nvcodec

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

// VideoCodec identifies the video codec type.
type VideoCodec int

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecH264
	VideoCodecH265
	VideoCodecAV1
)

func (c VideoCodec) String() string {
	switch c {
	case VideoCodecVP8:
		return "VP8"
	case VideoCodecVP9:
		return "VP9"
	case VideoCodecH264:
		return "H264"
	case VideoCodecH265:
		return "H265"
	case VideoCodecAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// MimeType returns the MIME type for this codec.
func (c VideoCodec) MimeType() string {
	switch c {
	case VideoCodecVP8:
		return webrtc.MimeTypeVP8
	case VideoCodecVP9:
		return webrtc.MimeTypeVP9
	case VideoCodecH264:
		return webrtc.MimeTypeH264
	case VideoCodecH265:
		return webrtc.MimeTypeH265
	case VideoCodecAV1:
		return webrtc.MimeTypeAV1
	default:
		return ""
	}
}

// ClockRate returns the RTP clock rate for this codec.
func (c VideoCodec) ClockRate() uint32 {
	// All video codecs use 90kHz clock
	return 90000
}

// RTPCodecCapability describes the codec for WebRTC negotiation. The
// zero value is returned for VideoCodecUnknown.
func (c VideoCodec) RTPCodecCapability() webrtc.RTPCodecCapability {
	switch c {
	case VideoCodecUnknown:
		return webrtc.RTPCodecCapability{}
	case VideoCodecH264:
		return webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeH264,
			ClockRate:   c.ClockRate(),
			SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42e01f",
		}
	default:
		if c.MimeType() == "" {
			return webrtc.RTPCodecCapability{}
		}
		return webrtc.RTPCodecCapability{MimeType: c.MimeType(), ClockRate: c.ClockRate()}
	}
}

// VideoCodecFromMimeType maps a negotiated MIME type back to a codec.
// The comparison is case-insensitive.
func VideoCodecFromMimeType(mime string) VideoCodec {
	for _, c := range []VideoCodec{VideoCodecVP8, VideoCodecVP9, VideoCodecH264, VideoCodecH265, VideoCodecAV1} {
		if strings.EqualFold(mime, c.MimeType()) {
			return c
		}
	}
	return VideoCodecUnknown
}

// EncodeGUID returns the NVENC codec GUID for c. NVENC has no VP8 or VP9
// encoder, so those report false.
func (c VideoCodec) EncodeGUID() (GUID, bool) {
	switch c {
	case VideoCodecH264:
		return CodecH264, true
	case VideoCodecH265:
		return CodecHEVC, true
	case VideoCodecAV1:
		return CodecAV1, true
	default:
		return GUID{}, false
	}
}

// cuvidCodec is cudaVideoCodec.
type cuvidCodec int32

const (
	cuvidCodecMPEG1 cuvidCodec = 0
	cuvidCodecMPEG2 cuvidCodec = 1
	cuvidCodecMPEG4 cuvidCodec = 2
	cuvidCodecVC1   cuvidCodec = 3
	cuvidCodecH264  cuvidCodec = 4
	cuvidCodecJPEG  cuvidCodec = 5
	cuvidCodecHEVC  cuvidCodec = 8
	cuvidCodecVP8   cuvidCodec = 9
	cuvidCodecVP9   cuvidCodec = 10
	cuvidCodecAV1   cuvidCodec = 11
)

// decodeCodec returns the cuvid codec id for c.
func (c VideoCodec) decodeCodec() (cuvidCodec, bool) {
	switch c {
	case VideoCodecVP8:
		return cuvidCodecVP8, true
	case VideoCodecVP9:
		return cuvidCodecVP9, true
	case VideoCodecH264:
		return cuvidCodecH264, true
	case VideoCodecH265:
		return cuvidCodecHEVC, true
	case VideoCodecAV1:
		return cuvidCodecAV1, true
	default:
		return 0, false
	}
}

// H264Profile defines H.264 encoding profiles.
type H264Profile int

const (
	H264ProfileBaseline H264Profile = iota
	H264ProfileMain
	H264ProfileHigh
	H264ProfileHigh444
)

func (p H264Profile) String() string {
	switch p {
	case H264ProfileBaseline:
		return "Baseline"
	case H264ProfileMain:
		return "Main"
	case H264ProfileHigh:
		return "High"
	case H264ProfileHigh444:
		return "High444"
	default:
		return "Unknown"
	}
}

// GUID returns the NVENC profile GUID for p.
func (p H264Profile) GUID() GUID {
	switch p {
	case H264ProfileBaseline:
		return ProfileH264Baseline
	case H264ProfileMain:
		return ProfileH264Main
	case H264ProfileHigh:
		return ProfileH264High
	case H264ProfileHigh444:
		return ProfileH264High444
	default:
		return ProfileAutoSelect
	}
}
