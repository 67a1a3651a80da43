package nvcodec

import (
	"errors"
	"fmt"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// DetectVideoCodec guesses the codec of an elementary stream sample from
// its first bytes. It recognises:
//   - H.264 and H.265 in Annex-B form, H.264 in AVCC form
//   - IVF files carrying VP8, VP9 or AV1
//   - VP8 keyframes, VP9 frames and AV1 OBUs
//
// VideoCodecUnknown is returned when nothing matches. VP9 and AV1 are
// matched on a few header bits only, so a positive answer for them is a
// hint rather than a verdict.
func DetectVideoCodec(data []byte) VideoCodec {
	if len(data) < 4 {
		return VideoCodecUnknown
	}

	if n := annexBStartCodeLen(data); n > 0 && len(data) > n {
		nal := data[n:]
		if isHEVCHeader(nal) {
			return VideoCodecH265
		}
		if isH264NALType(nal[0] & 0x1F) {
			return VideoCodecH264
		}
	}

	if len(data) >= 32 && string(data[0:4]) == "DKIF" {
		switch string(data[8:12]) {
		case "VP80":
			return VideoCodecVP8
		case "VP90":
			return VideoCodecVP9
		case "AV01":
			return VideoCodecAV1
		}
	}

	if isAVCCFormat(data) {
		return VideoCodecH264
	}
	if isVP8Keyframe(data) {
		return VideoCodecVP8
	}
	if isVP9Frame(data) {
		return VideoCodecVP9
	}
	if isAV1OBU(data) {
		return VideoCodecAV1
	}
	return VideoCodecUnknown
}

// annexBStartCodeLen returns 4 or 3 for a leading 00 00 00 01 or 00 00 01
// start code and 0 otherwise.
func annexBStartCodeLen(data []byte) int {
	switch {
	case len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 0 && data[3] == 1:
		return 4
	case len(data) >= 3 && data[0] == 0 && data[1] == 0 && data[2] == 1:
		return 3
	default:
		return 0
	}
}

// isHEVCHeader matches the two-byte H.265 NAL header of the units a stream
// starts with: VPS, SPS, PPS, AUD, IDR_W_RADL or prefix SEI, base layer,
// non-zero temporal id. Read as H.264 these bytes are either reserved
// types or an SEI with a non-zero nal_ref_idc, which H.264 forbids.
func isHEVCHeader(nal []byte) bool {
	if len(nal) < 2 || nal[0]&0x81 != 0 {
		return false
	}
	if nal[1] == 0 || nal[1] > 7 {
		return false
	}
	switch (nal[0] >> 1) & 0x3F {
	case 19, 32, 33, 34, 35, 39:
		return true
	default:
		return false
	}
}

// isH264NALType reports nal_unit_type values H.264 defines: 1-12 and
// 19-21.
func isH264NALType(nalType byte) bool {
	return (nalType >= 1 && nalType <= 12) || (nalType >= 19 && nalType <= 21)
}

// isAVCCFormat matches a plausible 4-byte big-endian NAL length prefix.
func isAVCCFormat(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	length := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	return length > 0 && length < len(data) && length < 10*1024*1024
}

// isVP8Keyframe matches a keyframe frame tag followed by the 9d 01 2a
// start code.
func isVP8Keyframe(data []byte) bool {
	if len(data) < 10 || data[0]&0x01 != 0 {
		return false
	}
	return data[3] == 0x9D && data[4] == 0x01 && data[5] == 0x2A
}

// isVP9Frame matches the 0b10 frame marker.
func isVP9Frame(data []byte) bool {
	return len(data) >= 3 && data[0]>>6 == 0x02
}

// isAV1OBU matches an OBU header with the forbidden bit clear and a
// defined obu_type.
func isAV1OBU(data []byte) bool {
	if len(data) < 2 || data[0]&0x80 != 0 {
		return false
	}
	obuType := (data[0] >> 3) & 0x0F
	return (obuType >= 1 && obuType <= 8) || obuType == 15
}

// errEmptySample is returned when the packets carried no media.
var errEmptySample = errors.New("nvcodec: RTP packets carried no media")

// SampleFromRTP reassembles the packets of one frame, in sequence order,
// into an elementary stream sample: Annex-B for H.264, OBUs without size
// fields for AV1 and the raw frame for VP8 and VP9. The result can be
// handed to DetectVideoCodec or Decode.ProbeCaps.
func SampleFromRTP(codec VideoCodec, packets []*rtp.Packet) ([]byte, error) {
	var sample []byte
	switch codec {
	case VideoCodecH264:
		d := &codecs.H264Packet{}
		for _, pkt := range packets {
			b, err := d.Unmarshal(pkt.Payload)
			if err != nil {
				return nil, fmt.Errorf("depacketize H264 seq %d: %w", pkt.SequenceNumber, err)
			}
			sample = append(sample, b...)
		}
	case VideoCodecVP8, VideoCodecVP9:
		var d rtp.Depacketizer = &codecs.VP8Packet{}
		if codec == VideoCodecVP9 {
			d = &codecs.VP9Packet{}
		}
		for _, pkt := range packets {
			b, err := d.Unmarshal(pkt.Payload)
			if err != nil {
				return nil, fmt.Errorf("depacketize %s seq %d: %w", codec, pkt.SequenceNumber, err)
			}
			sample = append(sample, b...)
		}
	case VideoCodecAV1:
		// OBU elements are complete OBUs unless the aggregation header
		// marks the first as a continuation or the last as continued.
		var pending []byte
		for _, pkt := range packets {
			d := &codecs.AV1Packet{}
			if _, err := d.Unmarshal(pkt.Payload); err != nil {
				return nil, fmt.Errorf("depacketize AV1 seq %d: %w", pkt.SequenceNumber, err)
			}
			for i, obu := range d.OBUElements {
				if i == 0 && d.Z {
					obu = append(pending, obu...)
				}
				pending = nil
				if i == len(d.OBUElements)-1 && d.Y {
					pending = append([]byte(nil), obu...)
					continue
				}
				sample = append(sample, obu...)
			}
		}
	default:
		return nil, fmt.Errorf("%w: no RTP depacketizer for %s", ErrNotSupported, codec)
	}
	if len(sample) == 0 {
		return nil, errEmptySample
	}
	return sample, nil
}

// ProbeCaps detects the codec of sample and asks NVDEC whether it can
// decode it as 8-bit 4:2:0.
func (d *Decode) ProbeCaps(ctx *Context, sample []byte) (VideoCodec, DecodeCaps, error) {
	codec := DetectVideoCodec(sample)
	if codec == VideoCodecUnknown {
		return codec, DecodeCaps{}, fmt.Errorf("%w: unrecognised bitstream", ErrNotSupported)
	}
	caps, err := d.Caps(ctx, DecodeCapsQuery{Codec: codec, ChromaFormat: Chroma420, BitDepth: 8})
	if err != nil {
		return codec, DecodeCaps{}, err
	}
	d.log.WithField("codec", codec.String()).WithField("supported", caps.Supported).Debug("probed decoder")
	return codec, caps, nil
}
