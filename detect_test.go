package nvcodec

import (
	"bytes"
	"testing"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVideoCodec(t *testing.T) {
	ivf := func(fourCC string) []byte {
		data := make([]byte, 32)
		copy(data[0:4], "DKIF")
		copy(data[8:12], fourCC)
		return data
	}

	tests := []struct {
		name     string
		data     []byte
		expected VideoCodec
	}{
		// Annex-B
		{"H264 4-byte start code with SPS", []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x1e}, VideoCodecH264},
		{"H264 4-byte start code with PPS", []byte{0x00, 0x00, 0x00, 0x01, 0x68, 0xce, 0x3c, 0x80}, VideoCodecH264},
		{"H264 4-byte start code with IDR", []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x84, 0x00}, VideoCodecH264},
		{"H264 3-byte start code with slice", []byte{0x00, 0x00, 0x01, 0x41, 0x9a, 0x00, 0x00, 0x00}, VideoCodecH264},
		{"H264 3-byte start code with SEI", []byte{0x00, 0x00, 0x01, 0x06, 0x05, 0x00, 0x00, 0x00}, VideoCodecH264},
		{"H265 VPS", []byte{0x00, 0x00, 0x00, 0x01, 0x40, 0x01, 0x0c, 0x01}, VideoCodecH265},
		{"H265 SPS", []byte{0x00, 0x00, 0x00, 0x01, 0x42, 0x01, 0x01, 0x01}, VideoCodecH265},
		{"H265 PPS", []byte{0x00, 0x00, 0x01, 0x44, 0x01, 0xc1, 0x72, 0xb4}, VideoCodecH265},
		{"H265 AUD", []byte{0x00, 0x00, 0x00, 0x01, 0x46, 0x01, 0x10, 0x00}, VideoCodecH265},
		{"H265 IDR", []byte{0x00, 0x00, 0x00, 0x01, 0x26, 0x01, 0xaf, 0x00}, VideoCodecH265},

		// AVCC: length = 4, followed by the NAL
		{"H264 AVCC", []byte{0x00, 0x00, 0x00, 0x04, 0x65, 0x00, 0x00, 0x00}, VideoCodecH264},

		// Frame tag byte 0 (keyframe), then the 9d 01 2a start code
		{"VP8 keyframe", []byte{0x00, 0x00, 0x00, 0x9D, 0x01, 0x2A, 0x00, 0x00, 0x00, 0x00}, VideoCodecVP8},
		{"VP9 frame marker", []byte{0x82, 0x00, 0x00, 0x00}, VideoCodecVP9},

		{"AV1 sequence header", []byte{0x08, 0x00, 0x00, 0x00}, VideoCodecAV1},
		{"AV1 temporal delimiter", []byte{0x10, 0x00, 0x00, 0x00}, VideoCodecAV1},
		{"AV1 frame header", []byte{0x18, 0x00, 0x00, 0x00}, VideoCodecAV1},

		{"IVF VP8", ivf("VP80"), VideoCodecVP8},
		{"IVF VP9", ivf("VP90"), VideoCodecVP9},
		{"IVF AV1", ivf("AV01"), VideoCodecAV1},

		{"empty data", []byte{}, VideoCodecUnknown},
		{"too short", []byte{0x00, 0x00}, VideoCodecUnknown},
		{"random data", []byte{0xFF, 0xFE, 0xFD, 0xFC}, VideoCodecUnknown},
		// Forbidden bit set (not AV1) and frame marker 0b11 (not VP9)
		{"non-matching byte pattern", []byte{0xC0, 0xC1, 0xC2, 0xC3}, VideoCodecUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectVideoCodec(tt.data))
		})
	}
}

func TestAnnexBStartCodeLen(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected int
	}{
		{"4-byte start code", []byte{0, 0, 0, 1, 0x67}, 4},
		{"3-byte start code", []byte{0, 0, 1, 0x67}, 3},
		{"not a start code", []byte{0, 0, 2, 0x67}, 0},
		{"too short", []byte{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, annexBStartCodeLen(tt.data))
		})
	}
}

func TestIsHEVCHeader(t *testing.T) {
	tests := []struct {
		name     string
		nal      []byte
		expected bool
	}{
		{"VPS", []byte{0x40, 0x01}, true},
		{"prefix SEI", []byte{0x4e, 0x01}, true},
		{"temporal id zero", []byte{0x40, 0x00}, false},
		{"enhancement layer", []byte{0x41, 0x01}, false},
		{"forbidden bit", []byte{0xc0, 0x01}, false},
		{"trailing picture", []byte{0x02, 0x01}, false},
		{"H264 SPS", []byte{0x67, 0x42}, false},
		{"short", []byte{0x40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHEVCHeader(tt.nal), "%x", tt.nal)
		})
	}
}

func TestIsH264NALType(t *testing.T) {
	for nalType := byte(0); nalType < 32; nalType++ {
		want := (nalType >= 1 && nalType <= 12) || (nalType >= 19 && nalType <= 21)
		assert.Equal(t, want, isH264NALType(nalType), "nal type %d", nalType)
	}
}

func TestSampleFromRTP_H264(t *testing.T) {
	sps := []byte{0x67, 0x42, 0x00, 0x1f}
	pps := []byte{0x68, 0xce}
	idr := []byte{0x65, 0x88, 0x84, 0x00, 0x33, 0xff}

	stapA := append([]byte{0x18, 0x00, byte(len(sps))}, sps...)
	stapA = append(stapA, 0x00, byte(len(pps)))
	stapA = append(stapA, pps...)

	packets := []*rtp.Packet{
		{Header: rtp.Header{SequenceNumber: 1}, Payload: stapA},
		// FU-A: indicator NRI=3 type 28, header S|type 5, then E|type 5.
		{Header: rtp.Header{SequenceNumber: 2}, Payload: append([]byte{0x7c, 0x85}, idr[1:3]...)},
		{Header: rtp.Header{SequenceNumber: 3, Marker: true}, Payload: append([]byte{0x7c, 0x45}, idr[3:]...)},
	}

	sample, err := SampleFromRTP(VideoCodecH264, packets)
	require.NoError(t, err)

	startCode := []byte{0, 0, 0, 1}
	want := bytes.Join([][]byte{nil, sps, pps, idr}, startCode)
	require.Equal(t, want, sample)
	require.Equal(t, VideoCodecH264, DetectVideoCodec(sample))
}

func TestSampleFromRTP_VP8(t *testing.T) {
	frame := []byte{0x50, 0x02, 0x00, 0x9d, 0x01, 0x2a, 0x80, 0x02, 0xe0, 0x01}
	packets := []*rtp.Packet{
		// Descriptor: S=1, PID 0, no extensions.
		{Header: rtp.Header{SequenceNumber: 7}, Payload: append([]byte{0x10}, frame[:4]...)},
		{Header: rtp.Header{SequenceNumber: 8, Marker: true}, Payload: append([]byte{0x00}, frame[4:]...)},
	}

	sample, err := SampleFromRTP(VideoCodecVP8, packets)
	require.NoError(t, err)
	require.Equal(t, frame, sample)
	require.Equal(t, VideoCodecVP8, DetectVideoCodec(sample))
}

func TestSampleFromRTP_AV1(t *testing.T) {
	temporalDelimiter := []byte{0x10}
	sequenceHeader := []byte{0x08, 0x00, 0x00, 0x00, 0x42, 0xab}

	// Aggregation header W=2: the first element is length-prefixed, the
	// last runs to the end of the payload. N marks a new sequence.
	payload := []byte{0x20 | 0x08, byte(len(temporalDelimiter))}
	payload = append(payload, temporalDelimiter...)
	payload = append(payload, sequenceHeader[:3]...)
	// Y: the last element continues in the next packet.
	payload[0] |= 0x40

	// Z: the first element continues the previous packet's last one.
	next := append([]byte{0x80 | 0x10}, sequenceHeader[3:]...)

	packets := []*rtp.Packet{
		{Header: rtp.Header{SequenceNumber: 1}, Payload: payload},
		{Header: rtp.Header{SequenceNumber: 2, Marker: true}, Payload: next},
	}

	sample, err := SampleFromRTP(VideoCodecAV1, packets)
	require.NoError(t, err)
	require.Equal(t, append(append([]byte(nil), temporalDelimiter...), sequenceHeader...), sample)
	require.Equal(t, VideoCodecAV1, DetectVideoCodec(sample))
}

func TestSampleFromRTP_Errors(t *testing.T) {
	_, err := SampleFromRTP(VideoCodecH265, []*rtp.Packet{{Payload: []byte{0x40, 0x01, 0x0c}}})
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = SampleFromRTP(VideoCodecH264, nil)
	require.ErrorIs(t, err, errEmptySample)

	_, err = SampleFromRTP(VideoCodecH264, []*rtp.Packet{{Header: rtp.Header{SequenceNumber: 9}, Payload: []byte{}}})
	require.ErrorContains(t, err, "seq 9")

	// A lone FU-A start fragment never completes a NAL unit.
	_, err = SampleFromRTP(VideoCodecH264, []*rtp.Packet{{Payload: []byte{0x7c, 0x85, 0x00}}})
	require.ErrorIs(t, err, errEmptySample)
}

func TestProbeCaps(t *testing.T) {
	_, c, _ := newFakeCuda(t)
	ctx := openFakeContext(t, c)
	defer ctx.Close()

	var seen decodeCaps
	dec := newDecode(decodeFuncs{
		GetDecoderCaps: func(caps *decodeCaps) CudaResult {
			seen = *caps
			caps.IsSupported = 1
			caps.OutputFormatMask = 1 << SurfaceNV12
			return CudaSuccess
		},
	}, logrus.New())

	codec, caps, err := dec.ProbeCaps(ctx, []byte{0x00, 0x00, 0x00, 0x01, 0x40, 0x01, 0x0c, 0x01})
	require.NoError(t, err)
	require.Equal(t, VideoCodecH265, codec)
	require.True(t, caps.Supported)
	require.Equal(t, cuvidCodecHEVC, seen.CodecType)
	require.Equal(t, Chroma420, seen.ChromaFormat)
	require.Equal(t, uint32(0), seen.BitDepthMinus8)

	codec, _, err = dec.ProbeCaps(ctx, []byte{0xFF, 0xFE, 0xFD, 0xFC})
	require.ErrorIs(t, err, ErrNotSupported)
	require.Equal(t, VideoCodecUnknown, codec)
}
