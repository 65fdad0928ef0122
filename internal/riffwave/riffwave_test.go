package riffwave

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(t *testing.T, bitsPerSample uint16, samples []int32) []byte {
	t.Helper()

	var dataBytes []byte
	bytesPerSample := int(bitsPerSample) / 8
	for _, s := range samples {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(s))
		dataBytes = append(dataBytes, b[:bytesPerSample]...)
	}

	buf := make([]byte, 0, 44+len(dataBytes))
	buf = append(buf, []byte(riffSignature)...)
	buf = append(buf, 0, 0, 0, 0) // chunk_size placeholder
	buf = append(buf, []byte(waveSignature)...)
	buf = append(buf, []byte(fmtSignature)...)

	fmtSize := make([]byte, 4)
	binary.LittleEndian.PutUint32(fmtSize, 16)
	buf = append(buf, fmtSize...)

	u16 := func(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
	u32 := func(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

	buf = append(buf, u16(1)...)        // audio_format PCM
	buf = append(buf, u16(1)...)        // num_channels
	buf = append(buf, u32(22050)...)    // sample_rate
	buf = append(buf, u32(44100)...)    // byte_rate
	buf = append(buf, u16(2)...)        // block_align
	buf = append(buf, u16(bitsPerSample)...)

	buf = append(buf, []byte(dataSignature)...)
	buf = append(buf, u32(uint32(len(dataBytes)))...)
	buf = append(buf, dataBytes...)

	chunkSize := uint32(len(buf) - 8)
	binary.LittleEndian.PutUint32(buf[4:8], chunkSize)

	return buf
}

func TestIsWAVRecognisesEnvelope(t *testing.T) {
	buf := buildWAV(t, 16, []int32{0, 100, -100})
	assert.True(t, IsWAV(buf))
	assert.False(t, IsWAV([]byte("not a wav file at all, too short")))
}

func TestParseHeaderFields(t *testing.T) {
	buf := buildWAV(t, 16, []int32{1, 2, 3})
	header, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 1, header.NumChannels)
	assert.EqualValues(t, 22050, header.SampleRate)
	assert.EqualValues(t, 16, header.BitsPerSample)
}

func TestLookupSamples16Bit(t *testing.T) {
	buf := buildWAV(t, 16, []int32{100, -100, 32767})
	samples, err := LookupSamples(buf)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.EqualValues(t, 100, samples[0])
	assert.EqualValues(t, -100, samples[1])
	assert.EqualValues(t, 32767, samples[2])
}

func TestLookupSamples8BitCentering(t *testing.T) {
	buf := buildWAV(t, 8, []int32{0, 127, 255})
	samples, err := LookupSamples(buf)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.EqualValues(t, -127*256, samples[0])
	assert.EqualValues(t, 0, samples[1])
	assert.EqualValues(t, -32768, samples[2]) // 128*256 overflows int16, wraps like the original's i16 arithmetic
}

func TestNormalizeToFloat32SelectsChannelZero(t *testing.T) {
	samples := []int16{100, 9999, -200, 8888}
	out := NormalizeToFloat32(samples, 2)
	require.Len(t, out, 2)
	assert.InDelta(t, float32(100)/32767.0, out[0], 1e-6)
	assert.InDelta(t, float32(-200)/32767.0, out[1], 1e-6)
}
