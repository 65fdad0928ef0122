package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcHashDeterministic(t *testing.T) {
	a := calcHash([]byte("hello world"))
	b := calcHash([]byte("hello world"))
	c := calcHash([]byte("hello worlD"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEncoderNameKnownBitness(t *testing.T) {
	for bitness, want := range map[uint8]string{8: "pcm_u8", 16: "pcm_s16le", 24: "pcm_s24le", 32: "pcm_s32le"} {
		got, err := encoderName(bitness)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncoderNameRejectsUnsupportedBitness(t *testing.T) {
	_, err := encoderName(12)
	assert.ErrorIs(t, err, ErrInvalidBitness)
}

func TestConvertToWAVFailsWithoutAssetsFolder(t *testing.T) {
	// The test binary's own directory has no assets/ffmpeg folder, so
	// this exercises the AbsentFFmpeg path without invoking any process.
	_, err := ConvertToWAV("testdata-does-not-matter.mp3", 16, 22050)
	assert.ErrorIs(t, err, ErrAbsentFFmpeg)
}
