package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySynth(t *testing.T) {
	assert.Equal(t, Synth, Classify([]byte("#!/bin/beesynth\n@bpm:120\nQ:A4")))
}

func TestClassifyMP3ID3(t *testing.T) {
	assert.Equal(t, MP3, Classify([]byte("ID3\x03\x00\x00\x00")))
}

func TestClassifyMP3FrameSync(t *testing.T) {
	assert.Equal(t, MP3, Classify([]byte{0xFF, 0xFB, 0x90, 0x00}))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Classify([]byte("just some random bytes")))
}

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, Unknown, Classify(nil))
}
