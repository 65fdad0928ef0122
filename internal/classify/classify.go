// Package classify sniffs an input file's content to decide which
// adapter produces its Data value, ported from
// original_source/src/audio_classifier.rs.
package classify

import "github.com/HoShiMin/BeeSynth/internal/riffwave"

// Type identifies how a file's bytes were recognised.
type Type int

const (
	Unknown Type = iota
	MP3
	WAV
	Synth
)

func (t Type) String() string {
	switch t {
	case MP3:
		return "mp3"
	case WAV:
		return "wav"
	case Synth:
		return "synth"
	default:
		return "unknown"
	}
}

const synthTag = "#!/bin/beesynth"

// isMP3 checks for a leading ID3 tag ("I", "D", "3") or a LAME/MPEG frame
// sync header (0xFF 0xFB), per §6's classification rule.
func isMP3(buf []byte) bool {
	if len(buf) >= 3 && buf[0] == 'I' && buf[1] == 'D' && buf[2] == '3' {
		return true
	}
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFB
}

func isSynth(buf []byte) bool {
	return len(buf) >= len(synthTag) && string(buf[:len(synthTag)]) == synthTag
}

// Classify determines buf's Type by content sniff: WAV envelope first,
// then MP3 markers, then the score shebang, else Unknown (falls through
// to an external transcode attempt at the orchestrator level).
func Classify(buf []byte) Type {
	switch {
	case riffwave.IsWAV(buf):
		return WAV
	case isMP3(buf):
		return MP3
	case isSynth(buf):
		return Synth
	default:
		return Unknown
	}
}
