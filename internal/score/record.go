// Package score implements the "#!/bin/beesynth" textual score language:
// parsing note tokens and meta directives into per-channel note
// timelines.
package score

import (
	"fmt"
	"strconv"

	"github.com/HoShiMin/BeeSynth/internal/note"
)

// Divisor is a note's rhythmic subdivision of a whole note.
type Divisor uint8

const (
	Whole        Divisor = 1
	Half         Divisor = 2
	Quarter      Divisor = 4
	Eighth       Divisor = 8
	Sixteenth    Divisor = 16
	ThirtySecond Divisor = 32
	SixtyFourth  Divisor = 64
)

func (d Divisor) String() string {
	switch d {
	case Whole:
		return "W"
	case Half:
		return "H"
	case Quarter:
		return "Q"
	case Eighth:
		return "E"
	case Sixteenth:
		return "S"
	case ThirtySecond:
		return "T"
	case SixtyFourth:
		return "X"
	default:
		return "?"
	}
}

// ParseDivisor accepts both the letter code (W/H/Q/E/S/T/X) and the
// numeric code (1/2/4/8/16/32/64).
func ParseDivisor(s string) (Divisor, error) {
	switch s {
	case "W", "1":
		return Whole, nil
	case "H", "2":
		return Half, nil
	case "Q", "4":
		return Quarter, nil
	case "E", "8":
		return Eighth, nil
	case "S", "16":
		return Sixteenth, nil
	case "T", "32":
		return ThirtySecond, nil
	case "X", "64":
		return SixtyFourth, nil
	default:
		return 0, fmt.Errorf("unknown note divisor: %q", s)
	}
}

// Style is the articulation applied to a note's unstyled duration.
type Style int

const (
	NonLegato Style = iota
	Legato
	Staccato
	Prolongate
)

// Multiplier is the fraction of the unstyled duration the note is held for.
func (s Style) Multiplier() float32 {
	switch s {
	case NonLegato:
		return 0.8
	case Legato:
		return 1.0
	case Staccato:
		return 0.25
	case Prolongate:
		return 1.5
	default:
		return 1.0
	}
}

func (s Style) String() string {
	switch s {
	case Legato:
		return "~"
	case Staccato:
		return "!"
	case Prolongate:
		return "."
	default:
		return ""
	}
}

func isStyleChar(ch byte) bool {
	return ch == '~' || ch == '!' || ch == '.'
}

func parseStyle(s string) (Style, error) {
	switch s {
	case "":
		return NonLegato, nil
	case "~":
		return Legato, nil
	case "!":
		return Staccato, nil
	case ".":
		return Prolongate, nil
	default:
		return 0, fmt.Errorf("unknown note style: %q", s)
	}
}

// Record is a single timeline entry: a note (nil means rest), its
// divisor, and its articulation style.
type Record struct {
	Note    *note.Note
	Divisor Divisor
	Style   Style
}

// Freq returns the record's frequency, or 0 for a rest.
func (r Record) Freq() float32 {
	if r.Note == nil {
		return 0
	}
	return r.Note.Freq()
}

// DurationUnstyledNsec is the duration in nanoseconds before the style
// multiplier is applied: (4 * 60_000) / (bpm * divisor) ms.
func (r Record) DurationUnstyledNsec(bpm uint16) int64 {
	const nsecInMsec = 1_000_000
	durationMsec := int64((4 * 60_000) / (float32(bpm) * float32(r.Divisor)))
	return durationMsec * nsecInMsec
}

// DurationNsec is the styled duration in nanoseconds.
func (r Record) DurationNsec(bpm uint16) int64 {
	const nsecInMsec = 1_000_000
	durationMsec := int64((r.Style.Multiplier() * 4 * 60_000) / (float32(bpm) * float32(r.Divisor)))
	return durationMsec * nsecInMsec
}

// String renders the record in canonical "[style]divisor:note" form,
// e.g. "!Q:E3", "~Q:0".
func (r Record) String() string {
	noteStr := "0"
	if r.Note != nil {
		noteStr = r.Note.String()
	}
	return fmt.Sprintf("%s%s:%s", r.Style, r.Divisor, noteStr)
}

// ParseRecord parses a single note token, e.g. "!Q:E3", "~Q:0", "Q:C4".
func ParseRecord(token string) (Record, error) {
	if token == "" {
		return Record{}, fmt.Errorf("empty note record")
	}

	delimiter := -1
	for i := 0; i < len(token); i++ {
		if token[i] == ':' {
			delimiter = i
			break
		}
	}
	if delimiter < 0 {
		return Record{}, fmt.Errorf("missing note delimiter in %q", token)
	}
	if delimiter == 0 {
		return Record{}, fmt.Errorf("missing note params in %q", token)
	}
	if delimiter == len(token)-1 {
		return Record{}, fmt.Errorf("missing note in %q", token)
	}

	noteParams := token[:delimiter]

	var style Style
	var divisorStr string
	if isStyleChar(noteParams[0]) {
		var err error
		style, err = parseStyle(noteParams[:1])
		if err != nil {
			return Record{}, err
		}
		divisorStr = noteParams[1:]
	} else {
		style = NonLegato
		divisorStr = noteParams
	}

	divisor, err := ParseDivisor(divisorStr)
	if err != nil {
		return Record{}, err
	}

	noteToken := token[delimiter+1:]
	if noteToken == "0" {
		return Record{Note: nil, Divisor: divisor, Style: style}, nil
	}

	n, err := note.Parse(noteToken)
	if err != nil {
		return Record{}, fmt.Errorf("bad note token %q: %w", noteToken, err)
	}
	return Record{Note: &n, Divisor: divisor, Style: style}, nil
}

// mustAtoiBPM parses a BPM meta value.
func mustAtoiBPM(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid BPM value %q: %w", s, err)
	}
	return uint16(v), nil
}
