// Package note models musical notes and their frequency/semitone
// conversions, including enharmonic equivalence (Cs == Db, E# == F, ...).
package note

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Letter is the natural-name pitch class (before applying Shift).
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

func (l Letter) String() string {
	return string("CDEFGAB"[l])
}

// Shift is the semitone alteration applied to a Letter.
type Shift int

const (
	Natural Shift = iota
	Sharp
	Flat
)

// Octave is the scientific-pitch octave number.
type Octave = uint8

// Semitone is an absolute semitone index: octave*12 + pitch-class-offset.
type Semitone = uint8

const semitonesPerOctave Semitone = 12

// naturalOffset is each natural letter's offset within an octave;
// pitchClassOffset applies the Shift on top of it. The theoretical edge
// cases (E#, Fb, B#, Cb) never reach it directly: New resolves them to
// their natural-letter equivalents.
var naturalOffset = [7]Semitone{0, 2, 4, 5, 7, 9, 11} // C D E F G A B

// Note is an algebraic (Letter, Shift, Octave) value with enharmonic
// equality: two notes are equal iff their semitone index and octave match
// (equality is defined over the resolved semitone, not the spelling).
type Note struct {
	letter Letter
	shift  Shift
	octave Octave
}

// New builds a Note, resolving the theoretical edge cases:
//
//	E#(n) == F(n), Fb(n) == E(n), B#(n) == C(n+1), Cb(n) == B(n-1)
//
// Cb(0) is an error: there is no octave below 0.
func New(letter Letter, shift Shift, octave Octave) (Note, error) {
	switch {
	case letter == E && shift == Sharp:
		return Note{F, Natural, octave}, nil
	case letter == F && shift == Flat:
		return Note{E, Natural, octave}, nil
	case letter == B && shift == Sharp:
		return Note{C, Natural, octave + 1}, nil
	case letter == C && shift == Flat:
		if octave == 0 {
			return Note{}, fmt.Errorf("note is too low: Cb0 has no lower octave")
		}
		return Note{B, Natural, octave - 1}, nil
	default:
		return Note{letter, shift, octave}, nil
	}
}

// FromSemitone builds the canonical (sharp-spelled) Note for an absolute
// semitone index.
func FromSemitone(semitone Semitone) Note {
	octave := semitone / semitonesPerOctave
	offset := semitone - octave*semitonesPerOctave

	table := [12]struct {
		letter Letter
		shift  Shift
	}{
		{C, Natural}, {C, Sharp}, {D, Natural}, {D, Sharp},
		{E, Natural}, {F, Natural}, {F, Sharp}, {G, Natural},
		{G, Sharp}, {A, Natural}, {A, Sharp}, {B, Natural},
	}
	entry := table[offset]
	return Note{entry.letter, entry.shift, octave}
}

// Octave returns the note's octave number.
func (n Note) Octave() Octave { return n.octave }

// Semitone returns the absolute semitone index of the note.
func (n Note) Semitone() Semitone {
	return n.octave*semitonesPerOctave + n.pitchClassOffset()
}

func (n Note) pitchClassOffset() Semitone {
	base := naturalOffset[n.letter]
	switch n.shift {
	case Sharp:
		return (base + 1) % semitonesPerOctave
	case Flat:
		return (base + semitonesPerOctave - 1) % semitonesPerOctave
	default:
		return base
	}
}

// A4 is the standard concert-pitch reference note.
var A4 = Note{A, Natural, 4}

const a4Freq float32 = 440

// Freq returns the note's frequency in Hz: f = 440 * 2^((semitone-semitone(A4))/12).
func (n Note) Freq() float32 {
	power := (float32(n.Semitone()) - float32(A4.Semitone())) / float32(semitonesPerOctave)
	return a4Freq * pow2(power)
}

// Eq reports enharmonic equality: same resolved semitone index.
func (n Note) Eq(other Note) bool {
	return n.Semitone() == other.Semitone()
}

// String renders the note's stored letter and shift, e.g. "C4", "D4#", "E4b".
// E#, Fb, B# and Cb are stored by New as their natural equivalents and so
// print as those.
func (n Note) String() string {
	switch n.shift {
	case Sharp:
		return fmt.Sprintf("%s%d#", n.letter, n.octave)
	case Flat:
		return fmt.Sprintf("%s%db", n.letter, n.octave)
	default:
		return fmt.Sprintf("%s%d", n.letter, n.octave)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// FindNearest returns the note whose frequency is closest to freqHz, via
// binary search over the semitone domain [0, 255].
func FindNearest(freqHz float32) Note {
	var lower, upper uint16 = 0, 255

	for {
		median := lower + (upper-lower)/2
		probe := FromSemitone(uint8(median))
		probeFreq := probe.Freq()
		delta := absF(freqHz - probeFreq)

		if lower == upper || delta < 0.5 {
			return probe
		}

		if median == lower {
			upperNote := FromSemitone(uint8(upper))
			if absF(upperNote.Freq()-freqHz) > delta {
				return probe
			}
			return upperNote
		}

		if median == upper {
			lowerNote := FromSemitone(uint8(lower))
			if absF(lowerNote.Freq()-freqHz) > delta {
				return probe
			}
			return lowerNote
		}

		switch {
		case freqHz < probeFreq:
			upper = median
		case freqHz > probeFreq:
			lower = median
		default:
			return probe
		}
	}
}

// Parse parses a note token like "C4", "c4s", "C4#", "Db3", "C4♭".
func Parse(s string) (Note, error) {
	if len(s) == 0 {
		return Note{}, fmt.Errorf("invalid note format: the note letter [A..G] is not present")
	}

	letterCh := s[0]
	letter, err := letterFromByte(letterCh)
	if err != nil {
		return Note{}, err
	}

	rest := s[1:]
	digitCount := 0
	for digitCount < len(rest) && rest[digitCount] >= '0' && rest[digitCount] <= '9' {
		digitCount++
	}
	if digitCount == 0 {
		return Note{}, fmt.Errorf("invalid octave format: must be an integer number")
	}

	octaveNum, err := strconv.ParseUint(rest[:digitCount], 10, 8)
	if err != nil {
		return Note{}, fmt.Errorf("invalid octave number: must be in the range of 0..255: %w", err)
	}

	shiftStr := rest[digitCount:]
	shift := Natural
	if shiftStr != "" {
		switch shiftStr {
		case "s", "#", "♯":
			shift = Sharp
		case "b", "♭":
			shift = Flat
		default:
			return Note{}, fmt.Errorf("invalid semitone shift format: must be absent or one of [s, #, ♯, b, ♭]")
		}
	}

	return New(letter, shift, uint8(octaveNum))
}

func letterFromByte(ch byte) (Letter, error) {
	switch strings.ToUpper(string(ch)) {
	case "A":
		return A, nil
	case "B":
		return B, nil
	case "C":
		return C, nil
	case "D":
		return D, nil
	case "E":
		return E, nil
	case "F":
		return F, nil
	case "G":
		return G, nil
	default:
		return 0, fmt.Errorf("invalid note name: unexpected letter %q, must be in [A..G]", ch)
	}
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func pow2(x float32) float32 {
	return float32(math.Pow(2, float64(x)))
}
