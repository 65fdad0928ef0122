// Package wavedata defines the tagged Data value carried through the filter
// chain: amplitude samples, per-channel frequency timelines, or a baked
// position timeline. Exactly one of these is live at any time.
package wavedata

// Hz is a frequency in cycles per second.
type Hz = float32

// Position is a speaker-cone state: cone pushed out (Up) or relaxed (Down).
type Position int

const (
	Down Position = iota
	Up
)

// PositionRecord holds a speaker cone position for a span of time.
type PositionRecord struct {
	Position Position
	Duration int64 // nanoseconds
}

// FreqRecord holds a frequency (0 means silence) for a span of time.
type FreqRecord struct {
	Freq     Hz
	Duration int64 // nanoseconds
}

// WaveData is a mono PCM waveform, samples normalised to [-1.0, +1.0].
type WaveData struct {
	Samples    []float32
	SampleRate uint32
}

// Kind identifies which field of Data is populated.
type Kind int

const (
	KindAmplitude Kind = iota
	KindFrequency
	KindPosition
)

func (k Kind) String() string {
	switch k {
	case KindAmplitude:
		return "amplitude"
	case KindFrequency:
		return "frequency"
	case KindPosition:
		return "position"
	default:
		return "unknown"
	}
}

// Data is the tagged union passed along the filter chain. Only the field
// matching Kind is meaningful.
type Data struct {
	Kind      Kind
	Amplitude WaveData
	Frequency [][]FreqRecord // outer index is channel
	Position  []PositionRecord
}

// NewAmplitude wraps a waveform as an Amplitude-kind Data value.
func NewAmplitude(w WaveData) Data {
	return Data{Kind: KindAmplitude, Amplitude: w}
}

// NewFrequency wraps per-channel frequency timelines as a Frequency-kind Data value.
func NewFrequency(channels [][]FreqRecord) Data {
	return Data{Kind: KindFrequency, Frequency: channels}
}

// NewPosition wraps a position timeline as a Position-kind Data value.
func NewPosition(positions []PositionRecord) Data {
	return Data{Kind: KindPosition, Position: positions}
}

// IsEmpty reports whether the active variant carries zero records.
func (d Data) IsEmpty() bool {
	switch d.Kind {
	case KindAmplitude:
		return len(d.Amplitude.Samples) == 0
	case KindFrequency:
		for _, channel := range d.Frequency {
			if len(channel) > 0 {
				return false
			}
		}
		return true
	case KindPosition:
		return len(d.Position) == 0
	default:
		return true
	}
}
