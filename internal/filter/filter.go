// Package filter implements the composable wavedata.Data pipeline: RC
// tone-shaping filters, amplitude-to-position bakers, an FFT frequency
// extractor, and a note quantizer.
package filter

import "github.com/HoShiMin/BeeSynth/internal/wavedata"

// Type names which wavedata.Kind a Filter accepts as input.
type Type int

const (
	TypeAmplitude Type = iota
	TypeFrequency
)

// Filter transforms one Data value into another, or rejects it by
// returning ok=false when handed the wrong Kind.
type Filter interface {
	Type() Type
	Apply(data wavedata.Data) (wavedata.Data, bool)
}

// Chain runs data through filters in order, stopping and returning an
// error on the first type mismatch.
func Chain(data wavedata.Data, filters ...Filter) (wavedata.Data, error) {
	current := data
	for _, f := range filters {
		next, ok := f.Apply(current)
		if !ok {
			return wavedata.Data{}, &TypeMismatchError{Filter: f}
		}
		current = next
	}
	return current, nil
}

// TypeMismatchError reports that a filter was handed a Data variant it
// does not accept.
type TypeMismatchError struct {
	Filter Filter
}

func (e *TypeMismatchError) Error() string {
	return "pipeline type mismatch: filter does not accept this Data variant"
}
