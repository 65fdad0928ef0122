package filter

import (
	"github.com/HoShiMin/BeeSynth/internal/note"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// NoteMatcher replaces every frequency in a Frequency-kind Data with the
// frequency of the nearest musical note.
type NoteMatcher struct{}

func (NoteMatcher) Type() Type { return TypeFrequency }

func (NoteMatcher) Apply(data wavedata.Data) (wavedata.Data, bool) {
	if data.Kind != wavedata.KindFrequency {
		return wavedata.Data{}, false
	}
	for _, channel := range data.Frequency {
		for i := range channel {
			channel[i].Freq = note.FindNearest(channel[i].Freq).Freq()
		}
	}
	return data, true
}
