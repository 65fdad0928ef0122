package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoShiMin/BeeSynth/internal/note"
	"github.com/HoShiMin/BeeSynth/internal/score"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// TestScoreToDataStyledDurationsAndRests checks scoreToData against
// spec.md §8 scenario 2: three quarter notes at 120 BPM (unstyled 500ms),
// one of each non-legato style, plus a rest. Staccato and non-legato
// notes must split into a tone record and a trailing silence record;
// legato must not; a rest always uses its unstyled duration.
func TestScoreToDataStyledDurationsAndRests(t *testing.T) {
	e3, err := note.New(note.E, note.Natural, 3)
	require.NoError(t, err)
	f3, err := note.New(note.F, note.Natural, 3)
	require.NoError(t, err)

	channels := score.Channels{
		BPM: 120,
		Channels: [][]score.Record{
			{
				{Note: &e3, Divisor: score.Quarter, Style: score.Staccato},
				{Note: &e3, Divisor: score.Quarter, Style: score.Legato},
				{Note: &f3, Divisor: score.Quarter, Style: score.NonLegato},
				{Note: nil, Divisor: score.Quarter, Style: score.Staccato},
			},
		},
	}

	data := scoreToData(channels)
	require.Equal(t, wavedata.KindFrequency, data.Kind)
	require.Len(t, data.Frequency, 1)

	const msec = int64(1_000_000)
	records := data.Frequency[0]
	require.Len(t, records, 6)

	assert.InDelta(t, 164.81, records[0].Freq, 0.01)
	assert.Equal(t, 125*msec, records[0].Duration)

	assert.Equal(t, wavedata.Hz(0), records[1].Freq)
	assert.Equal(t, 375*msec, records[1].Duration)

	assert.InDelta(t, 164.81, records[2].Freq, 0.01)
	assert.Equal(t, 500*msec, records[2].Duration)

	assert.InDelta(t, 174.61, records[3].Freq, 0.01)
	assert.Equal(t, 400*msec, records[3].Duration)

	assert.Equal(t, wavedata.Hz(0), records[4].Freq)
	assert.Equal(t, 100*msec, records[4].Duration)

	// The trailing rest: always the unstyled duration, regardless of its
	// own style field.
	assert.Equal(t, wavedata.Hz(0), records[5].Freq)
	assert.Equal(t, 500*msec, records[5].Duration)
}
