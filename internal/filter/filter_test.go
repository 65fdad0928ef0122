package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

func TestBakeSimple(t *testing.T) {
	samples := []float32{0.5, 0.1, -0.2, -0.3, 0.4}
	data := wavedata.NewAmplitude(wavedata.WaveData{Samples: samples, SampleRate: 10})

	baked, ok := NewBakery(StrategySimple{}).Apply(data)
	require.True(t, ok)
	require.Equal(t, wavedata.KindPosition, baked.Kind)

	assert.Equal(t, []wavedata.PositionRecord{
		{Position: wavedata.Up, Duration: 2e8},
		{Position: wavedata.Down, Duration: 2e8},
		{Position: wavedata.Up, Duration: 1e8},
	}, baked.Position)

	var total int64
	for _, p := range baked.Position {
		total += p.Duration
	}
	assert.EqualValues(t, int64(len(samples))*1e9/10, total)
}

func TestBakeSimpleRejectsNonAmplitude(t *testing.T) {
	_, ok := NewBakery(StrategySimple{}).Apply(wavedata.NewPosition(nil))
	assert.False(t, ok)
}

func TestBakeSimpleIdempotentOnPositionRejected(t *testing.T) {
	baked, _ := NewBakery(StrategySimple{}).Apply(wavedata.NewAmplitude(wavedata.WaveData{Samples: []float32{0.1}, SampleRate: 10}))
	_, ok := NewBakery(StrategySimple{}).Apply(baked)
	assert.False(t, ok)
}

func TestHighPassLowPassRoundTrip(t *testing.T) {
	n := 200
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 1.0
	}

	lp := NewLowPass(1000, 50)
	hp := NewHighPass(1000, 50)

	data := wavedata.NewAmplitude(wavedata.WaveData{Samples: append([]float32{}, samples...), SampleRate: 1000})
	data, ok := lp.Apply(data)
	require.True(t, ok)
	data, ok = hp.Apply(data)
	require.True(t, ok)

	tail := data.Amplitude.Samples[n-10:]
	for _, s := range tail {
		assert.InDelta(t, 0, s, 0.05)
	}
}

func TestNoteMatcherIdempotent(t *testing.T) {
	data := wavedata.NewFrequency([][]wavedata.FreqRecord{
		{{Freq: 440, Duration: 1}},
	})

	matched, ok := NoteMatcher{}.Apply(data)
	require.True(t, ok)

	matchedAgain, ok := NoteMatcher{}.Apply(matched)
	require.True(t, ok)

	assert.Equal(t, matched, matchedAgain)
}
