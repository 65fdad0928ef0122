package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoShiMin/BeeSynth/internal/note"
)

func TestParseSample(t *testing.T) {
	listing := `#!/bin/beesynth
        @name  :sample
        @bpm: 120


        @channels   : ch1 ch2

@ch1  : !Q:E3 ~Q:E3 Q:F3
@ch2  : ~E:E4 ~E:0  H:E3
!Q:E3 ~Q:E3 Q:F3
@ch1  : !Q:E3 ~Q:E3 Q:F3
    `

	channels, err := Parse(listing)
	require.NoError(t, err)
	assert.EqualValues(t, 120, channels.BPM)
	require.Len(t, channels.Channels, 2)

	e3, _ := note.New(note.E, note.Natural, 3)
	f3, _ := note.New(note.F, note.Natural, 3)
	e4, _ := note.New(note.E, note.Natural, 4)

	assert.Equal(t, []Record{
		{Note: &e3, Divisor: Quarter, Style: Staccato},
		{Note: &e3, Divisor: Quarter, Style: Legato},
		{Note: &f3, Divisor: Quarter, Style: NonLegato},
		{Note: &e3, Divisor: Quarter, Style: Staccato},
		{Note: &e3, Divisor: Quarter, Style: Legato},
		{Note: &f3, Divisor: Quarter, Style: NonLegato},
	}, channels.Channels[0])

	assert.Equal(t, []Record{
		{Note: &e4, Divisor: Eighth, Style: Legato},
		{Note: nil, Divisor: Eighth, Style: Legato},
		{Note: &e3, Divisor: Half, Style: NonLegato},
		{Note: &e3, Divisor: Quarter, Style: Staccato},
		{Note: &e3, Divisor: Quarter, Style: Legato},
		{Note: &f3, Divisor: Quarter, Style: NonLegato},
	}, channels.Channels[1])
}

func TestParseMissingBPM(t *testing.T) {
	_, err := Parse("#!/bin/beesynth\n@channels: c1\n@c1: Q:E3\n")
	assert.Error(t, err)
}

func TestParseEndToEndScenario(t *testing.T) {
	listing := `#!/bin/beesynth
@bpm: 120
@channels: c1
@c1: !Q:E3 ~Q:E3 Q:F3
`
	channels, err := Parse(listing)
	require.NoError(t, err)
	require.Len(t, channels.Channels, 1)
	require.Len(t, channels.Channels[0], 3)

	freqs := []float32{164.81, 164.81, 174.61}
	for i, rec := range channels.Channels[0] {
		assert.InDelta(t, freqs[i], rec.Freq(), 0.01)
	}

	unstyled := channels.Channels[0][0].DurationUnstyledNsec(channels.BPM)
	assert.EqualValues(t, 500_000_000, unstyled)

	assert.EqualValues(t, 125_000_000, channels.Channels[0][0].DurationNsec(channels.BPM)) // staccato
	assert.EqualValues(t, 500_000_000, channels.Channels[0][1].DurationNsec(channels.BPM)) // legato
	assert.EqualValues(t, 400_000_000, channels.Channels[0][2].DurationNsec(channels.BPM)) // non-legato
}

func TestParseEmitParseRoundTrip(t *testing.T) {
	listing := "#!/bin/beesynth\n@bpm: 90\n@channels: c1 c2\n@c1: !Q:E3 ~Q:E3 Q:0\n@c2: H:C4#\n"

	first, err := Parse(listing)
	require.NoError(t, err)

	reemitted := first.String()
	second, err := Parse(reemitted)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseRecordErrors(t *testing.T) {
	_, err := ParseRecord("")
	assert.Error(t, err)

	_, err = ParseRecord("Q")
	assert.Error(t, err)

	_, err = ParseRecord(":E3")
	assert.Error(t, err)

	_, err = ParseRecord("Q:")
	assert.Error(t, err)

	_, err = ParseRecord("Z:E3")
	assert.Error(t, err)
}
