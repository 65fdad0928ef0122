package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoShiMin/BeeSynth/internal/speaker"
	"github.com/HoShiMin/BeeSynth/internal/stopflag"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

type fakeEmitter struct {
	ups, downs, plays, mutes, prepares int
	frequencies                        []speaker.BeeperFrequency
}

func (f *fakeEmitter) Prepare() bool { f.prepares++; return true }
func (f *fakeEmitter) Play()         { f.plays++ }
func (f *fakeEmitter) Mute()         { f.mutes++ }
func (f *fakeEmitter) Up()           { f.ups++ }
func (f *fakeEmitter) Down()         { f.downs++ }
func (f *fakeEmitter) SetFrequency(freq speaker.BeeperFrequency) {
	f.frequencies = append(f.frequencies, freq)
}

type fakeWaiter struct {
	slept []uint64
	ticks uint64
}

func (w *fakeWaiter) NanoSleep(nanoseconds uint64) { w.slept = append(w.slept, nanoseconds) }
func (w *fakeWaiter) TicksInNanosecond() float32   { return 1 }
func (w *fakeWaiter) Ticks() uint64 {
	w.ticks += 1_000_000
	return w.ticks
}

type positionSliceePeeker struct {
	records []wavedata.PositionRecord
	index   int
}

func (p *positionSliceePeeker) Peek() (wavedata.PositionRecord, bool) {
	if p.index >= len(p.records) {
		return wavedata.PositionRecord{}, false
	}
	r := p.records[p.index]
	p.index++
	return r, true
}

func TestPlayPositionsTogglesOnChange(t *testing.T) {
	peeker := &positionSliceePeeker{records: []wavedata.PositionRecord{
		{Position: wavedata.Up, Duration: 100},
		{Position: wavedata.Up, Duration: 100},
		{Position: wavedata.Down, Duration: 100},
	}}
	emitter := &fakeEmitter{}
	waiter := &fakeWaiter{}

	PlayPositions(emitter, peeker, waiter, nil)

	assert.Equal(t, 1, emitter.ups)
	assert.Equal(t, 1, emitter.downs)
	assert.Len(t, waiter.slept, 3)
}

type monoSlicePeeker struct {
	records []wavedata.FreqRecord
	index   int
}

func (p *monoSlicePeeker) Peek(channelNumber int) (wavedata.FreqRecord, bool) {
	if channelNumber != 0 || p.index >= len(p.records) {
		return wavedata.FreqRecord{}, false
	}
	r := p.records[p.index]
	p.index++
	return r, true
}
func (p *monoSlicePeeker) ChannelCount() int { return 1 }

func TestPlayFrequencyMonoMutesOnSilence(t *testing.T) {
	peeker := &monoSlicePeeker{records: []wavedata.FreqRecord{
		{Freq: 440, Duration: 100},
		{Freq: 0, Duration: 100},
		{Freq: 880, Duration: 100},
	}}
	emitter := &fakeEmitter{}
	waiter := &fakeWaiter{}

	PlayFrequencyMono(emitter, peeker, waiter, nil)

	require.Len(t, emitter.frequencies, 2)
	assert.EqualValues(t, 440, emitter.frequencies[0].Get())
	assert.EqualValues(t, 880, emitter.frequencies[1].Get())
	assert.GreaterOrEqual(t, emitter.mutes, 2) // one mid-stream, one final
	assert.GreaterOrEqual(t, emitter.plays, 2) // initial + resume after silence
}

type multiSlicePeeker struct {
	channels [][]wavedata.FreqRecord
	indices  []int
}

func newMultiSlicePeeker(channels [][]wavedata.FreqRecord) *multiSlicePeeker {
	return &multiSlicePeeker{channels: channels, indices: make([]int, len(channels))}
}

func (p *multiSlicePeeker) Peek(channelNumber int) (wavedata.FreqRecord, bool) {
	if channelNumber < 0 || channelNumber >= len(p.channels) {
		return wavedata.FreqRecord{}, false
	}
	idx := p.indices[channelNumber]
	records := p.channels[channelNumber]
	if idx >= len(records) {
		return wavedata.FreqRecord{}, false
	}
	p.indices[channelNumber]++
	return records[idx], true
}
func (p *multiSlicePeeker) ChannelCount() int { return len(p.channels) }

func TestPlayFrequencyPolyStopsOnFlag(t *testing.T) {
	peeker := newMultiSlicePeeker([][]wavedata.FreqRecord{
		{{Freq: 440, Duration: 1_000_000_000}},
		{{Freq: 660, Duration: 1_000_000_000}},
	})
	emitter := &fakeEmitter{}
	waiter := &fakeWaiter{}
	stop := stopflag.New()
	stop.Stop()

	PlayFrequencyPoly(emitter, peeker, waiter, 20_000_000, stop)

	assert.GreaterOrEqual(t, emitter.mutes, 1)
}

func TestPlayFrequencyPolyZeroChannelsNoOp(t *testing.T) {
	peeker := newMultiSlicePeeker(nil)
	emitter := &fakeEmitter{}
	waiter := &fakeWaiter{}

	PlayFrequencyPoly(emitter, peeker, waiter, 20_000_000, nil)

	assert.Equal(t, 0, emitter.prepares)
}
