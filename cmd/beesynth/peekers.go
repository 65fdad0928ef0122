package main

import (
	"github.com/HoShiMin/BeeSynth/internal/stopflag"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// positionPeeker walks a flat position timeline, stopping early once stop
// is set. Grounded on original_source/src/main.rs's AmplitudePeeker, which
// checks the same process-wide flag on every peek rather than just at loop
// entry.
type positionPeeker struct {
	records []wavedata.PositionRecord
	index   int
	stop    *stopflag.Flag
}

func newPositionPeeker(records []wavedata.PositionRecord, stop *stopflag.Flag) *positionPeeker {
	return &positionPeeker{records: records, stop: stop}
}

func (p *positionPeeker) Peek() (wavedata.PositionRecord, bool) {
	if p.stop != nil && p.stop.Stopped() {
		return wavedata.PositionRecord{}, false
	}
	if p.index >= len(p.records) {
		return wavedata.PositionRecord{}, false
	}
	rec := p.records[p.index]
	p.index++
	return rec, true
}

// freqPeeker walks one or more per-channel frequency timelines, each
// channel with its own independent cursor. Grounded on main.rs's
// FrequencyPeeker.
type freqPeeker struct {
	channels [][]wavedata.FreqRecord
	indices  []int
	stop     *stopflag.Flag
}

func newFreqPeeker(channels [][]wavedata.FreqRecord, stop *stopflag.Flag) *freqPeeker {
	return &freqPeeker{channels: channels, indices: make([]int, len(channels)), stop: stop}
}

func (p *freqPeeker) Peek(channelNumber int) (wavedata.FreqRecord, bool) {
	if p.stop != nil && p.stop.Stopped() {
		return wavedata.FreqRecord{}, false
	}
	if channelNumber < 0 || channelNumber >= len(p.channels) {
		return wavedata.FreqRecord{}, false
	}
	idx := p.indices[channelNumber]
	if idx >= len(p.channels[channelNumber]) {
		return wavedata.FreqRecord{}, false
	}
	p.indices[channelNumber]++
	return p.channels[channelNumber][idx], true
}

func (p *freqPeeker) ChannelCount() int {
	return len(p.channels)
}
