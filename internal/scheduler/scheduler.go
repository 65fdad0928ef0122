// Package scheduler drives the speaker in realtime, consuming either a
// position timeline or one or more per-channel frequency timelines.
// Ported from original_source/src/wave/player.rs.
package scheduler

import (
	"github.com/HoShiMin/BeeSynth/internal/speaker"
	"github.com/HoShiMin/BeeSynth/internal/stopflag"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// Emitter is the subset of speaker.Driver the scheduler drives.
type Emitter interface {
	Prepare() bool
	Play()
	Mute()
	Up()
	Down()
	SetFrequency(freq speaker.BeeperFrequency)
}

// NanoWaiter is the subset of tsc.Waiter the scheduler needs.
type NanoWaiter interface {
	NanoSleep(nanoseconds uint64)
	TicksInNanosecond() float32
	Ticks() uint64
}

// PositionPeeker lazily yields the next speaker-cone position, or false
// once the timeline is exhausted.
type PositionPeeker interface {
	Peek() (wavedata.PositionRecord, bool)
}

// FreqPeeker lazily yields the next frequency record for a channel.
type FreqPeeker interface {
	Peek(channelNumber int) (wavedata.FreqRecord, bool)
	ChannelCount() int
}

// PlayPositions drives the speaker with a held Up/Down cone position per
// record (§4.7.1). Stops when the peeker is exhausted or stop is set.
func PlayPositions(emitter Emitter, peeker PositionPeeker, waiter NanoWaiter, stop *stopflag.Flag) {
	prevPosition := wavedata.Down

	for {
		if stop != nil && stop.Stopped() {
			break
		}
		sample, ok := peeker.Peek()
		if !ok {
			break
		}

		if sample.Position != prevPosition {
			switch sample.Position {
			case wavedata.Up:
				emitter.Up()
			case wavedata.Down:
				emitter.Down()
			}
			prevPosition = sample.Position
		}

		waiter.NanoSleep(uint64(sample.Duration))
	}
}

// PlayFrequencyMono drives the speaker directly from a single frequency
// timeline (§4.7.2): sets the frequency and mutes/unmutes on silence runs.
func PlayFrequencyMono(emitter Emitter, peeker FreqPeeker, waiter NanoWaiter, stop *stopflag.Flag) {
	emitter.Prepare()
	emitter.Play()

	isMute := false
	for {
		if stop != nil && stop.Stopped() {
			break
		}
		sample, ok := peeker.Peek(0)
		if !ok {
			break
		}

		if sample.Freq != 0 {
			emitter.SetFrequency(speaker.NewFrequencyFromFloat(sample.Freq))
			if isMute {
				emitter.Play()
				isMute = false
			}
		} else if !isMute {
			emitter.Mute()
			isMute = true
		}

		waiter.NanoSleep(uint64(sample.Duration))
	}

	emitter.Mute()
}
