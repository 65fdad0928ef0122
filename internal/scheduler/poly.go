package scheduler

import (
	"github.com/HoShiMin/BeeSynth/internal/speaker"
	"github.com/HoShiMin/BeeSynth/internal/stopflag"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// channelState is one of a polyphonic voice's three states (§4.7.3).
type channelState int

const (
	stateFreq channelState = iota
	stateMute
	stateEnd
)

// channel tracks one voice's time-division state: a held tone or silence
// run with its remaining TSC ticks, or exhaustion.
type channel struct {
	state          channelState
	freq           speaker.BeeperFrequency
	remainingTicks int64
	channelNumber  int
}

func (c *channel) setState(freq wavedata.Hz, remainingTicks int64) {
	if freq > 0 {
		c.state = stateFreq
		c.freq = speaker.NewFrequencyFromFloat(freq)
	} else {
		c.state = stateMute
	}
	c.remainingTicks = remainingTicks
}

// spend consumes elapsedTicks from the channel's current record, pulling
// further records from the peeker once the current one is exhausted, and
// clips the new record by the leftover overflow ticks. Record durations
// (nanoseconds) are converted to ticks via ticksPerNs before comparison,
// so overflow accounting always happens in a single unit.
func (c *channel) spend(peeker FreqPeeker, elapsedTicks int64, ticksPerNs float32) channelState {
	if c.state == stateEnd {
		return c.state
	}

	if c.remainingTicks > elapsedTicks {
		c.remainingTicks -= elapsedTicks
		return c.state
	}

	overflowTicks := elapsedTicks - c.remainingTicks
	for {
		sample, ok := peeker.Peek(c.channelNumber)
		if !ok {
			c.state = stateEnd
			return c.state
		}

		sampleTicks := int64(float32(sample.Duration) * ticksPerNs)
		if sampleTicks < overflowTicks {
			overflowTicks -= sampleTicks
			continue
		}

		c.setState(sample.Freq, sampleTicks-overflowTicks)
		return c.state
	}
}

func prepareChannels(peeker FreqPeeker, ticksPerNs float32) []*channel {
	var channels []*channel
	for i := 0; i < peeker.ChannelCount(); i++ {
		sample, ok := peeker.Peek(i)
		if !ok {
			continue
		}
		c := &channel{channelNumber: i}
		c.setState(sample.Freq, int64(float32(sample.Duration)*ticksPerNs))
		channels = append(channels, c)
	}
	return channels
}

// PlayFrequencyPoly approximates polyphony on the monophonic PC speaker
// by time-division round-robin across channels at switchIntervalNsec
// granularity (§4.7.3). Returns at once for 0 channels and falls back to
// PlayFrequencyMono for 1 channel.
func PlayFrequencyPoly(emitter Emitter, peeker FreqPeeker, waiter NanoWaiter, switchIntervalNsec int64, stop *stopflag.Flag) {
	switch peeker.ChannelCount() {
	case 0:
		return
	case 1:
		PlayFrequencyMono(emitter, peeker, waiter, stop)
		return
	}

	ticksPerNs := waiter.TicksInNanosecond()
	ticksPerSwitchInterval := int64(float32(switchIntervalNsec) * ticksPerNs)

	channels := prepareChannels(peeker, ticksPerNs)
	if len(channels) == 0 {
		return
	}

	emitter.Prepare()
	emitter.Play()

	channelCount := len(channels)
	isMute := false
	previousTicks := int64(waiter.Ticks())
	channelSwitchTimestamp := previousTicks
	channelIndex := 0

	for {
		if stop != nil && stop.Stopped() {
			break
		}

		currentTicks := int64(waiter.Ticks())
		elapsedTicks := currentTicks - previousTicks
		previousTicks = currentTicks

		hasSound := false
		hasUnfinished := false
		for _, c := range channels {
			switch c.spend(peeker, elapsedTicks, ticksPerNs) {
			case stateFreq:
				hasSound = true
				hasUnfinished = true
			case stateMute:
				hasUnfinished = true
			case stateEnd:
			}
		}

		if !hasUnfinished {
			break
		}

		if hasSound == isMute {
			if isMute {
				emitter.Play()
				isMute = false
			} else {
				emitter.Mute()
				isMute = true
			}
		}

		if !hasSound {
			continue
		}

		elapsedChannelTime := currentTicks - channelSwitchTimestamp
		if elapsedChannelTime < ticksPerSwitchInterval {
			continue
		}

		// Find the next non-muted, non-exhausted channel; guaranteed to
		// exist since hasSound is true.
		for {
			if channelIndex < channelCount-1 {
				channelIndex++
			} else {
				channelIndex = 0
			}

			c := channels[channelIndex]
			if c.state == stateFreq {
				emitter.SetFrequency(c.freq)
				break
			}
		}

		channelSwitchTimestamp = currentTicks
	}

	emitter.Mute()
}
