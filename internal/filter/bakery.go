package filter

import "github.com/HoShiMin/BeeSynth/internal/wavedata"

// Percentage is a switch threshold expressed as a whole-number percent.
type Percentage = uint8

// Strategy selects how Bakery converts amplitude into speaker-cone
// positions.
type Strategy interface {
	isStrategy()
}

// StrategySimple emits Up for any positive sample, Down otherwise.
type StrategySimple struct{}

func (StrategySimple) isStrategy() {}

// StrategyDifferential sets the position from the current sample taken as
// a percentage of the previous one ((previous+diff)*100/previous): when
// that exceeds SwitchPercentage the position becomes Up if the sample rose
// and Down otherwise; when it does not, the current run is extended. With
// a near-zero previous sample the ratio is skipped: a rise switches to Up
// and anything else extends the run.
type StrategyDifferential struct {
	SwitchPercentage Percentage
}

func (StrategyDifferential) isStrategy() {}

// Bakery turns Amplitude data into Position data — the pulse stream the
// speaker driver plays back directly.
type Bakery struct {
	strategy Strategy
}

// NewBakery builds a Bakery using the given Strategy.
func NewBakery(strategy Strategy) *Bakery {
	return &Bakery{strategy: strategy}
}

func (b *Bakery) Type() Type { return TypeAmplitude }

const nsInSec = 1_000_000_000

func (b *Bakery) Apply(data wavedata.Data) (wavedata.Data, bool) {
	if data.Kind != wavedata.KindAmplitude {
		return wavedata.Data{}, false
	}
	wave := data.Amplitude

	if wave.SampleRate == 0 {
		return wavedata.NewPosition(nil), true
	}
	sampleDurationNsec := int64(nsInSec / uint64(wave.SampleRate))

	var positions []wavedata.PositionRecord

	switch s := b.strategy.(type) {
	case StrategySimple:
		for _, sample := range wave.Samples {
			position := wavedata.Down
			if sample > 0 {
				position = wavedata.Up
			}
			positions = appendOrExtend(positions, position, sampleDurationNsec)
		}

	case StrategyDifferential:
		var previous float32
		for i, sample := range wave.Samples {
			if i == 0 {
				position := wavedata.Down
				if sample > 0 {
					position = wavedata.Up
				}
				positions = append(positions, wavedata.PositionRecord{Position: position, Duration: sampleDurationNsec})
				previous = sample
				continue
			}

			diff := sample - previous
			var diffPercentage float32
			if absF(previous) < 1e-6 {
				if diff > 0 {
					diffPercentage = float32(s.SwitchPercentage) + 1
				} else {
					diffPercentage = 0
				}
			} else {
				diffPercentage = (previous + diff) * 100 / previous
			}

			if diffPercentage > float32(s.SwitchPercentage) {
				position := wavedata.Down
				if diff > 0 {
					position = wavedata.Up
				}
				last := &positions[len(positions)-1]
				if last.Position == position {
					last.Duration += sampleDurationNsec
				} else {
					positions = append(positions, wavedata.PositionRecord{Position: position, Duration: sampleDurationNsec})
				}
			} else {
				positions[len(positions)-1].Duration += sampleDurationNsec
			}

			previous = sample
		}
	}

	return wavedata.NewPosition(positions), true
}

func appendOrExtend(positions []wavedata.PositionRecord, position wavedata.Position, duration int64) []wavedata.PositionRecord {
	if len(positions) > 0 && positions[len(positions)-1].Position == position {
		positions[len(positions)-1].Duration += duration
		return positions
	}
	return append(positions, wavedata.PositionRecord{Position: position, Duration: duration})
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
