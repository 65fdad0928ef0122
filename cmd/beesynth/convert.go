package main

import (
	"github.com/HoShiMin/BeeSynth/internal/riffwave"
	"github.com/HoShiMin/BeeSynth/internal/score"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// scoreToData converts a parsed score into a per-channel frequency
// timeline, the Go equivalent of the original's `impl From<Channels> for
// filter::Data`. A rest always takes its unstyled duration, regardless of
// style. A real note takes its styled duration; if its style isn't
// Legato and the unstyled duration is longer, a trailing zero-freq
// silence record fills the remainder, giving staccato/non-legato notes
// their gap before the next record.
func scoreToData(channels score.Channels) wavedata.Data {
	out := make([][]wavedata.FreqRecord, len(channels.Channels))
	for i, channel := range channels.Channels {
		var records []wavedata.FreqRecord
		for _, rec := range channel {
			if rec.Note == nil {
				records = append(records, wavedata.FreqRecord{
					Freq:     0,
					Duration: rec.DurationUnstyledNsec(channels.BPM),
				})
				continue
			}

			duration := rec.DurationNsec(channels.BPM)
			records = append(records, wavedata.FreqRecord{
				Freq:     rec.Freq(),
				Duration: duration,
			})

			if rec.Style != score.Legato {
				unstyledDuration := rec.DurationUnstyledNsec(channels.BPM)
				if unstyledDuration > duration {
					records = append(records, wavedata.FreqRecord{
						Freq:     0,
						Duration: unstyledDuration - duration,
					})
				}
			}
		}
		out[i] = records
	}
	return wavedata.NewFrequency(out)
}

// wavBytesToData parses a RIFF/WAVE PCM buffer into an Amplitude-kind
// Data value, normalised to channel zero, the Go equivalent of
// `impl From<WaveView> for filter::Data`.
func wavBytesToData(buf []byte) (wavedata.Data, riffwave.Header, error) {
	header, err := riffwave.ParseHeader(buf)
	if err != nil {
		return wavedata.Data{}, riffwave.Header{}, err
	}
	samples, err := riffwave.LookupSamples(buf)
	if err != nil {
		return wavedata.Data{}, riffwave.Header{}, err
	}
	normalized := riffwave.NormalizeToFloat32(samples, header.NumChannels)
	return wavedata.NewAmplitude(wavedata.WaveData{Samples: normalized, SampleRate: header.SampleRate}), header, nil
}
