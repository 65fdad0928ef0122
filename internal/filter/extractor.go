package filter

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// FreqExtractor performs a sliding-window FFT over Amplitude data and
// emits the loudest peaks per window as per-channel Frequency data.
type FreqExtractor struct {
	lowerBoundHz *uint32
	upperBoundHz *uint32
	samplingSize uint32
	stepBy       uint32
	sampleRate   uint32
	numberOfPeaks uint8
}

// NewFreqExtractor builds a FreqExtractor. lowerBoundHz/upperBoundHz may
// be nil to use the default bin range: index 0 up to index samplingSize/2
// (0 Hz up to the Nyquist frequency).
func NewFreqExtractor(lowerBoundHz, upperBoundHz *uint32, samplingSize, stepBy, sampleRate uint32, numberOfPeaks uint8) *FreqExtractor {
	return &FreqExtractor{
		lowerBoundHz:  lowerBoundHz,
		upperBoundHz:  upperBoundHz,
		samplingSize:  samplingSize,
		stepBy:        stepBy,
		sampleRate:    sampleRate,
		numberOfPeaks: numberOfPeaks,
	}
}

func (e *FreqExtractor) Type() Type { return TypeAmplitude }

const nanosInSec = 1_000_000_000

func (e *FreqExtractor) Apply(data wavedata.Data) (wavedata.Data, bool) {
	if data.Kind != wavedata.KindAmplitude {
		return wavedata.Data{}, false
	}
	samples := data.Amplitude.Samples

	duration := int64(uint64(nanosInSec) * uint64(e.stepBy) / uint64(e.sampleRate))

	channels := make([][]wavedata.FreqRecord, e.numberOfPeaks)

	lowerIndex := 0
	if e.lowerBoundHz != nil {
		lowerIndex = int(*e.lowerBoundHz * e.samplingSize / e.sampleRate)
	}
	upperIndex := int(e.samplingSize / 2)
	if e.upperBoundHz != nil {
		upperIndex = int(*e.upperBoundHz * e.samplingSize / e.sampleRate)
	}

	if len(samples) < int(e.samplingSize) {
		return wavedata.NewFrequency(channels), true
	}

	for i := 0; i+int(e.samplingSize) <= len(samples); i += int(e.stepBy) {
		chunk := samples[i : i+int(e.samplingSize)]

		complexSamples := make([]complex128, len(chunk))
		for j, s := range chunk {
			complexSamples[j] = complex(float64(s), 0)
		}

		transformed := fft.FFT(complexSamples)

		hi := upperIndex
		if hi > len(transformed) {
			hi = len(transformed)
		}
		if lowerIndex > hi {
			continue
		}
		magnitudes := make([]float64, hi-lowerIndex)
		for j := lowerIndex; j < hi; j++ {
			re, im := real(transformed[j]), imag(transformed[j])
			magnitudes[j-lowerIndex] = 20 * math.Log10(math.Sqrt(re*re+im*im))
		}

		peaks := findPeaks(magnitudes)

		for ch := 0; ch < len(peaks) && ch < len(channels); ch++ {
			freq := float32(e.sampleRate) * float32(peaks[ch]+lowerIndex) / float32(e.samplingSize)

			channel := channels[ch]
			if len(channel) > 0 {
				last := &channel[len(channel)-1]
				diffPercentage := freq * 100 / last.Freq
				if diffPercentage < 5 {
					last.Duration += duration
				} else {
					channels[ch] = append(channel, wavedata.FreqRecord{Freq: freq, Duration: duration})
				}
			} else {
				channels[ch] = append(channel, wavedata.FreqRecord{Freq: freq, Duration: duration})
			}
		}
	}

	return wavedata.NewFrequency(channels), true
}

// findPeaks returns the indices of local maxima in magnitudes, ordered
// from tallest to shortest.
func findPeaks(magnitudes []float64) []int {
	type peak struct {
		index     int
		magnitude float64
	}
	var peaks []peak
	for i := 1; i < len(magnitudes)-1; i++ {
		if magnitudes[i] > magnitudes[i-1] && magnitudes[i] > magnitudes[i+1] {
			peaks = append(peaks, peak{index: i, magnitude: magnitudes[i]})
		}
	}
	for i := 0; i < len(peaks); i++ {
		for j := i + 1; j < len(peaks); j++ {
			if peaks[j].magnitude > peaks[i].magnitude {
				peaks[i], peaks[j] = peaks[j], peaks[i]
			}
		}
	}
	result := make([]int, len(peaks))
	for i, p := range peaks {
		result[i] = p.index
	}
	return result
}
