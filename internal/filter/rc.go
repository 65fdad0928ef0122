package filter

import (
	"math"

	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

func calcRC(freqHz float32) float32 {
	return 1 / (2 * float32(math.Pi) * freqHz)
}

func calcDT(sampleRateHz uint32) float32 {
	return 1 / float32(sampleRateHz)
}

// HighPass is a single-pole RC high-pass filter run over Amplitude data.
type HighPass struct {
	dt float32
	rc float32
}

// NewHighPass builds a HighPass with the given sample rate and cutoff.
func NewHighPass(sampleRateHz uint32, freqHz float32) *HighPass {
	return &HighPass{dt: calcDT(sampleRateHz), rc: calcRC(freqHz)}
}

func (h *HighPass) apply(samples []float32) {
	if len(samples) == 0 {
		return
	}
	alpha := h.rc / (h.rc + h.dt)

	prevSample := samples[0]
	prevFiltered := prevSample

	for i, sample := range samples {
		currentFiltered := alpha * (prevFiltered + sample - prevSample)
		samples[i] = currentFiltered
		prevSample = sample
		prevFiltered = currentFiltered
	}
}

func (h *HighPass) Type() Type { return TypeAmplitude }

func (h *HighPass) Apply(data wavedata.Data) (wavedata.Data, bool) {
	if data.Kind != wavedata.KindAmplitude {
		return wavedata.Data{}, false
	}
	h.apply(data.Amplitude.Samples)
	return data, true
}

// LowPass is a single-pole RC low-pass filter run over Amplitude data.
type LowPass struct {
	dt float32
	rc float32
}

// NewLowPass builds a LowPass with the given sample rate and cutoff.
func NewLowPass(sampleRateHz uint32, freqHz float32) *LowPass {
	return &LowPass{dt: calcDT(sampleRateHz), rc: calcRC(freqHz)}
}

func (l *LowPass) apply(samples []float32) {
	if len(samples) == 0 {
		return
	}
	alpha := l.dt / (l.rc + l.dt)

	prevFiltered := alpha * samples[0]

	for i, sample := range samples {
		currentFiltered := alpha*sample + (1-alpha)*prevFiltered
		samples[i] = currentFiltered
		prevFiltered = currentFiltered
	}
}

func (l *LowPass) Type() Type { return TypeAmplitude }

func (l *LowPass) Apply(data wavedata.Data) (wavedata.Data, bool) {
	if data.Kind != wavedata.KindAmplitude {
		return wavedata.Data{}, false
	}
	l.apply(data.Amplitude.Samples)
	return data, true
}
