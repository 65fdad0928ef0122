// Package tsc implements a TSC-calibrated busy-wait nanosecond waiter:
// invariant-TSC calibration with Tukey-IQR outlier rejection, falling
// back to a wall-clock calibration when invariant TSC is unavailable.
package tsc

import (
	"sort"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// readTSC is hand-written amd64 Plan9 assembly (tsc_amd64.s) — Go has no
// RDTSC intrinsic.
func readTSC() uint64

// Waiter busy-waits on the TSC for a requested nanosecond duration.
type Waiter struct {
	ticksPerUsec    uint64
	correctionTicks int64
}

const (
	usecInMsec         = 1_000
	correctionCount     = 30
	correctionWaitNsec  = 800
	warmingCount        = 10
)

// New calibrates a Waiter. With invariant TSC and a reported base
// frequency, warms up with 10 short sleeps, measures 30 more, and
// Tukey-IQR-rejects outliers before averaging; otherwise falls back to
// a wall-clock calibration of calibrationMsec duration with zero
// correction.
func New(calibrationMsec uint32) *Waiter {
	if cpuid.CPU.Supports(cpuid.ITSC) && cpuid.CPU.Hz > 0 {
		baseTscFreqMhz := uint64(cpuid.CPU.Hz / 1_000_000)
		if baseTscFreqMhz > 0 {
			return calibrateInvariant(baseTscFreqMhz)
		}
	}
	return calibrateFallback(calibrationMsec)
}

func calibrateInvariant(baseTscFreqMhz uint64) *Waiter {
	w := &Waiter{ticksPerUsec: baseTscFreqMhz}

	for i := 0; i < warmingCount; i++ {
		w.NanoSleep(correctionWaitNsec)
	}

	deltas := make([]uint64, correctionCount)
	for i := range deltas {
		t1 := readTSC()
		w.NanoSleep(correctionWaitNsec)
		t2 := readTSC()
		deltas[i] = t2 - t1
	}

	average := tukeyFilteredAverage(deltas)
	measuredTicks := correctionWaitNsec * baseTscFreqMhz / 1000
	w.correctionTicks = int64(average) - int64(measuredTicks)

	return w
}

// tukeyFilteredAverage sorts deltas, computes Q1/Q3 as the medians of the
// lower/upper halves (the upper half excludes the overall median for odd
// counts), and averages the values inside [Q1-3*IQR, Q3+3*IQR].
func tukeyFilteredAverage(deltas []uint64) uint64 {
	sorted := append([]uint64(nil), deltas...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	median := func(s []uint64) uint64 {
		if len(s)%2 == 0 {
			hi := len(s) / 2
			return (s[hi-1] + s[hi]) / 2
		}
		return s[len(s)/2]
	}

	lowerHalf := sorted[:len(sorted)/2]
	var upperStart int
	if len(sorted)%2 == 0 {
		upperStart = len(sorted) / 2
	} else {
		upperStart = len(sorted)/2 + 1
	}
	upperHalf := sorted[upperStart:]

	q1 := median(lowerHalf)
	q3 := median(upperHalf)
	iqr := q3 - q1
	shift := iqr * 3
	lowerBound := int64(q1) - int64(shift)
	upperBound := q3 + shift

	var sum uint64
	var count uint64
	for _, v := range sorted {
		if int64(v) < lowerBound || v > upperBound {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return sorted[len(sorted)/2]
	}
	return sum / count
}

func calibrateFallback(calibrationMsec uint32) *Waiter {
	deadline := time.Now().Add(time.Duration(calibrationMsec) * time.Millisecond)
	ticksBegin := readTSC()
	for time.Now().Before(deadline) {
	}
	ticksEnd := readTSC()

	ticksDelta := ticksEnd - ticksBegin
	ticksPerUsec := ticksDelta / (uint64(calibrationMsec) * usecInMsec)

	return &Waiter{ticksPerUsec: ticksPerUsec, correctionTicks: 0}
}

// NanoSleep busy-waits for approximately nanoseconds nanoseconds. Below
// 8 ns it is a no-op; 8-12 ns consumes a single RDTSC (~20-30 cycles);
// otherwise it spins on RDTSC until the calibrated deadline. It is not
// preemptible — cancellation is the caller's responsibility via a
// higher-level flag checked between calls.
func (w *Waiter) NanoSleep(nanoseconds uint64) {
	if nanoseconds < 8 {
		return
	}
	if nanoseconds <= 12 {
		readTSC()
		return
	}

	currentTicks := int64(readTSC())
	endTicks := currentTicks - w.correctionTicks + int64(nanoseconds*w.ticksPerUsec/1000)

	for int64(readTSC()) < endTicks {
	}
}

// TicksInNanosecond returns the calibrated TSC ticks per nanosecond.
func (w *Waiter) TicksInNanosecond() float32 {
	return float32(w.ticksPerUsec) / 1000
}

// Ticks returns the current raw TSC value, for callers that need to
// measure elapsed ticks between two points themselves (the polyphonic
// scheduler's per-channel time-division accounting).
func (w *Waiter) Ticks() uint64 {
	return readTSC()
}
