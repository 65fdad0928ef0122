package tsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTukeyFilteredAverageRejectsOutliers(t *testing.T) {
	deltas := []uint64{70, 73, 68, 3000, 71, 71, 69, 8000, 65, 78}
	avg := tukeyFilteredAverage(deltas)
	assert.Greater(t, avg, uint64(60))
	assert.Less(t, avg, uint64(100))
}

func TestWaiterTicksInNanosecondPositive(t *testing.T) {
	w := calibrateFallback(5)
	require.Greater(t, w.TicksInNanosecond(), float32(0))
}

func TestWaiterNanoSleepShortDurationsDoNotHang(t *testing.T) {
	w := calibrateFallback(5)
	w.NanoSleep(0)
	w.NanoSleep(5)
	w.NanoSleep(10)
}
