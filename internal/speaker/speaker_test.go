package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/HoShiMin/BeeSynth/internal/ioport"
)

func TestDivisorBoundaryScenario(t *testing.T) {
	low := NewClampedFrequency(18)
	assert.EqualValues(t, 19, low.Get())
	assert.EqualValues(t, 62_799, DivisorFromFrequency(low).Get())

	high := NewClampedFrequency(2_000_000)
	assert.EqualValues(t, 1_193_182, high.Get())
	assert.EqualValues(t, 1, DivisorFromFrequency(high).Get())
}

func TestDivisorRangeInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freqHz := rapid.Uint32Range(19, 1_193_182).Draw(t, "freqHz")
		divisor := DivisorFromFrequency(NewClampedFrequency(freqHz))
		require.GreaterOrEqual(t, divisor.Get(), uint16(1))
	})
}

// Within an audible musical range the quantization is tight; near the PIT's
// upper frequency limit a single divisor step spans a much larger Hz delta,
// so this invariant is only checked below 20 kHz.
func TestDivisorReconstructionInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freqHz := rapid.Uint32Range(19, 20_000).Draw(t, "freqHz")
		divisor := DivisorFromFrequency(NewClampedFrequency(freqHz))
		reconstructed := clockBaseHz / uint32(divisor.Get())
		require.InDelta(t, freqHz, reconstructed, float64(freqHz)*0.2+5)
	})
}

func TestDriverPlayMuteSequence(t *testing.T) {
	ports := ioport.NewFakeProvider()
	ports.WriteByte(portGate, 0x30)

	drv := NewDriver(ports)
	require.True(t, drv.Prepare())

	mode, _ := ports.ReadByte(portPITControl)
	assert.EqualValues(t, pitModeWord, mode)

	drv.Play()
	gate, _ := ports.ReadByte(portGate)
	assert.EqualValues(t, 0x30|0b11, gate)

	drv.Mute()
	gate, _ = ports.ReadByte(portGate)
	assert.EqualValues(t, 0x30&^0b11, gate)

	drv.Up()
	gate, _ = ports.ReadByte(portGate)
	assert.EqualValues(t, 0x30|0b10, gate)

	drv.Down()
	gate, _ = ports.ReadByte(portGate)
	assert.EqualValues(t, 0x30&^0b10, gate)
}

func TestSetDivisorWritesLowThenHigh(t *testing.T) {
	ports := ioport.NewFakeProvider()
	drv := NewDriver(ports)
	drv.SetDivisor(NewDivisor(0x1234))

	data, _ := ports.ReadByte(portPITData)
	assert.EqualValues(t, 0x12, data) // last write wins in the fake: the high byte
}
