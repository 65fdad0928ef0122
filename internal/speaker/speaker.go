// Package speaker drives the PIT channel-2 / port-0x61 PC speaker:
// BeeperFrequency/BeeperDivisor conversions and the Driver that gates
// the speaker line through an ioport.Provider.
package speaker

import "github.com/HoShiMin/BeeSynth/internal/ioport"

// Port map (§6): 0x42 = PIT channel-2 data, 0x43 = PIT control,
// 0x61 = keyboard-controller port (bits 0-1 = speaker gate).
const (
	portPITData    = 0x42
	portPITControl = 0x43
	portGate       = 0x61

	pitModeWord = 0xB6 // channel 2, lobyte/hibyte, mode 3 (square wave), binary

	gateBitInput  = 0b01
	gateBitOutput = 0b10
)

// clockBaseHz is the PIT's base clock rate.
const clockBaseHz uint32 = 1_193_182

// BeeperFrequency is a frequency clamped to the PIT's representable
// range [19, 1_193_182] Hz.
type BeeperFrequency struct {
	hz uint32
}

var (
	minFreq = clockBaseHz/65535 + 1 // 19 Hz (18.206 Hz rounded up)
	maxFreq = clockBaseHz
)

// NewClampedFrequency clamps freqHz into [MinFrequency, MaxFrequency].
func NewClampedFrequency(freqHz uint32) BeeperFrequency {
	if freqHz < minFreq {
		freqHz = minFreq
	}
	if freqHz > maxFreq {
		freqHz = maxFreq
	}
	return BeeperFrequency{hz: freqHz}
}

// NewFrequencyFromFloat clamps a floating-point Hz value, rounding to
// the nearest integer Hz first.
func NewFrequencyFromFloat(freqHz float32) BeeperFrequency {
	if freqHz < 0 {
		return BeeperFrequency{hz: minFreq}
	}
	if freqHz > float32(maxFreq) {
		return BeeperFrequency{hz: maxFreq}
	}
	return NewClampedFrequency(uint32(freqHz + 0.5))
}

// Get returns the clamped frequency in Hz.
func (f BeeperFrequency) Get() uint32 { return f.hz }

// MinFrequency and MaxFrequency are the PIT's representable bounds.
func MinFrequency() BeeperFrequency { return BeeperFrequency{hz: minFreq} }
func MaxFrequency() BeeperFrequency { return BeeperFrequency{hz: maxFreq} }

// BeeperDivisor is the 16-bit value loaded into PIT channel 2.
type BeeperDivisor struct {
	value uint16
}

// NewDivisor clamps divisor 0 to 1 (division by zero is inapplicable).
func NewDivisor(divisor uint16) BeeperDivisor {
	if divisor == 0 {
		return BeeperDivisor{value: 1}
	}
	return BeeperDivisor{value: divisor}
}

// DivisorFromFrequency converts a clamped frequency to its PIT divisor:
// divisor = 1_193_182 / freq.
func DivisorFromFrequency(freq BeeperFrequency) BeeperDivisor {
	return BeeperDivisor{value: uint16(clockBaseHz / freq.Get())}
}

// Get returns the raw 16-bit divisor value.
func (d BeeperDivisor) Get() uint16 { return d.value }

// Driver programs the PIT and gates the speaker line through a Provider.
type Driver struct {
	ports   ioport.Provider
	control uint8
}

// NewDriver wraps a port provider as a speaker Driver.
func NewDriver(ports ioport.Provider) *Driver {
	return &Driver{ports: ports}
}

// Prepare writes the PIT mode word and caches the current gate-port value.
func (d *Driver) Prepare() bool {
	if !d.ports.WriteByte(portPITControl, pitModeWord) {
		return false
	}
	value, ok := d.ports.ReadByte(portGate)
	if !ok {
		return false
	}
	d.control = value
	return true
}

// SetDivisor writes the divisor as two successive low-then-high byte
// writes to the PIT data port.
func (d *Driver) SetDivisor(divisor BeeperDivisor) {
	d.ports.WriteByte(portPITData, uint8(divisor.Get()))
	d.ports.WriteByte(portPITData, uint8(divisor.Get()>>8))
}

// SetFrequency converts freq to a divisor and programs it.
func (d *Driver) SetFrequency(freq BeeperFrequency) {
	d.SetDivisor(DivisorFromFrequency(freq))
}

// Play enables the PIT input and ungates the output.
func (d *Driver) Play() {
	d.ports.WriteByte(portGate, d.control|0b11)
}

// Mute gates off both the PIT input and the output.
func (d *Driver) Mute() {
	d.ports.WriteByte(portGate, d.control&^0b11)
}

// Up gates the output high regardless of the PIT, for amplitude playback.
func (d *Driver) Up() {
	d.ports.WriteByte(portGate, d.control|gateBitOutput)
}

// Down gates the output low, for amplitude playback.
func (d *Driver) Down() {
	d.ports.WriteByte(portGate, d.control&^uint8(gateBitOutput))
}
