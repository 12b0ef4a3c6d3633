// Package dac8532 drives the TI DAC8532, the dual-channel 16-bit DAC
// sharing the serial bus with the ADC on the high-precision AD/DA board.
// It has its own chip select line.
package dac8532

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrClosed         = errors.New("dac8532: device closed")
	ErrInvalidChannel = errors.New("dac8532: invalid channel")
	ErrVoltageRange   = errors.New("dac8532: voltage out of range")
)

// Bus is the slice of the serial transport the DAC needs. SetCS drives the
// DAC's chip select line, not the ADC's.
type Bus interface {
	WriteBytes(data []byte) error
	SetCS(high bool) error
	Close() error
}

// Channel selects a DAC output. The values are the command bytes that
// address the channel and set its operating mode.
type Channel byte

const (
	ChannelA Channel = 0x30
	ChannelB Channel = 0x34
)

func (c Channel) valid() bool {
	return c == ChannelA || c == ChannelB
}

func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	default:
		return "(invalid channel)"
	}
}

// codeMax is the full-scale code of the 16-bit DAC.
const codeMax = 65535

// DefaultVref is the reference voltage of the stock board.
const DefaultVref = 5.0

// DAC8532 provides control over one DAC8532.
type DAC8532 struct {
	mu     sync.Mutex
	bus    Bus
	vref   float64
	closed bool
}

// New constructs a DAC8532 over the given bus. vref is the reference
// voltage in volts; zero or negative selects DefaultVref.
func New(bus Bus, vref float64) *DAC8532 {
	if vref <= 0 {
		vref = DefaultVref
	}
	return &DAC8532{bus: bus, vref: vref}
}

// Vref returns the configured reference voltage.
func (d *DAC8532) Vref() float64 {
	return d.vref
}

// Write loads a raw 16-bit code into the given channel. The transaction is
// one chip select frame: command byte, then the code MSB first.
func (d *DAC8532) Write(ch Channel, code uint16) error {
	if !ch.valid() {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidChannel, byte(ch))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	if err := d.bus.SetCS(false); err != nil {
		return err
	}
	out := []byte{byte(ch), byte(code >> 8), byte(code)}
	if err := d.bus.WriteBytes(out); err != nil {
		return errors.Join(err, d.bus.SetCS(true))
	}
	return d.bus.SetCS(true)
}

// SetVoltage programs the channel to the requested output voltage.
// Requests outside [0, vref] are rejected.
func (d *DAC8532) SetVoltage(ch Channel, volts float64) error {
	if volts < 0 || volts > d.vref {
		return fmt.Errorf("%w: %.3f V not in [0, %.3f]", ErrVoltageRange, volts, d.vref)
	}
	code := uint16(volts * codeMax / d.vref)
	return d.Write(ch, code)
}

// Close releases the bus. Safe to call more than once.
func (d *DAC8532) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.bus.Close()
}
