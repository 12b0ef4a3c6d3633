// Package rpihat implements the serial transport for the high-precision
// AD/DA hat on a Raspberry Pi, bit-bashing SPI mode 1 over GPIO lines.
// It provides the ads1256.SerialBus capability plus a chip-select view
// for the on-board DAC8532.
package rpihat

import (
	"errors"
	"sync"
	"time"

	"github.com/warthog618/gpio"
)

// Pins holds the BCM GPIO assignments for the hat.
type Pins struct {
	SCLK uint8
	MOSI uint8
	MISO uint8
	CS   uint8 // ADC chip select
	CS1  uint8 // DAC chip select
	RST  uint8 // ADC reset
	DRDY uint8 // ADC data ready
}

// DefaultPins returns the stock hat wiring.
func DefaultPins() Pins {
	return Pins{
		SCLK: gpio.GPIO11,
		MOSI: gpio.GPIO10,
		MISO: gpio.GPIO9,
		CS:   gpio.GPIO22,
		CS1:  gpio.GPIO23,
		RST:  gpio.GPIO18,
		DRDY: gpio.GPIO17,
	}
}

// DefaultTclk is the time between clock edges (half the SCLK cycle).
const DefaultTclk = 500 * time.Nanosecond

// Bus is a bit-bashed serial bus over the hat's GPIO lines.
type Bus struct {
	mu sync.Mutex
	// time between clock edges
	tclk   time.Duration
	sclk   *gpio.Pin
	mosi   *gpio.Pin
	miso   *gpio.Pin
	cs     *gpio.Pin
	cs1    *gpio.Pin
	rst    *gpio.Pin
	drdy   *gpio.Pin
	closed bool
}

// Open maps the GPIO memory and claims the hat's lines. tclk <= 0 selects
// DefaultTclk.
func Open(tclk time.Duration, p Pins) (*Bus, error) {
	if tclk <= 0 {
		tclk = DefaultTclk
	}
	if err := gpio.Open(); err != nil {
		return nil, err
	}

	b := &Bus{
		tclk: tclk,
		sclk: gpio.NewPin(int(p.SCLK)),
		mosi: gpio.NewPin(int(p.MOSI)),
		miso: gpio.NewPin(int(p.MISO)),
		cs:   gpio.NewPin(int(p.CS)),
		cs1:  gpio.NewPin(int(p.CS1)),
		rst:  gpio.NewPin(int(p.RST)),
		drdy: gpio.NewPin(int(p.DRDY)),
	}

	// hold the devices deselected until needed...
	b.sclk.Low()
	b.sclk.Output()
	b.mosi.Low()
	b.mosi.Output()
	b.miso.Input()
	b.cs.High()
	b.cs.Output()
	b.cs1.High()
	b.cs1.Output()
	b.rst.High()
	b.rst.Output()
	b.drdy.Input()
	return b, nil
}

// WriteBytes clocks out data MSB first.
func (b *Bus) WriteBytes(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errClosed
	}
	for _, d := range data {
		for bit := 7; bit >= 0; bit-- {
			b.clockOut(gpio.Level(d&(1<<uint(bit)) != 0))
		}
	}
	return nil
}

// ReadBytes clocks in len(p) bytes MSB first.
func (b *Bus) ReadBytes(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errClosed
	}
	for i := range p {
		var d byte
		for bit := 0; bit < 8; bit++ {
			d <<= 1
			if b.clockIn() {
				d |= 0x01
			}
		}
		p[i] = d
	}
	return nil
}

// clockOut clocks out a data bit on MOSI.
// The device reads on the rising edge; clock starts and ends low.
func (b *Bus) clockOut(l gpio.Level) {
	b.mosi.Write(l)
	time.Sleep(b.tclk)
	b.sclk.High()
	time.Sleep(b.tclk)
	b.sclk.Low()
}

// clockIn clocks in a data bit from MISO.
// The device writes on the falling edge; the bit is sampled before the
// clock returns high.
func (b *Bus) clockIn() gpio.Level {
	time.Sleep(b.tclk)
	b.sclk.High()
	time.Sleep(b.tclk)
	b.sclk.Low()
	return b.miso.Read()
}

// SetCS drives the ADC chip select.
func (b *Bus) SetCS(high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errClosed
	}
	b.cs.Write(gpio.Level(high))
	return nil
}

// SetReset drives the ADC RST line.
func (b *Bus) SetReset(high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errClosed
	}
	b.rst.Write(gpio.Level(high))
	return nil
}

// ReadDRDY samples the DRDY line; low means data ready.
func (b *Bus) ReadDRDY() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, errClosed
	}
	return b.drdy.Read() == gpio.Low, nil
}

var errClosed = errors.New("rpihat: bus closed")

// DAC returns a view of the bus that selects the DAC8532 via its own chip
// select line. It satisfies dac8532.Bus; closing it is a no-op so the
// shared lines stay claimed until the Bus itself is closed.
func (b *Bus) DAC() *DACBus {
	return &DACBus{bus: b}
}

// DACBus is the DAC8532-facing view of the shared bus.
type DACBus struct {
	bus *Bus
}

func (d *DACBus) WriteBytes(data []byte) error {
	return d.bus.WriteBytes(data)
}

func (d *DACBus) SetCS(high bool) error {
	d.bus.mu.Lock()
	defer d.bus.mu.Unlock()
	if d.bus.closed {
		return errClosed
	}
	d.bus.cs1.Write(gpio.Level(high))
	return nil
}

func (d *DACBus) Close() error {
	return nil
}

// Close returns the driven lines to inputs and unmaps the GPIO memory.
// Safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.sclk.Input()
	b.mosi.Input()
	b.cs.Input()
	b.cs1.Input()
	b.rst.Input()
	return gpio.Close()
}
