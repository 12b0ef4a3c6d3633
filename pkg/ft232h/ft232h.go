// Package ft232h implements the serial transport for the AD/DA board
// wired to an FT232H USB breakout: SPI through the MPSSE engine, with the
// chip select, reset and data-ready lines on GPIO pins.
package ft232h

import (
	"fmt"
	"io"

	"github.com/yunginnanet/ft232h"
)

// Bus represents an FT232H device carrying the AD/DA serial bus. It
// satisfies ads1256.SerialBus once the three lines are assigned.
type Bus struct {
	*ft232h.FT232H
	info DeviceInfo

	csPin   ft232h.CPin
	rstPin  ft232h.CPin
	drdyPin ft232h.CPin
}

// Connect opens an FT232H device. With no descriptor the first device
// found is used.
func Connect(choice ...Descriptor) (*Bus, error) {
	b := &Bus{}
	var err error

	switch len(choice) {
	case 0:
		b.FT232H, err = ft232h.New()
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, ErrBadDescriptor
		}
		b.FT232H, err = ft232h.OpenMask(desc.Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, err
	}
	b.info = b.Info()
	return b, nil
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (b *Bus) Info() DeviceInfo {
	vid, pid := vidPid(b.FT232H)
	return DeviceInfo{
		Index:       b.Index(),
		Serial:      b.Serial(),
		Description: b.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      b.IsOpen(),
		IsHighSpeed: b.IsHiSpeed(),
	}
}

// String returns a string representation of the Bus device. It includes the vendor ID, product ID, and description.
func (b *Bus) String() string {
	return fmt.Sprintf("FT232H[%s:%s]: %s", b.info.VendorID, b.info.ProductID, b.Desc())
}

// SetCSPin assigns the ADC chip select line and drives it high.
func (b *Bus) SetCSPin(pin uint) error {
	b.csPin = ft232h.CPin(pin)
	return b.GPIO.ConfigPin(b.csPin, ft232h.Output, true)
}

// SetRSTPin assigns the ADC reset line and drives it high (inactive).
func (b *Bus) SetRSTPin(pin uint) error {
	b.rstPin = ft232h.CPin(pin)
	return b.GPIO.ConfigPin(b.rstPin, ft232h.Output, true)
}

// SetDRDYPin assigns the data-ready line as an input.
func (b *Bus) SetDRDYPin(pin uint) error {
	b.drdyPin = ft232h.CPin(pin)
	return b.GPIO.ConfigPin(b.drdyPin, ft232h.Input, true)
}

// WriteBytes clocks out data over the MPSSE SPI engine.
func (b *Bus) WriteBytes(data []byte) error {
	_, err := b.SPI.Write(data, false, false)
	return err
}

// ReadBytes clocks in len(p) bytes.
func (b *Bus) ReadBytes(p []byte) error {
	buf, err := b.SPI.Read(uint(len(p)), false, false)
	if err != nil {
		return err
	}
	if len(buf) < len(p) {
		return io.ErrUnexpectedEOF
	}
	copy(p, buf)
	return nil
}

// SetCS drives the chip select line.
func (b *Bus) SetCS(high bool) error {
	if b.csPin == 0 {
		return fmt.Errorf("CS pin not set")
	}
	return b.GPIO.Set(b.csPin, high)
}

// SetReset drives the RST line.
func (b *Bus) SetReset(high bool) error {
	if b.rstPin == 0 {
		return fmt.Errorf("RST pin not set")
	}
	return b.GPIO.Set(b.rstPin, high)
}

// ReadDRDY samples the DRDY line; low means conversion data is ready.
func (b *Bus) ReadDRDY() (bool, error) {
	if b.drdyPin == 0 {
		return false, fmt.Errorf("DRDY pin not set")
	}
	hl, err := b.GPIO.Get(b.drdyPin)
	if err != nil {
		return false, fmt.Errorf("failed to read DRDY pin: %w", err)
	}
	return !hl, nil
}

// Close releases the SPI engine and the device.
func (b *Bus) Close() error {
	return b.SPI.Close()
}
