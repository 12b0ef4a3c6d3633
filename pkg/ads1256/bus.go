package ads1256

// SerialBus is the transport capability the driver consumes: byte-level
// transfer over a clocked serial link plus the three discrete lines wired
// to the converter. Implementations live in pkg/rpihat and pkg/ft232h.
//
// Transfers are atomic from the driver's perspective; the driver frames
// every transaction with SetCS and holds the chip select low for the full
// duration. Implementations must not toggle chip select on their own.
type SerialBus interface {
	// WriteBytes clocks out all of data, MSB first per byte.
	WriteBytes(data []byte) error

	// ReadBytes clocks in len(p) bytes into p.
	ReadBytes(p []byte) error

	// SetCS drives the chip select line. The ADS1256 is selected while
	// the line is low.
	SetCS(high bool) error

	// SetReset drives the RST line. Reset is active low.
	SetReset(high bool) error

	// ReadDRDY samples the DRDY line. low is true when the line is at
	// its active (low) level, meaning conversion data is ready.
	ReadDRDY() (low bool, err error)

	// Close releases the bus and all lines.
	Close() error
}
