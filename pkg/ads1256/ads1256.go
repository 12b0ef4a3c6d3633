package ads1256

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrClosed         = errors.New("ads1256: device closed")
	ErrNotInitialized = errors.New("ads1256: device not initialized")
	ErrWrongChip      = errors.New("ads1256: unexpected chip id")
	ErrInvalidChannel = errors.New("ads1256: invalid channel for scan mode")
	ErrTooManyScan    = errors.New("ads1256: too many channels in scan list")
)

// t6Delay is the minimum wait between the command phase and the data phase
// of a read transaction (datasheet t6, 50 CLKIN periods ≈ 6.5 µs at
// 7.68 MHz). Skipping it corrupts reads at high bus speeds.
const t6Delay = 7 * time.Microsecond

// drdyPollInterval is the sleep between DRDY line samples while waiting
// for a conversion.
const drdyPollInterval = 10 * time.Microsecond

// ADS1256 provides high-level control over a TI ADS1256 ADC.
//
// All operations are synchronous and blocking, mirroring the single shared
// bus and the single conversion pipeline of the chip. The handle serializes
// its own transactions, but at most one in-flight conversion or register
// operation at a time remains required caller discipline.
type ADS1256 struct {
	mu  sync.Mutex
	bus SerialBus

	cfg         Config
	scanMode    ScanMode
	drdyTimeout time.Duration

	initialized bool
	closed      bool

	continuousMode atomic.Bool

	// Last read or written register states (for reference or debugging)
	regLR [NumRegisters]byte // "Last Read"  register data
	regLW [NumRegisters]byte // "Last Write" register data

	monitoring bool
	perf       Metrics

	log zerolog.Logger

	// injectable clock, overridden in tests
	now   func() time.Time
	sleep func(time.Duration)
}

// Config represents user-level configuration parameters.
type Config struct {
	Gain          Gain
	DataRate      DataRate
	BufferEnabled bool // enable the ADC's internal analog input buffer
	AutoCal       bool // auto-calibrate after register changes (STATUS ACAL bit)
	SelfCal       bool // run a self-calibration at the end of Initialize

	// DRDYTimeout bounds every wait for the data-ready line. Zero derives
	// a deadline from the configured data rate: four conversion periods,
	// with a 5 ms floor.
	DRDYTimeout time.Duration
}

// DefaultConfig provides default config. Adjust as needed.
func DefaultConfig() Config {
	return Config{
		Gain:     Gain1,
		DataRate: DR1000SPS,
	}
}

// New constructs an ADS1256 over the given bus. The device is not touched
// until Initialize is called.
func New(bus SerialBus) *ADS1256 {
	return &ADS1256{
		bus:   bus,
		log:   zerolog.Nop(),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// SetLogger directs driver warnings (DRDY timeouts, rejected channel
// indices) to l. The default logger discards everything.
func (adc *ADS1256) SetLogger(l zerolog.Logger) {
	adc.mu.Lock()
	adc.log = l
	adc.mu.Unlock()
}

// Initialize resets the device, verifies the chip identity and writes the
// configuration. It must succeed before any other operation is issued; on
// failure the handle stays unusable.
func (adc *ADS1256) Initialize(cfg Config) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return ErrClosed
	}

	if !cfg.Gain.valid() {
		return fmt.Errorf("ads1256: invalid gain setting %d", cfg.Gain)
	}
	if !cfg.DataRate.valid() {
		return fmt.Errorf("ads1256: invalid data rate setting %d", cfg.DataRate)
	}

	if err := adc.hardwareReset(); err != nil {
		return fmt.Errorf("ads1256: reset: %w", err)
	}

	adc.drdyTimeout = cfg.DRDYTimeout
	if adc.drdyTimeout == 0 {
		adc.drdyTimeout = drdyDeadlineFor(cfg.DataRate)
	}

	adc.waitDRDY()

	id, err := adc.readChipID()
	if err != nil {
		return fmt.Errorf("ads1256: read chip id: %w", err)
	}
	if id != ChipID {
		return fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrWrongChip, id, ChipID)
	}

	if err = adc.configure(cfg); err != nil {
		return fmt.Errorf("ads1256: configure: %w", err)
	}

	if cfg.SelfCal {
		if err = adc.sendCommand(CMDSELFCAL); err != nil {
			return fmt.Errorf("ads1256: self-calibrate: %w", err)
		}
		adc.waitDRDY()
	}

	adc.cfg = cfg
	adc.initialized = true
	return nil
}

// hardwareReset pulses the RST line, matching the power-up reset sequence.
func (adc *ADS1256) hardwareReset() error {
	steps := []bool{true, false, true}
	for _, level := range steps {
		if err := adc.bus.SetReset(level); err != nil {
			return err
		}
		adc.sleep(200 * time.Millisecond)
	}
	return nil
}

// drdyDeadlineFor sizes the DRDY wait for a data rate. A conversion takes
// one full output period, so slow rates legitimately keep DRDY high for
// hundreds of milliseconds.
func drdyDeadlineFor(rate DataRate) time.Duration {
	period := time.Duration(float64(time.Second) / rate.SPS())
	deadline := 4 * period
	if deadline < 5*time.Millisecond {
		deadline = 5 * time.Millisecond
	}
	return deadline
}

// configure writes STATUS, MUX, ADCON and DRATE in one WREG burst.
func (adc *ADS1256) configure(cfg Config) error {
	var statusVal byte
	if cfg.BufferEnabled {
		statusVal |= StatusBUFENbit
	}
	if cfg.AutoCal {
		statusVal |= StatusACALbit
	}
	// ORDER bit stays 0 => MSB first; ID bits are read-only.

	muxVal, _ := muxValue(SingleEnded, 0)

	// ADCON: clock out off, sensor detect off, PGA bits.
	adconVal := cfg.Gain.Bits()

	return adc.writeRegisters(RegSTATUS, statusVal, muxVal, adconVal, cfg.DataRate.Byte())
}

// Configure rewrites gain, data rate and buffering on an initialized
// device.
func (adc *ADS1256) Configure(cfg Config) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return err
	}
	if !cfg.Gain.valid() {
		return fmt.Errorf("ads1256: invalid gain setting %d", cfg.Gain)
	}
	if !cfg.DataRate.valid() {
		return fmt.Errorf("ads1256: invalid data rate setting %d", cfg.DataRate)
	}
	if err := adc.configure(cfg); err != nil {
		return err
	}
	adc.cfg = cfg
	adc.drdyTimeout = cfg.DRDYTimeout
	if adc.drdyTimeout == 0 {
		adc.drdyTimeout = drdyDeadlineFor(cfg.DataRate)
	}
	return nil
}

// Gain returns the configured gain setting.
func (adc *ADS1256) Gain() Gain {
	adc.mu.Lock()
	g := adc.cfg.Gain
	adc.mu.Unlock()
	return g
}

// DataRate returns the configured data rate setting.
func (adc *ADS1256) DataRate() DataRate {
	adc.mu.Lock()
	r := adc.cfg.DataRate
	adc.mu.Unlock()
	return r
}

// SetScanMode selects single-ended or differential input routing. The
// multiplexer itself is rewritten on the next acquisition.
func (adc *ADS1256) SetScanMode(mode ScanMode) error {
	if mode != SingleEnded && mode != Differential {
		return fmt.Errorf("ads1256: invalid scan mode %d", mode)
	}
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return err
	}
	adc.scanMode = mode
	return nil
}

// ScanModeConfigured returns the active scan mode.
func (adc *ADS1256) ScanModeConfigured() ScanMode {
	adc.mu.Lock()
	m := adc.scanMode
	adc.mu.Unlock()
	return m
}

// ensureReady reports whether operations may be issued. Callers hold mu.
func (adc *ADS1256) ensureReady() error {
	if adc.closed {
		return ErrClosed
	}
	if !adc.initialized {
		return ErrNotInitialized
	}
	return nil
}

// ReadChipID reads the factory ID from the upper nibble of STATUS. Unlike
// other operations it is valid before Initialize completes, since it is
// the identification step itself.
func (adc *ADS1256) ReadChipID() (byte, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if adc.closed {
		return 0, ErrClosed
	}
	return adc.readChipID()
}

func (adc *ADS1256) readChipID() (byte, error) {
	status, err := adc.readRegister(RegSTATUS)
	if err != nil {
		return 0, err
	}
	return status >> 4, nil
}

// Reset issues the RESET command, restoring power-up register values.
func (adc *ADS1256) Reset() error {
	return adc.command(CMDRESET)
}

// Sync restarts the conversion pipeline with the current multiplexer
// setting. Complete it with WakeUp.
func (adc *ADS1256) Sync() error {
	return adc.command(CMDSYNC)
}

// WakeUp completes a SYNC sequence or leaves standby mode.
func (adc *ADS1256) WakeUp() error {
	return adc.command(CMDWAKEUP)
}

// Standby shuts down the analog front end, leaving the oscillator running.
func (adc *ADS1256) Standby() error {
	return adc.command(CMDSTANDBY)
}

// SelfCal runs an offset and gain self-calibration, blocking until the
// device signals completion.
func (adc *ADS1256) SelfCal() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return err
	}
	if err := adc.sendCommand(CMDSELFCAL); err != nil {
		return err
	}
	adc.waitDRDY()
	return nil
}

func (adc *ADS1256) command(cmd byte) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return err
	}
	return adc.sendCommand(cmd)
}

// Close puts the device into standby and releases the bus and lines.
// Safe to call more than once; subsequent calls return nil.
func (adc *ADS1256) Close() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return nil
	}

	var err error
	if adc.initialized {
		err = adc.sendCommand(CMDSTANDBY)
	}
	err = errors.Join(err, adc.bus.Close())

	adc.closed = true
	adc.initialized = false
	return err
}
