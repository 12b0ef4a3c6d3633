package ads1256

import (
	"errors"
	"fmt"
)

// SettlingPolicy is the number of complete DRDY cycles to wait after a
// multiplexer switch before the conversion data is captured. After a
// channel change the analog filter needs several full conversions before
// its output reflects the new input; waiting only one cycle trades
// residual settling error from the previous channel for throughput.
type SettlingPolicy uint8

const (
	// SettlingFast reads the first conversion after the switch. Highest
	// throughput, accepts bleed-through from the prior channel's state.
	SettlingFast SettlingPolicy = 1

	// SettlingFull discards the first three conversions and captures the
	// fourth, by which point the filter has fully settled.
	SettlingFull SettlingPolicy = 4
)

func (p SettlingPolicy) cycles() int {
	if p == 0 {
		return 1
	}
	return int(p)
}

// waitDRDY polls the data-ready line until it goes low or the deadline
// expires. A timeout is a warning, not an error: the chip offers no hard
// failure signal, so the caller proceeds to read whatever conversion is
// latched and accepts the stale-data risk.
func (adc *ADS1256) waitDRDY() (ready bool) {
	deadline := adc.now().Add(adc.drdyTimeout)
	for {
		low, err := adc.bus.ReadDRDY()
		if err != nil {
			adc.log.Warn().Err(err).Msg("DRDY read failed; proceeding with latched data")
			return false
		}
		if low {
			return true
		}
		if adc.now().After(deadline) {
			adc.log.Warn().
				Dur("timeout", adc.drdyTimeout).
				Msg("DRDY wait timed out; proceeding with latched data")
			return false
		}
		adc.sleep(drdyPollInterval)
	}
}

// readData issues RDATA and clocks in the 24-bit conversion result,
// reassembled big-endian and sign-extended.
func (adc *ADS1256) readData() (int32, error) {
	if err := adc.bus.SetCS(false); err != nil {
		return 0, err
	}
	if err := adc.bus.WriteBytes([]byte{CMDRDATA}); err != nil {
		return 0, errors.Join(err, adc.bus.SetCS(true))
	}

	adc.sleep(t6Delay)

	var buf [3]byte
	if err := adc.bus.ReadBytes(buf[:]); err != nil {
		return 0, errors.Join(err, adc.bus.SetCS(true))
	}

	return Convert24To32(buf[:]), adc.bus.SetCS(true)
}

// acquire runs the full conversion sequence for one channel:
// select -> sync -> wake -> settle -> read. Callers hold mu.
func (adc *ADS1256) acquire(ch int, settling SettlingPolicy) (int32, error) {
	mux, ok := muxValue(adc.scanMode, ch)
	if !ok {
		adc.log.Warn().
			Int("channel", ch).
			Stringer("mode", adc.scanMode).
			Msg("channel index out of range; returning zero sample")
		return 0, fmt.Errorf("%w: index %d in %s mode", ErrInvalidChannel, ch, adc.scanMode)
	}

	if err := adc.writeRegister(RegMUX, mux); err != nil {
		return 0, err
	}
	if err := adc.sendCommand(CMDSYNC); err != nil {
		return 0, err
	}
	if err := adc.sendCommand(CMDWAKEUP); err != nil {
		return 0, err
	}

	// Cycles before the last observe DRDY only; no data is clocked out
	// for conversions that are being discarded.
	cycles := settling.cycles()
	for i := 0; i < cycles; i++ {
		adc.waitDRDY()
		if i == cycles-1 {
			return adc.readData()
		}
	}
	return 0, nil // unreachable, cycles >= 1
}

// ReadChannel acquires one sample from the given channel index with
// minimal settling. An index out of range for the active scan mode yields
// a zero sample and ErrInvalidChannel; device state is untouched.
func (adc *ADS1256) ReadChannel(ch int) (int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return 0, err
	}
	return adc.acquire(ch, SettlingFast)
}

// ScanChannels acquires one sample per entry in channels, in order.
// Duplicates are permitted and are independently reacquired: every entry
// gets the complete select/sync/wake/settle/read sequence, so no result
// can be attributed to another entry's multiplexer state.
//
// An out-of-range index yields a zero sample for its slot and a logged
// warning; the remaining entries are still scanned. The returned slice
// always has len(channels) entries. Bus failures abort the scan.
func (adc *ADS1256) ScanChannels(channels []int, settling SettlingPolicy) ([]int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, errors.New("ads1256: no channels to scan")
	}
	if len(channels) > 8 {
		return nil, fmt.Errorf("%w: %d > 8", ErrTooManyScan, len(channels))
	}

	samples := make([]int32, len(channels))
	for i, ch := range channels {
		code, err := adc.acquire(ch, settling)
		if err != nil {
			if errors.Is(err, ErrInvalidChannel) {
				continue // slot stays zero, warning already logged
			}
			return samples, err
		}
		samples[i] = code
	}

	adc.recordSamples(len(channels), len(channels))
	return samples, nil
}

// ReadAllChannels scans every channel of the active scan mode in index
// order: 8 samples single-ended, 4 differential.
func (adc *ADS1256) ReadAllChannels(settling SettlingPolicy) ([]int32, error) {
	adc.mu.Lock()
	n := adc.scanMode.Channels()
	adc.mu.Unlock()

	channels := make([]int, n)
	for i := range channels {
		channels[i] = i
	}
	return adc.ScanChannels(channels, settling)
}

// ReadContinuous acquires count consecutive samples from a single channel
// using the chip's continuous read mode (RDATAC). The multiplexer is set
// once; after each DRDY transition the conversion is clocked out directly
// with no per-sample command overhead.
func (adc *ADS1256) ReadContinuous(ch int, count int) ([]int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, errors.New("ads1256: sample count must be positive")
	}

	mux, ok := muxValue(adc.scanMode, ch)
	if !ok {
		adc.log.Warn().
			Int("channel", ch).
			Stringer("mode", adc.scanMode).
			Msg("channel index out of range; returning zero sample")
		return nil, fmt.Errorf("%w: index %d in %s mode", ErrInvalidChannel, ch, adc.scanMode)
	}

	if err := adc.writeRegister(RegMUX, mux); err != nil {
		return nil, err
	}
	if err := adc.sendCommand(CMDSYNC); err != nil {
		return nil, err
	}
	if err := adc.sendCommand(CMDWAKEUP); err != nil {
		return nil, err
	}

	if err := adc.sendCommand(CMDRDATAC); err != nil {
		return nil, err
	}

	samples := make([]int32, 0, count)
	var buf [3]byte
	for i := 0; i < count; i++ {
		adc.waitDRDY()
		if err := adc.bus.SetCS(false); err != nil {
			return samples, errors.Join(err, adc.stopContinuous())
		}
		if err := adc.bus.ReadBytes(buf[:]); err != nil {
			return samples, errors.Join(err, adc.bus.SetCS(true), adc.stopContinuous())
		}
		if err := adc.bus.SetCS(true); err != nil {
			return samples, errors.Join(err, adc.stopContinuous())
		}
		samples = append(samples, Convert24To32(buf[:]))
	}

	if err := adc.stopContinuous(); err != nil {
		return samples, err
	}

	adc.recordSamples(count, 1)
	return samples, nil
}

func (adc *ADS1256) stopContinuous() error {
	return adc.sendCommand(CMDSDATAC)
}
