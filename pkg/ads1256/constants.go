package ads1256

// Constants from the datasheet

// Register addresses
const (
	// RegSTATUS is the STATUS register
	RegSTATUS = 0x00
	// RegMUX is the multiplexer register
	RegMUX = 0x01
	// RegADCON is the ADCON register
	RegADCON = 0x02
	// RegDRATE is the data rate register
	RegDRATE = 0x03
	// RegIO is the I/O register
	RegIO = 0x04
	// RegOFC0 is the offset calibration register 0
	RegOFC0 = 0x05
	// RegOFC1 is the offset calibration register 1
	RegOFC1 = 0x06
	// RegOFC2 is the offset calibration register 2
	RegOFC2 = 0x07
	// RegFSC0 is the full-scale calibration register 0
	RegFSC0 = 0x08
	// RegFSC1 is the full-scale calibration register 1
	RegFSC1 = 0x09
	// RegFSC2 is the full-scale calibration register 2
	RegFSC2 = 0x0A

	// NumRegisters is the total number of registers.
	NumRegisters = 0x0B
)

// Command opcodes
const (
	CMDWAKEUP   = 0x00
	CMDRDATA    = 0x01
	CMDRDATAC   = 0x03
	CMDSDATAC   = 0x0F
	CMDRREG     = 0x10 // 0x10 + (reg & 0x0F)
	CMDWREG     = 0x50 // 0x50 + (reg & 0x0F)
	CMDSELFCAL  = 0xF0
	CMDSELFOCAL = 0xF1
	CMDSELFGCAL = 0xF2
	CMDSYSOCAL  = 0xF3
	CMDSYSGCAL  = 0xF4
	CMDSYNC     = 0xFC
	CMDSTANDBY  = 0xFD
	CMDRESET    = 0xFE
)

// Bits for the STATUS register
const (
	StatusORDERbit = 0x08 // (bit3)
	StatusACALbit  = 0x04 // (bit2)
	StatusBUFENbit = 0x02 // (bit1)
	StatusDRDYbit  = 0x01 // (bit0, read-only)
)

// ChipID is the factory-programmed ID in the upper nibble of STATUS.
const ChipID = 0x03

// muxAINCOM is the NSEL encoding for the analog common input.
const muxAINCOM = 0x08

// Gain selects the programmable gain amplifier setting, mapped 1:1 to the
// 3-bit PGA field of ADCON.
type Gain uint8

const (
	Gain1 Gain = iota // input range ±5 V with a 5 V reference span
	Gain2
	Gain4
	Gain8
	Gain16
	Gain32
	Gain64
)

// Factor returns the gain multiplier. Invalid settings fall back to 1.
func (g Gain) Factor() float64 {
	if g > Gain64 {
		return 1
	}
	return float64(int32(1) << g)
}

// Bits returns the PGA field value for ADCON.
func (g Gain) Bits() byte {
	return byte(g) & 0x07
}

func (g Gain) valid() bool {
	return g <= Gain64
}

// GainFor maps a plain multiplier (1, 2, 4 ... 64) to its Gain setting.
func GainFor(factor int) (Gain, bool) {
	for g := Gain1; g <= Gain64; g++ {
		if int(g.Factor()) == factor {
			return g, true
		}
	}
	return Gain1, false
}

// DataRate selects the output data rate of the programmable filter.
type DataRate uint8

const (
	DR30000SPS DataRate = iota
	DR15000SPS
	DR7500SPS
	DR3750SPS
	DR2000SPS
	DR1000SPS
	DR500SPS
	DR100SPS
	DR60SPS
	DR50SPS
	DR30SPS
	DR25SPS
	DR15SPS
	DR10SPS
	DR5SPS
	DR2p5SPS

	numDataRates = 16
)

// drateBytes is the DRATE register value per setting, assuming the
// standard 7.68 MHz crystal. These are calibration constants from the
// datasheet table, not derivable from the SPS values.
var drateBytes = [numDataRates]byte{
	0xF0, // 30000 SPS
	0xE0, // 15000 SPS
	0xD0, // 7500 SPS
	0xC0, // 3750 SPS
	0xB0, // 2000 SPS
	0xA1, // 1000 SPS
	0x92, // 500 SPS
	0x82, // 100 SPS
	0x72, // 60 SPS
	0x63, // 50 SPS
	0x53, // 30 SPS
	0x43, // 25 SPS
	0x33, // 15 SPS
	0x23, // 10 SPS
	0x13, // 5 SPS
	0x03, // 2.5 SPS
}

var drateSPS = [numDataRates]float64{
	30000, 15000, 7500, 3750, 2000, 1000, 500, 100,
	60, 50, 30, 25, 15, 10, 5, 2.5,
}

// Byte returns the DRATE register value for the setting. Invalid settings
// fall back to the slowest rate.
func (r DataRate) Byte() byte {
	if r >= numDataRates {
		return drateBytes[DR2p5SPS]
	}
	return drateBytes[r]
}

// SPS returns the theoretical single-channel continuous sample rate.
func (r DataRate) SPS() float64 {
	if r >= numDataRates {
		return drateSPS[DR2p5SPS]
	}
	return drateSPS[r]
}

func (r DataRate) valid() bool {
	return r < numDataRates
}

// DataRateFor maps a samples-per-second value to its DataRate setting.
func DataRateFor(sps float64) (DataRate, bool) {
	for r := DR30000SPS; r < numDataRates; r++ {
		if drateSPS[r] == sps {
			return r, true
		}
	}
	return DR2p5SPS, false
}

// ScanMode selects how analog inputs are routed to the converter.
type ScanMode uint8

const (
	// SingleEnded measures each of AIN0..AIN7 against AINCOM.
	SingleEnded ScanMode = iota
	// Differential measures the four fixed adjacent pairs
	// AIN0-AIN1, AIN2-AIN3, AIN4-AIN5, AIN6-AIN7.
	Differential
)

// Channels returns the number of addressable channels in the mode.
func (m ScanMode) Channels() int {
	if m == Differential {
		return 4
	}
	return 8
}

func (m ScanMode) String() string {
	switch m {
	case SingleEnded:
		return "single-ended"
	case Differential:
		return "differential"
	default:
		return "(invalid scan mode)"
	}
}

// muxValue encodes the MUX register byte for a channel index in the given
// mode. ok is false for an index out of range for the mode.
func muxValue(mode ScanMode, ch int) (byte, bool) {
	switch mode {
	case SingleEnded:
		if ch < 0 || ch > 7 {
			return 0, false
		}
		return byte(ch)<<4 | muxAINCOM, true
	case Differential:
		if ch < 0 || ch > 3 {
			return 0, false
		}
		pos := byte(ch * 2)
		return pos<<4 | (pos + 1), true
	default:
		return 0, false
	}
}
