package ads1256

// fullScale is the divisor for the 24-bit bipolar output format:
// 2^23 codes per polarity. A chip constant, independent of vref and gain.
const fullScale = 8388608.0

// Convert24To32 interprets a 3-byte, 24-bit signed value in two's
// complement form, MSB first, as a 32-bit int.
//
// Bit 23 of the wire value propagates into bits 24-31 (arithmetic sign
// extension), so negative readings keep their sign.
func Convert24To32(data []byte) int32 {
	var u32 uint32
	u32 |= uint32(data[0]) << 16
	u32 |= uint32(data[1]) << 8
	u32 |= uint32(data[2])

	// sign extension
	if (u32 & 0x800000) != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}

// RawToVoltage converts a sign-extended conversion code to volts:
//
//	voltage = code / 2^23 * (vrefPos - vrefNeg) / gain
//
// vrefPos and vrefNeg are the reference inputs in volts (5.0 and 0.0 on
// the stock board).
func RawToVoltage(code int32, gain Gain, vrefPos, vrefNeg float64) float64 {
	span := vrefPos - vrefNeg
	return float64(code) / fullScale * (span / gain.Factor())
}
