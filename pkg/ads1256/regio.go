package ads1256

import (
	"errors"
	"fmt"
	"time"
)

type Register byte

// sendCommand frames a single command byte with chip select. If the device
// is in continuous read mode and the command conflicts with it, SDATAC is
// injected first.
func (adc *ADS1256) sendCommand(cmd byte) error {
	if err := adc.bus.SetCS(false); err != nil {
		return err
	}

	if err := adc.leaveContinuous(cmd); err != nil {
		return errors.Join(err, adc.bus.SetCS(true))
	}

	if err := adc.bus.WriteBytes([]byte{cmd}); err != nil {
		return errors.Join(err, adc.bus.SetCS(true))
	}

	switch cmd {
	case CMDRDATAC:
		adc.continuousMode.Store(true)
	case CMDSDATAC:
		adc.continuousMode.Store(false)
	}

	return adc.bus.SetCS(true)
}

// leaveContinuous exits RDATAC before a conflicting transaction. Callers
// hold chip select low.
func (adc *ADS1256) leaveContinuous(cmd byte) error {
	if !adc.continuousMode.Load() || cmd == CMDRDATAC || cmd == CMDSDATAC || cmd == CMDRESET {
		return nil
	}
	if err := adc.bus.WriteBytes([]byte{CMDSDATAC}); err != nil {
		return err
	}
	adc.continuousMode.Store(false)
	adc.sleep(100 * time.Microsecond)
	return nil
}

// writeRegister writes a single register [regAddr] with the given value.
func (adc *ADS1256) writeRegister(regAddr, value byte) error {
	return adc.writeRegisters(regAddr, value)
}

// writeRegisters writes consecutive registers starting at regAddr in one
// WREG burst, chip select held low throughout.
func (adc *ADS1256) writeRegisters(regAddr byte, values ...byte) error {
	if len(values) == 0 {
		return errors.New("ads1256: no register values to write")
	}
	if int(regAddr)+len(values) > NumRegisters {
		return fmt.Errorf("ads1256: invalid register range 0x%02X+%d", regAddr, len(values))
	}

	if err := adc.bus.SetCS(false); err != nil {
		return err
	}
	if err := adc.leaveContinuous(CMDWREG); err != nil {
		return errors.Join(err, adc.bus.SetCS(true))
	}

	// WREG: opcode|addr, then "register count minus one", then payload.
	out := make([]byte, 0, 2+len(values))
	out = append(out, CMDWREG|(regAddr&0x0F), byte(len(values)-1))
	out = append(out, values...)
	if err := adc.bus.WriteBytes(out); err != nil {
		return errors.Join(err, adc.bus.SetCS(true))
	}

	copy(adc.regLW[regAddr:], values)
	return adc.bus.SetCS(true)
}

// readRegister reads a single register [regAddr]. The t6 delay between the
// command phase and the data phase is part of the chip's timing contract.
func (adc *ADS1256) readRegister(regAddr byte) (byte, error) {
	if regAddr >= NumRegisters {
		return 0, fmt.Errorf("ads1256: invalid register address 0x%02X", regAddr)
	}

	if err := adc.bus.SetCS(false); err != nil {
		return 0, err
	}
	if err := adc.leaveContinuous(CMDRREG); err != nil {
		return 0, errors.Join(err, adc.bus.SetCS(true))
	}

	if err := adc.bus.WriteBytes([]byte{CMDRREG | (regAddr & 0x0F), 0x00}); err != nil {
		return 0, errors.Join(err, adc.bus.SetCS(true))
	}

	adc.sleep(t6Delay)

	var buf [1]byte
	if err := adc.bus.ReadBytes(buf[:]); err != nil {
		return 0, errors.Join(err, adc.bus.SetCS(true))
	}

	adc.regLR[regAddr] = buf[0]
	return buf[0], adc.bus.SetCS(true)
}

// LastReadRegister returns the shadow copy of the last value read from reg.
func (adc *ADS1256) LastReadRegister(reg Register) byte {
	adc.mu.Lock()
	b := adc.regLR[reg]
	adc.mu.Unlock()
	return b
}

// ReadAllRegisters refreshes the shadow copies of every register and
// returns them keyed by address.
func (adc *ADS1256) ReadAllRegisters() (map[Register]byte, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if err := adc.ensureReady(); err != nil {
		return nil, err
	}
	for reg := byte(0); reg < NumRegisters; reg++ {
		if _, err := adc.readRegister(reg); err != nil {
			return nil, err
		}
	}
	return adc.registers(), nil
}

// Registers returns the shadow copies from the most recent reads.
func (adc *ADS1256) Registers() map[Register]byte {
	adc.mu.Lock()
	r := adc.registers()
	adc.mu.Unlock()
	return r
}

func (adc *ADS1256) registers() map[Register]byte {
	r := make(map[Register]byte, NumRegisters)
	for reg, val := range adc.regLR {
		r[Register(reg)] = val
	}
	return r
}
