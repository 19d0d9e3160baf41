package i2cbus

import (
	"fmt"

	"github.com/kidoman/embd"
)

// Embd drives an embd I²C bus.
type Embd struct {
	bus  embd.I2CBus
	owns bool
}

// NewEmbd wraps a bus obtained from embd.NewI2CBus. Close leaves it open.
func NewEmbd(bus embd.I2CBus) *Embd {
	return &Embd{bus: bus}
}

func (e *Embd) ReadRegisters(addr uint16, reg uint8, buf []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("i2cbus: embd: address 0x%X out of range", addr)
	}
	return e.bus.ReadFromReg(byte(addr), reg, buf)
}

func (e *Embd) WriteRegister(addr uint16, reg uint8, data []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("i2cbus: embd: address 0x%X out of range", addr)
	}
	for i, b := range data {
		if err := e.bus.WriteByteToReg(byte(addr), reg+uint8(i), b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Embd) Close() error {
	if !e.owns {
		return nil
	}
	return e.bus.Close()
}
