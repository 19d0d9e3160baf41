package i2cbus

import "tinygo.org/x/drivers"

// TinyGo drives a tinygo.org/x/drivers I²C bus, such as machine.I2C0 on a
// microcontroller. The bus must already be configured.
type TinyGo struct {
	bus drivers.I2C
}

func NewTinyGo(bus drivers.I2C) *TinyGo {
	return &TinyGo{bus: bus}
}

// ReadRegisters relies on Tx issuing a repeated start between the register
// write and the read.
func (t *TinyGo) ReadRegisters(addr uint16, reg uint8, buf []byte) error {
	return t.bus.Tx(addr, []byte{reg}, buf)
}

func (t *TinyGo) WriteRegister(addr uint16, reg uint8, data []byte) error {
	return t.bus.Tx(addr, pairs(reg, data), nil)
}

func (t *TinyGo) Close() error { return nil }
