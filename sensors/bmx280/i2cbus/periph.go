package i2cbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Periph drives a periph.io I²C bus.
type Periph struct {
	bus    i2c.Bus
	closer func() error
}

// NewPeriph wraps an already opened bus. Close is a no-op.
func NewPeriph(b i2c.Bus) *Periph {
	return &Periph{bus: b}
}

// OpenPeriph initializes the periph host drivers and opens the named bus.
func OpenPeriph(name string) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cbus: periph host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open %q: %w", name, err)
	}
	return &Periph{bus: b, closer: b.Close}, nil
}

func (p *Periph) ReadRegisters(addr uint16, reg uint8, buf []byte) error {
	return p.bus.Tx(addr, []byte{reg}, buf)
}

func (p *Periph) WriteRegister(addr uint16, reg uint8, data []byte) error {
	return p.bus.Tx(addr, pairs(reg, data), nil)
}

func (p *Periph) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func (p *Periph) String() string { return p.bus.String() }
