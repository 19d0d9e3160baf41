//go:build linux

package i2cbus

import (
	"fmt"
	"sync"

	"github.com/d2r2/go-i2c"
	"github.com/go-daq/smbus"
	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"go.uber.org/multierr"
)

func openLinux(driver string, n int) (BusCloser, error) {
	switch driver {
	case DriverGoI2C:
		return OpenGoI2C(n), nil
	case DriverSMBus:
		s, err := OpenSMBus(n)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		e, err := OpenEmbd(n)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// GoI2C drives /dev/i2c-N through github.com/d2r2/go-i2c. go-i2c binds a
// file descriptor to one slave address, so one is opened per address.
type GoI2C struct {
	bus int

	mu    sync.Mutex
	conns map[uint16]*i2c.I2C
}

// OpenGoI2C prepares bus n. Device files are opened on first use.
func OpenGoI2C(n int) *GoI2C {
	return &GoI2C{bus: n, conns: map[uint16]*i2c.I2C{}}
}

func (g *GoI2C) conn(addr uint16) (*i2c.I2C, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.conns[addr]; ok {
		return c, nil
	}
	if addr > 0x7F {
		return nil, fmt.Errorf("i2cbus: goi2c: address 0x%X out of range", addr)
	}
	c, err := i2c.NewI2C(uint8(addr), g.bus)
	if err != nil {
		return nil, err
	}
	g.conns[addr] = c
	return c, nil
}

func (g *GoI2C) ReadRegisters(addr uint16, reg uint8, buf []byte) error {
	c, err := g.conn(addr)
	if err != nil {
		return err
	}
	if _, err := c.WriteBytes([]byte{reg}); err != nil {
		return err
	}
	n, err := c.ReadBytes(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("i2cbus: goi2c: short read %d/%d", n, len(buf))
	}
	return nil
}

func (g *GoI2C) WriteRegister(addr uint16, reg uint8, data []byte) error {
	c, err := g.conn(addr)
	if err != nil {
		return err
	}
	_, err = c.WriteBytes(pairs(reg, data))
	return err
}

func (g *GoI2C) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var err error
	for addr, c := range g.conns {
		err = multierr.Append(err, c.Close())
		delete(g.conns, addr)
	}
	return err
}

// SMBus drives /dev/i2c-N through github.com/go-daq/smbus block transfers.
type SMBus struct {
	conn *smbus.Conn
	addr uint8
}

// OpenSMBus opens bus n.
func OpenSMBus(n int) (*SMBus, error) {
	c, err := smbus.Open(n, 0x76)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: smbus open %d: %w", n, err)
	}
	return &SMBus{conn: c, addr: 0x76}, nil
}

// target points the connection at addr.
func (s *SMBus) target(addr uint16) error {
	if addr > 0x7F {
		return fmt.Errorf("i2cbus: smbus: address 0x%X out of range", addr)
	}
	if uint8(addr) == s.addr {
		return nil
	}
	if err := s.conn.SetAddr(uint8(addr)); err != nil {
		return err
	}
	s.addr = uint8(addr)
	return nil
}

func (s *SMBus) ReadRegisters(addr uint16, reg uint8, buf []byte) error {
	if err := s.target(addr); err != nil {
		return err
	}
	return s.conn.ReadBlockData(uint8(addr), reg, buf)
}

func (s *SMBus) WriteRegister(addr uint16, reg uint8, data []byte) error {
	if err := s.target(addr); err != nil {
		return err
	}
	for i, b := range data {
		if err := s.conn.WriteReg(uint8(addr), reg+uint8(i), b); err != nil {
			return err
		}
	}
	return nil
}

func (s *SMBus) Close() error { return s.conn.Close() }

// OpenEmbd initializes embd's I²C driver and opens bus n. Close releases
// both.
func OpenEmbd(n int) (*Embd, error) {
	if err := embd.InitI2C(); err != nil {
		return nil, fmt.Errorf("i2cbus: embd init: %w", err)
	}
	return &Embd{bus: &embdOwned{I2CBus: embd.NewI2CBus(byte(n))}, owns: true}, nil
}

// embdOwned closes embd's I²C driver along with the bus.
type embdOwned struct {
	embd.I2CBus
}

func (b *embdOwned) Close() error {
	return multierr.Combine(b.I2CBus.Close(), embd.CloseI2C())
}
