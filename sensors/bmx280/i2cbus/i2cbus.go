// Package i2cbus adapts I²C stacks to the register interface used by
// package bmx280.
//
// Every adapter implements
//
//	ReadRegisters(addr uint16, reg uint8, buf []byte) error
//	WriteRegister(addr uint16, reg uint8, data []byte) error
//
// Reads send the start register and read len(buf) auto-incremented bytes.
// Writes send one register/value pair per byte, which is the only multi-byte
// write form the Bosch I²C interface accepts.
package i2cbus

import (
	"fmt"
	"io"
	"strconv"

	"github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("i2cbus", logger.InfoLevel)

// Driver names accepted by Open.
const (
	DriverPeriph = "periph"
	DriverGoI2C  = "goi2c"
	DriverSMBus  = "smbus"
	DriverEmbd   = "embd"
)

// BusCloser is a register bus that owns an OS resource.
type BusCloser interface {
	ReadRegisters(addr uint16, reg uint8, buf []byte) error
	WriteRegister(addr uint16, reg uint8, data []byte) error
	io.Closer
}

// Open opens the named bus with the given driver. For periph the name is
// passed to i2creg ("" selects the first bus); the other drivers take a bus
// number and default to 1. goi2c, smbus and embd are linux only.
func Open(driver, name string) (BusCloser, error) {
	lg.Debugf("opening %q with %s", name, driver)
	switch driver {
	case DriverPeriph, "":
		p, err := OpenPeriph(name)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverGoI2C, DriverSMBus, DriverEmbd:
		n, err := busNumber(name)
		if err != nil {
			return nil, err
		}
		return openLinux(driver, n)
	default:
		return nil, fmt.Errorf("i2cbus: unknown driver %q", driver)
	}
}

func busNumber(name string) (int, error) {
	if name == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("i2cbus: invalid bus number %q", name)
	}
	return n, nil
}

// pairs interleaves consecutive register addresses with data bytes.
func pairs(reg uint8, data []byte) []byte {
	w := make([]byte, 0, 2*len(data))
	for i, b := range data {
		w = append(w, reg+uint8(i), b)
	}
	return w
}
