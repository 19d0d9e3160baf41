//go:build !linux

package i2cbus

import "fmt"

func openLinux(driver string, _ int) (BusCloser, error) {
	return nil, fmt.Errorf("i2cbus: driver %q is only available on linux", driver)
}
