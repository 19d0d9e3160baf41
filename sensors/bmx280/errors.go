package bmx280

import (
	"errors"
	"fmt"
)

// Errors returned by the driver.
var (
	ErrCommunication      = errors.New("bmx280: communication error")
	ErrUnrecognizedDevice = errors.New("bmx280: unrecognized device")
	ErrUnsupported        = errors.New("bmx280: humidity is not supported by BMP280")
	ErrShortCalibration   = errors.New("bmx280: short calibration data")
	ErrInvalidAddress     = errors.New("bmx280: invalid 7-bit address")
)

// CommunicationError reports a failed bus transaction. It matches
// ErrCommunication with errors.Is and unwraps to the bus error.
type CommunicationError struct {
	Op  string // "read" or "write"
	Reg uint8
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("bmx280: %s register 0x%02X: %v", e.Op, e.Reg, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

func (e *CommunicationError) Is(target error) bool { return target == ErrCommunication }

// UnrecognizedDeviceError carries the chip id that matched neither variant.
type UnrecognizedDeviceError struct {
	ID byte
}

func (e *UnrecognizedDeviceError) Error() string {
	return fmt.Sprintf("bmx280: unrecognized chip id 0x%02X", e.ID)
}

func (e *UnrecognizedDeviceError) Is(target error) bool { return target == ErrUnrecognizedDevice }
