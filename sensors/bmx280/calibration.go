package bmx280

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Calibration holds the factory trimming coefficients.
//
// H1..H6 are only meaningful when HasHumidity is set. H4 and H5 are 12-bit
// signed values sign-extended to 16 bits.
type Calibration struct {
	T1 uint16 `json:"t1"`
	T2 int16  `json:"t2"`
	T3 int16  `json:"t3"`

	P1 uint16 `json:"p1"`
	P2 int16  `json:"p2"`
	P3 int16  `json:"p3"`
	P4 int16  `json:"p4"`
	P5 int16  `json:"p5"`
	P6 int16  `json:"p6"`
	P7 int16  `json:"p7"`
	P8 int16  `json:"p8"`
	P9 int16  `json:"p9"`

	HasHumidity bool  `json:"has_humidity"`
	H1          int8  `json:"h1,omitempty"`
	H2          int16 `json:"h2,omitempty"`
	H3          int8  `json:"h3,omitempty"`
	H4          int16 `json:"h4,omitempty"`
	H5          int16 `json:"h5,omitempty"`
	H6          int8  `json:"h6,omitempty"`
}

// ParseCalibration decodes raw calibration registers.
//
// tp is the 24 byte block starting at 0x88. hum is nil for a BMP280; for a
// BME280 it is 8 bytes: the byte at 0xA1 followed by 0xE1..0xE7.
func ParseCalibration(tp, hum []byte) (Calibration, error) {
	var c Calibration
	if len(tp) < calibTPLen {
		return c, ErrShortCalibration
	}
	word := func(reg uint8) uint16 {
		return binary.LittleEndian.Uint16(tp[reg-regDigT1:])
	}
	c.T1 = word(regDigT1)
	c.T2 = int16(word(regDigT2))
	c.T3 = int16(word(regDigT3))
	c.P1 = word(regDigP1)
	c.P2 = int16(word(regDigP2))
	c.P3 = int16(word(regDigP3))
	c.P4 = int16(word(regDigP4))
	c.P5 = int16(word(regDigP5))
	c.P6 = int16(word(regDigP6))
	c.P7 = int16(word(regDigP7))
	c.P8 = int16(word(regDigP8))
	c.P9 = int16(word(regDigP9))

	if hum == nil {
		return c, nil
	}
	if len(hum) < calibHLen {
		return c, ErrShortCalibration
	}
	// hum[0] is 0xA1, hum[1:] starts at 0xE1.
	at := func(reg uint8) byte { return hum[1+int(reg-regDigH2)] }
	c.HasHumidity = true
	c.H1 = int8(hum[0])
	c.H2 = int16(binary.LittleEndian.Uint16(hum[1:]))
	c.H3 = int8(at(regDigH3))
	c.H4, c.H5 = unpackH4H5(at(regDigH4), at(regDigH5), at(regDigH6))
	c.H6 = int8(at(regDigH7))
	return c, nil
}

// unpackH4H5 splits two 12-bit coefficients sharing the nibbles of e5.
// H4 is e4[11:4] e5[3:0], H5 is e6[11:4] e5[7:4].
func unpackH4H5(e4, e5, e6 byte) (h4, h5 int16) {
	h4 = int16(int8(e4))<<4 | int16(e5&0x0F)
	h5 = int16(int8(e6))<<4 | int16(e5>>4)
	return h4, h5
}

func (c Calibration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "T1: %d\nT2: %d\nT3: %d\n", c.T1, c.T2, c.T3)
	fmt.Fprintf(&b, "P1: %d\nP2: %d\nP3: %d\n", c.P1, c.P2, c.P3)
	fmt.Fprintf(&b, "P4: %d\nP5: %d\nP6: %d\n", c.P4, c.P5, c.P6)
	fmt.Fprintf(&b, "P7: %d\nP8: %d\nP9: %d\n", c.P7, c.P8, c.P9)
	if c.HasHumidity {
		fmt.Fprintf(&b, "H1: %d\nH2: %d\nH3: %d\n", c.H1, c.H2, c.H3)
		fmt.Fprintf(&b, "H4: %d\nH5: %d\nH6: %d\n", c.H4, c.H5, c.H6)
	}
	return b.String()
}

// loadCalibration reads the calibration registers for the variant.
func loadCalibration(bus Bus, addr uint16, v Variant) (Calibration, error) {
	tp := make([]byte, calibTPLen)
	if err := readReg(bus, addr, regDigT1, tp); err != nil {
		return Calibration{}, err
	}
	var hum []byte
	if v == BME280 {
		hum = make([]byte, calibHLen)
		if err := readReg(bus, addr, regDigH1, hum[:1]); err != nil {
			return Calibration{}, err
		}
		if err := readReg(bus, addr, regDigH2, hum[1:]); err != nil {
			return Calibration{}, err
		}
	}
	c, err := ParseCalibration(tp, hum)
	if err != nil {
		return Calibration{}, err
	}
	lg.Debugf("calibration loaded for %s at 0x%02X", v, addr)
	return c, nil
}
