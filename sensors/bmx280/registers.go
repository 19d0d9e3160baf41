package bmx280

// I²C addresses. SDO low selects Address, SDO high selects AddressAlt.
const (
	Address    uint16 = 0x76
	AddressAlt uint16 = 0x77
)

// Chip identifiers reported by regChipID.
const (
	ChipIDBMP280 byte = 0x58 // temperature and pressure
	ChipIDBME280 byte = 0x60 // temperature, pressure and humidity
)

// Temperature and pressure calibration, one little-endian word each.
const (
	regDigT1 uint8 = 0x88
	regDigT2 uint8 = 0x8A
	regDigT3 uint8 = 0x8C
	regDigP1 uint8 = 0x8E
	regDigP2 uint8 = 0x90
	regDigP3 uint8 = 0x92
	regDigP4 uint8 = 0x94
	regDigP5 uint8 = 0x96
	regDigP6 uint8 = 0x98
	regDigP7 uint8 = 0x9A
	regDigP8 uint8 = 0x9C
	regDigP9 uint8 = 0x9E
)

// Humidity calibration (BME280 only). The labels follow the register map,
// not the coefficient names: H4 and H5 share the nibbles of regDigH5, the
// high byte of H5 sits at regDigH6 and coefficient H6 lives at regDigH7.
const (
	regDigH1 uint8 = 0xA1
	regDigH2 uint8 = 0xE1
	regDigH3 uint8 = 0xE3
	regDigH4 uint8 = 0xE4
	regDigH5 uint8 = 0xE5
	regDigH6 uint8 = 0xE6
	regDigH7 uint8 = 0xE7
)

const (
	regChipID   uint8 = 0xD0
	regReset    uint8 = 0xE0
	regCtrlHum  uint8 = 0xF2
	regCtrlMeas uint8 = 0xF4
	regData     uint8 = 0xF7 // press_msb; temp and hum follow
)

// resetWord triggers a power-on-reset when written to regReset.
const resetWord = 0xB6

const (
	calibTPLen = int(regDigP9-regDigT1) + 2 // 24 bytes, 0x88..0x9F
	calibHLen  = 1 + int(regDigH7-regDigH2) + 1
	burstTP    = 6 // press[3] temp[3]
	burstTPH   = 8 // press[3] temp[3] hum[2]
)

// Oversampling is the number of ADC samples averaged per conversion.
type Oversampling uint8

// Register encodings for osrs_t, osrs_p and osrs_h.
const (
	Off  Oversampling = 0
	O1x  Oversampling = 1
	O2x  Oversampling = 2
	O4x  Oversampling = 3
	O8x  Oversampling = 4
	O16x Oversampling = 5
)

// Samples returns how many ADC samples the setting averages, 0 for Off.
func (o Oversampling) Samples() int {
	if o == Off {
		return 0
	}
	if o > O16x {
		return 16
	}
	return 1 << (o - 1)
}

func (o Oversampling) String() string {
	switch o {
	case Off:
		return "off"
	case O1x:
		return "1x"
	case O2x:
		return "2x"
	case O4x:
		return "4x"
	case O8x:
		return "8x"
	default:
		return "16x"
	}
}

// mode is the ctrl_meas power mode field.
type mode uint8

const (
	modeSleep  mode = 0
	modeForced mode = 1
	modeNormal mode = 3
)

// ctrlMeas packs osrs_t[7:5], osrs_p[4:2] and mode[1:0].
func ctrlMeas(t, p Oversampling, m mode) byte {
	return byte(t&7)<<5 | byte(p&7)<<2 | byte(m&3)
}
