package bmx280

// The compensation below is the datasheet's integer reference code
// (BME280 datasheet section 4.2.3, BMP280 section 3.11.3). The order of the
// shifts and multiplications determines rounding and must not be rearranged.

// humidityMax is 100 %RH in the Q22.10 intermediate before the final shift.
const humidityMax = 419430400

// FineTemperature returns t_fine, the intermediate temperature shared by the
// pressure and humidity formulas. raw has 20 bits of resolution.
func FineTemperature(raw uint32, c *Calibration) int32 {
	adc := int64(raw)
	t1 := int64(c.T1)
	var1 := (((adc >> 3) - (t1 << 1)) * int64(c.T2)) >> 11
	d := (adc >> 4) - t1
	var2 := (((d * d) >> 12) * int64(c.T3)) >> 14
	return int32(var1 + var2)
}

// CompensateTemperature returns °C with a resolution of 0.01 °C.
func CompensateTemperature(tFine int32) float64 {
	return float64((int64(tFine)*5+128)>>8) / 100
}

// CompensatePressure returns Pa with 8 fractional bits of resolution. raw has
// 20 bits of resolution.
//
// ok is false when the P1 term is zero and the pressure cannot be computed;
// the returned value is then 0.
func CompensatePressure(raw uint32, tFine int32, c *Calibration) (pa float64, ok bool) {
	var1 := int64(tFine) - 128000
	var2 := var1 * var1 * int64(c.P6)
	var2 += (var1 * int64(c.P5)) << 17
	var2 += int64(c.P4) << 35
	var1 = ((var1 * var1 * int64(c.P3)) >> 8) + ((var1 * int64(c.P2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.P1)) >> 33
	if var1 == 0 {
		return 0, false
	}
	p := 1048576 - int64(raw)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.P9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.P8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.P7) << 4)
	return float64(p) / 256, true
}

// CompensateHumidity returns %RH in Q22.10 format: 47445 is 47445/1024 =
// 46.333 %RH. The result is clamped to [0, 102400]. raw has 16 bits of
// resolution.
func CompensateHumidity(raw uint16, tFine int32, c *Calibration) uint32 {
	v := int64(tFine) - 76800
	a := ((int64(raw) << 14) - (int64(c.H4) << 20) - (int64(c.H5) * v) + 16384) >> 15
	b := (((((v*int64(c.H6))>>10)*(((v*int64(c.H3))>>11)+32768))>>10)+2097152)*int64(c.H2) + 8192
	v = a * (b >> 14)
	v -= ((((v >> 15) * (v >> 15)) >> 7) * int64(c.H1)) >> 4
	if v < 0 {
		v = 0
	}
	if v > humidityMax {
		v = humidityMax
	}
	return uint32(v >> 12)
}

// HumidityPercent converts a Q22.10 humidity to %RH.
func HumidityPercent(q uint32) float64 {
	return float64(q) / 1024
}
