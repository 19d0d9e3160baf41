package bmx280

import "time"

// RawSample is one burst of uncompensated ADC counts.
type RawSample struct {
	Pressure    uint32 `json:"pressure"`    // 20 bits
	Temperature uint32 `json:"temperature"` // 20 bits
	Humidity    uint16 `json:"humidity"`    // 16 bits, BME280 only
}

// decodeBurst unpacks the data registers read from regData. b holds press
// msb/lsb/xlsb, temp msb/lsb/xlsb and, for 8 bytes, hum msb/lsb.
func decodeBurst(b []byte) RawSample {
	s := RawSample{
		Pressure:    uint32(b[0])<<12 | uint32(b[1])<<4 | uint32(b[2])>>4,
		Temperature: uint32(b[3])<<12 | uint32(b[4])<<4 | uint32(b[5])>>4,
	}
	if len(b) >= burstTPH {
		s.Humidity = uint16(b[6])<<8 | uint16(b[7])
	}
	return s
}

// Clock is the time source used for staleness decisions and the settle
// delay.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// sampleCache holds the last raw sample and the values derived from it.
// Derived values are memoised per sample and dropped together whenever a
// new sample is stored.
type sampleCache struct {
	valid bool
	at    time.Time
	raw   RawSample

	tFine    int32
	hasTFine bool

	temp    float64
	hasTemp bool

	press    float64
	pressOK  bool
	hasPress bool

	hum    uint32
	hasHum bool
}

// fresh reports whether the cached sample may be reused at now.
func (c *sampleCache) fresh(now time.Time, interval time.Duration) bool {
	return c.valid && now.Sub(c.at) <= interval
}

// store replaces the sample and invalidates everything derived from it.
func (c *sampleCache) store(now time.Time, s RawSample) {
	*c = sampleCache{valid: true, at: now, raw: s}
}

func (c *sampleCache) fineTemperature(cal *Calibration) int32 {
	if !c.hasTFine {
		c.tFine = FineTemperature(c.raw.Temperature, cal)
		c.hasTFine = true
	}
	return c.tFine
}

func (c *sampleCache) temperature(cal *Calibration) float64 {
	if !c.hasTemp {
		c.temp = CompensateTemperature(c.fineTemperature(cal))
		c.hasTemp = true
	}
	return c.temp
}

func (c *sampleCache) pressure(cal *Calibration) (float64, bool) {
	if !c.hasPress {
		c.press, c.pressOK = CompensatePressure(c.raw.Pressure, c.fineTemperature(cal), cal)
		c.hasPress = true
	}
	return c.press, c.pressOK
}

func (c *sampleCache) humidity(cal *Calibration) uint32 {
	if !c.hasHum {
		c.hum = CompensateHumidity(c.raw.Humidity, c.fineTemperature(cal), cal)
		c.hasHum = true
	}
	return c.hum
}
