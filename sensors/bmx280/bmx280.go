package bmx280

import (
	"context"
	"fmt"
	"time"

	"github.com/d2r2/go-logger"
	"periph.io/x/conn/v3/physic"
)

var lg = logger.NewPackageLogger("bmx280", logger.InfoLevel)

//go:generate mockgen -destination=mock_bus_test.go -package=bmx280 . Bus

// Bus is a register-addressed serial bus. Implementations live in package
// i2cbus.
type Bus interface {
	// ReadRegisters reads len(buf) consecutive registers starting at reg.
	ReadRegisters(addr uint16, reg uint8, buf []byte) error
	// WriteRegister writes data to consecutive registers starting at reg.
	WriteRegister(addr uint16, reg uint8, data []byte) error
}

// Variant identifies the chip behind the address.
type Variant uint8

const (
	BMP280 Variant = iota + 1 // temperature and pressure
	BME280                    // temperature, pressure and humidity
)

func (v Variant) String() string {
	switch v {
	case BMP280:
		return "BMP280"
	case BME280:
		return "BME280"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// HasHumidity reports whether the variant measures humidity.
func (v Variant) HasHumidity() bool { return v == BME280 }

func variantOf(id byte) (Variant, error) {
	switch id {
	case ChipIDBMP280:
		return BMP280, nil
	case ChipIDBME280:
		return BME280, nil
	default:
		return 0, &UnrecognizedDeviceError{ID: id}
	}
}

// Opts holds the driver configuration. Zero fields take the DefaultOpts value.
type Opts struct {
	Temperature Oversampling
	Pressure    Oversampling
	Humidity    Oversampling // ignored on BMP280

	// MinRefreshInterval is how long a sample is reused before a new
	// conversion is triggered.
	MinRefreshInterval time.Duration
	// SettleDelay is the wait between triggering a conversion and reading
	// the result. AutoSettle derives it from the oversampling.
	SettleDelay time.Duration

	Clock Clock
}

// DefaultOpts is the configuration used when New is given nil.
var DefaultOpts = Opts{
	Temperature:        O2x,
	Pressure:           O16x,
	Humidity:           O1x,
	MinRefreshInterval: 200 * time.Millisecond,
	SettleDelay:        100 * time.Millisecond,
	Clock:              SystemClock,
}

func (o Opts) withDefaults() Opts {
	if o.Temperature == Off {
		o.Temperature = DefaultOpts.Temperature
	}
	if o.Pressure == Off {
		o.Pressure = DefaultOpts.Pressure
	}
	if o.Humidity == Off {
		o.Humidity = DefaultOpts.Humidity
	}
	if o.MinRefreshInterval <= 0 {
		o.MinRefreshInterval = DefaultOpts.MinRefreshInterval
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultOpts.SettleDelay
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	return o
}

// Dev is a handle to a BMP280 or BME280.
//
// Dev is not safe for concurrent use.
type Dev struct {
	bus     Bus
	addr    uint16
	variant Variant
	cal     Calibration
	opts    Opts
	settle  time.Duration
	clock   Clock

	buf   [burstTPH]byte
	cache sampleCache
}

// New identifies the chip at addr and loads its calibration. opts may be nil.
//
// The device is left in sleep mode; conversions are triggered on demand.
func New(bus Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr > 0x7F {
		return nil, ErrInvalidAddress
	}
	o := DefaultOpts
	if opts != nil {
		o = opts.withDefaults()
	}

	var id [1]byte
	if err := readReg(bus, addr, regChipID, id[:]); err != nil {
		return nil, err
	}
	v, err := variantOf(id[0])
	if err != nil {
		return nil, err
	}
	cal, err := loadCalibration(bus, addr, v)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		bus:     bus,
		addr:    addr,
		variant: v,
		cal:     cal,
		opts:    o,
		clock:   o.Clock,
	}
	d.settle = o.SettleDelay
	if d.settle == AutoSettle {
		d.settle = MeasurementTime(o.Temperature, o.Pressure, d.humidityOversampling())
	}
	lg.Debugf("%s at 0x%02X, settle %s, min refresh %s", v, addr, d.settle, o.MinRefreshInterval)
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{addr:0x%02X}", d.variant, d.addr)
}

// Variant returns the chip variant detected at construction.
func (d *Dev) Variant() Variant { return d.variant }

// Calibration returns the factory coefficients.
func (d *Dev) Calibration() Calibration { return d.cal }

// SettleDelay returns the wait applied after triggering a conversion.
func (d *Dev) SettleDelay() time.Duration { return d.settle }

func (d *Dev) humidityOversampling() Oversampling {
	if !d.variant.HasHumidity() {
		return Off
	}
	return d.opts.Humidity
}

// Refresh returns the cached raw sample when it is at most
// Opts.MinRefreshInterval old. Otherwise it triggers a forced conversion,
// waits the settle delay and burst-reads the data registers.
//
// On error the previous sample and its derived values are kept.
func (d *Dev) Refresh(ctx context.Context) (RawSample, error) {
	now := d.clock.Now()
	if d.cache.fresh(now, d.opts.MinRefreshInterval) {
		return d.cache.raw, nil
	}
	if d.variant.HasHumidity() {
		// ctrl_hum only takes effect after a write to ctrl_meas.
		if err := writeReg(d.bus, d.addr, regCtrlHum, []byte{byte(d.opts.Humidity & 7)}); err != nil {
			return RawSample{}, err
		}
	}
	ctrl := ctrlMeas(d.opts.Temperature, d.opts.Pressure, modeForced)
	if err := writeReg(d.bus, d.addr, regCtrlMeas, []byte{ctrl}); err != nil {
		return RawSample{}, err
	}
	select {
	case <-ctx.Done():
		return RawSample{}, ctx.Err()
	case <-d.clock.After(d.settle):
	}

	b := d.buf[:burstTP]
	if d.variant.HasHumidity() {
		b = d.buf[:burstTPH]
	}
	if err := readReg(d.bus, d.addr, regData, b); err != nil {
		return RawSample{}, err
	}
	s := decodeBurst(b)
	d.cache.store(now, s)
	lg.Debugf("raw sample P=%d T=%d H=%d", s.Pressure, s.Temperature, s.Humidity)
	return s, nil
}

// Temperature returns the temperature in °C with 0.01 °C resolution.
func (d *Dev) Temperature(ctx context.Context) (float64, error) {
	if _, err := d.Refresh(ctx); err != nil {
		return 0, err
	}
	return d.cache.temperature(&d.cal), nil
}

// Pressure returns the pressure in Pa. ok is false when the calibration
// makes the pressure undefined.
func (d *Dev) Pressure(ctx context.Context) (pa float64, ok bool, err error) {
	if _, err := d.Refresh(ctx); err != nil {
		return 0, false, err
	}
	pa, ok = d.cache.pressure(&d.cal)
	return pa, ok, nil
}

// Humidity returns the relative humidity in %RH. It returns ErrUnsupported
// on a BMP280 without touching the bus.
func (d *Dev) Humidity(ctx context.Context) (float64, error) {
	q, err := d.HumidityQ10(ctx)
	if err != nil {
		return 0, err
	}
	return HumidityPercent(q), nil
}

// HumidityQ10 returns the relative humidity in Q22.10 %RH.
func (d *Dev) HumidityQ10(ctx context.Context) (uint32, error) {
	if !d.variant.HasHumidity() {
		return 0, ErrUnsupported
	}
	if _, err := d.Refresh(ctx); err != nil {
		return 0, err
	}
	return d.cache.humidity(&d.cal), nil
}

// Reading is one coherent set of values computed from a single raw sample.
type Reading struct {
	Time            time.Time `json:"time"`
	Raw             RawSample `json:"raw"`
	FineTemperature int32     `json:"fine_temperature"`
	Temperature     float64   `json:"temperature"`      // °C
	Pressure        float64   `json:"pressure"`         // Pa
	PressureDefined bool      `json:"pressure_defined"` // false when P1 makes the formula undefined
	HasHumidity     bool      `json:"has_humidity"`
	Humidity        float64   `json:"humidity,omitempty"` // %RH
	HumidityQ10     uint32    `json:"humidity_q10,omitempty"`
}

// Read refreshes if needed and returns every value of the current sample.
func (d *Dev) Read(ctx context.Context) (Reading, error) {
	s, err := d.Refresh(ctx)
	if err != nil {
		return Reading{}, err
	}
	r := Reading{
		Time:            d.cache.at,
		Raw:             s,
		FineTemperature: d.cache.fineTemperature(&d.cal),
		Temperature:     d.cache.temperature(&d.cal),
	}
	r.Pressure, r.PressureDefined = d.cache.pressure(&d.cal)
	if d.variant.HasHumidity() {
		r.HasHumidity = true
		r.HumidityQ10 = d.cache.humidity(&d.cal)
		r.Humidity = HumidityPercent(r.HumidityQ10)
	}
	return r, nil
}

// Sense fills e with the current sample in periph units. Humidity is left
// untouched on a BMP280 and pressure is left untouched when undefined.
func (d *Dev) Sense(ctx context.Context, e *physic.Env) error {
	r, err := d.Read(ctx)
	if err != nil {
		return err
	}
	centi := (int64(r.FineTemperature)*5 + 128) >> 8
	e.Temperature = physic.Temperature(centi)*10*physic.MilliCelsius + physic.ZeroCelsius
	if r.PressureDefined {
		// 8 bits of fractional Pascal.
		e.Pressure = physic.Pressure(r.Pressure*256) * 15625 * physic.MicroPascal / 4
	}
	if r.HasHumidity {
		e.Humidity = physic.RelativeHumidity(r.HumidityQ10) * 10000 / 1024 * physic.MicroRH
	}
	return nil
}

// PowerOn switches the device to normal mode, where it converts
// continuously. Refresh still triggers forced conversions.
func (d *Dev) PowerOn() error {
	if d.variant.HasHumidity() {
		if err := writeReg(d.bus, d.addr, regCtrlHum, []byte{byte(d.opts.Humidity & 7)}); err != nil {
			return err
		}
	}
	return writeReg(d.bus, d.addr, regCtrlMeas, []byte{ctrlMeas(d.opts.Temperature, d.opts.Pressure, modeNormal)})
}

// PowerOff puts the device to sleep.
func (d *Dev) PowerOff() error {
	return writeReg(d.bus, d.addr, regCtrlMeas, []byte{ctrlMeas(Off, Off, modeSleep)})
}

// Reset performs a soft reset. The calibration survives; the cached sample
// is dropped so the next access triggers a conversion.
func (d *Dev) Reset() error {
	if err := writeReg(d.bus, d.addr, regReset, []byte{resetWord}); err != nil {
		return err
	}
	d.cache = sampleCache{}
	return nil
}

func readReg(bus Bus, addr uint16, reg uint8, buf []byte) error {
	if err := bus.ReadRegisters(addr, reg, buf); err != nil {
		return &CommunicationError{Op: "read", Reg: reg, Err: err}
	}
	return nil
}

func writeReg(bus Bus, addr uint16, reg uint8, data []byte) error {
	if err := bus.WriteRegister(addr, reg, data); err != nil {
		return &CommunicationError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}
