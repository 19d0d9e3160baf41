package sensors

import (
	"context"
	"strings"
	"sync"

	"github.com/Uranury/bmx280/sensors/bmx280"
)

// BMX280 serializes access to a BMP280 or BME280 driver so that the monitor
// loop and HTTP handlers can share it.
type BMX280 struct {
	mu  sync.Mutex
	dev *bmx280.Dev
}

func NewBMX280(dev *bmx280.Dev) *BMX280 {
	return &BMX280{dev: dev}
}

func (b *BMX280) Name() string {
	return b.dev.Variant().String()
}

func (b *BMX280) Read(ctx context.Context) (*SensorData, error) {
	b.mu.Lock()
	r, err := b.dev.Read(ctx)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return readingToData(b.Name(), r), nil
}

// Reading returns the full driver reading, including raw counts.
func (b *BMX280) Reading(ctx context.Context) (bmx280.Reading, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.Read(ctx)
}

func (b *BMX280) Calibration() bmx280.Calibration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.Calibration()
}

// Close puts the device to sleep.
func (b *BMX280) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.PowerOff()
}

// readingToData drops values the device could not produce: humidity on a
// BMP280 and pressure when the calibration leaves it undefined.
func readingToData(name string, r bmx280.Reading) *SensorData {
	fields := map[string]float64{
		FieldTemperature: r.Temperature,
	}
	if r.PressureDefined {
		fields[FieldPressure] = r.Pressure / 100
	}
	if r.HasHumidity {
		fields[FieldHumidity] = r.Humidity
	}
	return &SensorData{
		SensorType: strings.ToLower(name),
		Fields:     fields,
		Timestamp:  r.Time,
	}
}
