package sensors

import (
	"context"
	"time"

	"github.com/MichaelS11/go-dht"
)

// DHT22 reads a DHT22 on a GPIO pin. The periph host must be initialized
// (dht.HostInit) before NewDHT22.
type DHT22 struct {
	Pin     string
	Retries int

	dht *dht.DHT
}

func NewDHT22(pin string) (*DHT22, error) {
	d, err := dht.NewDHT(pin, dht.Celsius, "dht22")
	if err != nil {
		return nil, err
	}
	return &DHT22{Pin: pin, Retries: 11, dht: d}, nil
}

func (d *DHT22) Name() string {
	return "DHT22"
}

// Read blocks for up to Retries bit-banged reads; ctx is only checked
// before starting.
func (d *DHT22) Read(ctx context.Context) (*SensorData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	humidity, temperature, err := d.dht.ReadRetry(d.Retries)
	if err != nil {
		return nil, err
	}
	return dhtData(humidity, temperature, time.Now()), nil
}

func dhtData(humidity, temperature float64, at time.Time) *SensorData {
	return &SensorData{
		SensorType: "dht22",
		Fields: map[string]float64{
			FieldTemperature: temperature,
			FieldHumidity:    humidity,
		},
		Timestamp: at,
	}
}
