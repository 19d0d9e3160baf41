package sensors

import (
	"context"
	"time"
)

// SensorData is the unified data structure for all sensors.
//
// Field units: temperature in °C, pressure in hPa, humidity in %RH.
type SensorData struct {
	SensorType string             `json:"sensor_type"`
	Fields     map[string]float64 `json:"fields"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Sensor interface that all sensors must implement
type Sensor interface {
	Read(ctx context.Context) (*SensorData, error)
	Name() string
}

// Field keys shared by all sensors.
const (
	FieldTemperature = "temperature"
	FieldPressure    = "pressure"
	FieldHumidity    = "humidity"
)
