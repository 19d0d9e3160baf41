// Package storage persists sensor readings to InfluxDB.
package storage

import (
	"sort"

	"github.com/d2r2/go-logger"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/bmx280/sensors"
)

var lg = logger.NewPackageLogger("storage", logger.InfoLevel)

// Measurement is the InfluxDB measurement every reading is written to.
const Measurement = "sensor_data"

// PointWriter is the subset of api.WriteAPI used by Influx.
type PointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// Influx writes readings through the client's non-blocking write API.
// Write failures are logged, not returned.
type Influx struct {
	client influxdb2.Client
	w      PointWriter
}

func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	wa := client.WriteAPI(org, bucket)
	go func() {
		for err := range wa.Errors() {
			lg.Errorf("influx write: %v", err)
		}
	}()
	lg.Infof("writing to %s bucket %q", url, bucket)
	return &Influx{client: client, w: wa}
}

// NewInfluxWriter wraps an existing writer.
func NewInfluxWriter(w PointWriter) *Influx {
	return &Influx{w: w}
}

func (i *Influx) Publish(data *sensors.SensorData) {
	i.w.WritePoint(Point(data))
}

// Close flushes pending points and closes the client.
func (i *Influx) Close() error {
	i.w.Flush()
	if i.client != nil {
		i.client.Close()
	}
	return nil
}

// Point converts a reading to a point tagged with the sensor type.
func Point(data *sensors.SensorData) *write.Point {
	p := write.NewPointWithMeasurement(Measurement).
		AddTag("sensor", data.SensorType).
		SetTime(data.Timestamp)

	keys := make([]string, 0, len(data.Fields))
	for k := range data.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.AddField(k, data.Fields[k])
	}
	return p
}
