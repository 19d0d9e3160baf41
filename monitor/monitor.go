// Package monitor polls sensors on a fixed interval and fans readings out to
// sinks.
package monitor

import (
	"context"
	"time"

	"github.com/d2r2/go-logger"

	"github.com/Uranury/bmx280/sensors"
)

var lg = logger.NewPackageLogger("monitor", logger.InfoLevel)

// Sink receives every successful reading. Publish must not block for long.
type Sink interface {
	Publish(data *sensors.SensorData)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(data *sensors.SensorData)

func (f SinkFunc) Publish(data *sensors.SensorData) { f(data) }

// Run polls immediately and then every interval until ctx is done. A sensor
// that fails is logged and skipped for that tick.
func Run(ctx context.Context, interval time.Duration, list []sensors.Sensor, sinks ...Sink) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		Poll(ctx, list, sinks...)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll reads each sensor once, in order, and returns the number of
// successful readings.
func Poll(ctx context.Context, list []sensors.Sensor, sinks ...Sink) int {
	n := 0
	for _, s := range list {
		if ctx.Err() != nil {
			return n
		}
		data, err := s.Read(ctx)
		if err != nil {
			lg.Warningf("error reading %s: %v", s.Name(), err)
			continue
		}
		n++
		lg.Debugf("%s: %v", s.Name(), data.Fields)
		for _, sink := range sinks {
			sink.Publish(data)
		}
	}
	return n
}
