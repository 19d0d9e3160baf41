package server

import (
	"sort"
	"sync"

	"github.com/Uranury/bmx280/sensors"
)

// Latest keeps the most recent reading per sensor type.
type Latest struct {
	mu   sync.RWMutex
	data map[string]*sensors.SensorData
}

func NewLatest() *Latest {
	return &Latest{data: make(map[string]*sensors.SensorData)}
}

func (l *Latest) Publish(data *sensors.SensorData) {
	l.mu.Lock()
	l.data[data.SensorType] = data
	l.mu.Unlock()
}

// Snapshot returns the stored readings ordered by sensor type.
func (l *Latest) Snapshot() []*sensors.SensorData {
	l.mu.RLock()
	out := make([]*sensors.SensorData, 0, len(l.data))
	for _, d := range l.data {
		out = append(out, d)
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SensorType < out[j].SensorType })
	return out
}
