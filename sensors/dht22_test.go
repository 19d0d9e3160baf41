package sensors

import (
	"context"
	"testing"
	"time"
)

func TestDHTData(t *testing.T) {
	at := time.Unix(1700000000, 0)
	d := dhtData(41.5, 22.3, at)
	if d.SensorType != "dht22" {
		t.Errorf("SensorType = %q", d.SensorType)
	}
	if d.Fields[FieldTemperature] != 22.3 || d.Fields[FieldHumidity] != 41.5 {
		t.Errorf("Fields = %v", d.Fields)
	}
	if !d.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v", d.Timestamp)
	}
}

func TestDHT22_ReadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &DHT22{Pin: "GPIO4"}
	if _, err := d.Read(ctx); err != context.Canceled {
		t.Fatalf("Read() error = %v, want context.Canceled", err)
	}
}
