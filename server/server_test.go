package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Uranury/bmx280/sensors"
	"github.com/Uranury/bmx280/sensors/bmx280"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type namedSensor string

func (n namedSensor) Name() string { return string(n) }
func (n namedSensor) Read(context.Context) (*sensors.SensorData, error) {
	return nil, nil
}

type calib struct{}

func (calib) Name() string { return "BME280" }
func (calib) Calibration() bmx280.Calibration {
	return bmx280.Calibration{T1: 27504, T2: 26435, T3: -1000, HasHumidity: true, H1: 75}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	s := New(t.TempDir(), nil, nil)
	w := get(t, s.Handler(), "/healthz")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", w.Code, w.Body)
	}
}

func TestIndexAndStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>bmx280</h1>"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := New(dir, nil, nil)
	for _, path := range []string{"/", "/static/index.html"} {
		w := get(t, s.Handler(), path)
		if w.Code != http.StatusOK && w.Code != http.StatusMovedPermanently {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
	if w := get(t, s.Handler(), "/"); !strings.Contains(w.Body.String(), "bmx280") {
		t.Errorf("GET / body = %q", w.Body)
	}
}

func TestSensors(t *testing.T) {
	s := New(t.TempDir(), []sensors.Sensor{namedSensor("BME280"), namedSensor("DHT22")}, nil)
	w := get(t, s.Handler(), "/api/sensors")
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "BME280" || names[1] != "DHT22" {
		t.Errorf("names = %v", names)
	}
}

func TestCalibration(t *testing.T) {
	if w := get(t, New(t.TempDir(), nil, nil).Handler(), "/api/calibration"); w.Code != http.StatusNotFound {
		t.Errorf("GET /api/calibration without device = %d, want 404", w.Code)
	}

	w := get(t, New(t.TempDir(), nil, calib{}).Handler(), "/api/calibration")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/calibration = %d", w.Code)
	}
	var body struct {
		Sensor      string             `json:"sensor"`
		Calibration bmx280.Calibration `json:"calibration"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Sensor != "BME280" || body.Calibration != (calib{}).Calibration() {
		t.Errorf("body = %+v", body)
	}
}

func TestReadings(t *testing.T) {
	s := New(t.TempDir(), nil, nil)
	s.Publish(&sensors.SensorData{SensorType: "dht22", Fields: map[string]float64{"temperature": 20}})
	s.Publish(&sensors.SensorData{SensorType: "bme280", Fields: map[string]float64{"temperature": 21}})
	s.Publish(&sensors.SensorData{SensorType: "bme280", Fields: map[string]float64{"temperature": 22}})

	w := get(t, s.Handler(), "/api/readings")
	var got []sensors.SensorData
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].SensorType != "bme280" || got[0].Fields["temperature"] != 22 || got[1].SensorType != "dht22" {
		t.Errorf("readings = %+v", got)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	s := New(t.TempDir(), nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	io.Copy(io.Discard, resp.Body)

	deadline := time.Now().Add(5 * time.Second)
	for s.Hub.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := &sensors.SensorData{
		SensorType: "bme280",
		Fields:     map[string]float64{"temperature": 25.08, "humidity": 55},
		Timestamp:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Publish(want)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got sensors.SensorData
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.SensorType != want.SensorType || !got.Timestamp.Equal(want.Timestamp) || got.Fields["humidity"] != 55 {
		t.Errorf("got %+v, want %+v", got, want)
	}

	conn.Close()
	deadline = time.Now().Add(5 * time.Second)
	for s.Hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLatestSnapshotEmpty(t *testing.T) {
	if got := NewLatest().Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() = %v", got)
	}
}

func TestHubPublishDropsStalledClient(t *testing.T) {
	h := NewHub()
	stalled := &client{send: make(chan *sensors.SensorData, 1)}
	h.clients[stalled] = struct{}{}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			h.Publish(&sensors.SensorData{SensorType: "bme280"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a client that is not draining")
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want stalled client dropped", h.Len())
	}
	if d, ok := <-stalled.send; !ok || d.SensorType != "bme280" {
		t.Errorf("first queued reading = %v, %v", d, ok)
	}
	if _, ok := <-stalled.send; ok {
		t.Error("send channel of dropped client still open")
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	s := New(t.TempDir(), nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.Hub.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Hub.Close(); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Errorf("ReadMessage() after Close = %v, want error", err)
	}
	if s.Hub.Len() != 0 {
		t.Errorf("Len() = %d after Close", s.Hub.Len())
	}
}
