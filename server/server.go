// Package server exposes readings over HTTP and WebSocket.
package server

import (
	"net/http"
	"path/filepath"

	"github.com/d2r2/go-logger"
	"github.com/gin-gonic/gin"

	"github.com/Uranury/bmx280/sensors"
	"github.com/Uranury/bmx280/sensors/bmx280"
)

var lg = logger.NewPackageLogger("server", logger.InfoLevel)

// CalibrationSource provides the BMx280 factory coefficients.
type CalibrationSource interface {
	Name() string
	Calibration() bmx280.Calibration
}

type Server struct {
	Hub    *Hub
	Latest *Latest

	engine *gin.Engine
}

// New builds the router. calib may be nil when no BMx280 is attached.
func New(staticDir string, list []sensors.Sensor, calib CalibrationSource) *Server {
	s := &Server{
		Hub:    NewHub(),
		Latest: NewLatest(),
		engine: gin.Default(),
	}
	r := s.engine

	r.Static("/static", staticDir)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})
	r.GET("/ws", func(c *gin.Context) {
		s.Hub.ServeHTTP(c.Writer, c.Request)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/readings", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Latest.Snapshot())
	})
	api.GET("/sensors", func(c *gin.Context) {
		names := make([]string, 0, len(list))
		for _, sn := range list {
			names = append(names, sn.Name())
		}
		c.JSON(http.StatusOK, names)
	})
	api.GET("/calibration", func(c *gin.Context) {
		if calib == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no BMP280/BME280 attached"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sensor":      calib.Name(),
			"calibration": calib.Calibration(),
		})
	})
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Publish feeds both the latest-value store and the WebSocket clients.
func (s *Server) Publish(data *sensors.SensorData) {
	s.Latest.Publish(data)
	s.Hub.Publish(data)
}
