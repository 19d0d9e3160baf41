package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MichaelS11/go-dht"
	"github.com/d2r2/go-logger"
	"go.uber.org/multierr"

	"github.com/Uranury/bmx280/config"
	"github.com/Uranury/bmx280/monitor"
	"github.com/Uranury/bmx280/sensors"
	"github.com/Uranury/bmx280/sensors/bmx280"
	"github.com/Uranury/bmx280/sensors/bmx280/i2cbus"
	"github.com/Uranury/bmx280/server"
	"github.com/Uranury/bmx280/storage"
)

var lg = logger.NewPackageLogger("main", logger.InfoLevel)

// Package loggers whose level follows LOG_LEVEL. "i2c" belongs to go-i2c.
var loggers = []string{"main", "bmx280", "i2cbus", "i2c", "monitor", "server", "storage"}

func main() {
	code := realMain(os.Args[1:])
	logger.FinalizeLogger()
	os.Exit(code)
}

// realMain returns the process exit code so deferred cleanup runs before
// main exits.
func realMain(args []string) int {
	fs := flag.NewFlagSet("bmx280", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load")
	printCal := fs.Bool("calibration", false, "print the BMP280/BME280 calibration and exit")
	once := fs.Bool("once", false, "print one reading per sensor and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		lg.Error(err)
		return 1
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		lg.Error(err)
		return 1
	}
	for _, name := range loggers {
		if err := logger.ChangePackageLogLevel(name, level); err != nil {
			lg.Debugf("log level for %s: %v", name, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *printCal, *once); err != nil {
		lg.Error(err)
		return 1
	}
	return 0
}

func parseLevel(s string) (logger.LogLevel, error) {
	switch s {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notify":
		return logger.NotifyLevel, nil
	case "warn", "warning":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown LOG_LEVEL %q", s)
	}
}

func run(ctx context.Context, cfg *config.Config, printCal, once bool) (err error) {
	// Closed in reverse order on return.
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	bus, err := i2cbus.Open(cfg.BusDriver, cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}
	closers = append(closers, bus)

	dev, err := bmx280.New(bus, cfg.Address, &bmx280.Opts{
		MinRefreshInterval: cfg.MinRefresh,
		SettleDelay:        cfg.SettleDelay,
	})
	if err != nil {
		return fmt.Errorf("bmx280 at 0x%02X: %w", cfg.Address, err)
	}
	if printCal {
		fmt.Printf("%s\n%s", dev, dev.Calibration())
		return nil
	}
	bmx := sensors.NewBMX280(dev)
	closers = append(closers, bmx)
	list := []sensors.Sensor{bmx}

	if cfg.DHT22Pin != "" {
		d, err := openDHT22(cfg.DHT22Pin)
		if err != nil {
			lg.Warningf("DHT22 on %s disabled: %v", cfg.DHT22Pin, err)
		} else {
			list = append(list, d)
		}
	}

	if once {
		return printOnce(ctx, list)
	}

	srv := server.New(cfg.StaticDir, list, bmx)
	closers = append(closers, srv.Hub)
	sinks := []monitor.Sink{srv}
	if cfg.InfluxEnabled() {
		ix := storage.NewInflux(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
		closers = append(closers, ix)
		sinks = append(sinks, ix)
	} else {
		lg.Info("INFLUX_BUCKET not set, not writing to InfluxDB")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitorDone := make(chan struct{})
	go func() {
		monitor.Run(ctx, cfg.PollInterval, list, sinks...)
		close(monitorDone)
	}()

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Handler()}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.ListenAndServe()
	}()

	lg.Infof("Server starting on %s", cfg.HTTPAddr)
	lg.Infof("Monitoring sensors: %d", len(list))
	for _, s := range list {
		lg.Infof("  - %s", s.Name())
	}

	select {
	case <-ctx.Done():
		lg.Info("shutting down")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	cancel()
	<-monitorDone

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return multierr.Append(err, httpSrv.Shutdown(shutdownCtx))
}

func openDHT22(pin string) (*sensors.DHT22, error) {
	if err := dht.HostInit(); err != nil {
		return nil, err
	}
	return sensors.NewDHT22(pin)
}

func printOnce(ctx context.Context, list []sensors.Sensor) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	var errs error
	for _, s := range list {
		data, err := s.Read(ctx)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if err := enc.Encode(data); err != nil {
			return err
		}
	}
	return errs
}
