// Package config loads service settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Uranury/bmx280/sensors/bmx280"
)

type Config struct {
	BusDriver   string
	I2CBus      string
	Address     uint16
	MinRefresh  time.Duration
	SettleDelay time.Duration // bmx280.AutoSettle for "auto"

	DHT22Pin string

	PollInterval time.Duration
	HTTPAddr     string
	StaticDir    string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	LogLevel string
}

// InfluxEnabled reports whether a bucket was configured.
func (c *Config) InfluxEnabled() bool {
	return c.InfluxBucket != ""
}

// Load reads envFile (if it exists) and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: %s: %w", envFile, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup for every variable.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	c := &Config{
		BusDriver:    strings.ToLower(get("BMX280_BUS_DRIVER", "periph")),
		I2CBus:       get("BMX280_I2C_BUS", ""),
		DHT22Pin:     get("DHT22_PIN", ""),
		HTTPAddr:     get("HTTP_ADDR", ":8080"),
		StaticDir:    get("STATIC_DIR", "./static"),
		InfluxURL:    get("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  get("INFLUX_TOKEN", ""),
		InfluxOrg:    get("INFLUX_ORG", ""),
		InfluxBucket: get("INFLUX_BUCKET", ""),
		LogLevel:     strings.ToLower(get("LOG_LEVEL", "info")),
	}

	addr, err := strconv.ParseUint(get("BMX280_ADDRESS", "0x76"), 0, 16)
	if err != nil || addr > 0x7F {
		return nil, fmt.Errorf("config: BMX280_ADDRESS: invalid 7-bit address %q", get("BMX280_ADDRESS", ""))
	}
	c.Address = uint16(addr)

	if c.MinRefresh, err = duration(get("BMX280_MIN_REFRESH", "200ms"), "BMX280_MIN_REFRESH"); err != nil {
		return nil, err
	}
	if c.PollInterval, err = duration(get("POLL_INTERVAL", "2s"), "POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if s := get("BMX280_SETTLE_DELAY", "100ms"); strings.EqualFold(s, "auto") {
		c.SettleDelay = bmx280.AutoSettle
	} else if c.SettleDelay, err = duration(s, "BMX280_SETTLE_DELAY"); err != nil {
		return nil, err
	}

	switch c.BusDriver {
	case "periph", "goi2c", "smbus", "embd":
	default:
		return nil, fmt.Errorf("config: BMX280_BUS_DRIVER: unknown driver %q", c.BusDriver)
	}
	return c, nil
}

func duration(s, key string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s: must be positive, got %s", key, s)
	}
	return d, nil
}
