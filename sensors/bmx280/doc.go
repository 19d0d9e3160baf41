// Package bmx280 controls a Bosch BMP280 or BME280 environmental sensor over
// a register-addressed bus such as I²C.
//
// The driver reads the factory calibration once at construction, triggers a
// forced-mode conversion when the last sample is older than
// Opts.MinRefreshInterval and converts raw ADC counts to °C, Pa and %RH with
// the datasheet's 32/64-bit fixed-point compensation.
//
// The compensation is exposed as pure functions (FineTemperature,
// CompensateTemperature, CompensatePressure, CompensateHumidity) so that it
// can be exercised against captured fixtures without hardware.
//
// A Dev is not safe for concurrent use. Callers sharing one device between
// goroutines must serialize access themselves.
//
// # Datasheets
//
// The URLs tend to rot, visit https://www.bosch-sensortec.com if they become
// invalid.
//
// BME280:
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bme280-ds002.pdf
//
// BMP280:
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp280-ds001.pdf
package bmx280
