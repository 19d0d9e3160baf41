package bmx280

import "time"

// AutoSettle, used as Opts.SettleDelay, derives the wait after triggering a
// conversion from the oversampling settings with MeasurementTime.
const AutoSettle time.Duration = -1

// MeasurementTime returns the datasheet's maximum measurement time for the
// given oversampling (BME280 datasheet appendix B):
//
//	1.25 + 2.3*T + (2.3*P + 0.575) + (2.3*H + 0.575) ms
//
// where a skipped measurement contributes nothing. Pass Off for h on a
// BMP280.
func MeasurementTime(t, p, h Oversampling) time.Duration {
	us := 1250
	if n := t.Samples(); n > 0 {
		us += 2300 * n
	}
	if n := p.Samples(); n > 0 {
		us += 2300*n + 575
	}
	if n := h.Samples(); n > 0 {
		us += 2300*n + 575
	}
	return time.Duration(us) * time.Microsecond
}
