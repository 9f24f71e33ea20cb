// Package reading defines the canonical sensor Reading and turns raw,
// heterogeneous records into Readings.
package reading

import (
	"strings"
	"time"

	"github.com/grafana/sensorstat/errors"
)

// TimestampFormat is the only accepted textual timestamp layout. always UTC.
const TimestampFormat = "2006-01-02 15:04:05"

// Reading is one sensor observation. Readings are values: they are never
// mutated after normalization and have no identity beyond their fields.
type Reading struct {
	DeviceID string
	Region   string
	Metric   float64 // e.g. gas concentration. always finite
	Battery  float64 // conventionally within [0,100], not enforced
	Time     time.Time
}

// Timestamp renders the reading's time in TimestampFormat.
func (r Reading) Timestamp() string {
	return r.Time.UTC().Format(TimestampFormat)
}

// ID identifies a reading in reports, as "<deviceId>@<timestamp>"
func (r Reading) ID() string {
	return r.DeviceID + "@" + r.Timestamp()
}

// ParseTimestamp parses s as TimestampFormat, interpreted as UTC.
// anything else, including zone markers, a 'T' separator or fractional
// seconds, single digit fields or extra spaces, is an errors.InvalidTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != len(TimestampFormat) || strings.ContainsAny(s, "TZ+") {
		return time.Time{}, errors.NewInvalidTimestamp(s)
	}
	t, err := time.ParseInLocation(TimestampFormat, s, time.UTC)
	if err != nil || t.Format(TimestampFormat) != s {
		return time.Time{}, errors.NewInvalidTimestamp(s)
	}
	return t, nil
}

// Metrics returns the metric values of readings, in order.
func Metrics(readings []Reading) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = r.Metric
	}
	return out
}

// Batteries returns the battery levels of readings, in order.
func Batteries(readings []Reading) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = r.Battery
	}
	return out
}
