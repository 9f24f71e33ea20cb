// Package analytics computes the per-device, per-region, diurnal and anomaly
// statistics of a static batch of readings, and assembles them into one Result.
// All entry points are pure: they read their input and return values.
package analytics

import (
	"fmt"
	"math"
	"time"
)

// Tail is a pair of quantiles delimiting the low and high tails of a distribution
type Tail struct {
	Low  float64
	High float64
}

func (t Tail) validate(name string) error {
	if math.IsNaN(t.Low) || math.IsNaN(t.High) || t.Low < 0 || t.Low > 1 || t.High < 0 || t.High > 1 {
		return fmt.Errorf("%s tail quantiles must be within [0,1], got [%v,%v]", name, t.Low, t.High)
	}
	if t.Low >= t.High {
		return fmt.Errorf("%s tail low quantile %v must be below high quantile %v", name, t.Low, t.High)
	}
	return nil
}

// Config holds the tunables of a run. the tails are deliberately independent:
// the anomaly band and the regional band serve different purposes.
type Config struct {
	Anomaly      Tail // whole-batch spike detection
	Regional     Tail // per region p05/p95 and regional outliers
	DeviceMetric Tail // per device metric p01/p99
	Battery      Tail // per device battery p01/p99

	// MinElapsed is the smallest time span a battery discharge is computed over
	MinElapsed time.Duration

	// SampleSize bounds how many flagged reading ids the anomaly report carries
	SampleSize int

	// Concurrency is how many groups are reduced at the same time
	Concurrency int
}

func NewConfig() Config {
	return Config{
		Anomaly:      Tail{0.01, 0.99},
		Regional:     Tail{0.05, 0.95},
		DeviceMetric: Tail{0.01, 0.99},
		Battery:      Tail{0.01, 0.99},
		MinElapsed:   time.Second,
		SampleSize:   10,
		Concurrency:  1,
	}
}

func (c Config) Validate() error {
	for _, t := range []struct {
		name string
		tail Tail
	}{
		{"anomaly", c.Anomaly},
		{"regional", c.Regional},
		{"device-metric", c.DeviceMetric},
		{"battery", c.Battery},
	} {
		if err := t.tail.validate(t.name); err != nil {
			return err
		}
	}
	if c.MinElapsed <= 0 {
		return fmt.Errorf("min-elapsed must be positive, got %s", c.MinElapsed)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample-size must not be negative, got %d", c.SampleSize)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
