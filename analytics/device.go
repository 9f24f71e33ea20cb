package analytics

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/grafana/sensorstat/batch"
	"github.com/grafana/sensorstat/group"
	"github.com/grafana/sensorstat/reading"
)

const day = 24 * time.Hour

type BatterySummary struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DeviceStats holds the battery and cadence metrics of one device
type DeviceStats struct {
	DeviceID          string         `json:"-"`
	MeasurementCount  int            `json:"measurementCount"`
	Battery           BatterySummary `json:"battery"`
	BatteryP01        float64        `json:"batteryP01"`
	BatteryP99        float64        `json:"batteryP99"`
	DischargePerDay   float64        `json:"dischargePerDay"`
	EstimatedLifeDays *float64       `json:"estimatedLifeDays"` // nil when the battery is not discharging

	FirstSeen           string   `json:"firstSeen"`
	LastSeen            string   `json:"lastSeen"`
	MeanIntervalSeconds *float64 `json:"meanIntervalSeconds"` // nil for a single measurement
	BatteryOutOfRange   int      `json:"batteryOutOfRange"`
}

// DeviceAnalytics is keyed by device id, in order of first occurrence.
// it encodes as a JSON object that keeps that order.
type DeviceAnalytics []DeviceStats

func (d DeviceAnalytics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.DeviceID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the stats of device id
func (d DeviceAnalytics) Get(id string) (DeviceStats, bool) {
	for _, s := range d {
		if s.DeviceID == id {
			return s, true
		}
	}
	return DeviceStats{}, false
}

// Devices computes DeviceStats for every device in readings.
func Devices(readings []reading.Reading, cfg Config) (DeviceAnalytics, error) {
	return devices(group.ByDevice(readings), cfg)
}

func devices(ix *group.Index, cfg Config) (DeviceAnalytics, error) {
	groups := ix.Groups()
	out := make(DeviceAnalytics, len(groups))
	err := forEach(len(groups), cfg.Concurrency, func(i int) error {
		s, err := deviceStats(groups[i], cfg)
		out[i] = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deviceStats(g group.Group, cfg Config) (DeviceStats, error) {
	rs := g.Readings()
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Time.Before(rs[j].Time)
	})

	sum, err := batch.Summarize(reading.Batteries(rs), cfg.Battery.Low, cfg.Battery.High)
	if err != nil {
		return DeviceStats{}, err
	}
	s := DeviceStats{
		DeviceID:         g.Key,
		MeasurementCount: sum.Count,
		Battery: BatterySummary{
			Avg: sum.Mean,
			Min: sum.Min,
			Max: sum.Max,
		},
	}
	s.BatteryP01, _ = sum.Percentile(cfg.Battery.Low)
	s.BatteryP99, _ = sum.Percentile(cfg.Battery.High)

	first, last := rs[0], rs[len(rs)-1]
	s.FirstSeen = first.Timestamp()
	s.LastSeen = last.Timestamp()

	span := last.Time.Sub(first.Time)
	s.DischargePerDay = dischargePerDay(first.Battery, last.Battery, span, cfg.MinElapsed)
	if s.DischargePerDay > 0 && last.Battery >= 0 {
		life := last.Battery / s.DischargePerDay
		s.EstimatedLifeDays = &life
	}
	if len(rs) > 1 {
		interval := span.Seconds() / float64(len(rs)-1)
		s.MeanIntervalSeconds = &interval
	}
	for _, r := range rs {
		if r.Battery < 0 || r.Battery > 100 {
			s.BatteryOutOfRange++
		}
	}
	return s, nil
}

// dischargePerDay is the battery drop per day between two measurements span apart.
// a zero span (a single measurement, or all at the same instant) has no
// observable discharge: it counts as one day and yields 0.
// any other span is at least minElapsed.
func dischargePerDay(firstBattery, lastBattery float64, span, minElapsed time.Duration) float64 {
	if span <= 0 {
		return 0
	}
	if span < minElapsed {
		span = minElapsed
	}
	return (firstBattery - lastBattery) / (float64(span) / float64(day))
}
