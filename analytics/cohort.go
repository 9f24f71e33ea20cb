package analytics

import (
	"github.com/grafana/sensorstat/batch"
	"github.com/grafana/sensorstat/group"
	"github.com/grafana/sensorstat/reading"
)

// RegionStats describes the metric distribution of one region
type RegionStats struct {
	Region           string  `json:"region"`
	Count            int     `json:"count"`
	Mean             float64 `json:"mean"`
	Median           float64 `json:"median"`
	P05              float64 `json:"p05"`
	P95              float64 `json:"p95"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	Std              float64 `json:"std"`
	Volatility       float64 `json:"volatility"`
	RelativeToGlobal float64 `json:"relativeToGlobal"`
	Outliers         int     `json:"outliers"` // readings strictly outside [p05,p95]
}

// DeviceMetricStats describes the metric distribution of one device
type DeviceMetricStats struct {
	DeviceID         string  `json:"deviceId"`
	Count            int     `json:"count"`
	Mean             float64 `json:"mean"`
	Median           float64 `json:"median"`
	Std              float64 `json:"std"`
	Volatility       float64 `json:"volatility"`
	P01              float64 `json:"p01"`
	P99              float64 `json:"p99"`
	RelativeToGlobal float64 `json:"relativeToGlobal"`
}

// GlobalMedian is the median metric over all readings.
// every cohort is compared against this one baseline.
func GlobalMedian(readings []reading.Reading) (float64, bool) {
	return batch.Quantile(reading.Metrics(readings), 0.5)
}

// Volatility is std/mean, or 0 when the mean is 0.
func Volatility(s batch.Summary) float64 {
	if s.Mean == 0 {
		return 0
	}
	return s.Std / s.Mean
}

// Regions computes RegionStats for every region, relative to globalMedian
func Regions(readings []reading.Reading, globalMedian float64, cfg Config) ([]RegionStats, error) {
	return regions(group.ByRegion(readings), globalMedian, cfg)
}

func regions(ix *group.Index, globalMedian float64, cfg Config) ([]RegionStats, error) {
	groups := ix.Groups()
	out := make([]RegionStats, len(groups))
	err := forEach(len(groups), cfg.Concurrency, func(i int) error {
		g := groups[i]
		metrics := g.Metrics()
		sum, err := batch.Summarize(metrics, cfg.Regional.Low, cfg.Regional.High)
		if err != nil {
			return err
		}
		low, _ := sum.Percentile(cfg.Regional.Low)
		high, _ := sum.Percentile(cfg.Regional.High)
		s := RegionStats{
			Region:           g.Key,
			Count:            sum.Count,
			Mean:             sum.Mean,
			Median:           sum.Median,
			P05:              low,
			P95:              high,
			Min:              sum.Min,
			Max:              sum.Max,
			Std:              sum.Std,
			Volatility:       Volatility(sum),
			RelativeToGlobal: sum.Mean - globalMedian,
		}
		for _, m := range metrics {
			if m < low || m > high {
				s.Outliers++
			}
		}
		out[i] = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeviceMetrics computes DeviceMetricStats for every device, relative to globalMedian
func DeviceMetrics(readings []reading.Reading, globalMedian float64, cfg Config) ([]DeviceMetricStats, error) {
	return deviceMetrics(group.ByDevice(readings), globalMedian, cfg)
}

func deviceMetrics(ix *group.Index, globalMedian float64, cfg Config) ([]DeviceMetricStats, error) {
	groups := ix.Groups()
	out := make([]DeviceMetricStats, len(groups))
	err := forEach(len(groups), cfg.Concurrency, func(i int) error {
		g := groups[i]
		sum, err := batch.Summarize(g.Metrics(), cfg.DeviceMetric.Low, cfg.DeviceMetric.High)
		if err != nil {
			return err
		}
		s := DeviceMetricStats{
			DeviceID:         g.Key,
			Count:            sum.Count,
			Mean:             sum.Mean,
			Median:           sum.Median,
			Std:              sum.Std,
			Volatility:       Volatility(sum),
			RelativeToGlobal: sum.Mean - globalMedian,
		}
		s.P01, _ = sum.Percentile(cfg.DeviceMetric.Low)
		s.P99, _ = sum.Percentile(cfg.DeviceMetric.High)
		out[i] = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
