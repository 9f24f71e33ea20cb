package analytics

import (
	"github.com/grafana/sensorstat/batch"
	"github.com/grafana/sensorstat/reading"
)

// AnomalyReport flags readings whose metric lies on or beyond the batch wide
// low/high quantiles. thresholds are nil when there are no readings.
type AnomalyReport struct {
	P01              *float64 `json:"p01"`
	P99              *float64 `json:"p99"`
	SpikeCount       int      `json:"spikeCount"`
	SampleFlaggedIDs []string `json:"sampleFlaggedIds"`
}

// Anomalies flags spikes over the whole batch, using the cfg.Anomaly tail.
// at most cfg.SampleSize flagged ids are reported, first ones in input order.
func Anomalies(readings []reading.Reading, cfg Config) AnomalyReport {
	rep := AnomalyReport{
		SampleFlaggedIDs: []string{},
	}
	qs := batch.Quantiles(reading.Metrics(readings), cfg.Anomaly.Low, cfg.Anomaly.High)
	if qs == nil {
		return rep
	}
	low, high := qs[0], qs[1]
	rep.P01, rep.P99 = &low, &high
	for _, r := range readings {
		if r.Metric <= low || r.Metric >= high {
			rep.SpikeCount++
			if len(rep.SampleFlaggedIDs) < cfg.SampleSize {
				rep.SampleFlaggedIDs = append(rep.SampleFlaggedIDs, r.ID())
			}
		}
	}
	return rep
}
