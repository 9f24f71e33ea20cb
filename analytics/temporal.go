package analytics

import (
	"github.com/grafana/sensorstat/batch"
	"github.com/grafana/sensorstat/reading"
)

type BucketStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// TemporalStats compares the day and night metric distributions.
// a bucket without readings is nil ("no data"), and so is the delta
// when either bucket is.
type TemporalStats struct {
	Day           *BucketStats `json:"day"`
	Night         *BucketStats `json:"night"`
	DeltaDayNight *float64     `json:"deltaDayNight"`
}

// Temporal splits readings into diurnal buckets and compares them
func Temporal(readings []reading.Reading) TemporalStats {
	var series [2][]float64
	for _, r := range readings {
		b := BucketOf(r.Time)
		series[b] = append(series[b], r.Metric)
	}
	var ts TemporalStats
	ts.Day = bucketStats(series[Day])
	ts.Night = bucketStats(series[Night])
	if ts.Day != nil && ts.Night != nil {
		delta := ts.Day.Mean - ts.Night.Mean
		ts.DeltaDayNight = &delta
	}
	return ts
}

func bucketStats(series []float64) *BucketStats {
	sum, err := batch.Summarize(series)
	if err != nil {
		return nil
	}
	return &BucketStats{
		Count:  sum.Count,
		Mean:   sum.Mean,
		Median: sum.Median,
	}
}
