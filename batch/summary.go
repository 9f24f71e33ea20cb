package batch

import (
	"math"
	"sort"

	"github.com/grafana/sensorstat/errors"
)

// Percentile is the value of one requested quantile
type Percentile struct {
	P     float64
	Value float64
}

// Summary holds the descriptive statistics of one numeric series.
// it is derived on every call and never stored.
type Summary struct {
	Count       int
	Mean        float64
	Std         float64 // population standard deviation
	Min         float64
	Max         float64
	Median      float64
	Percentiles []Percentile // in the order they were requested
}

// Percentile returns the value of requested quantile p.
func (s Summary) Percentile(p float64) (float64, bool) {
	for _, pc := range s.Percentiles {
		if pc.P == p {
			return pc.Value, true
		}
	}
	return 0, false
}

// Summarize computes the Summary of series, plus the quantiles ps.
// an empty series returns errors.ErrEmptyGroup: there are no statistics
// to report, and zeroes would be indistinguishable from real measurements.
// series is not modified.
func Summarize(series []float64, ps ...float64) (Summary, error) {
	if len(series) == 0 {
		return Summary{}, errors.ErrEmptyGroup
	}
	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
	if s.Min == s.Max {
		// constant series. avoid rounding noise from sum/n
		s.Mean = s.Min
		s.Std = 0
	} else {
		s.Mean = Sum(sorted) / float64(len(sorted))
		s.Std = stdDev(sorted, s.Mean)
	}
	s.Median, _ = QuantileSorted(sorted, 0.5)

	if len(ps) > 0 {
		s.Percentiles = make([]Percentile, len(ps))
		for i, p := range ps {
			v, ok := QuantileSorted(sorted, p)
			if !ok {
				v = math.NaN()
			}
			s.Percentiles[i] = Percentile{P: p, Value: v}
		}
	}
	return s, nil
}
