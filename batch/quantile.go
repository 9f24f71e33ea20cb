package batch

import (
	"math"
	"sort"
)

// Quantile returns the value below which fraction p of values falls,
// interpolating linearly between the two closest order statistics.
// ok is false when values is empty or p is outside [0,1].
// values is not modified.
func Quantile(values []float64, p float64) (q float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return QuantileSorted(sorted, p)
}

// QuantileSorted is Quantile for a series that is already sorted ascending.
// it lets callers that need several quantiles of one series sort only once.
func QuantileSorted(sorted []float64, p float64) (q float64, ok bool) {
	if len(sorted) == 0 || math.IsNaN(p) || p < 0 || p > 1 {
		return 0, false
	}
	r := p * float64(len(sorted)-1)
	lo := math.Floor(r)
	hi := math.Ceil(r)
	if lo == hi {
		return sorted[int(lo)], true
	}
	vLo := sorted[int(lo)]
	vHi := sorted[int(hi)]
	return vLo + (r-lo)*(vHi-vLo), true
}

// Quantiles returns the quantile for each p, sorting values once.
// it returns nil when values is empty.
func Quantiles(values []float64, ps ...float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	out := make([]float64, len(ps))
	for i, p := range ps {
		q, ok := QuantileSorted(sorted, p)
		if !ok {
			q = math.NaN()
		}
		out[i] = q
	}
	return out
}
