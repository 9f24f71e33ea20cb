// Package batch implements batched processing for series of readings,
// in particular aggregations and order statistics
package batch

// aggregation functions for batches of data
import (
	"math"
)

func Avg(in []float64) float64 {
	if len(in) == 0 {
		return math.NaN()
	}
	return Sum(in) / float64(len(in))
}

func Min(in []float64) float64 {
	if len(in) == 0 {
		return math.NaN()
	}
	min := math.Inf(1)
	for _, v := range in {
		if v < min {
			min = v
		}
	}
	return min
}

func Max(in []float64) float64 {
	if len(in) == 0 {
		return math.NaN()
	}
	max := math.Inf(-1)
	for _, v := range in {
		if v > max {
			max = v
		}
	}
	return max
}

// Med returns the median, using the same estimator as Quantile.
func Med(in []float64) float64 {
	med, ok := Quantile(in, 0.5)
	if !ok {
		return math.NaN()
	}
	return med
}

// StdDev returns the population standard deviation (divides by n, not n-1).
func StdDev(in []float64) float64 {
	avg := Avg(in)
	if math.IsNaN(avg) {
		return avg
	}
	return stdDev(in, avg)
}

func stdDev(in []float64, avg float64) float64 {
	sumDeviationsSquared := float64(0)
	for _, p := range in {
		deviation := p - avg
		sumDeviationsSquared += deviation * deviation
	}
	return math.Sqrt(sumDeviationsSquared / float64(len(in)))
}

func Sum(in []float64) float64 {
	if len(in) == 0 {
		return math.NaN()
	}
	sum := float64(0)
	for _, term := range in {
		sum += term
	}
	return sum
}
