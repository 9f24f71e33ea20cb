// package test contains utility functions used by tests/benchmarks in various packages
package test

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/grafana/sensorstat/reading"
)

// Epoch is the time the generated readings start at
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// these serve as a "cache" of clean series we can use instead of regenerating all the time
var randFloats = make(map[int][]float64)

// RandFloats returns size random values in [0,100). the same size always yields the same values.
func RandFloats(size int) []float64 {
	data, ok := randFloats[size]
	if !ok {
		rnd := rand.New(rand.NewSource(int64(size)))
		data = make([]float64, size)
		for i := range data {
			data[i] = rnd.Float64() * 100
		}
		randFloats[size] = data
	}
	out := make([]float64, size)
	copy(out, data)
	return out
}

func RandFloats100() []float64 { return RandFloats(100) }
func RandFloats10k() []float64 { return RandFloats(10000) }
func RandFloats1M() []float64  { return RandFloats(1000001) }

// RandReadings generates n readings spread over the given amount of devices and regions,
// one every 7 minutes starting at Epoch. Batteries drain linearly per device.
// output is fully determined by the arguments.
func RandReadings(n, devices, regions int, seed int64) []reading.Reading {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]reading.Reading, n)
	for i := range out {
		dev := rnd.Intn(devices)
		out[i] = reading.Reading{
			DeviceID: fmt.Sprintf("dev-%03d", dev),
			Region:   fmt.Sprintf("region-%d", dev%regions),
			Metric:   rnd.NormFloat64()*15 + 400,
			Battery:  100 - float64(i)*50/float64(n),
			Time:     Epoch.Add(time.Duration(i) * 7 * time.Minute),
		}
	}
	return out
}
