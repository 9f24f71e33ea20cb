// Package group partitions a sequence of readings by key.
// groups hold indices into the caller's reading sequence: they own no data
// and are never mutated after construction.
package group

import (
	"github.com/grafana/sensorstat/reading"
)

// KeyFunc derives the group key of a reading
type KeyFunc func(r reading.Reading) string

func DeviceKey(r reading.Reading) string { return r.DeviceID }
func RegionKey(r reading.Reading) string { return r.Region }

// Group is a read-only view over the readings sharing one key
type Group struct {
	Key      string
	idx      []int
	readings []reading.Reading
}

// Len is the number of readings in the group. it is never 0.
func (g Group) Len() int {
	return len(g.idx)
}

// At returns the i'th reading of the group, in input order
func (g Group) At(i int) reading.Reading {
	return g.readings[g.idx[i]]
}

// Readings returns a copy of the group's readings, in input order
func (g Group) Readings() []reading.Reading {
	out := make([]reading.Reading, len(g.idx))
	for i, j := range g.idx {
		out[i] = g.readings[j]
	}
	return out
}

// Indices returns the positions of the group's readings in the input sequence
func (g Group) Indices() []int {
	out := make([]int, len(g.idx))
	copy(out, g.idx)
	return out
}

func (g Group) Metrics() []float64 {
	out := make([]float64, len(g.idx))
	for i, j := range g.idx {
		out[i] = g.readings[j].Metric
	}
	return out
}

func (g Group) Batteries() []float64 {
	out := make([]float64, len(g.idx))
	for i, j := range g.idx {
		out[i] = g.readings[j].Battery
	}
	return out
}

// Index maps keys to groups, remembering the order in which keys were first seen.
type Index struct {
	readings []reading.Reading
	keys     []string
	members  map[string][]int
}

// By folds readings into an Index once. Every reading lands in exactly one group.
func By(readings []reading.Reading, key KeyFunc) *Index {
	ix := &Index{
		readings: readings,
		members:  make(map[string][]int),
	}
	for i, r := range readings {
		k := key(r)
		if _, ok := ix.members[k]; !ok {
			ix.keys = append(ix.keys, k)
		}
		ix.members[k] = append(ix.members[k], i)
	}
	return ix
}

func ByDevice(readings []reading.Reading) *Index { return By(readings, DeviceKey) }
func ByRegion(readings []reading.Reading) *Index { return By(readings, RegionKey) }

// Len returns the number of groups
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Keys returns the group keys in order of first occurrence
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// Get returns the group for key, if any reading carried it
func (ix *Index) Get(key string) (Group, bool) {
	idx, ok := ix.members[key]
	if !ok {
		return Group{}, false
	}
	return Group{Key: key, idx: idx, readings: ix.readings}, true
}

// Groups returns all groups in order of first occurrence
func (ix *Index) Groups() []Group {
	out := make([]Group, len(ix.keys))
	for i, k := range ix.keys {
		out[i] = Group{Key: k, idx: ix.members[k], readings: ix.readings}
	}
	return out
}
