// Package stats holds the process wide run counters and renders them in the
// graphite plaintext protocol.
// metrics are registered once, by name, and reported at the end of a run.
package stats

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var errFmtMetricExists = "fatal: metric %q already exists as type %T"

var registry = NewRegistry()

// Registry tracks metrics by name
type Registry struct {
	sync.Mutex
	// the name does not include the prefix given at flush time
	metrics map[string]GraphiteMetric
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]GraphiteMetric),
	}
}

// getOrAdd returns the metric registered under name, registering metric if there is none.
// asking for an existing name with another metric type is a programming error and panics.
func (r *Registry) getOrAdd(name string, metric GraphiteMetric) GraphiteMetric {
	r.Lock()
	defer r.Unlock()
	if existing, ok := r.metrics[name]; ok {
		if reflect.TypeOf(existing) == reflect.TypeOf(metric) {
			return existing
		}
		panic(fmt.Sprintf(errFmtMetricExists, name, existing))
	}
	r.metrics[name] = metric
	return metric
}

type namedMetric struct {
	name   string
	metric GraphiteMetric
}

// list returns all metrics sorted by name, so that reports are stable
func (r *Registry) list() []namedMetric {
	r.Lock()
	out := make([]namedMetric, 0, len(r.metrics))
	for name, metric := range r.metrics {
		out = append(out, namedMetric{name, metric})
	}
	r.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].name < out[j].name
	})
	return out
}
