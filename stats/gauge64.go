package stats

import (
	"sync/atomic"
	"time"
)

type Gauge64 uint64

func NewGauge64(name string) *Gauge64 {
	u := Gauge64(0)
	return registry.getOrAdd(name, &u).(*Gauge64)
}

func (g *Gauge64) SetUint64(val uint64) {
	atomic.StoreUint64((*uint64)(g), val)
}

// SetDuration records d in nanoseconds
func (g *Gauge64) SetDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	g.SetUint64(uint64(d.Nanoseconds()))
}

func (g *Gauge64) Peek() uint64 {
	return atomic.LoadUint64((*uint64)(g))
}

func (g *Gauge64) ReportGraphite(prefix, buf []byte, now time.Time) []byte {
	return WriteUint64(buf, prefix, []byte("gauge64"), g.Peek(), now)
}
