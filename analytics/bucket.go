package analytics

import (
	"fmt"
	"time"
)

// Bucket is a diurnal classification of a reading by its UTC hour of day.
// day is [06:00,18:00), night is the rest. the boundary is fixed:
// changing it changes every temporal result and must be a new Bucket scheme.
type Bucket int

const (
	Day Bucket = iota
	Night
)

const (
	dayStartHour = 6
	dayEndHour   = 18
)

// BucketOf returns the bucket of t
func BucketOf(t time.Time) Bucket {
	h := t.UTC().Hour()
	if h >= dayStartHour && h < dayEndHour {
		return Day
	}
	return Night
}

// String provides human friendly names
func (b Bucket) String() string {
	switch b {
	case Day:
		return "day"
	case Night:
		return "night"
	}
	panic(fmt.Sprintf("Bucket.String(): unknown bucket %d", b))
}
