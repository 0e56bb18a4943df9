package catalog

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a day, microseconds since midnight.
// Matches the precision of a Postgres TIME column.
type TimeOfDay int64

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(((int64(hour)*60+int64(minute))*60 + int64(second)) * 1_000_000)
}

func TimeOfDayFrom(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	micros := NewTimeOfDay(h, m, s)
	return micros + TimeOfDay(t.Nanosecond()/1000)
}

func TimeOfDayFromMicros(micros int64) TimeOfDay {
	return TimeOfDay(micros)
}

func (t TimeOfDay) Micros() int64 {
	return int64(t)
}

func (t TimeOfDay) String() string {
	secs := int64(t) / 1_000_000
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// SalesWindow is the time-bound sales gate for one (zone, draw type) pair.
// Owned by the catalog collaborator; the core only reads it.
type SalesWindow struct {
	ZoneID     int64
	DrawTypeID int64
	Cutoff     TimeOfDay
	IsActive   bool
}

// OpenAt reports whether a sale may be accepted at the given instant.
// The cutoff is exclusive: a request arriving exactly at the cutoff is
// rejected. now must already be in the sales timezone.
func (w SalesWindow) OpenAt(now time.Time) bool {
	return w.IsActive && TimeOfDayFrom(now) < w.Cutoff
}
