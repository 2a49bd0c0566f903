// Package index buckets appointments by the calendar hour they start in so
// the timeline can place them in O(1) per grid cell.
package index

import (
	"slices"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
)

// Key identifies one local wall-clock hour.
type Key struct {
	Year    int `json:"year"`
	YearDay int `json:"year_day"`
	Hour    int `json:"hour"`
}

func KeyOf(t time.Time) Key {
	return Key{Year: t.Year(), YearDay: t.YearDay(), Hour: t.Hour()}
}

// Index is immutable once built. Rebuild it from the source list whenever
// the list changes.
type Index struct {
	buckets map[Key][]appointment.Appointment
	size    int
}

// Build inserts every appointment under the hour of its start. Input order
// is kept within a bucket and duplicates are not collapsed.
func Build(appts []appointment.Appointment) Index {
	idx := Index{buckets: make(map[Key][]appointment.Appointment), size: len(appts)}
	for _, a := range appts {
		k := KeyOf(a.Start)
		idx.buckets[k] = append(idx.buckets[k], a)
	}
	return idx
}

// Lookup returns the bucket for the hour containing t.
func (idx Index) Lookup(t time.Time) []appointment.Appointment {
	return idx.buckets[KeyOf(t)]
}

func (idx Index) Bucket(k Key) []appointment.Appointment {
	return idx.buckets[k]
}

// Len is the number of indexed appointments across all buckets.
func (idx Index) Len() int { return idx.size }

// Day returns every appointment starting on date, ordered by start.
func (idx Index) Day(date time.Time) []appointment.Appointment {
	var out []appointment.Appointment
	for h := 0; h < 24; h++ {
		k := Key{Year: date.Year(), YearDay: date.YearDay(), Hour: h}
		out = append(out, idx.buckets[k]...)
	}
	slices.SortStableFunc(out, func(a, b appointment.Appointment) int {
		return a.Start.Compare(b.Start)
	})
	return out
}
