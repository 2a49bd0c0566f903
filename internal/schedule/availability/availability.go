// Package availability derives blocked intervals from existing appointments
// and marks booking-form time candidates that would double-book.
//
// The checks are advisory. The upstream API remains the authority on
// conflicts; with no appointment data the checker disables nothing.
package availability

import (
	"slices"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
)

// LabelLayout matches the 12-hour labels shown in the booking form.
const LabelLayout = "3:04 PM"

// Interval is an occupied span with inclusive bounds. End is one minute
// before the source appointment's end so back-to-back bookings stay legal.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Overlaps reports whether two inclusive intervals share any instant.
func (iv Interval) Overlaps(o Interval) bool {
	return !iv.End.Before(o.Start) && !o.End.Before(iv.Start)
}

// FromAppointment is the blocked interval an appointment produces.
func FromAppointment(a appointment.Appointment) Interval {
	return Interval{Start: a.Start, End: a.End.Add(-time.Minute)}
}

// Blocked maps appointments to intervals sorted by start. An appointment
// whose ID equals excludeID (the one being edited) is skipped; zero
// excludes nothing.
func Blocked(appts []appointment.Appointment, excludeID int64) []Interval {
	out := make([]Interval, 0, len(appts))
	for _, a := range appts {
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		out = append(out, FromAppointment(a))
	}
	slices.SortStableFunc(out, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// Option is one selectable time in the booking form.
type Option struct {
	Time     time.Time `json:"time"`
	Label    string    `json:"label"`
	Disabled bool      `json:"disabled"`
}

type Checker struct {
	blocked     []Interval
	excludeID   int64
	disablePast bool
	now         func() time.Time
}

type Opt func(*Checker)

// WithExclude ignores the appointment being edited so its own slot stays
// selectable.
func WithExclude(id int64) Opt {
	return func(c *Checker) { c.excludeID = id }
}

// WithDisablePast hides start candidates earlier than now(). Off by default
// so staff can backdate appointments.
func WithDisablePast(now func() time.Time) Opt {
	return func(c *Checker) {
		c.disablePast = true
		if now != nil {
			c.now = now
		}
	}
}

func New(appts []appointment.Appointment, opts ...Opt) *Checker {
	c := &Checker{now: time.Now}
	for _, o := range opts {
		o(c)
	}
	c.blocked = Blocked(appts, c.excludeID)
	return c
}

func (c *Checker) Blocked() []Interval {
	return slices.Clone(c.blocked)
}

func (c *Checker) occupied(t time.Time) bool {
	for _, iv := range c.blocked {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

// firstBlockFrom returns the first interval starting at or after start.
func (c *Checker) firstBlockFrom(start time.Time) (Interval, bool) {
	for _, iv := range c.blocked {
		if !start.After(iv.Start) {
			return iv, true
		}
	}
	return Interval{}, false
}

// StartDisabled reports whether a new appointment may not begin at t.
func (c *Checker) StartDisabled(t time.Time) bool {
	return c.occupied(t)
}

// EndDisabled reports whether t is not a valid end for an appointment
// beginning at start.
func (c *Checker) EndDisabled(t, start time.Time) bool {
	if start.IsZero() || !t.After(start) {
		return true
	}
	if first, ok := c.firstBlockFrom(start); ok && t.After(first.Start) {
		return true
	}
	return c.occupied(t.Add(-time.Minute))
}

// StartOptions labels candidates and disables occupied ones.
func (c *Checker) StartOptions(candidates []time.Time) []Option {
	out := make([]Option, 0, len(candidates))
	var now time.Time
	if c.disablePast {
		now = c.now()
	}
	for _, t := range candidates {
		if c.disablePast && t.Before(now) {
			continue
		}
		out = append(out, Option{Time: t, Label: Label(t), Disabled: c.StartDisabled(t)})
	}
	return out
}

// EndOptions labels end candidates for the chosen start. A zero start
// disables every option, matching a form with no start selected.
func (c *Checker) EndOptions(candidates []time.Time, start time.Time) []Option {
	out := make([]Option, 0, len(candidates))
	for _, t := range candidates {
		out = append(out, Option{Time: t, Label: Label(t), Disabled: c.EndDisabled(t, start)})
	}
	return out
}

// IsFree reports whether [start, end) can be booked without crossing an
// existing appointment.
func (c *Checker) IsFree(start, end time.Time) bool {
	return !c.StartDisabled(start) && !c.EndDisabled(end, start)
}

func Label(t time.Time) string {
	return t.Format(LabelLayout)
}
