// Package view holds the scheduler's navigation state: the display mode, the
// anchor day and the appointments last fetched for the visible range.
//
// Each navigation step issues a Ticket. Only the response carrying the most
// recent ticket is accepted, so a slow fetch for a range the user already
// left can never overwrite newer data.
package view

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
)

var ErrUnknownMode = errors.New("unknown view mode")

type Mode string

const (
	ModeToday Mode = "today"
	ModeWeek  Mode = "week"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeToday, ModeWeek:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Jump is the number of days one Prev/Next step moves.
func (m Mode) Jump() int {
	if m == ModeWeek {
		return 7
	}
	return 1
}

// Range is an inclusive span of whole days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24+0.5) + 1
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	d := slot.DayStart(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Title is the month heading, e.g. "Mar 2024".
func (r Range) Title() string { return r.Start.Format("Jan 2006") }

// Subtitle is the day span, e.g. "4 - 10", or a single day number.
func (r Range) Subtitle() string {
	if r.Start.Equal(r.End) {
		return r.Start.Format("2")
	}
	return r.Start.Format("2") + " - " + r.End.Format("2")
}

// RangeFor is the span shown for anchor in mode m.
func RangeFor(anchor time.Time, m Mode) Range {
	start := slot.DayStart(anchor)
	return Range{Start: start, End: start.AddDate(0, 0, m.Jump()-1)}
}

type Ticket struct {
	Gen   uint64 `json:"gen"`
	Range Range  `json:"range"`
}

// State is the serialisable part of a Controller.
type State struct {
	Mode         Mode                      `json:"mode"`
	Anchor       time.Time                 `json:"anchor"`
	Gen          uint64                    `json:"gen"`
	Loading      bool                      `json:"loading"`
	Appointments []appointment.Appointment `json:"appointments"`
}

type Controller struct {
	mu      sync.Mutex
	now     func() time.Time
	mode    Mode
	anchor  time.Time
	gen     uint64
	loading bool
	appts   []appointment.Appointment
}

// New starts in week mode anchored on today.
func New(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		now:     now,
		mode:    ModeWeek,
		anchor:  slot.DayStart(now()),
		loading: true,
	}
}

// begin must be called with mu held.
func (c *Controller) begin() Ticket {
	c.gen++
	c.loading = true
	return Ticket{Gen: c.gen, Range: RangeFor(c.anchor, c.mode)}
}

// SetMode switches the display mode. Entering today mode re-anchors on the
// current day; entering week mode keeps the anchor.
func (c *Controller) SetMode(m Mode) (Ticket, error) {
	if _, err := ParseMode(string(m)); err != nil {
		return Ticket{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	if m == ModeToday {
		c.anchor = slot.DayStart(c.now())
	}
	return c.begin(), nil
}

func (c *Controller) Prev() Ticket { return c.shift(-1) }
func (c *Controller) Next() Ticket { return c.shift(1) }

func (c *Controller) shift(dir int) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = c.anchor.AddDate(0, 0, dir*c.mode.Jump())
	return c.begin()
}

// GoTo anchors the view on date without changing mode.
func (c *Controller) GoTo(date time.Time) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = slot.DayStart(date)
	return c.begin()
}

// Refresh re-issues a ticket for the current range, e.g. after a booking.
func (c *Controller) Refresh() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.begin()
}

// Resolve installs appts if t is still the latest ticket. A stale ticket
// is dropped and leaves the loading flag as it was.
func (c *Controller) Resolve(t Ticket, appts []appointment.Appointment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Gen != c.gen {
		return false
	}
	c.appts = slices.Clone(appts)
	c.loading = false
	return true
}

// Fail marks the current fetch finished without replacing the data shown.
func (c *Controller) Fail(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Gen != c.gen {
		return false
	}
	c.loading = false
	return true
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Anchor() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor
}

func (c *Controller) Range() Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return RangeFor(c.anchor, c.mode)
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Appointments() []appointment.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.appts)
}

// IsTodayViewOnOtherDay reports today mode anchored away from the current
// day. The mode button reads "Day" instead of "Today" in that case.
func (c *Controller) IsTodayViewOnOtherDay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode == ModeToday && !slot.DayStart(c.now()).Equal(c.anchor)
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Mode:         c.mode,
		Anchor:       c.anchor,
		Gen:          c.gen,
		Loading:      c.loading,
		Appointments: slices.Clone(c.appts),
	}
}

// Restore rebuilds a controller from a snapshot. An invalid mode falls back
// to week.
func Restore(s State, now func() time.Time) *Controller {
	c := New(now)
	if _, err := ParseMode(string(s.Mode)); err == nil {
		c.mode = s.Mode
	}
	if !s.Anchor.IsZero() {
		c.anchor = slot.DayStart(s.Anchor.In(c.now().Location()))
	}
	c.gen = s.Gen
	c.loading = s.Loading
	c.appts = s.Appointments
	return c
}
