// Package layout turns indexed appointments into timeline geometry: one
// column per day, one row per grid step, and card offsets expressed as a
// percentage of a single row.
package layout

import (
	"math"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/index"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
)

const (
	DefaultGutter    = 2
	DefaultSeparator = 5
	DefaultHopGap    = 2
)

// Config sizes cards relative to one grid row (100 units).
type Config struct {
	StepMinutes int     `json:"step_minutes"`
	Gutter      float64 `json:"gutter"`
	Separator   float64 `json:"separator"`
	HopGap      float64 `json:"hop_gap"`
}

func DefaultConfig() Config {
	return Config{
		StepMinutes: slot.DefaultStepMinutes,
		Gutter:      DefaultGutter,
		Separator:   DefaultSeparator,
		HopGap:      DefaultHopGap,
	}
}

type Geometry struct {
	MarginTop float64 `json:"margin_top"`
	Height    float64 `json:"height"`
}

// Compute places a card by its start minute and duration only, so the same
// appointment always lands in the same spot.
func (c Config) Compute(a appointment.Appointment) Geometry {
	step := float64(c.StepMinutes)
	offset := float64(a.Start.Minute() % c.StepMinutes)
	scale := a.End.Sub(a.Start).Minutes() / step
	hops := math.Max(math.Ceil(scale), 0)
	return Geometry{
		MarginTop: offset/step*100 + c.Gutter,
		Height:    scale*100 - c.Separator + c.HopGap*hops,
	}
}

// SplitHalves divides an hour bucket into appointments starting before the
// step boundary and those starting at or after it.
func SplitHalves(bucket []appointment.Appointment, step int) (first, second []appointment.Appointment) {
	for _, a := range bucket {
		if a.Start.Minute() < step {
			first = append(first, a)
		} else {
			second = append(second, a)
		}
	}
	return first, second
}

type Card struct {
	Appointment appointment.Appointment `json:"appointment"`
	Geometry    Geometry                `json:"geometry"`
	TimeRange   string                  `json:"time_range"`
	PatientName string                  `json:"patient_name"`
	NewPatient  bool                    `json:"new_patient"`
	Done        bool                    `json:"done"`
}

type Row struct {
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
	Cards []Card    `json:"cards"`
}

type Column struct {
	Date     time.Time `json:"date"`
	Weekday  string    `json:"weekday"`
	MonthDay int       `json:"month_day"`
	Today    bool      `json:"today"`
	Rows     []Row     `json:"rows"`
}

type Grid struct {
	Labels  []string `json:"labels"`
	Columns []Column `json:"columns"`
}

// Engine renders columns for a fixed slot configuration.
type Engine struct {
	cfg   Config
	slots slot.Config
	now   func() time.Time
}

func New(cfg Config, slots slot.Config, now func() time.Time) *Engine {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = slots.StepMinutes
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{cfg: cfg, slots: slots, now: now}
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) card(a appointment.Appointment) Card {
	return Card{
		Appointment: a,
		Geometry:    e.cfg.Compute(a),
		TimeRange:   TimeRange(a),
		PatientName: a.Patient.FullName(),
		NewPatient:  a.IsNewPatient(),
		Done:        a.IsDone(),
	}
}

// Day builds one column. Each grid row takes the cards of its hour bucket
// that start within that row's step.
func (e *Engine) Day(date time.Time, idx index.Index) Column {
	today := e.now()
	col := Column{
		Date:     slot.DayStart(date),
		Weekday:  date.Format("Mon"),
		MonthDay: date.Day(),
		Today:    sameDay(date, today),
	}
	for _, t := range e.slots.GridTimes(date) {
		row := Row{Time: t, Label: t.Format(timeLabel), Cards: []Card{}}
		for _, a := range rowBucket(idx.Lookup(t), t, e.cfg.StepMinutes) {
			row.Cards = append(row.Cards, e.card(a))
		}
		col.Rows = append(col.Rows, row)
	}
	return col
}

// Week builds consecutive columns starting at anchor.
func (e *Engine) Week(anchor time.Time, days int, idx index.Index) Grid {
	g := Grid{Labels: e.Labels(anchor)}
	start := slot.DayStart(anchor)
	for i := 0; i < days; i++ {
		g.Columns = append(g.Columns, e.Day(start.AddDate(0, 0, i), idx))
	}
	return g
}

func (e *Engine) Labels(date time.Time) []string {
	times := e.slots.GridTimes(date)
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.Format(timeLabel)
	}
	return out
}

const timeLabel = "3:04 PM"

func rowBucket(bucket []appointment.Appointment, row time.Time, step int) []appointment.Appointment {
	if 60/step == 2 {
		first, second := SplitHalves(bucket, step)
		if row.Minute() < step {
			return first
		}
		return second
	}
	lo := row.Minute() - row.Minute()%step
	var out []appointment.Appointment
	for _, a := range bucket {
		if m := a.Start.Minute(); m >= lo && m < lo+step {
			out = append(out, a)
		}
	}
	return out
}

func TimeRange(a appointment.Appointment) string {
	return a.Start.Format(timeLabel) + " - " + a.End.Format(timeLabel)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
