// Package slot generates bookable start times and display grid rows for a
// calendar day from fixed business hours.
package slot

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid slot configuration")

const (
	DefaultStartHour   = 9
	DefaultEndHour     = 17
	DefaultStepMinutes = 30
)

// Config holds business-hour bounds and the display step. Start candidates
// are offered at half the step.
type Config struct {
	StartHour   int
	EndHour     int
	StepMinutes int
}

func DefaultConfig() Config {
	return Config{
		StartHour:   DefaultStartHour,
		EndHour:     DefaultEndHour,
		StepMinutes: DefaultStepMinutes,
	}
}

func (c Config) Validate() error {
	switch {
	case c.StartHour < 0 || c.EndHour > 24:
		return fmt.Errorf("%w: hours must be within 0..24", ErrInvalidConfig)
	case c.StartHour >= c.EndHour:
		return fmt.Errorf("%w: start hour %d must be before end hour %d", ErrInvalidConfig, c.StartHour, c.EndHour)
	case c.StepMinutes <= 0 || 60%c.StepMinutes != 0:
		return fmt.Errorf("%w: step %d must divide an hour", ErrInvalidConfig, c.StepMinutes)
	case c.StepMinutes%2 != 0:
		return fmt.Errorf("%w: step %d must be even to allow half steps", ErrInvalidConfig, c.StepMinutes)
	}
	return nil
}

func (c Config) Step() time.Duration     { return time.Duration(c.StepMinutes) * time.Minute }
func (c Config) HalfStep() time.Duration { return c.Step() / 2 }

// DayStart is midnight of date in date's own location.
func DayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

func (c Config) BusinessStart(date time.Time) time.Time {
	return atHour(date, c.StartHour)
}

func (c Config) BusinessEnd(date time.Time) time.Time {
	return atHour(date, c.EndHour)
}

func atHour(date time.Time, hour int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, date.Location())
}

// StartTimes returns start candidates at half-step granularity, from business
// start inclusive to business end exclusive.
func (c Config) StartTimes(date time.Time) []time.Time {
	return each(c.BusinessStart(date), c.BusinessEnd(date), c.HalfStep())
}

// GridTimes returns the display rows at full step.
func (c Config) GridTimes(date time.Time) []time.Time {
	return each(c.BusinessStart(date), c.BusinessEnd(date), c.Step())
}

// EndTimes are the start candidates plus business close.
func (c Config) EndTimes(date time.Time) []time.Time {
	return append(c.StartTimes(date), c.BusinessEnd(date))
}

// OnGrid reports whether t is a half-step multiple from business start on its day.
func (c Config) OnGrid(t time.Time) bool {
	offset := t.Sub(c.BusinessStart(t))
	return offset >= 0 && offset%c.HalfStep() == 0
}

func each(from, to time.Time, step time.Duration) []time.Time {
	if step <= 0 || !from.Before(to) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from)/step))
	for t := from; t.Before(to); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}
