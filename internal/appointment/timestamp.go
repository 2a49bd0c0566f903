package appointment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrBadTimestamp = errors.New("unrecognised timestamp")

// naiveLayouts cover ISO timestamps sent without a UTC offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime reads an ISO 8601 timestamp as wall-clock time in loc. Values
// carrying an offset are converted; values without one are taken as already
// being in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}

// UnmarshalJSON places start and end on the server's local clock so grid
// rows and availability agree on the hour.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	type plain Appointment
	var w struct {
		plain
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Appointment(w.plain)

	var err error
	if a.Start, err = parseOptional(w.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if a.End, err = parseOptional(w.End); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	return nil
}

func parseOptional(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s, time.Local)
}
