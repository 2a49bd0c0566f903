package appointment

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownStatus     = errors.New("unknown appointment status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is the closed set of appointment states.
type Status uint8

const (
	StatusScheduled Status = iota + 1
	StatusCheckedIn
	StatusDone
)

var statusCodes = map[Status]string{
	StatusScheduled: "SC",
	StatusCheckedIn: "CI",
	StatusDone:      "DO",
}

var statusText = map[Status]string{
	StatusScheduled: "Scheduled",
	StatusCheckedIn: "Checked In",
	StatusDone:      "Done",
}

// ParseStatus accepts the wire code ("SC", "CI", "DO").
func ParseStatus(code string) (Status, error) {
	for s, c := range statusCodes {
		if c == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, code)
}

// Code is the wire representation.
func (s Status) Code() string { return statusCodes[s] }

func (s Status) String() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return json.Marshal(s.Code())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var code string
	if err := json.Unmarshal(b, &code); err != nil {
		return err
	}
	parsed, err := ParseStatus(code)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
