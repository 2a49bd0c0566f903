package appointment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRange = errors.New("appointment end must be after start")
	ErrNotEditable  = errors.New("appointment is done and can no longer be edited")
)

// Patient is the subset of the patient record the scheduler needs.
type Patient struct {
	ID                int64  `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	DOB               string `json:"dob,omitempty"` // yyyy-mm-dd
	Sex               string `json:"sex,omitempty"`
	IsNew             bool   `json:"is_new"`
	InsuranceMemberID string `json:"insurance_member_id,omitempty"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Birthday parses DOB. ok is false when DOB is empty or malformed.
func (p Patient) Birthday() (time.Time, bool) {
	if p.DOB == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(time.DateOnly, p.DOB, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeAt returns whole years between DOB and now.
func (p Patient) AgeAt(now time.Time) (int, bool) {
	dob, ok := p.Birthday()
	if !ok {
		return 0, false
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

// Appointment mirrors the upstream appointment resource. Start and End are
// local wall-clock times once decoded.
type Appointment struct {
	ID         int64     `json:"id"`
	Status     Status    `json:"status"`
	StatusText string    `json:"status_text,omitempty"`
	Patient    Patient   `json:"patient"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes"`
}

func (a Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

func (a Appointment) Validate() error {
	if !a.Start.Before(a.End) {
		return ErrInvalidRange
	}
	return nil
}

// IsNewPatient and IsDone are the two flags the timeline styles on.
func (a Appointment) IsNewPatient() bool { return a.Patient.IsNew }
func (a Appointment) IsDone() bool       { return a.Status == StatusDone }

// WriteBody is the create/update payload. The upstream expects the patient
// id rather than the nested record.
type WriteBody struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Patient int64     `json:"patient"`
	Notes   string    `json:"notes"`
}

func (b WriteBody) Validate() error {
	if !b.Start.Before(b.End) {
		return ErrInvalidRange
	}
	return nil
}
