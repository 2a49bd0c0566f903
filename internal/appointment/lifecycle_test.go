package appointment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"scheduled to checked in", StatusScheduled, StatusCheckedIn, false},
		{"checked in to done", StatusCheckedIn, StatusDone, false},
		{"scheduled straight to done", StatusScheduled, StatusDone, true},
		{"checked in back to scheduled", StatusCheckedIn, StatusScheduled, true},
		{"done to checked in", StatusDone, StatusCheckedIn, true},
		{"done to scheduled", StatusDone, StatusScheduled, true},
		{"done to done", StatusDone, StatusDone, true},
		{"scheduled to scheduled", StatusScheduled, StatusScheduled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition(%s, %s) error = %v, want ErrInvalidTransition", tt.from, tt.to, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Transition(%s, %s) unexpected error: %v", tt.from, tt.to, err)
			}
		})
	}
}

func TestDoneIsTerminal(t *testing.T) {
	if !IsTerminal(StatusDone) {
		t.Fatal("Done should be terminal")
	}
	for _, to := range []Status{StatusScheduled, StatusCheckedIn, StatusDone} {
		if err := Transition(StatusDone, to); err == nil {
			t.Errorf("Done -> %s accepted", to)
		}
	}
}

func TestStartAction(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		isNew  bool
		want   Action
	}{
		{"scheduled returning patient", StatusScheduled, false, ActionCheckIn},
		{"scheduled new patient", StatusScheduled, true, ActionIntake},
		{"checked in resumes", StatusCheckedIn, false, ActionResume},
		{"checked in new patient resumes", StatusCheckedIn, true, ActionResume},
		{"done is a no-op", StatusDone, false, ActionNone},
		{"done new patient is a no-op", StatusDone, true, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Appointment{Status: tt.status, Patient: Patient{IsNew: tt.isNew}}
			if got := StartAction(a); got != tt.want {
				t.Errorf("StartAction() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(StatusScheduled) || !CanEdit(StatusCheckedIn) {
		t.Error("non-done appointments should be editable")
	}
	if CanEdit(StatusDone) {
		t.Error("done appointments should not be editable")
	}
	if !CanDelete(StatusDone) {
		t.Error("deletion is allowed at any status")
	}
}

func TestButtonLabel(t *testing.T) {
	if got := ButtonLabel(StatusScheduled); got != "Start" {
		t.Errorf("ButtonLabel(Scheduled) = %q", got)
	}
	if got := ButtonLabel(StatusCheckedIn); got != "Resume" {
		t.Errorf("ButtonLabel(CheckedIn) = %q", got)
	}
	if got := ButtonLabel(StatusDone); got != "" {
		t.Errorf("ButtonLabel(Done) = %q", got)
	}
}

func TestStatusJSON(t *testing.T) {
	var a Appointment
	raw := `{"id":7,"status":"CI","status_text":"Checked In","patient":{"id":3,"first_name":"Ada","last_name":"Byron","is_new":true},"start":"2024-03-04T10:00:00Z","end":"2024-03-04T10:30:00Z","notes":"x"}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a.Status != StatusCheckedIn {
		t.Errorf("Status = %s, want CheckedIn", a.Status)
	}
	if !a.IsNewPatient() || a.IsDone() {
		t.Errorf("flags: new=%v done=%v", a.IsNewPatient(), a.IsDone())
	}

	out, err := json.Marshal(StatusDone)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `"DO"` {
		t.Errorf("Marshal(Done) = %s", out)
	}

	var s Status
	if err := json.Unmarshal([]byte(`"XX"`), &s); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("Unmarshal(XX) error = %v, want ErrUnknownStatus", err)
	}
}

func TestValidate(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
	ok := Appointment{Start: start, End: start.Add(30 * time.Minute)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	bad := Appointment{Start: start, End: start}
	if !errors.Is(bad.Validate(), ErrInvalidRange) {
		t.Error("zero-length appointment accepted")
	}
}

func TestAgeAt(t *testing.T) {
	p := Patient{DOB: "1990-06-15"}
	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.Local), 33},
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), 34},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local), 34},
	}
	for _, tt := range tests {
		got, ok := p.AgeAt(tt.now)
		if !ok || got != tt.want {
			t.Errorf("AgeAt(%s) = %d,%v want %d", tt.now.Format(time.DateOnly), got, ok, tt.want)
		}
	}
	if _, ok := (Patient{}).AgeAt(time.Now()); ok {
		t.Error("AgeAt without DOB should report !ok")
	}
}
