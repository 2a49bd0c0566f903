package appointment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func withLocal(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("zone %s unavailable: %v", name, err)
	}
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
	return loc
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-04T15:00:00Z", time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
		{"2024-03-04T18:30:00+03:30", time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
		{"2024-03-04T10:00:00", time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
		{"2024-03-04T10:00:00.250", time.Date(2024, 3, 4, 10, 0, 0, 250e6, loc)},
		{"2024-03-04T10:00", time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
		{"2024-03-04 10:00:00", time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in, loc)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) || got.Hour() != 10 || got.Location() != loc {
			t.Errorf("ParseTime(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseTime("monday", loc); !errors.Is(err, ErrBadTimestamp) {
		t.Errorf("ParseTime(monday) err = %v", err)
	}
}

func TestAppointmentDecodesToLocalClock(t *testing.T) {
	loc := withLocal(t, "America/New_York")

	var a Appointment
	body := `{"id":7,"status":"SC","patient":{"id":1,"first_name":"Ada"},"start":"2024-03-04T15:00:00Z","end":"2024-03-04T10:30:00","notes":"x"}`
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		t.Fatal(err)
	}
	if a.ID != 7 || a.Status != StatusScheduled || a.Patient.FirstName != "Ada" || a.Notes != "x" {
		t.Errorf("fields lost: %+v", a)
	}
	if a.Start.Location() != loc || a.Start.Hour() != 10 || a.Start.Minute() != 0 {
		t.Errorf("start = %s, want 10:00 local", a.Start)
	}
	if a.End.Hour() != 10 || a.End.Minute() != 30 || a.Duration() != 30*time.Minute {
		t.Errorf("end = %s, want 10:30 local", a.End)
	}

	if err := json.Unmarshal([]byte(`{"start":"tomorrow"}`), &a); !errors.Is(err, ErrBadTimestamp) {
		t.Errorf("bad start err = %v", err)
	}
}

func TestAppointmentRoundTripKeepsInstant(t *testing.T) {
	withLocal(t, "Asia/Tehran")

	in := Appointment{ID: 1, Status: StatusDone, Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	in.End = in.Start.Add(time.Hour)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Appointment
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Start.Equal(in.Start) || out.Start.Location() != time.Local || out.Start.Hour() != 12 {
		t.Errorf("start = %s", out.Start)
	}
}
