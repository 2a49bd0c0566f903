package slot

import (
	"errors"
	"testing"
	"time"
)

func TestStartTimes_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	monday := time.Date(2024, 3, 4, 13, 22, 0, 0, time.Local)

	got := cfg.StartTimes(monday)
	if len(got) != 32 {
		t.Fatalf("StartTimes() len = %d, want 32", len(got))
	}

	first := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)
	last := time.Date(2024, 3, 4, 16, 45, 0, 0, time.Local)
	if !got[0].Equal(first) {
		t.Errorf("first candidate = %s, want %s", got[0], first)
	}
	if !got[len(got)-1].Equal(last) {
		t.Errorf("last candidate = %s, want %s", got[len(got)-1], last)
	}
	if got[1].Format("15:04") != "09:15" || got[2].Format("15:04") != "09:30" {
		t.Errorf("unexpected spacing: %s, %s", got[1].Format("15:04"), got[2].Format("15:04"))
	}
}

func TestGridTimes_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.GridTimes(time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local))
	if len(got) != 16 {
		t.Fatalf("GridTimes() len = %d, want 16", len(got))
	}
	if got[0].Format("15:04") != "09:00" || got[15].Format("15:04") != "16:30" {
		t.Errorf("grid bounds = %s..%s", got[0].Format("15:04"), got[15].Format("15:04"))
	}
}

func TestStartTimes_Properties(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{StartHour: 8, EndHour: 12, StepMinutes: 20},
		{StartHour: 0, EndHour: 24, StepMinutes: 60},
		{StartHour: 7, EndHour: 19, StepMinutes: 10},
	}
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, 2, 29, 23, 59, 0, 0, time.Local),
		time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC),
	}

	for _, cfg := range configs {
		for _, d := range dates {
			got := cfg.StartTimes(d)
			lo, hi := cfg.BusinessStart(d), cfg.BusinessEnd(d)
			want := int(hi.Sub(lo) / cfg.HalfStep())
			if len(got) != want {
				t.Errorf("%+v on %s: len = %d, want %d", cfg, d.Format(time.DateOnly), len(got), want)
			}
			for i, ts := range got {
				if ts.Before(lo) || !ts.Before(hi) {
					t.Errorf("%s out of [%s, %s)", ts, lo, hi)
				}
				if y, m, dd := ts.Date(); y != d.Year() || m != d.Month() || dd != d.Day() {
					t.Errorf("%s not on date %s", ts, d.Format(time.DateOnly))
				}
				if !cfg.OnGrid(ts) {
					t.Errorf("%s not aligned to half step", ts)
				}
				if i > 0 && ts.Sub(got[i-1]) != cfg.HalfStep() {
					t.Errorf("gap %s between %s and %s", ts.Sub(got[i-1]), got[i-1], ts)
				}
			}
		}
	}
}

func TestEndTimes_IncludesClose(t *testing.T) {
	cfg := DefaultConfig()
	d := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	ends := cfg.EndTimes(d)
	if len(ends) != 33 {
		t.Fatalf("EndTimes() len = %d, want 33", len(ends))
	}
	if !ends[len(ends)-1].Equal(cfg.BusinessEnd(d)) {
		t.Errorf("last end = %s, want 17:00", ends[len(ends)-1])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"start after end", Config{StartHour: 17, EndHour: 9, StepMinutes: 30}, true},
		{"equal hours", Config{StartHour: 9, EndHour: 9, StepMinutes: 30}, true},
		{"end past midnight", Config{StartHour: 9, EndHour: 25, StepMinutes: 30}, true},
		{"zero step", Config{StartHour: 9, EndHour: 17, StepMinutes: 0}, true},
		{"step not dividing hour", Config{StartHour: 9, EndHour: 17, StepMinutes: 25}, true},
		{"odd step", Config{StartHour: 9, EndHour: 17, StepMinutes: 15}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
