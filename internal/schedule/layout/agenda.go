package layout

import (
	"slices"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
)

// AgendaRow is one line of the single-day table.
type AgendaRow struct {
	ID          int64              `json:"id"`
	TimeRange   string             `json:"time_range"`
	Status      appointment.Status `json:"status"`
	StatusText  string             `json:"status_text"`
	PatientName string             `json:"patient_name"`
	DOB         string             `json:"dob,omitempty"`
	Age         *int               `json:"age,omitempty"`
	Sex         string             `json:"sex,omitempty"`
	NewPatient  bool               `json:"new_patient"`
	Phone       string             `json:"phone,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

// Agenda lists appts by start time. Age is omitted when DOB is unknown.
func (e *Engine) Agenda(appts []appointment.Appointment) []AgendaRow {
	sorted := slices.Clone(appts)
	slices.SortStableFunc(sorted, func(a, b appointment.Appointment) int {
		return a.Start.Compare(b.Start)
	})

	now := e.now()
	rows := make([]AgendaRow, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, agendaRow(a, now))
	}
	return rows
}

func agendaRow(a appointment.Appointment, now time.Time) AgendaRow {
	text := a.StatusText
	if text == "" {
		text = a.Status.String()
	}
	row := AgendaRow{
		ID:          a.ID,
		TimeRange:   TimeRange(a),
		Status:      a.Status,
		StatusText:  text,
		PatientName: a.Patient.FullName(),
		DOB:         a.Patient.DOB,
		Sex:         a.Patient.Sex,
		NewPatient:  a.Patient.IsNew,
		Phone:       a.Patient.Phone,
		Notes:       a.Notes,
	}
	if age, ok := a.Patient.AgeAt(now); ok {
		row.Age = &age
	}
	return row
}
