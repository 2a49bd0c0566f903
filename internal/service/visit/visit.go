// Package visit drives an appointment through the front-desk visit: intake
// for new patients, check-in, and finishing with a progress note.
package visit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Step is the screen the caller should show next.
type Step string

const (
	StepNone         Step = "none"
	StepIntake       Step = "intake"
	StepProgressNote Step = "progress_note"
)

type Outcome struct {
	Step        Step                    `json:"step"`
	Appointment appointment.Appointment `json:"appointment"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Upstream is the slice of the clinic API this service needs.
type Upstream interface {
	GetAppointment(ctx context.Context, id int64) (appointment.Appointment, error)
	SetStatus(ctx context.Context, id int64, s appointment.Status) error
	PatchPatient(ctx context.Context, id int64, fields map[string]any) (clinicapi.Result, error)
	MarkReturning(ctx context.Context, id int64) error
}

type Service interface {
	// Start handles the Start/Resume button.
	Start(ctx context.Context, id int64) (Outcome, error)
	// CompleteIntake saves the new-patient form and then checks in.
	CompleteIntake(ctx context.Context, id int64, patientFields map[string]any) (Outcome, error)
	// Finish marks the visit done and the patient as returning.
	Finish(ctx context.Context, id int64) (appointment.Appointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type visitService struct {
	api Upstream
	log *slog.Logger
}

func New(api Upstream, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &visitService{api: api, log: log}
}

func (s *visitService) get(ctx context.Context, id int64) (appointment.Appointment, error) {
	a, err := s.api.GetAppointment(ctx, id)
	if err != nil {
		if clinicapi.IsNotFound(err) {
			return a, ErrNotFound
		}
		return a, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *visitService) Start(ctx context.Context, id int64) (Outcome, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}

	switch appointment.StartAction(a) {
	case appointment.ActionIntake:
		return Outcome{Step: StepIntake, Appointment: a}, nil
	case appointment.ActionCheckIn:
		return s.checkIn(ctx, a)
	case appointment.ActionResume:
		return Outcome{Step: StepProgressNote, Appointment: a}, nil
	default:
		return Outcome{Step: StepNone, Appointment: a}, nil
	}
}

func (s *visitService) CompleteIntake(ctx context.Context, id int64, patientFields map[string]any) (Outcome, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if a.Status != appointment.StatusScheduled {
		return Outcome{}, ErrNotScheduled
	}
	if len(patientFields) > 0 {
		if _, err := s.api.PatchPatient(ctx, a.Patient.ID, patientFields); err != nil {
			return Outcome{}, fmt.Errorf("save intake: %w", err)
		}
	}
	return s.checkIn(ctx, a)
}

func (s *visitService) checkIn(ctx context.Context, a appointment.Appointment) (Outcome, error) {
	if err := appointment.Transition(a.Status, appointment.StatusCheckedIn); err != nil {
		return Outcome{}, err
	}
	if err := s.api.SetStatus(ctx, a.ID, appointment.StatusCheckedIn); err != nil {
		return Outcome{}, fmt.Errorf("check in: %w", err)
	}
	s.log.InfoContext(ctx, "appointment checked in", "appointment_id", a.ID, "patient_id", a.Patient.ID)

	fresh, err := s.get(ctx, a.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Step: StepProgressNote, Appointment: fresh}, nil
}

func (s *visitService) Finish(ctx context.Context, id int64) (appointment.Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return a, err
	}
	if err := appointment.Transition(a.Status, appointment.StatusDone); err != nil {
		return a, err
	}
	if err := s.api.SetStatus(ctx, a.ID, appointment.StatusDone); err != nil {
		return a, fmt.Errorf("finish visit: %w", err)
	}
	if err := s.api.MarkReturning(ctx, a.Patient.ID); err != nil {
		return a, fmt.Errorf("mark patient returning: %w", err)
	}
	s.log.InfoContext(ctx, "visit finished", "appointment_id", a.ID, "patient_id", a.Patient.ID)
	return s.get(ctx, a.ID)
}
