package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/availability"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// ListRequest selects appointments whose start falls on From..To inclusive.
type ListRequest struct {
	From      time.Time
	To        time.Time
	PatientID int64
}

type BookRequest struct {
	Start     time.Time
	End       time.Time
	PatientID int64
	Notes     string
}

func (r BookRequest) body() appointment.WriteBody {
	return appointment.WriteBody{Start: r.Start, End: r.End, Patient: r.PatientID, Notes: r.Notes}
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Upstream is the slice of the clinic API this service needs.
type Upstream interface {
	ListAppointments(ctx context.Context, q clinicapi.ListQuery) (clinicapi.Page[appointment.Appointment], error)
	GetAppointment(ctx context.Context, id int64) (appointment.Appointment, error)
	CreateAppointment(ctx context.Context, body appointment.WriteBody) (appointment.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, body appointment.WriteBody) (appointment.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]appointment.Appointment, error)
	GetByID(ctx context.Context, id int64) (appointment.Appointment, error)
	Book(ctx context.Context, req BookRequest) (appointment.Appointment, error)
	Update(ctx context.Context, id int64, req BookRequest) (appointment.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	api Upstream
}

func New(api Upstream) Service {
	return &appointmentService{api: api}
}

func (s *appointmentService) List(ctx context.Context, req ListRequest) ([]appointment.Appointment, error) {
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, appointment.ErrInvalidRange
	}
	page, err := s.api.ListAppointments(ctx, clinicapi.ListQuery{
		From:     req.From,
		To:       req.To,
		Patient:  req.PatientID,
		Ordering: "start",
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return page.Results, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id int64) (appointment.Appointment, error) {
	a, err := s.api.GetAppointment(ctx, id)
	if err != nil {
		if clinicapi.IsNotFound(err) {
			return a, ErrNotFound
		}
		return a, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (appointment.Appointment, error) {
	if err := s.validate(ctx, req, 0); err != nil {
		return appointment.Appointment{}, err
	}
	created, err := s.api.CreateAppointment(ctx, req.body())
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return s.GetByID(ctx, created.ID)
}

func (s *appointmentService) Update(ctx context.Context, id int64, req BookRequest) (appointment.Appointment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return current, err
	}
	if !appointment.CanEdit(current.Status) {
		return current, appointment.ErrNotEditable
	}
	if err := s.validate(ctx, req, id); err != nil {
		return current, err
	}
	if _, err := s.api.UpdateAppointment(ctx, id, req.body()); err != nil {
		return current, fmt.Errorf("update appointment: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *appointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		if clinicapi.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// validate runs the local checks the booking form would have enforced. The
// overlap check is advisory; the upstream still decides.
func (s *appointmentService) validate(ctx context.Context, req BookRequest, excludeID int64) error {
	if req.PatientID == 0 {
		return ErrPatientRequired
	}
	if err := req.body().Validate(); err != nil {
		return err
	}
	day := slot.DayStart(req.Start)
	page, err := s.api.ListAppointments(ctx, clinicapi.ListQuery{From: day, To: day})
	if err != nil {
		return fmt.Errorf("load day for conflict check: %w", err)
	}
	checker := availability.New(page.Results, availability.WithExclude(excludeID))
	if !checker.IsFree(req.Start, req.End) {
		return ErrSlotNotAvailable
	}
	return nil
}
