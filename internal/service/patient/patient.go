package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/debounce"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Upstream is the slice of the clinic API this service needs.
type Upstream interface {
	SearchPatients(ctx context.Context, search string) ([]appointment.Patient, error)
	GetPatient(ctx context.Context, id int64) (appointment.Patient, error)
}

type Service interface {
	// Search normalises date fragments before querying the upstream.
	Search(ctx context.Context, text string) ([]appointment.Patient, error)
	GetByID(ctx context.Context, id int64) (appointment.Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	api Upstream
}

func New(api Upstream) Service {
	return &patientService{api: api}
}

func (s *patientService) Search(ctx context.Context, text string) ([]appointment.Patient, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySearch
	}
	patients, err := s.api.SearchPatients(ctx, NormalizeDateTerms(text))
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

func (s *patientService) GetByID(ctx context.Context, id int64) (appointment.Patient, error) {
	p, err := s.api.GetPatient(ctx, id)
	if err != nil {
		if clinicapi.IsNotFound(err) {
			return p, ErrPatientNotFound
		}
		return p, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Live search
// ---------------------------------------------------------------------------

// DefaultSearchDelay is how long input must be idle before searching.
const DefaultSearchDelay = 500 * time.Millisecond

// SearchResult is delivered once per settled query.
type SearchResult struct {
	Query    string
	Patients []appointment.Patient
	Err      error
}

// LiveSearch runs a search for the latest input only, after it has been
// idle for the configured delay. Each search box owns its own LiveSearch.
type LiveSearch struct {
	svc      Service
	deb      *debounce.Debouncer
	onResult func(SearchResult)
}

func NewLiveSearch(ctx context.Context, svc Service, delay time.Duration, onResult func(SearchResult)) *LiveSearch {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &LiveSearch{svc: svc, deb: debounce.New(ctx, delay), onResult: onResult}
}

// Input records new text. Blank input cancels any pending search.
func (l *LiveSearch) Input(text string) {
	if strings.TrimSpace(text) == "" {
		l.deb.Stop()
		return
	}
	l.deb.Trigger(func(ctx context.Context) {
		patients, err := l.svc.Search(ctx, text)
		if ctx.Err() != nil {
			return
		}
		l.onResult(SearchResult{Query: text, Patients: patients, Err: err})
	})
}

func (l *LiveSearch) Close() { l.deb.Stop() }
