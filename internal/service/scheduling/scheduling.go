package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/availability"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/index"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/layout"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Config struct {
	Slots       slot.Config
	Layout      layout.Config
	DisablePast bool

	// MaxSessions bounds the in-process controller cache. Evicted sessions
	// are restored from the ViewStore on next use.
	MaxSessions int
}

// SlotsRequest asks for booking-form options on Date. ExcludeID is the
// appointment being edited. Start, when set, drives the end options.
type SlotsRequest struct {
	Date      time.Time
	ExcludeID int64
	Start     time.Time
}

type SlotOptions struct {
	Date         time.Time               `json:"date"`
	StartOptions []availability.Option   `json:"start_options"`
	EndOptions   []availability.Option   `json:"end_options"`
	Blocked      []availability.Interval `json:"blocked"`
}

// Timeline is a rendered range. Agenda is only filled in today mode.
type Timeline struct {
	Mode      view.Mode          `json:"mode"`
	Range     view.Range         `json:"range"`
	Title     string             `json:"title"`
	Subtitle  string             `json:"subtitle"`
	ModeLabel string             `json:"mode_label"`
	Loading   bool               `json:"loading"`
	Stale     bool               `json:"stale,omitempty"`
	Grid      layout.Grid        `json:"grid"`
	Agenda    []layout.AgendaRow `json:"agenda,omitempty"`
	Count     int                `json:"count"`
}

// Navigation mutates a controller and returns the ticket for the fetch it
// requires.
type Navigation func(c *view.Controller) (view.Ticket, error)

func SetMode(m view.Mode) Navigation {
	return func(c *view.Controller) (view.Ticket, error) { return c.SetMode(m) }
}

func Prev() Navigation {
	return func(c *view.Controller) (view.Ticket, error) { return c.Prev(), nil }
}

func Next() Navigation {
	return func(c *view.Controller) (view.Ticket, error) { return c.Next(), nil }
}

func GoTo(date time.Time) Navigation {
	return func(c *view.Controller) (view.Ticket, error) { return c.GoTo(date), nil }
}

func Refresh() Navigation {
	return func(c *view.Controller) (view.Ticket, error) { return c.Refresh(), nil }
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Upstream is the slice of the clinic API this service needs.
type Upstream interface {
	ListAppointments(ctx context.Context, q clinicapi.ListQuery) (clinicapi.Page[appointment.Appointment], error)
}

type Service interface {
	Slots(ctx context.Context, req SlotsRequest) (SlotOptions, error)
	// Timeline renders a range without touching session state.
	Timeline(ctx context.Context, mode view.Mode, anchor time.Time) (Timeline, error)
	// View renders the session's current range, fetching if needed.
	View(ctx context.Context, session string) (Timeline, error)
	Navigate(ctx context.Context, session string, nav Navigation) (Timeline, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type schedulingService struct {
	api    Upstream
	store  ViewStore
	cfg    Config
	engine *layout.Engine
	now    func() time.Time
	log    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*view.Controller
}

// New builds the service. store may be nil, in which case view state lives
// only in process memory.
func New(api Upstream, store ViewStore, cfg Config, now func() time.Time, log *slog.Logger) (Service, error) {
	if err := cfg.Slots.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1024
	}
	return &schedulingService{
		api:      api,
		store:    store,
		cfg:      cfg,
		engine:   layout.New(cfg.Layout, cfg.Slots, now),
		now:      now,
		log:      log,
		sessions: make(map[string]*view.Controller),
	}, nil
}

func (s *schedulingService) fetch(ctx context.Context, r view.Range) ([]appointment.Appointment, error) {
	page, err := s.api.ListAppointments(ctx, clinicapi.ListQuery{From: r.Start, To: r.End, Ordering: "start"})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return page.Results, nil
}

func (s *schedulingService) Slots(ctx context.Context, req SlotsRequest) (SlotOptions, error) {
	if req.Date.IsZero() {
		return SlotOptions{}, ErrInvalidDate
	}
	day := slot.DayStart(req.Date)
	if !req.Start.IsZero() && !s.cfg.Slots.OnGrid(req.Start) {
		return SlotOptions{}, ErrStartNotOnGrid
	}

	appts, err := s.fetch(ctx, view.Range{Start: day, End: day})
	if err != nil {
		return SlotOptions{}, err
	}

	opts := []availability.Opt{availability.WithExclude(req.ExcludeID)}
	if s.cfg.DisablePast {
		opts = append(opts, availability.WithDisablePast(s.now))
	}
	checker := availability.New(appts, opts...)

	return SlotOptions{
		Date:         day,
		StartOptions: checker.StartOptions(s.cfg.Slots.StartTimes(day)),
		EndOptions:   checker.EndOptions(s.cfg.Slots.EndTimes(day), req.Start),
		Blocked:      checker.Blocked(),
	}, nil
}

func (s *schedulingService) Timeline(ctx context.Context, mode view.Mode, anchor time.Time) (Timeline, error) {
	if _, err := view.ParseMode(string(mode)); err != nil {
		return Timeline{}, err
	}
	if anchor.IsZero() {
		anchor = s.now()
	}
	r := view.RangeFor(anchor, mode)
	appts, err := s.fetch(ctx, r)
	if err != nil {
		return Timeline{}, err
	}
	tl := s.render(mode, r, appts)
	tl.ModeLabel = modeLabel(mode, r.Start, s.now())
	return tl, nil
}

func (s *schedulingService) View(ctx context.Context, session string) (Timeline, error) {
	c, err := s.controller(ctx, session)
	if err != nil {
		return Timeline{}, err
	}
	if c.Loading() {
		return s.Navigate(ctx, session, Refresh())
	}
	return s.renderController(c, false), nil
}

func (s *schedulingService) Navigate(ctx context.Context, session string, nav Navigation) (Timeline, error) {
	c, err := s.controller(ctx, session)
	if err != nil {
		return Timeline{}, err
	}
	ticket, err := nav(c)
	if err != nil {
		return Timeline{}, err
	}
	s.persist(ctx, session, c)

	appts, err := s.fetch(ctx, ticket.Range)
	if err != nil {
		c.Fail(ticket)
		return Timeline{}, err
	}
	if !c.Resolve(ticket, appts) {
		s.log.DebugContext(ctx, "discarded stale timeline response", "gen", ticket.Gen)
		return s.renderController(c, true), nil
	}
	s.persist(ctx, session, c)
	return s.renderController(c, false), nil
}

// controller returns the cached controller for session, restoring it from
// the store on first use.
func (s *schedulingService) controller(ctx context.Context, session string) (*view.Controller, error) {
	if session == "" {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.sessions[session]; ok {
		return c, nil
	}

	c := view.New(s.now)
	if s.store != nil {
		st, ok, err := s.store.Load(ctx, session)
		if err != nil {
			s.log.WarnContext(ctx, "view state unavailable, starting fresh", "error", err)
		} else if ok {
			c = view.Restore(st, s.now)
		}
	}

	if len(s.sessions) >= s.cfg.MaxSessions {
		for k := range s.sessions {
			delete(s.sessions, k)
			break
		}
	}
	s.sessions[session] = c
	return c, nil
}

func (s *schedulingService) persist(ctx context.Context, session string, c *view.Controller) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, session, c.Snapshot()); err != nil {
		s.log.WarnContext(ctx, "failed to persist view state", "error", err)
	}
}

func (s *schedulingService) renderController(c *view.Controller, stale bool) Timeline {
	st := c.Snapshot()
	r := view.RangeFor(st.Anchor, st.Mode)
	appts := st.Appointments
	if st.Loading {
		// Held appointments belong to an older range until the fetch resolves.
		appts = nil
	}
	tl := s.render(st.Mode, r, appts)
	tl.Loading = st.Loading
	tl.Stale = stale
	tl.ModeLabel = "Today"
	if c.IsTodayViewOnOtherDay() {
		tl.ModeLabel = "Day"
	}
	return tl
}

func (s *schedulingService) render(mode view.Mode, r view.Range, appts []appointment.Appointment) Timeline {
	idx := index.Build(appts)
	tl := Timeline{
		Mode:     mode,
		Range:    r,
		Title:    r.Title(),
		Subtitle: r.Subtitle(),
		Grid:     s.engine.Week(r.Start, r.Days(), idx),
		Count:    len(appts),
	}
	if mode == view.ModeToday {
		tl.Agenda = s.engine.Agenda(idx.Day(r.Start))
	}
	return tl
}

func modeLabel(mode view.Mode, anchor, now time.Time) string {
	if mode == view.ModeToday && !slot.DayStart(now).Equal(slot.DayStart(anchor)) {
		return "Day"
	}
	return "Today"
}
