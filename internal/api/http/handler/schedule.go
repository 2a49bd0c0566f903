package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

type ScheduleHandler struct {
	svc scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// GET /schedule/slots?date=YYYY-MM-DD&exclude=id&start=HH:MM
func (h *ScheduleHandler) Slots(c fiber.Ctx) error {
	var q struct {
		Date    string `query:"date"`
		Exclude string `query:"exclude"`
		Start   string `query:"start"`
	}
	_ = c.Bind().Query(&q)

	if q.Date == "" {
		return badRequest(c, "date is required")
	}
	date, err := parseDate(q.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	req := scheduling.SlotsRequest{Date: date}
	if q.Exclude != "" {
		id, err := strconv.ParseInt(q.Exclude, 10, 64)
		if err != nil {
			return badRequest(c, "invalid exclude")
		}
		req.ExcludeID = id
	}
	if q.Start != "" {
		start, err := parseClock(date, q.Start)
		if err != nil {
			return badRequest(c, "invalid start")
		}
		req.Start = start
	}

	opts, err := h.svc.Slots(c.Context(), req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, opts)
}

// GET /schedule/timeline?mode=today|week&anchor=YYYY-MM-DD
func (h *ScheduleHandler) Timeline(c fiber.Ctx) error {
	var q struct {
		Mode   string `query:"mode"`
		Anchor string `query:"anchor"`
	}
	_ = c.Bind().Query(&q)

	mode := view.ModeWeek
	if q.Mode != "" {
		m, err := view.ParseMode(q.Mode)
		if err != nil {
			return badRequest(c, err.Error())
		}
		mode = m
	}

	var anchor time.Time
	if q.Anchor != "" {
		a, err := parseDate(q.Anchor)
		if err != nil {
			return badRequest(c, "invalid anchor")
		}
		anchor = a
	}

	tl, err := h.svc.Timeline(c.Context(), mode, anchor)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, tl)
}

func sessionKey(c fiber.Ctx) string {
	if s, ok := reqctx.SessionFromContext(c.Context()); ok {
		return s.Key
	}
	return ""
}

// GET /schedule/view
func (h *ScheduleHandler) View(c fiber.Ctx) error {
	tl, err := h.svc.View(c.Context(), sessionKey(c))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, tl)
}

func (h *ScheduleHandler) navigate(c fiber.Ctx, nav scheduling.Navigation) error {
	tl, err := h.svc.Navigate(c.Context(), sessionKey(c), nav)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, tl)
}

// POST /schedule/view/mode/:mode
func (h *ScheduleHandler) SetMode(c fiber.Ctx) error {
	m, err := view.ParseMode(c.Params("mode"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.navigate(c, scheduling.SetMode(m))
}

// POST /schedule/view/prev
func (h *ScheduleHandler) Prev(c fiber.Ctx) error {
	return h.navigate(c, scheduling.Prev())
}

// POST /schedule/view/next
func (h *ScheduleHandler) Next(c fiber.Ctx) error {
	return h.navigate(c, scheduling.Next())
}

// POST /schedule/view/refresh
func (h *ScheduleHandler) Refresh(c fiber.Ctx) error {
	return h.navigate(c, scheduling.Refresh())
}

// PUT /schedule/view/anchor
func (h *ScheduleHandler) GoTo(c fiber.Ctx) error {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}
	return h.navigate(c, scheduling.GoTo(date))
}
