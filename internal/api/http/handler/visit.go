package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/service/visit"
)

type VisitHandler struct {
	svc visit.Service
}

func NewVisitHandler(svc visit.Service) *VisitHandler {
	return &VisitHandler{svc: svc}
}

// POST /appointments/:id/start
func (h *VisitHandler) Start(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	out, err := h.svc.Start(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, out)
}

// POST /appointments/:id/intake
//
// The body is the subset of patient fields the intake form collected.
func (h *VisitHandler) Intake(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var fields map[string]any
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&fields); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	out, err := h.svc.CompleteIntake(c.Context(), id, fields)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, out)
}

// POST /appointments/:id/finish
func (h *VisitHandler) Finish(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.Finish(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, appt)
}
