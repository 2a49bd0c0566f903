package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/service/appointment"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type appointmentBody struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Patient int64  `json:"patient"`
	Notes   string `json:"notes"`
}

// request keeps wall-clock times in the server's zone. Timestamps without
// an offset are read as local.
func (b appointmentBody) request() (appointment.BookRequest, error) {
	req := appointment.BookRequest{PatientID: b.Patient, Notes: b.Notes}
	var err error
	if req.Start, err = parseTimestamp(b.Start); err != nil {
		return req, errors.New("invalid start")
	}
	if req.End, err = parseTimestamp(b.End); err != nil {
		return req, errors.New("invalid end")
	}
	return req, nil
}

// GET /appointments?from=YYYY-MM-DD&to=YYYY-MM-DD&patient=id
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	var q struct {
		From    string `query:"from"`
		To      string `query:"to"`
		Patient int64  `query:"patient"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query")
	}

	req := appointment.ListRequest{PatientID: q.Patient}
	if q.From != "" {
		t, err := parseDate(q.From)
		if err != nil {
			return badRequest(c, "invalid from")
		}
		req.From = t
	}
	if q.To != "" {
		t, err := parseDate(q.To)
		if err != nil {
			return badRequest(c, "invalid to")
		}
		req.To = t
	}

	appts, err := h.svc.List(c.Context(), req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req, err := body.request()
	if err != nil {
		return badRequest(c, err.Error())
	}

	appt, err := h.svc.Book(c.Context(), req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, appt)
}

// PUT /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req, err := body.request()
	if err != nil {
		return badRequest(c, err.Error())
	}

	appt, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, appt)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapError(c, err)
	}
	return noContent(c)
}
