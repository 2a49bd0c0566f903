package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// GET /patients?search=
func (h *PatientHandler) Search(c fiber.Ctx) error {
	patients, err := h.svc.Search(c.Context(), c.Query("search"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, patients)
}

// GET /patients/:id
func (h *PatientHandler) GetByID(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid patient id")
	}

	p, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, p)
}
