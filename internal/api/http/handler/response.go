package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
	apptsvc "github.com/Alijeyrad/simorq_frontdesk/internal/service/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/visit"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func invalidFields(c fiber.Ctx, msg string, fields map[string]string) error {
	body := fiber.Map{"error": msg}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func badGateway(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// mapError turns service and upstream errors into responses. Domain
// sentinels are checked before the upstream taxonomy because services wrap
// the latter.
func mapError(c fiber.Ctx, err error) error {
	var (
		ve *clinicapi.ValidationError
		nf *clinicapi.NotFoundError
		ae *clinicapi.AuthError
		te *clinicapi.TransientError
	)

	switch {
	case errors.Is(err, appointment.ErrInvalidTransition),
		errors.Is(err, appointment.ErrNotEditable),
		errors.Is(err, apptsvc.ErrSlotNotAvailable),
		errors.Is(err, visit.ErrNotScheduled):
		return conflict(c, err.Error())

	case errors.Is(err, view.ErrUnknownMode),
		errors.Is(err, appointment.ErrInvalidRange),
		errors.Is(err, appointment.ErrUnknownStatus),
		errors.Is(err, apptsvc.ErrPatientRequired),
		errors.Is(err, scheduling.ErrInvalidDate),
		errors.Is(err, scheduling.ErrStartNotOnGrid),
		errors.Is(err, patient.ErrEmptySearch):
		return badRequest(c, err.Error())

	case errors.Is(err, apptsvc.ErrNotFound),
		errors.Is(err, visit.ErrNotFound),
		errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())

	case errors.Is(err, scheduling.ErrNoSession),
		errors.Is(err, clinicapi.ErrNoToken):
		return unauthorized(c)

	case errors.As(err, &ve):
		msg := ve.Message
		if msg == "" {
			msg = "validation failed"
		}
		return invalidFields(c, msg, ve.Fields)

	case errors.As(err, &nf):
		return notFound(c, "not found")

	case errors.As(err, &ae):
		return unauthorized(c)

	case errors.As(err, &te):
		return badGateway(c, "clinic service unavailable")

	default:
		slog.ErrorContext(c.Context(), "unhandled error", "error", err, "path", c.Path())
		return internalError(c)
	}
}

func paramID(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}

// parseDate reads YYYY-MM-DD as a local calendar day.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}

// parseTimestamp leaves an absent value zero for the service to reject.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return appointment.ParseTime(s, time.Local)
}

// parseClock places an HH:MM time of day on date.
func parseClock(date time.Time, s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
