package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler, vh *handler.VisitHandler) {
	appts := api.Group("/appointments")

	appts.Get("/", ah.List)
	appts.Post("/", ah.Book)

	a := appts.Group("/:id")
	a.Get("/", ah.GetByID)
	a.Put("/", ah.Update)
	a.Delete("/", ah.Delete)

	a.Post("/start", vh.Start)
	a.Post("/intake", vh.Intake)
	a.Post("/finish", vh.Finish)
}
