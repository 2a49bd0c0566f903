package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/handler"
)

func (r *Router) registerScheduleRoutes(api fiber.Router, sh *handler.ScheduleHandler) {
	s := api.Group("/schedule")

	s.Get("/slots", sh.Slots)
	s.Get("/timeline", sh.Timeline)

	v := s.Group("/view")
	v.Get("/", sh.View)
	v.Post("/mode/:mode", sh.SetMode)
	v.Post("/prev", sh.Prev)
	v.Post("/next", sh.Next)
	v.Post("/refresh", sh.Refresh)
	v.Put("/anchor", sh.GoTo)
}
