package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/handler"
	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/middleware"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/visit"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/observability"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

// Pinger reports whether the upstream clinic API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Params struct {
	fx.In

	Cfg            *config.Config
	Redis          *redis.Client `optional:"true"`
	Upstream       Pinger
	SchedulingSvc  scheduling.Service
	AppointmentSvc appointment.Service
	VisitSvc       visit.Service
	PatientSvc     patient.Service
	OTel           *observability.Provider `optional:"true"`
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Every front-desk route acts on behalf of the caller's upstream token
	tokenRequired := middleware.TokenRequired()

	// 3. Initialize Handlers
	scheduleH := handler.NewScheduleHandler(r.p.SchedulingSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	visitH := handler.NewVisitHandler(r.p.VisitSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)

	api := app.Group("/api/v1", tokenRequired)

	// 4. Delegate to sub-files
	r.registerScheduleRoutes(api, scheduleH)
	r.registerAppointmentRoutes(api, appointmentH, visitH)
	r.registerPatientRoutes(api, patientH)
}

func (r *Router) ready(c fiber.Ctx) bool {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if r.p.Redis != nil && r.p.Redis.Ping(ctx).Err() != nil {
		return false
	}
	return r.p.Upstream == nil || r.p.Upstream.Ping(ctx) == nil
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: r.ready,
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.OTel != nil && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.p.OTel.MetricsHandler()))
	}
}
