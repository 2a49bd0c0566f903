package app

import (
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/visit"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideSchedulingService,
		ProvideAppointmentService,
		ProvideVisitService,
		ProvidePatientService,
	),
)

func ProvideSchedulingService(client *clinicapi.Client, store scheduling.ViewStore, cfg *config.Config) (scheduling.Service, error) {
	return scheduling.New(client, store, scheduling.Config{
		Slots:       cfg.Schedule.Slots(),
		Layout:      cfg.Schedule.Layout(),
		DisablePast: cfg.Schedule.DisablePast,
		MaxSessions: cfg.Schedule.MaxSessions,
	}, time.Now, slog.Default())
}

func ProvideAppointmentService(client *clinicapi.Client) appointment.Service {
	return appointment.New(client)
}

func ProvideVisitService(client *clinicapi.Client) visit.Service {
	return visit.New(client, slog.Default())
}

func ProvidePatientService(client *clinicapi.Client) patient.Service {
	return patient.New(client)
}
