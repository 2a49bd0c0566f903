package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/router"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/email"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/observability"
	redispkg "github.com/Alijeyrad/simorq_frontdesk/pkg/redis"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideClinicAPI),
	fx.Provide(ProvidePinger),
	fx.Provide(ProvideViewStore),
)

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideClinicAPI builds the one upstream client every service shares, so
// the rate limit applies process-wide.
func ProvideClinicAPI(cfg *config.Config) (*clinicapi.Client, error) {
	alerter, err := provideAlerter(cfg)
	if err != nil {
		return nil, err
	}
	return clinicapi.New(
		clinicapi.Config{
			BaseURL:   cfg.Upstream.BaseURL,
			Timeout:   cfg.Upstream.Timeout(),
			RateLimit: cfg.Upstream.RateLimit,
			Burst:     cfg.Upstream.Burst,
		},
		clinicapi.WithAlerter(alerter),
	)
}

// provideAlerter always logs. Mail and SMS channels are added when enabled.
func provideAlerter(cfg *config.Config) (clinicapi.Alerter, error) {
	alerters := clinicapi.Alerters{clinicapi.LogAlerter{Logger: slog.Default()}}
	mailCfg := email.FromCentralConfig(cfg)
	if mailCfg.Enabled {
		client, err := email.New(mailCfg)
		if err != nil {
			return nil, err
		}
		alerters = append(alerters, email.NewAlerter(client, mailCfg, slog.Default()))
	}
	if smsCfg := cfg.Alerts.SMS; smsCfg.Enabled {
		client, err := sms.NewFromConfig(smsCfg)
		if err != nil {
			return nil, err
		}
		interval := time.Duration(smsCfg.MinIntervalSeconds) * time.Second
		alerters = append(alerters, sms.NewAlerter(client, interval, slog.Default()))
	}
	return alerters, nil
}

func ProvidePinger(c *clinicapi.Client) router.Pinger {
	return c
}

func ProvideViewStore(rdb *redis.Client, cfg *config.Config) scheduling.ViewStore {
	return scheduling.NewRedisViewStore(rdb, cfg.Schedule.ViewTTL())
}
