package clinicapi

import (
	"context"
	"log/slog"
)

// Alerter surfaces failures the caller cannot recover from to an operator.
type Alerter interface {
	Alert(ctx context.Context, message string, status int)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(ctx context.Context, message string, status int)

func (f AlerterFunc) Alert(ctx context.Context, message string, status int) { f(ctx, message, status) }

// LogAlerter reports alerts at error level. The request id comes from the
// context through the logger's handler.
type LogAlerter struct {
	Logger *slog.Logger
}

func (a LogAlerter) Alert(ctx context.Context, message string, status int) {
	l := a.Logger
	if l == nil {
		l = slog.Default()
	}
	l.ErrorContext(ctx, "upstream alert",
		"message", message,
		"status", status,
	)
}

// Alerters fans one alert out to several channels.
type Alerters []Alerter

func (as Alerters) Alert(ctx context.Context, message string, status int) {
	for _, a := range as {
		a.Alert(ctx, message, status)
	}
}
