package sms

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/arsmn/go-smsir/smsir"
	"golang.org/x/time/rate"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

// Client pages the on-call phones via sms.ir.
type Client struct {
	send       func(ctx context.Context, req *smsir.UltraFastSendRequest) error
	enabled    bool
	templateID string
	phones     []string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSAlertConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.TemplateID == "" || len(cfg.Phones) == 0 {
		return nil, fmt.Errorf("sms alerts need a template id and at least one phone")
	}

	client := smsir.NewClient().WithAuthentication(cfg.APIKey, cfg.SecretKey)

	return &Client{
		send: func(ctx context.Context, req *smsir.UltraFastSendRequest) error {
			_, err := client.Verification.UltraFastSend(ctx, req)
			return err
		},
		enabled:    true,
		templateID: cfg.TemplateID,
		phones:     cfg.Phones,
	}, nil
}

// SendAlert texts every configured phone. The template must have "status"
// and "request" parameters.
func (c *Client) SendAlert(ctx context.Context, status int, requestID string) error {
	if !c.enabled {
		return nil
	}
	if requestID == "" {
		requestID = "-"
	}

	for _, phone := range c.phones {
		req := &smsir.UltraFastSendRequest{
			Mobile:     phone,
			TemplateID: c.templateID,
			Parameters: []smsir.UltraFastParameter{
				{Key: "status", Value: strconv.Itoa(status)},
				{Key: "request", Value: requestID},
			},
		}
		if err := c.send(ctx, req); err != nil {
			return fmt.Errorf("sms.ir send to %s failed: %w", phone, err)
		}
	}
	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Alerter pages on server-side failures only (5xx or no response). Pages
// are throttled to one per interval.
type Alerter struct {
	client  *Client
	limiter *rate.Limiter
	timeout time.Duration
	log     *slog.Logger
}

func NewAlerter(c *Client, interval time.Duration, log *slog.Logger) *Alerter {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Alerter{client: c, limiter: rate.NewLimiter(rate.Every(interval), 1), timeout: 10 * time.Second, log: log}
}

func (a *Alerter) Alert(ctx context.Context, _ string, status int) {
	if status != 0 && status < 500 {
		return
	}
	if !a.limiter.Allow() {
		return
	}
	requestID := reqctx.RequestIDFromContext(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.client.SendAlert(sendCtx, status, requestID); err != nil {
			a.log.WarnContext(sendCtx, "alert sms failed", "error", err)
		}
	}()
}
