package email

import (
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/config"
)

// Config holds email service configuration
type Config struct {
	Enabled bool
	From    string
	To      []string

	// SMTP settings
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// MinInterval is the least time between two alert mails.
	MinInterval time.Duration

	AppName string
}

// DefaultConfig returns sensible defaults for email configuration
func DefaultConfig() Config {
	return Config{
		Enabled:            false,
		SMTPPort:           587,
		SMTPUseTLS:         true,
		SMTPTimeoutSeconds: 30,
		MinInterval:        5 * time.Minute,
		AppName:            "frontdesk",
	}
}

// SMTPTimeout returns the SMTP timeout as a duration
func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// FromCentralConfig converts the central alert mail settings to package Config
func FromCentralConfig(c *config.Config) Config {
	e := c.Alerts.Email
	cfg := DefaultConfig()
	cfg.Enabled = e.Enabled
	cfg.From = e.From
	cfg.To = e.To
	cfg.SMTPHost = e.SMTP.Host
	if e.SMTP.Port > 0 {
		cfg.SMTPPort = e.SMTP.Port
	}
	cfg.SMTPUsername = e.SMTP.Username
	cfg.SMTPPassword = e.SMTP.Password
	cfg.SMTPUseTLS = e.SMTP.UseTLS
	cfg.SMTPTimeoutSeconds = e.SMTP.TimeoutSeconds
	if e.MinIntervalSeconds > 0 {
		cfg.MinInterval = time.Duration(e.MinIntervalSeconds) * time.Second
	}
	if c.Observability.ServiceName != "" {
		cfg.AppName = c.Observability.ServiceName
	}
	return cfg
}
