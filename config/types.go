package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/layout"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Upstream      UpstreamConfig      `mapstructure:"upstream"`
	Schedule      ScheduleConfig      `mapstructure:"schedule"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Alerts        AlertsConfig        `mapstructure:"alerts"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig bounds requests per client IP on the HTTP surface.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Max           int  `mapstructure:"max"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// UpstreamConfig points at the clinic records API.
type UpstreamConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Burst          int     `mapstructure:"burst"`
}

type ScheduleConfig struct {
	StartHour   int  `mapstructure:"start_hour"`
	EndHour     int  `mapstructure:"end_hour"`
	StepMinutes int  `mapstructure:"step_minutes"`
	DisablePast bool `mapstructure:"disable_past"`

	// Card geometry, in hundredths of a grid row.
	Gutter    float64 `mapstructure:"gutter"`
	Separator float64 `mapstructure:"separator"`
	HopGap    float64 `mapstructure:"hop_gap"`

	ViewTTLMinutes int `mapstructure:"view_ttl_minutes"`
	MaxSessions    int `mapstructure:"max_sessions"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/frontdesk.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AlertsConfig routes upstream failures to operators beyond the log.
type AlertsConfig struct {
	Email EmailAlertConfig `mapstructure:"email"`
	SMS   SMSAlertConfig   `mapstructure:"sms"`
}

// SMSAlertConfig pages on-call phones through sms.ir.
type SMSAlertConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	APIKey             string   `mapstructure:"api_key"`
	SecretKey          string   `mapstructure:"secret_key"`
	TemplateID         string   `mapstructure:"template_id"`
	Phones             []string `mapstructure:"phones"`
	MinIntervalSeconds int      `mapstructure:"min_interval_seconds"`
}

type EmailAlertConfig struct {
	Enabled            bool       `mapstructure:"enabled"`
	From               string     `mapstructure:"from"`
	To                 []string   `mapstructure:"to"`
	SMTP               SMTPConfig `mapstructure:"smtp"`
	MinIntervalSeconds int        `mapstructure:"min_interval_seconds"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if _, err := url.ParseRequestURI(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("upstream.base_url: %w", err)
	}
	if err := c.Schedule.Slots().Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if c.Schedule.ViewTTLMinutes < 0 {
		return errors.New("schedule.view_ttl_minutes must not be negative")
	}
	if e := c.Alerts.Email; e.Enabled && (e.SMTP.Host == "" || e.From == "" || len(e.To) == 0) {
		return errors.New("alerts.email needs smtp.host, from and to when enabled")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}

func (s ScheduleConfig) Slots() slot.Config {
	return slot.Config{
		StartHour:   s.StartHour,
		EndHour:     s.EndHour,
		StepMinutes: s.StepMinutes,
	}
}

func (s ScheduleConfig) Layout() layout.Config {
	return layout.Config{
		StepMinutes: s.StepMinutes,
		Gutter:      s.Gutter,
		Separator:   s.Separator,
		HopGap:      s.HopGap,
	}
}

// ViewTTL is how long an idle session's view state survives in Redis.
func (s ScheduleConfig) ViewTTL() time.Duration {
	return time.Duration(s.ViewTTLMinutes) * time.Minute
}

func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}
