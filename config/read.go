package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/layout"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
)

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "FRONTDESK"
)

var GlobalConf *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit.max", 60)
	v.SetDefault("server.rate_limit.window_seconds", 30)

	// Unset keys need a default for AutomaticEnv to reach them on Unmarshal.
	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.timeout_seconds", 15)
	v.SetDefault("upstream.rate_limit", 20)
	v.SetDefault("upstream.burst", 10)

	v.SetDefault("schedule.start_hour", slot.DefaultStartHour)
	v.SetDefault("schedule.end_hour", slot.DefaultEndHour)
	v.SetDefault("schedule.step_minutes", slot.DefaultStepMinutes)
	v.SetDefault("schedule.gutter", layout.DefaultGutter)
	v.SetDefault("schedule.separator", layout.DefaultSeparator)
	v.SetDefault("schedule.hop_gap", layout.DefaultHopGap)
	v.SetDefault("schedule.view_ttl_minutes", 12*60)
	v.SetDefault("schedule.max_sessions", 1024)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")

	v.SetDefault("observability.service_name", "frontdesk")
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.tracing.sampling_rate", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("alerts.email.enabled", false)
	v.SetDefault("alerts.email.from", "")
	v.SetDefault("alerts.email.smtp.host", "")
	v.SetDefault("alerts.email.smtp.port", 587)
	v.SetDefault("alerts.email.smtp.username", "")
	v.SetDefault("alerts.email.smtp.password", "")
	v.SetDefault("alerts.email.smtp.use_tls", true)
	v.SetDefault("alerts.email.min_interval_seconds", 300)
	v.SetDefault("alerts.sms.enabled", false)
	v.SetDefault("alerts.sms.api_key", "")
	v.SetDefault("alerts.sms.secret_key", "")
	v.SetDefault("alerts.sms.template_id", "")
	v.SetDefault("alerts.sms.min_interval_seconds", 900)
}

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigFormat)
	v.AddConfigPath(configPath)
	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. FRONTDESK_UPSTREAM_BASE_URL overrides upstream.base_url
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional; defaults plus env are enough in containers.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}
