package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/charlesng35/paintstore/internal/firebase"
	"github.com/charlesng35/paintstore/internal/rtdb"
	pkgvalidator "github.com/charlesng35/paintstore/pkg/validator"
)

// EnvPrefix namespaces every environment override, e.g. PAINTSTORE_SERVER_PORT.
const EnvPrefix = "PAINTSTORE"

// Config represents the runtime configuration shared by the push forwarder
// function and the recommender API.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Firebase    FirebaseConfig    `mapstructure:"firebase"`
	Forwarder   ForwarderConfig   `mapstructure:"forwarder"`
	Recommender RecommenderConfig `mapstructure:"recommender"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server and process logging.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console cloud"`
}

// FirebaseConfig identifies the Firebase project.
type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	DatabaseURL     string `mapstructure:"database_url" validate:"omitempty,url"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"omitempty,file"`
}

// ForwarderConfig controls the notification trigger.
type ForwarderConfig struct {
	Ref            string `mapstructure:"ref" validate:"required,reftemplate"`
	DryRun         bool   `mapstructure:"dry_run"`
	Port           int    `mapstructure:"port" validate:"min=1,max=65535"`
	FunctionTarget string `mapstructure:"function_target" validate:"required"`
}

// RecommenderConfig controls the recommendation API.
type RecommenderConfig struct {
	OrdersRef string `mapstructure:"orders_ref" validate:"required"`
	// RefreshSchedule is a cron spec. Empty reads orders on every request.
	RefreshSchedule string `mapstructure:"refresh_schedule" validate:"omitempty,cronspec"`
	DefaultLimit    int    `mapstructure:"default_limit" validate:"min=1,ltefield=MaxLimit"`
	MaxLimit        int    `mapstructure:"max_limit" validate:"min=1,max=100"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required,startswith=/"`
	// Listen serves metrics on a separate address when set, which the
	// function host needs since it owns its HTTP mux.
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// FirebaseOptions converts the firebase section for the Admin SDK wrapper.
func (c *Config) FirebaseOptions() firebase.Config {
	return firebase.Config{
		ProjectID:       c.Firebase.ProjectID,
		DatabaseURL:     c.Firebase.DatabaseURL,
		CredentialsFile: c.Firebase.CredentialsFile,
	}
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil config")
	}
	if err := registerRules(); err != nil {
		return fmt.Errorf("config: register validation rules: %w", err)
	}
	if err := pkgvalidator.ValidateStruct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")

	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.database_url", "")
	v.SetDefault("firebase.credentials_file", "")

	v.SetDefault("forwarder.ref", "/users/{uid}/notifications/{nid}")
	v.SetDefault("forwarder.dry_run", false)
	v.SetDefault("forwarder.port", 8080)
	v.SetDefault("forwarder.function_target", "NotifyOnOrderUpdate")

	v.SetDefault("recommender.orders_ref", "orders")
	v.SetDefault("recommender.refresh_schedule", "")
	v.SetDefault("recommender.default_limit", 10)
	v.SetDefault("recommender.max_limit", 100)

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.prometheus.listen", "")
	v.SetDefault("monitoring.health_check.enabled", true)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

var (
	rulesOnce sync.Once
	rulesErr  error
)

func registerRules() error {
	rulesOnce.Do(func() {
		rulesErr = errors.Join(
			pkgvalidator.RegisterValidation("reftemplate", func(fl validator.FieldLevel) bool {
				_, err := rtdb.Compile(fl.Field().String())
				return err == nil
			}),
			pkgvalidator.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
				_, err := cron.ParseStandard(strings.TrimSpace(fl.Field().String()))
				return err == nil
			}),
		)
	})
	return rulesErr
}
