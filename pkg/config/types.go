package config

import (
	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	"github.com/PicardRaphael/todo-api-go/pkg/middleware"
	"github.com/PicardRaphael/todo-api-go/pkg/ratelimit"
)

// Config is the full service configuration.
type Config struct {
	App       AppConfig                        `yaml:"app" mapstructure:"app"`
	Log       LogConfig                        `yaml:"log" mapstructure:"log"`
	Redis     RedisConfig                      `yaml:"redis" mapstructure:"redis"`
	JWT       JWTConfig                        `yaml:"jwt" mapstructure:"jwt"`
	RateLimit ratelimit.Config                 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Security  middleware.SecurityHeadersConfig `yaml:"security" mapstructure:"security"`
	Audit     audit.Config                     `yaml:"audit" mapstructure:"audit"`
	Tracing   TracingConfig                    `yaml:"tracing" mapstructure:"tracing"`
}

// AppConfig holds service-wide basics.
type AppConfig struct {
	Env  string `yaml:"env" mapstructure:"env"`
	Port int    `yaml:"port" mapstructure:"port"`
	// Debug exposes fault details on the wire. Never enable outside
	// local development.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// LogConfig controls the shared logger.
type LogConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	Level        string `yaml:"level" mapstructure:"level"`
	ReportCaller bool   `yaml:"report_caller" mapstructure:"report_caller"`
	// File enables rotated file output alongside stderr.
	File LogFileConfig `yaml:"file" mapstructure:"file"`
}

// LogFileConfig configures rotated log files.
type LogFileConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Path        string `yaml:"path" mapstructure:"path"`
	MaxAgeDays  int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	RotateHours int    `yaml:"rotate_hours" mapstructure:"rotate_hours"`
}

// RedisConfig is the connection for the shared rate-limit window.
type RedisConfig struct {
	// Enabled switches the sustained window to the shared store.
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Db       int    `yaml:"db" mapstructure:"db"`
}

// JWTConfig configures token signing and validation.
type JWTConfig struct {
	SecretKey       string   `yaml:"secret_key" mapstructure:"secret_key"`
	AccessTokenTTL  Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`
	RefreshTokenTTL Duration `yaml:"refresh_token_ttl" mapstructure:"refresh_token_ttl"`
	ClockSkew       Duration `yaml:"clock_skew" mapstructure:"clock_skew"`
}

// TracingConfig configures the span exporter.
type TracingConfig struct {
	Exporter     string            `yaml:"exporter" mapstructure:"exporter"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string            `yaml:"service_name" mapstructure:"service_name"`
	Insecure     bool              `yaml:"insecure" mapstructure:"insecure"`
	Headers      map[string]string `yaml:"headers" mapstructure:"headers"`
	SampleRatio  float64           `yaml:"sample_ratio" mapstructure:"sample_ratio"`
	ResourceTags map[string]string `yaml:"resource_tags" mapstructure:"resource_tags"`
}
