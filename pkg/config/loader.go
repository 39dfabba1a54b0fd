package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment-variable prefix for overrides, e.g.
// TODOAPI_APP_PORT=8080.
const EnvPrefix = "TODOAPI"

// LoadOptions tunes where and how the configuration is read.
type LoadOptions struct {
	// ConfigPath is the directory searched for config files, default
	// "./configs".
	ConfigPath string
	// AllowNoConfig accepts a missing config file and runs on
	// environment variables alone.
	AllowNoConfig bool
}

// Load reads the full configuration for the current environment and
// resolves secrets.
func Load(opts ...LoadOptions) (*Config, error) {
	cfg := &Config{}
	if err := loadInto(cfg, opts...); err != nil {
		return nil, err
	}

	secrets := []SecretDefinition{
		{Name: "JWT_SECRET", Target: &cfg.JWT.SecretKey, Default: cfg.JWT.SecretKey, Required: true},
		{Name: "REDIS_PASSWORD", Target: &cfg.Redis.Password, Default: cfg.Redis.Password},
		{Name: "KAFKA_PASSWORD", Target: &cfg.Audit.Password, Default: cfg.Audit.Password},
	}
	for _, s := range secrets {
		value := GetSecretOrEnv(s.Name, s.Default)
		if s.Required && value == "" {
			return nil, &SecretNotFoundError{Name: s.Name}
		}
		*s.Target = value
	}

	cfg.App.Env = GetEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// loadInto unmarshals configs/config_{APP_ENV}.yaml plus environment
// overrides into cfg.
func loadInto(cfg any, opts ...LoadOptions) error {
	opt := LoadOptions{ConfigPath: "./configs"}
	if len(opts) > 0 {
		opt = opts[0]
		if opt.ConfigPath == "" {
			opt.ConfigPath = "./configs"
		}
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s failed: %w", envFile, err)
			}
		}
	} else {
		if err := godotenv.Load(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env failed: %w", err)
			}
		}
	}

	viper.SetConfigName(fmt.Sprintf("config_%s", GetEnv()))
	viper.SetConfigType("yaml")
	viper.AddConfigPath(opt.ConfigPath)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !(errors.As(err, &notFound) && opt.AllowNoConfig) {
			return fmt.Errorf("read config failed: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config failed: %w", err)
	}
	return nil
}

// GetEnv returns the current environment, default "dev".
func GetEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		return "dev"
	}
	return env
}
