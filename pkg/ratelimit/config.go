package ratelimit

import "time"

// Endpoint class names understood by the default configuration. The
// pipeline picks a class per route; unknown classes fall back to
// ClassDefault.
const (
	ClassDefault = "default"
	ClassAuth    = "auth"
	ClassRead    = "read"
	ClassWrite   = "write"
	ClassHealth  = "health"
)

// ClassConfig holds the limits for one endpoint class.
type ClassConfig struct {
	// Capacity is the token bucket size, i.e. the tolerated burst.
	Capacity float64 `yaml:"capacity" mapstructure:"capacity"`
	// RefillRate is tokens added per second.
	RefillRate float64 `yaml:"refill_rate" mapstructure:"refill_rate"`
	// SustainedLimit caps requests within the sliding window horizon.
	SustainedLimit int `yaml:"sustained_limit" mapstructure:"sustained_limit"`
}

// Config is the limiter configuration consumed at service start.
type Config struct {
	Classes map[string]ClassConfig `yaml:"classes" mapstructure:"classes"`

	// Window is the sliding-window horizon for sustained limits.
	Window time.Duration `yaml:"window" mapstructure:"window"`

	// ViolationDecay multiplies the limit multiplier on each violation.
	ViolationDecay float64 `yaml:"violation_decay" mapstructure:"violation_decay"`
	// MinMultiplier floors the limit multiplier.
	MinMultiplier float64 `yaml:"min_multiplier" mapstructure:"min_multiplier"`
	// RecoveryCooldown is the violation-free period after which the
	// multiplier starts to recover.
	RecoveryCooldown time.Duration `yaml:"recovery_cooldown" mapstructure:"recovery_cooldown"`
	// RecoveryRate is multiplier restored per second once recovering.
	RecoveryRate float64 `yaml:"recovery_rate" mapstructure:"recovery_rate"`

	// RetentionHorizon evicts idle client state beyond this age.
	RetentionHorizon time.Duration `yaml:"retention_horizon" mapstructure:"retention_horizon"`
	// SweepEvery controls how often the janitor runs.
	SweepEvery time.Duration `yaml:"sweep_every" mapstructure:"sweep_every"`

	// Whitelist lists client keys exempt from limiting, either full
	// keys ("ip:10.0.0.1") or bare addresses. Defaults to loopback.
	Whitelist []string `yaml:"whitelist" mapstructure:"whitelist"`
}

// DefaultClasses mirrors the per-endpoint limits the API shipped with:
// strict limits on authentication, generous ones on reads and health.
func DefaultClasses() map[string]ClassConfig {
	return map[string]ClassConfig{
		ClassDefault: {Capacity: 10, RefillRate: 1, SustainedLimit: 60},
		ClassAuth:    {Capacity: 3, RefillRate: 10.0 / 60, SustainedLimit: 10},
		ClassRead:    {Capacity: 30, RefillRate: 2, SustainedLimit: 120},
		ClassWrite:   {Capacity: 10, RefillRate: 0.5, SustainedLimit: 30},
		ClassHealth:  {Capacity: 100, RefillRate: 1000.0 / 60, SustainedLimit: 1000},
	}
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if len(c.Classes) == 0 {
		c.Classes = DefaultClasses()
	}
	if _, ok := c.Classes[ClassDefault]; !ok {
		c.Classes[ClassDefault] = DefaultClasses()[ClassDefault]
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.ViolationDecay <= 0 || c.ViolationDecay >= 1 {
		c.ViolationDecay = 0.5
	}
	if c.MinMultiplier <= 0 {
		c.MinMultiplier = 0.1
	}
	if c.RecoveryCooldown <= 0 {
		c.RecoveryCooldown = 5 * time.Minute
	}
	if c.RecoveryRate <= 0 {
		c.RecoveryRate = 1.0 / 300 // full recovery in five minutes
	}
	if c.RetentionHorizon <= 0 {
		c.RetentionHorizon = 15 * time.Minute
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = 2 * time.Minute
	}
	if c.Whitelist == nil {
		c.Whitelist = []string{"127.0.0.1", "::1"}
	}
}

func (c *Config) class(name string) ClassConfig {
	if cc, ok := c.Classes[name]; ok {
		return cc
	}
	return c.Classes[ClassDefault]
}
