package auth

import "time"

// Config controls JWT signing and validation.
// Secret is the shared HS256 key; it is infrastructure-supplied
// (pkg/config resolves it from secret files or the environment).
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ClockSkew  time.Duration
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.AccessTTL <= 0 {
		c.AccessTTL = 30 * time.Minute
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = 72 * time.Hour
	}
	if c.ClockSkew < 0 {
		c.ClockSkew = 0
	}
}
