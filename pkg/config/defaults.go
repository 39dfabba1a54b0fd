package config

// ApplyDefaults fills zero values across all sections.
func (c *Config) ApplyDefaults() {
	c.App.ApplyDefaults()
	c.Log.ApplyDefaults()
	c.JWT.ApplyDefaults()
	c.RateLimit.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	if c.Audit.Topic == "" {
		c.Audit.Topic = "todo-api.security-events"
	}
}

// ApplyDefaults fills App defaults.
func (a *AppConfig) ApplyDefaults() {
	if a.Port <= 0 {
		a.Port = 8000
	}
}

// ApplyDefaults fills Log defaults.
func (l *LogConfig) ApplyDefaults() {
	if l.Format == "" {
		l.Format = "json"
	}
	if l.Level == "" {
		l.Level = "info"
	}
	if l.File.Path == "" {
		l.File.Path = "./logs/todo-api"
	}
	if l.File.MaxAgeDays <= 0 {
		l.File.MaxAgeDays = 7
	}
	if l.File.RotateHours <= 0 {
		l.File.RotateHours = 24
	}
}

// ApplyDefaults fills JWT defaults.
func (j *JWTConfig) ApplyDefaults() {
	if j.AccessTokenTTL <= 0 {
		j.AccessTokenTTL = 30 * 60
	}
	if j.RefreshTokenTTL <= 0 {
		j.RefreshTokenTTL = 72 * 3600
	}
}

// ApplyDefaults fills Tracing defaults.
func (t *TracingConfig) ApplyDefaults() {
	if t.Exporter == "" {
		t.Exporter = "stdout"
	}
	if t.ServiceName == "" {
		t.ServiceName = "todo-api"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 1.0
	}
}
