// Package config loads the service configuration from a per-environment
// YAML file plus environment variables, with Docker-secret support for
// sensitive values.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Load reads configs/config_{APP_ENV}.yaml (APP_ENV defaults to "dev"),
// lets TODOAPI_-prefixed environment variables override any key, and
// finally resolves secrets such as the JWT signing key from
// {NAME}_FILE or {NAME}.
package config
