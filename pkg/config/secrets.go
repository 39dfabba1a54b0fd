package config

import (
	"os"
	"strings"
)

// GetSecretOrEnv reads a sensitive value, preferring the Docker-secret
// style file reference.
//
// Priority: the file named by {NAME}_FILE, then the {NAME} environment
// variable, then defaultValue.
func GetSecretOrEnv(name string, defaultValue string) string {
	filePath := os.Getenv(name + "_FILE")
	if filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	if value := os.Getenv(name); value != "" {
		return value
	}

	return defaultValue
}

// MustGetSecret reads a sensitive value and panics when it is absent.
func MustGetSecret(name string) string {
	value := GetSecretOrEnv(name, "")
	if value == "" {
		panic("required secret not found: " + name)
	}
	return value
}

// SecretDefinition binds one secret to a config field.
type SecretDefinition struct {
	Name     string
	Target   *string
	Default  string
	Required bool
}

// SecretNotFoundError reports a missing required secret.
type SecretNotFoundError struct {
	Name string
}

func (e *SecretNotFoundError) Error() string {
	return "required secret not found: " + e.Name
}
