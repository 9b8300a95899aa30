package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the sensitive fields required to run the API are
// present. Test environments run against ephemeral databases and may leave
// credentials empty.
func ValidateConfig(cfg *Config) error {
	if IsTest() {
		return nil
	}

	var errors []string
	if cfg.DBPassword == "" {
		errors = append(errors, "DB_PASSWORD (or the db_password secret) is required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET (or the jwt_secret secret) is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
