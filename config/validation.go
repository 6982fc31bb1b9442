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

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequireAPIKey       bool
	RequireCustomSecret bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			RequireAPIKey:       true,
			RequireCustomSecret: true,
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must not be empty"})
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}
	if cfg.PageSize <= 0 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be positive"})
	}
	if cfg.SourceLang == "" || cfg.TargetLang == "" {
		errs = append(errs, ValidationError{Field: "SOURCE_LANG/TARGET_LANG", Message: "both languages are required"})
	} else if cfg.SourceLang == cfg.TargetLang {
		errs = append(errs, ValidationError{Field: "TARGET_LANG", Message: "must differ from SOURCE_LANG"})
	}
	if cfg.TitleConcurrency <= 0 {
		errs = append(errs, ValidationError{Field: "TITLE_CONCURRENCY", Message: "must be positive"})
	}
	if cfg.MaxSessions <= 0 {
		errs = append(errs, ValidationError{Field: "MAX_SESSIONS", Message: "must be positive"})
	}

	if reqs.RequireAPIKey && cfg.SpoonacularAPIKey == "" {
		errs = append(errs, ValidationError{Field: "SPOONACULAR_API_KEY", Message: "required in " + string(env)})
	}
	if reqs.RequireCustomSecret && (cfg.JWTSecret == "" || cfg.JWTSecret == DefaultJWTSecret) {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "a non-default secret is required in " + string(env)})
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
