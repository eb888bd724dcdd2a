package config

import (
	"slices"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// Validate checks the loaded configuration and returns the first *ConfigError found.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return err
	}
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateControllers(&cfg.Controllers); err != nil {
		return err
	}
	if err := validateOpenAPI(&cfg.OpenAPI); err != nil {
		return err
	}
	return validateLog(&cfg.Log)
}

func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return NewMissingFieldError("app.name")
	}
	if cfg.Version == "" {
		return NewMissingFieldError("app.version")
	}

	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction}
	if !slices.Contains(validEnvs, cfg.Env) {
		return NewInvalidFieldError("app.env", "invalid environment "+cfg.Env, validEnvs...)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return NewInvalidFieldError("server.port", "must be between 1 and 65535, got "+itoa(cfg.Port))
	}
	if cfg.Timeout.Read <= 0 {
		return NewInvalidFieldError("server.timeout.read", "must be positive")
	}
	if cfg.Timeout.Write <= 0 {
		return NewInvalidFieldError("server.timeout.write", "must be positive")
	}
	if cfg.Path.Base != "" && strings.Contains(cfg.Path.Base, ":") {
		return NewInvalidFieldError("server.path.base", "must not contain path parameters")
	}
	return nil
}

func validateControllers(cfg *ControllersConfig) error {
	if strings.TrimSpace(cfg.Location) == "" {
		return NewMissingFieldError("controllers.location")
	}
	return nil
}

func validateOpenAPI(cfg *OpenAPIConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Title == "" {
		return NewMissingFieldError("openapi.title")
	}
	if cfg.Version == "" {
		return NewMissingFieldError("openapi.version")
	}
	return nil
}

func validateLog(cfg *LogConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Level)) {
		return NewInvalidFieldError("log.level", "invalid log level "+cfg.Level, validLogLevels...)
	}
	return nil
}
