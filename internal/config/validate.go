package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg and returns a *ValidationError listing every problem.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	if cfg.Server.Addr == "" {
		ve.Add("server.addr must not be empty")
	}
	if cfg.DataDir == "" {
		ve.Add("data_dir must not be empty")
	}
	if err := cfg.Session.Settings.Validate(); err != nil {
		ve.Add("session.settings: %v", err)
	}
	if cfg.Session.PinchThreshold <= 0 {
		ve.Add("session.pinch_threshold must be > 0")
	}
	if cfg.Session.HistoryLimit <= 0 {
		ve.Add("session.history_limit must be > 0")
	}
	if cfg.Camera.Device < 0 {
		ve.Add("camera.device must be >= 0")
	}
	if cfg.Pipeline.IdleFPS <= 0 || cfg.Pipeline.ActiveFPS <= 0 {
		ve.Add("pipeline fps values must be > 0")
	}
	if cfg.Pipeline.IdleTimeout <= 0 {
		ve.Add("pipeline.idle_timeout must be > 0")
	}
	if cfg.Suggest.Window < 0 {
		ve.Add("suggest.window must be >= 0")
	}
	if cfg.Suggest.Timeout <= 0 {
		ve.Add("suggest.timeout must be > 0")
	}
	if cfg.Naming.URL != "" && !strings.HasPrefix(cfg.Naming.URL, "http://") && !strings.HasPrefix(cfg.Naming.URL, "https://") {
		ve.Add("naming.url must be an http(s) URL")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
