// Package config loads AirSketch settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/naming"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/suggest"
)

// DirName is the data directory created under the user's home.
const DirName = ".airsketch"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig         `yaml:"server"`
	DataDir  string               `yaml:"data_dir"`
	Session  session.Config       `yaml:"session"`
	Camera   capture.Config       `yaml:"camera"`
	Motion   capture.MotionConfig `yaml:"motion"`
	Detector detector.Config      `yaml:"detector"`
	Pipeline app.Timing           `yaml:"pipeline"`
	Suggest  suggest.Config       `yaml:"suggest"`
	Naming   NamingConfig         `yaml:"naming"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// NamingConfig selects where shape names come from. URL wins over Command;
// with neither set the in-process Gemini client is used.
type NamingConfig struct {
	naming.Config  `yaml:",inline"`
	URL            string        `yaml:"url"`
	Command        string        `yaml:"command"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		DataDir:  DefaultDataDir(),
		Session:  session.DefaultConfig(),
		Camera:   capture.DefaultConfig(),
		Motion:   capture.DefaultMotionConfig(),
		Detector: detector.DefaultConfig(),
		Pipeline: app.DefaultTiming(),
		Suggest:  suggest.DefaultConfig(),
		Naming: NamingConfig{
			Config: naming.Config{
				Model:   naming.DefaultModel,
				BaseURL: naming.DefaultBaseURL,
				Timeout: naming.DefaultTimeout,
				Breaker: naming.DefaultBreakerConfig(),
			},
			CommandTimeout: suggest.DefaultTimeout,
		},
	}
}

// DefaultDataDir returns ~/.airsketch, or a relative .airsketch when the
// home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the config file inside the default data directory.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// DBPath returns the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "airsketch.db")
}

// Load reads a YAML config file and applies env var overrides. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps environment variables to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("AIRSKETCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("AIRSKETCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("AIRSKETCH_CAMERA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Camera.Device = n
		}
	}
	if v := os.Getenv("AIRSKETCH_NAMING_URL"); v != "" {
		cfg.Naming.URL = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Naming.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Naming.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Naming.Model = v
	}
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	// The file can hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
