// Package config loads the daemon configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-vh/masterlist/internal/models"
)

// Config holds the daemon settings.
type Config struct {
	// Listen is the HTTP API listen address.
	Listen string `yaml:"listen"`

	// DefaultScreen is the view context assumed when a capture request
	// does not say which screen it came from.
	DefaultScreen models.Screen `yaml:"default_screen"`

	// LLMScript, when set, backs the language-model boundary with a
	// scripted client replaying these responses. Useful for demos and
	// integration testing; with no script configured, captures must
	// carry their own raw object.
	LLMScript []string `yaml:"llm_script"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:        "127.0.0.1:7467",
		DefaultScreen: models.ScreenList,
	}
}

// Load reads a config file, applying defaults for anything unset. A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}
	switch cfg.DefaultScreen {
	case models.ScreenList, models.ScreenToday, models.ScreenRoutines, models.ScreenLibrary, models.ScreenJournal:
	default:
		cfg.DefaultScreen = models.ScreenList
	}
	return cfg, nil
}
