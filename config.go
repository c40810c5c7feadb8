package arbor

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig
// and ConfigFromEnv, e.g. ARBOR_WINDOW_TITLE or ARBOR_STAGE_TRANSPARENT.
const EnvPrefix = "ARBOR_"

// Config is the file/environment configuration for a game built on arbor.
type Config struct {
	Window WindowConfig  `yaml:"window" envPrefix:"WINDOW_"`
	Stage  StageSettings `yaml:"stage" envPrefix:"STAGE_"`
	Render RenderConfig  `yaml:"render" envPrefix:"RENDER_"`
	Debug  bool          `yaml:"debug" env:"DEBUG"`
}

// WindowConfig controls the host window and tick rate.
type WindowConfig struct {
	Title   string `yaml:"title" env:"TITLE"`
	Width   int    `yaml:"width" env:"WIDTH"`
	Height  int    `yaml:"height" env:"HEIGHT"`
	TPS     int    `yaml:"tps" env:"TPS"`
	ShowFPS bool   `yaml:"show_fps" env:"SHOW_FPS"`
}

// StageSettings is the serializable subset of StageConfig.
type StageSettings struct {
	Transparent             bool   `yaml:"transparent" env:"TRANSPARENT"`
	BackgroundColor         string `yaml:"background_color" env:"BACKGROUND_COLOR"`
	DisableVisibilityChange bool   `yaml:"disable_visibility_change" env:"DISABLE_VISIBILITY_CHANGE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "arbor",
			Width:  640,
			Height: 480,
			TPS:    60,
		},
		Stage: StageSettings{
			BackgroundColor: "#000000",
		},
	}
}

// LoadConfig reads a YAML file over the defaults, applies ARBOR_* environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ConfigFromEnv returns the defaults with ARBOR_* environment overrides applied.
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides only touches fields whose variable is set.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, "window.width and window.height must be positive")
	}
	if c.Window.TPS < 0 {
		errs = append(errs, "window.tps must not be negative")
	}
	if c.Stage.BackgroundColor != "" {
		if _, err := (DefaultColorParser{}).ParseColor(c.Stage.BackgroundColor); err != nil {
			errs = append(errs, fmt.Sprintf("stage.background_color: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StageConfig converts the settings into a StageConfig.
func (c *Config) StageConfig() StageConfig {
	sc := StageConfig{
		Transparent:             c.Stage.Transparent,
		DisableVisibilityChange: c.Stage.DisableVisibilityChange,
	}
	if c.Stage.BackgroundColor != "" {
		sc.BackgroundColor = c.Stage.BackgroundColor
	}
	return sc
}

// RunConfig converts the window and render settings into a RunConfig.
func (c *Config) RunConfig() RunConfig {
	return RunConfig{
		Title:   c.Window.Title,
		Width:   c.Window.Width,
		Height:  c.Window.Height,
		TPS:     c.Window.TPS,
		ShowFPS: c.Window.ShowFPS,
		Render:  c.Render,
		Debug:   c.Debug,
	}
}
