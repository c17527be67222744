package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Scene   SceneConfig   `toml:"scene"`
	Order   OrderConfig   `toml:"order"`
	Debug   bool          `toml:"debug"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SceneConfig struct {
	Dir   string `toml:"dir"`   // disk root checked before the embedded scenes; empty = embedded only
	Name  string `toml:"name"`  // scene file, extension optional
	Watch bool   `toml:"watch"` // rebuild the scene when files under Dir change
}

type OrderConfig struct {
	// Strict makes a duplicate renderable registration an error. When false
	// the duplicate is logged and ignored.
	Strict bool `toml:"strict"`
}

// Load reads a TOML config file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Scene.Name == "" {
		return fmt.Errorf("scene name is empty")
	}
	if c.Scene.Watch && c.Scene.Dir == "" {
		return fmt.Errorf("scene watch needs a scene dir")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "layerdraw",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scene: SceneConfig{
			Name: "courtyard",
		},
		Order: OrderConfig{
			Strict: true,
		},
	}
}
