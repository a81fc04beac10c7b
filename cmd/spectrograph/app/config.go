package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/morria/spectrum-analyzer/internal/render"
	"github.com/morria/spectrum-analyzer/internal/snapshot"
	"github.com/morria/spectrum-analyzer/internal/sweep"
)

const (
	defaultLogFile   = "spectrograph.log"
	defaultFrameRate = 8
	defaultAlpha     = 0.3
)

// Config represents the main application configuration.
type Config struct {
	Settings Settings              `yaml:"settings"`
	Display  DisplayConfig         `yaml:"display"`
	Snapshot snapshot.Config       `yaml:"snapshot"`
	HackRF   *sweep.LauncherConfig `yaml:"hackrf"` // nil: read a sweep stream from stdin
}

// Settings represents global application settings. The terminal is owned by
// the display, so logs go to a file.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`
}

// DisplayConfig represents terminal display settings.
type DisplayConfig struct {
	MinPower       *float64 `yaml:"minPower"`       // dBm; unset enables auto-ranging
	MaxPower       *float64 `yaml:"maxPower"`       // dBm
	FrameRate      int      `yaml:"frameRate"`      // Display updates per second
	ColorTheme     string   `yaml:"colorTheme"`     // classic, grayscale, thermal, marine
	SpectrumHeight int      `yaml:"spectrumHeight"` // Bar panel height in rows, borders included
}

// LoadConfig reads a YAML configuration file. An empty path yields the
// default configuration: stdin source, auto-ranged classic display at 8 fps.
func LoadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration file: %w", err)
		}
		if err = yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing configuration file: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Display.FrameRate < 0 {
		return fmt.Errorf("display.frameRate cannot be negative: %d given", c.Display.FrameRate)
	}
	if c.Display.FrameRate == 0 {
		c.Display.FrameRate = defaultFrameRate
	}

	if c.Display.SpectrumHeight == 0 {
		c.Display.SpectrumHeight = render.DefaultSpectrumHeight
	}
	if c.Display.SpectrumHeight < 3 {
		return fmt.Errorf("display.spectrumHeight must be at least 3: %d given", c.Display.SpectrumHeight)
	}

	switch render.ColorTheme(c.Display.ColorTheme) {
	case "", render.ClassicTheme, render.GrayscaleTheme, render.ThermalTheme, render.MarineTheme:
	default:
		return fmt.Errorf("display.colorTheme: unknown theme '%s'", c.Display.ColorTheme)
	}

	if (c.Display.MinPower == nil) != (c.Display.MaxPower == nil) {
		return fmt.Errorf("display.minPower and display.maxPower must be set together")
	}
	if c.Display.MinPower != nil && *c.Display.MinPower >= *c.Display.MaxPower {
		return fmt.Errorf("display.maxPower must be greater than display.minPower")
	}

	if err := c.Snapshot.Validate(); err != nil {
		return err
	}

	if c.HackRF != nil {
		if err := c.HackRF.Validate(); err != nil {
			return err
		}
	}

	if c.Settings.LogFile == "" {
		c.Settings.LogFile = defaultLogFile
	}

	return nil
}

// SlogLevel parses the configured log level, defaulting to info.
func (s Settings) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("settings.logLevel: unknown level '%s'", s.LogLevel)
	}
}

// Bounds returns the configured display power range, or the default range
// with auto-ranging enabled when the configuration leaves it unset.
func (c *Config) Bounds() (bounds render.PowerBounds, autoRange bool) {
	if c.Display.MinPower == nil {
		return render.DefaultPowerBounds(), true
	}
	return render.PowerBounds{Min: *c.Display.MinPower, Max: *c.Display.MaxPower}, false
}

// Theme returns the configured color theme, defaulting to classic.
func (c *Config) Theme() render.ColorTheme {
	if c.Display.ColorTheme == "" {
		return render.ClassicTheme
	}
	return render.ColorTheme(c.Display.ColorTheme)
}
