// Package config loads hexmap settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat is returned when the config file cannot be parsed.
	ErrInvalidFormat = errors.New("invalid config format")

	// ErrValidationFailed is returned when a setting is out of range.
	ErrValidationFailed = errors.New("config validation failed")
)

// Config holds every setting the command line reads from a file.
// Flags given on the command line override it.
type Config struct {
	Draw  DrawConfig  `yaml:"draw"`
	Save  SaveConfig  `yaml:"save"`
	Input InputConfig `yaml:"input"`
	Log   LogConfig   `yaml:"log"`
}

// DrawConfig holds colouring and labelling settings.
type DrawConfig struct {
	Colormap      string   `yaml:"colormap"`
	VMin          *float64 `yaml:"vmin,omitempty"`
	VMax          *float64 `yaml:"vmax,omitempty"`
	Title         string   `yaml:"title,omitempty"`
	TitleSize     float64  `yaml:"title_size,omitempty"`
	OutlineColumn string   `yaml:"outline_column,omitempty"`
}

// SaveConfig holds image settings. Width and Height are in inches.
type SaveConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    int     `yaml:"dpi"`
}

// InputConfig holds settings for reading data files.
type InputConfig struct {
	// Encoding of data files joined onto the map: utf-8 or latin-1.
	Encoding string `yaml:"encoding"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Draw:  DrawConfig{Colormap: "viridis"},
		Save:  SaveConfig{Width: 8, Height: 8, DPI: 300},
		Input: InputConfig{Encoding: "latin-1"},
		Log:   LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrInvalidFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads YAML settings from r over the defaults. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []string
	if c.Save.Width <= 0 || c.Save.Height <= 0 {
		errs = append(errs, "save width and height must be positive")
	}
	if c.Save.DPI <= 0 {
		errs = append(errs, "save dpi must be positive")
	}
	if c.Draw.VMin != nil && c.Draw.VMax != nil && *c.Draw.VMin > *c.Draw.VMax {
		errs = append(errs, "draw vmin is greater than vmax")
	}
	if _, err := c.Input.Decoder(); err != nil {
		errs = append(errs, err.Error())
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log format %q is not console or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(errs, "; "))
	}
	return nil
}

// Decoder returns the text encoding named by the input settings. It is
// nil for UTF-8.
func (c InputConfig) Decoder() (encoding.Encoding, error) {
	switch strings.ToLower(c.Encoding) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("input encoding %q is not utf-8 or latin-1", c.Encoding)
}
