package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/theme"
)

// Config is the full set of settings.
type Config struct {
	Log    LogConfig     `toml:"log" yaml:"log" json:"log"`
	Layout layout.Params `toml:"layout" yaml:"layout" json:"layout"`
	Theme  ThemeConfig   `toml:"theme" yaml:"theme" json:"theme"`
	Editor EditorConfig  `toml:"editor" yaml:"editor" json:"editor"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Layout: layout.DefaultParams(),
		Theme:  ThemeConfig{Name: "dark"},
		Editor: EditorConfig{
			LineHeight:     16,
			CharWidth:      8,
			TabSize:        4,
			ContentLeft:    48,
			ScrollbarWidth: 8,
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every section.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: layout: %w", ErrInvalidConfig, err)
	}
	if c.Theme.File == "" {
		if _, err := theme.ParseKind(c.Theme.Name); err != nil {
			return fmt.Errorf("%w: theme.name: %w", ErrInvalidConfig, err)
		}
	}
	e := c.Editor
	if e.LineHeight <= 0 || e.CharWidth <= 0 || e.TabSize <= 0 {
		return fmt.Errorf("%w: editor line_height, char_width and tab_size must be positive", ErrInvalidConfig)
	}
	if e.ContentLeft < 0 || e.ScrollbarWidth < 0 || e.MinimapWidth < 0 {
		return fmt.Errorf("%w: editor sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and validates the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	c, err := Parse(data, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Parse decodes data on top of the defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	c := Default()
	var err error
	switch format {
	case FormatTOML:
		d := toml.NewDecoder(bytes.NewReader(data))
		d.DisallowUnknownFields()
		err = d.Decode(c)
	case FormatYAML:
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		if err = d.Decode(c); errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		err = decodeJSON(data, c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: "<data>", Format: format, Message: err.Error(), Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal encodes c in the given format.
func Marshal(c *Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	case FormatJSON:
		return encodeJSON(c)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save writes c to path in the format its extension names.
func Save(c *Config, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(c, format)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
