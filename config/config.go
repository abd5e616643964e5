// Package config loads breeze renderer and tool settings from TOML or YAML
// files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/breeze"
)

// ErrUnknownFormat is returned for config files that are neither TOML nor
// YAML.
var ErrUnknownFormat = errors.New("config: unknown file format")

type Config struct {
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Preview  PreviewConfig  `toml:"preview" yaml:"preview"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
}

type RendererConfig struct {
	Reserve             int          `toml:"reserve" yaml:"reserve"`
	Structural          string       `toml:"structural" yaml:"structural"` // "deferred" or "immediate"
	MaterialCache       bool         `toml:"material_cache" yaml:"material_cache"`
	QueueCapacity       int          `toml:"queue_capacity" yaml:"queue_capacity"`
	TextMetricsCapacity int          `toml:"text_metrics_capacity" yaml:"text_metrics_capacity"`
	Fonts               []FontConfig `toml:"fonts" yaml:"fonts"`
}

// FontConfig registers a font file under a handle. Relative paths are
// resolved against the config file's directory.
type FontConfig struct {
	Handle uint64 `toml:"handle" yaml:"handle"`
	Path   string `toml:"path" yaml:"path"`
}

type PreviewConfig struct {
	Width         int     `toml:"width" yaml:"width"`
	Height        int     `toml:"height" yaml:"height"`
	PixelsPerUnit float32 `toml:"pixels_per_unit" yaml:"pixels_per_unit"`
	Background    string  `toml:"background" yaml:"background"` // hex color
	Frames        int     `toml:"frames" yaml:"frames"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "text" or "json"
}

// Load reads a config file. The format follows the extension: .toml, or
// .yaml/.yml. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, f := range cfg.Renderer.Fonts {
		if f.Path != "" && !filepath.IsAbs(f.Path) {
			cfg.Renderer.Fonts[i].Path = filepath.Join(base, f.Path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Renderer: RendererConfig{
			Reserve:       breeze.DefaultReserve,
			Structural:    breeze.StructuralDeferred.String(),
			MaterialCache: true,
			QueueCapacity: 256,
		},
		Preview: PreviewConfig{
			Width:         640,
			Height:        480,
			PixelsPerUnit: 1,
			Background:    "#202020",
			Frames:        60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports settings no renderer can be built from.
func (c *Config) Validate() error {
	if _, err := parseStructural(c.Renderer.Structural); err != nil {
		return err
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging format %q: want text or json", c.Logging.Format)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size %dx%d must be positive", c.Preview.Width, c.Preview.Height)
	}
	for _, f := range c.Renderer.Fonts {
		if f.Handle == 0 {
			return fmt.Errorf("font %s: handle 0 is reserved for the default font", f.Path)
		}
	}
	return nil
}

// Options converts the renderer section into renderer options. Font files
// are read here.
func (c *Config) Options() ([]breeze.Option, error) {
	r := c.Renderer
	opts := []breeze.Option{
		breeze.WithReserve(r.Reserve),
		breeze.WithQueueCapacity(r.QueueCapacity),
	}
	mode, err := parseStructural(r.Structural)
	if err != nil {
		return nil, err
	}
	if mode == breeze.StructuralImmediate {
		opts = append(opts, breeze.WithImmediateStructuralChanges())
	}
	if !r.MaterialCache {
		opts = append(opts, breeze.WithoutMaterialCache())
	}
	if r.TextMetricsCapacity > 0 {
		opts = append(opts, breeze.WithTextMetricsCapacity(r.TextMetricsCapacity))
	}
	for _, f := range r.Fonts {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read font %d: %w", f.Handle, err)
		}
		opts = append(opts, breeze.WithFont(breeze.FontHandle(f.Handle), data))
	}
	return opts, nil
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	ho := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

// Background returns the preview clear color.
func (c *Config) Background() breeze.Color { return breeze.Hex(c.Preview.Background) }

func parseStructural(s string) (breeze.StructuralMode, error) {
	switch s {
	case "", breeze.StructuralDeferred.String():
		return breeze.StructuralDeferred, nil
	case breeze.StructuralImmediate.String():
		return breeze.StructuralImmediate, nil
	}
	return 0, fmt.Errorf("structural mode %q: want deferred or immediate", s)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging level %q: %w", s, err)
	}
	return l, nil
}
