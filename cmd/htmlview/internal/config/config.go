// Package config loads the optional htmlview.yaml file used by the CLI.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/htmlview/pkg/blockengine"
	"github.com/go-drift/htmlview/pkg/errors"
	"github.com/go-drift/htmlview/pkg/graphics"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "htmlview.yaml"

// DefaultWidth is the viewport width used when none is configured.
const DefaultWidth = 800

// Config represents the optional htmlview.yaml configuration.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
}

// ViewportConfig contains the host size. A zero height sizes the view to
// its content.
type ViewportConfig struct {
	Width     int `yaml:"width,omitempty"`
	Height    int `yaml:"height,omitempty"`
	MinHeight int `yaml:"minHeight,omitempty"`
}

// EngineConfig contains engine settings. Colors use CSS notation.
type EngineConfig struct {
	Version    string `yaml:"version,omitempty"`
	Background string `yaml:"background,omitempty"`
	Color      string `yaml:"color,omitempty"`
	LinkColor  string `yaml:"linkColor,omitempty"`
	HoverColor string `yaml:"hoverColor,omitempty"`
	CacheSize  int    `yaml:"cacheSize,omitempty"`
}

// LogConfig controls error reporting.
type LogConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	Width         int
	Height        int
	MinHeight     int
	EngineVersion string
	Engine        blockengine.Options
	Verbose       bool
}

// LoadOptional reads htmlview.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes configuration data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, invalid("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads htmlview.yaml from dir (if present) and applies defaults.
// engineVersion is the version of the engine linked into the binary.
func Resolve(dir, engineVersion string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve(engineVersion)
	if err != nil {
		return nil, err
	}
	r.Root = dir
	return r, nil
}

// Resolve validates cfg and applies defaults.
func (cfg *Config) Resolve(engineVersion string) (*Resolved, error) {
	r := &Resolved{
		Width:     cfg.Viewport.Width,
		Height:    cfg.Viewport.Height,
		MinHeight: cfg.Viewport.MinHeight,
		Verbose:   cfg.Log.Verbose,
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Width < 0 || r.Height < 0 || r.MinHeight < 0 {
		return nil, invalid("viewport dimensions must not be negative (got %dx%d, min %d)", r.Width, r.Height, r.MinHeight)
	}

	version, err := checkEngineVersion(cfg.Engine.Version, engineVersion)
	if err != nil {
		return nil, err
	}
	r.EngineVersion = version

	if cfg.Engine.CacheSize < 0 {
		return nil, invalid("engine.cacheSize must not be negative (got %d)", cfg.Engine.CacheSize)
	}
	r.Engine.CacheSize = cfg.Engine.CacheSize

	colors := []struct {
		key   string
		value string
		dst   *graphics.Color
	}{
		{"engine.background", cfg.Engine.Background, &r.Engine.Background},
		{"engine.color", cfg.Engine.Color, &r.Engine.Color},
		{"engine.linkColor", cfg.Engine.LinkColor, &r.Engine.LinkColor},
		{"engine.hoverColor", cfg.Engine.HoverColor, &r.Engine.HoverColor},
	}
	for _, c := range colors {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		parsed, ok := graphics.ParseColor(c.value)
		if !ok {
			return nil, invalid("%s is not a color (got %q)", c.key, c.value)
		}
		*c.dst = parsed
	}
	return r, nil
}

// checkEngineVersion accepts an empty or "latest" pin, or a semantic
// version with the same major version as the linked engine that is not
// newer than it.
func checkEngineVersion(pinned, linked string) (string, error) {
	pinned = strings.TrimSpace(pinned)
	if pinned == "" || pinned == "latest" {
		return "latest", nil
	}
	want := canonical(pinned)
	if want == "" {
		return "", invalid("engine.version must be a semantic version (got %q)", pinned)
	}
	have := canonical(linked)
	if have == "" {
		return want, nil
	}
	if semver.Major(want) != semver.Major(have) {
		return "", invalid("engine.version %s is incompatible with engine %s", want, have)
	}
	if semver.Compare(want, have) > 0 {
		return "", invalid("engine.version %s is newer than engine %s", want, have)
	}
	return want, nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

func invalid(format string, args ...any) error {
	return &errors.ViewError{
		Op:   "config",
		Kind: errors.KindConfig,
		Err:  fmt.Errorf(format, args...),
	}
}

// Effective returns r in file form with every default filled in.
func (r *Resolved) Effective() Config {
	opts := r.Engine.WithDefaults()
	return Config{
		Viewport: ViewportConfig{
			Width:     r.Width,
			Height:    r.Height,
			MinHeight: r.MinHeight,
		},
		Engine: EngineConfig{
			Version:    r.EngineVersion,
			Background: opts.Background.Hex(),
			Color:      opts.Color.Hex(),
			LinkColor:  opts.LinkColor.Hex(),
			HoverColor: opts.HoverColor.Hex(),
			CacheSize:  opts.CacheSize,
		},
		Log: LogConfig{Verbose: r.Verbose},
	}
}
