package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/htmlview/pkg/blockengine"
	"github.com/go-drift/htmlview/pkg/errors"
	"github.com/go-drift/htmlview/pkg/graphics"
)

func TestResolveWithoutFile(t *testing.T) {
	dir := t.TempDir()
	r, err := Resolve(dir, blockengine.Version)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Root != dir || r.Width != DefaultWidth || r.Height != 0 || r.EngineVersion != "latest" {
		t.Errorf("resolved = %+v", r)
	}
	e := r.Engine
	if e.Background != 0 || e.Color != 0 || e.LinkColor != 0 || e.HoverColor != 0 || e.CacheSize != 0 || e.Face != nil {
		t.Errorf("engine options = %+v, want zero so engine defaults apply", e)
	}
}

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	data := `viewport:
  width: 320
  height: 240
  minHeight: 50
engine:
  version: 0.1.0
  background: "#ffffff"
  color: navy
  linkColor: "#00f"
  cacheSize: 4
log:
  verbose: true
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Resolve(dir, "v0.1.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Width != 320 || r.Height != 240 || r.MinHeight != 50 || !r.Verbose {
		t.Errorf("resolved = %+v", r)
	}
	if r.EngineVersion != "v0.1.0" {
		t.Errorf("EngineVersion = %q", r.EngineVersion)
	}
	want := blockengine.Options{
		Background: graphics.ColorWhite,
		Color:      graphics.RGB(0, 0, 0x80),
		LinkColor:  graphics.ColorBlue,
		CacheSize:  4,
	}
	if r.Engine.Background != want.Background || r.Engine.Color != want.Color ||
		r.Engine.LinkColor != want.LinkColor || r.Engine.HoverColor != 0 || r.Engine.CacheSize != want.CacheSize {
		t.Errorf("engine = %+v, want %+v", r.Engine, want)
	}
}

func TestResolveRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative width", "viewport:\n  width: -1\n"},
		{"negative min height", "viewport:\n  minHeight: -5\n"},
		{"bad color", "engine:\n  color: chartreuse-ish\n"},
		{"bad version", "engine:\n  version: one\n"},
		{"major mismatch", "engine:\n  version: v1.0.0\n"},
		{"newer than linked", "engine:\n  version: v0.2.0\n"},
		{"negative cache", "engine:\n  cacheSize: -1\n"},
		{"unknown key", "viewport:\n  depth: 3\n"},
		{"malformed", "viewport: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err == nil {
				_, err = cfg.Resolve("v0.1.0")
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			var viewErr *errors.ViewError
			if !stderrors.As(err, &viewErr) || viewErr.Kind != errors.KindConfig {
				t.Errorf("err = %v, want a config error", err)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestCheckEngineVersion(t *testing.T) {
	tests := []struct {
		pinned, linked, want string
		wantErr              bool
	}{
		{"", "v0.1.0", "latest", false},
		{"latest", "v0.1.0", "latest", false},
		{"0.1", "v0.1.0", "v0.1.0", false},
		{"v0.0.9", "v0.1.0", "v0.0.9", false},
		{"v1.2.3", "", "v1.2.3", false},
		{"v0.1.1", "v0.1.0", "", true},
		{"2", "v0.1.0", "", true},
	}
	for _, tt := range tests {
		got, err := checkEngineVersion(tt.pinned, tt.linked)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("checkEngineVersion(%q, %q) = %q, %v", tt.pinned, tt.linked, got, err)
		}
	}
}

func TestLoadOptionalUnreadable(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, FileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptional(dir); err == nil {
		t.Error("expected an error reading a directory")
	}
}

func TestEffectiveFillsDefaults(t *testing.T) {
	r, err := (&Config{Engine: EngineConfig{LinkColor: "red"}}).Resolve(blockengine.Version)
	if err != nil {
		t.Fatal(err)
	}
	eff := r.Effective()
	if eff.Viewport.Width != DefaultWidth || eff.Engine.Version != "latest" {
		t.Errorf("effective = %+v", eff)
	}
	if eff.Engine.Background != "#f0f0f0" || eff.Engine.LinkColor != "#ff0000" {
		t.Errorf("colors = %+v", eff.Engine)
	}
	if eff.Engine.CacheSize != blockengine.DefaultCacheSize {
		t.Errorf("cacheSize = %d", eff.Engine.CacheSize)
	}

	again, err := eff.Resolve(blockengine.Version)
	if err != nil {
		t.Fatalf("effective config should resolve: %v", err)
	}
	if again.Engine.LinkColor != graphics.ColorRed || again.Width != DefaultWidth {
		t.Errorf("round trip = %+v", again)
	}
}
