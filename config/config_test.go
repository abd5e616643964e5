package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/breeze"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "breeze.toml", `
[renderer]
reserve = 8
structural = "immediate"
material_cache = false

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Renderer.Reserve)
	assert.Equal(t, "immediate", cfg.Renderer.Structural)
	assert.False(t, cfg.Renderer.MaterialCache)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Untouched sections keep their defaults.
	assert.Equal(t, 256, cfg.Renderer.QueueCapacity)
	assert.Equal(t, 640, cfg.Preview.Width)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "breeze.yml", `
renderer:
  reserve: 3
preview:
  width: 320
  height: 200
  background: "#ff0000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Renderer.Reserve)
	assert.Equal(t, 320, cfg.Preview.Width)
	assert.Equal(t, breeze.Red, cfg.Background())
	assert.True(t, cfg.Renderer.MaterialCache)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"unknown extension", "breeze.ini", "reserve=1"},
		{"bad toml", "bad.toml", "[renderer\n"},
		{"bad structural", "s.toml", "[renderer]\nstructural = \"later\"\n"},
		{"bad level", "l.yaml", "logging:\n  level: loud\n"},
		{"bad format", "f.yaml", "logging:\n  format: xml\n"},
		{"empty preview", "p.toml", "[preview]\nwidth = 0\n"},
		{"reserved font", "r.toml", "[[renderer.fonts]]\nhandle = 0\npath = \"x.ttf\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, "breeze.json", "{}"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsBuildRenderer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o600))
	path := filepath.Join(dir, "breeze.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[renderer]
reserve = 0
structural = "immediate"

[[renderer.fonts]]
handle = 4
path = "mono.ttf"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mono.ttf"), cfg.Renderer.Fonts[0].Path)

	opts, err := cfg.Options()
	require.NoError(t, err)
	r, err := breeze.New(opts...)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 0, r.Reserve())
	assert.Equal(t, breeze.StructuralImmediate, r.StructuralMode())
	assert.True(t, r.Measurer().Has(4))
}

func TestOptionsMissingFont(t *testing.T) {
	cfg := Default()
	cfg.Renderer.Fonts = []FontConfig{{Handle: 2, Path: filepath.Join(t.TempDir(), "none.ttf")}}
	_, err := cfg.Options()
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"

	l := cfg.Logger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}
