package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reboot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log_level: debug
kernel: manifold
script_timeout: 250ms
mesh_cells: 32
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "manifold", cfg.Kernel)
	assert.Equal(t, 250*time.Millisecond, cfg.ScriptTimeout)
	assert.Equal(t, 32, cfg.MeshCells)
	// Untouched keys keep their defaults.
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, int64(50), cfg.InitRadius)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad level", "log_level: chatty", "LogLevel"},
		{"bad format", "format: json", "Format"},
		{"bad kernel", "kernel: opencascade", "Kernel"},
		{"too few cells", "mesh_cells: 2", "MeshCells"},
		{"zero timeout", "script_timeout: 0s", "ScriptTimeout"},
		{"huge radius", "init_radius: 5000", "InitRadius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "log_levle: debug"))
	assert.ErrorContains(t, err, "log_levle")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := Default()
	want.MetricsFile = "/tmp/reboot.prom"
	require.NoError(t, Write(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeDecodes(t *testing.T) {
	want := Default()
	want.ScriptTimeout = 250 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, want))
	assert.Contains(t, buf.String(), "script_timeout: 250ms")

	got := Config{}
	require.NoError(t, Decode(buf.Bytes(), &got))
	assert.Equal(t, want, got)
}

func TestWriteMissingDir(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "reboot.yaml"), Default())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
