package config

import (
	"os"
	"path/filepath"
	"testing"

	"battlemap-engine/internal/grid"
	"battlemap-engine/internal/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapgeom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
grid:
  kind: hex-pointy
  cell_size: 60
  offset_x: 5
fog:
  initially_hidden: true
room:
  resolution: 10
  blocking_only: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "untouched keys keep defaults")
	assert.Equal(t, grid.KindHexPointy, cfg.Grid.Kind)
	assert.Equal(t, 60.0, cfg.Grid.CellSize)
	assert.Equal(t, 5.0, cfg.Grid.OffsetX)
	assert.True(t, cfg.Fog.InitiallyHidden)
	assert.Equal(t, 10.0, cfg.Room.Resolution)
	assert.Equal(t, room.DefaultToleranceFactor, cfg.Room.ToleranceFactor)
	assert.True(t, cfg.Room.BlockingOnly)
	assert.Equal(t, "fog.fogl", cfg.Storage.FogLog)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "grid: [unclosed"},
		{"unknown kind", "grid:\n  kind: triangle\n"},
		{"zero cell size", "grid:\n  kind: square\n  cell_size: 0\n"},
		{"negative resolution", "room:\n  resolution: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err, "explicit path must exist")

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, writeFile(t, "grid:\n  kind: isometric\n  cell_size: 64\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, grid.KindIsometric, cfg.Grid.Kind)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LoggerOptions().Level)
}
