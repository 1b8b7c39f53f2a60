package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsPermissive(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.StrictTiming)
	assert.False(t, cfg.SerialFixedTiming)
	assert.False(t, cfg.Trace)
	assert.Empty(t, cfg.TracePath)
}

func TestLoadDecodesTOMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmgcore.toml")
	contents := `
strict_timing = true
trace = true
trace_path = "trace.log"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.StrictTiming)
	assert.False(t, cfg.SerialFixedTiming)
	assert.True(t, cfg.Trace)
	assert.Equal(t, "trace.log", cfg.TracePath)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
