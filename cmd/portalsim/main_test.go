package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/trace"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Level)
	assert.Equal(t, 600, cfg.Ticks)
	assert.InDelta(t, 1.0/60, cfg.DT, 1e-12)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("PORTALSIM_TICKS", "42")
	t.Setenv("PORTALSIM_LOG_LEVEL", "debug")

	cfg, err := loadConfig([]string{"--ticks", "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Ticks, "flags win over the environment")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: other\ndt: 0.05\n"), 0o644))

	cfg, err := loadConfig([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Level)
	assert.Equal(t, 0.05, cfg.DT)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := loadConfig([]string{"--dt", "0", "--ticks", "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dt")
	assert.Contains(t, err.Error(), "ticks")
}

func TestRunDemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl.zst")
	var out bytes.Buffer
	err := run(Config{Level: "demo", Ticks: 240, DT: 1.0 / 60, Trace: path}, zap.NewNop(), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "PORTAL"))
	assert.Contains(t, out.String(), "west_gate")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := trace.ReadAll[system.Record](f)
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
}
