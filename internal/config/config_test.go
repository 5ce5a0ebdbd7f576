package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retentiond.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "data_path: /var/lib/node/data\n")

	cfg, err := Load(path)
	require.NoError(t, err, "minimal config should load")

	assert.Equal(t, "/var/lib/node/data", cfg.DataPath)
	assert.Equal(t, DefaultHotSubdir, cfg.HotSubdir)
	assert.Equal(t, DefaultExclusions, cfg.Exclusions)
	assert.Equal(t, "*/5 * * * *", cfg.Schedule)
	assert.Equal(t, 20, cfg.Log.MaxSizeMB)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
data_path: /srv/node
hot_subdir: statuses/hourly
exclusions:
  - visualizer_checkpoints
  - "**/*.snapshot"
schedule: "*/10 * * * *"
log:
  file: /var/log/retentiond/retentiond.log
  max_size_mb: 50
archive:
  enabled: true
  bucket: node-archive
  prefix: cold
thresholds:
  general:
    - {usage: 90, minutes: 30, name: critical}
    - {usage: 0, minutes: 2880, name: low}
  hot:
    - {usage: 80, minutes: 120}
    - {usage: 0, minutes: 240}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "statuses/hourly", cfg.HotSubdir)
	assert.Equal(t, "/var/log/retentiond/retentiond.log", cfg.Log.File)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups, "unset log knobs keep defaults")
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "node-archive", cfg.Archive.Bucket)

	table, err := cfg.PolicyTable()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, table.Classify(95).General)
	assert.Equal(t, 120*time.Minute, table.Classify(95).Hot)
	assert.Equal(t, 2880*time.Minute, table.Classify(10).General)
}

func TestLoadMissingDataPath(t *testing.T) {
	path := writeConfig(t, "schedule: \"* * * * *\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_path")
}

func TestLoadRelativeDataPath(t *testing.T) {
	path := writeConfig(t, "data_path: relative/data\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}

func TestLoadArchiveNeedsBucket(t *testing.T) {
	path := writeConfig(t, "data_path: /srv/node\narchive:\n  enabled: true\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive.bucket")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err, "an explicitly named missing config is an error")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RETENTIOND_DATA_PATH", "/srv/from-env")

	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "env-only config should load without a file")
	assert.Equal(t, "/srv/from-env", cfg.DataPath)
}

func TestLoadBadThresholds(t *testing.T) {
	path := writeConfig(t, `
data_path: /srv/node
thresholds:
  general:
    - {usage: 60, minutes: 60}
`)

	_, err := Load(path)
	require.Error(t, err, "a general table without a usage-0 band is rejected")
}
