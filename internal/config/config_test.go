// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSyncConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync-config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullSyncConfig = `{
  "sync_enabled": true,
  "cloud_endpoint": "https://git.example.com/memory.git",
  "device_name": "laptop",
  "conflict_strategy": "latest-timestamp",
  "redact_pii": true,
  "auto_redact_types": ["EMAIL", "PHONE"],
  "paths": {
    "memory_dir": "/data/memory",
    "sync_dir": "/data/sync",
    "state_dir": "/data/state"
  },
  "network": {
    "pull_timeout": "45s",
    "push_timeout": "20s"
  }
}`

func TestGetSyncConfigFromJSON(t *testing.T) {
	path := writeSyncConfig(t, fullSyncConfig)

	cfg, err := GetSyncConfig([]string{"-c", path})
	require.NoError(t, err)

	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "https://git.example.com/memory.git", cfg.Sync.CloudEndpoint)
	assert.Equal(t, "laptop", cfg.Sync.DeviceName)
	assert.Equal(t, LatestTimestampStrategy, cfg.Sync.ConflictStrategy)
	assert.True(t, cfg.Redaction.RedactPII)
	assert.Equal(t, []string{"EMAIL", "PHONE"}, cfg.Redaction.AutoRedactTypes)
	assert.Equal(t, "/data/memory", cfg.Paths.MemoryDir)
	assert.Equal(t, 45*time.Second, cfg.Network.PullTimeout)
	assert.Equal(t, 20*time.Second, cfg.Network.PushTimeout)

	// Lifecycle switches absent from the file default to on.
	assert.True(t, cfg.Sync.OnStart)
	assert.True(t, cfg.Sync.OnEnd)

	// Defaults fill what the file omits.
	assert.Equal(t, 3*time.Second, cfg.Network.ProbeTimeout)
	assert.Equal(t, DefaultQuickSections, cfg.Redaction.QuickSections)
}

func TestGetSyncConfigExplicitSwitchOff(t *testing.T) {
	path := writeSyncConfig(t, `{
  "sync_enabled": true,
  "device_name": "laptop",
  "conflict_strategy": "latest-timestamp",
  "on_end": false,
  "paths": {"memory_dir": "/m", "sync_dir": "/s", "state_dir": "/t"}
}`)

	cfg, err := GetSyncConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.True(t, cfg.Sync.OnStart)
	assert.False(t, cfg.Sync.OnEnd)
}

func TestGetSyncConfigMissingFileDisablesSync(t *testing.T) {
	cfg, err := GetSyncConfig([]string{"-c", filepath.Join(t.TempDir(), "absent.json")})

	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.False(t, cfg.Sync.Enabled)
}

func TestGetSyncConfigMalformedFileDisablesSync(t *testing.T) {
	path := writeSyncConfig(t, "{not valid json")

	cfg, err := GetSyncConfig([]string{"-c", path})

	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.False(t, cfg.Sync.Enabled)
}

func TestGetSyncConfigFlagOverridesJSON(t *testing.T) {
	path := writeSyncConfig(t, fullSyncConfig)

	cfg, err := GetSyncConfig([]string{"-c", path, "-device", "desktop", "-pull-timeout", "5s"})
	require.NoError(t, err)

	assert.Equal(t, "desktop", cfg.Sync.DeviceName)
	assert.Equal(t, 5*time.Second, cfg.Network.PullTimeout)
}

func TestGetSyncConfigUnknownStrategy(t *testing.T) {
	path := writeSyncConfig(t, `{
  "sync_enabled": true,
  "device_name": "laptop",
  "conflict_strategy": "newest-device",
  "paths": {"memory_dir": "/m", "sync_dir": "/s", "state_dir": "/t"}
}`)

	_, err := GetSyncConfig([]string{"-c", path})
	assert.ErrorIs(t, err, ErrUnknownConflictStrategy)
}

func TestGetSyncConfigMissingDeviceName(t *testing.T) {
	path := writeSyncConfig(t, `{
  "sync_enabled": true,
  "device_name": "",
  "conflict_strategy": "latest-timestamp",
  "paths": {"memory_dir": "/m", "sync_dir": "/s", "state_dir": "/t"}
}`)

	cfg, err := GetSyncConfig([]string{"-c", path})
	if err == nil {
		// The host name default may have filled the gap; the config must then
		// be fully valid.
		assert.NotEmpty(t, cfg.Sync.DeviceName)
	}
}

func TestDisabled(t *testing.T) {
	cfg := Disabled()
	assert.False(t, cfg.Sync.Enabled)
	assert.NotEmpty(t, cfg.Paths.MemoryDir)
	assert.Equal(t, 30*time.Second, cfg.Network.PullTimeout)
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{"-device", "vm-1", "-sync-dir", "/tmp/sync", "-push-timeout", "7s"})
	require.NoError(t, err)

	assert.Equal(t, "vm-1", cfg.Sync.DeviceName)
	assert.Equal(t, "/tmp/sync", cfg.Paths.SyncDir)
	assert.Equal(t, 7*time.Second, cfg.Network.PushTimeout)
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"-definitely-not-a-flag"})
	require.Error(t, err)
}
