// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"time"
)

// SyncConfig is the top-level configuration for the memory synchronization
// layer. It is loaded once per hook invocation by merging values from
// environment variables, command-line flags, and the JSON sync-config file,
// then threaded explicitly into every component constructor. There is no
// ambient global configuration.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type SyncConfig struct {
	// Sync holds the core on/off switches and remote identity.
	Sync Sync `envPrefix:"SYNC_"`

	// Redaction holds the PII-redaction and condensation settings.
	Redaction Redaction `envPrefix:"REDACTION_"`

	// Paths holds the three filesystem roots the layer works with.
	Paths Paths `envPrefix:"PATHS_"`

	// Network holds the timeouts applied to every remote operation. Any
	// operation exceeding its timeout is treated as a network failure.
	Network Network `envPrefix:"NETWORK_"`

	// JSONFilePath is the path to the JSON sync-config file. A missing or
	// malformed file disables synchronization for the invocation instead of
	// failing the hook.
	// Env: MEMSYNC_CONFIG
	JSONFilePath string `env:"MEMSYNC_CONFIG"`
}

// Sync groups the lifecycle switches and the remote endpoint identity.
type Sync struct {
	// Enabled is the master switch. Defaults to false, so a device with no
	// sync-config file never talks to the network.
	// Env: SYNC_ENABLED
	Enabled bool `env:"ENABLED"`

	// CloudEndpoint is the URL of the remote object store (the git remote).
	// Env: SYNC_CLOUD_ENDPOINT
	CloudEndpoint string `env:"CLOUD_ENDPOINT"`

	// DeviceName identifies this device in commit messages, the device
	// registry, and conflict records.
	// Env: SYNC_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// OnStart enables the session-start pull/drain/registry transaction.
	// Env: SYNC_ON_START
	OnStart bool `env:"ON_START"`

	// OnEnd enables the session-end redact/commit/push transaction.
	// Env: SYNC_ON_END
	OnEnd bool `env:"ON_END"`

	// ConflictStrategy selects the automatic conflict policy. The only
	// supported value is "latest-timestamp".
	// Env: SYNC_CONFLICT_STRATEGY
	ConflictStrategy string `env:"CONFLICT_STRATEGY"`
}

// Redaction groups the settings of the redaction engine and the derived
// quick-version condensation.
type Redaction struct {
	// RedactPII gates the whole redaction step of session-end. When false,
	// derivation is skipped entirely and no artifacts are written.
	// Env: REDACTION_REDACT_PII
	RedactPII bool `env:"REDACT_PII"`

	// AutoRedactTypes limits marker substitution to the listed PII types.
	// Empty means every well-formed [PII:TYPE] span is redacted.
	// Env: REDACTION_AUTO_REDACT_TYPES (comma-separated)
	AutoRedactTypes []string `env:"AUTO_REDACT_TYPES" envSeparator:","`

	// QuickSections is the allow-list of section headings retained in the
	// condensed quick artifact.
	// Env: REDACTION_QUICK_SECTIONS (comma-separated)
	QuickSections []string `env:"QUICK_SECTIONS" envSeparator:","`
}

// Paths holds the three roots: raw memory files (local-only), the synced
// working copy, and per-device state that never leaves the machine.
type Paths struct {
	// MemoryDir contains the raw memory files with [PII:TYPE] markers.
	// Never transmitted.
	// Env: PATHS_MEMORY_DIR
	MemoryDir string `env:"MEMORY_DIR"`

	// SyncDir is the git working copy holding derived artifacts and the
	// device registry. This is the only directory that is transmitted.
	// Env: PATHS_SYNC_DIR
	SyncDir string `env:"SYNC_DIR"`

	// StateDir holds the pending-push queue, conflict archive, resolution
	// log, and activity database. Local-only.
	// Env: PATHS_STATE_DIR
	StateDir string `env:"STATE_DIR"`
}

// Network holds the hard timeouts for remote operations. There is no other
// cancellation mechanism in the core.
type Network struct {
	// PullTimeout bounds the session-start pull (e.g. "30s").
	// Env: NETWORK_PULL_TIMEOUT
	PullTimeout time.Duration `env:"PULL_TIMEOUT"`

	// PushTimeout bounds every push attempt, including queue retries.
	// Env: NETWORK_PUSH_TIMEOUT
	PushTimeout time.Duration `env:"PUSH_TIMEOUT"`

	// ProbeTimeout bounds the cloud-endpoint reachability probe.
	// Env: NETWORK_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`
}

// LatestTimestampStrategy is the only conflict strategy the resolver
// implements.
const LatestTimestampStrategy = "latest-timestamp"

// DefaultQuickSections is the heading allow-list used by condensation when
// the config does not override it.
var DefaultQuickSections = []string{
	"Current Focus",
	"Active Projects",
	"Key Decisions",
	"Preferences",
	"Open Questions",
}

// GetSyncConfig loads and merges the configuration from all sources in
// priority order (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (args, excluding the subcommand)
//  3. JSON sync-config file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Per the data-integrity policy, a missing or malformed JSON file does not
// fail the load: the returned config is valid but disabled, and the error
// describes why so the caller can log it.
func GetSyncConfig(args []string) (*SyncConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}

// Disabled returns a configuration with synchronization switched off and
// defaults applied. Used when loading fails for any reason.
func Disabled() *SyncConfig {
	cfg := defaultConfig()
	cfg.Sync.Enabled = false
	return cfg
}

func defaultConfig() *SyncConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root := filepath.Join(home, ".pai")

	hostname, _ := os.Hostname()

	return &SyncConfig{
		Sync: Sync{
			DeviceName:       hostname,
			ConflictStrategy: LatestTimestampStrategy,
		},
		Redaction: Redaction{
			QuickSections: append([]string(nil), DefaultQuickSections...),
		},
		Paths: Paths{
			MemoryDir: filepath.Join(root, "memory"),
			SyncDir:   filepath.Join(root, "sync"),
			StateDir:  filepath.Join(root, "state"),
		},
		Network: Network{
			PullTimeout:  30 * time.Second,
			PushTimeout:  15 * time.Second,
			ProbeTimeout: 3 * time.Second,
		},
		JSONFilePath: filepath.Join(root, "sync-config.json"),
	}
}
