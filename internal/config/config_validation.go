// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the merged [SyncConfig] satisfies the invariants the
// orchestrator relies on. Only enabled configurations are validated; a
// disabled config is always acceptable.
func (cfg *SyncConfig) validate() error {
	if !cfg.Sync.Enabled {
		return nil
	}

	if cfg.Sync.ConflictStrategy != LatestTimestampStrategy {
		return ErrUnknownConflictStrategy
	}

	if cfg.Sync.DeviceName == "" {
		return ErrMissingDeviceName
	}

	if cfg.Paths.MemoryDir == "" || cfg.Paths.SyncDir == "" || cfg.Paths.StateDir == "" {
		return ErrInvalidPathConfigs
	}

	return nil
}
