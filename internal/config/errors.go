// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

// Validation errors returned by [SyncConfig.validate] when an enabled
// configuration is incomplete or inconsistent.
var (
	// ErrUnknownConflictStrategy indicates a conflict_strategy value other
	// than "latest-timestamp".
	ErrUnknownConflictStrategy = errors.New("unknown conflict strategy")
	// ErrMissingDeviceName indicates sync is enabled but no device name is
	// configured and the hostname could not be determined.
	ErrMissingDeviceName = errors.New("missing device name")
	// ErrInvalidPathConfigs indicates one of the three directory roots is
	// empty.
	ErrInvalidPathConfigs = errors.New("invalid path configuration")
)
