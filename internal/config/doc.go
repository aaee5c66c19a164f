// SPDX-License-Identifier: Apache-2.0

// Package config loads the sync-layer configuration from environment
// variables, command-line flags, and the JSON sync-config file, merged in
// that priority order.
//
// The load never fails the surrounding hook: a missing or malformed
// sync-config file yields a valid configuration with synchronization
// disabled, plus an error the caller logs.
package config
