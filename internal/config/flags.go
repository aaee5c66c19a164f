// SPDX-License-Identifier: Apache-2.0

package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses configuration flags from args (the arguments after the
// hook subcommand). A dedicated FlagSet is used so the subcommand dispatch
// in cmd does not fight over the global flag state.
//
// Flags:
//
//	-c/-config json sync-config file path
//	-device device name override
//	-endpoint cloud endpoint (git remote URL)
//	-memory-dir raw memory files directory
//	-sync-dir synced working copy directory
//	-state-dir local state directory
//	-pull-timeout pull timeout (e.g., "30s")
//	-push-timeout push timeout (e.g., "15s")
func ParseFlags(args []string) (*SyncConfig, error) {
	fs := flag.NewFlagSet("memsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var jsonConfigPath string
	var deviceName string
	var cloudEndpoint string
	var memoryDir, syncDir, stateDir string
	var pullTimeout, pushTimeout time.Duration

	fs.StringVar(&jsonConfigPath, "c", "", "JSON sync-config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON sync-config file path (alias)")
	fs.StringVar(&deviceName, "device", "", "Device name")
	fs.StringVar(&cloudEndpoint, "endpoint", "", "Cloud endpoint (git remote URL)")
	fs.StringVar(&memoryDir, "memory-dir", "", "Raw memory files directory")
	fs.StringVar(&syncDir, "sync-dir", "", "Synced working copy directory")
	fs.StringVar(&stateDir, "state-dir", "", "Local state directory")
	fs.DurationVar(&pullTimeout, "pull-timeout", 0, "Pull timeout (e.g., 30s)")
	fs.DurationVar(&pushTimeout, "push-timeout", 0, "Push timeout (e.g., 15s)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &SyncConfig{
		Sync: Sync{
			DeviceName:    deviceName,
			CloudEndpoint: cloudEndpoint,
		},
		Paths: Paths{
			MemoryDir: memoryDir,
			SyncDir:   syncDir,
			StateDir:  stateDir,
		},
		Network: Network{
			PullTimeout: pullTimeout,
			PushTimeout: pushTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
