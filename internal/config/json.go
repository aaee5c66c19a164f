// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors the on-disk sync-config file. Field names
// follow the external configuration contract (sync_enabled, cloud_endpoint,
// ...). OnStart/OnEnd are pointers so an absent switch defaults to true
// while an explicit false stays false.
type StructuredJSONConfig struct {
	SyncEnabled      bool     `json:"sync_enabled"`
	CloudEndpoint    string   `json:"cloud_endpoint"`
	DeviceName       string   `json:"device_name"`
	OnStart          *bool    `json:"on_start,omitempty"`
	OnEnd            *bool    `json:"on_end,omitempty"`
	ConflictStrategy string   `json:"conflict_strategy,omitempty"`
	RedactPII        bool     `json:"redact_pii"`
	AutoRedactTypes  []string `json:"auto_redact_types,omitempty"`
	QuickSections    []string `json:"quick_sections,omitempty"`

	Paths struct {
		MemoryDir string `json:"memory_dir"`
		SyncDir   string `json:"sync_dir"`
		StateDir  string `json:"state_dir"`
	} `json:"paths,omitempty"`

	Network struct {
		PullTimeout  Duration `json:"pull_timeout"`
		PushTimeout  Duration `json:"push_timeout"`
		ProbeTimeout Duration `json:"probe_timeout"`
	} `json:"network,omitempty"`
}

func parseJSON(jsonFilePath string) (*SyncConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading sync-config file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding sync-config json: %w", err)
	}

	onStart := true
	if jsonCfg.OnStart != nil {
		onStart = *jsonCfg.OnStart
	}
	onEnd := true
	if jsonCfg.OnEnd != nil {
		onEnd = *jsonCfg.OnEnd
	}

	cfg := &SyncConfig{
		Sync: Sync{
			Enabled:          jsonCfg.SyncEnabled,
			CloudEndpoint:    jsonCfg.CloudEndpoint,
			DeviceName:       jsonCfg.DeviceName,
			OnStart:          onStart,
			OnEnd:            onEnd,
			ConflictStrategy: jsonCfg.ConflictStrategy,
		},
		Redaction: Redaction{
			RedactPII:       jsonCfg.RedactPII,
			AutoRedactTypes: jsonCfg.AutoRedactTypes,
			QuickSections:   jsonCfg.QuickSections,
		},
		Paths: Paths{
			MemoryDir: jsonCfg.Paths.MemoryDir,
			SyncDir:   jsonCfg.Paths.SyncDir,
			StateDir:  jsonCfg.Paths.StateDir,
		},
		Network: Network{
			PullTimeout:  time.Duration(jsonCfg.Network.PullTimeout),
			PushTimeout:  time.Duration(jsonCfg.Network.PushTimeout),
			ProbeTimeout: time.Duration(jsonCfg.Network.ProbeTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "30s", "1m".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
