// SPDX-License-Identifier: Apache-2.0

package models

// SessionEvent is the JSON object a hook invocation receives on standard
// input. All fields are optional; an empty event is valid.
type SessionEvent struct {
	SessionID       string         `json:"session_id,omitempty"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	ToolUsage       map[string]int `json:"tool_usage,omitempty"`
	Reason          string         `json:"reason,omitempty"`
}

// SyncMode describes how far a session-start got with the remote.
type SyncMode string

const (
	ModeDisabled     SyncMode = "disabled"
	ModeNotInstalled SyncMode = "not_installed"
	ModeOffline      SyncMode = "offline"
	ModeSynced       SyncMode = "synced"
)

// StartReport summarises one session-start invocation. The hook itself always
// exits successfully; the report exists for logging and tests.
type StartReport struct {
	Mode        SyncMode             `json:"mode"`
	Conflicts   []ConflictResolution `json:"conflicts,omitempty"`
	Drain       DrainReport          `json:"drain"`
	DeviceSeen  bool                 `json:"device_seen"`
	PullSkipped string               `json:"pull_skipped,omitempty"`
}

// EndReport summarises one session-end invocation.
type EndReport struct {
	Skipped       string       `json:"skipped,omitempty"`
	RedactedFiles int          `json:"redacted_files"`
	CommitID      string       `json:"commit_id,omitempty"`
	Pushed        bool         `json:"pushed"`
	Queued        bool         `json:"queued"`
	Gate          GateDecision `json:"gate"`
}
