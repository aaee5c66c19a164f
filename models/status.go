// SPDX-License-Identifier: Apache-2.0

package models

// WorktreeStatus is the object store's view of the local working copy.
type WorktreeStatus struct {
	Clean   bool     `json:"clean"`
	Changed []string `json:"changed,omitempty"`
}

// SessionActivity is one best-effort row in the device's daily activity log.
type SessionActivity struct {
	ID              string  `json:"id"`
	Day             string  `json:"day"`
	Device          string  `json:"device"`
	DurationSeconds float64 `json:"duration_seconds"`
	FilesChanged    int     `json:"files_changed"`
	Pushed          bool    `json:"pushed"`
	Queued          bool    `json:"queued"`
}

// RedactedArtifact describes one pair of derived files produced by the
// redaction engine for a single memory file.
type RedactedArtifact struct {
	Source    string `json:"source"`
	SafePath  string `json:"safe_path"`
	QuickPath string `json:"quick_path"`
	Spans     int    `json:"spans"`
	Malformed int    `json:"malformed"`
}
