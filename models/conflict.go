// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// ConflictWinner names the side whose content survives a resolution.
type ConflictWinner string

const (
	WinnerLocal  ConflictWinner = "local"
	WinnerRemote ConflictWinner = "remote"
)

// ConflictOutcome is the terminal state of the per-file resolution machine.
type ConflictOutcome string

const (
	// OutcomeResolved means the winning body replaced the conflict markers
	// and the file is ready to be staged.
	OutcomeResolved ConflictOutcome = "resolved"
	// OutcomeManual means the file is critical and was left untouched for a
	// human to merge. Not an error.
	OutcomeManual ConflictOutcome = "needs_manual_resolution"
)

// ConflictRecord is an append-only audit entry describing one automatic
// resolution. The losing content is archived separately; this record only
// explains the decision.
type ConflictRecord struct {
	File         string         `json:"file"`
	Winner       ConflictWinner `json:"winner"`
	Reason       string         `json:"reason"`
	LocalDevice  string         `json:"local_device"`
	RemoteDevice string         `json:"remote_device,omitempty"`
	LocalTS      *time.Time     `json:"local_ts,omitempty"`
	RemoteTS     *time.Time     `json:"remote_ts,omitempty"`
	ResolvedAt   time.Time      `json:"resolved_at"`
}

// ConflictResolution is what the resolver returns to the orchestrator for
// one conflicted file.
type ConflictResolution struct {
	File        string          `json:"file"`
	Outcome     ConflictOutcome `json:"outcome"`
	Record      *ConflictRecord `json:"record,omitempty"`
	ArchivePath string          `json:"archive_path,omitempty"`
}
