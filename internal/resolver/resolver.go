// SPDX-License-Identifier: Apache-2.0

// Package resolver implements the per-file conflict state machine:
// Detected -> (critical? escalate : auto-resolve) -> Resolved | NeedsManual.
//
// Auto-resolution is deliberately coarse: whole-file latest-timestamp
// tie-break on top of the object store's line-based merge. The losing body
// is always archived verbatim before it is discarded, so no resolution is
// destructive.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/utils"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// ErrMalformedConflict indicates conflict markers that do not pair up into
// complete hunks. The file is left untouched.
var ErrMalformedConflict = errors.New("malformed conflict markers")

// DefaultCriticalFiles are the basenames that are never auto-merged: an
// automatic merge of registry or configuration state could silently corrupt
// every device.
var DefaultCriticalFiles = []string{
	"devices.json",
	"sync-config.json",
	"pending-pushes.json",
}

// Archiver persists the losing side of a resolution and the audit record.
type Archiver interface {
	// ArchiveLoser stores content verbatim and returns the artifact path.
	ArchiveLoser(file, fromDevice string, ts *time.Time, content string) (string, error)
	// AppendRecord appends rec to the append-only resolution log.
	AppendRecord(rec models.ConflictRecord) error
}

// Resolver resolves conflict-marked files.
type Resolver struct {
	device   string
	critical map[string]struct{}
	archive  Archiver
	log      *logger.Logger
}

// New constructs a Resolver for the local device name. criticalFiles may be
// nil to use DefaultCriticalFiles.
func New(device string, criticalFiles []string, archive Archiver, log *logger.Logger) *Resolver {
	if criticalFiles == nil {
		criticalFiles = DefaultCriticalFiles
	}
	critical := make(map[string]struct{}, len(criticalFiles))
	for _, f := range criticalFiles {
		critical[f] = struct{}{}
	}

	return &Resolver{device: device, critical: critical, archive: archive, log: log}
}

// Resolve runs the state machine for one conflicted file. For critical files
// it returns OutcomeManual without touching the file. Otherwise it picks a
// winner, rewrites the file with the winning content, archives the losing
// reconstruction, and appends one ConflictRecord.
func (r *Resolver) Resolve(path string) (models.ConflictResolution, error) {
	if _, isCritical := r.critical[filepath.Base(path)]; isCritical {
		r.log.Warn().Str("file", path).Msg("critical file conflict, manual resolution required")
		return models.ConflictResolution{File: path, Outcome: models.OutcomeManual}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.ConflictResolution{}, fmt.Errorf("read conflicted file: %w", err)
	}

	doc, err := parseConflicts(string(raw))
	if err != nil {
		return models.ConflictResolution{}, err
	}

	localTS, localOK := utils.ExtractTimestamp(doc.localBodies())
	remoteTS, remoteOK := utils.ExtractTimestamp(doc.remoteBodies())
	winner, reason := decideWinner(localTS, localOK, remoteTS, remoteOK)

	winning, losing := doc.reconstruct(models.WinnerLocal), doc.reconstruct(models.WinnerRemote)
	loserDevice := doc.remoteLabel
	loserTS := tsPointer(remoteTS, remoteOK)
	if winner == models.WinnerRemote {
		winning, losing = losing, winning
		loserDevice = r.device
		loserTS = tsPointer(localTS, localOK)
	}

	archivePath, err := r.archive.ArchiveLoser(path, loserDevice, loserTS, losing)
	if err != nil {
		return models.ConflictResolution{}, fmt.Errorf("archive losing version: %w", err)
	}

	if err = os.WriteFile(path, []byte(winning), 0o644); err != nil {
		return models.ConflictResolution{}, fmt.Errorf("write resolved file: %w", err)
	}

	record := models.ConflictRecord{
		File:         path,
		Winner:       winner,
		Reason:       reason,
		LocalDevice:  r.device,
		RemoteDevice: doc.remoteLabel,
		LocalTS:      tsPointer(localTS, localOK),
		RemoteTS:     tsPointer(remoteTS, remoteOK),
		ResolvedAt:   time.Now(),
	}
	if err = r.archive.AppendRecord(record); err != nil {
		return models.ConflictResolution{}, fmt.Errorf("append resolution record: %w", err)
	}

	r.log.Info().
		Str("file", path).
		Str("winner", string(winner)).
		Str("reason", reason).
		Msg("conflict auto-resolved")

	return models.ConflictResolution{
		File:        path,
		Outcome:     models.OutcomeResolved,
		Record:      &record,
		ArchivePath: archivePath,
	}, nil
}

// decideWinner applies the latest-timestamp policy. Remote must be strictly
// later to win; equal timestamps and the no-timestamp case default to local.
func decideWinner(localTS time.Time, localOK bool, remoteTS time.Time, remoteOK bool) (models.ConflictWinner, string) {
	switch {
	case localOK && remoteOK:
		if remoteTS.After(localTS) {
			return models.WinnerRemote, "remote timestamp is later"
		}
		return models.WinnerLocal, "local timestamp is later or equal"
	case localOK:
		return models.WinnerLocal, "only local side carries a timestamp"
	case remoteOK:
		return models.WinnerRemote, "only remote side carries a timestamp"
	default:
		return models.WinnerLocal, "no timestamps found, local wins by default"
	}
}

func tsPointer(ts time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	t := ts
	return &t
}
