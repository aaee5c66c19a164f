// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/gitstore"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// Skip reasons reported by SessionEnd.
const (
	SkipDisabled     = "sync disabled"
	SkipNotInstalled = "not installed"
	SkipRedaction    = "redaction failed"
	SkipNoChanges    = "no changes"
)

// derivedSubdir is where the redaction engine writes the safe/quick
// artifacts inside the synced working copy.
const derivedSubdir = "memory"

// SessionEnd runs the redact -> commit -> gate -> push transaction.
//
// Ordering is fixed: a redaction failure aborts before anything is
// committed, and the gate runs before push, so nothing unvetted leaves the
// device. A failed push is queued and the session ends successfully; only a
// gate block surfaces as a distinct outcome, carried in the report.
func (o *Orchestrator) SessionEnd(ctx context.Context, event models.SessionEvent) models.EndReport {
	report := models.EndReport{Gate: models.AllowedDecision()}

	if !o.cfg.Sync.Enabled || !o.cfg.Sync.OnEnd {
		report.Skipped = SkipDisabled
		return report
	}
	if o.deps.Store == nil {
		o.log.Warn().Str("dir", o.cfg.Paths.SyncDir).Msg("working copy missing, sync not installed yet")
		report.Skipped = SkipNotInstalled
		return report
	}

	derivedDir := filepath.Join(o.cfg.Paths.SyncDir, derivedSubdir)

	if o.cfg.Redaction.RedactPII {
		artifacts, err := o.deps.Redactor.DeriveAll(o.cfg.Paths.MemoryDir, derivedDir)
		if err != nil {
			// Abort the whole transaction: committing without a complete
			// sanitized set could transmit unredacted content.
			o.log.Error().Err(err).Msg("redaction failed, aborting session-end sync")
			report.Skipped = SkipRedaction
			return report
		}
		report.RedactedFiles = len(artifacts)
	}

	status, err := o.deps.Store.Status(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("status check failed")
		return report
	}
	if status.Clean {
		report.Skipped = SkipNoChanges
		return report
	}

	message := fmt.Sprintf("memory sync: %s @ %s",
		o.cfg.Sync.DeviceName, o.now().Format("2006-01-02T15:04:05Z07:00"))
	commitID, err := o.deps.Store.CommitAll(ctx, message)
	if err != nil {
		o.log.Error().Err(err).Msg("commit failed")
		return report
	}
	report.CommitID = commitID

	report.Gate = o.deps.Gate.Check(derivedDir)
	if !report.Gate.Allowed {
		// Local work is preserved in the commit; transmission is refused.
		o.log.Error().Int("findings", len(report.Gate.Findings)).
			Msg("pre-transmission gate blocked the push")
		o.recordActivity(ctx, event, status, report)
		return report
	}

	pushCtx, cancel := context.WithTimeout(ctx, o.cfg.Network.PushTimeout)
	err = o.deps.Store.Push(pushCtx)
	cancel()

	if err == nil {
		report.Pushed = true
		o.log.Info().Str("commit", commitID).Msg("memory changes pushed")
	} else {
		cause := err.Error()
		if errors.Is(err, gitstore.ErrNetwork) {
			o.log.Info().Err(err).Msg("push failed on the network, queueing for retry")
		} else {
			o.log.Warn().Err(err).Msg("push rejected, queueing for retry")
		}
		if qErr := o.deps.Queue.Enqueue(commitID, cause); qErr != nil {
			o.log.Error().Err(qErr).Msg("queueing deferred push failed")
		} else {
			report.Queued = true
		}
	}

	o.recordActivity(ctx, event, status, report)
	return report
}

// recordActivity appends the best-effort daily log entry. Failures are
// logged and swallowed.
func (o *Orchestrator) recordActivity(ctx context.Context, event models.SessionEvent, status models.WorktreeStatus, report models.EndReport) {
	if o.deps.Activity == nil {
		return
	}

	entry := models.SessionActivity{
		ID:              o.ids.Generate(),
		Day:             o.now().Format("2006-01-02"),
		Device:          o.cfg.Sync.DeviceName,
		DurationSeconds: event.DurationSeconds,
		FilesChanged:    len(status.Changed),
		Pushed:          report.Pushed,
		Queued:          report.Queued,
	}

	if err := o.deps.Activity.RecordSession(ctx, entry); err != nil {
		o.log.Warn().Err(err).Msg("activity log append failed")
	}
}
