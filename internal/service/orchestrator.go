// SPDX-License-Identifier: Apache-2.0

// Package service contains the sync orchestrator: the two lifecycle
// transactions that keep the memory files consistent across devices. The
// overriding invariant of both is that the surrounding session is never
// blocked — every failure short of a local bug degrades and logs.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/config"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/gitstore"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/store"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/utils"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// Deps bundles the orchestrator's collaborators. Store may be nil when the
// working copy is not installed yet; every other field is required.
type Deps struct {
	Store    ObjectStore
	Queue    PendingQueue
	Registry Registry
	Redactor Redactor
	Resolver ConflictResolver
	Gate     TransmissionGate
	Probe    ReachabilityProbe
	Activity ActivityRecorder
}

// Orchestrator drives the session-start and session-end transactions.
type Orchestrator struct {
	cfg  *config.SyncConfig
	deps Deps
	ids  *utils.UUIDGenerator
	log  *logger.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewOrchestrator(cfg *config.SyncConfig, deps Deps, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		ids:  utils.NewUUIDGenerator(),
		log:  log,
		now:  time.Now,
	}
}

// SessionStart runs the pull -> resolve -> drain -> registry transaction.
// The fixed ordering matters: conflicts are settled before deferred pushes
// are retried, and the registry heartbeat is last so it reflects a settled
// working copy. The returned report is for logging and tests only; the hook
// exits successfully whatever happens here.
func (o *Orchestrator) SessionStart(ctx context.Context, event models.SessionEvent) models.StartReport {
	report := models.StartReport{Mode: models.ModeSynced}

	if !o.cfg.Sync.Enabled || !o.cfg.Sync.OnStart {
		report.Mode = models.ModeDisabled
		return report
	}
	if o.deps.Store == nil {
		o.log.Warn().Str("dir", o.cfg.Paths.SyncDir).Msg("working copy missing, sync not installed yet")
		report.Mode = models.ModeNotInstalled
		return report
	}

	offline := !o.deps.Probe.Reachable(ctx, o.cfg.Sync.CloudEndpoint)
	if offline {
		o.log.Info().Msg("cloud endpoint unreachable, entering offline mode")
		report.Mode = models.ModeOffline
		report.PullSkipped = "endpoint unreachable"
	} else {
		report = o.pullAndResolve(ctx, report)
	}

	drain, err := o.deps.Queue.Drain(ctx, o.timedPush)
	if err != nil {
		o.log.Error().Err(err).Msg("draining pending pushes failed")
	}
	report.Drain = drain

	if err = o.deps.Registry.Touch(o.cfg.Sync.DeviceName, o.now()); err != nil {
		if errors.Is(err, store.ErrDeviceNotFound) {
			o.log.Warn().Str("device", o.cfg.Sync.DeviceName).
				Msg("device not in registry; run registration to add it")
		} else {
			o.log.Error().Err(err).Msg("registry heartbeat failed")
		}
	} else {
		report.DeviceSeen = true
	}

	return report
}

// pullAndResolve performs the bounded pull and, when the working tree ends
// up with conflict markers, walks every conflicted file through the
// resolver. Per-file outcomes never stop the loop: a resolved file is
// staged, an escalated or failed one is left for a human.
func (o *Orchestrator) pullAndResolve(ctx context.Context, report models.StartReport) models.StartReport {
	pullCtx, cancel := context.WithTimeout(ctx, o.cfg.Network.PullTimeout)
	defer cancel()

	err := o.deps.Store.Pull(pullCtx)
	switch {
	case err == nil:
	case errors.Is(err, gitstore.ErrNetwork):
		o.log.Info().Err(err).Msg("pull failed on the network, entering offline mode")
		report.Mode = models.ModeOffline
		report.PullSkipped = "network failure"
		return report
	case errors.Is(err, gitstore.ErrDiverged):
		o.log.Info().Msg("histories diverged, checking working tree for conflicts")
	default:
		o.log.Error().Err(err).Msg("pull failed")
		report.PullSkipped = "pull error"
		return report
	}

	conflicted, err := o.deps.Store.ConflictedFiles(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("conflict scan failed")
		return report
	}

	for _, file := range conflicted {
		resolution, err := o.deps.Resolver.Resolve(file)
		if err != nil {
			o.log.Error().Err(err).Str("file", file).Msg("conflict resolution failed, leaving file for manual merge")
			continue
		}
		report.Conflicts = append(report.Conflicts, resolution)

		if resolution.Outcome == models.OutcomeResolved {
			if err = o.deps.Store.Add(ctx, file); err != nil {
				o.log.Error().Err(err).Str("file", file).Msg("staging resolved file failed")
			}
		}
	}

	return report
}

// timedPush is the drain callback: one bounded push attempt per queue entry.
func (o *Orchestrator) timedPush(ctx context.Context, commitID string) error {
	pushCtx, cancel := context.WithTimeout(ctx, o.cfg.Network.PushTimeout)
	defer cancel()

	return o.deps.Store.Push(pushCtx)
}
