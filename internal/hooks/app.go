// SPDX-License-Identifier: Apache-2.0

// Package hooks is the boundary between the host's hook protocol and the
// sync core. It wires the components together for one invocation, parses
// the JSON event from standard input, and translates the orchestrator's
// typed results into exit codes: 0 for everything except a pre-transmission
// gate block, which maps to ExitBlocked.
package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/adapter"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/config"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/gitstore"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/redact"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/resolver"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/scan"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/service"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/store"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// Exit codes of the hook protocol.
const (
	ExitOK = 0
	// ExitBlocked is returned only when the pre-transmission gate refuses a
	// push. It is the single exception to "hooks always succeed".
	ExitBlocked = 2
	// ExitUsage is returned for interactive misuse (unknown subcommand).
	ExitUsage = 1
)

// App runs one hook invocation.
type App struct {
	stdin  io.Reader
	stdout io.Writer
}

func NewApp(stdin io.Reader, stdout io.Writer) *App {
	return &App{stdin: stdin, stdout: stdout}
}

// Run dispatches the subcommand in args[0] and returns the process exit
// code. Internal failures are logged to stderr and never surface as a
// non-zero exit, with the gate-block exception.
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: memsync <session-start|session-end|verify> [flags]")
		return ExitUsage
	}

	command := args[0]
	log := logger.NewHookLogger(command)

	cfg, err := config.GetSyncConfig(args[1:])
	if err != nil {
		log.Warn().Err(err).Msg("configuration incomplete")
		if cfg == nil {
			cfg = config.Disabled()
		}
	}

	ctx := context.Background()

	switch command {
	case "session-start":
		orch := a.buildOrchestrator(ctx, cfg, log)
		report := orch.SessionStart(ctx, a.readEvent(log))
		log.Info().Interface("report", report).Msg("session-start sync finished")
		return ExitOK

	case "session-end":
		orch := a.buildOrchestrator(ctx, cfg, log)
		report := orch.SessionEnd(ctx, a.readEvent(log))
		log.Info().Interface("report", report).Msg("session-end sync finished")
		if !report.Gate.Allowed {
			fmt.Fprint(a.stdout, scan.FormatReport(report.Gate))
			return ExitBlocked
		}
		return ExitOK

	case "verify":
		gate := scan.NewGate(scan.NewRegexDetector(), log)
		decision := gate.Check(filepath.Join(cfg.Paths.SyncDir, "memory"))
		if !decision.Allowed {
			fmt.Fprint(a.stdout, scan.FormatReport(decision))
			return ExitBlocked
		}
		fmt.Fprintln(a.stdout, "derived artifacts are clean")
		return ExitOK

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		return ExitUsage
	}
}

// buildOrchestrator wires one invocation's dependency graph. Components
// that fail to load are treated as absent for the invocation (logged, never
// fatal), matching the data-integrity error policy.
func (a *App) buildOrchestrator(ctx context.Context, cfg *config.SyncConfig, log *logger.Logger) *service.Orchestrator {
	deps := service.Deps{
		Redactor: redact.NewEngine(cfg.Redaction.AutoRedactTypes, cfg.Redaction.QuickSections, log),
		Gate:     scan.NewGate(scan.NewRegexDetector(), log),
		Probe:    adapter.NewEndpointProbe(cfg.Network.ProbeTimeout, log),
	}

	repo, err := gitstore.Open(cfg.Paths.SyncDir, cfg.Sync.DeviceName, log)
	if err != nil {
		if errors.Is(err, gitstore.ErrNotInstalled) {
			log.Warn().Err(err).Msg("sync working copy not installed")
		} else {
			log.Error().Err(err).Msg("opening working copy failed")
		}
	} else {
		deps.Store = repo
	}

	queue, err := store.NewQueueStore(filepath.Join(cfg.Paths.StateDir, "pending-pushes.json"), log)
	if err != nil {
		log.Error().Err(err).Msg("pending-push queue unavailable for this invocation")
		deps.Queue = noopQueue{}
	} else {
		deps.Queue = queue
	}

	registry, err := store.NewRegistryStore(filepath.Join(cfg.Paths.SyncDir, "devices.json"))
	if err != nil {
		log.Error().Err(err).Msg("device registry unavailable for this invocation")
		deps.Registry = noopRegistry{}
	} else {
		deps.Registry = registry
	}

	archive := store.NewConflictArchive(cfg.Paths.StateDir)
	deps.Resolver = resolver.New(cfg.Sync.DeviceName, nil, archive, log)

	activity, err := store.NewActivityStore(ctx, filepath.Join(cfg.Paths.StateDir, "activity.db"), log)
	if err != nil {
		log.Warn().Err(err).Msg("activity log unavailable for this invocation")
	} else {
		deps.Activity = activityAdapter{activity}
	}

	return service.NewOrchestrator(cfg, deps, log)
}

// readEvent decodes the hook event from stdin. A missing or malformed
// event is normal (hooks can be invoked by hand) and yields a zero event.
func (a *App) readEvent(log *logger.Logger) models.SessionEvent {
	var event models.SessionEvent
	if err := json.NewDecoder(a.stdin).Decode(&event); err != nil && !errors.Is(err, io.EOF) {
		log.Debug().Err(err).Msg("no usable session event on stdin")
	}
	return event
}

// noopQueue stands in when the queue file is unreadable. Enqueue drops the
// record (already logged) rather than failing the session.
type noopQueue struct{}

func (noopQueue) Enqueue(string, string) error { return nil }
func (noopQueue) Drain(context.Context, func(context.Context, string) error) (models.DrainReport, error) {
	return models.DrainReport{}, nil
}
func (noopQueue) Entries() []models.PendingPush { return nil }

// noopRegistry stands in when the registry file is malformed.
type noopRegistry struct{}

func (noopRegistry) Touch(string, time.Time) error { return store.ErrDeviceNotFound }

// activityAdapter narrows *store.ActivityStore to the orchestrator's
// ActivityRecorder interface.
type activityAdapter struct {
	store *store.ActivityStore
}

func (a activityAdapter) RecordSession(ctx context.Context, entry models.SessionActivity) error {
	return a.store.RecordSession(ctx, entry)
}
