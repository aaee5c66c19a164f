// SPDX-License-Identifier: Apache-2.0

package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

import (
	"context"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// ObjectStore is the narrow contract the orchestrator needs from the
// versioned object store. The store's merge/diff/network machinery is an
// external collaborator behind this boundary.
type ObjectStore interface {
	// Pull fetches and integrates remote changes. nil means success
	// (including already up to date); gitstore.ErrDiverged means conflict
	// handling should take over; a gitstore.ErrNetwork-wrapped error means
	// the transport failed and the caller degrades to offline mode.
	Pull(ctx context.Context) error

	// Push transmits local commits. Same error taxonomy as Pull.
	Push(ctx context.Context) error

	// CommitAll stages everything and commits with the given message,
	// returning the commit identifier.
	CommitAll(ctx context.Context, message string) (string, error)

	// Add stages one path after conflict resolution.
	Add(ctx context.Context, path string) error

	// Status reports whether the working copy has pending changes.
	Status(ctx context.Context) (models.WorktreeStatus, error)

	// ConflictedFiles returns paths of files carrying conflict markers.
	ConflictedFiles(ctx context.Context) ([]string, error)
}

// PendingQueue is the durable retry queue for failed pushes.
type PendingQueue interface {
	Enqueue(commitID, cause string) error
	Drain(ctx context.Context, push func(ctx context.Context, commitID string) error) (models.DrainReport, error)
	Entries() []models.PendingPush
}

// Registry updates the synced device registry.
type Registry interface {
	// Touch sets last_seen for the named device. Returns
	// store.ErrDeviceNotFound when the device was never registered;
	// registration is a separate, interactive flow.
	Touch(name string, now time.Time) error
}

// Redactor produces the derived safe/quick artifacts from raw memory files.
type Redactor interface {
	DeriveAll(memoryDir, outDir string) ([]models.RedactedArtifact, error)
}

// ConflictResolver resolves one conflict-marked file.
type ConflictResolver interface {
	Resolve(path string) (models.ConflictResolution, error)
}

// TransmissionGate is the pre-transmission pattern scan over derived
// artifacts.
type TransmissionGate interface {
	Check(dir string) models.GateDecision
}

// ReachabilityProbe cheaply classifies the cloud endpoint as up or down.
type ReachabilityProbe interface {
	Reachable(ctx context.Context, endpoint string) bool
}

// ActivityRecorder appends best-effort session entries to the daily
// activity log.
type ActivityRecorder interface {
	RecordSession(ctx context.Context, entry models.SessionActivity) error
}
