// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// PushFunc attempts to transmit the given commit. It must honor ctx.
type PushFunc func(ctx context.Context, commitID string) error

// QueueStore persists the pending-push queue as a JSON array in queue
// order (oldest first).
type QueueStore struct {
	path string
	log  *logger.Logger

	mu      sync.Mutex
	entries []models.PendingPush
}

// NewQueueStore loads the queue at path; a missing file is an empty queue.
func NewQueueStore(path string, log *logger.Logger) (*QueueStore, error) {
	s := &QueueStore{path: path, log: log}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *QueueStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read pending-push file: %w", err)
	}

	if err = json.Unmarshal(data, &s.entries); err != nil {
		return fmt.Errorf("decode pending-push file: %w", err)
	}

	return nil
}

func (s *QueueStore) persist() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create queue dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pending pushes: %w", err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write pending-push file: %w", err)
	}

	return nil
}

// Enqueue appends a fresh entry for a commit whose push failed.
func (s *QueueStore) Enqueue(commitID, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, models.PendingPush{
		Timestamp:  time.Now(),
		CommitID:   commitID,
		RetryCount: 0,
		Error:      cause,
	})

	return s.persist()
}

// Entries returns a copy of the queue in order.
func (s *QueueStore) Entries() []models.PendingPush {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PendingPush, len(s.entries))
	copy(out, s.entries)
	return out
}

// Drain walks the queue oldest-first and attempts each non-exhausted entry
// exactly once. Success removes the entry; failure increments retry_count,
// stamps last_retry, and records the error. Exhausted entries are reported
// untouched — they require manual intervention and are never auto-expired.
// Entries are independent: one failure never stops the next attempt.
func (s *QueueStore) Drain(ctx context.Context, push func(ctx context.Context, commitID string) error) (models.DrainReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report models.DrainReport
	remaining := s.entries[:0]

	for _, entry := range s.entries {
		if entry.Exhausted() {
			report.Exhausted = append(report.Exhausted, entry.CommitID)
			remaining = append(remaining, entry)
			continue
		}

		report.Attempted++
		err := push(ctx, entry.CommitID)
		if err == nil {
			report.Flushed++
			s.log.Info().Str("commit", entry.CommitID).Msg("deferred push flushed")
			continue
		}

		report.Failed++
		now := time.Now()
		entry.RetryCount++
		entry.LastRetry = &now
		entry.Error = err.Error()
		remaining = append(remaining, entry)
		s.log.Warn().
			Str("commit", entry.CommitID).
			Int("retry_count", entry.RetryCount).
			Err(err).
			Msg("deferred push failed again")

		if entry.Exhausted() {
			report.Exhausted = append(report.Exhausted, entry.CommitID)
		}
	}

	s.entries = remaining
	if err := s.persist(); err != nil {
		return report, err
	}

	return report, nil
}
