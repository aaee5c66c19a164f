// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/utils"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// ConflictArchive persists the losing side of every automatic resolution
// under an archive path keyed by originating device and timestamp, plus an
// append-only JSONL log of resolution records. Nothing here is ever
// overwritten or deleted by the sync layer.
type ConflictArchive struct {
	dir     string
	logPath string
	ids     *utils.UUIDGenerator
}

// NewConflictArchive roots the archive under stateDir/conflicts.
func NewConflictArchive(stateDir string) *ConflictArchive {
	root := filepath.Join(stateDir, "conflicts")
	return &ConflictArchive{
		dir:     filepath.Join(root, "archive"),
		logPath: filepath.Join(root, "resolutions.jsonl"),
		ids:     utils.NewUUIDGenerator(),
	}
}

// ArchiveLoser stores content verbatim and returns the artifact path. The
// name embeds the source basename, the originating device, and the body
// timestamp (falling back to now) so operators can find a lost version
// without tooling.
func (a *ConflictArchive) ArchiveLoser(file, fromDevice string, ts *time.Time, content string) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create conflict archive dir: %w", err)
	}

	stamp := time.Now()
	if ts != nil {
		stamp = *ts
	}
	if fromDevice == "" {
		fromDevice = "unknown"
	}

	name := fmt.Sprintf("%s.%s.%s.%s",
		filepath.Base(file),
		fromDevice,
		stamp.UTC().Format("20060102T150405Z"),
		a.ids.Generate())
	path := filepath.Join(a.dir, name)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write archived version: %w", err)
	}

	return path, nil
}

// AppendRecord appends rec as one JSON line to the resolution log.
func (a *ConflictArchive) AppendRecord(rec models.ConflictRecord) error {
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o755); err != nil {
		return fmt.Errorf("create conflict log dir: %w", err)
	}

	f, err := os.OpenFile(a.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open resolution log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode resolution record: %w", err)
	}

	if _, err = f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append resolution record: %w", err)
	}

	return nil
}

// Records reads the whole resolution log. Used by tests and diagnostics.
func (a *ConflictArchive) Records() ([]models.ConflictRecord, error) {
	data, err := os.ReadFile(a.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read resolution log: %w", err)
	}

	var records []models.ConflictRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec models.ConflictRecord
		if err = dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode resolution record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}
