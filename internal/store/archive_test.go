// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

func TestArchiveLoserStoresVerbatim(t *testing.T) {
	stateDir := t.TempDir()
	archive := NewConflictArchive(stateDir)

	ts := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
	path, err := archive.ArchiveLoser("/sync/memory/projects.md", "desktop", &ts, "losing body\n")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "losing body\n", string(got))

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "projects.md.desktop.20260115T140000Z."), name)
	assert.Contains(t, path, filepath.Join(stateDir, "conflicts", "archive"))
}

func TestArchiveLoserUnknownDevice(t *testing.T) {
	archive := NewConflictArchive(t.TempDir())

	path, err := archive.ArchiveLoser("/sync/memory/projects.md", "", nil, "body")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), ".unknown.")
}

func TestAppendRecordRoundTrip(t *testing.T) {
	archive := NewConflictArchive(t.TempDir())

	first := models.ConflictRecord{
		File:         "/sync/memory/projects.md",
		Winner:       models.WinnerRemote,
		Reason:       "remote timestamp is later",
		LocalDevice:  "laptop",
		RemoteDevice: "origin/main",
		ResolvedAt:   time.Now().UTC(),
	}
	second := models.ConflictRecord{
		File:   "/sync/memory/ideas.md",
		Winner: models.WinnerLocal,
		Reason: "no timestamps found, local wins by default",
	}
	require.NoError(t, archive.AppendRecord(first))
	require.NoError(t, archive.AppendRecord(second))

	records, err := archive.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.File, records[0].File)
	assert.Equal(t, models.WinnerRemote, records[0].Winner)
	assert.Equal(t, second.Reason, records[1].Reason)
}

func TestRecordsEmptyWhenLogMissing(t *testing.T) {
	archive := NewConflictArchive(t.TempDir())

	records, err := archive.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}
