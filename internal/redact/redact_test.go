// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
)

func TestRedact(t *testing.T) {
	engine := NewEngine(nil, nil, logger.Nop())

	tests := []struct {
		name          string
		in            string
		want          string
		wantSpans     int
		wantMalformed int
	}{
		{
			name:      "single span",
			in:        "Email: [PII:EMAIL]john@example.com[/PII:EMAIL]",
			want:      "Email: [REDACTED:EMAIL]",
			wantSpans: 1,
		},
		{
			name:      "multiple types",
			in:        "[PII:EMAIL]a@b.com[/PII:EMAIL] and [PII:PHONE]555-123-4567[/PII:PHONE]",
			want:      "[REDACTED:EMAIL] and [REDACTED:PHONE]",
			wantSpans: 2,
		},
		{
			name:      "span across lines",
			in:        "[PII:ADDRESS]12 Main St\nSpringfield[/PII:ADDRESS]",
			want:      "[REDACTED:ADDRESS]",
			wantSpans: 1,
		},
		{
			name:          "unterminated marker kept and counted",
			in:            "[PII:EMAIL]john@example.com and more text",
			want:          "[PII:EMAIL]john@example.com and more text",
			wantMalformed: 1,
		},
		{
			name:          "mismatched close kept",
			in:            "[PII:EMAIL]john@example.com[/PII:PHONE]",
			want:          "[PII:EMAIL]john@example.com[/PII:PHONE]",
			wantMalformed: 1,
		},
		{
			name: "no markers untouched",
			in:   "# Notes\nplain text\n",
			want: "# Notes\nplain text\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, spans, malformed := engine.Redact(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSpans, spans)
			assert.Equal(t, tt.wantMalformed, malformed)
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	engine := NewEngine(nil, nil, logger.Nop())

	once, spans, _ := engine.Redact("call [PII:PHONE]555-000-1111[/PII:PHONE] today")
	require.Equal(t, 1, spans)

	twice, spans, malformed := engine.Redact(once)
	assert.Equal(t, once, twice)
	assert.Zero(t, spans)
	assert.Zero(t, malformed)
}

func TestRedactTypeFilter(t *testing.T) {
	engine := NewEngine([]string{"EMAIL"}, nil, logger.Nop())

	got, spans, malformed := engine.Redact("[PII:EMAIL]a@b.com[/PII:EMAIL] [PII:PHONE]555-123-4567[/PII:PHONE]")

	assert.Equal(t, "[REDACTED:EMAIL] [PII:PHONE]555-123-4567[/PII:PHONE]", got)
	assert.Equal(t, 1, spans)
	// The intact PHONE span was skipped on purpose, not malformed.
	assert.Zero(t, malformed)
}

func TestRedactTypeFilterMalformedCounting(t *testing.T) {
	engine := NewEngine([]string{"EMAIL"}, nil, logger.Nop())

	// An unterminated marker of a redacted type counts; one of a
	// filtered-out type does not.
	_, _, malformed := engine.Redact("[PII:EMAIL]dangling and [PII:PHONE]555-123-4567[/PII:PHONE]")
	assert.Equal(t, 1, malformed)

	_, _, malformed = engine.Redact("[PII:PHONE]dangling too")
	assert.Zero(t, malformed)
}

const condenseFixture = `# Memory

## Current Focus
Shipping the sync layer.

### Details
Still open: retry backoff.

## Meeting Notes
Long transcript line one.
Long transcript line two.
Long transcript line three.
Long transcript line four.

## Key Decisions
Local wins ties.

## Scratch
Throwaway thoughts.
Throwaway thoughts continued.
`

func TestCondense(t *testing.T) {
	engine := NewEngine(nil, []string{"Current Focus", "Key Decisions"}, logger.Nop())

	got := engine.Condense(condenseFixture)

	assert.Contains(t, got, "## Current Focus")
	assert.Contains(t, got, "Shipping the sync layer.")
	// A deeper heading inside an open section survives.
	assert.Contains(t, got, "### Details")
	assert.Contains(t, got, "## Key Decisions")
	assert.NotContains(t, got, "Meeting Notes")
	assert.NotContains(t, got, "transcript")
	assert.NotContains(t, got, "Scratch")

	assert.LessOrEqual(t, len(got), len(condenseFixture)/2, "quick version should be at most half the source")
}

func TestCondenseCaseInsensitiveHeadings(t *testing.T) {
	engine := NewEngine(nil, []string{"Current Focus"}, logger.Nop())

	got := engine.Condense("## CURRENT FOCUS\nkept\n## Other\ndropped\n")

	assert.Contains(t, got, "kept")
	assert.NotContains(t, got, "dropped")
}

func TestDeriveAll(t *testing.T) {
	memoryDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "memory")

	source := "# Memory\n\n## Current Focus\nPing [PII:EMAIL]john@example.com[/PII:EMAIL].\n\n## Archive\nold notes\n"
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "projects.md"), []byte(source), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "ignore.txt"), []byte("not markdown"), 0o644))

	engine := NewEngine(nil, []string{"Current Focus"}, logger.Nop())
	artifacts, err := engine.DeriveAll(memoryDir, outDir)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	artifact := artifacts[0]
	assert.Equal(t, "projects.md", artifact.Source)
	assert.Equal(t, 1, artifact.Spans)
	assert.Zero(t, artifact.Malformed)

	safe, err := os.ReadFile(artifact.SafePath)
	require.NoError(t, err)
	assert.Contains(t, string(safe), "[REDACTED:EMAIL]")
	assert.NotContains(t, string(safe), "john@example.com")

	quick, err := os.ReadFile(artifact.QuickPath)
	require.NoError(t, err)
	assert.Contains(t, string(quick), "Current Focus")
	assert.NotContains(t, string(quick), "Archive")
	assert.NotContains(t, string(quick), "john@example.com")

	// The raw original is untouched.
	raw, err := os.ReadFile(filepath.Join(memoryDir, "projects.md"))
	require.NoError(t, err)
	assert.Equal(t, source, string(raw))
}

func TestDeriveAllMissingMemoryDir(t *testing.T) {
	engine := NewEngine(nil, nil, logger.Nop())

	_, err := engine.DeriveAll(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	require.Error(t, err)
}
