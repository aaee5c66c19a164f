// SPDX-License-Identifier: Apache-2.0

// Package redact implements marker-based PII redaction and the quick-version
// condensation of memory files.
//
// Redaction is the primary control: authors annotate sensitive spans as
// [PII:TYPE]value[/PII:TYPE] and every well-formed span is replaced with the
// fixed token [REDACTED:TYPE], destroying the value irreversibly in the
// derived artifact. Malformed or unterminated markers are left as-is and
// reported; the pattern-scanning gate catches anything they leak.
package redact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

var (
	// piiSpanPattern matches a complete [PII:TYPE]...[/PII:TYPE] span.
	// Opening and closing types are captured separately; a mismatched pair
	// counts as malformed and is left untouched. (?s) lets a span wrap
	// across lines.
	piiSpanPattern = regexp.MustCompile(`(?s)\[PII:([A-Z0-9_]+)\](.*?)\[/PII:([A-Z0-9_]+)\]`)

	// openMarkerPattern detects leftover open markers after substitution,
	// for reporting only. The type is captured so markers of filtered-out
	// types are not miscounted as malformed.
	openMarkerPattern = regexp.MustCompile(`\[PII:([A-Z0-9_]+)\]`)
)

// Engine performs marker substitution and condensation. A nil/empty types
// filter redacts every span; otherwise only the listed types are redacted.
type Engine struct {
	types    map[string]struct{}
	sections []string
	log      *logger.Logger
}

// NewEngine constructs an Engine. autoRedactTypes and quickSections come
// from the redaction configuration.
func NewEngine(autoRedactTypes, quickSections []string, log *logger.Logger) *Engine {
	var types map[string]struct{}
	if len(autoRedactTypes) > 0 {
		types = make(map[string]struct{}, len(autoRedactTypes))
		for _, t := range autoRedactTypes {
			types[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
		}
	}

	return &Engine{types: types, sections: quickSections, log: log}
}

// Redact substitutes every well-formed PII span in text and returns the safe
// text together with the number of redacted spans and of malformed markers.
//
// The substitution is idempotent: [REDACTED:TYPE] tokens never match the
// span pattern, so redacting already-redacted text is a no-op.
func (e *Engine) Redact(text string) (string, int, int) {
	spans := 0
	out := piiSpanPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := piiSpanPattern.FindStringSubmatch(match)
		openType, closeType := groups[1], groups[3]
		if openType != closeType {
			// Mismatched close tag: treat as malformed, keep verbatim.
			return match
		}
		if !e.shouldRedact(openType) {
			return match
		}
		spans++
		return "[REDACTED:" + openType + "]"
	})

	// A leftover marker of a filtered-out type is an intact span left in
	// place on purpose; only types the engine should have redacted count.
	malformed := 0
	for _, m := range openMarkerPattern.FindAllStringSubmatch(out, -1) {
		if e.shouldRedact(m[1]) {
			malformed++
		}
	}
	if malformed > 0 {
		e.log.Warn().Int("markers", malformed).Msg("malformed or unterminated PII markers left in place")
	}

	return out, spans, malformed
}

func (e *Engine) shouldRedact(piiType string) bool {
	if e.types == nil {
		return true
	}
	_, ok := e.types[piiType]
	return ok
}

// DeriveAll reads every .md file under memoryDir and writes the two derived
// artifacts per file under outDir: <name>.md (safe) and <name>.quick.md
// (condensed). Any I/O error aborts the whole derivation: a partial set of
// sanitized artifacts must never look complete to the committing caller.
func (e *Engine) DeriveAll(memoryDir, outDir string) ([]models.RedactedArtifact, error) {
	entries, err := os.ReadDir(memoryDir)
	if err != nil {
		return nil, fmt.Errorf("read memory dir: %w", err)
	}

	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create derived dir: %w", err)
	}

	artifacts := make([]models.RedactedArtifact, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(memoryDir, name))
		if err != nil {
			return nil, fmt.Errorf("read memory file %s: %w", name, err)
		}

		safe, spans, malformed := e.Redact(string(raw))
		quick := e.Condense(safe)

		base := strings.TrimSuffix(name, ".md")
		safePath := filepath.Join(outDir, base+".md")
		quickPath := filepath.Join(outDir, base+".quick.md")

		if err = os.WriteFile(safePath, []byte(safe), 0o644); err != nil {
			return nil, fmt.Errorf("write safe artifact %s: %w", safePath, err)
		}
		if err = os.WriteFile(quickPath, []byte(quick), 0o644); err != nil {
			return nil, fmt.Errorf("write quick artifact %s: %w", quickPath, err)
		}

		artifacts = append(artifacts, models.RedactedArtifact{
			Source:    name,
			SafePath:  safePath,
			QuickPath: quickPath,
			Spans:     spans,
			Malformed: malformed,
		})
	}

	return artifacts, nil
}
