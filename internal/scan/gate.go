// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// Gate is the last-resort block before anything leaves the device. It walks
// only derived artifacts — raw originals are excluded from transmission by
// construction and are never scanned.
//
// Error policy: an unreadable file fails open, the file is skipped and the
// push may proceed.
type Gate struct {
	detector Detector
	log      *logger.Logger
}

func NewGate(detector Detector, log *logger.Logger) *Gate {
	return &Gate{detector: detector, log: log}
}

// Check scans every .md artifact under dir and returns the typed decision.
// A finding is suppressed when the same file already carries a [PII:TYPE] or
// [REDACTED:TYPE] token of the finding's type — correlation is file-level,
// not span-level, a known precision limitation.
func (g *Gate) Check(dir string) models.GateDecision {
	var findings []models.Finding

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			g.log.Warn().Err(err).Str("path", path).Msg("gate cannot access path, failing open")
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			g.log.Warn().Err(err).Str("file", path).Msg("gate cannot read artifact, failing open")
			return nil
		}

		text := string(raw)
		for _, f := range g.detector.Scan(text) {
			if markedInFile(text, f.Type) {
				continue
			}
			f.File = path
			findings = append(findings, f)
		}
		return nil
	})
	if walkErr != nil {
		g.log.Warn().Err(walkErr).Str("dir", dir).Msg("gate walk failed, failing open")
		return models.AllowedDecision()
	}

	if len(findings) == 0 {
		return models.AllowedDecision()
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})

	return models.BlockedDecision(findings)
}

// markedInFile reports whether text already carries a redaction or PII
// marker token for piiType anywhere in the file.
func markedInFile(text, piiType string) bool {
	return strings.Contains(text, "[REDACTED:"+piiType+"]") ||
		strings.Contains(text, "[PII:"+piiType+"]")
}

// FormatReport renders a blocked decision as the actionable per-file report
// shown to the user. Allowed decisions render as an empty string.
func FormatReport(decision models.GateDecision) string {
	if decision.Allowed {
		return ""
	}

	var b strings.Builder
	b.WriteString("push blocked: unredacted PII or secrets detected\n")

	byFile := make(map[string][]models.Finding)
	var order []string
	for _, f := range decision.Findings {
		if _, seen := byFile[f.File]; !seen {
			order = append(order, f.File)
		}
		byFile[f.File] = append(byFile[f.File], f)
	}

	for _, file := range order {
		fmt.Fprintf(&b, "  %s:\n", file)
		for _, f := range byFile[file] {
			fmt.Fprintf(&b, "    line %d: %s (%s)\n", f.Line, f.Type, f.Preview)
		}
	}

	b.WriteString("fix: wrap the value in [PII:TYPE]...[/PII:TYPE] in the source memory file and rerun\n")
	return b.String()
}
