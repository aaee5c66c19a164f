// SPDX-License-Identifier: Apache-2.0

// Package scan implements the pre-transmission gate: a best-effort pattern
// scan of derived artifacts for common secret and PII shapes. It is a
// backstop behind marker-based redaction, not a replacement for it.
package scan

import (
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// Detector is the pluggable detection capability. The gate's control flow
// only depends on this interface, so a more precise detector can replace the
// regex one without touching the gate.
type Detector interface {
	// Scan returns one Finding per suspicious match in text. Findings carry
	// a truncated preview, never the full matched value.
	Scan(text string) []models.Finding
}

// secretPattern couples a regex with the PII/marker type it corresponds to
// and an optional structural verifier that trims false positives.
type secretPattern struct {
	piiType string
	re      *regexp.Regexp
	verify  func(match string) bool
}

// The fixed pattern set of the gate. Types align with the [PII:TYPE] marker
// vocabulary so findings can be correlated with redaction tokens.
var defaultPatterns = []secretPattern{
	{piiType: "EMAIL", re: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{piiType: "PHONE", re: regexp.MustCompile(`(?:\+\d{1,2}[ .-]?)?(?:\(\d{3}\)|\d{3})[ .-]\d{3}[ .-]\d{4}\b`)},
	{piiType: "API_KEY", re: regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`)},
	{piiType: "API_KEY", re: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{piiType: "TOKEN", re: regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`)},
	{piiType: "TOKEN", re: regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{22,}\b`)},
	{piiType: "TOKEN", re: regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`), verify: looksLikeJWT},
	{piiType: "CREDIT_CARD", re: regexp.MustCompile(`\b\d(?:[ -]?\d){12,15}\b`)},
	{piiType: "SSN", re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
}

// looksLikeJWT confirms a JWT-shaped candidate actually decodes as a token
// structure before it is allowed to block a push.
func looksLikeJWT(match string) bool {
	_, _, err := jwt.NewParser().ParseUnverified(match, jwt.MapClaims{})
	return err == nil
}

// RegexDetector is the default Detector built on the fixed pattern set.
type RegexDetector struct {
	patterns []secretPattern
}

func NewRegexDetector() *RegexDetector {
	return &RegexDetector{patterns: defaultPatterns}
}

// Scan runs every pattern over text line by line.
func (d *RegexDetector) Scan(text string) []models.Finding {
	var findings []models.Finding

	for i, line := range strings.Split(text, "\n") {
		for _, p := range d.patterns {
			for _, match := range p.re.FindAllString(line, -1) {
				if p.verify != nil && !p.verify(match) {
					continue
				}
				findings = append(findings, models.Finding{
					Type:    p.piiType,
					Line:    i + 1,
					Preview: preview(match),
				})
			}
		}
	}

	return findings
}

// preview truncates a matched value so reports never re-leak the secret.
func preview(match string) string {
	const keep = 4
	if len(match) <= keep {
		return match + "…"
	}
	return match[:keep] + "…"
}
