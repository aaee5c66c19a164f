// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)

// Condense produces the quick derivative of already-redacted text: only the
// sections whose heading is on the allow-list survive. A section stays open
// until a heading at or above its level appears; deeper headings inside an
// open section are kept.
//
// The ~50% size reduction is a quality goal, not an invariant; tests assert
// it on representative fixtures only.
func (e *Engine) Condense(text string) string {
	var b strings.Builder
	include := false
	openLevel := 0

	for _, line := range strings.Split(text, "\n") {
		m := headingPattern.FindStringSubmatch(line)
		if m != nil {
			level := len(m[1])
			title := m[2]

			if include && level <= openLevel {
				include = false
			}
			if e.isQuickSection(title) {
				include = true
				openLevel = level
			}
		}

		if include {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (e *Engine) isQuickSection(title string) bool {
	for _, s := range e.sections {
		if strings.EqualFold(strings.TrimSpace(title), s) {
			return true
		}
	}
	return false
}
