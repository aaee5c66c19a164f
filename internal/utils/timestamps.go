// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"regexp"
	"time"
)

// Timestamp extraction scrapes free text for the first recognisable
// timestamp literal. Pattern order is fixed: an ISO-8601 literal, then a
// space-separated date-time, then a "last_updated" JSON field. Within one
// pattern the first match wins even when the text contains several
// candidates; callers must not assume "most recent match" semantics.
var (
	isoTimestampPattern = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(?::\d{2})?(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)
	spacedTimestampPattern = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2} \d{2}:\d{2}(?::\d{2})?`)
	lastUpdatedPattern = regexp.MustCompile(
		`"last_updated"\s*:\s*"([^"]+)"`)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ExtractTimestamp returns the first timestamp found in text, or ok=false
// when no pattern matches or the matched literal does not parse.
func ExtractTimestamp(text string) (time.Time, bool) {
	if m := isoTimestampPattern.FindString(text); m != "" {
		if ts, ok := parseTimestamp(m); ok {
			return ts, true
		}
	}
	if m := spacedTimestampPattern.FindString(text); m != "" {
		if ts, ok := parseTimestamp(m); ok {
			return ts, true
		}
	}
	if m := lastUpdatedPattern.FindStringSubmatch(text); len(m) == 2 {
		if ts, ok := parseTimestamp(m[1]); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(literal string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, literal); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
