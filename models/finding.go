// SPDX-License-Identifier: Apache-2.0

package models

// Finding is one suspicious match reported by a secret/PII detector.
// Preview carries only a truncated hint, never the full matched value.
type Finding struct {
	File    string `json:"file,omitempty"`
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Preview string `json:"preview"`
}

// GateDecision is the typed result of the pre-transmission gate. The hook
// boundary translates Blocked into the host's "blocked" exit status; nothing
// inside the core uses exit codes as control flow.
type GateDecision struct {
	Allowed  bool      `json:"allowed"`
	Findings []Finding `json:"findings,omitempty"`
}

// AllowedDecision is the decision that lets a transmission proceed.
func AllowedDecision() GateDecision {
	return GateDecision{Allowed: true}
}

// BlockedDecision builds a blocking decision from the given findings.
func BlockedDecision(findings []Finding) GateDecision {
	return GateDecision{Allowed: false, Findings: findings}
}
