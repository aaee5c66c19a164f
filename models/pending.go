// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// MaxPushRetries is the retry cap for a queued push. An entry that reaches
// the cap is never retried or removed automatically; it stays in the queue
// until a human resolves it.
const MaxPushRetries = 3

// PendingPush is a durable record of a commit that failed to transmit.
type PendingPush struct {
	Timestamp  time.Time  `json:"timestamp"`
	CommitID   string     `json:"commit_id"`
	RetryCount int        `json:"retry_count"`
	LastRetry  *time.Time `json:"last_retry,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Exhausted reports whether the entry has used up its retry budget and now
// requires manual intervention.
func (p PendingPush) Exhausted() bool {
	return p.RetryCount >= MaxPushRetries
}

// DrainReport summarises one pass over the pending push queue.
type DrainReport struct {
	Attempted int      `json:"attempted"`
	Flushed   int      `json:"flushed"`
	Failed    int      `json:"failed"`
	Exhausted []string `json:"exhausted,omitempty"`
}
