// SPDX-License-Identifier: Apache-2.0

package gitstore

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

var (
	// ErrNotInstalled indicates the working copy root does not exist or is
	// not a git repository. Treated by the orchestrator as "not yet
	// installed", a fatal-but-non-blocking condition.
	ErrNotInstalled = errors.New("working copy not installed")

	// ErrNetwork wraps any failure attributable to the transport: timeout,
	// DNS, refused connection, or authentication. The orchestrator degrades
	// to offline mode (pull) or the pending queue (push) on this error.
	ErrNetwork = errors.New("network failure")

	// ErrDiverged indicates the remote has advanced and a plain pull or
	// push cannot proceed; conflict handling takes over.
	ErrDiverged = errors.New("local and remote histories diverged")
)

// isNetworkError classifies err as transport-attributable. The timeout
// context expiring counts: any operation exceeding its deadline is treated
// as a network failure, not a bug.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	for _, hint := range []string{
		"connection refused",
		"no such host",
		"i/o timeout",
		"network is unreachable",
		"connection reset",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}

	return false
}
