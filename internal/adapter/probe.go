// SPDX-License-Identifier: Apache-2.0

// Package adapter holds the thin clients for external collaborators.
package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
)

// EndpointProbe answers one question cheaply: does the cloud endpoint look
// reachable right now? Session-start uses it to fall into offline mode in a
// couple of seconds instead of waiting out a full pull timeout on a dead
// link. A probe is advisory — a reachable endpoint can still fail the pull.
type EndpointProbe struct {
	client *resty.Client
	log    *logger.Logger
}

// NewEndpointProbe builds a probe with the given per-request timeout.
func NewEndpointProbe(timeout time.Duration, log *logger.Logger) *EndpointProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	cli := resty.New().SetTimeout(timeout)
	return &EndpointProbe{client: cli, log: log}
}

// Reachable reports whether endpoint answers an HTTP HEAD at all. Any HTTP
// status counts as reachable (auth walls included); only transport failures
// count against the endpoint. Non-HTTP endpoints (ssh remotes) are not
// probed and are assumed reachable.
func (p *EndpointProbe) Reachable(ctx context.Context, endpoint string) bool {
	if endpoint == "" {
		return true
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return true
	}

	_, err := p.client.R().SetContext(ctx).Head(endpoint)
	if err != nil {
		p.log.Debug().Err(err).Str("endpoint", endpoint).Msg("endpoint probe failed")
		return false
	}

	return true
}
