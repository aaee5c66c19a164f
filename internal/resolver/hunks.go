// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"strings"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

const (
	markerLocal  = "<<<<<<< "
	markerSplit  = "======="
	markerRemote = ">>>>>>> "
)

// conflictDoc is a conflicted file split into alternating shared segments
// and conflict hunks. A single winner is decided per file and applied to
// every hunk.
type conflictDoc struct {
	segments    []segment
	remoteLabel string
}

type segment struct {
	shared []string
	local  []string
	remote []string
	hunk   bool
}

// parseConflicts splits text on the standard conflict markers. Returns
// ErrMalformedConflict when markers do not pair into complete hunks.
func parseConflicts(text string) (*conflictDoc, error) {
	doc := &conflictDoc{}
	lines := strings.Split(text, "\n")

	var shared, local, remote []string
	const (
		inShared = iota
		inLocal
		inRemote
	)
	state := inShared

	flushShared := func() {
		if len(shared) > 0 {
			doc.segments = append(doc.segments, segment{shared: shared})
			shared = nil
		}
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, markerLocal):
			if state != inShared {
				return nil, ErrMalformedConflict
			}
			flushShared()
			state = inLocal
		case line == markerSplit || strings.HasPrefix(line, markerSplit+" "):
			if state != inLocal {
				return nil, ErrMalformedConflict
			}
			state = inRemote
		case strings.HasPrefix(line, markerRemote):
			if state != inRemote {
				return nil, ErrMalformedConflict
			}
			doc.remoteLabel = strings.TrimSpace(strings.TrimPrefix(line, markerRemote))
			doc.segments = append(doc.segments, segment{local: local, remote: remote, hunk: true})
			local, remote = nil, nil
			state = inShared
		default:
			switch state {
			case inLocal:
				local = append(local, line)
			case inRemote:
				remote = append(remote, line)
			default:
				shared = append(shared, line)
			}
		}
	}

	if state != inShared {
		return nil, ErrMalformedConflict
	}
	flushShared()

	return doc, nil
}

// localBodies concatenates the local side of every hunk, the text the
// timestamp extractor runs over.
func (d *conflictDoc) localBodies() string {
	return d.bodies(func(s segment) []string { return s.local })
}

func (d *conflictDoc) remoteBodies() string {
	return d.bodies(func(s segment) []string { return s.remote })
}

func (d *conflictDoc) bodies(pick func(segment) []string) string {
	var b strings.Builder
	for _, s := range d.segments {
		if !s.hunk {
			continue
		}
		b.WriteString(strings.Join(pick(s), "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// reconstruct renders the full file with every hunk replaced by the chosen
// side's content.
func (d *conflictDoc) reconstruct(winner models.ConflictWinner) string {
	var out []string
	for _, s := range d.segments {
		switch {
		case !s.hunk:
			out = append(out, s.shared...)
		case winner == models.WinnerRemote:
			out = append(out, s.remote...)
		default:
			out = append(out, s.local...)
		}
	}
	return strings.Join(out, "\n")
}
