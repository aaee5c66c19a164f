// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

const conflictedFixture = `# Project

<<<<<<< HEAD
local line
=======
remote line
>>>>>>> origin/main

shared tail
`

func TestParseConflicts(t *testing.T) {
	doc, err := parseConflicts(conflictedFixture)
	require.NoError(t, err)

	assert.Equal(t, "origin/main", doc.remoteLabel)

	var hunks int
	for _, s := range doc.segments {
		if s.hunk {
			hunks++
			assert.Equal(t, []string{"local line"}, s.local)
			assert.Equal(t, []string{"remote line"}, s.remote)
		}
	}
	assert.Equal(t, 1, hunks)
}

func TestParseConflictsMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "missing close", text: "<<<<<<< HEAD\nlocal\n=======\nremote\n"},
		{name: "missing split", text: "<<<<<<< HEAD\nlocal\n>>>>>>> origin/main\n"},
		{name: "split before open", text: "=======\nremote\n>>>>>>> origin/main\n"},
		{name: "nested open", text: "<<<<<<< HEAD\n<<<<<<< HEAD\n=======\nx\n>>>>>>> b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConflicts(tt.text)
			assert.ErrorIs(t, err, ErrMalformedConflict)
		})
	}
}

func TestParseConflictsNoMarkers(t *testing.T) {
	doc, err := parseConflicts("plain\ntext\n")
	require.NoError(t, err)

	for _, s := range doc.segments {
		assert.False(t, s.hunk)
	}
	assert.Equal(t, "plain\ntext\n", doc.reconstruct(models.WinnerLocal))
}

func TestReconstruct(t *testing.T) {
	doc, err := parseConflicts(conflictedFixture)
	require.NoError(t, err)

	local := doc.reconstruct(models.WinnerLocal)
	assert.Contains(t, local, "local line")
	assert.NotContains(t, local, "remote line")
	assert.NotContains(t, local, "<<<<<<<")
	assert.NotContains(t, local, "=======")
	assert.NotContains(t, local, ">>>>>>>")
	assert.Contains(t, local, "# Project")
	assert.Contains(t, local, "shared tail")

	remote := doc.reconstruct(models.WinnerRemote)
	assert.Contains(t, remote, "remote line")
	assert.NotContains(t, remote, "local line")
}

func TestBodiesSpanAllHunks(t *testing.T) {
	text := "<<<<<<< HEAD\nfirst local\n=======\nfirst remote\n>>>>>>> origin/main\nmiddle\n" +
		"<<<<<<< HEAD\nsecond local\n=======\nsecond remote\n>>>>>>> origin/main\n"

	doc, err := parseConflicts(text)
	require.NoError(t, err)

	local := doc.localBodies()
	assert.Contains(t, local, "first local")
	assert.Contains(t, local, "second local")
	assert.NotContains(t, local, "middle")

	remote := doc.remoteBodies()
	assert.Contains(t, remote, "first remote")
	assert.Contains(t, remote, "second remote")
}
