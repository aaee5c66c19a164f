// SPDX-License-Identifier: Apache-2.0

package gitstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
)

func initWorkingCopy(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func writeWorkFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), "laptop", logger.Nop())
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), "laptop", logger.Nop())
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestCommitAllAndStatus(t *testing.T) {
	dir := initWorkingCopy(t)
	writeWorkFile(t, dir, "memory/projects.md", "# Projects\n")

	r, err := Open(dir, "laptop", logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	status, err := r.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Clean)
	assert.Contains(t, status.Changed, "memory/projects.md")

	hash, err := r.CommitAll(ctx, "memory sync: laptop @ 2026-01-15T10:00:00Z")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	status, err = r.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Clean)
	assert.Empty(t, status.Changed)
}

func TestAddStagesResolvedFile(t *testing.T) {
	dir := initWorkingCopy(t)
	writeWorkFile(t, dir, "memory/projects.md", "v1\n")

	r, err := Open(dir, "laptop", logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.CommitAll(ctx, "initial")
	require.NoError(t, err)

	path := writeWorkFile(t, dir, "memory/projects.md", "v2 resolved\n")
	require.NoError(t, r.Add(ctx, path))

	status, err := r.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Clean)
}

func TestConflictedFiles(t *testing.T) {
	dir := initWorkingCopy(t)
	conflicted := writeWorkFile(t, dir, "memory/projects.md",
		"<<<<<<< HEAD\nlocal\n=======\nremote\n>>>>>>> origin/main\n")
	writeWorkFile(t, dir, "memory/clean.md", "no markers here\n")
	// Indented markers are not conflict markers.
	writeWorkFile(t, dir, "memory/quoted.md", "    <<<<<<< HEAD example\n")

	r, err := Open(dir, "laptop", logger.Nop())
	require.NoError(t, err)

	files, err := r.ConflictedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{conflicted}, files)
}

func TestPullWithoutRemote(t *testing.T) {
	dir := initWorkingCopy(t)
	writeWorkFile(t, dir, "memory/projects.md", "v1\n")

	r, err := Open(dir, "laptop", logger.Nop())
	require.NoError(t, err)

	err = r.Pull(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrDiverged)
}

func TestPushAndPullRoundTrip(t *testing.T) {
	// Local working copy pushing to a bare repository over the file
	// transport; a clone into an in-memory filesystem verifies what arrived.
	workDir := initWorkingCopy(t)
	bareDir := t.TempDir()
	_, err := git.PlainInit(bareDir, true)
	require.NoError(t, err)

	raw, err := git.PlainOpen(workDir)
	require.NoError(t, err)
	_, err = raw.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	})
	require.NoError(t, err)

	writeWorkFile(t, workDir, "memory/projects.md", "# Projects\nsynced content\n")

	r, err := Open(workDir, "laptop", logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.CommitAll(ctx, "memory sync: laptop")
	require.NoError(t, err)
	require.NoError(t, r.Push(ctx))

	// Pushing again with nothing new is still success.
	require.NoError(t, r.Push(ctx))

	// Pulling when the remote has nothing new is success too.
	require.NoError(t, r.Pull(ctx))

	fs := memfs.New()
	_, err = git.Clone(memory.NewStorage(), fs, &git.CloneOptions{URL: bareDir})
	require.NoError(t, err)

	f, err := fs.Open("memory/projects.md")
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "# Projects\nsynced content\n", string(content))
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "io deadline", err: os.ErrDeadlineExceeded, want: true},
		{name: "unrelated", err: assert.AnError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNetworkError(tt.err))
		})
	}
}
