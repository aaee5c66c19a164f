// SPDX-License-Identifier: Apache-2.0

// Package gitstore adapts go-git to the narrow object-store contract the
// orchestrator needs: pull, push, commit, status, and conflict-marker
// discovery. All of the store's merge/diff/network machinery stays behind
// this boundary.
package gitstore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

const defaultRemote = "origin"

// Repo wraps one local working copy.
type Repo struct {
	path     string
	repo     *git.Repository
	worktree *git.Worktree
	device   string
	log      *logger.Logger
}

// Open opens the working copy rooted at path. Returns ErrNotInstalled when
// the directory is absent or not a repository.
func Open(path, device string, log *logger.Logger) (*Repo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, path)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotInstalled, path)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	return &Repo{path: path, repo: repo, worktree: worktree, device: device, log: log}, nil
}

// Pull fetches and fast-forwards from origin. Outcomes:
//   - nil: success, including "already up to date";
//   - ErrDiverged: remote advanced beyond a fast-forward; the caller should
//     inspect ConflictedFiles for merge markers;
//   - ErrNetwork (wrapped): transport failure, degrade to offline mode.
func (r *Repo) Pull(ctx context.Context) error {
	err := r.worktree.PullContext(ctx, &git.PullOptions{RemoteName: defaultRemote})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if errors.Is(err, git.ErrNonFastForwardUpdate) {
		return ErrDiverged
	}
	if isNetworkError(err) {
		return fmt.Errorf("%w: pull: %v", ErrNetwork, err)
	}
	return fmt.Errorf("pull: %w", err)
}

// Push sends local commits to origin. "Already up to date" is success;
// a rejected (non-fast-forward) push maps to ErrDiverged so the caller can
// pull and retry on the next opportunity.
func (r *Repo) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{RemoteName: defaultRemote})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if errors.Is(err, git.ErrNonFastForwardUpdate) {
		return ErrDiverged
	}
	if isNetworkError(err) {
		return fmt.Errorf("%w: push: %v", ErrNetwork, err)
	}
	return fmt.Errorf("push: %w", err)
}

// CommitAll stages every change in the working copy and commits it with the
// given message, authored by the configured device identity.
func (r *Repo) CommitAll(ctx context.Context, message string) (string, error) {
	if err := r.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}

	hash, err := r.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.device,
			Email: r.device + "@devices.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return hash.String(), nil
}

// Add stages a single path (used after conflict resolution).
func (r *Repo) Add(ctx context.Context, path string) error {
	rel, err := filepath.Rel(r.path, path)
	if err != nil {
		rel = path
	}
	if _, err = r.worktree.Add(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	return nil
}

// Status reports whether the working copy has pending changes.
func (r *Repo) Status(ctx context.Context) (models.WorktreeStatus, error) {
	st, err := r.worktree.Status()
	if err != nil {
		return models.WorktreeStatus{}, fmt.Errorf("status: %w", err)
	}

	var changed []string
	for file, fs := range st {
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			changed = append(changed, file)
		}
	}

	return models.WorktreeStatus{Clean: len(changed) == 0, Changed: changed}, nil
}

// ConflictedFiles walks the working copy for files carrying the standard
// <<<<<<< / ======= / >>>>>>> markers and returns their absolute paths.
// Marker scanning, not index state, is the contract: markers may have been
// written by any merge machinery, not only by this process.
func (r *Repo) ConflictedFiles(ctx context.Context) ([]string, error) {
	var conflicted []string

	err := filepath.WalkDir(r.path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == git.GitDirName {
				return filepath.SkipDir
			}
			return nil
		}

		has, err := hasConflictMarkers(path)
		if err != nil {
			r.log.Warn().Err(err).Str("file", path).Msg("skipping unreadable file in conflict scan")
			return nil
		}
		if has {
			conflicted = append(conflicted, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan for conflicts: %w", err)
	}

	return conflicted, nil
}

func hasConflictMarkers(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "<<<<<<< ") {
			return true, nil
		}
	}
	return false, scanner.Err()
}
