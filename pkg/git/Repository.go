// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultRevision is the revision deployed when none is given.
const DefaultRevision = "HEAD"

type Repository = gogit.Repository

// Open opens the git repository containing dir.
func Open(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening git repository at %q: %w", dir, err)
	}
	return repo, nil
}

// WorktreeRoot returns the root directory of the repository's worktree.
func WorktreeRoot(repo *gogit.Repository) (string, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("error getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// resolveTree returns the commit hash and root tree for the revision.
func resolveTree(repo *gogit.Repository, revision string) (plumbing.Hash, *object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("%w %q: %s", ErrResolveFailed, revision, err.Error())
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("error getting commit %q: %w", hash.String(), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("error getting tree for commit %q: %w", hash.String(), err)
	}
	return *hash, tree, nil
}
