// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// newTestRepository creates a repository with an in-memory storage and worktree.
func newTestRepository(t *testing.T) *gogit.Repository {
	t.Helper()
	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err, "failed to initialize test repository")
	return repo
}

// commit writes and removes files in the worktree and commits the result, returning the commit hash.
func commit(t *testing.T, repo *gogit.Repository, files map[string]string, removed ...string) string {
	t.Helper()

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		require.NoError(t, util.WriteFile(worktree.Filesystem, name, []byte(content), 0644))
		_, err := worktree.Add(name)
		require.NoError(t, err)
	}

	for _, name := range removed {
		_, err := worktree.Remove(name)
		require.NoError(t, err)
	}

	hash, err := worktree.Commit("update", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return hash.String()
}
