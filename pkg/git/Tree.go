// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/navwar/gitdeploy/pkg/deploy"
)

// Tree is a read-only view of a git repository at a single commit.
// When a path is set, only files below that directory are visible and names are relative to it.
type Tree struct {
	repo *gogit.Repository
	hash plumbing.Hash
	tree *object.Tree
	path string
}

func (t *Tree) Revision() string {
	return t.hash.String()
}

// relative returns the name relative to the tree path and whether the name is below it.
func (t *Tree) relative(name string) (string, bool) {
	if len(t.path) == 0 {
		return name, true
	}
	if !strings.HasPrefix(name, t.path+"/") {
		return "", false
	}
	return name[len(t.path)+1:], true
}

func (t *Tree) absolute(name string) string {
	if len(t.path) == 0 {
		return name
	}
	return t.path + "/" + name
}

// Files returns the names of all files in the tree, sorted.
// Submodules are not included.
func (t *Tree) Files(ctx context.Context) ([]string, error) {
	files := []string{}
	err := t.tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name, ok := t.relative(f.Name); ok {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing files at revision %q: %w", t.Revision(), err)
	}
	sort.Strings(files)
	return files, nil
}

func (t *Tree) Content(ctx context.Context, name string) ([]byte, error) {
	f, err := t.tree.File(t.absolute(name))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %q at %q", ErrFileNotFound, name, t.Revision())
		}
		return nil, fmt.Errorf("error getting file %q at revision %q: %w", name, t.Revision(), err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("error opening file %q at revision %q: %w", name, t.Revision(), err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q at revision %q: %w", name, t.Revision(), err)
	}
	return b, nil
}

func (t *Tree) changed(delta *deploy.Delta, entry object.ChangeEntry) {
	if entry.TreeEntry.Mode == filemode.Submodule {
		return
	}
	if name, ok := t.relative(entry.Name); ok {
		delta.Changed = append(delta.Changed, name)
	}
}

func (t *Tree) deleted(delta *deploy.Delta, entry object.ChangeEntry) {
	if entry.TreeEntry.Mode == filemode.Submodule {
		return
	}
	if name, ok := t.relative(entry.Name); ok {
		delta.Deleted = append(delta.Deleted, name)
	}
}

// Diff returns the files changed and deleted between the base revision and the tree.
// A renamed file is reported as deleted at its old name and changed at its new name.
func (t *Tree) Diff(ctx context.Context, base string) (*deploy.Delta, error) {
	_, baseTree, err := resolveTree(t.repo, base)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, baseTree, t.tree, &object.DiffTreeOptions{
		DetectRenames: false,
	})
	if err != nil {
		return nil, fmt.Errorf("error computing changes from %q to %q: %w", base, t.Revision(), err)
	}

	return t.delta(changes)
}

// delta classifies the changes into files to upload and files to delete, relative to the tree path.
func (t *Tree) delta(changes object.Changes) (*deploy.Delta, error) {
	delta := &deploy.Delta{
		Changed: []string{},
		Deleted: []string{},
	}
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, fmt.Errorf("error classifying change: %w", err)
		}
		switch action {
		case merkletrie.Insert:
			t.changed(delta, change.To)
		case merkletrie.Modify:
			// a modify across names is a rename
			if change.From.Name != change.To.Name {
				t.deleted(delta, change.From)
			}
			t.changed(delta, change.To)
		case merkletrie.Delete:
			t.deleted(delta, change.From)
		}
	}
	sort.Strings(delta.Changed)
	sort.Strings(delta.Deleted)
	return delta, nil
}

// NewTree returns the tree of the repository at the input revision.
func NewTree(input *TreeInput) (*Tree, error) {
	revision := input.Revision
	if len(revision) == 0 {
		revision = DefaultRevision
	}
	hash, tree, err := resolveTree(input.Repository, revision)
	if err != nil {
		return nil, err
	}
	p := strings.Trim(path.Clean("/"+input.Path), "/")
	if len(p) > 0 {
		if _, err := tree.Tree(p); err != nil {
			return nil, fmt.Errorf("error getting directory %q at revision %q: %w", p, revision, err)
		}
	}
	return &Tree{
		repo: input.Repository,
		hash: hash,
		tree: tree,
		path: p,
	}, nil
}
