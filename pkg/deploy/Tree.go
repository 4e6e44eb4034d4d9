// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"
)

// Tree is a read-only view of a source tree at a single revision.
type Tree interface {
	Revision() string
	Files(ctx context.Context) ([]string, error)
	Content(ctx context.Context, name string) ([]byte, error)
}

// Differ computes the files changed and deleted since the base revision.
type Differ interface {
	Diff(ctx context.Context, base string) (*Delta, error)
}

// Delta is the set of changed and deleted files between two revisions.
// A path is either changed or deleted, never both.
type Delta struct {
	Changed []string
	Deleted []string
}

// Diff returns the delta itself, so a precomputed delta can be used as a Differ.
func (d *Delta) Diff(ctx context.Context, base string) (*Delta, error) {
	return d, nil
}

func (d *Delta) Empty() bool {
	return len(d.Changed) == 0 && len(d.Deleted) == 0
}
