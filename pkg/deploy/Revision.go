// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"
	"errors"
	"strings"

	"github.com/navwar/gitdeploy/pkg/fs"
)

// RevisionPath is the path in the store of the revision marker.
const RevisionPath = ".revision"

// ReadRevision returns the revision last deployed to the store.
// If the marker is missing or empty, then returns ErrNoRemoteRevision.
func ReadRevision(ctx context.Context, store fs.Store) (string, error) {
	b, err := store.Read(ctx, RevisionPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoRemoteRevision
		}
		return "", &OperationError{Op: "read", Path: RevisionPath, Err: err}
	}
	revision := strings.TrimSpace(string(b))
	if len(revision) == 0 {
		return "", ErrNoRemoteRevision
	}
	return revision, nil
}

// WriteRevision records the revision as deployed to the store.
func WriteRevision(ctx context.Context, store fs.Store, revision string) error {
	if err := store.Write(ctx, RevisionPath, []byte(revision)); err != nil {
		return &OperationError{Op: "write", Path: RevisionPath, Err: err}
	}
	return nil
}
