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
	"fmt"
)

// Incremental uploads the files changed and deletes the files removed since the revision recorded in the store.
//
// If the store has no revision marker, then returns ErrNoRemoteRevision without performing any file operations.
// If the recorded revision equals the local revision, then nothing is done and the marker is left untouched.
// Otherwise, all uploads are performed before any deletion and the marker is written once all operations succeed,
// even when the delta is empty.
// The first failed operation aborts the deploy and the marker is not written.
func Incremental(ctx context.Context, input *IncrementalInput) (*Report, error) {
	if input.Differ == nil {
		return nil, errors.New("incremental deploy requires a differ")
	}

	e := newExecutor(StrategyIncremental, input.Tree, input.Store, input.Exclusions, input.Logger, input.DryRun)

	remoteRevision, err := ReadRevision(ctx, input.Store)
	if err != nil {
		return e.report, err
	}

	e.report.RemoteRevision = remoteRevision

	if remoteRevision == e.report.LocalRevision {
		e.report.NothingToDeploy = true
		e.log("Nothing to deploy", map[string]interface{}{
			"revision": remoteRevision,
		})
		return e.report, nil
	}

	delta, err := input.Differ.Diff(ctx, remoteRevision)
	if err != nil {
		return e.report, fmt.Errorf("error computing changes since revision %q: %w", remoteRevision, err)
	}

	if delta.Empty() {
		e.report.NothingToDeploy = true
		e.log("Nothing to deploy", map[string]interface{}{
			"local":  e.report.LocalRevision,
			"remote": remoteRevision,
		})
	}

	for _, name := range delta.Changed {
		if err := e.upload(ctx, name); err != nil {
			return e.report, err
		}
	}

	for _, name := range delta.Deleted {
		if err := e.delete(ctx, name); err != nil {
			return e.report, err
		}
	}

	if err := e.writeRevision(ctx); err != nil {
		return e.report, err
	}

	return e.report, nil
}
