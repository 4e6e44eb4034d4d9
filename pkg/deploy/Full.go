// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"
	"fmt"
)

// Full uploads every file in the tree, regardless of the revision recorded in the store,
// and then writes the marker.
// The first failed operation aborts the deploy and the marker is not written.
func Full(ctx context.Context, input *FullInput) (*Report, error) {
	e := newExecutor(StrategyFull, input.Tree, input.Store, input.Exclusions, input.Logger, input.DryRun)

	files, err := input.Tree.Files(ctx)
	if err != nil {
		return e.report, fmt.Errorf("error listing files at revision %q: %w", e.report.LocalRevision, err)
	}

	for _, name := range files {
		if err := e.upload(ctx, name); err != nil {
			return e.report, err
		}
	}

	if err := e.writeRevision(ctx); err != nil {
		return e.report, err
	}

	return e.report, nil
}
