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

// Run deploys using the strategy in the input.
// With StrategyAuto, an incremental deploy that finds no revision marker falls back to a full deploy.
// Any other error is returned as is.
func Run(ctx context.Context, input *RunInput) (*Report, error) {
	full := func() (*Report, error) {
		return Full(ctx, &FullInput{
			Tree:       input.Tree,
			Store:      input.Store,
			Exclusions: input.Exclusions,
			Logger:     input.Logger,
			DryRun:     input.DryRun,
		})
	}
	incremental := func() (*Report, error) {
		return Incremental(ctx, &IncrementalInput{
			Tree:       input.Tree,
			Differ:     input.Differ,
			Store:      input.Store,
			Exclusions: input.Exclusions,
			Logger:     input.Logger,
			DryRun:     input.DryRun,
		})
	}

	switch input.Strategy {
	case StrategyFull:
		return full()
	case StrategyIncremental:
		return incremental()
	case StrategyAuto:
		report, err := incremental()
		if !errors.Is(err, ErrNoRemoteRevision) {
			return report, err
		}
		if input.Logger != nil {
			_ = input.Logger.Log("No remote revision, deploying all files", map[string]interface{}{
				"address": input.Store.Address(),
			})
		}
		report, err = full()
		if report != nil {
			report.Fallback = true
		}
		return report, err
	}

	return nil, fmt.Errorf("unknown strategy %q", input.Strategy.String())
}
