// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"github.com/navwar/gitdeploy/pkg/fs"
)

type RunInput struct {
	Strategy   Strategy
	Tree       Tree
	Differ     Differ // required unless Strategy is StrategyFull
	Store      fs.Store
	Exclusions Exclusions
	Logger     fs.Logger
	DryRun     bool
}
