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

type FullInput struct {
	Tree       Tree
	Store      fs.Store
	Exclusions Exclusions
	Logger     fs.Logger
	DryRun     bool
}
