// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package git

import (
	gogit "github.com/go-git/go-git/v5"
)

type TreeInput struct {
	Repository *gogit.Repository
	Revision   string // defaults to HEAD
	Path       string // subdirectory of the repository to deploy, defaults to the root
}
