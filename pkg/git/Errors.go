// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package git

import (
	"errors"
)

// ErrResolveFailed is returned when a revision cannot be resolved to a commit.
var ErrResolveFailed = errors.New("cannot resolve revision")

// ErrFileNotFound is returned when a file does not exist in the tree at the revision.
var ErrFileNotFound = errors.New("file not found at revision")
