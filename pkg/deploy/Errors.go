// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"errors"
	"fmt"
)

// ErrNoRemoteRevision is returned when the store has no revision marker,
// i.e., the store has never been deployed to.
var ErrNoRemoteRevision = errors.New("no remote revision")

// OperationError records a failed store or tree operation and the path involved.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("error during %s of %q: %s", e.Op, e.Path, e.Err.Error())
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
