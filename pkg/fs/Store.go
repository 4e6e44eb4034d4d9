// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"os"
)

// ErrNotExist is returned, possibly wrapped, by Store.Read when the path does not exist.
// Stores map their transport-specific codes into this error.
var ErrNotExist = os.ErrNotExist

// Store is a remote deployment target addressed by slash-separated relative paths.
type Store interface {
	// Address returns a URI identifying the store, e.g., s3://bucket/prefix.
	Address() string
	Delete(ctx context.Context, name string) error
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, content []byte) error
}
