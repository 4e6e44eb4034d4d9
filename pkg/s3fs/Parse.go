// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"fmt"
	"path"
	"strings"
)

// Parse returns the bucket and key prefix for an s3:// URI.
func Parse(uri string) (string, string, error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("invalid s3 uri %q: missing s3:// scheme", uri)
	}
	parts := Split(uri[len("s3://"):])
	if len(parts) == 0 || parts[0] == "/" {
		return "", "", fmt.Errorf("invalid s3 uri %q: missing bucket", uri)
	}
	return parts[0], path.Join(parts[1:]...), nil
}
