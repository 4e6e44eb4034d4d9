// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"sort"
)

// Exclusions is a set of paths that are never written or deleted remotely.
// Paths are matched exactly, without normalization.
type Exclusions map[string]struct{}

func (e Exclusions) IsExcluded(p string) bool {
	_, ok := e[p]
	return ok
}

// Paths returns the excluded paths in sorted order.
func (e Exclusions) Paths() []string {
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func NewExclusions(paths ...string) Exclusions {
	e := Exclusions{}
	for _, p := range paths {
		e[p] = struct{}{}
	}
	return e
}
