// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"fmt"
)

// Check returns an error if the repository and the destination directory overlap.
// Deploying into the working tree, or into a parent of it, would modify the tree being deployed.
func Check(repository string, destination string) error {
	if repository == destination {
		return fmt.Errorf("repository and destination must be different: %q", "file://"+repository)
	}
	repositoryDirectories := Split(repository)
	destinationDirectories := Split(destination)
	i := 0
	for ; i < len(repositoryDirectories) && i < len(destinationDirectories); i++ {
		if repositoryDirectories[i] != destinationDirectories[i] {
			return nil
		}
	}
	if len(repositoryDirectories)-i > 0 {
		return fmt.Errorf("cycle error: destination %q is a parent of repository %q", destination, repository)
	} else if len(destinationDirectories)-i > 0 {
		return fmt.Errorf("cycle error: destination %q is inside repository %q", destination, repository)
	}
	return fmt.Errorf("repository and destination must be different: %q", "file://"+repository)
}
