// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

// Package deploy synchronizes a revision of a source tree to a remote store.
//
// The revision last deployed is recorded in the store at RevisionPath.
// Incremental deploys upload the files changed since that revision and delete the files removed since,
// while full deploys upload every file in the tree.
// In both cases the marker is written only after every file operation succeeds,
// so an interrupted deploy is detected as still behind on the next run.
package deploy
