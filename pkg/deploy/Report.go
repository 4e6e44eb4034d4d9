// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"encoding/json"
)

type ActionKind int

const (
	ActionUpload ActionKind = iota
	ActionDelete
	ActionSkip
)

func (k ActionKind) String() string {
	switch k {
	case ActionUpload:
		return "upload"
	case ActionDelete:
		return "delete"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

// Action is a file operation performed, or skipped, during a deploy.
type Action struct {
	Kind ActionKind
	Path string
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"kind": a.Kind.String(),
		"path": a.Path,
	})
}

// Report describes the outcome of a deploy.
// When a deploy fails, the report lists the actions completed before the failure.
type Report struct {
	Address         string
	Strategy        Strategy
	Fallback        bool
	DryRun          bool
	LocalRevision   string
	RemoteRevision  string
	Actions         []Action
	NothingToDeploy bool
	RevisionWritten bool
}

// Count returns the number of actions of the given kind.
func (r *Report) Count(kind ActionKind) int {
	count := 0
	for _, a := range r.Actions {
		if a.Kind == kind {
			count++
		}
	}
	return count
}

func (r *Report) Fields() map[string]interface{} {
	return map[string]interface{}{
		"address":  r.Address,
		"strategy": r.Strategy.String(),
		"fallback": r.Fallback,
		"dry_run":  r.DryRun,
		"local":    r.LocalRevision,
		"remote":   r.RemoteRevision,
		"uploaded": r.Count(ActionUpload),
		"deleted":  r.Count(ActionDelete),
		"skipped":  r.Count(ActionSkip),
		"written":  r.RevisionWritten,
	}
}
