// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"

	"github.com/navwar/gitdeploy/pkg/fs"
)

// executor applies file operations one at a time and records them in the report.
// Every mutating call is preceded by an exclusion check.
type executor struct {
	tree       Tree
	store      fs.Store
	exclusions Exclusions
	logger     fs.Logger
	dryRun     bool
	report     *Report
}

func (e *executor) log(msg string, fields map[string]interface{}) {
	if e.dryRun {
		fields["dry_run"] = true
	}
	_ = e.logger.Log(msg, fields)
}

func (e *executor) skip(name string) {
	e.log("Skipping file", map[string]interface{}{
		"path": name,
	})
	e.report.Actions = append(e.report.Actions, Action{Kind: ActionSkip, Path: name})
}

func (e *executor) upload(ctx context.Context, name string) error {
	if e.exclusions.IsExcluded(name) {
		e.skip(name)
		return nil
	}
	e.log("Uploading file", map[string]interface{}{
		"path": name,
	})
	if !e.dryRun {
		content, err := e.tree.Content(ctx, name)
		if err != nil {
			return &OperationError{Op: "content", Path: name, Err: err}
		}
		if err := e.store.Write(ctx, name, content); err != nil {
			return &OperationError{Op: "write", Path: name, Err: err}
		}
	}
	e.report.Actions = append(e.report.Actions, Action{Kind: ActionUpload, Path: name})
	return nil
}

func (e *executor) delete(ctx context.Context, name string) error {
	if e.exclusions.IsExcluded(name) {
		e.skip(name)
		return nil
	}
	e.log("Deleting file", map[string]interface{}{
		"path": name,
	})
	if !e.dryRun {
		if err := e.store.Delete(ctx, name); err != nil {
			return &OperationError{Op: "delete", Path: name, Err: err}
		}
	}
	e.report.Actions = append(e.report.Actions, Action{Kind: ActionDelete, Path: name})
	return nil
}

func (e *executor) writeRevision(ctx context.Context) error {
	revision := e.tree.Revision()
	e.log("Writing revision", map[string]interface{}{
		"revision": revision,
		"address":  e.store.Address(),
	})
	if e.dryRun {
		return nil
	}
	if err := WriteRevision(ctx, e.store, revision); err != nil {
		return err
	}
	e.report.RevisionWritten = true
	return nil
}

func newExecutor(strategy Strategy, tree Tree, store fs.Store, exclusions Exclusions, logger fs.Logger, dryRun bool) *executor {
	if logger == nil {
		logger = fs.NopLogger{}
	}
	return &executor{
		tree:       tree,
		store:      store,
		exclusions: exclusions,
		logger:     logger,
		dryRun:     dryRun,
		report: &Report{
			Address:       store.Address(),
			Strategy:      strategy,
			DryRun:        dryRun,
			LocalRevision: tree.Revision(),
			Actions:       []Action{},
		},
	}
}
