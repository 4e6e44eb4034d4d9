// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/navwar/gitdeploy/pkg/fs"
)

type operation struct {
	op   string
	path string
}

// memoryStore records every call issued against it.
type memoryStore struct {
	files    map[string][]byte
	ops      []operation
	failures map[operation]error
}

func (s *memoryStore) Address() string {
	return "memory://test"
}

func (s *memoryStore) Delete(ctx context.Context, name string) error {
	s.ops = append(s.ops, operation{op: "delete", path: name})
	if err := s.failures[operation{op: "delete", path: name}]; err != nil {
		return err
	}
	delete(s.files, name)
	return nil
}

func (s *memoryStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := s.failures[operation{op: "read", path: name}]; err != nil {
		return nil, err
	}
	b, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("error reading %q: %w", name, fs.ErrNotExist)
	}
	return b, nil
}

func (s *memoryStore) Write(ctx context.Context, name string, content []byte) error {
	s.ops = append(s.ops, operation{op: "write", path: name})
	if err := s.failures[operation{op: "write", path: name}]; err != nil {
		return err
	}
	s.files[name] = content
	return nil
}

func (s *memoryStore) revision() string {
	return strings.TrimSpace(string(s.files[RevisionPath]))
}

func newMemoryStore(revision string) *memoryStore {
	s := &memoryStore{
		files:    map[string][]byte{},
		ops:      []operation{},
		failures: map[operation]error{},
	}
	if len(revision) > 0 {
		s.files[RevisionPath] = []byte(revision + "\n")
	}
	return s
}

type memoryTree struct {
	revision string
	files    map[string]string
}

func (t *memoryTree) Revision() string {
	return t.revision
}

func (t *memoryTree) Files(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(t.files))
	for name := range t.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (t *memoryTree) Content(ctx context.Context, name string) ([]byte, error) {
	content, ok := t.files[name]
	if !ok {
		return nil, fmt.Errorf("file %q does not exist at revision %q", name, t.revision)
	}
	return []byte(content), nil
}

func newExampleTree() *memoryTree {
	return &memoryTree{
		revision: "abc123",
		files: map[string]string{
			"a.txt": "a",
			"b.txt": "b",
		},
	}
}

// recordingLogger keeps the messages logged.
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Log(msg string, fields ...map[string]interface{}) error {
	l.messages = append(l.messages, msg)
	return nil
}
