// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalFileSystem is a deployment target rooted at a local (or mounted) directory.
type LocalFileSystem struct {
	root string
	fs   afero.Fs
}

func (lfs *LocalFileSystem) Address() string {
	return "file://" + lfs.root
}

// Delete removes the file and any parent directories left empty.
// Deleting a file that does not exist is not an error.
func (lfs *LocalFileSystem) Delete(ctx context.Context, name string) error {
	err := lfs.fs.Remove(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error removing file %q: %w", name, err)
	}
	for parent := Dir(name); parent != "." && parent != string(os.PathSeparator); parent = Dir(parent) {
		empty, err := afero.IsEmpty(lfs.fs, parent)
		if err != nil || !empty {
			break
		}
		if err := lfs.fs.Remove(parent); err != nil {
			return fmt.Errorf("error removing empty directory %q: %w", parent, err)
		}
	}
	return nil
}

func (lfs *LocalFileSystem) Read(ctx context.Context, name string) ([]byte, error) {
	b, err := afero.ReadFile(lfs.fs, name)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", name, err)
	}
	return b, nil
}

// Write creates parent directories as needed and replaces the file contents.
func (lfs *LocalFileSystem) Write(ctx context.Context, name string, content []byte) error {
	if err := lfs.fs.MkdirAll(Dir(name), 0755); err != nil {
		return fmt.Errorf("error creating parent directories for %q: %w", name, err)
	}
	if err := afero.WriteFile(lfs.fs, name, content, 0644); err != nil {
		return fmt.Errorf("error writing file %q: %w", name, err)
	}
	return nil
}

func NewLocalFileSystem(rootPath string) *LocalFileSystem {
	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}
	return &LocalFileSystem{
		root: rootPath,
		fs:   afero.NewBasePathFs(afero.NewOsFs(), rootPath),
	}
}

// NewLocalFileSystemWithFs returns a file system backed by the given afero file system,
// e.g., an in-memory file system.
func NewLocalFileSystemWithFs(rootPath string, fs afero.Fs) *LocalFileSystem {
	return &LocalFileSystem{
		root: rootPath,
		fs:   fs,
	}
}
