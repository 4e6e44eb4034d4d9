// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package sftpfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/sftp"

	"github.com/navwar/gitdeploy/pkg/fs"
)

// SFTPFileSystem is a deployment target rooted at a directory on an SFTP server.
type SFTPFileSystem struct {
	client  *sftp.Client
	root    string
	address string
	closers []io.Closer
}

func (sfs *SFTPFileSystem) Address() string {
	return sfs.address
}

// Close closes the SFTP session and the underlying connection, if owned.
func (sfs *SFTPFileSystem) Close() error {
	err := sfs.client.Close()
	for _, c := range sfs.closers {
		_ = c.Close()
	}
	return err
}

// IsNotExist returns true if the error indicates the file does not exist.
func (sfs *SFTPFileSystem) IsNotExist(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var statusError *sftp.StatusError
	if errors.As(err, &statusError) {
		return statusError.FxCode() == sftp.ErrSSHFxNoSuchFile
	}
	return false
}

func (sfs *SFTPFileSystem) path(name string) string {
	return path.Join(sfs.root, name)
}

// Delete removes the file and any parent directories below the root left empty.
// Deleting a file that does not exist is not an error.
func (sfs *SFTPFileSystem) Delete(ctx context.Context, name string) error {
	p := sfs.path(name)
	if err := sfs.client.Remove(p); err != nil {
		if sfs.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error removing file %q: %w", p, err)
	}
	for dir := path.Dir(p); dir != sfs.root && dir != "/" && dir != "."; dir = path.Dir(dir) {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := sfs.client.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := sfs.client.RemoveDirectory(dir); err != nil {
			return fmt.Errorf("error removing empty directory %q: %w", dir, err)
		}
	}
	return nil
}

func (sfs *SFTPFileSystem) Read(ctx context.Context, name string) ([]byte, error) {
	p := sfs.path(name)
	f, err := sfs.client.Open(p)
	if err != nil {
		if sfs.IsNotExist(err) {
			return nil, fmt.Errorf("error opening file %q: %w", p, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("error opening file %q: %w", p, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", p, err)
	}
	return b, nil
}

// Write creates parent directories as needed and replaces the file contents.
func (sfs *SFTPFileSystem) Write(ctx context.Context, name string, content []byte) error {
	p := sfs.path(name)
	if err := sfs.client.MkdirAll(path.Dir(p)); err != nil {
		return fmt.Errorf("error creating parent directories for %q: %w", p, err)
	}
	f, err := sfs.client.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("error creating file %q: %w", p, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing file %q: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing file %q after writing: %w", p, err)
	}
	return nil
}

// NewSFTPFileSystem returns a file system rooted at the remote directory.
// The closers are closed, in order, after the client when the file system is closed.
func NewSFTPFileSystem(client *sftp.Client, root string, address string, closers ...io.Closer) *SFTPFileSystem {
	return &SFTPFileSystem{
		client:  client,
		root:    path.Clean(root),
		address: address,
		closers: closers,
	}
}
