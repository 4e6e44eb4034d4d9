// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gitdeploy/pkg/fs"
)

func newMemoryFileSystem() *LocalFileSystem {
	return NewLocalFileSystemWithFs("/srv/www", afero.NewMemMapFs())
}

func TestLocalFileSystemAddress(t *testing.T) {
	assert.Equal(t, "file:///srv/www", newMemoryFileSystem().Address())
}

func TestLocalFileSystemWriteRead(t *testing.T) {
	ctx := context.Background()
	lfs := newMemoryFileSystem()

	require.NoError(t, lfs.Write(ctx, "css/site/main.css", []byte("body {}")))
	require.NoError(t, lfs.Write(ctx, "index.html", []byte("<html>")))

	b, err := lfs.Read(ctx, "css/site/main.css")
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(b))

	require.NoError(t, lfs.Write(ctx, "index.html", []byte("<html></html>")))
	b, err = lfs.Read(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(b))
}

func TestLocalFileSystemReadNotExist(t *testing.T) {
	lfs := newMemoryFileSystem()

	_, err := lfs.Read(context.Background(), ".revision")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalFileSystemDelete(t *testing.T) {
	ctx := context.Background()
	lfs := newMemoryFileSystem()

	require.NoError(t, lfs.Write(ctx, "a/b/c.txt", []byte("c")))
	require.NoError(t, lfs.Write(ctx, "a/d.txt", []byte("d")))

	require.NoError(t, lfs.Delete(ctx, "a/b/c.txt"))

	_, err := lfs.Read(ctx, "a/b/c.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	exists, err := afero.DirExists(lfs.fs, "a/b")
	require.NoError(t, err)
	assert.False(t, exists, "empty parent directory should be removed")

	exists, err = afero.DirExists(lfs.fs, "a")
	require.NoError(t, err)
	assert.True(t, exists, "non-empty parent directory should be kept")
}

func TestLocalFileSystemDeleteNotExist(t *testing.T) {
	assert.NoError(t, newMemoryFileSystem().Delete(context.Background(), "missing.txt"))
}
