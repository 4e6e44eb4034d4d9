// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package sftpfs

import (
	"context"
	"net"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gitdeploy/pkg/fs"
)

func newTestFileSystem(t *testing.T) (*SFTPFileSystem, *sftp.Client) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go func() {
		_ = server.Serve()
	}()
	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	sfs := NewSFTPFileSystem(client, "/srv/www", "sftp://deploy@localhost/srv/www", server)
	t.Cleanup(func() {
		_ = sfs.Close()
	})
	return sfs, client
}

func TestSFTPFileSystemAddress(t *testing.T) {
	sfs, _ := newTestFileSystem(t)
	assert.Equal(t, "sftp://deploy@localhost/srv/www", sfs.Address())
}

func TestSFTPFileSystemWriteRead(t *testing.T) {
	ctx := context.Background()
	sfs, client := newTestFileSystem(t)

	require.NoError(t, sfs.Write(ctx, "assets/css/site.css", []byte("body {}")))
	require.NoError(t, sfs.Write(ctx, "assets/css/site.css", []byte("p {}")))

	b, err := sfs.Read(ctx, "assets/css/site.css")
	require.NoError(t, err)
	assert.Equal(t, "p {}", string(b))

	fi, err := client.Stat("/srv/www/assets/css")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestSFTPFileSystemReadNotExist(t *testing.T) {
	sfs, _ := newTestFileSystem(t)
	_, err := sfs.Read(context.Background(), ".revision")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSFTPFileSystemDelete(t *testing.T) {
	ctx := context.Background()
	sfs, client := newTestFileSystem(t)

	require.NoError(t, sfs.Write(ctx, "a/b/c.txt", []byte("c")))
	require.NoError(t, sfs.Write(ctx, "a/d.txt", []byte("d")))

	require.NoError(t, sfs.Delete(ctx, "a/b/c.txt"))

	_, err := client.Stat("/srv/www/a/b")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = client.Stat("/srv/www/a/d.txt")
	assert.NoError(t, err)

	// missing files are ignored
	assert.NoError(t, sfs.Delete(ctx, "a/b/c.txt"))
}
