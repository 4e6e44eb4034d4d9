// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package sftpfs

import (
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAgent listens on a unix socket set as SSH_AUTH_SOCK and reports when a client connection is closed.
func newTestAgent(t *testing.T) <-chan struct{} {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "agent.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = listener.Close()
	})
	t.Setenv("SSH_AUTH_SOCK", socket)

	closed := make(chan struct{}, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
		closed <- struct{}{}
	}()
	return closed
}

func waitClosed(t *testing.T, closed <-chan struct{}) {
	t.Helper()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("agent connection was not closed")
	}
}

func TestAuthMethodsAgent(t *testing.T) {
	closed := newTestAgent(t)

	methods, closers, err := authMethods(&DialInput{Host: "example.com", User: "deploy"})
	require.NoError(t, err)
	assert.Len(t, methods, 1)
	require.Len(t, closers, 1)

	closeAll(closers)
	waitClosed(t, closed)
}

func TestAuthMethodsPassword(t *testing.T) {
	methods, closers, err := authMethods(&DialInput{Host: "example.com", User: "deploy", Password: "secret"})
	require.NoError(t, err)
	assert.Len(t, methods, 1)
	assert.Empty(t, closers)
}

func TestDialClosesAgentOnFailure(t *testing.T) {
	closed := newTestAgent(t)

	// nothing listens on the port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	_, _, err = Dial(&DialInput{
		Host:                  "127.0.0.1",
		Port:                  port,
		User:                  "deploy",
		InsecureIgnoreHostKey: true,
		Timeout:               time.Second,
	})
	require.Error(t, err)
	waitClosed(t, closed)
}
