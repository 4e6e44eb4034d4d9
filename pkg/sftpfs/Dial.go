// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package sftpfs

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

var (
	ErrMissingHost         = errors.New("sftp host is missing")
	ErrMissingUser         = errors.New("sftp user is missing")
	ErrMissingHostKeyCheck = errors.New("sftp known hosts file is missing and insecure host key is not allowed")
)

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// authMethods returns the auth methods for the input and the connections they hold open, e.g., to the ssh agent.
func authMethods(input *DialInput) ([]ssh.AuthMethod, []io.Closer, error) {
	methods := []ssh.AuthMethod{}
	closers := []io.Closer{}
	if len(input.KeyFile) > 0 {
		b, err := os.ReadFile(input.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("error reading private key %q: %w", input.KeyFile, err)
		}
		var signer ssh.Signer
		if len(input.Passphrase) > 0 {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(b, []byte(input.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(b)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing private key %q: %w", input.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if len(input.Password) > 0 {
		methods = append(methods, ssh.Password(input.Password))
	}
	if len(methods) == 0 {
		socket := os.Getenv("SSH_AUTH_SOCK")
		if len(socket) == 0 {
			return nil, nil, errors.New("no sftp credentials configured and SSH_AUTH_SOCK is not set")
		}
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to ssh agent: %w", err)
		}
		closers = append(closers, conn)
		methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
	}
	return methods, closers, nil
}

func hostKeyCallback(input *DialInput) (ssh.HostKeyCallback, error) {
	if input.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if len(input.KnownHostsFile) == 0 {
		return nil, ErrMissingHostKeyCheck
	}
	callback, err := knownhosts.New(input.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading known hosts file %q: %w", input.KnownHostsFile, err)
	}
	return callback, nil
}

// Dial connects to the SFTP server and returns a client along with the connections it holds open,
// which the caller closes after the client.
func Dial(input *DialInput) (*sftp.Client, []io.Closer, error) {
	if len(input.Host) == 0 {
		return nil, nil, ErrMissingHost
	}
	if len(input.User) == 0 {
		return nil, nil, ErrMissingUser
	}

	callback, err := hostKeyCallback(input)
	if err != nil {
		return nil, nil, err
	}

	methods, closers, err := authMethods(input)
	if err != nil {
		return nil, nil, err
	}

	port := input.Port
	if port == 0 {
		port = DefaultPort
	}

	addr := net.JoinHostPort(input.Host, strconv.Itoa(port))
	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            input.User,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         input.Timeout,
	})
	if err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("error connecting to %q: %w", addr, err)
	}

	// the ssh connection is closed before the agent connection
	closers = append([]io.Closer{sshClient}, closers...)

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("error starting sftp session on %q: %w", addr, err)
	}

	return sftpClient, closers, nil
}
