// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package sftpfs

import (
	"time"
)

// DialInput holds the connection and authentication settings for an SFTP server.
type DialInput struct {
	Host     string
	Port     int
	User     string
	Password string
	// KeyFile is the path to a private key.  If both Password and KeyFile are empty, the SSH agent is used.
	KeyFile               string
	Passphrase            string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
	Timeout               time.Duration
}
