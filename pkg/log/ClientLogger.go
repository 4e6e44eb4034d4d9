// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package log

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go/logging"

	"github.com/navwar/gitdeploy/pkg/fs"
)

// ClientLogger forwards aws-sdk-go-v2 client events to a logger.
type ClientLogger struct {
	logger fs.Logger
}

func (c ClientLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	event := fmt.Sprintf(format, v...)
	msg := "Client Event"
	details := event
	for _, prefix := range []string{"Request Signature", "Request", "Response", "Retry"} {
		if strings.HasPrefix(event, prefix+"\n") || strings.HasPrefix(event, prefix+":\n") {
			msg = prefix
			details = strings.TrimPrefix(strings.TrimPrefix(event, prefix), ":")[1:]
			break
		}
	}
	// logging must not interrupt the request
	_ = c.logger.Log(msg, map[string]interface{}{
		"classification": string(classification),
		"details":        details,
	})
}

var _ logging.Logger = ClientLogger{}

func NewClientLogger(logger fs.Logger) *ClientLogger {
	return &ClientLogger{logger: logger}
}
