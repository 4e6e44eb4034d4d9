// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/navwar/gitdeploy/pkg/ts"
)

const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

var Formats = []string{FormatJSONL, FormatText}

type SimpleLoggerInput struct {
	Writer   io.Writer
	Format   string
	Layout   ts.Layout
	Location *time.Location
}

// SimpleLogger writes one event per line, as a JSON object or as text.
type SimpleLogger struct {
	mutex    sync.Mutex
	writer   io.Writer
	format   string
	layout   ts.Layout
	location *time.Location
	now      func() time.Time
}

func (s *SimpleLogger) fields(msg string, fields []map[string]interface{}) map[string]interface{} {
	m := map[string]interface{}{}
	for _, f := range fields {
		for k, v := range f {
			m[k] = v
		}
	}
	m["msg"] = msg
	m["ts"] = s.layout.Format(s.now().In(s.location))
	return m
}

func (s *SimpleLogger) text(m map[string]interface{}) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "msg" && k != "ts" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	buf := bytes.NewBufferString(fmt.Sprintf("%s %s", m["ts"], m["msg"]))
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			buf.WriteString(fmt.Sprintf(" %s=%q", k, v))
		default:
			buf.WriteString(fmt.Sprintf(" %s=%v", k, v))
		}
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

func (s *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	m := s.fields(msg, fields)
	var line []byte
	if s.format == FormatText {
		line = s.text(m)
	} else {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("error marshaling log event: %w", err)
		}
		line = append(b, '\n')
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, err := s.writer.Write(line)
	if err != nil {
		return fmt.Errorf("error writing log event: %w", err)
	}
	return nil
}

func NewSimpleLogger(w io.Writer) *SimpleLogger {
	return NewSimpleLoggerWithInput(&SimpleLoggerInput{Writer: w})
}

func NewSimpleLoggerWithInput(input *SimpleLoggerInput) *SimpleLogger {
	format := input.Format
	if len(format) == 0 {
		format = FormatJSONL
	}
	layout := input.Layout
	if len(layout) == 0 {
		layout = time.RFC3339Nano
	}
	location := input.Location
	if location == nil {
		location = time.UTC
	}
	return &SimpleLogger{
		writer:   input.Writer,
		format:   format,
		layout:   layout,
		location: location,
		now:      time.Now,
	}
}
