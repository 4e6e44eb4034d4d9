// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package ts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	assert.Equal(t, Layout(time.RFC3339), ParseLayout("RFC3339"))
	assert.Equal(t, Layout("2006"), ParseLayout("2006"))
	assert.Equal(t, "2024-03-01", ParseLayout("DateOnly").Format(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(NamedLayouts))
	assert.Equal(t, "DateOnly", names[0])
}

func TestParseLocation(t *testing.T) {
	location, err := ParseLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, location)

	location, err = ParseLocation("+2")
	require.NoError(t, err)
	_, offset := time.Date(2024, time.March, 1, 0, 0, 0, 0, location).Zone()
	assert.Equal(t, 7200, offset)

	_, err = ParseLocation("")
	assert.Error(t, err)
}
