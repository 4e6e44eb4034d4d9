// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusions(t *testing.T) {
	e := NewExclusions("config.php", "assets/")
	assert.True(t, e.IsExcluded("config.php"))
	assert.False(t, e.IsExcluded("Config.php"))
	assert.False(t, e.IsExcluded("./config.php"))
	assert.False(t, e.IsExcluded("assets"))
	assert.False(t, e.IsExcluded("assets/logo.png"))
	assert.Equal(t, []string{"assets/", "config.php"}, e.Paths())

	var empty Exclusions
	assert.False(t, empty.IsExcluded("config.php"))
	assert.Empty(t, empty.Paths())
}

func TestReadRevision(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore("")
	store.files[RevisionPath] = []byte("  e83c5163316f89bfbde7d9ab23ca2e25604af290\r\n")

	revision, err := ReadRevision(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "e83c5163316f89bfbde7d9ab23ca2e25604af290", revision)

	require.NoError(t, WriteRevision(ctx, store, "abc123"))
	assert.Equal(t, "abc123", string(store.files[RevisionPath]))
}
