// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gitdeploy/pkg/deploy"
	"github.com/navwar/gitdeploy/pkg/fs"
	"github.com/navwar/gitdeploy/pkg/lfs"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "deploy"}
	initDeployCommandFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestCheckDeployConfig(t *testing.T) {
	cmd := newTestCommand(t, "--strategy", "incremental")
	v, err := initViper(cmd)
	require.NoError(t, err)

	assert.ErrorIs(t, checkDeployConfig(v, []string{}), ErrMissingDestination)

	initDestination(v, []string{"/srv/www"})
	assert.NoError(t, checkDeployConfig(v, []string{"/srv/www"}))

	assert.Error(t, checkDeployConfig(v, []string{"/srv/www", "/srv/other"}))
}

func TestCheckDeployConfigInvalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "strategy", args: []string{"--strategy", "mirror"}},
		{name: "full", args: []string{"--strategy", "incremental", "--full"}},
		{name: "log format", args: []string{"--log-format", "xml"}},
		{name: "log perm", args: []string{"--log-perm", "rw"}},
		{name: "part size", args: []string{"--part-size", "1024"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := initViper(newTestCommand(t, tc.args...))
			require.NoError(t, err)
			initDestination(v, []string{"s3://bucket/site"})
			assert.Error(t, checkDeployConfig(v, []string{"s3://bucket/site"}))
		})
	}
}

func TestInitConfigFile(t *testing.T) {
	root := t.TempDir()
	config := "destination: /srv/www\nexclude:\n  - config.php\n  - .htaccess\nstrategy: full\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigFile), []byte(config), 0600))

	v, err := initViper(newTestCommand(t, "--strategy", "incremental"))
	require.NoError(t, err)
	require.NoError(t, initConfigFile(v, root))

	assert.Equal(t, "/srv/www", v.GetString(keyDestination))
	assert.Equal(t, []string{"config.php", ".htaccess"}, v.GetStringSlice(flagExclude))
	// flags take precedence over the config file
	assert.Equal(t, "incremental", v.GetString(flagStrategy))
}

func TestInitConfigFileMissing(t *testing.T) {
	v, err := initViper(newTestCommand(t))
	require.NoError(t, err)
	assert.NoError(t, initConfigFile(v, t.TempDir()))

	v, err = initViper(newTestCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yml")))
	require.NoError(t, err)
	assert.Error(t, initConfigFile(v, t.TempDir()))
}

func TestCheckLocalDestination(t *testing.T) {
	root := t.TempDir()
	assert.Error(t, checkLocalDestination(root, root))
	assert.Error(t, checkLocalDestination("file://"+filepath.Join(root, "public"), root))
	assert.Error(t, checkLocalDestination(filepath.Dir(root), root))
	assert.NoError(t, checkLocalDestination(t.TempDir(), root))
	assert.NoError(t, checkLocalDestination("s3://bucket/site", root))
	assert.NoError(t, checkLocalDestination("sftp://deploy@example.com/var/www", root))
}

func TestInitStoreLocal(t *testing.T) {
	ctx := context.Background()
	destination := t.TempDir()

	v, err := initViper(newTestCommand(t))
	require.NoError(t, err)

	store, err := InitStore(ctx, &InitStoreInput{
		Viper:       v,
		Destination: "file://" + destination,
		Logger:      fs.NopLogger{},
	})
	require.NoError(t, err)
	require.IsType(t, &lfs.LocalFileSystem{}, store)
	assert.Equal(t, "file://"+destination, store.Address())

	require.NoError(t, store.Write(ctx, "css/site.css", []byte("body {}")))
	b, err := os.ReadFile(filepath.Join(destination, "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(b))
}

func TestReadStatus(t *testing.T) {
	ctx := context.Background()
	store := lfs.NewLocalFileSystemWithFs("/srv/www", afero.NewMemMapFs())
	local := func() (string, error) {
		return "abc123", nil
	}

	status, err := readStatus(ctx, store, local)
	require.NoError(t, err)
	assert.True(t, status.DeployNeeded())

	buf := new(bytes.Buffer)
	status.Print(buf)
	assert.Equal(t, "destination: file:///srv/www\nlocal: abc123\nremote: none\ndeploy needed: true\n", buf.String())

	require.NoError(t, deploy.WriteRevision(ctx, store, "xyz000"))
	status, err = readStatus(ctx, store, local)
	require.NoError(t, err)
	assert.Equal(t, "xyz000", status.Remote)
	assert.True(t, status.DeployNeeded())

	require.NoError(t, deploy.WriteRevision(ctx, store, "abc123"))
	status, err = readStatus(ctx, store, local)
	require.NoError(t, err)

	buf.Reset()
	status.Print(buf)
	assert.Equal(t, "destination: file:///srv/www\nlocal: abc123\nremote: abc123\ndeploy needed: false\n", buf.String())
}

func TestReadStatusLocalError(t *testing.T) {
	store := lfs.NewLocalFileSystemWithFs("/srv/www", afero.NewMemMapFs())
	errBadRevision := errors.New("bad revision")
	_, err := readStatus(context.Background(), store, func() (string, error) {
		return "", errBadRevision
	})
	assert.ErrorIs(t, err, errBadRevision)
}
