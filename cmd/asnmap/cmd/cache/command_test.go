package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
)

func testApp(dir string, out *bytes.Buffer) *application.Mock {
	return &application.Mock{
		FetchClientFunc: func() *fetch.Client { return fetch.NewClient(fetch.WithCacheDir(dir)) },
		Out:             out,
	}
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	cmd := NewCommand(testApp(dir, &out))
	cmd.SetArgs([]string{"path"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, dir+"\n", out.String())
}

func TestCacheClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ftp.ripe.net_ripe.db.gz"), []byte("x"), 0o600))

	var out bytes.Buffer
	cmd := NewCommand(testApp(dir, &out))
	cmd.SetArgs([]string{"clear"})
	require.NoError(t, cmd.Execute())
	assert.NoDirExists(t, dir)

	// clearing a missing cache is not an error
	cmd = NewCommand(testApp(dir, &out))
	cmd.SetArgs([]string{"clear"})
	require.NoError(t, cmd.Execute())
}
