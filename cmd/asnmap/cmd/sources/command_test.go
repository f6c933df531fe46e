package sources

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/pkg/types"
)

func TestRows(t *testing.T) {
	dir := t.TempDir()
	client := fetch.NewClient(fetch.WithCacheDir(dir))

	cached := "https://example.net/ripe.db.gz"
	path := client.CachePath(cached)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	modTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modTime, modTime))

	ripe, err := sources.New(types.RIPEID, 60, cached)
	require.NoError(t, err)
	arin, err := sources.New(types.ARINID, 20, "https://example.net/arin.db.gz")
	require.NoError(t, err)
	local, err := sources.New(types.PeeringDBID, 100, filepath.Join(dir, "net.json"))
	require.NoError(t, err)

	rows := Rows([]sources.Source{arin, ripe, local}, client, modTime.Add(2*time.Hour))
	require.Len(t, rows, 3)

	assert.Equal(t, Row{ID: "arin", Kind: "registry", Priority: 20, Cached: "no",
		Identifiers: []string{"https://example.net/arin.db.gz"}}, rows[0])
	assert.Equal(t, "2h0m0s", rows[1].Cached)
	assert.Equal(t, "local", rows[2].Cached)
	assert.Equal(t, "directory", rows[2].Kind)
}

func TestSourcesCommand(t *testing.T) {
	var out bytes.Buffer
	app := &application.Mock{
		ResolverFunc: func(opts ...asnmap.Option) (*asnmap.Resolver, error) {
			return asnmap.New(append(opts, asnmap.WithDisabledSource(types.IPtoASNID))...)
		},
		FetchClientFunc:  func() *fetch.Client { return fetch.NewClient(fetch.WithCacheDir(t.TempDir())) },
		OutputFormatFunc: func() string { return "csv" },
		Out:              &out,
	}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 7)
	assert.Equal(t, "Id,Kind,Priority,Cached,Identifiers", string(lines[0]))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("arin,registry,20,no,")))
	assert.True(t, bytes.HasPrefix(lines[6], []byte("peeringdb,directory,100,no,")))
}
