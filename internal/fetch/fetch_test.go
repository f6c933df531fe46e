package fetch_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/internal/fetch"
	pkgerrors "github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/logging"
)

// newServer serves body at every path and counts GET requests.
func newServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &gets
}

func newClient(t *testing.T, opts ...fetch.Option) *fetch.Client {
	t.Helper()
	base := []fetch.Option{
		fetch.WithCacheDir(t.TempDir()),
		fetch.WithLogger(logging.NewNopLogger()),
	}
	return fetch.NewClient(append(base, opts...)...)
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	srv, gets := newServer(t, http.StatusOK, []byte("aut-num: AS1\n"))
	c := newClient(t)
	url := srv.URL + "/pub/rr/arin.db"

	data, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "aut-num: AS1\n", string(data))
	assert.FileExists(t, c.CachePath(url))
	assert.NoFileExists(t, c.CachePath(url)+".part")

	// memo hit
	_, err = c.Fetch(context.Background(), url)
	require.NoError(t, err)

	// disk cache hit from a fresh client sharing the directory
	c2 := fetch.NewClient(fetch.WithCacheDir(c.CacheDir), fetch.WithLogger(logging.NewNopLogger()))
	data, err = c2.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "aut-num: AS1\n", string(data))

	assert.Equal(t, int32(1), gets.Load())
}

func TestFetchExpiredCacheRedownloads(t *testing.T) {
	srv, gets := newServer(t, http.StatusOK, []byte("fresh"))
	c := newClient(t)
	url := srv.URL + "/data.tsv"

	path := c.CachePath(url)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	data, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
	assert.Equal(t, int32(1), gets.Load())
}

func TestFetchOffline(t *testing.T) {
	srv, gets := newServer(t, http.StatusOK, []byte("never"))
	c := newClient(t, fetch.WithOffline(true))
	url := srv.URL + "/ripe.db.gz"

	_, err := c.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrNotCached)
	assert.True(t, pkgerrors.IsFetchError(err))

	path := c.CachePath(url)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o644))
	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	data, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
	assert.Zero(t, gets.Load())
}

func TestFetchBadStatus(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, []byte("missing"))
	c := newClient(t)
	url := srv.URL + "/gone.gz"

	_, err := c.Fetch(context.Background(), url)
	require.Error(t, err)

	var fetchErr *pkgerrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, url, fetchErr.Identifier)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.NoFileExists(t, c.CachePath(url))
}

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":[]}`), 0o644))

	c := newClient(t)
	data, err := c.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(data))

	data, err = c.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(data))

	_, err = c.Fetch(context.Background(), filepath.Join(dir, "absent"))
	assert.True(t, pkgerrors.IsFetchError(err))
}

func TestForgetAndClear(t *testing.T) {
	srv, gets := newServer(t, http.StatusOK, []byte("x"))
	c := newClient(t, fetch.WithCacheTTL(0))
	url := srv.URL + "/x"

	_, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	c.Forget(url)
	_, err = c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(2), gets.Load())

	require.NoError(t, c.Clear())
	assert.NoDirExists(t, c.CacheDir)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "ftp.ripe.net_ripe_dbase_split_ripe.db.aut-num.gz",
		fetch.CacheKey("https://ftp.ripe.net/ripe/dbase/split/ripe.db.aut-num.gz"))
	assert.Equal(t, "www.peeringdb.com_api_net",
		fetch.CacheKey("https://www.peeringdb.com/api/net"))
	assert.Equal(t, "example.net_api_net_depth_0",
		fetch.CacheKey("https://example.net/api/net?depth=0"))
}

func TestDecompress(t *testing.T) {
	plain := []byte("1.0.0.0\t1.0.0.255\t13335\tUS\tCLOUDFLARENET\n")

	out, err := fetch.Decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	out, err = fetch.Decompress(gzipped(t, string(plain)))
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	_, err = fetch.Decompress([]byte{0x1f, 0x8b, 0x00})
	var parseErr *pkgerrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestOpen(t *testing.T) {
	f := fetch.FetcherFunc(func(_ context.Context, id string) ([]byte, error) {
		return gzipped(t, "payload for "+id), nil
	})
	out, err := fetch.Open(context.Background(), f, "mem://a")
	require.NoError(t, err)
	assert.Equal(t, "payload for mem://a", string(out))
}
