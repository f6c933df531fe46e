// Package fetch retrieves source files by identifier. Remote files are
// downloaded into an on-disk cache and reused until they expire; local paths
// are read directly.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap/pkg/constants"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/logging"
)

// Fetcher retrieves the raw bytes of a named source file.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, identifier string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	return f(ctx, identifier)
}

// Client is the default Fetcher.
type Client struct {
	CacheDir  string
	CacheTTL  time.Duration
	Offline   bool
	UserAgent string

	grab   *grab.Client
	memo   *cache.Cache
	logger *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCacheDir sets the download cache directory.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.CacheDir = dir
		}
	}
}

// WithCacheTTL sets how long a downloaded file is reused.
// Zero forces a download on every run.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.CacheTTL = ttl
	}
}

// WithOffline serves remote identifiers from the cache only.
func WithOffline(offline bool) Option {
	return func(c *Client) {
		c.Offline = offline
	}
}

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.grab.HTTPClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with downloads.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. The cache directory defaults to
// <user cache dir>/asnmap.
func NewClient(opts ...Option) *Client {
	g := grab.NewClient()
	g.HTTPClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}

	c := &Client{
		CacheDir:  DefaultCacheDir(),
		CacheTTL:  constants.CacheTTL,
		UserAgent: "asnmap",
		grab:      g,
		memo:      cache.New(constants.MemoTTL, constants.MemoCleanupInterval),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.grab.UserAgent = c.UserAgent
	return c
}

// DefaultCacheDir returns the cache directory used when none is configured.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, constants.DefaultCacheDirName)
}

// Fetch returns the content named by identifier: an http(s) URL, a file://
// URL or a local path. Any failure is returned as *errors.FetchError.
func (c *Client) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	if cached, ok := c.memo.Get(identifier); ok {
		return cached.([]byte), nil
	}

	var (
		data []byte
		err  error
	)
	if IsRemote(identifier) {
		data, err = c.fetchRemote(ctx, identifier)
	} else {
		data, err = c.fetchLocal(identifier)
	}
	if err != nil {
		return nil, err
	}

	c.memo.SetDefault(identifier, data)
	return data, nil
}

// Forget drops identifier from the in-process memo.
func (c *Client) Forget(identifier string) {
	c.memo.Delete(identifier)
}

// CachePath returns where identifier is cached on disk.
func (c *Client) CachePath(identifier string) string {
	return filepath.Join(c.CacheDir, CacheKey(identifier))
}

func (c *Client) fetchLocal(identifier string) ([]byte, error) {
	path := strings.TrimPrefix(identifier, "file://")
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapFetch(identifier, err)
	}
	c.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read local source file")
	return data, nil
}

func (c *Client) fetchRemote(ctx context.Context, identifier string) ([]byte, error) {
	path := c.CachePath(identifier)
	log := c.logger.With().Str("identifier", identifier).Logger()

	info, statErr := os.Stat(path)
	switch {
	case statErr == nil && c.Offline:
		log.Debug().Str("path", path).Msg("Using cached file (offline)")
		return c.readCached(identifier, path)
	case statErr == nil && c.CacheTTL > 0 && time.Since(info.ModTime()) < c.CacheTTL:
		log.Debug().Str("path", path).Dur("age", time.Since(info.ModTime())).Msg("Using cached file")
		return c.readCached(identifier, path)
	case c.Offline:
		return nil, errors.WrapFetch(identifier, errors.ErrNotCached)
	}

	if err := c.download(ctx, identifier, path, &log); err != nil {
		return nil, err
	}
	return c.readCached(identifier, path)
}

func (c *Client) readCached(identifier, path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the cache dir
	if err != nil {
		return nil, errors.WrapFetch(identifier, err)
	}
	return data, nil
}

// download writes identifier to a temp file and renames it into place.
func (c *Client) download(ctx context.Context, identifier, path string, log *zerolog.Logger) error {
	if err := os.MkdirAll(c.CacheDir, constants.DirPermissions); err != nil {
		return errors.WrapFetch(identifier, errors.WrapIO("create", c.CacheDir, err))
	}

	tempPath := path + ".part"
	req, err := grab.NewRequest(tempPath, identifier)
	if err != nil {
		return errors.WrapFetch(identifier, err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	log.Info().Msg("Downloading source file")
	start := time.Now()

	resp := c.grab.Do(req)
	if err := resp.Err(); err != nil {
		_ = os.Remove(tempPath)
		fetchErr := errors.NewFetchError(identifier, err)
		if resp.HTTPResponse != nil {
			fetchErr.StatusCode = resp.HTTPResponse.StatusCode
		}
		if ctx.Err() != nil {
			fetchErr.Err = errors.Join(errors.ErrCanceled, err)
		}
		return fetchErr
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapFetch(identifier, errors.WrapIO("rename", path, err))
	}

	log.Info().
		Int64("bytes", resp.BytesComplete()).
		Dur("duration", time.Since(start)).
		Msg("Downloaded source file")
	return nil
}

// Clear removes the on-disk cache and the in-process memo.
func (c *Client) Clear() error {
	c.memo.Flush()
	if _, err := os.Stat(c.CacheDir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(c.CacheDir); err != nil {
		return errors.WrapIO("remove", c.CacheDir, err)
	}
	return nil
}

// CacheKey maps an identifier to a flat cache file name, such as
// "ftp.ripe.net_ripe_dbase_split_ripe.db.aut-num.gz".
func CacheKey(identifier string) string {
	u, err := url.Parse(identifier)
	key := identifier
	if err == nil && u.Host != "" {
		key = u.Host + u.Path
		if u.RawQuery != "" {
			key += "_" + u.RawQuery
		}
	}
	key = strings.Trim(key, "/")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
}

// IsRemote reports whether identifier is an http or https URL. Anything
// else is read from the local filesystem and never cached.
func IsRemote(identifier string) bool {
	return strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://")
}
