// Package app provides the application context and dependency management
// for the asnmap CLI: configuration, logging and construction of the
// resolver that commands run.
package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/pkg/errors"
)

// App represents the asnmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	stdout io.Writer
}

// New creates a new App with configuration loaded from the environment and
// the default config file locations.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Stdout returns where command output is written.
func (a *App) Stdout() io.Writer {
	return a.stdout
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// FetchClient returns a fetch client using the configured cache settings.
func (a *App) FetchClient() *fetch.Client {
	opts := append([]fetch.Option{fetch.WithLogger(a.logger)}, a.config.FetchOptions()...)
	return fetch.NewClient(opts...)
}

// Resolver builds a resolver from the configuration. Extra options are
// applied last.
func (a *App) Resolver(opts ...asnmap.Option) (*asnmap.Resolver, error) {
	base := []asnmap.Option{
		asnmap.WithLogger(a.logger),
		asnmap.WithFetchOptions(a.config.FetchOptions()...),
		asnmap.WithOverrides(a.config.Sources),
	}

	r, err := asnmap.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Shutdown flushes nothing today but gives main a single cleanup hook.
func (a *App) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(errors.ErrCanceled, err)
	}
	return nil
}

// reload re-reads configuration from an explicit config file.
func (a *App) reload(configFile string) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	a.config = config
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStdout sets where command output is written.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
