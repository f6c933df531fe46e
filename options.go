package asnmap

import (
	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/pkg/cleaner"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

// config holds the settings a Resolver is built from.
type config struct {
	sources   []sources.Source
	overrides map[types.SourceID]sources.Override
	only      []types.SourceID
	disabled  []types.SourceID

	fetcher   fetch.Fetcher
	fetchOpts []fetch.Option

	clean   cleaner.Func
	tracker provenance.Tracker
	logger  *zerolog.Logger
}

// Option is a function that configures a Resolver
type Option func(*config) error

// WithSources replaces the default source chain. Sources are sorted by
// priority before use.
func WithSources(list ...sources.Source) Option {
	return func(c *config) error {
		if len(list) == 0 {
			return errors.NewValidationError("sources", nil, "empty source list")
		}
		c.sources = list
		return nil
	}
}

// WithOverrides adjusts URLs, priorities or the disabled flag per source.
func WithOverrides(overrides map[types.SourceID]sources.Override) Option {
	return func(c *config) error {
		c.overrides = overrides
		return nil
	}
}

// WithOnly restricts the run to the named sources.
func WithOnly(ids ...types.SourceID) Option {
	return func(c *config) error {
		c.only = append(c.only, ids...)
		return nil
	}
}

// WithDisabledSource removes the named sources from the run.
func WithDisabledSource(ids ...types.SourceID) Option {
	return func(c *config) error {
		c.disabled = append(c.disabled, ids...)
		return nil
	}
}

// WithFetcher sets the fetcher used for every source. When unset a
// fetch.Client is built from the fetch options.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *config) error {
		c.fetcher = f
		return nil
	}
}

// WithFetchOptions configures the default fetch.Client.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(c *config) error {
		c.fetchOpts = append(c.fetchOpts, opts...)
		return nil
	}
}

// WithCleaner replaces the name cleaner.
func WithCleaner(fn cleaner.Func) Option {
	return func(c *config) error {
		c.clean = fn
		return nil
	}
}

// WithProvenance records the per-ASN source history in tracker.
func WithProvenance(tracker provenance.Tracker) Option {
	return func(c *config) error {
		c.tracker = tracker
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
