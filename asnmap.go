// Package asnmap builds a table that maps every known Autonomous System
// Number to a human-readable organization name.
//
// Names are collected from several upstreams of differing quality: a flat
// ip-to-ASN dataset, the five regional registry dumps and a curated network
// directory. Each source is fetched and parsed in turn, lowest priority
// first, and applied as a full overwrite, so the name for an ASN always
// comes from the most trusted source that knows it. Finally every name is
// cleaned of trailing legal-entity markers and AS number self-references.
//
// Example usage:
//
//	r, err := asnmap.New(
//	    asnmap.WithFetchOptions(fetch.WithCacheDir("/var/cache/asnmap")),
//	    asnmap.WithDisabledSource(types.IPtoASNID),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Resolve(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, e := range result.Entries() {
//	    fmt.Printf("%d,%s,%s\n", e.ASN, e.Name, e.Source)
//	}
package asnmap

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/pkg/cleaner"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/logging"
	"github.com/asnmap/asnmap/pkg/merger"
	"github.com/asnmap/asnmap/pkg/provenance"
)

// Resolver runs the fetch, parse and merge pipeline.
type Resolver struct {
	*hooks

	sources []sources.Source
	fetcher fetch.Fetcher
	clean   cleaner.Func
	tracker provenance.Tracker
	logger  *zerolog.Logger
}

// New creates a Resolver. Without options it uses the default source chain
// and a caching fetch.Client.
func New(opts ...Option) (*Resolver, error) {
	c := &config{
		clean: cleaner.Clean,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		c.logger = logging.Default()
	}
	if c.tracker == nil {
		c.tracker = provenance.NewTracker(false)
	}
	if c.sources == nil {
		c.sources = sources.Defaults()
	}

	list, err := sources.Configure(slices.Clone(c.sources), c.overrides)
	if err != nil {
		return nil, err
	}
	list, err = sources.Filter(list, c.only, c.disabled)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.NewValidationError("sources", nil, "no sources left to resolve")
	}

	if c.fetcher == nil {
		fetchOpts := append([]fetch.Option{fetch.WithLogger(c.logger)}, c.fetchOpts...)
		c.fetcher = fetch.NewClient(fetchOpts...)
	}

	return &Resolver{
		hooks:   newHooks(),
		sources: list,
		fetcher: c.fetcher,
		clean:   c.clean,
		tracker: c.tracker,
		logger:  c.logger,
	}, nil
}

// Sources returns the sources in application order.
func (r *Resolver) Sources() []sources.Source {
	return slices.Clone(r.sources)
}

// Tracker returns the provenance tracker.
func (r *Resolver) Tracker() provenance.Tracker {
	return r.tracker
}

// Resolve fetches and parses every source sequentially in priority order
// and returns the merged, cleaned table. Any fetch or decode failure aborts
// the run and no partial result is returned.
func (r *Resolver) Resolve(ctx context.Context) (*merger.Result, error) {
	ctx = logging.WithLogger(ctx, r.logger)
	start := time.Now()

	m := merger.New(
		merger.WithCleaner(r.clean),
		merger.WithProvenance(r.tracker),
		merger.WithLogger(r.logger),
	)

	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}

		r.triggerStarted(src.ID(), src.Identifiers())
		loadStart := time.Now()

		mapping, err := src.Load(ctx, r.fetcher)
		if err != nil {
			r.logger.Error().Err(err).Str("source", src.ID().String()).Msg("Source failed, aborting run")
			return nil, err
		}
		m.Apply(src.ID(), mapping)

		r.triggerLoaded(SourceReport{
			Source:   src.ID(),
			Priority: src.Priority(),
			Entries:  len(mapping),
			Total:    m.Len(),
			Duration: time.Since(loadStart),
		})
	}

	result := m.Result()
	r.logger.Info().
		Int("entries", result.Len()).
		Int("sources", len(r.sources)).
		Dur("duration", time.Since(start)).
		Msg("Resolved ASN names")
	return result, nil
}
