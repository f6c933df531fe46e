// Package sources defines the upstream data sources and how each one is
// fetched and parsed into an ASN to name mapping.
//
// Every source has a fixed priority. Sources are applied to the merger in
// ascending priority order, so a higher priority source overrides a lower
// one for every ASN both supply.
package sources

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/pkg/directory"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/flatfile"
	"github.com/asnmap/asnmap/pkg/logging"
	"github.com/asnmap/asnmap/pkg/rpsl"
	"github.com/asnmap/asnmap/pkg/types"
)

// Source loads one upstream into a mapping.
type Source interface {
	// ID returns the source identifier
	ID() types.SourceID

	// Priority orders sources; higher wins
	Priority() int

	// Identifiers lists the files (URLs or paths) the source reads
	Identifiers() []string

	// Load fetches and parses the source
	Load(ctx context.Context, f fetch.Fetcher) (types.Mapping, error)
}

// New creates a source of the kind matching id.
func New(id types.SourceID, priority int, identifiers ...string) (Source, error) {
	if len(identifiers) == 0 {
		return nil, errors.NewValidationError("identifiers", id, fmt.Sprintf("source %s has no identifiers", id))
	}
	b := base{id: id, priority: priority, identifiers: slices.Clone(identifiers)}

	switch id.Kind() {
	case types.KindRegistry:
		return &RegistrySource{base: b}, nil
	case types.KindFlat:
		return &FlatSource{base: b, Options: flatfile.DefaultOptions()}, nil
	case types.KindDirectory:
		return &DirectorySource{base: b}, nil
	default:
		return nil, errors.NewValidationError("source", id, fmt.Sprintf("unknown source %q", id))
	}
}

// base holds the fields every source kind shares.
type base struct {
	id          types.SourceID
	priority    int
	identifiers []string
}

func (b base) ID() types.SourceID { return b.id }

func (b base) Priority() int { return b.priority }

func (b base) Identifiers() []string { return slices.Clone(b.identifiers) }

// open fetches and decompresses one identifier.
func (b base) open(ctx context.Context, f fetch.Fetcher, identifier string) ([]byte, error) {
	data, err := fetch.Open(ctx, f, identifier)
	if err != nil {
		var fetchErr *errors.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Source == "" {
			fetchErr.Source = b.id.String()
		}
		return nil, errors.WrapSource(b.id.String(), "fetch", err)
	}
	return data, nil
}

// RegistrySource reads one or more RPSL dump files. All files are fed to a
// single parser so handles resolve across them.
type RegistrySource struct {
	base
}

// Load implements Source.
func (s *RegistrySource) Load(ctx context.Context, f fetch.Fetcher) (types.Mapping, error) {
	ctx = logging.WithSource(ctx, s.id.String())
	logger := logging.FromContext(ctx)

	p := rpsl.NewParser(rpsl.WithLogger(logger))
	for _, identifier := range s.identifiers {
		data, err := s.open(ctx, f, identifier)
		if err != nil {
			return nil, err
		}
		if err := p.Feed(bytes.NewReader(data)); err != nil {
			return nil, errors.WrapSource(s.id.String(), "parse", err)
		}
	}

	m := p.Mapping()
	stats := p.Stats()
	logger.Info().
		Int("entries", len(m)).
		Int("files", stats.Files).
		Int("aut_num_blocks", stats.AutNumBlocks).
		Int("organisation_blocks", stats.OrgBlocks).
		Msg("Parsed registry")
	logger.Debug().
		Int("skipped_lines", stats.SkippedLines).
		Int("invalid_aut_nums", stats.InvalidAutNums).
		Int("unresolved_orgs", stats.UnresolvedOrgs).
		Int("descr_resolutions", stats.DescrResolutions).
		Int("latin1_lines", stats.Latin1Lines).
		Msg("Registry parse diagnostics")
	return m, nil
}

// FlatSource reads a delimited dataset. With several files the first name
// seen for an ASN wins across all of them.
type FlatSource struct {
	base
	Options flatfile.Options
}

// Load implements Source.
func (s *FlatSource) Load(ctx context.Context, f fetch.Fetcher) (types.Mapping, error) {
	ctx = logging.WithSource(ctx, s.id.String())
	logger := logging.FromContext(ctx)

	opts := []flatfile.Option{
		flatfile.WithDelimiter(s.Options.Delimiter),
		flatfile.WithColumns(s.Options.ASNColumn, s.Options.NameColumn),
	}

	out := make(types.Mapping)
	var total flatfile.Stats
	for _, identifier := range s.identifiers {
		data, err := s.open(ctx, f, identifier)
		if err != nil {
			return nil, err
		}
		m, stats, err := flatfile.Parse(bytes.NewReader(data), opts...)
		if err != nil {
			return nil, errors.WrapSource(s.id.String(), "parse", err)
		}
		for asn, name := range m {
			if _, seen := out[asn]; !seen {
				out[asn] = name
			}
		}
		total.Rows += stats.Rows
		total.Accepted += stats.Accepted
		total.Duplicates += stats.Duplicates
		total.LongRows += stats.LongRows
		total.ShortRows += stats.ShortRows
		total.InvalidASNs += stats.InvalidASNs
		total.EmptyNames += stats.EmptyNames
		total.Unknown += stats.Unknown
	}

	logger.Info().Int("entries", len(out)).Int("rows", total.Rows).Msg("Parsed flat dataset")
	logger.Debug().
		Int("skipped_rows", total.Skipped()).
		Int("long_rows", total.LongRows).
		Int("short_rows", total.ShortRows).
		Int("invalid_asns", total.InvalidASNs).
		Int("unknown_names", total.Unknown).
		Int("duplicates", total.Duplicates).
		Msg("Flat dataset diagnostics")
	return out, nil
}

// DirectorySource reads a JSON network directory.
type DirectorySource struct {
	base
}

// Load implements Source.
func (s *DirectorySource) Load(ctx context.Context, f fetch.Fetcher) (types.Mapping, error) {
	ctx = logging.WithSource(ctx, s.id.String())
	logger := logging.FromContext(ctx)

	var records []directory.Record
	for _, identifier := range s.identifiers {
		data, err := s.open(ctx, f, identifier)
		if err != nil {
			return nil, err
		}
		recs, err := directory.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.WrapSource(s.id.String(), "parse", err)
		}
		records = append(records, recs...)
	}

	m := directory.ToMapping(records)
	logger.Info().
		Int("entries", len(m)).
		Int("records", len(records)).
		Int("dropped", len(records)-len(m)).
		Msg("Parsed directory")
	return m, nil
}
