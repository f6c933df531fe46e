// Package merger combines per-source mappings into one table.
//
// Sources are applied lowest priority first. Each application overwrites
// every ASN the source supplies, so the final name for an ASN comes from the
// highest-priority source that has it. Names are never compared.
package merger

import (
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap/pkg/cleaner"
	"github.com/asnmap/asnmap/pkg/logging"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

// Merger accumulates source mappings. It is not safe for concurrent use.
type Merger struct {
	clean   cleaner.Func
	tracker provenance.Tracker
	logger  *zerolog.Logger

	acc     map[types.ASN]types.Record
	applied []types.SourceID
}

// Option configures a Merger.
type Option func(*Merger)

// WithCleaner replaces the name cleaner. A nil func disables cleaning.
func WithCleaner(fn cleaner.Func) Option {
	return func(m *Merger) {
		m.clean = fn
	}
}

// WithProvenance records every application in tracker.
func WithProvenance(tracker provenance.Tracker) Option {
	return func(m *Merger) {
		m.tracker = tracker
	}
}

// WithLogger sets the logger used for per-source summaries.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates an empty Merger that cleans names with cleaner.Clean.
func New(opts ...Option) *Merger {
	m := &Merger{
		clean:   cleaner.Clean,
		tracker: provenance.NewTracker(false),
		logger:  logging.Default(),
		acc:     make(map[types.ASN]types.Record),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tracker == nil {
		m.tracker = provenance.NewTracker(false)
	}
	return m
}

// Apply overwrites the accumulator with every entry of mapping, attributed
// to source. Call it once per source, lowest priority first.
func (m *Merger) Apply(source types.SourceID, mapping types.Mapping) {
	m.applied = append(m.applied, source)
	order := len(m.applied)
	now := time.Now()

	added, replaced := 0, 0
	for asn, name := range mapping {
		if _, ok := m.acc[asn]; ok {
			replaced++
		} else {
			added++
		}
		m.acc[asn] = types.Record{Name: name, Source: source}
		m.tracker.Track(asn, provenance.Provenance{
			Source:    source,
			Value:     name,
			Order:     order,
			Timestamp: now,
		})
	}

	m.logger.Info().
		Str("source", source.String()).
		Int("entries", len(mapping)).
		Int("added", added).
		Int("replaced", replaced).
		Int("total", len(m.acc)).
		Msg("Applied source")
}

// Len returns the number of ASNs accumulated so far.
func (m *Merger) Len() int {
	return len(m.acc)
}

// Result cleans every accumulated name with its own ASN and source and
// returns the final table. The accumulator is left untouched.
func (m *Merger) Result() *Result {
	res := &Result{
		Records: make(map[types.ASN]types.Record, len(m.acc)),
		Wins:    make(map[types.SourceID]int),
		Sources: slices.Clone(m.applied),
	}

	changed, fallbacks := 0, 0
	for asn, rec := range m.acc {
		name := rec.Name
		if m.clean != nil {
			name = m.clean(rec.Name, asn, rec.Source)
			switch {
			case name == "":
				name = rec.Name
				fallbacks++
			case name != rec.Name:
				changed++
			}
		}
		res.Records[asn] = types.Record{Name: name, Source: rec.Source}
		res.Wins[rec.Source]++
	}

	m.logger.Debug().
		Int("entries", len(res.Records)).
		Int("cleaned", changed).
		Int("clean_fallbacks", fallbacks).
		Msg("Cleaned merged names")

	return res
}

// Result is the merged, cleaned table.
type Result struct {
	Records map[types.ASN]types.Record
	Wins    map[types.SourceID]int // entries won by each source
	Sources []types.SourceID       // sources in application order
}

// Len returns the number of ASNs in the result.
func (r *Result) Len() int {
	return len(r.Records)
}

// Get returns the record for asn.
func (r *Result) Get(asn types.ASN) (types.Record, bool) {
	rec, ok := r.Records[asn]
	return rec, ok
}

// Entries returns the table rows in ascending ASN order.
func (r *Result) Entries() []types.Entry {
	entries := make([]types.Entry, 0, len(r.Records))
	for _, asn := range slices.Sorted(maps.Keys(r.Records)) {
		rec := r.Records[asn]
		entries = append(entries, types.Entry{ASN: asn, Name: rec.Name, Source: rec.Source})
	}
	return entries
}

// Select returns the rows for the given ASNs, in the order requested.
// ASNs that are absent are returned separately.
func (r *Result) Select(asns ...types.ASN) (found []types.Entry, missing []types.ASN) {
	for _, asn := range asns {
		rec, ok := r.Records[asn]
		if !ok {
			missing = append(missing, asn)
			continue
		}
		found = append(found, types.Entry{ASN: asn, Name: rec.Name, Source: rec.Source})
	}
	return found, missing
}
