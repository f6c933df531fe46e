// Package flatfile parses delimited ASN datasets such as the iptoasn
// ip2asn-v4 table, where each row describes an IP range and the AS that
// originates it.
package flatfile

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/asnmap/asnmap/internal/lines"
	"github.com/asnmap/asnmap/pkg/constants"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// unknownPrefix marks rows whose description is a placeholder ("-", "-Reserved AS-").
const unknownPrefix = "-"

// Options describes the row layout. Columns are zero-based.
type Options struct {
	Delimiter  rune
	ASNColumn  int
	NameColumn int
}

// DefaultOptions returns the iptoasn layout:
// range_start, range_end, AS_number, country_code, AS_description.
func DefaultOptions() Options {
	return Options{
		Delimiter:  '\t',
		ASNColumn:  2,
		NameColumn: 4,
	}
}

// Option adjusts Options.
type Option func(*Options)

// WithDelimiter sets the column delimiter.
func WithDelimiter(d rune) Option {
	return func(o *Options) {
		o.Delimiter = d
	}
}

// WithColumns sets the ASN and name column indexes.
func WithColumns(asn, name int) Option {
	return func(o *Options) {
		o.ASNColumn = asn
		o.NameColumn = name
	}
}

// Stats counts accepted and skipped rows.
type Stats struct {
	Rows        int `json:"rows"`
	Accepted    int `json:"accepted"`
	Duplicates  int `json:"duplicates"`
	LongRows    int `json:"long_rows"`
	ShortRows   int `json:"short_rows"`
	InvalidASNs int `json:"invalid_asns"`
	EmptyNames  int `json:"empty_names"`
	Unknown     int `json:"unknown"`
}

// Skipped returns the number of rows that contributed nothing.
func (s Stats) Skipped() int {
	return s.LongRows + s.ShortRows + s.InvalidASNs + s.EmptyNames + s.Unknown
}

// Parse reads rows from r and returns the first name seen for each ASN.
// Malformed rows are counted and skipped; only read failures are returned.
func Parse(r io.Reader, opts ...Option) (types.Mapping, Stats, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	sep := string(o.Delimiter)
	need := max(o.ASNColumn, o.NameColumn) + 1

	out := make(types.Mapping)
	var stats Stats

	lr := lines.NewReader(r, constants.LineBufferSize, constants.MaxLineLength)
	for {
		line, tooLong, err := lr.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, errors.WrapIO("read", "flat dataset", err)
		}
		if tooLong {
			stats.Rows++
			stats.LongRows++
			continue
		}
		row := string(line)
		if row == "" {
			continue
		}
		stats.Rows++

		parts := strings.Split(row, sep)
		if len(parts) < need {
			stats.ShortRows++
			continue
		}

		asn, err := types.ParseASN(strings.TrimSpace(parts[o.ASNColumn]))
		if err != nil {
			stats.InvalidASNs++
			continue
		}

		name := strings.TrimSpace(parts[o.NameColumn])
		switch {
		case name == "":
			stats.EmptyNames++
			continue
		case strings.HasPrefix(name, unknownPrefix):
			stats.Unknown++
			continue
		}

		if _, seen := out[asn]; seen {
			stats.Duplicates++
			continue
		}
		out[asn] = name
		stats.Accepted++
	}
	return out, stats, nil
}
