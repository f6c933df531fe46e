// Package rpsl extracts ASN to organization name mappings from RPSL
// registry dumps.
//
// A dump is a sequence of blocks of "field: value" lines separated by blank
// lines. Two block types matter: aut-num blocks, which link an AS number to
// an organisation handle (or carry an inline descr), and organisation
// blocks, which give a handle its display name. A registry may split these
// across several files; feed all of them to one Parser before calling
// Mapping.
package rpsl

import (
	stderrors "errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/asnmap/asnmap/internal/lines"
	"github.com/asnmap/asnmap/pkg/constants"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/logging"
	"github.com/asnmap/asnmap/pkg/types"
)

// state is the block the parser is currently inside.
type state int

const (
	stateNone state = iota
	stateAutNum
	stateOrganisation
	// stateDiscard ignores the rest of an aut-num block whose number did not parse.
	stateDiscard
)

// Field names the parser reacts to. Matching is case-insensitive.
const (
	fieldAutNum       = "aut-num"
	fieldOrg          = "org"
	fieldDescr        = "descr"
	fieldOrganisation = "organisation"
	fieldOrgName      = "org-name"
)

// Stats counts what the parser saw and skipped.
type Stats struct {
	Files            int `json:"files"`
	Lines            int `json:"lines"`
	AutNumBlocks     int `json:"aut_num_blocks"`
	OrgBlocks        int `json:"organisation_blocks"`
	InvalidAutNums   int `json:"invalid_aut_nums"`
	SkippedLines     int `json:"skipped_lines"`
	Latin1Lines      int `json:"latin1_lines"`
	UnresolvedOrgs   int `json:"unresolved_orgs"`
	DescrResolutions int `json:"descr_resolutions"`
}

// Parser accumulates aut-num and organisation data across dump files.
// A Parser is not safe for concurrent use.
type Parser struct {
	logger *zerolog.Logger

	state   state
	current types.ASN // ASN of the open aut-num block
	handle  string    // lowercased handle of the open organisation block

	orgFor     map[types.ASN]string // ASN -> lowercased handle
	descrFor   map[types.ASN]string // ASN -> first descr
	displayFor map[string]string    // lowercased handle -> org-name

	stats Stats
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates an empty Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger:     logging.Default(),
		orgFor:     make(map[types.ASN]string),
		descrFor:   make(map[types.ASN]string),
		displayFor: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed reads one dump file into the parser.
// Malformed content is skipped; only read failures are returned.
func (p *Parser) Feed(r io.Reader) error {
	p.stats.Files++
	p.reset()

	lr := lines.NewReader(r, constants.LineBufferSize, constants.MaxLineLength)
	for {
		raw, tooLong, err := lr.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.reset()
			return errors.WrapIO("read", "rpsl dump", err)
		}
		p.stats.Lines++
		if tooLong {
			// the open block stays open; only this line is lost
			p.stats.SkippedLines++
			p.logger.Debug().Int("line", p.stats.Lines).Msg("Skipped overlong registry line")
			continue
		}
		p.line(raw)
	}
	// a file boundary always closes the open block
	p.reset()
	return nil
}

func (p *Parser) reset() {
	p.state = stateNone
	p.current = 0
	p.handle = ""
}

func (p *Parser) line(raw []byte) {
	var line string
	if utf8.Valid(raw) {
		line = string(raw)
	} else {
		line = decodeLatin1(raw)
		p.stats.Latin1Lines++
	}
	line = strings.TrimSuffix(line, "\r")

	if strings.TrimSpace(line) == "" {
		p.reset()
		return
	}

	switch line[0] {
	case '%', '#':
		return
	case ' ', '\t', '+':
		// continuation of the previous attribute
		return
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		p.stats.SkippedLines++
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch p.state {
	case stateNone:
		p.open(key, value)
	case stateAutNum:
		p.autNumField(key, value)
	case stateOrganisation:
		if key == fieldOrgName {
			p.displayFor[p.handle] = value
		}
	case stateDiscard:
	}
}

// open starts a block when key is a block-opening attribute.
func (p *Parser) open(key, value string) {
	switch key {
	case fieldAutNum:
		p.stats.AutNumBlocks++
		asn, err := types.ParseASNPrefixed(value)
		if err != nil {
			p.stats.InvalidAutNums++
			p.logger.Trace().Str("aut_num", value).Msg("Skipping aut-num block with invalid AS number")
			p.state = stateDiscard
			return
		}
		p.current = asn
		p.state = stateAutNum
	case fieldOrganisation:
		p.stats.OrgBlocks++
		p.handle = strings.ToLower(value)
		p.state = stateOrganisation
	}
}

func (p *Parser) autNumField(key, value string) {
	switch key {
	case fieldOrg:
		p.orgFor[p.current] = strings.ToLower(value)
	case fieldDescr:
		if _, hasOrg := p.orgFor[p.current]; hasOrg {
			return
		}
		if _, seen := p.descrFor[p.current]; !seen {
			p.descrFor[p.current] = value
		}
	}
}

// Mapping resolves the accumulated tables into ASN to name pairs.
// An org handle resolves to its org-name, or to the lowercased handle when
// no organisation block named it. ASNs without a handle use their descr.
func (p *Parser) Mapping() types.Mapping {
	out := make(types.Mapping, len(p.orgFor)+len(p.descrFor))
	p.stats.UnresolvedOrgs = 0
	p.stats.DescrResolutions = 0

	for asn, handle := range p.orgFor {
		if name, ok := p.displayFor[handle]; ok {
			out[asn] = name
			continue
		}
		out[asn] = handle
		p.stats.UnresolvedOrgs++
	}
	for asn, descr := range p.descrFor {
		if _, ok := out[asn]; ok {
			continue
		}
		out[asn] = descr
		p.stats.DescrResolutions++
	}

	p.logger.Debug().
		Int("entries", len(out)).
		Int("unresolved_orgs", p.stats.UnresolvedOrgs).
		Int("descr_resolutions", p.stats.DescrResolutions).
		Int("skipped_lines", p.stats.SkippedLines).
		Int("invalid_aut_nums", p.stats.InvalidAutNums).
		Msg("Resolved registry mapping")

	return out
}

// Stats returns the counters collected so far.
// Resolution counters are filled in by Mapping.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Parse feeds every reader to a fresh Parser and returns the resolved mapping.
func Parse(readers ...io.Reader) (types.Mapping, error) {
	p := NewParser()
	for _, r := range readers {
		if err := p.Feed(r); err != nil {
			return nil, err
		}
	}
	return p.Mapping(), nil
}

func decodeLatin1(raw []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(decoded)
}
