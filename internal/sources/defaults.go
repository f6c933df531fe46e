package sources

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// Default identifiers for each upstream.
const (
	IPtoASNURL           = "https://iptoasn.com/data/ip2asn-v4.tsv.gz"
	ARINURL              = "https://ftp.arin.net/pub/rr/arin.db.gz"
	LACNICURL            = "https://ftp.lacnic.net/lacnic/irr/lacnic.db.gz"
	AFRINICURL           = "https://ftp.afrinic.net/pub/dbase/afrinic.db.gz"
	APNICAutNumURL       = "https://ftp.apnic.net/apnic/whois/apnic.db.aut-num.gz"
	APNICOrganisationURL = "https://ftp.apnic.net/apnic/whois/apnic.db.organisation.gz"
	RIPEAutNumURL        = "https://ftp.ripe.net/ripe/dbase/split/ripe.db.aut-num.gz"
	RIPEOrganisationURL  = "https://ftp.ripe.net/ripe/dbase/split/ripe.db.organisation.gz"
	PeeringDBURL         = "https://www.peeringdb.com/api/net"
)

// Default priorities. The flat dataset is least trusted and the curated
// directory most trusted. ARIN and LACNIC dumps carry no org attribute and
// resolve through descr.
const (
	PriorityIPtoASN   = 10
	PriorityARIN      = 20
	PriorityLACNIC    = 30
	PriorityAFRINIC   = 40
	PriorityAPNIC     = 50
	PriorityRIPE      = 60
	PriorityPeeringDB = 100
)

// definition is a default source before it is built.
type definition struct {
	id          types.SourceID
	priority    int
	identifiers []string
}

var definitions = []definition{
	{types.IPtoASNID, PriorityIPtoASN, []string{IPtoASNURL}},
	{types.ARINID, PriorityARIN, []string{ARINURL}},
	{types.LACNICID, PriorityLACNIC, []string{LACNICURL}},
	{types.AFRINICID, PriorityAFRINIC, []string{AFRINICURL}},
	{types.APNICID, PriorityAPNIC, []string{APNICAutNumURL, APNICOrganisationURL}},
	{types.RIPEID, PriorityRIPE, []string{RIPEAutNumURL, RIPEOrganisationURL}},
	{types.PeeringDBID, PriorityPeeringDB, []string{PeeringDBURL}},
}

// Defaults returns the customary source chain, lowest priority first.
func Defaults() []Source {
	out := make([]Source, 0, len(definitions))
	for _, d := range definitions {
		src, err := New(d.id, d.priority, d.identifiers...)
		if err != nil {
			panic(fmt.Sprintf("invalid default source %s: %v", d.id, err))
		}
		out = append(out, src)
	}
	return out
}

// Sort orders sources by ascending priority. Equal priorities keep their
// relative order.
func Sort(list []Source) {
	slices.SortStableFunc(list, func(a, b Source) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
}

// Override replaces parts of a source definition.
type Override struct {
	URLs     []string `mapstructure:"urls" yaml:"urls"`
	Priority int      `mapstructure:"priority" yaml:"priority"`
	Disabled bool     `mapstructure:"disabled" yaml:"disabled"`
}

// Configure applies overrides to list and returns the resulting sources,
// sorted by priority. Disabled sources are removed. Overrides for unknown
// source IDs are a configuration error.
func Configure(list []Source, overrides map[types.SourceID]Override) ([]Source, error) {
	for id := range overrides {
		if !id.IsValid() {
			return nil, errors.NewConfigError("sources", fmt.Sprintf("unknown source %q", id), nil)
		}
	}

	out := make([]Source, 0, len(list))
	for _, src := range list {
		o, ok := overrides[src.ID()]
		if !ok {
			out = append(out, src)
			continue
		}
		if o.Disabled {
			continue
		}
		if len(o.URLs) == 0 && o.Priority == 0 {
			out = append(out, src)
			continue
		}

		identifiers := src.Identifiers()
		if len(o.URLs) > 0 {
			identifiers = o.URLs
		}
		priority := src.Priority()
		if o.Priority != 0 {
			priority = o.Priority
		}
		rebuilt, err := New(src.ID(), priority, identifiers...)
		if err != nil {
			return nil, errors.NewConfigError("sources", "override "+src.ID().String(), err)
		}
		out = append(out, rebuilt)
	}

	Sort(out)
	return out, nil
}

// Filter keeps the sources named in only (all when only is empty) and drops
// those named in disabled. Unknown IDs are rejected.
func Filter(list []Source, only, disabled []types.SourceID) ([]Source, error) {
	for _, id := range slices.Concat(only, disabled) {
		if !id.IsValid() {
			return nil, errors.NewValidationError("source", id, fmt.Sprintf("unknown source %q", id))
		}
	}

	out := make([]Source, 0, len(list))
	for _, src := range list {
		if len(only) > 0 && !slices.Contains(only, src.ID()) {
			continue
		}
		if slices.Contains(disabled, src.ID()) {
			continue
		}
		out = append(out, src)
	}
	return out, nil
}

// Find returns the source with the given ID.
func Find(list []Source, id types.SourceID) (Source, bool) {
	i := slices.IndexFunc(list, func(s Source) bool { return s.ID() == id })
	if i < 0 {
		return nil, false
	}
	return list[i], true
}
