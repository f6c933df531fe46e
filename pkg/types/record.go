package types

import (
	"maps"
	"slices"
)

// Record is an organization name attributed to the source that supplied it.
type Record struct {
	Name   string   `json:"name" yaml:"name"`
	Source SourceID `json:"source" yaml:"source"`
}

// Mapping is the ASN to name table a single parser produces.
// The source tag is attached by whoever applies it.
type Mapping map[ASN]string

// ASNs returns the keys of the mapping in ascending order.
func (m Mapping) ASNs() []ASN {
	return slices.Sorted(maps.Keys(m))
}

// Entry is one row of the final table.
type Entry struct {
	ASN    ASN      `json:"asn" yaml:"asn"`
	Name   string   `json:"name" yaml:"name"`
	Source SourceID `json:"source" yaml:"source"`
}
