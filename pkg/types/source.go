//nolint:revive // Package types provides common type definitions
package types

import (
	"slices"
	"strings"
)

// SourceID identifies an upstream data source.
// It names where an organization name originated (a registry dump, the flat
// dataset or the curated directory).
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// Source identifiers, one per upstream.
const (
	// PeeringDBID identifies the curated directory (PeeringDB network records).
	PeeringDBID SourceID = "peeringdb"

	// RIPEID identifies the RIPE NCC registry dump.
	RIPEID SourceID = "ripe"

	// ARINID identifies the ARIN registry dump.
	ARINID SourceID = "arin"

	// APNICID identifies the APNIC registry dump.
	APNICID SourceID = "apnic"

	// AFRINICID identifies the AFRINIC registry dump.
	AFRINICID SourceID = "afrinic"

	// LACNICID identifies the LACNIC registry dump.
	LACNICID SourceID = "lacnic"

	// IPtoASNID identifies the flat ip2asn dataset.
	IPtoASNID SourceID = "iptoasn"
)

// SourceKind is the file format family a source is parsed with.
type SourceKind string

const (
	// KindDirectory is a JSON directory of (asn, name) records.
	KindDirectory SourceKind = "directory"

	// KindRegistry is an RPSL registry dump.
	KindRegistry SourceKind = "registry"

	// KindFlat is a delimited flat dataset.
	KindFlat SourceKind = "flat"
)

// String returns the string representation of a source kind.
func (k SourceKind) String() string {
	return string(k)
}

// SourceIDs returns all available source identifiers.
func SourceIDs() []SourceID {
	return []SourceID{
		PeeringDBID,
		RIPEID,
		ARINID,
		APNICID,
		AFRINICID,
		LACNICID,
		IPtoASNID,
	}
}

// IsValid returns true if the SourceID is one of the defined constants.
func (id SourceID) IsValid() bool {
	return slices.Contains(SourceIDs(), id)
}

// Kind returns the format family of the source.
// Unknown IDs report an empty kind.
func (id SourceID) Kind() SourceKind {
	switch id {
	case PeeringDBID:
		return KindDirectory
	case IPtoASNID:
		return KindFlat
	case RIPEID, ARINID, APNICID, AFRINICID, LACNICID:
		return KindRegistry
	default:
		return ""
	}
}

// ParseSourceID converts a string to a known SourceID, ignoring case.
func ParseSourceID(s string) (SourceID, bool) {
	for _, id := range SourceIDs() {
		if strings.EqualFold(string(id), strings.TrimSpace(s)) {
			return id, true
		}
	}
	return "", false
}
