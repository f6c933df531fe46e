// Package directory adapts curated network directories (PeeringDB's
// /api/net listing) into ASN to name mappings.
package directory

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// Record is one network entry of the directory.
type Record struct {
	ASN  int64  `json:"asn"`
	Name string `json:"name"`
}

// envelope is the PeeringDB response wrapper.
type envelope struct {
	Data []Record `json:"data"`
}

// Decode reads a directory payload. Both the {"data": [...]} envelope and a
// bare JSON array are accepted.
func Decode(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "directory", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.NewParseError("json", "directory", "empty payload", nil)
	}

	if trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, errors.WrapParse("json", "directory", err)
		}
		return records, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, errors.WrapParse("json", "directory", err)
	}
	if env.Data == nil {
		return nil, errors.NewParseError("json", "directory", `missing "data" array`, nil)
	}
	return env.Data, nil
}

// ToMapping converts records into a mapping. Later records for the same ASN
// replace earlier ones. Records with an out-of-range ASN or a blank name are
// dropped.
func ToMapping(records []Record) types.Mapping {
	out := make(types.Mapping, len(records))
	for _, rec := range records {
		if rec.ASN <= 0 || rec.ASN > math.MaxUint32 {
			continue
		}
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		out[types.ASN(rec.ASN)] = name
	}
	return out
}
