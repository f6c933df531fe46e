// Package cleaner strips legal-entity markers and AS number self-references
// from the trailing end of organization names.
//
// Cleaning is a fixed-point loop. Each pass trims trailing separators and
// then removes the first suffix from Suffixes that the name ends with,
// provided the suffix is directly preceded by a space, comma or hyphen.
// Matching ignores case; the retained prefix keeps its original casing.
package cleaner

import (
	"strings"

	"github.com/asnmap/asnmap/pkg/types"
)

// trailing characters trimmed at the start of every pass.
const trailing = " ,.-"

// separators that must directly precede a suffix for it to match.
const separators = " ,-"

// legalSuffixes are tried first, in order.
var legalSuffixes = []string{
	"LLC",
	"Limited",
	"Pty",
	"Co",
	"AG",
	"GmbH",
	"Ltd",
	"B.V",
	"Inc",
	"SARL",
	"S.A",
	"S.p.A",
}

// Suffixes returns the ordered suffix list for the given ASN: the legal
// markers followed by the AS number self-reference variants.
func Suffixes(asn types.ASN) []string {
	n := asn.String()
	out := make([]string, 0, len(legalSuffixes)+10)
	out = append(out, legalSuffixes...)
	return append(out,
		"AS"+n,
		"(AS"+n+")",
		"AS "+n,
		"(AS "+n+")",
		"ASN"+n,
		"(ASN"+n+")",
		"ASN "+n,
		"(ASN "+n+")",
		n,
		"("+n+")",
	)
}

// Func is the signature shared by Clean and its replacements in tests.
type Func func(name string, asn types.ASN, source types.SourceID) string

// Clean returns name with trailing legal-entity and ASN suffixes removed.
// If cleaning would leave nothing, the original name is returned.
// The source is accepted so every entry is cleaned with its own context;
// the current rules do not vary by source.
func Clean(name string, asn types.ASN, _ types.SourceID) string {
	suffixes := Suffixes(asn)

	s := name
	for {
		next := strings.TrimRight(s, trailing)
		if stripped, ok := stripSuffix(next, suffixes); ok {
			next = stripped
		}
		if next == s {
			break
		}
		s = next
	}

	if s == "" {
		return name
	}
	return s
}

// stripSuffix removes the first matching suffix from s.
func stripSuffix(s string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		cut := len(s) - len(suffix)
		if cut < 1 {
			continue
		}
		if !strings.ContainsRune(separators, rune(s[cut-1])) {
			continue
		}
		if strings.EqualFold(s[cut:], suffix) {
			return s[:cut], true
		}
	}
	return s, false
}
