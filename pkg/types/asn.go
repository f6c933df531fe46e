package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ASN is an Autonomous System Number. Zero is reserved and never valid.
type ASN uint32

// String returns the decimal form of the ASN.
func (a ASN) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Label returns the "AS<n>" form of the ASN.
func (a ASN) Label() string {
	return "AS" + a.String()
}

// ParseASN parses a decimal AS number.
// It rejects zero, signs, non-digits and values above 2^32-1.
func ParseASN(s string) (ASN, error) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("invalid ASN %q", s)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ASN %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid ASN %q: zero is reserved", s)
	}
	return ASN(n), nil
}

// ParseASNPrefixed parses an AS number written with the two character "AS"
// prefix (matched case-insensitively), such as "AS64512" or "as174".
func ParseASNPrefixed(s string) (ASN, error) {
	if len(s) < 2 || !strings.EqualFold(s[:2], "AS") {
		return 0, fmt.Errorf("invalid ASN %q: missing AS prefix", s)
	}
	return ParseASN(s[2:])
}

// ParseASNLoose accepts both "64512" and "AS64512".
func ParseASNLoose(s string) (ASN, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "AS") {
		return ParseASNPrefixed(s)
	}
	return ParseASN(s)
}
