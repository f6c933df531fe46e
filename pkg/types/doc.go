// Package types provides shared type definitions used across the asnmap packages.
//
// This package contains the fundamental types (ASN, SourceID, Record, Mapping)
// that are referenced by the parsers, the merger and the provenance tracker,
// keeping those packages free of import cycles.
//
// The package has zero dependencies outside the standard library.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
