package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"

	"github.com/asnmap/asnmap/pkg/errors"
)

// gzipMagic is the two byte header of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether data starts with the gzip header.
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Decompress gunzips data when it is gzip-compressed and returns it
// unchanged otherwise. Concatenated gzip members are read in full.
func Decompress(data []byte) ([]byte, error) {
	if !IsGzip(data) {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapParse("gzip", "", err)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.WrapParse("gzip", "", err)
	}
	return out, nil
}

// Open fetches identifier and decompresses it.
func Open(ctx context.Context, f Fetcher, identifier string) ([]byte, error) {
	data, err := f.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	out, err := Decompress(data)
	if err != nil {
		return nil, errors.WrapFetch(identifier, err)
	}
	return out, nil
}
