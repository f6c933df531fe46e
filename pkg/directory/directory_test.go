package directory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/pkg/directory"
	pkgerrors "github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

func TestDecodeEnvelope(t *testing.T) {
	payload := `{"data": [
		{"id": 1, "asn": 13335, "name": "Cloudflare", "irr_as_set": "AS13335:AS-CLOUDFLARE"},
		{"id": 2, "asn": 64512, "name": "Foo Corp Inc"}
	], "meta": {}}`

	records, err := directory.Decode(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, []directory.Record{
		{ASN: 13335, Name: "Cloudflare"},
		{ASN: 64512, Name: "Foo Corp Inc"},
	}, records)
}

func TestDecodeBareArray(t *testing.T) {
	records, err := directory.Decode(strings.NewReader(` [{"asn": 1, "name": "One"}]`))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDecodeErrors(t *testing.T) {
	for name, payload := range map[string]string{
		"malformed":    `{"data": [`,
		"empty":        "  ",
		"missing data": `{"meta": {}}`,
		"wrong type":   `{"data": [{"asn": "x"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := directory.Decode(strings.NewReader(payload))
			require.Error(t, err)
			var parseErr *pkgerrors.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestToMapping(t *testing.T) {
	got := directory.ToMapping([]directory.Record{
		{ASN: 1, Name: "First"},
		{ASN: 1, Name: "Replaced"},
		{ASN: 0, Name: "Zero"},
		{ASN: -3, Name: "Negative"},
		{ASN: 4294967296, Name: "Too big"},
		{ASN: 2, Name: "   "},
		{ASN: 3, Name: " Padded "},
	})
	assert.Equal(t, types.Mapping{1: "Replaced", 3: "Padded"}, got)
}
