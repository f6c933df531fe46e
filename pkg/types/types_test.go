package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/pkg/types"
)

func TestParseASN(t *testing.T) {
	tests := []struct {
		in      string
		want    types.ASN
		wantErr bool
	}{
		{in: "64512", want: 64512},
		{in: "1", want: 1},
		{in: "4294967295", want: 4294967295},
		{in: "4294967296", wantErr: true},
		{in: "0", wantErr: true},
		{in: "", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "12a", wantErr: true},
		{in: "AS64512", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseASN(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseASNPrefixed(t *testing.T) {
	got, err := types.ParseASNPrefixed("AS64512")
	require.NoError(t, err)
	assert.Equal(t, types.ASN(64512), got)

	got, err = types.ParseASNPrefixed("as174")
	require.NoError(t, err)
	assert.Equal(t, types.ASN(174), got)

	for _, bad := range []string{"AS0", "AS", "64512", "ASX1", "AS-1", "A"} {
		_, err := types.ParseASNPrefixed(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseASNLoose(t *testing.T) {
	for _, in := range []string{"64512", "AS64512", " as64512 "} {
		got, err := types.ParseASNLoose(in)
		require.NoError(t, err, in)
		assert.Equal(t, types.ASN(64512), got)
	}
}

func TestASNFormatting(t *testing.T) {
	a := types.ASN(13335)
	assert.Equal(t, "13335", a.String())
	assert.Equal(t, "AS13335", a.Label())
}

func TestSourceIDs(t *testing.T) {
	assert.Len(t, types.SourceIDs(), 7)
	for _, id := range types.SourceIDs() {
		assert.True(t, id.IsValid())
		assert.NotEmpty(t, id.Kind())
	}
	assert.False(t, types.SourceID("radb").IsValid())
	assert.Empty(t, types.SourceID("radb").Kind())

	assert.Equal(t, types.KindDirectory, types.PeeringDBID.Kind())
	assert.Equal(t, types.KindFlat, types.IPtoASNID.Kind())
	assert.Equal(t, types.KindRegistry, types.LACNICID.Kind())
}

func TestParseSourceID(t *testing.T) {
	id, ok := types.ParseSourceID("RIPE")
	assert.True(t, ok)
	assert.Equal(t, types.RIPEID, id)

	_, ok = types.ParseSourceID("radb")
	assert.False(t, ok)
}

func TestMappingASNs(t *testing.T) {
	m := types.Mapping{300: "c", 1: "a", 20: "b"}
	assert.Equal(t, []types.ASN{1, 20, 300}, m.ASNs())
	assert.Empty(t, types.Mapping{}.ASNs())
}
