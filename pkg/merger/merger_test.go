package merger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/pkg/logging"
	"github.com/asnmap/asnmap/pkg/merger"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

func quiet() merger.Option {
	return merger.WithLogger(logging.NewNopLogger())
}

func TestHighestPriorityWins(t *testing.T) {
	m := merger.New(quiet())
	m.Apply(types.IPtoASNID, types.Mapping{64512: "Foo Corp", 1: "Low only"})
	m.Apply(types.RIPEID, types.Mapping{64512: "Foo Corporation", 2: "Mid only"})
	m.Apply(types.PeeringDBID, types.Mapping{64512: "Foo Corp Inc"})

	res := m.Result()
	assert.Equal(t, []types.Entry{
		{ASN: 1, Name: "Low only", Source: types.IPtoASNID},
		{ASN: 2, Name: "Mid only", Source: types.RIPEID},
		{ASN: 64512, Name: "Foo Corp", Source: types.PeeringDBID},
	}, res.Entries())

	assert.Equal(t, 1, res.Wins[types.PeeringDBID])
	assert.Equal(t, []types.SourceID{types.IPtoASNID, types.RIPEID, types.PeeringDBID}, res.Sources)
}

func TestOverwriteIgnoresNameQuality(t *testing.T) {
	m := merger.New(quiet(), merger.WithCleaner(nil))
	m.Apply(types.ARINID, types.Mapping{7: "A very descriptive and complete name"})
	m.Apply(types.RIPEID, types.Mapping{7: "x"})

	rec, ok := m.Result().Get(7)
	require.True(t, ok)
	assert.Equal(t, types.Record{Name: "x", Source: types.RIPEID}, rec)
}

func TestCleanerReceivesOwnASNAndSource(t *testing.T) {
	type call struct {
		asn    types.ASN
		source types.SourceID
	}
	var calls []call
	fn := func(name string, asn types.ASN, source types.SourceID) string {
		calls = append(calls, call{asn, source})
		return strings.ToUpper(name)
	}

	m := merger.New(quiet(), merger.WithCleaner(fn))
	m.Apply(types.LACNICID, types.Mapping{10: "ten"})
	m.Apply(types.APNICID, types.Mapping{20: "twenty"})

	res := m.Result()
	assert.ElementsMatch(t, []call{{10, types.LACNICID}, {20, types.APNICID}}, calls)
	assert.Equal(t, "TEN", res.Records[10].Name)
}

func TestEmptyCleanFallsBack(t *testing.T) {
	m := merger.New(quiet(), merger.WithCleaner(func(string, types.ASN, types.SourceID) string { return "" }))
	m.Apply(types.ARINID, types.Mapping{1: "Original"})
	assert.Equal(t, "Original", m.Result().Records[1].Name)
}

func TestDefaultCleaner(t *testing.T) {
	m := merger.New(quiet())
	m.Apply(types.ARINID, types.Mapping{174: "Cogent Communications, LLC", 99: "AS-SSI"})
	res := m.Result()
	assert.Equal(t, "Cogent Communications", res.Records[174].Name)
	assert.Equal(t, "AS-SSI", res.Records[99].Name)
}

func TestProvenance(t *testing.T) {
	tr := provenance.NewTracker(true)
	m := merger.New(quiet(), merger.WithProvenance(tr))
	m.Apply(types.IPtoASNID, types.Mapping{64512: "Foo Corp"})
	m.Apply(types.PeeringDBID, types.Mapping{64512: "Foo Corp Inc"})

	history := tr.Explain(64512)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Order)
	assert.Equal(t, types.PeeringDBID, history[1].Source)
	assert.Equal(t, "Foo Corp Inc", history[1].Value)
}

func TestSelect(t *testing.T) {
	m := merger.New(quiet())
	m.Apply(types.RIPEID, types.Mapping{3: "Three", 1: "One"})
	found, missing := m.Result().Select(3, 2, 1)
	assert.Equal(t, []types.Entry{
		{ASN: 3, Name: "Three", Source: types.RIPEID},
		{ASN: 1, Name: "One", Source: types.RIPEID},
	}, found)
	assert.Equal(t, []types.ASN{2}, missing)
}

func TestEmpty(t *testing.T) {
	res := merger.New(quiet()).Result()
	assert.Zero(t, res.Len())
	assert.Empty(t, res.Entries())
}

func TestLogsPerSourceSummary(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m := merger.New(merger.WithLogger(tl.Logger))
	m.Apply(types.RIPEID, types.Mapping{1: "a"})
	m.Apply(types.PeeringDBID, types.Mapping{1: "b", 2: "c"})

	tl.AssertContains(t, `"source":"peeringdb"`)
	tl.AssertContains(t, `"replaced":1`)
	assert.Equal(t, 2, m.Len())
}
