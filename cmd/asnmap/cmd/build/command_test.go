package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

var files = map[string]string{
	"flat.tsv": "1.0.0.0\t1.0.0.255\t64512\tUS\tFoo Corp\n" +
		"2.0.0.0\t2.0.0.255\t174\tUS\tCogent Communications, LLC\n",
	"ripe.db": "aut-num: AS64512\norg: FOO-HANDLE\n\n" +
		"organisation: FOO-HANDLE\norg-name: Foo Corporation\n",
	"net.json": `{"data":[{"asn":64512,"name":"Foo Corp Inc"}]}`,
}

func testApp(t *testing.T, out *bytes.Buffer, format string) *application.Mock {
	t.Helper()

	fetcher := fetch.FetcherFunc(func(_ context.Context, id string) ([]byte, error) {
		data, ok := files[id]
		if !ok {
			return nil, errors.WrapFetch(id, errors.New("missing"))
		}
		return []byte(data), nil
	})

	list := make([]sources.Source, 0, 3)
	for _, def := range []struct {
		id       types.SourceID
		priority int
		file     string
	}{
		{types.IPtoASNID, 10, "flat.tsv"},
		{types.RIPEID, 60, "ripe.db"},
		{types.PeeringDBID, 100, "net.json"},
	} {
		src, err := sources.New(def.id, def.priority, def.file)
		require.NoError(t, err)
		list = append(list, src)
	}

	return &application.Mock{
		ResolverFunc: func(opts ...asnmap.Option) (*asnmap.Resolver, error) {
			base := []asnmap.Option{asnmap.WithSources(list...), asnmap.WithFetcher(fetcher)}
			return asnmap.New(append(base, opts...)...)
		},
		OutputFormatFunc: func() string { return format },
		Out:              out,
	}
}

func TestBuildCSV(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(testApp(t, &out, "csv"))
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "asn,name,source\n174,Cogent Communications,iptoasn\n64512,Foo Corp,peeringdb\n", out.String())
}

func TestBuildOnly(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(testApp(t, &out, "csv"))
	cmd.SetArgs([]string{"--only", "ripe"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "asn,name,source\n64512,Foo Corporation,ripe\n", out.String())
}

func TestBuildUnknownSource(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(testApp(t, &out, "csv"))
	cmd.SetArgs([]string{"--disable", "nosuch"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestBuildOutAndProvenance(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "asn.csv")
	provPath := filepath.Join(dir, "provenance.yaml")

	var out, stderr bytes.Buffer
	cmd := NewCommand(testApp(t, &out, ""))
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--out", outPath, "--provenance", provPath, "--report"})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, out.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "64512,Foo Corp,peeringdb")

	pf, err := provenance.Load(provPath)
	require.NoError(t, err)
	require.NotNil(t, pf)
	history := pf.Provenance[64512]
	require.Len(t, history, 3)
	assert.Equal(t, types.PeeringDBID, history[2].Source)

	assert.Contains(t, stderr.String(), "Provenance Report")
	assert.Contains(t, stderr.String(), "Contested:    1")
}

func TestBuildFetchFailure(t *testing.T) {
	var out bytes.Buffer
	app := testApp(t, &out, "csv")
	resolver := app.ResolverFunc
	app.ResolverFunc = func(opts ...asnmap.Option) (*asnmap.Resolver, error) {
		src, err := sources.New(types.ARINID, 20, "arin.db")
		require.NoError(t, err)
		return resolver(append(opts, asnmap.WithSources(src))...)
	}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.Empty(t, out.String())
}
