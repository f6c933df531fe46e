package lookup

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

func testApp(t *testing.T, out *bytes.Buffer) *application.Mock {
	t.Helper()

	files := map[string]string{
		"ripe.db": "aut-num: AS64512\norg: FOO-HANDLE\n\n" +
			"organisation: FOO-HANDLE\norg-name: Foo Corporation\n",
		"net.json": `[{"asn":64512,"name":"Foo Corp Inc"},{"asn":13335,"name":"Cloudflare, Inc."}]`,
	}
	fetcher := fetch.FetcherFunc(func(_ context.Context, id string) ([]byte, error) {
		return []byte(files[id]), nil
	})

	ripe, err := sources.New(types.RIPEID, 60, "ripe.db")
	require.NoError(t, err)
	pdb, err := sources.New(types.PeeringDBID, 100, "net.json")
	require.NoError(t, err)

	return &application.Mock{
		ResolverFunc: func(opts ...asnmap.Option) (*asnmap.Resolver, error) {
			base := []asnmap.Option{asnmap.WithSources(ripe, pdb), asnmap.WithFetcher(fetcher)}
			return asnmap.New(append(base, opts...)...)
		},
		OutputFormatFunc: func() string { return "csv" },
		Out:              out,
	}
}

func run(t *testing.T, app application.Application, args ...string) error {
	t.Helper()
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func TestLookup(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t, testApp(t, &out), "AS13335", "64512"))
	assert.Equal(t, "asn,name,source\n13335,Cloudflare,peeringdb\n64512,Foo Corp,peeringdb\n", out.String())
}

func TestLookupPartialMiss(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t, testApp(t, &out), "64512", "65000"))
	assert.Equal(t, "asn,name,source\n64512,Foo Corp,peeringdb\n", out.String())
}

func TestLookupNotFound(t *testing.T) {
	var out bytes.Buffer
	err := run(t, testApp(t, &out), "65000")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "AS65000")
}

func TestLookupInvalidASN(t *testing.T) {
	var out bytes.Buffer
	err := run(t, testApp(t, &out), "ASx")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestLookupExplain(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t, testApp(t, &out), "64512", "--explain"))
	assert.Equal(t, "asn,step,source,name\n"+
		"64512,1,ripe,Foo Corporation\n"+
		"64512,2,peeringdb,Foo Corp Inc\n"+
		"64512,cleaned,peeringdb,Foo Corp\n", out.String())
}
