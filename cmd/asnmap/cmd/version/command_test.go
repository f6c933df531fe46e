package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asnmap/asnmap/cmd/application"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	app := &application.Mock{
		VersionFunc: func() string { return "1.2.3" },
		Out:         &out,
	}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "asnmap 1.2.3\n", out.String())

	out.Reset()
	cmd = NewCommand(app)
	cmd.SetArgs([]string{"--detailed"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "commit:   unknown")
	assert.Contains(t, out.String(), "built by: test")
}
