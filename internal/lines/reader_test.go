package lines

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, lr *Reader) (got []string, long int) {
	t.Helper()
	for {
		line, tooLong, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return got, long
		}
		require.NoError(t, err)
		if tooLong {
			long++
			continue
		}
		got = append(got, string(line))
	}
}

func TestReaderLines(t *testing.T) {
	lr := NewReader(strings.NewReader("a\r\nbb\n\nccc"), 16, 64)
	got, long := readAll(t, lr)
	assert.Equal(t, []string{"a", "bb", "", "ccc"}, got)
	assert.Zero(t, long)
}

func TestReaderSkipsLongLines(t *testing.T) {
	input := "first\n" + strings.Repeat("x", 100) + "\nlast\n" + strings.Repeat("y", 40)
	lr := NewReader(strings.NewReader(input), 16, 32)

	got, long := readAll(t, lr)
	assert.Equal(t, []string{"first", "last"}, got)
	assert.Equal(t, 2, long)
}

func TestReaderLineAtLimit(t *testing.T) {
	line := strings.Repeat("z", 32)
	lr := NewReader(strings.NewReader(line+"\n"+line), 16, 32)

	got, long := readAll(t, lr)
	assert.Equal(t, []string{line, line}, got)
	assert.Zero(t, long)
}

func TestReaderEmpty(t *testing.T) {
	_, _, err := NewReader(strings.NewReader(""), 16, 32).Next()
	assert.ErrorIs(t, err, io.EOF)
}
