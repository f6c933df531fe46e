// Package lines reads newline-terminated records from large dump files.
// Lines longer than the configured limit are consumed and reported instead
// of failing the read, so one corrupt line never loses the rest of a file.
package lines

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Reader returns one line at a time without its terminator.
// A Reader is not safe for concurrent use.
type Reader struct {
	r   *bufio.Reader
	max int
	buf []byte
}

// NewReader reads from r using a buffer of size bytes. Lines longer than
// max bytes are discarded.
func NewReader(r io.Reader, size, max int) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, size), max: max}
}

// Next returns the next line with any trailing "\r\n" or "\n" removed.
// The slice is only valid until the following call. When the line exceeded
// the limit, line is nil and tooLong is true. At the end of input Next
// returns io.EOF.
func (lr *Reader) Next() (line []byte, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(lr.buf)+len(chunk) > lr.max+2 {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return nil, false, io.EOF
			}
		case err != nil:
			return nil, false, err
		}
		break
	}

	if tooLong {
		return nil, true, nil
	}
	line = bytes.TrimSuffix(lr.buf, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > lr.max {
		return nil, true, nil
	}
	return line, false, nil
}
