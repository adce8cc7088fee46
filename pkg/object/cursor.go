package object

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Cursor is a forward-only reader over a borrowed byte buffer. Every Take
// method either advances past what it returns or leaves the cursor where it
// was; there is no partial advancement on failure.
//
// Slices returned by a Cursor alias the underlying buffer, so the buffer must
// outlive them and must not be modified while they are in use.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.data) - c.off }

// Done reports whether every byte has been consumed.
func (c *Cursor) Done() bool { return c.off >= len(c.data) }

// TakeUntil returns the bytes before the next occurrence of delim and moves
// the cursor past the delimiter. The delimiter is not part of the result.
func (c *Cursor) TakeUntil(delim byte) ([]byte, error) {
	rest := c.data[c.off:]
	idx := bytes.IndexByte(rest, delim)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q after offset %d", ErrDelimiterNotFound, delim, c.off)
	}
	c.off += idx + 1
	return rest[:idx:idx], nil
}

// TakeTextUntil is TakeUntil for fields that must be valid UTF-8. The cursor
// does not move if the field fails validation.
func (c *Cursor) TakeTextUntil(delim byte) (string, error) {
	start := c.off
	field, err := c.TakeUntil(delim)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(field) {
		c.off = start
		return "", fmt.Errorf("%w at offset %d", ErrInvalidText, start)
	}
	return string(field), nil
}

// TakeExact returns the next n bytes.
func (c *Cursor) TakeExact(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: need %d, have %d at offset %d", ErrInsufficientBytes, n, c.Len(), c.off)
	}
	out := c.data[c.off : c.off+n : c.off+n]
	c.off += n
	return out, nil
}

// Rest consumes and returns every remaining byte.
func (c *Cursor) Rest() []byte {
	out := c.data[c.off:len(c.data):len(c.data)]
	c.off = len(c.data)
	return out
}
