package object

import (
	"errors"
	"fmt"
	"strconv"
)

// minEntrySize is the smallest possible tree record: one mode digit, the
// space, the NUL after the name and the binary id.
const minEntrySize = 1 + 1 + 1 + IDSize

// ParseHeader reads the "type size\0" header at the cursor.
func ParseHeader(c *Cursor) (Header, error) {
	start := c.Offset()
	tag, err := c.TakeTextUntil(' ')
	if err != nil {
		return Header{}, &DecodeError{Field: "type", Offset: start, Err: fmt.Errorf("%w: %w", ErrMalformedHeader, err)}
	}
	objType := ObjectType(tag)
	switch objType {
	case TypeBlob, TypeTree:
	default:
		return Header{}, &DecodeError{Field: "type", Offset: start, Err: &UnknownTypeError{Tag: tag}}
	}

	sizeOff := c.Offset()
	sizeText, err := c.TakeTextUntil(0)
	if err != nil {
		return Header{}, &DecodeError{Field: "size", Offset: sizeOff, Err: fmt.Errorf("%w: %w", ErrMalformedHeader, err)}
	}
	size, err := parseSize(sizeText)
	if err != nil {
		return Header{}, &DecodeError{Field: "size", Offset: sizeOff, Err: err}
	}

	return Header{Type: objType, Size: size, Len: c.Offset() - start}, nil
}

func parseSize(s string) (int, error) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("%w: size %q is not a decimal number", ErrMalformedHeader, s)
	}
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q: %v", ErrMalformedHeader, s, err)
	}
	return int(n), nil
}

// Decode parses a fully decompressed object buffer. The body must be exactly
// as long as the header declares.
//
// Tree entries reference strings copied out of data; blob data is copied once,
// so the returned Object does not alias data.
func Decode(data []byte) (Object, error) {
	c := NewCursor(data)
	hdr, err := ParseHeader(c)
	if err != nil {
		return nil, err
	}
	if c.Len() != hdr.Size {
		return nil, &DecodeError{
			Field:  "body",
			Offset: c.Offset(),
			Err:    fmt.Errorf("%w: header=%d, actual=%d", ErrSizeMismatch, hdr.Size, c.Len()),
		}
	}

	switch hdr.Type {
	case TypeBlob:
		body := c.Rest()
		out := make([]byte, len(body))
		copy(out, body)
		return &Blob{Data: out}, nil
	case TypeTree:
		return decodeTreeBody(c)
	}
	return nil, &DecodeError{Field: "type", Offset: 0, Err: &UnknownTypeError{Tag: string(hdr.Type)}}
}

// DecodeBlob decodes data and requires it to be a blob.
func DecodeBlob(data []byte) (*Blob, error) {
	obj, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, obj.Type(), TypeBlob)
	}
	return b, nil
}

// DecodeTree decodes data and requires it to be a tree.
func DecodeTree(data []byte) (*Tree, error) {
	obj, err := Decode(data)
	if err != nil {
		return nil, err
	}
	tr, ok := obj.(*Tree)
	if !ok {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, obj.Type(), TypeTree)
	}
	return tr, nil
}

// decodeTreeBody parses records until the cursor is exhausted. A successful
// parseEntry consumes at least minEntrySize bytes, so the loop terminates.
func decodeTreeBody(c *Cursor) (*Tree, error) {
	entries := make([]Entry, 0, c.Len()/minEntrySize)
	for i := 0; !c.Done(); i++ {
		start := c.Offset()
		e, field, err := parseEntry(c)
		if err != nil {
			return nil, &DecodeError{
				Field:  fmt.Sprintf("entry[%d].%s", i, field),
				Offset: start,
				Err:    fmt.Errorf("%w: %w", ErrIncompleteTreeEntry, err),
			}
		}
		entries = append(entries, e)
	}
	return &Tree{Entries: entries}, nil
}

// parseEntry decodes one "mode name\0<20 bytes>" record. On failure it also
// returns the name of the field that could not be read.
func parseEntry(c *Cursor) (Entry, string, error) {
	modeText, err := c.TakeTextUntil(' ')
	if err != nil {
		return Entry{}, "mode", err
	}
	mode, err := parseMode(modeText)
	if err != nil {
		return Entry{}, "mode", err
	}

	name, err := c.TakeTextUntil(0)
	if err != nil {
		if errors.Is(err, ErrInvalidText) {
			return Entry{}, "name", fmt.Errorf("%w: %w", ErrInvalidName, err)
		}
		return Entry{}, "name", err
	}

	raw, err := c.TakeExact(IDSize)
	if err != nil {
		return Entry{}, "id", err
	}
	id, err := IDFromBytes(raw)
	if err != nil {
		return Entry{}, "id", err
	}

	return Entry{Mode: mode, Kind: KindForMode(mode), Name: name, ID: id}, "", nil
}

func parseMode(s string) (uint32, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidMode)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return 0, fmt.Errorf("%w: %q is not octal", ErrInvalidMode, s)
		}
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMode, s, err)
	}
	return uint32(n), nil
}
