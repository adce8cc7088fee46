package object

import (
	"errors"
	"fmt"
)

// Cursor-level failures.
var (
	ErrDelimiterNotFound = errors.New("delimiter not found")
	ErrInsufficientBytes = errors.New("insufficient bytes")
	ErrInvalidText       = errors.New("invalid utf-8 text")
)

// Header and record failures raised by Decode.
var (
	ErrMalformedHeader     = errors.New("malformed header")
	ErrUnknownObjectType   = errors.New("unknown object type")
	ErrSizeMismatch        = errors.New("size mismatch")
	ErrInvalidMode         = errors.New("invalid mode")
	ErrInvalidName         = errors.New("invalid name")
	ErrIncompleteTreeEntry = errors.New("incomplete tree entry")
	ErrTypeMismatch        = errors.New("object type mismatch")
)

// Identifier construction failures.
var (
	ErrInvalidHexLength = errors.New("invalid hex length")
	ErrInvalidHexDigit  = errors.New("invalid hex digit")
)

// Store failures.
var (
	ErrObjectNotFound           = errors.New("object not found")
	ErrPackedObjectsUnsupported = errors.New("packed objects are not supported")
	ErrHashMismatch             = errors.New("object hash mismatch")
)

// DecodeError reports where in a decompressed object a decode failed.
type DecodeError struct {
	Field  string // e.g. "type", "size", "entry[3].mode"
	Offset int    // byte offset into the decompressed buffer
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnknownTypeError carries the type tag found in an object header that this
// package cannot decode.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %q", ErrUnknownObjectType, e.Tag)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownObjectType
}
