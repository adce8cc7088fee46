package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
)

// IDSize is the length in bytes of a binary object identifier.
const IDSize = sha1.Size

// HexSize is the length of an identifier in its hex form.
const HexSize = IDSize * 2

// ID is the binary SHA-1 content hash that names an object in the store.
type ID [IDSize]byte

// ZeroID is the all-zero identifier.
var ZeroID ID

// FromHex parses a 40-character hexadecimal string, in either case.
func FromHex(s string) (ID, error) {
	var id ID
	if len(s) != HexSize {
		return id, fmt.Errorf("%w: got %d characters, want %d", ErrInvalidHexLength, len(s), HexSize)
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return id, fmt.Errorf("%w: %q at position %d", ErrInvalidHexDigit, s[i], i)
		}
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ZeroID, fmt.Errorf("%w: %v", ErrInvalidHexDigit, err)
	}
	return id, nil
}

// MustFromHex is FromHex for known-good constants. It panics on error.
func MustFromHex(s string) ID {
	id, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromBytes copies a 20-byte binary identifier.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDSize {
		return id, fmt.Errorf("%w: id needs %d bytes, got %d", ErrInsufficientBytes, IDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the lowercase hex form of the identifier.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the all-zero identifier.
func (id ID) IsZero() bool {
	return id == ZeroID
}

// HashObject computes the identifier of an object from its type and body,
// hashing the "type len\0body" envelope.
func HashObject(objType ObjectType, body []byte) ID {
	h := sha1.New()
	h.Write([]byte(string(objType) + " " + strconv.Itoa(len(body)) + "\x00"))
	h.Write(body)
	var id ID
	copy(id[:], h.Sum(nil))
	return id
}

// HashRaw hashes an already enveloped, decompressed object buffer.
func HashRaw(raw []byte) ID {
	return ID(sha1.Sum(raw))
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
