package object

import (
	"bytes"
	"strconv"
)

// Envelope prefixes body with its "type len\0" header, producing the byte
// layout of a decompressed loose object.
func Envelope(objType ObjectType, body []byte) []byte {
	header := string(objType) + " " + strconv.Itoa(len(body)) + "\x00"
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return out
}

// MarshalTree serializes tree entries in their given order. Each record is
//
//	<octal mode> <name>\0<20-byte id>
//
// with no separator between records. Modes are written without leading
// zeros, so directories appear as "40000".
func MarshalTree(tr *Tree) []byte {
	var buf bytes.Buffer
	for _, e := range tr.Entries {
		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID[:])
	}
	return buf.Bytes()
}

// EncodeBlob returns the enveloped form of a blob.
func EncodeBlob(b *Blob) []byte {
	return Envelope(TypeBlob, b.Data)
}

// EncodeTree returns the enveloped form of a tree.
func EncodeTree(tr *Tree) []byte {
	return Envelope(TypeTree, MarshalTree(tr))
}

// IDOf returns the identifier the store would file obj under.
func IDOf(obj Object) ID {
	switch o := obj.(type) {
	case *Blob:
		return HashObject(TypeBlob, o.Data)
	case *Tree:
		return HashObject(TypeTree, MarshalTree(o))
	}
	return ZeroID
}
