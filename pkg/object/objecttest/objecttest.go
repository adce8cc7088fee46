// Package objecttest writes loose objects for tests of code that reads them.
package objecttest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/odvcencio/gitcat/pkg/object"
)

// Compress returns raw deflated with zlib framing.
func Compress(t testing.TB, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// WriteRaw stores raw, an already enveloped object, under id in the store
// rooted at root. The id is not checked against the content.
func WriteRaw(t testing.TB, root string, id object.ID, raw []byte) string {
	t.Helper()
	h := id.String()
	dir := filepath.Join(root, "objects", h[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, h[2:])
	if err := os.WriteFile(path, Compress(t, raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// Write stores obj under its content hash and returns that hash.
func Write(t testing.TB, root string, obj object.Object) object.ID {
	t.Helper()
	var raw []byte
	switch o := obj.(type) {
	case *object.Blob:
		raw = object.EncodeBlob(o)
	case *object.Tree:
		raw = object.EncodeTree(o)
	default:
		t.Fatalf("objecttest.Write: unsupported object %T", obj)
	}
	id := object.HashRaw(raw)
	WriteRaw(t, root, id, raw)
	return id
}

// WriteBlob stores a blob with the given content.
func WriteBlob(t testing.TB, root string, data string) object.ID {
	t.Helper()
	return Write(t, root, &object.Blob{Data: []byte(data)})
}

// WriteTree stores a tree with the given entries, in order.
func WriteTree(t testing.TB, root string, entries ...object.Entry) object.ID {
	t.Helper()
	return Write(t, root, &object.Tree{Entries: entries})
}

// File returns a regular-file entry.
func File(name string, id object.ID) object.Entry {
	return object.Entry{Mode: object.ModeFile, Kind: object.KindFlat, Name: name, ID: id}
}

// Dir returns a subtree entry.
func Dir(name string, id object.ID) object.Entry {
	return object.Entry{Mode: object.ModeDir, Kind: object.KindDirectory, Name: name, ID: id}
}

// InitRepo creates dir/<storeDir>/objects and returns the store directory.
func InitRepo(t testing.TB, dir, storeDir string) string {
	t.Helper()
	gitDir := filepath.Join(dir, storeDir)
	if err := os.MkdirAll(filepath.Join(gitDir, "objects"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	return gitDir
}
