package object

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	idA = MustFromHex("ce013625030ba8dba906f756967f9e9ca394464a")
	idB = MustFromHex("4b825dc642cb6eb9a060e54bf8d69288fbee4904")
	idC = MustFromHex("0123456789abcdef0123456789abcdef01234567")
)

func treeRecord(mode, name string, id ID) []byte {
	out := []byte(mode + " " + name + "\x00")
	return append(out, id[:]...)
}

func TestDecodeBlob(t *testing.T) {
	obj, err := Decode([]byte("blob 5\x00hello"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, ok := obj.(*Blob)
	if !ok {
		t.Fatalf("Decode returned %T, want *Blob", obj)
	}
	if !bytes.Equal(b.Data, []byte("hello")) {
		t.Errorf("Data = %q, want %q", b.Data, "hello")
	}
	if obj.Type() != TypeBlob {
		t.Errorf("Type = %q", obj.Type())
	}
}

func TestDecodeBlobDoesNotAliasInput(t *testing.T) {
	raw := []byte("blob 3\x00abc")
	b, err := DecodeBlob(raw)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	raw[len(raw)-1] = 'Z'
	if string(b.Data) != "abc" {
		t.Errorf("blob data changed with input buffer: %q", b.Data)
	}
}

func TestDecodeEmptyBlob(t *testing.T) {
	b, err := DecodeBlob([]byte("blob 0\x00"))
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if b == nil || b.Data == nil || len(b.Data) != 0 {
		t.Errorf("empty blob = %#v, want non-nil empty data", b)
	}
}

func TestDecodeBlobKeepsBinaryAndDelimiters(t *testing.T) {
	body := []byte("a b\x00c\xff\x00")
	raw := Envelope(TypeBlob, body)
	b, err := DecodeBlob(raw)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if !bytes.Equal(b.Data, body) {
		t.Errorf("Data = %q, want %q", b.Data, body)
	}
}

func TestDecodeEmptyTree(t *testing.T) {
	tr, err := DecodeTree([]byte("tree 0\x00"))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if tr == nil || tr.Entries == nil || len(tr.Entries) != 0 {
		t.Errorf("empty tree = %#v, want non-nil empty entries", tr)
	}
}

func TestDecodeTreeSingleEntry(t *testing.T) {
	raw := append([]byte("tree 29\x00"), treeRecord("100644", "a", idA)...)
	tr, err := DecodeTree(raw)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	want := []Entry{{Mode: 0o100644, Kind: KindFlat, Name: "a", ID: idA}}
	if diff := cmp.Diff(want, tr.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTreeEntriesInOrder(t *testing.T) {
	var body []byte
	body = append(body, treeRecord("100644", "zeta.txt", idA)...)
	body = append(body, treeRecord("40000", "docs", idB)...)
	body = append(body, treeRecord("100755", "run.sh", idC)...)
	body = append(body, treeRecord("120000", "link", idA)...)
	body = append(body, treeRecord("160000", "vendor", idB)...)
	body = append(body, treeRecord("100644", "zeta.txt", idC)...)

	tr, err := DecodeTree(Envelope(TypeTree, body))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	want := []Entry{
		{Mode: ModeFile, Kind: KindFlat, Name: "zeta.txt", ID: idA},
		{Mode: ModeDir, Kind: KindDirectory, Name: "docs", ID: idB},
		{Mode: ModeExecutable, Kind: KindFlat, Name: "run.sh", ID: idC},
		{Mode: ModeSymlink, Kind: KindFlat, Name: "link", ID: idA},
		{Mode: ModeGitlink, Kind: KindFlat, Name: "vendor", ID: idB},
		{Mode: ModeFile, Kind: KindFlat, Name: "zeta.txt", ID: idC},
	}
	if diff := cmp.Diff(want, tr.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTreeIDContainingDelimiters(t *testing.T) {
	var id ID
	for i := range id {
		id[i] = []byte{' ', 0}[i%2]
	}
	body := treeRecord("100644", "f", id)
	body = append(body, treeRecord("40000", "d", id)...)

	tr, err := DecodeTree(Envelope(TypeTree, body))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if len(tr.Entries) != 2 || tr.Entries[0].ID != id || tr.Entries[1].ID != id {
		t.Fatalf("entries = %+v", tr.Entries)
	}
}

func TestDecodeTreeUnicodeAndEmptyName(t *testing.T) {
	body := treeRecord("100644", "naïve ☃.txt", idA)
	body = append(body, treeRecord("100644", "", idB)...)

	tr, err := DecodeTree(Envelope(TypeTree, body))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if tr.Entries[0].Name != "naïve ☃.txt" {
		t.Errorf("Name = %q", tr.Entries[0].Name)
	}
	if tr.Entries[1].Name != "" {
		t.Errorf("Name = %q, want empty", tr.Entries[1].Name)
	}
}

func TestDecodeTreeTruncatedID(t *testing.T) {
	body := append([]byte("100644 a.txt\x00"), idA[:12]...)
	_, err := Decode(Envelope(TypeTree, body))
	if !errors.Is(err, ErrIncompleteTreeEntry) {
		t.Fatalf("err = %v, want ErrIncompleteTreeEntry", err)
	}
	if !errors.Is(err, ErrInsufficientBytes) {
		t.Fatalf("err = %v, want ErrInsufficientBytes in chain", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, want *DecodeError", err)
	}
	if de.Field != "entry[0].id" || de.Offset != len("tree 25\x00") {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestDecodeTreeTruncatedAfterFirstEntry(t *testing.T) {
	body := treeRecord("100644", "ok", idA)
	body = append(body, "100644 partial"...)
	_, err := Decode(Envelope(TypeTree, body))
	if !errors.Is(err, ErrIncompleteTreeEntry) || !errors.Is(err, ErrDelimiterNotFound) {
		t.Fatalf("err = %v, want ErrIncompleteTreeEntry wrapping ErrDelimiterNotFound", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Field != "entry[1].name" {
		t.Fatalf("err = %v, want failure in entry[1].name", err)
	}
}

func TestDecodeTreeInvalidMode(t *testing.T) {
	for _, mode := range []string{"10064x", "100648", "", "-1", "77777777777"} {
		body := treeRecord(mode, "a", idA)
		_, err := Decode(Envelope(TypeTree, body))
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("mode %q: err = %v, want ErrInvalidMode", mode, err)
		}
		if !errors.Is(err, ErrIncompleteTreeEntry) {
			t.Errorf("mode %q: err = %v, want ErrIncompleteTreeEntry", mode, err)
		}
	}
}

func TestDecodeTreeInvalidName(t *testing.T) {
	body := treeRecord("100644", "bad\xffname", idA)
	_, err := Decode(Envelope(TypeTree, body))
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
	if !errors.Is(err, ErrInvalidText) {
		t.Fatalf("err = %v, want ErrInvalidText in chain", err)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte("commit 10\x000123456789"))
	if !errors.Is(err, ErrUnknownObjectType) {
		t.Fatalf("err = %v, want ErrUnknownObjectType", err)
	}
	var ute *UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %T, want *UnknownTypeError in chain", err)
	}
	if ute.Tag != "commit" {
		t.Errorf("Tag = %q, want %q", ute.Tag, "commit")
	}
}

func TestDecodeMalformedHeader(t *testing.T) {
	cases := map[string][]byte{
		"no space":      []byte("blob"),
		"no nul":        []byte("blob 5"),
		"empty size":    []byte("blob \x00"),
		"non-decimal":   []byte("blob 0x5\x00hello"),
		"signed":        []byte("blob +5\x00hello"),
		"negative":      []byte("blob -5\x00hello"),
		"overflow":      []byte("blob 99999999999999999999\x00"),
		"invalid utf-8": []byte("bl\xffb 1\x00x"),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			if !errors.Is(err, ErrMalformedHeader) {
				t.Fatalf("err = %v, want ErrMalformedHeader", err)
			}
		})
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte("blob 4\x00hello"),
		[]byte("blob 6\x00hello"),
		[]byte("tree 1\x00"),
	} {
		_, err := Decode(raw)
		if !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("Decode(%q) err = %v, want ErrSizeMismatch", raw, err)
		}
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	if _, err := DecodeTree([]byte("blob 0\x00")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("DecodeTree(blob) err = %v, want ErrTypeMismatch", err)
	}
	if _, err := DecodeBlob([]byte("tree 0\x00")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("DecodeBlob(tree) err = %v, want ErrTypeMismatch", err)
	}
}

func TestParseHeader(t *testing.T) {
	c := NewCursor([]byte("tree 123\x00rest"))
	hdr, err := ParseHeader(c)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	want := Header{Type: TypeTree, Size: 123, Len: 9}
	if hdr != want {
		t.Errorf("header = %+v, want %+v", hdr, want)
	}
	if string(c.Rest()) != "rest" {
		t.Error("cursor not positioned after header")
	}
}

func TestDecodeErrorMessageNamesField(t *testing.T) {
	_, err := Decode(Envelope(TypeTree, []byte("abc a\x00")))
	if err == nil {
		t.Fatal("Decode succeeded on bad mode")
	}
	if !strings.Contains(err.Error(), "entry[0].mode") {
		t.Errorf("error %q does not name the failing field", err)
	}
}

func TestDecodeTreeNeverPanicsOnTruncation(t *testing.T) {
	body := treeRecord("100644", "file.txt", idA)
	body = append(body, treeRecord("40000", "dir", idB)...)
	for n := 0; n < len(body); n++ {
		raw := Envelope(TypeTree, body[:n])
		tr, err := DecodeTree(raw)
		if n == 0 || n == len(treeRecord("100644", "file.txt", idA)) {
			if err != nil {
				t.Fatalf("prefix %d: unexpected error %v", n, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("prefix %d: decoded %d entries from a truncated body", n, len(tr.Entries))
		}
		if !errors.Is(err, ErrIncompleteTreeEntry) {
			t.Fatalf("prefix %d: err = %v, want ErrIncompleteTreeEntry", n, err)
		}
	}
}
