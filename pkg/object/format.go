package object

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// FormatEntry renders an entry the way ls-tree does:
//
//	100644 blob 3b18e512dba79e4c8300dd08aeb37f8e728b8dad	hello.txt
func FormatEntry(e Entry) string {
	return fmt.Sprintf("%06o %s %s\t%s", e.Mode, e.Kind, e.ID, e.Name)
}

// WriteTree writes one line per entry to w, or only entry names when
// nameOnly is set.
func WriteTree(w io.Writer, tr *Tree, nameOnly bool) error {
	for _, e := range tr.Entries {
		line := FormatEntry(e)
		if nameOnly {
			line = e.Name
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteObject writes the payload of obj: raw bytes for a blob, an ls-tree
// style listing for a tree.
func WriteObject(w io.Writer, obj Object) error {
	switch o := obj.(type) {
	case *Blob:
		_, err := w.Write(o.Data)
		return err
	case *Tree:
		return WriteTree(w, o, false)
	}
	return fmt.Errorf("write object: unsupported type %T", obj)
}

// Preview summarizes obj on one line. Blobs show at most n bytes, as a
// quoted string when they are valid UTF-8 and as a byte list otherwise.
func Preview(obj Object, n int) string {
	switch o := obj.(type) {
	case *Blob:
		data := o.Data
		truncated := false
		if n >= 0 && len(data) > n {
			data = data[:n]
			truncated = true
		}
		var s string
		if utf8.Valid(data) {
			s = fmt.Sprintf("%q", data)
		} else {
			s = fmt.Sprintf("%v", data)
		}
		if truncated {
			s += "…"
		}
		return fmt.Sprintf("Blob(%s)", s)
	case *Tree:
		return fmt.Sprintf("Tree(%d entries)", len(o.Entries))
	}
	return fmt.Sprintf("%T", obj)
}
