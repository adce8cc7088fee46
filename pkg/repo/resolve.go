package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/gitcat/pkg/object"
)

// MinAbbrevLen is the shortest hex prefix ResolveObject accepts.
const MinAbbrevLen = 4

// ErrAmbiguousObject is returned when an abbreviated id matches more than one
// loose object.
var ErrAmbiguousObject = errors.New("ambiguous object name")

// ResolveObject turns an object name into an identifier. Accepted forms:
//
//	3b18e512dba79e4c8300dd08aeb37f8e728b8dad   full id
//	3b18e5                                     unique prefix of a loose object
//	<tree>:<path>                              entry at path below a tree
//	<tree>:                                    the tree itself
func (r *Repo) ResolveObject(name string) (object.ID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return object.ZeroID, fmt.Errorf("resolve: empty object name")
	}

	if rev, relPath, ok := strings.Cut(name, ":"); ok {
		treeID, err := r.resolveID(rev)
		if err != nil {
			return object.ZeroID, err
		}
		if strings.Trim(relPath, "/") == "" {
			return treeID, nil
		}
		entry, found, err := r.EntryAtPath(treeID, relPath)
		if err != nil {
			return object.ZeroID, fmt.Errorf("resolve %q: %w", name, err)
		}
		if !found {
			return object.ZeroID, fmt.Errorf("resolve %q: path %q: %w", name, relPath, object.ErrObjectNotFound)
		}
		return entry.ID, nil
	}
	return r.resolveID(name)
}

func (r *Repo) resolveID(name string) (object.ID, error) {
	if len(name) == object.HexSize || len(name) < MinAbbrevLen || len(name) > object.HexSize {
		id, err := object.FromHex(name)
		if err != nil {
			return object.ZeroID, fmt.Errorf("resolve %q: %w", name, err)
		}
		return id, nil
	}

	prefix := strings.ToLower(name)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return object.ZeroID, fmt.Errorf("resolve %q: %w: %q at position %d", name, object.ErrInvalidHexDigit, c, i)
		}
	}

	ids, err := r.Store.ListLoose()
	if err != nil {
		return object.ZeroID, fmt.Errorf("resolve %q: %w", name, err)
	}
	var (
		match object.ID
		count int
	)
	for _, id := range ids {
		if strings.HasPrefix(id.String(), prefix) {
			match = id
			count++
		}
	}
	switch count {
	case 0:
		return object.ZeroID, fmt.Errorf("resolve %q: %w", name, object.ErrObjectNotFound)
	case 1:
		return match, nil
	}
	return object.ZeroID, fmt.Errorf("resolve %q: %w (%d candidates)", name, ErrAmbiguousObject, count)
}
