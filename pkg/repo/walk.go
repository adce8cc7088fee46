package repo

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/odvcencio/gitcat/pkg/object"
)

// SkipDir can be returned by a WalkFunc. For a directory entry the walk does
// not descend into it; for any other entry the rest of the containing tree is
// skipped.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for each entry with its slash-separated path relative to
// the walk root.
type WalkFunc func(p string, e object.Entry) error

type walkFrame struct {
	prefix  string
	entries []object.Entry
	next    int
}

// Walk visits every entry reachable from treeID depth-first, in on-disk order,
// calling fn before descending into a subtree. Each subtree is read with its
// own decode; the walk keeps an explicit stack rather than recursing.
func (r *Repo) Walk(ctx context.Context, treeID object.ID, fn WalkFunc) error {
	root, err := r.Store.ReadTree(treeID)
	if err != nil {
		return fmt.Errorf("walk: read tree %s: %w", treeID, err)
	}

	stack := []walkFrame{{entries: root.Entries}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top.entries[top.next]
		top.next++
		p := path.Join(top.prefix, e.Name)

		if err := fn(p, e); err != nil {
			if !errors.Is(err, SkipDir) {
				return err
			}
			if !e.IsDir() {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if !e.IsDir() {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		sub, err := r.Store.ReadTree(e.ID)
		if err != nil {
			return fmt.Errorf("walk: read tree %s (%s): %w", e.ID, p, err)
		}
		stack = append(stack, walkFrame{prefix: p, entries: sub.Entries})
	}
	return nil
}

// TreeFileEntry is a non-directory entry of a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode uint32
	ID   object.ID
}

// FlattenTree returns every non-directory entry under treeID with its full
// path.
func (r *Repo) FlattenTree(ctx context.Context, treeID object.ID) ([]TreeFileEntry, error) {
	var result []TreeFileEntry
	err := r.Walk(ctx, treeID, func(p string, e object.Entry) error {
		if !e.IsDir() {
			result = append(result, TreeFileEntry{Path: p, Mode: e.Mode, ID: e.ID})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("flatten tree: %w", err)
	}
	return result, nil
}
