package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitcat/pkg/object"
)

// EntryAtPath follows relPath (slash separated) from treeID and returns the
// entry at its end. The final component may name a file or a directory.
func (r *Repo) EntryAtPath(treeID object.ID, relPath string) (object.Entry, bool, error) {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" {
		return object.Entry{}, false, fmt.Errorf("entry at path: empty path")
	}
	parts := strings.Split(relPath, "/")
	current := treeID

	for i, part := range parts {
		tr, err := r.Store.ReadTree(current)
		if err != nil {
			return object.Entry{}, false, fmt.Errorf("read tree %s: %w", current, err)
		}

		var (
			entry object.Entry
			found bool
		)
		for _, te := range tr.Entries {
			if te.Name == part {
				entry = te
				found = true
				break
			}
		}
		if !found {
			return object.Entry{}, false, nil
		}

		if i == len(parts)-1 {
			return entry, true, nil
		}
		if !entry.IsDir() {
			return object.Entry{}, false, nil
		}
		current = entry.ID
	}

	return object.Entry{}, false, nil
}
