package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/gitcat/pkg/object"
	"github.com/odvcencio/gitcat/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd(g *globalOptions) *cobra.Command {
	var (
		recursive bool
		nameOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "ls-tree [-r] [--name-only] <tree-ish> [path]",
		Short: "List the contents of a tree object",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			treeID, err := r.ResolveObject(args[0])
			if err != nil {
				return fmt.Errorf("ls-tree: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				if recursive {
					return lsTreeWalk(cmd, r, treeID, plainWriter{w: out}, nameOnly)
				}
				tr, err := r.Store.ReadTree(treeID)
				if err != nil {
					return fmt.Errorf("ls-tree: %w", err)
				}
				return object.WriteTree(out, tr, nameOnly)
			}

			relPath := strings.Trim(args[1], "/")
			entry, found, err := r.EntryAtPath(treeID, relPath)
			if err != nil {
				return fmt.Errorf("ls-tree: %w", err)
			}
			if !found {
				return nil
			}
			if recursive && entry.IsDir() {
				return lsTreeWalk(cmd, r, entry.ID, &prefixWriter{w: out, prefix: relPath}, nameOnly)
			}
			entry.Name = relPath
			return printEntry(out, entry, nameOnly)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	return cmd
}

func lsTreeWalk(cmd *cobra.Command, r *repo.Repo, treeID object.ID, out entryWriter, nameOnly bool) error {
	err := r.Walk(cmd.Context(), treeID, func(p string, e object.Entry) error {
		if e.IsDir() {
			return nil
		}
		e.Name = p
		return out.writeEntry(e, nameOnly)
	})
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	return nil
}

type entryWriter interface {
	writeEntry(e object.Entry, nameOnly bool) error
}

type plainWriter struct{ w io.Writer }

func (p plainWriter) writeEntry(e object.Entry, nameOnly bool) error {
	return printEntry(p.w, e, nameOnly)
}

// prefixWriter prints entries found below a path argument with that path
// prepended.
type prefixWriter struct {
	w      io.Writer
	prefix string
}

func (p *prefixWriter) writeEntry(e object.Entry, nameOnly bool) error {
	e.Name = p.prefix + "/" + e.Name
	return printEntry(p.w, e, nameOnly)
}

func printEntry(w io.Writer, e object.Entry, nameOnly bool) error {
	line := object.FormatEntry(e)
	if nameOnly {
		line = e.Name
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
