package main

import (
	"fmt"

	"github.com/odvcencio/gitcat/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd(g *globalOptions) *cobra.Command {
	var (
		showType bool
		showSize bool
		pretty   bool
		preview  bool
	)

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p | --preview) <object>",
		Short: "Show the type, size or content of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			id, err := r.ResolveObject(args[0])
			if err != nil {
				return fmt.Errorf("cat-file: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case showType, showSize:
				hdr, err := r.Store.ReadHeader(id)
				if err != nil {
					return fmt.Errorf("cat-file: %w", err)
				}
				if showType {
					fmt.Fprintln(out, hdr.Type)
				} else {
					fmt.Fprintln(out, hdr.Size)
				}
				return nil
			}

			obj, err := r.Store.Read(id)
			if err != nil {
				return fmt.Errorf("cat-file: %w", err)
			}
			if preview {
				fmt.Fprintln(out, object.Preview(obj, g.settings().PreviewBytes))
				return nil
			}
			return object.WriteObject(out, obj)
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "show the object size")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVar(&preview, "preview", false, "print a one-line summary of the object")
	cmd.MarkFlagsMutuallyExclusive("type", "size", "pretty", "preview")
	cmd.MarkFlagsOneRequired("type", "size", "pretty", "preview")
	return cmd
}
