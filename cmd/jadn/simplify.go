package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/jadn"
)

func newSimplifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplify -s SCHEMA [--passes LIST] [-o FILE]",
		Short: "Apply normalization passes to a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			passes, err := jadn.ParsePasses(strings.Split(a.v.GetString("passes"), ","))
			if err != nil {
				return err
			}
			out, err := s.Simplify(passes)
			if err != nil {
				return err
			}
			return a.emit(cmd, out, jadn.JSONWriter{})
		},
	}
	cmd.Flags().String("passes", "all", "comma-separated passes: multiplicity, anonymous, derived, mapof, all")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("strip-comments", false, "drop descriptions")
	return cmd
}
