package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze -s SCHEMA",
		Short: "Report unreferenced, undefined and recursive types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			an := s.Analyze()
			cycles := make([]string, 0, len(an.Cycles))
			for _, c := range an.Cycles {
				cycles = append(cycles, strings.Join(c, " <-> "))
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"check", "types"})
			table.SetAutoWrapText(false)
			table.Append([]string{"exports", strings.Join(an.Exports, ", ")})
			table.Append([]string{"unreferenced", strings.Join(an.Unreferenced, ", ")})
			table.Append([]string{"undefined", strings.Join(an.Undefined, ", ")})
			table.Append([]string{"cycles", strings.Join(cycles, "; ")})
			table.Render()
			if len(an.Undefined) > 0 {
				return fmt.Errorf("%d undefined types", len(an.Undefined))
			}
			return nil
		},
	}
	return cmd
}
