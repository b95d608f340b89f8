package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/jadn"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate -s SCHEMA [-t TYPE] FILE...",
		Short: "Validate JSON instances against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			opt := jadn.ValidateOpt{FailFast: a.v.GetBool("fail-fast")}
			if a.v.GetBool("all") {
				opt.Report = jadn.ReportAll
			}
			typ := a.v.GetString("type")
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return errors.Wrapf(err, "read instance %s", path)
				}
				inst, err := jadn.DecodeInstance(data)
				if err != nil {
					return errors.WithMessage(err, path)
				}
				if typ != "" {
					err = s.ValidateAs(cmd.Context(), inst, typ, opt)
				} else {
					err = s.Validate(cmd.Context(), inst, opt)
				}
				iss, ok := jadn.AsIssues(err)
				switch {
				case err == nil:
					fmt.Fprintf(out, "%s: ok\n", path)
				case ok:
					failed++
					for _, it := range iss {
						fmt.Fprintf(out, "%s: %s at %s: %s\n", path, it.Code, it.Path, it.Message)
					}
				default:
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d instances invalid", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "exported type to validate against (default: try every export)")
	cmd.Flags().Bool("fail-fast", false, "stop at the first issue")
	cmd.Flags().Bool("all", false, "report issues for every export when none matches")
	return cmd
}
