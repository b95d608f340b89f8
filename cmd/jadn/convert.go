package main

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/jsonschema"
	"github.com/reoring/jadn/markdown"
)

var writers = map[string]jadn.Writer{
	"json":       jadn.JSONWriter{},
	"yaml":       jadn.YAMLWriter{},
	"jsonschema": jsonschema.Writer{},
	"markdown":   markdown.Writer{},
}

func writerNames() []string {
	names := make([]string, 0, len(writers))
	for k := range writers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert -s SCHEMA --to FORMAT [-o FILE]",
		Short: "Convert a schema to another representation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := a.v.GetString("to")
			w, ok := writers[to]
			if !ok {
				return errors.Errorf("unknown output format %q, want one of %s", to, strings.Join(writerNames(), ", "))
			}
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			return a.emit(cmd, s, w)
		},
	}
	cmd.Flags().String("to", "json", "output format: "+strings.Join(writerNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("strip-comments", false, "drop descriptions")
	return cmd
}

// emit writes s with w to --output, or to stdout.
func (a *app) emit(cmd *cobra.Command, s *jadn.Schema, w jadn.Writer) error {
	level := jadn.CommentsAll
	if a.v.GetBool("strip-comments") {
		level = jadn.CommentsNone
	}
	path := a.v.GetString("output")
	if path == "" {
		return w.Write(cmd.OutOrStdout(), s, level)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := w.Write(f, s, level); err != nil {
		return err
	}
	a.log.WithField("output", path).Debug("written")
	return errors.Wrapf(f.Close(), "close %s", path)
}
