// Package markdown renders JADN schemas as Markdown property tables.
package markdown

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/reoring/jadn"
)

// Writer renders schemas as Markdown.
type Writer struct{}

func (Writer) Write(w io.Writer, s *jadn.Schema, level jadn.CommentLevel) error {
	return Write(w, s, level)
}

var _ jadn.Writer = Writer{}

// Write renders the schema metadata followed by one section per type.
// Compound types get a field table (ID, Name, Type, #, Description) and
// Enumerated types an item table. CommentsNone drops descriptions.
func Write(w io.Writer, s *jadn.Schema, level jadn.CommentLevel) error {
	bw := bufio.NewWriter(w)
	comments := level != jadn.CommentsNone

	fmt.Fprintf(bw, "## Schema\n\n")
	meta := [][]string{}
	add := func(k, v string) {
		if v != "" {
			meta = append(meta, []string{k, v})
		}
	}
	add("package", s.Info.Package)
	add("version", s.Info.Version)
	add("title", s.Info.Title)
	if comments {
		add("description", s.Info.Description)
	}
	add("exports", strings.Join(s.Info.Exports, ", "))
	if len(meta) > 0 {
		render(bw, []string{"Key", "Value"}, meta)
		bw.WriteString("\n")
	}

	for _, d := range s.Types() {
		fmt.Fprintf(bw, "**_Type: %s (%s)_**\n\n", d.Name, typeString(string(d.BaseType), d.Options))
		if comments && d.Description != "" {
			fmt.Fprintf(bw, "%s\n\n", d.Description)
		}
		switch {
		case d.BaseType == jadn.Enumerated && len(d.Items) > 0:
			header := []string{"ID", "Item"}
			if comments {
				header = append(header, "Description")
			}
			rows := make([][]string, 0, len(d.Items))
			for _, it := range d.Items {
				row := []string{strconv.Itoa(it.ID), it.Value}
				if comments {
					row = append(row, it.Description)
				}
				rows = append(rows, row)
			}
			render(bw, header, rows)
			bw.WriteString("\n")
		case d.BaseType.HasFields():
			header := []string{"ID", "Name", "Type", "#"}
			if comments {
				header = append(header, "Description")
			}
			rows := make([][]string, 0, len(d.Fields))
			for _, f := range d.Fields {
				row := []string{strconv.Itoa(f.ID), f.Name, fieldType(f), f.Multiplicity("1")}
				if comments {
					row = append(row, f.Description)
				}
				rows = append(rows, row)
			}
			render(bw, header, rows)
			bw.WriteString("\n")
		}
	}
	return errors.Wrap(bw.Flush(), "write markdown")
}

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// typeString renders a type with its type options in wire notation, for
// example "String /email" or "ArrayOf *Item {1".
func typeString(base string, o jadn.Options) string {
	enc := o.Encode()
	if len(enc) == 0 {
		return base
	}
	return base + " " + strings.Join(enc, " ")
}

func fieldType(f jadn.Field) string {
	_, typ := f.Options.Split()
	out := typeString(f.Type, typ)
	if f.Options.Key {
		out += " key"
	}
	if f.Options.Link {
		out += " link"
	}
	return out
}
