package jsonschema

import (
	"io"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/reoring/jadn"
)

// Generate translates a JADN schema into a JSON Schema document. The schema
// is fully simplified first so that every definition maps onto one $defs
// entry. Exported types (every type when nothing is exported) become the
// root oneOf.
func Generate(s *jadn.Schema) (*Schema, error) {
	simple, err := s.Simplify(jadn.PassAll)
	if err != nil {
		return nil, errors.Wrap(err, "simplify")
	}
	g := &generator{limits: simple.Limits()}
	root := &Schema{
		SchemaURI:   Draft,
		ID:          simple.Info.Package,
		Title:       simple.Info.Title,
		Description: simple.Info.Description,
		Defs:        map[string]*Schema{},
	}
	roots := simple.Info.Exports
	for _, d := range simple.Types() {
		root.Defs[d.Name] = g.definition(d)
		if len(simple.Info.Exports) == 0 {
			roots = append(roots, d.Name)
		}
	}
	for _, name := range roots {
		root.OneOf = append(root.OneOf, ref(name))
	}
	return root, nil
}

// Writer renders schemas as indented JSON Schema.
type Writer struct{}

func (Writer) Write(w io.Writer, s *jadn.Schema, level jadn.CommentLevel) error {
	out, err := Generate(s)
	if err != nil {
		return err
	}
	if level == jadn.CommentsNone {
		out.stripDescriptions()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode json schema")
	}
	_, err = w.Write(append(data, '\n'))
	return errors.Wrap(err, "write json schema")
}

var _ jadn.Writer = Writer{}

type generator struct {
	limits jadn.Limits
}

func ref(name string) *Schema { return &Schema{Ref: "#/$defs/" + name} }

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

// sizeBounds maps minv/maxv onto count keywords; maxv 0 falls back to def.
func sizeBounds(o jadn.Options, def int) (lo, hi *int) {
	if o.MinV != nil && *o.MinV > 0 {
		lo = intp(*o.MinV)
	}
	switch {
	case o.MaxV != nil && *o.MaxV != 0:
		hi = intp(*o.MaxV)
	case def > 0:
		hi = intp(def)
	}
	return lo, hi
}

func (g *generator) definition(d *jadn.Definition) *Schema {
	out := g.base(d.BaseType, d.Options)
	out.Description = d.Description
	switch d.BaseType {
	case jadn.Array:
		if d.Options.Format != "" {
			break
		}
		out.MinItems, out.MaxItems = sizeBounds(d.Options, 0)
		required := 0
		for i, f := range d.Fields {
			out.PrefixItems = append(out.PrefixItems, g.field(f))
			if !f.IsOptional() {
				required = i + 1
			}
		}
		if out.MinItems == nil && required > 0 {
			out.MinItems = intp(required)
		}
		if !d.Options.Extend && out.MaxItems == nil {
			out.MaxItems = intp(len(d.Fields))
		}
	case jadn.ArrayOf:
		out.Items = g.typeRef(d.Options.VType)
		out.MinItems, out.MaxItems = sizeBounds(d.Options, g.limits.MaxElements)
		out.UniqueItems = d.Options.Unique || d.Options.Set
	case jadn.Choice:
		out.Properties = map[string]*Schema{}
		for _, f := range d.Fields {
			out.Properties[key(d, f)] = g.field(f)
		}
		out.MinProperties, out.MaxProperties = intp(1), intp(1)
		out.AdditionalProperties = false
	case jadn.Enumerated:
		for _, it := range d.Items {
			if d.Options.ID {
				out.Enum = append(out.Enum, it.ID)
			} else {
				out.Enum = append(out.Enum, it.WireValue())
				if it.IntValue {
					out.Type = ""
				}
			}
		}
	case jadn.Map, jadn.Record:
		out.Properties = map[string]*Schema{}
		for _, f := range d.Fields {
			k := key(d, f)
			out.Properties[k] = g.field(f)
			if !f.IsOptional() {
				out.Required = append(out.Required, k)
			}
		}
		sort.Strings(out.Required)
		if !d.Options.Extend {
			out.AdditionalProperties = false
		}
		out.MinProperties, out.MaxProperties = sizeBounds(d.Options, 0)
	case jadn.MapOf:
		out.PropertyNames = g.typeRef(d.Options.KType)
		out.AdditionalProperties = g.typeRef(d.Options.VType)
		out.MinProperties, out.MaxProperties = sizeBounds(d.Options, g.limits.MaxElements)
	}
	return out
}

// base returns the keywords implied by a base type and its type options.
func (g *generator) base(b jadn.BaseType, o jadn.Options) *Schema {
	out := &Schema{}
	if o.Default != nil {
		out.Default = *o.Default
	}
	switch b {
	case jadn.Binary:
		out.Type = "string"
		switch o.Format {
		case "x", "X":
			out.ContentEncoding = "base16"
		case "", "b":
			out.ContentEncoding = "base64url"
		default:
			out.Format = o.Format
		}
	case jadn.Boolean:
		out.Type = "boolean"
	case jadn.Integer:
		out.Type = "integer"
		out.Format = o.Format
		if o.MinV != nil {
			out.Minimum = floatp(float64(*o.MinV))
		}
		if o.MaxV != nil {
			out.Maximum = floatp(float64(*o.MaxV))
		}
	case jadn.Number:
		out.Type = "number"
		out.Format = o.Format
		out.Minimum, out.Maximum = o.MinF, o.MaxF
	case jadn.String:
		out.Type = "string"
		out.Format = o.Format
		out.Pattern = o.Pattern
		def := g.limits.MaxString
		if o.Format != "" {
			def = 0
		}
		out.MinLength, out.MaxLength = sizeBounds(o, def)
	case jadn.Array, jadn.ArrayOf:
		out.Type = "array"
		if b == jadn.Array {
			out.Format = o.Format
		}
	case jadn.Choice, jadn.Map, jadn.MapOf, jadn.Record:
		out.Type = "object"
	case jadn.Enumerated:
		out.Type = "string"
		if o.ID {
			out.Type = "integer"
		}
	}
	return out
}

// typeRef points at a $defs entry, or inlines a bare builtin.
func (g *generator) typeRef(name string) *Schema {
	if b, ok := jadn.ParseBaseType(name); ok {
		return g.base(b, jadn.Options{})
	}
	return ref(name)
}

func (g *generator) field(f jadn.Field) *Schema {
	out := g.typeRef(f.Type)
	out.Description = f.Description
	return out
}

func key(d *jadn.Definition, f jadn.Field) string {
	if d.Options.ID {
		return strconv.Itoa(f.ID)
	}
	return f.Name
}
