package jadn

import (
	"sort"
	"strconv"

	"github.com/reoring/jadn/format"
)

// Definition is a named type declaration.
type Definition struct {
	Name        string
	BaseType    BaseType
	Options     Options
	Description string
	Fields      []Field     // Array, Choice, Map, Record
	Items       []EnumField // Enumerated
}

// Variant returns the structural variant of the definition.
func (d *Definition) Variant() Variant { return d.BaseType.Variant() }

// Clone returns a deep copy that shares no slices with d.
func (d *Definition) Clone() *Definition {
	out := *d
	out.Fields = cloneFields(d.Fields)
	out.Items = cloneItems(d.Items)
	return &out
}

// Field returns the field with the given name.
func (d *Definition) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// isDerivedEnum reports whether the members come from another type.
func (d *Definition) isDerivedEnum() bool {
	return d.BaseType == Enumerated && (d.Options.Enum != "" || d.Options.Pointer != "")
}

// Verify checks the structural invariants of the definition: field shape,
// ordinal ids, uniqueness, naming and options. synthetic skips the type name
// pattern, which does not apply to generated names.
func (d *Definition) Verify(limits Limits, formats *format.Registry, synthetic bool) []error {
	var errs []error
	if !synthetic && limits.TypeName != nil && !limits.TypeName.MatchString(d.Name) {
		errs = append(errs, formatErrorf(d.Name, "", "type name does not match %s", limits.TypeName))
	}
	if IsBaseType(d.Name) {
		errs = append(errs, formatErrorf(d.Name, "", "type name is reserved"))
	}
	errs = append(errs, d.Options.Verify(d.BaseType, d.Name, false, formats)...)

	switch {
	case d.BaseType.HasFields():
		if len(d.Items) > 0 {
			errs = append(errs, formatErrorf(d.Name, "", "%s declares enumerated items", d.BaseType))
		}
		if len(d.Fields) == 0 {
			errs = append(errs, formatErrorf(d.Name, "", "%s requires fields", d.BaseType))
		}
		errs = append(errs, d.verifyFields(limits, formats, synthetic)...)
	case d.BaseType == Enumerated:
		if len(d.Fields) > 0 {
			errs = append(errs, formatErrorf(d.Name, "", "Enumerated declares general fields"))
		}
		switch {
		case d.isDerivedEnum() && len(d.Items) > 0:
			errs = append(errs, formatErrorf(d.Name, "", "derived Enumerated must not declare items"))
		case !d.isDerivedEnum() && len(d.Items) == 0:
			errs = append(errs, formatErrorf(d.Name, "", "Enumerated requires items"))
		}
		errs = append(errs, d.verifyItems()...)
	default:
		if len(d.Fields) > 0 || len(d.Items) > 0 {
			errs = append(errs, formatErrorf(d.Name, "", "%s must not declare fields", d.BaseType))
		}
	}
	return errs
}

func (d *Definition) verifyFields(limits Limits, formats *format.Registry, synthetic bool) []error {
	var errs []error
	ids := map[int]bool{}
	names := map[string]bool{}
	ordinal := d.BaseType == Array || d.BaseType == Record
	for i, f := range d.Fields {
		if f.ID <= 0 {
			errs = append(errs, formatErrorf(d.Name, f.Name, "field id %d must be positive", f.ID))
		}
		if ordinal && f.ID != i+1 {
			errs = append(errs, formatErrorf(d.Name, f.Name, "field id %d must be %d", f.ID, i+1))
		}
		if ids[f.ID] {
			errs = append(errs, duplicateErrorf(d.Name, f.Name, "field id %d repeated", f.ID))
		}
		ids[f.ID] = true
		if d.BaseType != Array {
			if names[f.Name] {
				errs = append(errs, duplicateErrorf(d.Name, f.Name, "field name repeated"))
			}
			names[f.Name] = true
		}
		if !synthetic && limits.FieldName != nil && !limits.FieldName.MatchString(f.Name) {
			errs = append(errs, formatErrorf(d.Name, f.Name, "field name does not match %s", limits.FieldName))
		}
		if f.Type == "" {
			errs = append(errs, formatErrorf(d.Name, f.Name, "field has no type"))
		}
		var base BaseType
		if b, ok := ParseBaseType(f.Type); ok {
			base = b
		}
		errs = append(errs, f.Options.Verify(base, d.Name+"."+f.Name, true, formats)...)
		if f.Options.TagID != nil {
			if _, ok := d.fieldByID(*f.Options.TagID); !ok {
				errs = append(errs, optionErrorf(d.Name, f.Name, "tagid %d names no field", *f.Options.TagID))
			}
		}
	}
	return errs
}

func (d *Definition) verifyItems() []error {
	var errs []error
	ids := map[int]bool{}
	values := map[string]bool{}
	for _, it := range d.Items {
		if ids[it.ID] {
			errs = append(errs, duplicateErrorf(d.Name, it.Value, "item id %d repeated", it.ID))
		}
		ids[it.ID] = true
		if values[it.Value] {
			errs = append(errs, duplicateErrorf(d.Name, it.Value, "item value repeated"))
		}
		values[it.Value] = true
	}
	return errs
}

func (d *Definition) fieldByID(id int) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].ID == id {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// fieldByKey resolves an instance key to a field, by id when the id option
// is set and by name otherwise.
func (d *Definition) fieldByKey(key string) (*Field, bool) {
	if d.Options.ID {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		return d.fieldByID(id)
	}
	return d.Field(key)
}

// fieldKey is the instance key of a field under the id option.
func (d *Definition) fieldKey(f *Field) string {
	if d.Options.ID {
		return strconv.Itoa(f.ID)
	}
	return f.Name
}

type typeRef struct {
	ref    string
	derive bool // target of an enum or pointer option
}

func (d *Definition) typeRefs() []typeRef {
	var refs []typeRef
	addOpts := func(o Options) {
		for _, r := range []typeRef{{o.KType, false}, {o.VType, false}, {o.Enum, true}, {o.Pointer, true}} {
			if r.ref != "" {
				refs = append(refs, r)
			}
		}
	}
	addOpts(d.Options)
	for _, f := range d.Fields {
		if f.Type != "" {
			refs = append(refs, typeRef{ref: f.Type})
		}
		addOpts(f.Options)
	}
	return refs
}

// References returns every type reference made by the definition, markers
// included, in declaration order.
func (d *Definition) References() []string {
	refs := d.typeRefs()
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ref
	}
	return out
}

// Dependencies returns the sorted set of type names the definition refers
// to, excluding builtins and itself. Derived markers are stripped.
func (d *Definition) Dependencies() []string {
	seen := map[string]bool{}
	for _, ref := range d.References() {
		name, _ := splitRef(ref)
		if name == d.Name || IsBaseType(name) {
			continue
		}
		seen[name] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
