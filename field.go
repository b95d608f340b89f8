package jadn

// Field is one member of an Array, Choice, Map or Record definition.
type Field struct {
	ID          int
	Name        string
	Type        string
	Options     Options
	Description string
}

// EnumField is one member of an Enumerated definition.
type EnumField struct {
	ID          int
	Value       string
	Description string
	// IntValue marks an item whose wire value is an integer.
	IntValue bool
}

// Multiplicity renders the field cardinality ("1", "0..1", "1..*", ...).
func (f Field) Multiplicity(suppress ...string) string {
	return f.Options.Multiplicity(1, 1, true, suppress...)
}

// IsOptional reports whether the field may be absent.
func (f Field) IsOptional() bool { return f.Options.MinCount() == 0 }

// wrapperName is the derived-cache key of the anonymous Definition a field
// resolves to when its type is a builtin.
func (f Field) wrapperName(owner, sys string) string {
	_, typ := f.Options.Split()
	if f.Options.IsMultiple() {
		typ.Unique, typ.Set, typ.Unordered = false, false, false
	}
	if typ.IsEmpty() {
		return "_" + f.Type
	}
	return "_" + owner + sys + f.Name
}

func cloneFields(fs []Field) []Field {
	if fs == nil {
		return nil
	}
	out := make([]Field, len(fs))
	copy(out, fs)
	return out
}

func cloneItems(items []EnumField) []EnumField {
	if items == nil {
		return nil
	}
	out := make([]EnumField, len(items))
	copy(out, items)
	return out
}
