package jadn

import "strings"

// BaseType is the JADN base type name of a Definition.
type BaseType string

const (
	Binary     BaseType = "Binary"
	Boolean    BaseType = "Boolean"
	Integer    BaseType = "Integer"
	Number     BaseType = "Number"
	String     BaseType = "String"
	Array      BaseType = "Array"
	ArrayOf    BaseType = "ArrayOf"
	Choice     BaseType = "Choice"
	Enumerated BaseType = "Enumerated"
	Map        BaseType = "Map"
	MapOf      BaseType = "MapOf"
	Record     BaseType = "Record"
)

// BaseTypes lists every base type in declaration order.
var BaseTypes = []BaseType{Binary, Boolean, Integer, Number, String, Array, ArrayOf, Choice, Enumerated, Map, MapOf, Record}

// ParseBaseType maps a wire name onto a BaseType.
func ParseBaseType(s string) (BaseType, bool) {
	for _, b := range BaseTypes {
		if string(b) == s {
			return b, true
		}
	}
	return "", false
}

// IsBaseType reports whether name is a builtin base type name.
func IsBaseType(name string) bool {
	_, ok := ParseBaseType(name)
	return ok
}

// IsPrimitive reports whether b is one of the primitive base types.
func (b BaseType) IsPrimitive() bool {
	switch b {
	case Binary, Boolean, Integer, Number, String:
		return true
	}
	return false
}

// HasFields reports whether definitions of this base type carry general fields.
func (b BaseType) HasFields() bool {
	switch b {
	case Array, Choice, Map, Record:
		return true
	}
	return false
}

// Variant is the closed set of structural kinds a Definition may take.
type Variant int

const (
	VariantCustom Variant = iota
	VariantArray
	VariantArrayOf
	VariantChoice
	VariantEnumerated
	VariantMap
	VariantMapOf
	VariantRecord
)

func (v Variant) String() string {
	switch v {
	case VariantArray:
		return "Array"
	case VariantArrayOf:
		return "ArrayOf"
	case VariantChoice:
		return "Choice"
	case VariantEnumerated:
		return "Enumerated"
	case VariantMap:
		return "Map"
	case VariantMapOf:
		return "MapOf"
	case VariantRecord:
		return "Record"
	}
	return "Custom"
}

// Variant returns the structural variant of the base type.
func (b BaseType) Variant() Variant {
	switch b {
	case Array:
		return VariantArray
	case ArrayOf:
		return VariantArrayOf
	case Choice:
		return VariantChoice
	case Enumerated:
		return VariantEnumerated
	case Map:
		return VariantMap
	case MapOf:
		return VariantMapOf
	case Record:
		return VariantRecord
	}
	return VariantCustom
}

// Type reference markers used in ktype/vtype options.
const (
	markerEnum    = "$"
	markerPointer = ">"
)

// splitRef strips a derived-enumeration or pointer marker from a type reference.
func splitRef(ref string) (name string, marker string) {
	switch {
	case strings.HasPrefix(ref, markerEnum):
		return ref[len(markerEnum):], markerEnum
	case strings.HasPrefix(ref, markerPointer):
		return ref[len(markerPointer):], markerPointer
	}
	return ref, ""
}

// isExternal reports whether a reference points into an imported namespace.
func isExternal(ref string) bool { return strings.Contains(ref, ":") }
