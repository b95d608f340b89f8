package jadn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/jadn/format"
)

// Options holds the constraints attached to a Definition or Field. Absent
// options are nil pointers, empty strings or false.
type Options struct {
	// Field options
	MinC  *int
	MaxC  *int
	TagID *int
	Dir   bool
	Key   bool
	Link  bool

	// Type options
	ID        bool
	KType     string
	VType     string
	Enum      string
	Pointer   string
	Format    string
	Pattern   string
	MinF      *float64
	MaxF      *float64
	MinV      *int
	MaxV      *int
	Unique    bool
	Set       bool
	Unordered bool
	Extend    bool
	Default   *string
}

type valueKind int

const (
	kindBool valueKind = iota
	kindInt
	kindFloat
	kindString
)

type optionDef struct {
	tag   byte
	name  string
	kind  valueKind
	field bool
}

// optionTable is the codec table; its order is the canonical encode order.
var optionTable = []optionDef{
	{'=', "id", kindBool, false},
	{'*', "vtype", kindString, false},
	{'+', "ktype", kindString, false},
	{'#', "enum", kindString, false},
	{'>', "pointer", kindString, false},
	{'/', "format", kindString, false},
	{'%', "pattern", kindString, false},
	{'y', "minf", kindFloat, false},
	{'z', "maxf", kindFloat, false},
	{'{', "minv", kindInt, false},
	{'}', "maxv", kindInt, false},
	{'q', "unique", kindBool, false},
	{'s', "set", kindBool, false},
	{'b', "unordered", kindBool, false},
	{'X', "extend", kindBool, false},
	{'!', "default", kindString, false},
	{'[', "minc", kindInt, true},
	{']', "maxc", kindInt, true},
	{'&', "tagid", kindInt, true},
	{'<', "dir", kindBool, true},
	{'K', "key", kindBool, true},
	{'L', "link", kindBool, true},
}

var (
	optionByTag  = map[byte]optionDef{}
	optionByName = map[string]optionDef{}
)

func init() {
	for _, o := range optionTable {
		optionByTag[o.tag] = o
		optionByName[o.name] = o
	}
}

// IsFieldOption reports whether name is a field-scoped option.
func IsFieldOption(name string) bool { return optionByName[name].field }

// OptionTag returns the single-character wire tag of a named option.
func OptionTag(name string) (byte, bool) {
	o, ok := optionByName[name]
	return o.tag, ok
}

// DecodeOptions parses wire option strings into Options.
func DecodeOptions(tags []string) (Options, error) {
	var o Options
	seen := map[byte]bool{}
	for _, s := range tags {
		if s == "" {
			return Options{}, optionErrorf("", "", "empty option string")
		}
		def, ok := optionByTag[s[0]]
		if !ok {
			return Options{}, optionErrorf("", "", "unknown option tag %q in %q", string(s[0]), s)
		}
		if seen[def.tag] {
			return Options{}, duplicateErrorf("", "", "option %s repeated", def.name)
		}
		seen[def.tag] = true
		if err := o.set(def, s[1:]); err != nil {
			return Options{}, err
		}
	}
	return o, nil
}

// Encode renders options in canonical order.
func (o Options) Encode() []string {
	out := []string{}
	for _, def := range optionTable {
		if v, ok := o.get(def.name); ok {
			out = append(out, string(def.tag)+v)
		}
	}
	return out
}

// Names lists the options present, in canonical order.
func (o Options) Names() []string {
	var out []string
	for _, def := range optionTable {
		if _, ok := o.get(def.name); ok {
			out = append(out, def.name)
		}
	}
	return out
}

// Has reports whether the named option is present.
func (o Options) Has(name string) bool {
	_, ok := o.get(name)
	return ok
}

// IsEmpty reports whether no option is present.
func (o Options) IsEmpty() bool { return len(o.Names()) == 0 }

// Split partitions options into field-scoped and type-scoped sets.
func (o Options) Split() (field, typ Options) {
	field = Options{MinC: o.MinC, MaxC: o.MaxC, TagID: o.TagID, Dir: o.Dir, Key: o.Key, Link: o.Link}
	typ = o
	typ.MinC, typ.MaxC, typ.TagID = nil, nil, nil
	typ.Dir, typ.Key, typ.Link = false, false, false
	return field, typ
}

// Merge overlays the options present in other onto o.
func (o Options) Merge(other Options) Options {
	for _, name := range other.Names() {
		v, _ := other.get(name)
		_ = o.set(optionByName[name], v)
	}
	return o
}

func (o *Options) set(def optionDef, raw string) error {
	var (
		iv int
		fv float64
	)
	switch def.kind {
	case kindBool:
		if raw != "" {
			return optionErrorf("", "", "boolean option %s takes no value, got %q", def.name, raw)
		}
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return optionErrorf("", "", "option %s requires an integer, got %q", def.name, raw)
		}
		iv = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return optionErrorf("", "", "option %s requires a number, got %q", def.name, raw)
		}
		fv = f
	case kindString:
		if raw == "" && def.name != "default" {
			return optionErrorf("", "", "option %s requires a value", def.name)
		}
	}
	switch def.name {
	case "id":
		o.ID = true
	case "vtype":
		o.VType = raw
	case "ktype":
		o.KType = raw
	case "enum":
		o.Enum = raw
	case "pointer":
		o.Pointer = raw
	case "format":
		o.Format = raw
	case "pattern":
		o.Pattern = raw
	case "minf":
		o.MinF = &fv
	case "maxf":
		o.MaxF = &fv
	case "minv":
		o.MinV = &iv
	case "maxv":
		o.MaxV = &iv
	case "unique":
		o.Unique = true
	case "set":
		o.Set = true
	case "unordered":
		o.Unordered = true
	case "extend":
		o.Extend = true
	case "default":
		o.Default = &raw
	case "minc":
		o.MinC = &iv
	case "maxc":
		o.MaxC = &iv
	case "tagid":
		o.TagID = &iv
	case "dir":
		o.Dir = true
	case "key":
		o.Key = true
	case "link":
		o.Link = true
	}
	return nil
}

func (o Options) get(name string) (string, bool) {
	str := func(s string) (string, bool) { return s, s != "" }
	num := func(p *int) (string, bool) {
		if p == nil {
			return "", false
		}
		return strconv.Itoa(*p), true
	}
	flt := func(p *float64) (string, bool) {
		if p == nil {
			return "", false
		}
		return strconv.FormatFloat(*p, 'g', -1, 64), true
	}
	switch name {
	case "id":
		return "", o.ID
	case "vtype":
		return str(o.VType)
	case "ktype":
		return str(o.KType)
	case "enum":
		return str(o.Enum)
	case "pointer":
		return str(o.Pointer)
	case "format":
		return str(o.Format)
	case "pattern":
		return str(o.Pattern)
	case "minf":
		return flt(o.MinF)
	case "maxf":
		return flt(o.MaxF)
	case "minv":
		return num(o.MinV)
	case "maxv":
		return num(o.MaxV)
	case "unique":
		return "", o.Unique
	case "set":
		return "", o.Set
	case "unordered":
		return "", o.Unordered
	case "extend":
		return "", o.Extend
	case "default":
		if o.Default == nil {
			return "", false
		}
		return *o.Default, true
	case "minc":
		return num(o.MinC)
	case "maxc":
		return num(o.MaxC)
	case "tagid":
		return num(o.TagID)
	case "dir":
		return "", o.Dir
	case "key":
		return "", o.Key
	case "link":
		return "", o.Link
	}
	return "", false
}

// MinCount returns minc, defaulting to 1.
func (o Options) MinCount() int {
	if o.MinC == nil {
		return 1
	}
	return *o.MinC
}

// MaxCount returns maxc, defaulting to 1. Zero means unbounded.
func (o Options) MaxCount() int {
	if o.MaxC == nil {
		return 1
	}
	return *o.MaxC
}

// IsMultiple reports whether a field's cardinality is array-like.
func (o Options) IsMultiple() bool { return o.MaxCount() != 1 }

// Multiplicity renders the m..n cardinality notation. For fields minc/maxc
// are used, otherwise minv/maxv. An upper bound of zero renders as "*".
// The result is "" when it equals one of suppress.
func (o Options) Multiplicity(minDefault, maxDefault int, isField bool, suppress ...string) string {
	lo, hi := minDefault, maxDefault
	minP, maxP := o.MinV, o.MaxV
	if isField {
		minP, maxP = o.MinC, o.MaxC
	}
	if minP != nil {
		lo = *minP
	}
	if maxP != nil {
		hi = *maxP
	}
	var out string
	switch {
	case lo == 1 && hi == 1:
		out = "1"
	case hi == 0:
		out = fmt.Sprintf("%d..*", lo)
	default:
		out = fmt.Sprintf("%d..%d", lo, hi)
	}
	for _, s := range suppress {
		if s == out {
			return ""
		}
	}
	return out
}

// allowedTypeOptions is the per-base-type allow-list of type options.
var allowedTypeOptions = map[BaseType][]string{
	Binary:     {"format", "minv", "maxv", "default"},
	Boolean:    {"default"},
	Integer:    {"format", "minv", "maxv", "default"},
	Number:     {"format", "minf", "maxf", "default"},
	String:     {"format", "pattern", "minv", "maxv", "default"},
	Array:      {"extend", "format", "minv", "maxv"},
	ArrayOf:    {"vtype", "minv", "maxv", "unique", "set", "unordered"},
	Choice:     {"id", "extend"},
	Enumerated: {"id", "enum", "pointer", "extend"},
	Map:        {"id", "extend", "minv", "maxv"},
	MapOf:      {"ktype", "vtype", "minv", "maxv"},
	Record:     {"extend", "minv", "maxv"},
}

// arrayOptions are the type options a multi-valued field may carry for its
// implied ArrayOf.
var arrayOptions = []string{"unique", "set", "unordered"}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Verify checks the options against the allow-list of base. For fields, base
// is the field's type when it is a builtin, or "" for a named type. owner
// names the type (and field, as "Type.field") for error messages.
func (o Options) Verify(base BaseType, owner string, isField bool, formats *format.Registry) []error {
	typ, field := owner, ""
	if i := strings.IndexByte(owner, '.'); i >= 0 {
		typ, field = owner[:i], owner[i+1:]
	}
	var errs []error
	allowed := allowedTypeOptions[base]
	for _, name := range o.Names() {
		def := optionByName[name]
		switch {
		case def.field && isField:
		case def.field:
			errs = append(errs, optionErrorf(typ, field, "field option %s not allowed on a type definition", name))
		case contains(allowed, name):
		case isField && o.IsMultiple() && contains(arrayOptions, name):
		case isField && base == "":
			errs = append(errs, optionErrorf(typ, field, "type option %s requires a builtin field type", name))
		default:
			errs = append(errs, optionErrorf(typ, field, "option %s not allowed for %s", name, base))
		}
	}
	if base == ArrayOf && o.VType == "" {
		errs = append(errs, optionErrorf(typ, field, "ArrayOf requires vtype"))
	}
	if base == MapOf {
		if o.KType == "" {
			errs = append(errs, optionErrorf(typ, field, "MapOf requires ktype"))
		}
		if o.VType == "" {
			errs = append(errs, optionErrorf(typ, field, "MapOf requires vtype"))
		}
	}
	if o.Enum != "" && o.Pointer != "" {
		errs = append(errs, optionErrorf(typ, field, "enum and pointer are mutually exclusive"))
	}
	if o.MinC != nil && *o.MinC < 0 {
		errs = append(errs, optionErrorf(typ, field, "minc %d is negative", *o.MinC))
	}
	if o.MinC != nil && o.MaxC != nil && *o.MaxC != 0 && *o.MaxC < *o.MinC {
		errs = append(errs, optionErrorf(typ, field, "maxc %d < minc %d", *o.MaxC, *o.MinC))
	}
	if o.MinV != nil && o.MaxV != nil && *o.MaxV != 0 && *o.MaxV < *o.MinV {
		errs = append(errs, optionErrorf(typ, field, "maxv %d < minv %d", *o.MaxV, *o.MinV))
	}
	if o.MinF != nil && o.MaxF != nil && *o.MaxF < *o.MinF {
		errs = append(errs, optionErrorf(typ, field, "maxf %v < minf %v", *o.MaxF, *o.MinF))
	}
	if o.Format != "" && formats != nil && !formats.Known(o.Format) {
		errs = append(errs, optionErrorf(typ, field, "unknown format %q", o.Format))
	}
	if o.Pattern != "" {
		if _, err := regexp.Compile(o.Pattern); err != nil {
			errs = append(errs, optionErrorf(typ, field, "invalid pattern %q: %v", o.Pattern, err))
		}
	}
	return errs
}
