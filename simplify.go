package jadn

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Pass selects normalization passes for Simplify.
type Pass uint8

const (
	// PassMultiplicity replaces multi-valued fields with explicit ArrayOf types.
	PassMultiplicity Pass = 1 << iota
	// PassAnonymous extracts fields carrying type options into named types.
	PassAnonymous
	// PassDerived materializes derived and pointer enumerations.
	PassDerived
	// PassMapOfEnum flattens MapOf types keyed by an enumeration into Maps.
	PassMapOfEnum

	PassAll = PassMultiplicity | PassAnonymous | PassDerived | PassMapOfEnum
)

var passNames = []struct {
	pass Pass
	name string
}{
	{PassMultiplicity, "multiplicity"},
	{PassAnonymous, "anonymous"},
	{PassDerived, "derived"},
	{PassMapOfEnum, "mapof"},
}

func (p Pass) String() string {
	var parts []string
	for _, pn := range passNames {
		if p&pn.pass != 0 {
			parts = append(parts, pn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParsePasses maps pass names ("multiplicity", "anonymous", "derived",
// "mapof" or "all") onto a Pass set.
func ParsePasses(names []string) (Pass, error) {
	var p Pass
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n == "all" {
			p |= PassAll
			continue
		}
		found := false
		for _, pn := range passNames {
			if pn.name == n {
				p |= pn.pass
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown pass %q", n)
		}
	}
	return p, nil
}

// Simplify returns a new Schema with the selected passes applied, in the
// order multiplicity, anonymous, derived, mapof. Synthesized definitions are
// appended after the existing ones; field ids are never renumbered. The
// receiver is not modified.
func (s *Schema) Simplify(passes Pass) (*Schema, error) {
	rw := s.rewriter()
	steps := []struct {
		pass Pass
		run  func() error
	}{
		{PassMultiplicity, rw.multiplicity},
		{PassAnonymous, rw.anonymous},
		{PassDerived, rw.derived},
		{PassMapOfEnum, rw.mapOfEnum},
	}
	for _, st := range steps {
		if passes&st.pass == 0 {
			continue
		}
		if err := st.run(); err != nil {
			return nil, err
		}
	}
	s.log.WithField("passes", passes.String()).WithField("types", len(rw.defs)).Debug("schema simplified")
	return build(s.Info.clone(), rw.defs, s.opt, rw.synthetic)
}

// rewriter holds the working copy of the definitions during Simplify.
type rewriter struct {
	defs      []*Definition
	names     map[string]bool
	synthetic map[string]bool
	derivedOf map[string]string // marker+target -> synthesized name
	limits    Limits
	log       logrus.FieldLogger
}

func (s *Schema) rewriter() *rewriter {
	rw := &rewriter{
		defs:      s.definitions(),
		names:     map[string]bool{},
		synthetic: map[string]bool{},
		derivedOf: map[string]string{},
		limits:    s.limits,
		log:       s.log,
	}
	for _, d := range rw.defs {
		rw.names[d.Name] = true
	}
	for k := range s.synthetic {
		rw.synthetic[k] = true
	}
	return rw
}

func (rw *rewriter) lookup(name string) *Definition {
	for _, d := range rw.defs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (rw *rewriter) deriver() deriver {
	return deriver{lookup: rw.lookup, sys: rw.limits.Sys, fs: rw.limits.FS}
}

// uniqueName returns the first unused candidate, or the last candidate with
// the smallest free numeric suffix.
func (rw *rewriter) uniqueName(candidates ...string) string {
	for _, c := range candidates {
		if !rw.names[c] {
			return c
		}
	}
	base := candidates[len(candidates)-1]
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s%d", base, i)
		if !rw.names[n] {
			return n
		}
	}
}

func (rw *rewriter) add(d *Definition) {
	rw.defs = append(rw.defs, d)
	rw.names[d.Name] = true
	rw.synthetic[d.Name] = true
	rw.log.WithField("type", d.Name).WithField("base", d.BaseType).Debug("added definition")
}

// plural makes a list name out of a field name.
func plural(name string) string {
	switch {
	case strings.HasSuffix(name, "s"):
		return name
	case strings.HasSuffix(name, "x"), strings.HasSuffix(name, "z"),
		strings.HasSuffix(name, "ch"), strings.HasSuffix(name, "sh"):
		return name + "es"
	case len(name) > 1 && strings.HasSuffix(name, "y") && !strings.ContainsRune("aeiou", rune(name[len(name)-2])):
		return name[:len(name)-1] + "ies"
	}
	return name + "s"
}

func intPtr(n int) *int { return &n }

// withoutArrayOptions drops the options that belong to a multi-valued
// field's implied ArrayOf.
func withoutArrayOptions(o Options) Options {
	o.Unique, o.Set, o.Unordered = false, false, false
	return o
}

func (rw *rewriter) multiplicity() error {
	n := len(rw.defs)
	for _, d := range rw.defs[:n] {
		if !d.BaseType.HasFields() {
			continue
		}
		for i := range d.Fields {
			f := &d.Fields[i]
			if !f.Options.IsMultiple() {
				continue
			}
			fopt, topt := f.Options.Split()
			vtype := f.Type
			switch {
			case topt.Enum != "":
				name, _ := splitRef(topt.Enum)
				vtype = markerEnum + name
			case topt.Pointer != "":
				name, _ := splitRef(topt.Pointer)
				vtype = markerPointer + name
			default:
				elem := withoutArrayOptions(topt)
				if !elem.IsEmpty() {
					base, ok := ParseBaseType(f.Type)
					if !ok {
						return formatErrorf(d.Name, f.Name, "type options require a builtin field type, got %s", f.Type)
					}
					et := &Definition{
						Name:        rw.uniqueName(d.Name + rw.limits.Sys + f.Name),
						BaseType:    base,
						Options:     elem,
						Description: f.Description,
					}
					rw.add(et)
					vtype = et.Name
				}
			}
			lo, hi := f.Options.MinCount(), f.Options.MaxCount()
			ao := Options{VType: vtype, MinV: intPtr(max(lo, 1)), Unique: topt.Unique, Set: topt.Set, Unordered: topt.Unordered}
			if hi != 0 {
				ao.MaxV = intPtr(hi)
			}
			at := &Definition{
				Name:        rw.uniqueName(d.Name+rw.limits.Sys+plural(f.Name), d.Name+rw.limits.Sys+f.Name),
				BaseType:    ArrayOf,
				Options:     ao,
				Description: f.Description,
			}
			rw.add(at)
			fopt.MinC, fopt.MaxC = nil, nil
			if lo == 0 {
				fopt.MinC = intPtr(0)
			}
			f.Type, f.Options = at.Name, fopt
		}
	}
	return nil
}

func (rw *rewriter) anonymous() error {
	n := len(rw.defs)
	for _, d := range rw.defs[:n] {
		if !d.BaseType.HasFields() {
			continue
		}
		for i := range d.Fields {
			f := &d.Fields[i]
			fopt, topt := f.Options.Split()
			if f.Options.IsMultiple() {
				fopt.Unique, fopt.Set, fopt.Unordered = topt.Unique, topt.Set, topt.Unordered
				topt = withoutArrayOptions(topt)
			}
			if topt.IsEmpty() {
				continue
			}
			base, ok := ParseBaseType(f.Type)
			if !ok {
				return formatErrorf(d.Name, f.Name, "type options require a builtin field type, got %s", f.Type)
			}
			at := &Definition{
				Name:        rw.uniqueName(d.Name + rw.limits.Sys + f.Name),
				BaseType:    base,
				Options:     topt,
				Description: f.Description,
			}
			rw.add(at)
			f.Type, f.Options = at.Name, fopt
		}
	}
	return nil
}

// derive returns the name of the Enumerated synthesized for marker+target,
// adding it on first use.
func (rw *rewriter) derive(owner, target, marker string) (string, error) {
	key := marker + target
	if name, ok := rw.derivedOf[key]; ok {
		return name, nil
	}
	def, err := rw.deriver().definition(owner, target, marker)
	if err != nil {
		return "", err
	}
	def.Name = rw.uniqueName(def.Name)
	rw.add(def)
	rw.derivedOf[key] = def.Name
	return def.Name, nil
}

func (rw *rewriter) rewriteRef(owner string, ref *string) error {
	name, marker := splitRef(*ref)
	if marker == "" {
		return nil
	}
	out, err := rw.derive(owner, name, marker)
	if err != nil {
		return err
	}
	*ref = out
	return nil
}

func (rw *rewriter) derived() error {
	dv := rw.deriver()
	for i := 0; i < len(rw.defs); i++ {
		d := rw.defs[i]
		if d.isDerivedEnum() {
			target, marker := enumRef(d)
			items, err := dv.items(d.Name, target, marker)
			if err != nil {
				return err
			}
			d.Items = items
			d.Options.Enum, d.Options.Pointer = "", ""
		}
		if err := rw.rewriteRef(d.Name, &d.Options.KType); err != nil {
			return err
		}
		if err := rw.rewriteRef(d.Name, &d.Options.VType); err != nil {
			return err
		}
		for j := range d.Fields {
			f := &d.Fields[j]
			if err := rw.rewriteRef(d.Name, &f.Type); err != nil {
				return err
			}
			if f.Type != string(Enumerated) || (f.Options.Enum == "" && f.Options.Pointer == "") {
				continue
			}
			// An Enumerated field that only names its source becomes a
			// reference to the synthesized enumeration.
			fd := &Definition{Options: f.Options}
			target, marker := enumRef(fd)
			_, topt := f.Options.Split()
			topt.Enum, topt.Pointer = "", ""
			if f.Options.IsMultiple() {
				topt = withoutArrayOptions(topt)
			}
			if !topt.IsEmpty() {
				continue
			}
			name, err := rw.derive(d.Name, target, marker)
			if err != nil {
				return err
			}
			f.Type = name
			f.Options.Enum, f.Options.Pointer = "", ""
		}
	}
	return nil
}

// keyItems returns the members of an enumerated key type, or false when ref
// does not name an enumeration.
func (rw *rewriter) keyItems(owner, ref string) ([]EnumField, bool, error) {
	dv := rw.deriver()
	name, marker := splitRef(ref)
	if marker != "" {
		items, err := dv.items(owner, name, marker)
		return items, err == nil, err
	}
	kt := rw.lookup(name)
	if kt == nil || kt.BaseType != Enumerated {
		return nil, false, nil
	}
	if kt.isDerivedEnum() {
		target, m := enumRef(kt)
		items, err := dv.items(owner, target, m)
		return items, err == nil, err
	}
	return kt.Items, true, nil
}

// idKeyed reports whether a key enumeration is serialized by item id.
func (rw *rewriter) idKeyed(ref string) bool {
	name, marker := splitRef(ref)
	if marker != "" {
		return false
	}
	kt := rw.lookup(name)
	return kt != nil && kt.Options.ID
}

func (rw *rewriter) mapOfEnum() error {
	for i, d := range rw.defs {
		if d.BaseType != MapOf {
			continue
		}
		items, ok, err := rw.keyItems(d.Name, d.Options.KType)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fields := make([]Field, 0, len(items))
		for _, it := range items {
			if it.ID <= 0 || (rw.limits.FieldName != nil && !rw.limits.FieldName.MatchString(it.Value)) {
				rw.log.WithField("type", d.Name).WithField("key", it.Value).Debug("enumerated key is not a field name, MapOf kept")
				fields = nil
				break
			}
			fields = append(fields, Field{
				ID:          it.ID,
				Name:        it.Value,
				Type:        d.Options.VType,
				Options:     Options{MinC: intPtr(0)},
				Description: it.Description,
			})
		}
		if len(fields) == 0 {
			continue
		}
		rw.defs[i] = &Definition{
			Name:        d.Name,
			BaseType:    Map,
			Options:     Options{ID: rw.idKeyed(d.Options.KType), MinV: d.Options.MinV, MaxV: d.Options.MaxV},
			Description: d.Description,
			Fields:      fields,
		}
	}
	return nil
}
