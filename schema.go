package jadn

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/reoring/jadn/format"
)

// DefaultMaxDepth bounds validation recursion through recursive types.
const DefaultMaxDepth = 64

// LoadOpt configures schema construction.
type LoadOpt struct {
	// Formats resolves format option values. Defaults to format.Default().
	Formats *format.Registry
	// Logger receives debug output about synthesized types. Defaults to the
	// logrus standard logger.
	Logger logrus.FieldLogger
	// MaxDepth bounds instance nesting during validation (DefaultMaxDepth
	// when zero).
	MaxDepth int
	// Lenient accepts references to undefined types; Analyze reports them.
	Lenient bool
}

func pickLoadOpt(opts []LoadOpt) LoadOpt {
	var opt LoadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Formats == nil {
		opt.Formats = format.Default()
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	return opt
}

// Schema is a loaded JADN schema. It is immutable once constructed and safe
// for concurrent validation.
type Schema struct {
	Info Info

	order   []string
	types   map[string]*Definition
	derived map[string]*Definition
	// compiled pattern options, keyed by source
	patterns map[string]*regexp.Regexp
	// generated type names, exempt from the TypeName pattern
	synthetic map[string]bool
	limits    Limits
	opt       LoadOpt
	log       logrus.FieldLogger
}

// New builds a Schema from its wire form.
func New(doc Document, opts ...LoadOpt) (*Schema, error) {
	opt := pickLoadOpt(opts)
	var info Info
	if doc.Info != nil {
		if doc.Info.Package == "" {
			return nil, schemaErrorf("", "info.package is required")
		}
		info = doc.Info.clone()
	}
	defs, err := decodeTypes(doc.Types)
	if err != nil {
		return nil, err
	}
	return build(info, defs, opt, nil)
}

// build verifies definitions and synthesizes derived types. Names in
// synthetic skip the naming patterns.
func build(info Info, defs []*Definition, opt LoadOpt, synthetic map[string]bool) (*Schema, error) {
	limits, err := info.Config.Resolve()
	if err != nil {
		return nil, err
	}
	s := &Schema{
		Info:      info,
		types:     make(map[string]*Definition, len(defs)),
		derived:   map[string]*Definition{},
		patterns:  map[string]*regexp.Regexp{},
		synthetic: map[string]bool{},
		limits:    limits,
		opt:       opt,
		log:       opt.Logger.WithField("package", info.Package),
	}
	for name := range synthetic {
		s.synthetic[name] = true
	}
	var merr *multierror.Error
	for _, d := range defs {
		if _, dup := s.types[d.Name]; dup {
			merr = multierror.Append(merr, duplicateErrorf(d.Name, "", "type defined more than once"))
			continue
		}
		s.types[d.Name] = d
		s.order = append(s.order, d.Name)
		for _, e := range d.Verify(limits, opt.Formats, synthetic[d.Name]) {
			merr = multierror.Append(merr, e)
		}
	}
	for ns := range info.Imports {
		if !limits.NSID.MatchString(ns) {
			merr = multierror.Append(merr, schemaErrorf("", "import namespace %q does not match %s", ns, limits.NSID))
		}
	}
	for _, name := range info.Exports {
		if _, ok := s.types[name]; !ok {
			merr = multierror.Append(merr, schemaErrorf(name, "exported type is not defined"))
		}
	}
	if !opt.Lenient {
		for _, name := range s.order {
			for _, e := range s.checkReferences(s.types[name]) {
				merr = multierror.Append(merr, e)
			}
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	if err := s.synthesize(); err != nil {
		return nil, err
	}
	s.compilePatterns()
	s.log.WithField("types", len(s.order)).WithField("derived", len(s.derived)).Debug("schema loaded")
	return s, nil
}

func (s *Schema) checkReferences(d *Definition) []error {
	var errs []error
	for _, r := range d.typeRefs() {
		name, marker := splitRef(r.ref)
		derive := r.derive || marker != ""
		switch {
		case isExternal(name):
			ns := name[:strings.IndexByte(name, ':')]
			if _, ok := s.Info.Imports[ns]; !ok {
				errs = append(errs, schemaErrorf(d.Name, "namespace %q of %s is not imported", ns, name))
			}
		case IsBaseType(name):
			if derive {
				errs = append(errs, schemaErrorf(d.Name, "cannot derive an enumeration from builtin %s", name))
			}
		default:
			if _, ok := s.types[name]; !ok {
				errs = append(errs, schemaErrorf(d.Name, "type %q is not defined", name))
			}
		}
	}
	return errs
}

func (s *Schema) deriver() deriver {
	return deriver{
		lookup: func(name string) *Definition { return s.types[name] },
		sys:    s.limits.Sys,
		fs:     s.limits.FS,
	}
}

// synthesize fills the derived cache: primitive wrappers, anonymous field
// types, and derived/pointer enumerations. It runs once, at construction.
func (s *Schema) synthesize() error {
	for _, b := range BaseTypes {
		if b.IsPrimitive() {
			s.derived["_"+string(b)] = &Definition{Name: "_" + string(b), BaseType: b}
		}
	}
	for _, name := range s.order {
		d := s.types[name]
		if err := s.synthesizeFor(d, d.Name); err != nil {
			return err
		}
		for _, f := range d.Fields {
			base, ok := ParseBaseType(f.Type)
			if !ok {
				continue
			}
			key := f.wrapperName(d.Name, s.limits.Sys)
			if _, done := s.derived[key]; done {
				continue
			}
			_, typ := f.Options.Split()
			if f.Options.IsMultiple() {
				typ.Unique, typ.Set, typ.Unordered = false, false, false
			}
			w := &Definition{Name: key, BaseType: base, Options: typ}
			var merr *multierror.Error
			for _, e := range w.Verify(s.limits, s.opt.Formats, true) {
				if ee, ok := e.(*Error); ok {
					ee.Type, ee.Field = d.Name, f.Name
				}
				merr = multierror.Append(merr, e)
			}
			if err := merr.ErrorOrNil(); err != nil {
				return err
			}
			s.derived[key] = w
			if err := s.synthesizeFor(w, d.Name); err != nil {
				return err
			}
			s.log.WithField("type", key).Debug("synthesized field type")
		}
	}
	return nil
}

func (s *Schema) compilePatterns() {
	for _, defs := range []map[string]*Definition{s.types, s.derived} {
		for _, d := range defs {
			if d.Options.Pattern == "" {
				continue
			}
			// Verify already rejected patterns that do not compile.
			if re, err := regexp.Compile(d.Options.Pattern); err == nil {
				s.patterns[d.Options.Pattern] = re
			}
		}
	}
}

func (s *Schema) synthesizeFor(d *Definition, owner string) error {
	if d.isDerivedEnum() {
		target, marker := enumRef(d)
		if err := s.ensureDerived(owner, target, marker); err != nil {
			return err
		}
	}
	refs := []string{d.Options.KType, d.Options.VType}
	for _, f := range d.Fields {
		refs = append(refs, f.Type)
	}
	for _, ref := range refs {
		if name, marker := splitRef(ref); marker != "" {
			if err := s.ensureDerived(owner, name, marker); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) ensureDerived(owner, target, marker string) error {
	key := derivedName(target, marker, s.limits.Sys)
	if _, ok := s.derived[key]; ok {
		return nil
	}
	def, err := s.deriver().definition(owner, target, marker)
	if err != nil {
		return err
	}
	s.derived[key] = def
	s.log.WithField("type", key).Debug("synthesized derived enumeration")
	return nil
}

// resolve maps a type reference onto a Definition: declared types, derived
// enumerations ($T, >T) and builtin primitives.
func (s *Schema) resolve(ref string) (*Definition, bool) {
	name, marker := splitRef(ref)
	if marker != "" {
		d, ok := s.derived[derivedName(name, marker, s.limits.Sys)]
		return d, ok
	}
	if d, ok := s.types[name]; ok {
		return d, true
	}
	if IsBaseType(name) {
		d, ok := s.derived["_"+name]
		return d, ok
	}
	d, ok := s.derived[name]
	return d, ok
}

// fieldType resolves the Definition a field's values are validated against.
func (s *Schema) fieldType(owner *Definition, f *Field) (*Definition, bool) {
	if IsBaseType(f.Type) {
		d, ok := s.derived[f.wrapperName(owner.Name, s.limits.Sys)]
		return d, ok
	}
	return s.resolve(f.Type)
}

// enumItems returns the members of an Enumerated, following derivation.
func (s *Schema) enumItems(d *Definition) []EnumField {
	if d.isDerivedEnum() {
		target, marker := enumRef(d)
		if e, ok := s.derived[derivedName(target, marker, s.limits.Sys)]; ok {
			return e.Items
		}
		return nil
	}
	return d.Items
}

// Limits returns the resolved configuration.
func (s *Schema) Limits() Limits { return s.limits }

// Types returns the declared definitions in declaration order. The returned
// definitions must not be modified.
func (s *Schema) Types() []*Definition {
	out := make([]*Definition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name])
	}
	return out
}

// Type returns a declared definition by name.
func (s *Schema) Type(name string) (*Definition, bool) {
	d, ok := s.types[name]
	return d, ok
}

// Derived returns the synthesized definitions sorted by name.
func (s *Schema) Derived() []*Definition {
	names := make([]string, 0, len(s.derived))
	for k := range s.derived {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]*Definition, 0, len(names))
	for _, n := range names {
		out = append(out, s.derived[n])
	}
	return out
}

// Wire converts the schema back to its canonical array form.
func (s *Schema) Wire(stripComments bool) Document {
	info := s.Info.clone()
	var ip *Info
	if info.Package != "" || info.Config != nil || len(info.Exports) > 0 {
		ip = &info
	}
	return Document{Info: ip, Types: encodeTypes(s.Types(), stripComments)}
}

// definitions returns deep copies of the declared definitions.
func (s *Schema) definitions() []*Definition {
	out := make([]*Definition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name].Clone())
	}
	return out
}
