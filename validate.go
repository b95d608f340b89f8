package jadn

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/jadn/format"
)

// ReportPolicy selects which issues Validate returns when no export matches.
type ReportPolicy int

const (
	// ReportFirst returns the issues of the first export tried.
	ReportFirst ReportPolicy = iota
	// ReportAll returns the issues of every export, each path prefixed with
	// the export name.
	ReportAll
)

// ValidateOpt controls validation behavior. When multiple are passed, the
// last one wins.
type ValidateOpt struct {
	// FailFast stops at the first issue.
	FailFast bool
	Report   ReportPolicy
}

func pickValidateOpt(opts []ValidateOpt) ValidateOpt {
	if len(opts) == 0 {
		return ValidateOpt{}
	}
	return opts[len(opts)-1]
}

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast validation.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether validation should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// Check validates v against typeName and returns every issue found. It never
// stops early.
func (s *Schema) Check(v any, typeName string) Issues {
	vd := s.newValidator(context.Background(), false)
	vd.root(v, typeName)
	return vd.issues
}

// ValidateAs validates v against the exported type typeName. It returns nil
// or Issues, or the context error when ctx is done.
func (s *Schema) ValidateAs(ctx context.Context, v any, typeName string, opts ...ValidateOpt) error {
	opt := pickValidateOpt(opts)
	vd := s.newValidator(ctx, opt.FailFast || IsFailFast(ctx))
	vd.root(v, typeName)
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vd.issues) == 0 {
		return nil
	}
	return vd.issues
}

// Validate tries every export (every declared type when nothing is exported)
// and returns nil on the first match.
func (s *Schema) Validate(ctx context.Context, v any, opts ...ValidateOpt) error {
	opt := pickValidateOpt(opts)
	roots := s.Info.Exports
	if len(roots) == 0 {
		roots = s.order
	}
	if len(roots) == 0 {
		return Issues{rootPath().Issue("", CodeNotExported, "type", "")}
	}
	var first, all Issues
	for i, name := range roots {
		err := s.ValidateAs(ctx, v, name, opt)
		if err == nil {
			s.log.WithField("type", name).Debug("instance matched")
			return nil
		}
		iss, ok := AsIssues(err)
		if !ok {
			return err
		}
		if i == 0 {
			first = iss
		}
		for _, it := range iss {
			it.Path = prefixPath(name, it.Path)
			all = append(all, it)
		}
	}
	if opt.Report == ReportAll {
		return all
	}
	return first
}

// exported reports whether typeName may be used as a validation root.
func (s *Schema) exported(typeName string) bool {
	if len(s.Info.Exports) == 0 {
		_, ok := s.types[typeName]
		return ok
	}
	for _, e := range s.Info.Exports {
		if e == typeName {
			return true
		}
	}
	return false
}

type validator struct {
	s        *Schema
	ctx      context.Context
	failFast bool
	issues   Issues
}

func (s *Schema) newValidator(ctx context.Context, failFast bool) *validator {
	return &validator{s: s, ctx: ctx, failFast: failFast}
}

func (v *validator) add(it Issue) { v.issues = append(v.issues, it) }

func (v *validator) stopped() bool {
	return (v.failFast && len(v.issues) > 0) || v.ctx.Err() != nil
}

func (v *validator) root(x any, typeName string) {
	if _, ok := v.s.types[typeName]; !ok && len(v.s.Info.Exports) == 0 {
		v.add(rootPath().Issue(typeName, CodeUnresolvedType, "type", typeName))
		return
	}
	if !v.s.exported(typeName) {
		v.add(rootPath().Issue(typeName, CodeNotExported, "type", typeName))
		return
	}
	v.value(v.s.types[typeName], x, rootPath(), 0)
}

func (v *validator) value(d *Definition, x any, p pathRef, depth int) {
	if v.stopped() {
		return
	}
	if depth > v.s.opt.MaxDepth {
		v.add(p.Issue(d.Name, CodeDepthExceeded, "max", v.s.opt.MaxDepth))
		return
	}
	switch d.Variant() {
	case VariantArray:
		v.array(d, x, p, depth)
	case VariantArrayOf:
		v.arrayOf(d, x, p, depth)
	case VariantChoice:
		v.choice(d, x, p, depth)
	case VariantEnumerated:
		v.enumerated(d, x, p)
	case VariantMap, VariantRecord:
		v.object(d, x, p, depth)
	case VariantMapOf:
		v.mapOf(d, x, p, depth)
	default:
		v.primitive(d, x, p)
	}
}

// field validates one field value. present is false when the key or
// position is missing; nil values count as missing.
func (v *validator) field(owner *Definition, f *Field, x any, present bool, p pathRef, depth int) {
	if v.stopped() {
		return
	}
	if !present || x == nil {
		if f.Options.MinCount() >= 1 {
			v.add(p.Issue(owner.Name, CodeRequired, "field", f.Name))
		}
		return
	}
	ft, ok := v.s.fieldType(owner, f)
	if !ok {
		v.add(p.Issue(owner.Name, CodeUnresolvedType, "type", f.Type))
		return
	}
	if !f.Options.IsMultiple() {
		v.value(ft, x, p, depth+1)
		return
	}
	list, ok := asList(x)
	if !ok {
		v.add(p.Issue(owner.Name, CodeInvalidType, "expected", "list of "+f.Type))
		return
	}
	// An absent field covers the empty case; a present list holds at least one element.
	lo, hi := max(f.Options.MinCount(), 1), f.Options.MaxCount()
	if hi == 0 {
		hi = v.s.limits.MaxElements
	}
	v.count(owner.Name, len(list), lo, hi, p)
	for i, e := range list {
		v.value(ft, e, p.Index(i), depth+1)
	}
	if f.Options.Unique || f.Options.Set {
		v.duplicates(owner.Name, list, p)
	}
}

func (v *validator) count(typ string, n, lo, hi int, p pathRef) {
	if n < lo {
		v.add(p.Issue(typ, CodeTooShort, "min", lo, "got", n))
	}
	if hi > 0 && n > hi {
		v.add(p.Issue(typ, CodeTooLong, "max", hi, "got", n))
	}
}

// bounds applies minv/maxv to a size. A maxv of zero (or none) falls back to
// defMax; defMax zero means unbounded.
func (v *validator) bounds(d *Definition, n, defMax int, p pathRef) {
	lo, hi := 0, defMax
	if d.Options.MinV != nil {
		lo = *d.Options.MinV
	}
	if d.Options.MaxV != nil && *d.Options.MaxV != 0 {
		hi = *d.Options.MaxV
	}
	v.count(d.Name, n, lo, hi, p)
}

func (v *validator) checkFormat(d *Definition, x any, p pathRef) {
	fn, ok := v.s.opt.Formats.Lookup(d.Options.Format)
	if !ok {
		v.add(p.Issue(d.Name, CodeInvalidFormat, "format", d.Options.Format))
		return
	}
	if err := fn(x); err != nil {
		it := p.Issue(d.Name, CodeInvalidFormat, "format", d.Options.Format)
		it.Cause = err
		v.add(it)
	}
}

func (v *validator) array(d *Definition, x any, p pathRef, depth int) {
	if d.Options.Format != "" {
		v.checkFormat(d, x, p)
		return
	}
	list, ok := asList(x)
	if !ok {
		v.add(p.Issue(d.Name, CodeInvalidType, "expected", Array))
		return
	}
	v.bounds(d, len(list), v.s.limits.MaxElements, p)
	if len(list) > len(d.Fields) && !d.Options.Extend {
		v.add(p.Issue(d.Name, CodeTooLong, "max", len(d.Fields), "got", len(list)))
	}
	for i := range d.Fields {
		var val any
		present := i < len(list)
		if present {
			val = list[i]
		}
		v.field(d, &d.Fields[i], val, present, p.Index(i), depth)
	}
}

func (v *validator) arrayOf(d *Definition, x any, p pathRef, depth int) {
	list, ok := asList(x)
	if !ok {
		v.add(p.Issue(d.Name, CodeInvalidType, "expected", ArrayOf))
		return
	}
	v.bounds(d, len(list), v.s.limits.MaxElements, p)
	et, ok := v.s.resolve(d.Options.VType)
	if !ok {
		v.add(p.Issue(d.Name, CodeUnresolvedType, "type", d.Options.VType))
		return
	}
	for i, e := range list {
		v.value(et, e, p.Index(i), depth+1)
	}
	if d.Options.Unique || d.Options.Set {
		v.duplicates(d.Name, list, p)
	}
}

// duplicates reports every element equal to an earlier one.
func (v *validator) duplicates(typ string, list []any, p pathRef) {
	for i := 1; i < len(list); i++ {
		for j := 0; j < i; j++ {
			if equalValues(list[j], list[i]) {
				v.add(p.Index(i).Issue(typ, CodeDuplicateValue, "dup", i, "first", j))
				break
			}
		}
	}
}

func (v *validator) choice(d *Definition, x any, p pathRef, depth int) {
	obj, ok := asObject(x)
	if !ok {
		v.add(p.Issue(d.Name, CodeInvalidType, "expected", Choice))
		return
	}
	if len(obj) != 1 {
		v.add(p.Issue(d.Name, CodeChoiceCount, "count", len(obj)))
		return
	}
	for k, val := range obj {
		f, ok := d.fieldByKey(k)
		if !ok {
			v.add(p.Field(k).Issue(d.Name, CodeUnknownKey, "key", k))
			return
		}
		v.field(d, f, val, true, p.Field(k), depth)
	}
}

func (v *validator) object(d *Definition, x any, p pathRef, depth int) {
	obj, ok := asObject(x)
	if !ok {
		v.add(p.Issue(d.Name, CodeInvalidType, "expected", d.BaseType))
		return
	}
	unknown := false
	for _, k := range sortedKeys(obj) {
		if _, ok := d.fieldByKey(k); !ok {
			v.add(p.Field(k).Issue(d.Name, CodeUnknownKey, "key", k))
			unknown = true
		}
	}
	if unknown {
		return
	}
	v.bounds(d, len(obj), v.s.limits.MaxElements, p)
	for i := range d.Fields {
		f := &d.Fields[i]
		key := d.fieldKey(f)
		val, present := obj[key]
		v.field(d, f, val, present, p.Field(key), depth)
	}
}

func (v *validator) mapOf(d *Definition, x any, p pathRef, depth int) {
	kt, kok := v.s.resolve(d.Options.KType)
	if !kok {
		v.add(p.Issue(d.Name, CodeUnresolvedType, "type", d.Options.KType))
	}
	vt, vok := v.s.resolve(d.Options.VType)
	if !vok {
		v.add(p.Issue(d.Name, CodeUnresolvedType, "type", d.Options.VType))
	}
	if !kok || !vok {
		return
	}
	if obj, ok := asObject(x); ok {
		v.bounds(d, len(obj), v.s.limits.MaxElements, p)
		for _, k := range sortedKeys(obj) {
			v.value(kt, coerceKey(kt, k), p.Field(k), depth+1)
			v.value(vt, obj[k], p.Field(k), depth+1)
		}
		return
	}
	// Non-string keys serialize as a flat [k1, v1, k2, v2, ...] list.
	list, ok := asList(x)
	if !ok || len(list)%2 != 0 {
		v.add(p.Issue(d.Name, CodeInvalidType, "expected", MapOf))
		return
	}
	v.bounds(d, len(list)/2, v.s.limits.MaxElements, p)
	for i := 0; i < len(list); i += 2 {
		v.value(kt, list[i], p.Index(i), depth+1)
		v.value(vt, list[i+1], p.Index(i+1), depth+1)
	}
}

// coerceKey turns an object key back into a number for numeric key types
// and for enumerations keyed by id.
func coerceKey(kt *Definition, k string) any {
	numeric := kt.BaseType == Integer || kt.BaseType == Number
	if !numeric && !(kt.BaseType == Enumerated && kt.Options.ID) {
		return k
	}
	n := json.Number(k)
	if _, err := n.Float64(); err != nil {
		return k
	}
	return n
}

func (v *validator) enumerated(d *Definition, x any, p pathRef) {
	items := v.s.enumItems(d)
	if d.Options.ID {
		id, ok := toInt(x)
		if !ok {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", Integer))
			return
		}
		for _, it := range items {
			if it.ID == id {
				return
			}
		}
		v.add(p.Issue(d.Name, CodeInvalidEnum, "value", id, "type", d.Name))
		return
	}
	s, ok := x.(string)
	if !ok {
		n, isInt := toInt(x)
		if !isInt {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", String))
			return
		}
		s = strconv.Itoa(n)
	}
	for _, it := range items {
		if it.Value == s {
			return
		}
	}
	v.add(p.Issue(d.Name, CodeInvalidEnum, "value", s, "type", d.Name))
}

// primitive validates the Custom variant. With a format only explicit size
// bounds apply; without one, Binary and String fall back to the configured
// maximum lengths.
func (v *validator) primitive(d *Definition, x any, p pathRef) {
	o := d.Options
	switch d.BaseType {
	case Boolean:
		if _, ok := x.(bool); !ok {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", Boolean))
		}
	case Integer:
		n, ok := format.BigInt(x)
		if !ok {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", Integer))
			return
		}
		if o.MinV != nil && n.Cmp(big.NewInt(int64(*o.MinV))) < 0 {
			v.add(p.Issue(d.Name, CodeTooSmall, "min", *o.MinV, "got", n))
		}
		if o.MaxV != nil && n.Cmp(big.NewInt(int64(*o.MaxV))) > 0 {
			v.add(p.Issue(d.Name, CodeTooBig, "max", *o.MaxV, "got", n))
		}
		if o.Format != "" {
			v.checkFormat(d, x, p)
		}
	case Number:
		f, ok := format.Float(x)
		if !ok {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", Number))
			return
		}
		if o.MinF != nil && f < *o.MinF {
			v.add(p.Issue(d.Name, CodeTooSmall, "min", *o.MinF, "got", f))
		}
		if o.MaxF != nil && f > *o.MaxF {
			v.add(p.Issue(d.Name, CodeTooBig, "max", *o.MaxF, "got", f))
		}
		if o.Format != "" {
			v.checkFormat(d, x, p)
		}
	case String:
		s, ok := x.(string)
		if !ok {
			v.add(p.Issue(d.Name, CodeInvalidType, "expected", String))
			return
		}
		defMax := v.s.limits.MaxString
		if o.Format != "" {
			defMax = 0
			v.checkFormat(d, x, p)
		}
		v.bounds(d, utf8.RuneCountInString(s), defMax, p)
		if re, ok := v.s.patterns[o.Pattern]; ok && !re.MatchString(s) {
			v.add(p.Issue(d.Name, CodePattern, "pattern", o.Pattern))
		}
	case Binary:
		if o.Format != "" && !isEncodingHint(o.Format) {
			v.checkFormat(d, x, p)
			if b, ok := x.([]byte); ok {
				v.bounds(d, len(b), 0, p)
			}
			return
		}
		b, err := format.DecodeBinary(x, o.Format)
		if err != nil {
			it := p.Issue(d.Name, CodeInvalidType, "expected", Binary)
			it.Cause = err
			v.add(it)
			return
		}
		if o.Format != "" {
			v.checkFormat(d, x, p)
		}
		v.bounds(d, len(b), v.s.limits.MaxBinary, p)
	}
}

// isEncodingHint reports formats that only select a text serialization.
func isEncodingHint(name string) bool { return name == "b" || name == "x" || name == "X" }

func asList(x any) ([]any, bool) {
	switch t := x.(type) {
	case []any:
		return t, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asObject(x any) (map[string]any, bool) {
	if m, ok := x.(map[string]any); ok {
		return m, true
	}
	if x == nil {
		return nil, false
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// equalValues compares instance values, treating numerically equal numbers
// of different Go types as equal.
func equalValues(a, b any) bool {
	if x, ok := format.BigInt(a); ok {
		if y, ok := format.BigInt(b); ok {
			return x.Cmp(y) == 0
		}
	}
	if x, ok := format.Float(a); ok {
		if y, ok := format.Float(b); ok {
			return x == y
		}
	}
	if la, ok := asList(a); ok {
		lb, ok := asList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalValues(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	if ma, ok := asObject(a); ok {
		mb, ok := asObject(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !equalValues(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
