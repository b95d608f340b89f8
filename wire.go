package jadn

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/reoring/jadn/format"
)

// Document is the canonical array-based wire form of a schema.
//
//	{"info": {...}, "types": [[name, base, [opts], desc, [fields]], ...]}
//
// General fields are [id, name, type, [opts], desc]; enumerated items are
// [id, value, desc].
type Document struct {
	Info  *Info `json:"info,omitempty" yaml:"info,omitempty"`
	Types []any `json:"types" yaml:"types"`
}

// decodeTypes converts wire type tuples into Definitions.
func decodeTypes(raw []any) ([]*Definition, error) {
	defs := make([]*Definition, 0, len(raw))
	for i, t := range raw {
		d, err := decodeDefinition(t)
		if err != nil {
			var e *Error
			if errors.As(err, &e) && e.Type == "" {
				e.Message = fmt.Sprintf("types[%d]: %s", i, e.Message)
			}
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func decodeDefinition(raw any) (*Definition, error) {
	tuple, ok := raw.([]any)
	if !ok || len(tuple) < 4 || len(tuple) > 5 {
		return nil, formatErrorf("", "", "type must be [name, base, options, description, fields?]")
	}
	name, ok := tuple[0].(string)
	if !ok || name == "" {
		return nil, formatErrorf("", "", "type name must be a non-empty string")
	}
	baseName, ok := tuple[1].(string)
	if !ok {
		return nil, formatErrorf(name, "", "base type must be a string")
	}
	base, ok := ParseBaseType(baseName)
	if !ok {
		return nil, formatErrorf(name, "", "unknown base type %q", baseName)
	}
	opts, err := decodeOptionList(tuple[2], name, "")
	if err != nil {
		return nil, err
	}
	desc, ok := tuple[3].(string)
	if !ok && tuple[3] != nil {
		return nil, formatErrorf(name, "", "description must be a string")
	}
	d := &Definition{Name: name, BaseType: base, Options: opts, Description: desc}
	if len(tuple) == 4 {
		return d, nil
	}
	list, ok := tuple[4].([]any)
	if !ok {
		return nil, formatErrorf(name, "", "fields must be a list")
	}
	for _, rf := range list {
		if base == Enumerated {
			it, err := decodeItem(rf, name)
			if err != nil {
				return nil, err
			}
			d.Items = append(d.Items, it)
			continue
		}
		f, err := decodeField(rf, name)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, f)
	}
	return d, nil
}

func decodeOptionList(raw any, typ, field string) (Options, error) {
	if raw == nil {
		return Options{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return Options{}, formatErrorf(typ, field, "options must be a list of strings")
	}
	tags := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return Options{}, formatErrorf(typ, field, "option %v is not a string", v)
		}
		tags = append(tags, s)
	}
	opts, err := DecodeOptions(tags)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Type, e.Field = typ, field
		}
		return Options{}, err
	}
	return opts, nil
}

func decodeItem(raw any, typ string) (EnumField, error) {
	tuple, ok := raw.([]any)
	if !ok || len(tuple) != 3 {
		return EnumField{}, formatErrorf(typ, "", "enumerated item must be [id, value, description]")
	}
	id, ok := toInt(tuple[0])
	if !ok {
		return EnumField{}, formatErrorf(typ, "", "item id %v is not an integer", tuple[0])
	}
	it := EnumField{ID: id}
	switch v := tuple[1].(type) {
	case string:
		it.Value = v
	default:
		n, ok := toInt(v)
		if !ok {
			return EnumField{}, formatErrorf(typ, "", "item value %v must be a string or integer", v)
		}
		it.Value, it.IntValue = strconv.Itoa(n), true
	}
	it.Description, _ = tuple[2].(string)
	return it, nil
}

func decodeField(raw any, typ string) (Field, error) {
	tuple, ok := raw.([]any)
	if !ok || len(tuple) != 5 {
		return Field{}, formatErrorf(typ, "", "field must be [id, name, type, options, description]")
	}
	id, ok := toInt(tuple[0])
	if !ok {
		return Field{}, formatErrorf(typ, "", "field id %v is not an integer", tuple[0])
	}
	name, ok := tuple[1].(string)
	if !ok {
		return Field{}, formatErrorf(typ, "", "field name %v is not a string", tuple[1])
	}
	ftype, ok := tuple[2].(string)
	if !ok {
		return Field{}, formatErrorf(typ, name, "field type %v is not a string", tuple[2])
	}
	opts, err := decodeOptionList(tuple[3], typ, name)
	if err != nil {
		return Field{}, err
	}
	desc, _ := tuple[4].(string)
	return Field{ID: id, Name: name, Type: ftype, Options: opts, Description: desc}, nil
}

// encodeTypes is the inverse of decodeTypes.
func encodeTypes(defs []*Definition, stripComments bool) []any {
	out := make([]any, 0, len(defs))
	for _, d := range defs {
		out = append(out, encodeDefinition(d, stripComments))
	}
	return out
}

func encodeDefinition(d *Definition, strip bool) []any {
	desc := d.Description
	if strip {
		desc = ""
	}
	tuple := []any{d.Name, string(d.BaseType), optionList(d.Options), desc}
	switch {
	case d.BaseType == Enumerated:
		items := make([]any, 0, len(d.Items))
		for _, it := range d.Items {
			idesc := it.Description
			if strip {
				idesc = ""
			}
			items = append(items, []any{it.ID, it.WireValue(), idesc})
		}
		tuple = append(tuple, items)
	case d.BaseType.HasFields():
		fields := make([]any, 0, len(d.Fields))
		for _, f := range d.Fields {
			fdesc := f.Description
			if strip {
				fdesc = ""
			}
			fields = append(fields, []any{f.ID, f.Name, f.Type, optionList(f.Options), fdesc})
		}
		tuple = append(tuple, fields)
	}
	return tuple
}

// WireValue returns the item value in its serialized kind.
func (it EnumField) WireValue() any {
	if it.IntValue {
		if n, err := strconv.Atoi(it.Value); err == nil {
			return n
		}
	}
	return it.Value
}

func optionList(o Options) []any {
	enc := o.Encode()
	out := make([]any, len(enc))
	for i, s := range enc {
		out[i] = s
	}
	return out
}

// toInt accepts the integer representations produced by the JSON and YAML
// decoders.
func toInt(v any) (int, bool) {
	n, ok := format.BigInt(v)
	if !ok || !n.IsInt64() {
		return 0, false
	}
	return int(n.Int64()), true
}
