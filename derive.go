package jadn

import "fmt"

// deriver synthesizes derived and pointer enumerations from compound types.
type deriver struct {
	lookup func(name string) *Definition
	sys    string
	fs     string
}

// derivedName is the name of the Enumerated synthesized for target.
func derivedName(target, marker, sys string) string {
	if marker == markerPointer {
		return target + sys + "Pointer"
	}
	return target + sys + "Enum"
}

// enumRef normalizes the value of an enum/pointer option, which may or may
// not repeat its marker.
func enumRef(d *Definition) (target, marker string) {
	if d.Options.Pointer != "" {
		name, _ := splitRef(d.Options.Pointer)
		return name, markerPointer
	}
	name, _ := splitRef(d.Options.Enum)
	return name, markerEnum
}

// items returns the members derived from target.
func (dv deriver) items(owner, target, marker string) ([]EnumField, error) {
	return dv.itemsDepth(owner, target, marker, 0)
}

func (dv deriver) itemsDepth(owner, target, marker string, depth int) ([]EnumField, error) {
	if depth > 8 {
		return nil, formatErrorf(owner, "", "derived enumeration of %s does not terminate", target)
	}
	t := dv.lookup(target)
	if t == nil {
		return nil, formatErrorf(owner, "", "derived enumeration target %q is not defined", target)
	}
	if marker == markerPointer {
		return dv.pointerItems(owner, t)
	}
	switch {
	case t.isDerivedEnum():
		inner, m := enumRef(t)
		return dv.itemsDepth(owner, inner, m, depth+1)
	case t.BaseType == Enumerated:
		return cloneItems(t.Items), nil
	case t.BaseType.HasFields():
		out := make([]EnumField, 0, len(t.Fields))
		for _, f := range t.Fields {
			out = append(out, EnumField{ID: f.ID, Value: f.Name, Description: f.Description})
		}
		return out, nil
	}
	return nil, formatErrorf(owner, "", "cannot derive an enumeration from %s %s", t.BaseType, target)
}

// pointerItems lists field paths of t joined by the configured separator,
// descending one level into compound sub-types.
func (dv deriver) pointerItems(owner string, t *Definition) ([]EnumField, error) {
	if !t.BaseType.HasFields() {
		return nil, formatErrorf(owner, "", "cannot derive pointers from %s %s", t.BaseType, t.Name)
	}
	var out []EnumField
	add := func(path, desc string) {
		out = append(out, EnumField{ID: len(out) + 1, Value: path, Description: desc})
	}
	for _, f := range t.Fields {
		sub := dv.lookup(f.Type)
		if sub != nil && sub.Name != t.Name && sub.BaseType.HasFields() {
			for _, sf := range sub.Fields {
				add(f.Name+dv.fs+sf.Name, sf.Description)
			}
			continue
		}
		add(f.Name, f.Description)
	}
	return out, nil
}

// definition synthesizes the Enumerated named by derivedName.
func (dv deriver) definition(owner, target, marker string) (*Definition, error) {
	items, err := dv.items(owner, target, marker)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Derived enumeration of %s", target)
	if marker == markerPointer {
		desc = fmt.Sprintf("Pointers into %s", target)
	}
	return &Definition{
		Name:        derivedName(target, marker, dv.sys),
		BaseType:    Enumerated,
		Description: desc,
		Items:       items,
	}, nil
}
