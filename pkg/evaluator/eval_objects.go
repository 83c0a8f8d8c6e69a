package evaluator

import (
	"fmt"

	"github.com/jvasti/new-pkl/pkg/types"
)

// evalFields evaluates an ordered field map into an object. Field values
// resolve identifiers against the top-level table: the namespace is flat,
// nested objects do not open a new scope.
func (t *Table) evalFields(fields *types.FieldMap) (types.Object, error) {
	obj := make(types.Object, fields.Len())
	for _, name := range fields.Names() {
		expr, _ := fields.Get(name)
		value, err := t.Evaluate(expr)
		if err != nil {
			return nil, err
		}
		obj[name] = value
	}
	return obj, nil
}

// evalList evaluates a list literal element by element.
func (t *Table) evalList(lit *types.ListLit) (types.List, error) {
	out := make(types.List, 0, len(lit.Elems))
	for _, elem := range lit.Elems {
		value, err := t.Evaluate(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// evalClass evaluates a class instantiation. The field map is evaluated
// exactly like a plain object; the class name rides along as a tag.
func (t *Table) evalClass(lit *types.ClassLit) (types.Value, error) {
	fields, err := t.evalFields(lit.Fields)
	if err != nil {
		return nil, err
	}
	return &types.ClassInstance{Name: lit.Name, Fields: fields}, nil
}

// evalAmending evaluates (base) { ... }: the named binding must already
// hold an object; its fields are cloned and the block's fields overlaid,
// last write winning per key.
func (t *Table) evalAmending(lit *types.AmendingObject) (types.Value, error) {
	base, ok := t.vars[lit.Base]
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("Unknown object `%s`", lit.Base), lit.Sp).WithToken(lit.Base)
	}
	baseObj, ok := base.(types.Object)
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("Unknown object `%s`", lit.Base), lit.Sp).WithToken(lit.Base)
	}
	return t.overlay(baseObj, lit.Fields)
}

// evalAmended evaluates { ... } { ... } chains. The parser only builds
// AmendedObject nodes over object-shaped bases, so a non-object base value
// here is an internal invariant violation.
func (t *Table) evalAmended(lit *types.AmendedObject) (types.Value, error) {
	base, err := t.Evaluate(lit.Base)
	if err != nil {
		return nil, err
	}
	baseObj, ok := base.(types.Object)
	if !ok {
		panic(fmt.Sprintf("evaluator: amended object base evaluated to %s, expected Object", base.Kind()))
	}
	return t.overlay(baseObj, lit.Fields)
}

// overlay clones the base object and writes the evaluated fields over it.
func (t *Table) overlay(base types.Object, fields *types.FieldMap) (types.Object, error) {
	out := base.Clone()
	for _, name := range fields.Names() {
		expr, _ := fields.Get(name)
		value, err := t.Evaluate(expr)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}
