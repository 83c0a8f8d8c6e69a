package evaluator

import (
	"fmt"

	"github.com/jvasti/new-pkl/pkg/types"
)

// evalMember evaluates a dot access: object field lookup, builtin scalar
// properties (unit suffixes, string and duration introspection) or a
// method call when an argument list is present.
func (t *Table) evalMember(m *types.Member) (types.Value, error) {
	recv, err := t.Evaluate(m.Base)
	if err != nil {
		return nil, err
	}

	if m.HasArgs {
		args := make([]types.Value, 0, len(m.Args))
		for _, argExpr := range m.Args {
			arg, err := t.Evaluate(argExpr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return callMethod(recv, m.Name, args, m.Sp)
	}

	switch recv.Kind() {
	case types.KindObject:
		obj := recv.(types.Object)
		value, ok := obj[m.Name]
		if !ok {
			return nil, types.NewError(types.ErrUnknownField,
				fmt.Sprintf("Object does not possess a field `%s`", m.Name), m.Sp).WithToken(m.Name)
		}
		return value, nil

	case types.KindClassInstance:
		inst := recv.(*types.ClassInstance)
		value, ok := inst.Fields[m.Name]
		if !ok {
			return nil, types.NewError(types.ErrUnknownField,
				fmt.Sprintf("`%s` does not possess a field `%s`", inst.Name, m.Name), m.Sp).WithToken(m.Name)
		}
		return value, nil

	case types.KindInt, types.KindFloat:
		return numberProperty(recv, m.Name, m.Sp)

	case types.KindDuration:
		return durationProperty(recv.(*types.Duration), m.Name, m.Sp)

	case types.KindString:
		return stringProperty(string(recv.(types.String)), m.Name, m.Sp)

	default:
		return nil, types.NewError(types.ErrUnknownProperty,
			fmt.Sprintf("%s does not possess `%s` property", recv.Kind(), m.Name), m.Sp).WithToken(m.Name)
	}
}
