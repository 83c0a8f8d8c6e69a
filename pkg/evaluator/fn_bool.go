package evaluator

import "github.com/jvasti/new-pkl/pkg/types"

func init() {
	registerMethod(&methodDef{
		Name:     "xor",
		Receiver: types.KindBool,
		Params:   []types.Kind{types.KindBool},
		Impl: func(recv types.Value, args []types.Value) (types.Value, error) {
			return types.Bool(bool(recv.(types.Bool)) != bool(args[0].(types.Bool))), nil
		},
	})

	registerMethod(&methodDef{
		Name:     "implies",
		Receiver: types.KindBool,
		Params:   []types.Kind{types.KindBool},
		Impl: func(recv types.Value, args []types.Value) (types.Value, error) {
			return types.Bool(!bool(recv.(types.Bool)) || bool(args[0].(types.Bool))), nil
		},
	})
}
