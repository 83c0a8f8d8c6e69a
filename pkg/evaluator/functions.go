package evaluator

import (
	"fmt"

	"github.com/jvasti/new-pkl/pkg/types"
)

// methodDef describes a builtin method: its receiver kind, the exact
// parameter kinds it takes, and the implementation. Arity and argument
// type validation happens once, in callMethod, for every builtin.
type methodDef struct {
	Name     string
	Receiver types.Kind
	Params   []types.Kind
	Impl     func(recv types.Value, args []types.Value) (types.Value, error)
}

type methodKey struct {
	receiver types.Kind
	name     string
}

var methods = map[methodKey]*methodDef{}

func registerMethod(def *methodDef) {
	methods[methodKey{def.Receiver, def.Name}] = def
}

// callMethod validates and invokes a builtin method on a receiver value.
func callMethod(recv types.Value, name string, args []types.Value, span types.Span) (types.Value, error) {
	def, ok := methods[methodKey{recv.Kind(), name}]
	if !ok {
		return nil, types.NewError(types.ErrUnknownMethod,
			fmt.Sprintf("%s does not possess `%s` method", recv.Kind(), name), span).WithToken(name)
	}

	if len(args) != len(def.Params) {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("%s expects '%s' method to take exactly %d argument(s)",
				def.Receiver, def.Name, len(def.Params)), span).WithToken(name)
	}

	for i, want := range def.Params {
		if args[i].Kind() != want {
			return nil, types.NewError(types.ErrArgumentType,
				fmt.Sprintf("%s method expects argument at index %d to be of type %s, but found %s",
					def.Name, i, want, args[i].Kind()), span).WithToken(name)
		}
	}

	return def.Impl(recv, args)
}
