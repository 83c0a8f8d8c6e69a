// Package evaluator turns a parsed statement sequence into a flat table of
// named values.
//
// Evaluation is strictly source-ordered: each constant may reference only
// names bound by earlier statements, and rebinding a name overwrites the
// previous value. Objects merge by clone-then-overlay, so amending a bound
// object never mutates the original binding. Builtin properties and
// methods (unit suffixes, the string and boolean APIs) dispatch on the
// runtime kind of the receiver.
package evaluator

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jvasti/new-pkl/pkg/types"
)

// DefaultMaxImportDepth bounds transitive import nesting.
const DefaultMaxImportDepth = 32

// Table is the evaluation result: a flat namespace of bindings in source
// order.
type Table struct {
	vars     map[string]types.Value
	order    []string
	logger   *slog.Logger
	importer Importer
	maxDepth int
	baseDir  string
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithDebug replaces the logger with one that emits debug-level records to
// stderr.
func WithDebug() Option {
	return func(t *Table) {
		t.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// WithImporter sets the loader used to resolve import statements.
func WithImporter(imp Importer) Option {
	return func(t *Table) {
		t.importer = imp
	}
}

// WithBaseDir sets the directory relative import paths resolve against.
func WithBaseDir(dir string) Option {
	return func(t *Table) {
		t.baseDir = dir
	}
}

// WithMaxImportDepth bounds transitive import nesting.
func WithMaxImportDepth(depth int) Option {
	return func(t *Table) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		vars:     make(map[string]types.Value),
		logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
		importer: FileImporter{},
		maxDepth: DefaultMaxImportDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute evaluates the statements in order, binding their results into
// the table. The first failing statement aborts evaluation.
func (t *Table) Execute(stmts []types.Statement) error {
	return t.execute(stmts, newImportState())
}

func (t *Table) execute(stmts []types.Statement, st *importState) error {
	seenConstant := false
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *types.ImportStmt:
			if seenConstant {
				return types.NewError(types.ErrImportOrder,
					"imports must appear before any constant", s.Sp)
			}
			if err := t.evalImport(s, st); err != nil {
				return err
			}

		case *types.Constant:
			seenConstant = true
			value, err := t.Evaluate(s.Value)
			if err != nil {
				return err
			}
			t.logger.Debug("bound constant", "name", s.Name, "kind", value.Kind().String())
			t.bind(s.Name, value)

		default:
			return types.NewError(types.ErrTypeMismatch,
				fmt.Sprintf("unsupported statement type %T", stmt), stmt.Span())
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the current bindings.
func (t *Table) Evaluate(expr types.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *types.BoolLit:
		return types.Bool(e.Value), nil
	case *types.IntLit:
		return types.Int(e.Value), nil
	case *types.FloatLit:
		return types.Float(e.Value), nil
	case *types.StringLit:
		return types.String(e.Value), nil
	case *types.MultilineStringLit:
		return types.String(e.Value), nil

	case *types.Identifier:
		value, ok := t.vars[e.Name]
		if !ok {
			return nil, types.NewError(types.ErrUnknownVariable,
				fmt.Sprintf("Unknown variable `%s`", e.Name), e.Sp).WithToken(e.Name)
		}
		return value, nil

	case *types.ListLit:
		return t.evalList(e)
	case *types.ObjectLit:
		return t.evalFields(e.Fields)
	case *types.ClassLit:
		return t.evalClass(e)
	case *types.AmendingObject:
		return t.evalAmending(e)
	case *types.AmendedObject:
		return t.evalAmended(e)

	case *types.Member:
		return t.evalMember(e)

	default:
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("unsupported expression type %T", expr), expr.Span())
	}
}

// bind sets a name, preserving first-insertion order across rebinds.
func (t *Table) bind(name string, value types.Value) {
	if _, ok := t.vars[name]; !ok {
		t.order = append(t.order, name)
	}
	t.vars[name] = value
}

// Get returns the value bound to name.
func (t *Table) Get(name string) (types.Value, bool) {
	v, ok := t.vars[name]
	return v, ok
}

// Set binds name to value, overwriting any previous binding.
func (t *Table) Set(name string, value types.Value) {
	t.bind(name, value)
}

// Remove deletes a binding. It reports whether the name was bound.
func (t *Table) Remove(name string) bool {
	if _, ok := t.vars[name]; !ok {
		return false
	}
	delete(t.vars, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the bound names in first-insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.vars)
}
