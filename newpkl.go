// Package newpkl is an embeddable interpreter for a declarative,
// JSON-superset configuration language.
//
// A document is a newline-separated sequence of constant bindings and
// imports. Parsing and evaluation are a three-stage pipeline: the
// tokenizer and recursive descent parser live in pkg/parser, the table
// evaluator in pkg/evaluator, and the shared data model (spans, errors,
// AST, values) in pkg/types. This package is the facade tying them
// together:
//
//	p := newpkl.New()
//	if err := p.Parse(`retries = 3`); err != nil { ... }
//	retries, err := p.GetInt("retries")
package newpkl

import (
	"fmt"

	"github.com/jvasti/new-pkl/pkg/evaluator"
	"github.com/jvasti/new-pkl/pkg/parser"
	"github.com/jvasti/new-pkl/pkg/types"
)

// Option configures the interpreter. Options forward to the evaluator.
type Option = evaluator.Option

// Re-exported evaluator options.
var (
	WithLogger         = evaluator.WithLogger
	WithDebug          = evaluator.WithDebug
	WithImporter       = evaluator.WithImporter
	WithBaseDir        = evaluator.WithBaseDir
	WithMaxImportDepth = evaluator.WithMaxImportDepth
)

// Pkl is an interpreter instance holding the evaluated table of the most
// recent Parse call. A Pkl is not safe for concurrent use.
type Pkl struct {
	opts  []Option
	table *evaluator.Table
}

// New creates an interpreter with an empty table.
func New(opts ...Option) *Pkl {
	return &Pkl{
		opts:  opts,
		table: evaluator.New(opts...),
	}
}

// Parse tokenizes, parses and evaluates a document, replacing the current
// table. On failure the previous table is kept.
func (p *Pkl) Parse(src string) error {
	stmts, err := parser.Parse(src)
	if err != nil {
		return err
	}
	table := evaluator.New(p.opts...)
	if err := table.Execute(stmts); err != nil {
		return err
	}
	p.table = table
	return nil
}

// MustParse is like New followed by Parse, panicking on error. Intended
// for static documents in tests and initialization code.
func MustParse(src string, opts ...Option) *Pkl {
	p := New(opts...)
	if err := p.Parse(src); err != nil {
		panic(fmt.Sprintf("newpkl: %v", err))
	}
	return p
}

// GenerateAST tokenizes and parses a document without evaluating it,
// returning the statement sequence.
func GenerateAST(src string) ([]types.Statement, error) {
	return parser.Parse(src)
}

// Get returns the value bound to name.
func (p *Pkl) Get(name string) (types.Value, error) {
	value, ok := p.table.Get(name)
	if !ok {
		return nil, types.NewError(types.ErrNotFound,
			fmt.Sprintf("Variable `%s` not found", name), types.Span{})
	}
	return value, nil
}

// GetBool returns the boolean bound to name.
func (p *Pkl) GetBool(name string) (bool, error) {
	value, err := p.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := value.(types.Bool)
	if !ok {
		return false, wrongType(name, "a boolean")
	}
	return bool(b), nil
}

// GetInt returns the integer bound to name.
func (p *Pkl) GetInt(name string) (int64, error) {
	value, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	i, ok := value.(types.Int)
	if !ok {
		return 0, wrongType(name, "an integer")
	}
	return int64(i), nil
}

// GetFloat returns the float bound to name.
func (p *Pkl) GetFloat(name string) (float64, error) {
	value, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := value.(types.Float)
	if !ok {
		return 0, wrongType(name, "a float")
	}
	return float64(f), nil
}

// GetString returns the string bound to name. Multiline string literals
// evaluate to ordinary strings and are returned the same way.
func (p *Pkl) GetString(name string) (string, error) {
	value, err := p.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := value.(types.String)
	if !ok {
		return "", wrongType(name, "a string")
	}
	return string(s), nil
}

// GetObject returns the object bound to name.
func (p *Pkl) GetObject(name string) (types.Object, error) {
	value, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(types.Object)
	if !ok {
		return nil, wrongType(name, "an object")
	}
	return obj, nil
}

// Set binds name to value, overwriting any previous binding.
func (p *Pkl) Set(name string, value types.Value) {
	p.table.Set(name, value)
}

// Remove deletes a binding. It reports whether the name was bound.
func (p *Pkl) Remove(name string) bool {
	return p.table.Remove(name)
}

// Names returns the bound names in first-insertion order.
func (p *Pkl) Names() []string {
	return p.table.Names()
}

// Table exposes the underlying evaluation table.
func (p *Pkl) Table() *evaluator.Table {
	return p.table
}

func wrongType(name, want string) *types.Error {
	return types.NewError(types.ErrWrongType,
		fmt.Sprintf("Variable `%s` is not %s", name, want), types.Span{})
}
