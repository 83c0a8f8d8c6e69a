// Package types defines the data model shared by the tokenizer, parser and
// evaluator: byte spans, structured errors, the span-annotated syntax tree
// and the evaluated value union.
package types

// Statement is a top-level statement in a document: either a constant
// binding or an import.
type Statement interface {
	Span() Span
	stmtNode()
}

// Constant is a top-level binding of a name to an expression.
type Constant struct {
	Name  string
	Value Expr
	Sp    Span
}

// ImportStmt brings the bindings of another document into the current one.
// An empty Alias merges the imported table into the current namespace; a
// non-empty Alias binds the imported table as a single object value.
type ImportStmt struct {
	Path  string
	Alias string
	Sp    Span
}

func (c *Constant) Span() Span   { return c.Sp }
func (c *Constant) stmtNode()    {}
func (i *ImportStmt) Span() Span { return i.Sp }
func (i *ImportStmt) stmtNode()  {}

// Expr is an expression tree node. An expression is either an unresolved
// identifier, a member access chain, or a literal/composite value.
type Expr interface {
	Span() Span
	exprNode()
}

// Identifier is a deferred reference to a previously bound name.
type Identifier struct {
	Name string
	Sp   Span
}

func (i *Identifier) Span() Span { return i.Sp }
func (i *Identifier) exprNode()  {}

// Member is a dot access on a base expression. It covers object field
// lookup, builtin scalar properties, unit-suffix literals like 3.mb, and
// method calls like flag.xor(other). Args is nil for plain property access;
// HasArgs distinguishes an empty call list from no call at all.
type Member struct {
	Base    Expr
	Name    string
	Args    []Expr
	HasArgs bool
	Sp      Span
}

func (m *Member) Span() Span { return m.Sp }
func (m *Member) exprNode()  {}

// AstValue is a literal or composite value in the syntax tree. Every
// AstValue is also an Expr.
type AstValue interface {
	Expr
	valueNode()
}

// BoolLit is a true or false literal.
type BoolLit struct {
	Value bool
	Sp    Span
}

// IntLit is an integer literal in any supported base.
type IntLit struct {
	Value int64
	Sp    Span
}

// FloatLit is a floating point literal, including NaN and the infinities.
type FloatLit struct {
	Value float64
	Sp    Span
}

// StringLit is a double-quoted string literal with escapes decoded.
type StringLit struct {
	Value string
	Sp    Span
}

// MultilineStringLit is a triple-quoted string literal, content verbatim.
type MultilineStringLit struct {
	Value string
	Sp    Span
}

// ListLit is a bracketed sequence of element expressions.
type ListLit struct {
	Elems []Expr
	Sp    Span
}

// ObjectLit is a plain object literal.
type ObjectLit struct {
	Fields *FieldMap
	Sp     Span
}

// ClassLit is a class instantiation: new Name { ... }. The field map is
// evaluated exactly like an object; the class name is carried as a tag.
type ClassLit struct {
	Name   string
	Fields *FieldMap
	Sp     Span
}

// AmendingObject layers fields onto a named, previously bound object:
// (base) { ... }.
type AmendingObject struct {
	Base   string
	Fields *FieldMap
	Sp     Span
}

// AmendedObject layers fields onto a freshly written, unnamed object value:
// { ... } { ... }. Chained blocks nest: the leftmost block is the innermost
// base, each following block wraps the previous result.
type AmendedObject struct {
	Base   AstValue
	Fields *FieldMap
	Sp     Span
}

func (v *BoolLit) Span() Span            { return v.Sp }
func (v *IntLit) Span() Span             { return v.Sp }
func (v *FloatLit) Span() Span           { return v.Sp }
func (v *StringLit) Span() Span          { return v.Sp }
func (v *MultilineStringLit) Span() Span { return v.Sp }
func (v *ListLit) Span() Span            { return v.Sp }
func (v *ObjectLit) Span() Span          { return v.Sp }
func (v *ClassLit) Span() Span           { return v.Sp }
func (v *AmendingObject) Span() Span     { return v.Sp }
func (v *AmendedObject) Span() Span      { return v.Sp }

func (v *BoolLit) exprNode()            {}
func (v *IntLit) exprNode()             {}
func (v *FloatLit) exprNode()           {}
func (v *StringLit) exprNode()          {}
func (v *MultilineStringLit) exprNode() {}
func (v *ListLit) exprNode()            {}
func (v *ObjectLit) exprNode()          {}
func (v *ClassLit) exprNode()           {}
func (v *AmendingObject) exprNode()     {}
func (v *AmendedObject) exprNode()      {}

func (v *BoolLit) valueNode()            {}
func (v *IntLit) valueNode()             {}
func (v *FloatLit) valueNode()           {}
func (v *StringLit) valueNode()          {}
func (v *MultilineStringLit) valueNode() {}
func (v *ListLit) valueNode()            {}
func (v *ObjectLit) valueNode()          {}
func (v *ClassLit) valueNode()           {}
func (v *AmendingObject) valueNode()     {}
func (v *AmendedObject) valueNode()      {}

// FieldMap is an ordered field-name to expression map used by object-shaped
// literals. Keys are unique: a repeated key within one literal overwrites
// the previous expression while keeping the original position, so that
// insertion order stays deterministic for re-serialization.
type FieldMap struct {
	names  []string
	values map[string]Expr
}

// NewFieldMap creates an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]Expr)}
}

// Set binds name to expr, overwriting any previous binding.
func (m *FieldMap) Set(name string, expr Expr) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = expr
}

// Get returns the expression bound to name.
func (m *FieldMap) Get(name string) (Expr, bool) {
	e, ok := m.values[name]
	return e, ok
}

// Names returns the field names in insertion order.
func (m *FieldMap) Names() []string {
	return m.names
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.names)
}
