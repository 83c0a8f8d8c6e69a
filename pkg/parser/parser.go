// Package parser implements the tokenizer and the hand-written recursive
// descent parser for the configuration language.
//
// The parser consumes the token sequence produced by the Lexer and builds
// an ordered sequence of top-level statements, each a span-annotated
// expression tree. Statement boundaries are newline-significant: a new
// binding may begin only immediately after a newline token, which is why
// the lexer preserves space and newline tokens instead of discarding them.
//
// Several object grammars are context-sensitive and parsed by dedicated
// productions: plain objects, object amendment ((base) { ... }), chained
// amendment ({ ... } { ... }, detected at statement level only), class
// instantiation (new Name { ... }) and member-access chains. Error
// messages carry the grammatical context active when the unexpected token
// was seen; the first syntax error aborts the whole parse.
package parser

import (
	"fmt"

	"github.com/jvasti/new-pkl/pkg/types"
)

// Parse tokenizes and parses a document, returning its top-level
// statements in source order. On failure it returns a *types.Error with
// the byte span of the offending token.
func Parse(src string) ([]types.Statement, error) {
	return NewParser(src).Parse()
}

// Parser implements a recursive descent parser over the token stream.
type Parser struct {
	lexer *Lexer
	tok   Token
}

// NewParser creates a new parser for the given source buffer.
func NewParser(src string) *Parser {
	p := &Parser{lexer: NewLexer(src)}
	p.advance()
	return p
}

// Parse parses the entire document.
func (p *Parser) Parse() ([]types.Statement, error) {
	var stmts []types.Statement
	atNewline := true

	for {
		switch p.tok.Type {
		case TokenEOF:
			return stmts, nil

		case TokenError:
			return nil, p.lexer.Error()

		case TokenSpace, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenNewline:
			atNewline = true
			p.advance()

		case TokenImport:
			if !atNewline {
				return nil, p.errorf(types.ErrSyntaxGlobal, "unexpected token here (context: global), expected newline")
			}
			stmt, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			atNewline = false

		case TokenIdentifier, TokenIllegalIdentifier:
			if !atNewline {
				return nil, p.errorf(types.ErrSyntaxGlobal, "unexpected token here (context: global), expected newline")
			}
			name, nameSpan := p.tok.Value, p.tok.Span
			p.advance()
			stmt, err := p.parseConstant(name, nameSpan)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			atNewline = false

		case TokenBraceOpen:
			// A brace at statement level chains another amendment block
			// onto the previous object-shaped constant.
			stmt, ok := lastConstant(stmts)
			if !ok {
				return nil, p.errorf(types.ErrSyntaxGlobal, "unexpected token here (context: global)")
			}
			base, ok := stmt.Value.(types.AstValue)
			if !ok || !isObjectShaped(base) {
				return nil, p.errorf(types.ErrSyntaxGlobal, "unexpected token here (context: global)")
			}
			open := p.tok.Span
			p.advance()
			fields, bodySpan, err := p.parseObjectBody(open)
			if err != nil {
				return nil, err
			}
			stmt.Value = &types.AmendedObject{
				Base:   base,
				Fields: fields,
				Sp:     base.Span().To(bodySpan),
			}
			stmt.Sp = stmt.Sp.To(bodySpan)
			atNewline = false

		default:
			return nil, p.errorf(types.ErrSyntaxGlobal, "unexpected token here (context: statement)")
		}
	}
}

// parseImport parses an import statement. The import keyword is the
// current token. Surface syntax: import "<path>" [as alias].
func (p *Parser) parseImport() (*types.ImportStmt, error) {
	start := p.tok.Span
	p.advance()
	p.skipSpaces()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenString {
		return nil, p.errorf(types.ErrSyntaxImport, "expected import path string (context: import)")
	}
	stmt := &types.ImportStmt{Path: p.tok.Value, Sp: start.To(p.tok.Span)}
	p.advance()
	p.skipSpaces()

	if p.tok.Type == TokenAs {
		p.advance()
		p.skipSpaces()
		if err := p.checkLex(); err != nil {
			return nil, err
		}
		if p.tok.Type != TokenIdentifier && p.tok.Type != TokenIllegalIdentifier {
			return nil, p.errorf(types.ErrSyntaxImport, "expected identifier after 'as' (context: import)")
		}
		stmt.Alias = p.tok.Value
		stmt.Sp = stmt.Sp.To(p.tok.Span)
		p.advance()
	}

	return stmt, nil
}

// parseConstant parses the remainder of a constant binding after its name:
// either '=' followed by an expression, or a brace-opened object body that
// implicitly becomes the binding's value.
func (p *Parser) parseConstant(name string, nameSpan types.Span) (*types.Constant, error) {
	for {
		switch p.tok.Type {
		case TokenEqual:
			p.advance()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &types.Constant{Name: name, Value: expr, Sp: nameSpan.To(expr.Span())}, nil

		case TokenBraceOpen:
			open := p.tok.Span
			p.advance()
			fields, span, err := p.parseObjectBody(open)
			if err != nil {
				return nil, err
			}
			obj := &types.ObjectLit{Fields: fields, Sp: span}
			return &types.Constant{Name: name, Value: obj, Sp: nameSpan.To(span)}, nil

		case TokenSpace, TokenNewline, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenError:
			return nil, p.lexer.Error()

		case TokenEOF:
			return nil, p.errorf(types.ErrUnexpectedEnd, "expected '='")

		default:
			return nil, p.errorf(types.ErrSyntaxConstant, "unexpected token here (context: constant)")
		}
	}
}

// parseExpr parses an expression where a value is expected, including any
// trailing member-access chain.
func (p *Parser) parseExpr() (types.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseMemberChain(expr)
}

// parsePrimary parses a single value-position expression.
func (p *Parser) parsePrimary() (types.Expr, error) {
	for {
		tok := p.tok
		switch tok.Type {
		case TokenBool:
			p.advance()
			return &types.BoolLit{Value: tok.Value == "true", Sp: tok.Span}, nil

		case TokenInt, TokenHexInt, TokenOctalInt, TokenBinaryInt:
			p.advance()
			return &types.IntLit{Value: tok.Int, Sp: tok.Span}, nil

		case TokenFloat:
			p.advance()
			return &types.FloatLit{Value: tok.Float, Sp: tok.Span}, nil

		case TokenString:
			p.advance()
			return &types.StringLit{Value: tok.Value, Sp: tok.Span}, nil

		case TokenMultilineString:
			p.advance()
			return &types.MultilineStringLit{Value: tok.Value, Sp: tok.Span}, nil

		case TokenIdentifier, TokenIllegalIdentifier:
			p.advance()
			return &types.Identifier{Name: tok.Value, Sp: tok.Span}, nil

		case TokenNew:
			return p.parseClassInstance()

		case TokenParenOpen:
			return p.parseAmendingObject()

		case TokenBraceOpen:
			open := tok.Span
			p.advance()
			fields, span, err := p.parseObjectBody(open)
			if err != nil {
				return nil, err
			}
			return &types.ObjectLit{Fields: fields, Sp: span}, nil

		case TokenBracketOpen:
			return p.parseList()

		case TokenSpace, TokenNewline, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenError:
			return nil, p.lexer.Error()

		case TokenEOF:
			return nil, p.errorf(types.ErrUnexpectedEnd, "empty expressions are not allowed")

		default:
			return nil, p.errorf(types.ErrSyntaxExpression, "unexpected token here (context: expression)")
		}
	}
}

// parseMemberChain parses any trailing .name or .name(args) accesses.
// Chains nest left-associatively. A newline ends the chain: the next dot
// must appear on the same physical line as the base.
func (p *Parser) parseMemberChain(base types.Expr) (types.Expr, error) {
	for {
		p.skipSpaces()
		if p.tok.Type != TokenDot {
			return base, nil
		}
		p.advance()
		p.skipSpaces()

		if err := p.checkLex(); err != nil {
			return nil, err
		}
		if p.tok.Type != TokenIdentifier && p.tok.Type != TokenIllegalIdentifier {
			return nil, p.errorf(types.ErrSyntaxMember, "expected property name after '.' (context: member)")
		}
		member := &types.Member{
			Base: base,
			Name: p.tok.Value,
			Sp:   base.Span().To(p.tok.Span),
		}
		p.advance()
		p.skipSpaces()

		if p.tok.Type == TokenParenOpen {
			args, closeSpan, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			member.Args = args
			member.HasArgs = true
			member.Sp = base.Span().To(closeSpan)
		}

		base = member
	}
}

// parseArguments parses a parenthesized, comma-separated argument list.
// The open parenthesis is the current token.
func (p *Parser) parseArguments() ([]types.Expr, types.Span, error) {
	p.advance()
	args := []types.Expr{}
	needSep := false

	for {
		switch p.tok.Type {
		case TokenParenClose:
			closeSpan := p.tok.Span
			p.advance()
			return args, closeSpan, nil

		case TokenComma:
			if !needSep {
				return nil, types.Span{}, p.errorf(types.ErrSyntaxMember, "unexpected token here (context: arguments)")
			}
			needSep = false
			p.advance()

		case TokenSpace, TokenNewline, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenError:
			return nil, types.Span{}, p.lexer.Error()

		case TokenEOF:
			return nil, types.Span{}, p.errorf(types.ErrUnexpectedEnd, "missing argument list close parenthesis")

		default:
			if needSep {
				return nil, types.Span{}, p.errorf(types.ErrSyntaxMember, "expected ',' between arguments (context: arguments)")
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, types.Span{}, err
			}
			args = append(args, arg)
			needSep = true
		}
	}
}

// parseObjectBody parses the fields of an object after its opening brace
// has been consumed. Fields are newline- or comma-separated; a field whose
// value is itself a plain object implicitly permits the next field without
// an explicit separator. Duplicate keys silently overwrite.
func (p *Parser) parseObjectBody(open types.Span) (*types.FieldMap, types.Span, error) {
	fields := types.NewFieldMap()
	isNewline := true

	for {
		switch p.tok.Type {
		case TokenIdentifier, TokenIllegalIdentifier:
			if !isNewline {
				return nil, types.Span{}, p.errorf(types.ErrSyntaxObject, "unexpected token here (context: object), expected newline or comma")
			}
			name := p.tok.Value
			p.advance()
			value, err := p.parseFieldValue()
			if err != nil {
				return nil, types.Span{}, err
			}
			_, isObject := value.(*types.ObjectLit)
			isNewline = isObject
			fields.Set(name, value)

		case TokenNewline, TokenComma:
			isNewline = true
			p.advance()

		case TokenSpace, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenBraceClose:
			closeSpan := p.tok.Span
			p.advance()
			return fields, open.To(closeSpan), nil

		case TokenError:
			return nil, types.Span{}, p.lexer.Error()

		case TokenEOF:
			return nil, types.Span{}, p.errorf(types.ErrSyntaxObject, "missing object close brace")

		default:
			return nil, types.Span{}, p.errorf(types.ErrSyntaxObject, "unexpected token here (context: object)")
		}
	}
}

// parseFieldValue parses the value of an object field after its name:
// '=' followed by an expression, or a nested object body.
func (p *Parser) parseFieldValue() (types.Expr, error) {
	for {
		switch p.tok.Type {
		case TokenEqual:
			p.advance()
			return p.parseExpr()

		case TokenBraceOpen:
			open := p.tok.Span
			p.advance()
			fields, span, err := p.parseObjectBody(open)
			if err != nil {
				return nil, err
			}
			return &types.ObjectLit{Fields: fields, Sp: span}, nil

		case TokenSpace, TokenNewline, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenError:
			return nil, p.lexer.Error()

		case TokenEOF:
			return nil, p.errorf(types.ErrUnexpectedEnd, "expected '='")

		default:
			return nil, p.errorf(types.ErrSyntaxConstant, "unexpected token here (context: constant)")
		}
	}
}

// parseAmendingObject parses (base) { ... }: fields layered onto a named,
// previously bound object. The open parenthesis is the current token.
func (p *Parser) parseAmendingObject() (types.Expr, error) {
	start := p.tok.Span
	p.advance()
	p.skipSpaces()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenIdentifier && p.tok.Type != TokenIllegalIdentifier {
		return nil, p.errorf(types.ErrSyntaxAmended, "expected identifier here (context: amended_object)")
	}
	baseName := p.tok.Value
	p.advance()
	p.skipSpaces()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenParenClose {
		return nil, p.errorf(types.ErrSyntaxAmended, "expected close parenthesis (context: amended_object)")
	}
	p.advance()
	p.skipTrivia()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenBraceOpen {
		if p.tok.Type == TokenEOF {
			return nil, p.errorf(types.ErrUnexpectedEnd, "expected open brace (context: amended_object)")
		}
		return nil, p.errorf(types.ErrSyntaxAmended, "expected open brace here (context: amended_object)")
	}
	open := p.tok.Span
	p.advance()

	fields, bodySpan, err := p.parseObjectBody(open)
	if err != nil {
		return nil, err
	}

	return &types.AmendingObject{
		Base:   baseName,
		Fields: fields,
		Sp:     start.To(bodySpan),
	}, nil
}

// parseClassInstance parses new Name { ... }. The new keyword is the
// current token.
func (p *Parser) parseClassInstance() (types.Expr, error) {
	start := p.tok.Span
	p.advance()
	p.skipTrivia()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenIdentifier && p.tok.Type != TokenIllegalIdentifier {
		if p.tok.Type == TokenEOF {
			return nil, p.errorf(types.ErrUnexpectedEnd, "expected identifier")
		}
		return nil, p.errorf(types.ErrSyntaxClass, "unexpected token here (context: class_instance), expected identifier")
	}
	className := p.tok.Value
	p.advance()
	p.skipTrivia()

	if err := p.checkLex(); err != nil {
		return nil, err
	}
	if p.tok.Type != TokenBraceOpen {
		if p.tok.Type == TokenEOF {
			return nil, p.errorf(types.ErrUnexpectedEnd, "expected open brace")
		}
		return nil, p.errorf(types.ErrSyntaxClass, "unexpected token here (context: class_instance), expected open brace")
	}
	open := p.tok.Span
	p.advance()

	fields, bodySpan, err := p.parseObjectBody(open)
	if err != nil {
		return nil, err
	}

	return &types.ClassLit{
		Name:   className,
		Fields: fields,
		Sp:     start.To(bodySpan),
	}, nil
}

// parseList parses a bracketed, comma- or newline-separated list literal.
// The open bracket is the current token.
func (p *Parser) parseList() (types.Expr, error) {
	start := p.tok.Span
	p.advance()
	elems := []types.Expr{}
	needSep := false

	for {
		switch p.tok.Type {
		case TokenBracketClose:
			closeSpan := p.tok.Span
			p.advance()
			return &types.ListLit{Elems: elems, Sp: start.To(closeSpan)}, nil

		case TokenComma:
			if !needSep {
				return nil, p.errorf(types.ErrSyntaxList, "unexpected token here (context: list)")
			}
			needSep = false
			p.advance()

		case TokenNewline:
			needSep = false
			p.advance()

		case TokenSpace, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()

		case TokenError:
			return nil, p.lexer.Error()

		case TokenEOF:
			return nil, p.errorf(types.ErrSyntaxList, "missing list close bracket")

		default:
			if needSep {
				return nil, p.errorf(types.ErrSyntaxList, "expected ',' or newline between list elements (context: list)")
			}
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			needSep = true
		}
	}
}

// Helper methods

// advance moves to the next token.
func (p *Parser) advance() {
	p.tok = p.lexer.Next()
}

// skipSpaces advances past space and comment tokens, but not newlines.
func (p *Parser) skipSpaces() {
	for {
		switch p.tok.Type {
		case TokenSpace, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()
		default:
			return
		}
	}
}

// skipTrivia advances past space, comment and newline tokens.
func (p *Parser) skipTrivia() {
	for {
		switch p.tok.Type {
		case TokenSpace, TokenNewline, TokenLineComment, TokenDocComment, TokenBlockComment:
			p.advance()
		default:
			return
		}
	}
}

// checkLex surfaces a pending lexer error.
func (p *Parser) checkLex() error {
	if p.tok.Type == TokenError {
		return p.lexer.Error()
	}
	return nil
}

// errorf creates a parser error at the current token.
func (p *Parser) errorf(code types.ErrorCode, format string, args ...interface{}) error {
	return types.NewError(code, fmt.Sprintf(format, args...), p.tok.Span).WithToken(p.tok.Value)
}

func lastConstant(stmts []types.Statement) (*types.Constant, bool) {
	if len(stmts) == 0 {
		return nil, false
	}
	c, ok := stmts[len(stmts)-1].(*types.Constant)
	return c, ok
}

func isObjectShaped(v types.AstValue) bool {
	switch v.(type) {
	case *types.ObjectLit, *types.AmendingObject, *types.AmendedObject:
		return true
	default:
		return false
	}
}
