package parser

import "github.com/jvasti/new-pkl/pkg/types"

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Identifiers
	TokenBlankIdentifier   // _
	TokenIdentifier        // name
	TokenIllegalIdentifier // `name with spaces`

	// Literals
	TokenBool            // true, false
	TokenInt             // 123, 1_000, -42
	TokenHexInt          // 0xff
	TokenOctalInt        // 0o17
	TokenBinaryInt       // 0b1010
	TokenFloat           // 3.14, 1e-10, NaN, Infinity
	TokenString          // "hello"
	TokenMultilineString // """\n...\n"""

	// Punctuation
	TokenEqual        // =
	TokenBraceOpen    // {
	TokenBraceClose   // }
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenComma        // ,
	TokenDot          // .

	// Whitespace; spaces and newlines are real tokens because the parser
	// uses newlines as statement terminators.
	TokenSpace
	TokenNewline

	// Comments
	TokenLineComment  // // ...
	TokenDocComment   // /// ...
	TokenBlockComment // /* ... */

	// Keywords
	TokenNew    // new
	TokenImport // import
	TokenAs     // as
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenBlankIdentifier:
		return "_"
	case TokenIdentifier, TokenIllegalIdentifier:
		return "(identifier)"
	case TokenBool:
		return "(boolean)"
	case TokenInt, TokenHexInt, TokenOctalInt, TokenBinaryInt:
		return "(integer)"
	case TokenFloat:
		return "(float)"
	case TokenString:
		return "(string)"
	case TokenMultilineString:
		return "(multiline string)"
	case TokenEqual:
		return "="
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenSpace:
		return "(space)"
	case TokenNewline:
		return "(newline)"
	case TokenLineComment, TokenDocComment, TokenBlockComment:
		return "(comment)"
	case TokenNew:
		return "new"
	case TokenImport:
		return "import"
	case TokenAs:
		return "as"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token with its decoded payload and byte span.
// Value holds the decoded text for identifiers, strings and comments; Int
// and Float hold the converted numeric payload for the numeric token types.
type Token struct {
	Type  TokenType
	Value string
	Int   int64
	Float float64
	Span  types.Span
}
