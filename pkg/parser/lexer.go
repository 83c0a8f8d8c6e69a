package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jvasti/new-pkl/pkg/types"
)

const eof = -1

// Lexer converts a source buffer into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique: a cursor over the raw bytes with single-rune backup.
// The lexer is stateless beyond the cursor position, so the token
// sequence is lazy and restartable from any fresh Lexer.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided source buffer.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. Horizontal tabs and carriage returns are skipped
// without producing a token; spaces and newlines are real tokens because
// the parser uses newlines as statement terminators.
func (l *Lexer) Next() Token {
	l.skipIgnored()

	ch := l.nextRune()
	if ch == eof {
		return l.eofToken()
	}

	switch ch {
	case ' ':
		l.acceptAll(func(r rune) bool { return r == ' ' })
		return l.newToken(TokenSpace)
	case '\n':
		return l.newToken(TokenNewline)
	case '=':
		return l.newToken(TokenEqual)
	case '{':
		return l.newToken(TokenBraceOpen)
	case '}':
		return l.newToken(TokenBraceClose)
	case '(':
		return l.newToken(TokenParenOpen)
	case ')':
		return l.newToken(TokenParenClose)
	case '[':
		return l.newToken(TokenBracketOpen)
	case ']':
		return l.newToken(TokenBracketClose)
	case ',':
		return l.newToken(TokenComma)
	case '.':
		return l.newToken(TokenDot)
	case '"':
		return l.scanString()
	case '`':
		return l.scanQuotedIdentifier()
	case '/':
		return l.scanComment()
	case '-':
		return l.scanNumber(true)
	}

	if isDigit(ch) {
		l.backup()
		return l.scanNumber(false)
	}

	if ch == '$' || ch == '_' || isLetter(ch) {
		l.backup()
		return l.scanName()
	}

	return l.errorToken(types.ErrUnexpectedChar, fmt.Sprintf("unexpected character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanName reads an identifier, keyword or special float spelling.
// Identifiers follow (\$|_\d*)?[A-Za-z]\w* with an optional $ or _digits
// prefix; the bare underscore is the distinct blank identifier token.
func (l *Lexer) scanName() Token {
	switch {
	case l.acceptRune('$'):
		// $ prefix must be followed by a letter.
		if !l.accept(isLetter) {
			return l.errorToken(types.ErrUnexpectedChar, "invalid identifier")
		}
	case l.acceptRune('_'):
		l.acceptAll(isDigit)
		if !l.accept(isLetter) {
			// A lone underscore is the blank identifier; underscore
			// followed by anything but digits+letter is not a name.
			if l.current-l.start == 1 {
				return l.newToken(TokenBlankIdentifier)
			}
			return l.errorToken(types.ErrUnexpectedChar, "invalid identifier")
		}
	default:
		if !l.accept(isLetter) {
			return l.errorToken(types.ErrUnexpectedChar, "invalid identifier")
		}
	}
	l.acceptAll(isWordChar)

	t := l.newToken(TokenIdentifier)

	switch t.Value {
	case "true":
		t.Type = TokenBool
	case "false":
		t.Type = TokenBool
	case "new":
		t.Type = TokenNew
	case "import":
		t.Type = TokenImport
	case "as":
		t.Type = TokenAs
	case "NaN":
		t.Type = TokenFloat
		t.Float = math.NaN()
	case "Infinity":
		t.Type = TokenFloat
		t.Float = math.Inf(1)
	}

	return t
}

// scanNumber reads an integer or float literal. The leading minus sign has
// already been consumed when neg is true; it belongs to the literal, not to
// a separate unary operator. Underscore digit separators are stripped
// before conversion. Integer forms take priority over the float pattern:
// a trailing dot with no following digit is left for the member operator.
func (l *Lexer) scanNumber(neg bool) Token {
	if neg {
		// -Infinity is a float spelling, not a numeric literal.
		if l.accept(isLetter) {
			l.acceptAll(isWordChar)
			t := l.newToken(TokenFloat)
			if t.Value != "-Infinity" {
				return l.errorToken(types.ErrNumberSyntax, fmt.Sprintf("malformed number literal %q", t.Value))
			}
			t.Float = math.Inf(-1)
			return t
		}
		if !l.accept(isDigit) {
			return l.errorToken(types.ErrNumberSyntax, "expected digit after '-'")
		}
		l.backup()
	}

	// Prefixed-radix forms: 0x, 0o, 0b.
	if l.acceptRune('0') {
		if base, valid := l.radixPrefix(); base != 0 {
			if !l.accept(valid) {
				return l.errorToken(types.ErrNumberSyntax, "missing digits after radix prefix")
			}
			l.acceptAll(func(r rune) bool { return r == '_' || valid(r) })
			return l.radixToken(base, neg)
		}
	}

	isFloat := false
	l.acceptAll(isDigitSep)

	if l.acceptRune('.') {
		if !l.accept(isDigit) {
			// Not a fraction; the dot could start a member access like
			// 3.mb, so it is not part of this number.
			l.current-- // give back the '.'
			return l.intToken(neg)
		}
		isFloat = true
		l.acceptAll(isDigitSep)
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigitSep) {
			return l.errorToken(types.ErrNumberSyntax, "missing exponent digits")
		}
		isFloat = true
	}

	if isFloat {
		t := l.newToken(TokenFloat)
		f, err := strconv.ParseFloat(stripSeparators(t.Value), 64)
		if err != nil {
			return l.errorToken(types.ErrNumberOutOfRange, fmt.Sprintf("malformed float literal %q", t.Value))
		}
		t.Float = f
		return t
	}

	return l.intToken(neg)
}

// radixPrefix consumes a radix marker after an initial 0 and returns the
// base together with its digit predicate, or (0, nil) if none follows.
func (l *Lexer) radixPrefix() (int, func(rune) bool) {
	switch {
	case l.acceptRune('x'):
		return 16, isHexDigit
	case l.acceptRune('o'):
		return 8, isOctalDigit
	case l.acceptRune('b'):
		return 2, isBinaryDigit
	default:
		return 0, nil
	}
}

// radixToken converts the scanned prefixed-radix literal. The sign is
// applied after stripping the 0x/0o/0b marker.
func (l *Lexer) radixToken(base int, neg bool) Token {
	tt := TokenHexInt
	switch base {
	case 8:
		tt = TokenOctalInt
	case 2:
		tt = TokenBinaryInt
	}

	t := l.newToken(tt)
	digits := stripSeparators(t.Value)
	if neg {
		// Keep the sign on the digits so the most negative int64 parses.
		digits = "-" + digits[3:] // skip "-0x"
	} else {
		digits = digits[2:] // skip "0x"
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return l.errorAt(types.ErrNumberOutOfRange, fmt.Sprintf("integer literal %q out of range", t.Value), t.Span)
	}
	t.Int = v
	return t
}

// intToken converts the scanned decimal integer literal.
func (l *Lexer) intToken(neg bool) Token {
	t := l.newToken(TokenInt)
	v, err := strconv.ParseInt(stripSeparators(t.Value), 10, 64)
	if err != nil {
		return l.errorAt(types.ErrNumberOutOfRange, fmt.Sprintf("integer literal %q out of range", t.Value), t.Span)
	}
	t.Int = v
	return t
}

// scanString reads a string literal. The opening quote has already been
// consumed. A second immediate quote either closes an empty string or, if
// a third follows, opens a multiline string.
func (l *Lexer) scanString() Token {
	if l.acceptRune('"') {
		if l.acceptRune('"') {
			return l.scanMultilineString()
		}
		t := l.newToken(TokenString)
		t.Value = ""
		return t
	}
	return l.scanQuoted('"', TokenString, types.ErrStringNotClosed, "unterminated string literal")
}

// scanMultilineString reads a triple-quoted string. The content begins
// immediately after the line terminator that follows the opening quotes
// and ends at the line terminator that precedes the closing quotes; the
// bytes in between are taken verbatim, with no escape processing.
func (l *Lexer) scanMultilineString() Token {
	if !l.acceptRune('\n') {
		return l.errorToken(types.ErrMultilineNotClosed, `expected line break after """`)
	}

	contentStart := l.current
	end := strings.Index(l.input[l.current:], "\n\"\"\"")
	if end < 0 {
		l.current = l.length
		return l.errorToken(types.ErrMultilineNotClosed, "unterminated multiline string literal")
	}

	l.current = contentStart + end + len("\n\"\"\"")
	l.width = 0
	t := l.newToken(TokenMultilineString)
	t.Value = l.input[contentStart : contentStart+end]
	return t
}

// scanQuotedIdentifier reads a backtick-quoted illegal identifier: a name
// that is not a valid bare identifier (e.g. contains spaces). The opening
// backtick has already been consumed.
func (l *Lexer) scanQuotedIdentifier() Token {
	return l.scanQuoted('`', TokenIllegalIdentifier, types.ErrNameNotClosed, "unterminated quoted identifier")
}

// scanQuoted reads the remainder of a single-line quoted token, decoding
// the shared escape set: the delimiter itself, backslash, \b \n \f \r \t
// and \u{hex}.
func (l *Lexer) scanQuoted(delim rune, tt TokenType, code types.ErrorCode, unterminated string) Token {
	var b strings.Builder

	for {
		switch ch := l.nextRune(); ch {
		case delim:
			t := l.newToken(tt)
			t.Value = b.String()
			return t
		case '\\':
			r, ok := l.decodeEscape(delim)
			if !ok {
				return l.errorToken(types.ErrUnsupportedEscape, "unsupported escape sequence")
			}
			b.WriteRune(r)
		case eof, '\n':
			return l.errorToken(code, unterminated)
		default:
			b.WriteRune(ch)
		}
	}
}

// decodeEscape decodes the character after a backslash.
func (l *Lexer) decodeEscape(delim rune) (rune, bool) {
	switch ch := l.nextRune(); ch {
	case delim:
		return delim, true
	case '\\':
		return '\\', true
	case 'b':
		return '\b', true
	case 'n':
		return '\n', true
	case 'f':
		return '\f', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'u':
		if !l.acceptRune('{') {
			return 0, false
		}
		digitStart := l.current
		if !l.acceptAll(isHexDigit) {
			return 0, false
		}
		digits := l.input[digitStart:l.current]
		if !l.acceptRune('}') {
			return 0, false
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, false
		}
		return rune(v), true
	default:
		return 0, false
	}
}

// scanComment reads a line, doc or block comment. The opening slash has
// already been consumed. There is no division operator in this language,
// so a slash that does not open a comment is an error.
func (l *Lexer) scanComment() Token {
	switch {
	case l.acceptRune('/'):
		tt := TokenLineComment
		if l.acceptRune('/') {
			tt = TokenDocComment
		}
		for {
			ch := l.nextRune()
			if ch == eof {
				break
			}
			if ch == '\n' {
				l.backup()
				break
			}
		}
		return l.newToken(tt)
	case l.acceptRune('*'):
		for {
			ch := l.nextRune()
			if ch == eof {
				return l.errorToken(types.ErrCommentNotClosed, "unterminated block comment")
			}
			if ch == '*' && l.acceptRune('/') {
				return l.newToken(TokenBlockComment)
			}
		}
	default:
		return l.errorToken(types.ErrUnexpectedChar, "unexpected character '/'")
	}
}

// Helper methods

func (l *Lexer) eofToken() Token {
	return Token{
		Type: TokenEOF,
		Span: types.NewSpan(l.current, l.current),
	}
}

func (l *Lexer) errorToken(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	return l.errorAt(code, message, t.Span)
}

func (l *Lexer) errorAt(code types.ErrorCode, message string, span types.Span) Token {
	l.err = types.NewError(code, message, span).WithToken(l.input[span.Start:min(span.End, l.length)])
	return Token{Type: TokenError, Span: span}
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:  tt,
		Value: l.input[l.start:l.current],
		Span:  types.NewSpan(l.start, l.current),
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipIgnored skips horizontal tabs and carriage returns, which never
// produce a token.
func (l *Lexer) skipIgnored() {
	l.acceptAll(func(r rune) bool { return r == '\t' || r == '\r' })
	l.start = l.current
}

// Character classification functions

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigitSep(r rune) bool {
	return isDigit(r) || r == '_'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordChar(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}

func stripSeparators(s string) string {
	if !strings.ContainsRune(s, '_') {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}
