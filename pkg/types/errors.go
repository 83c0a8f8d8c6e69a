package types

import "fmt"

// ErrorCode identifies an error class produced by the pipeline.
type ErrorCode string

// Error codes grouped by pipeline stage.
const (
	// L01xx: Tokenizer errors
	ErrStringNotClosed    ErrorCode = "L0101"
	ErrNameNotClosed      ErrorCode = "L0102"
	ErrNumberSyntax       ErrorCode = "L0103"
	ErrNumberOutOfRange   ErrorCode = "L0104"
	ErrUnsupportedEscape  ErrorCode = "L0105"
	ErrUnexpectedChar     ErrorCode = "L0106"
	ErrCommentNotClosed   ErrorCode = "L0107"
	ErrMultilineNotClosed ErrorCode = "L0108"

	// P02xx: Parser errors, sub-coded by grammatical context
	ErrSyntaxGlobal     ErrorCode = "P0201"
	ErrSyntaxConstant   ErrorCode = "P0202"
	ErrSyntaxExpression ErrorCode = "P0203"
	ErrSyntaxObject     ErrorCode = "P0204"
	ErrSyntaxAmended    ErrorCode = "P0205"
	ErrSyntaxClass      ErrorCode = "P0206"
	ErrSyntaxImport     ErrorCode = "P0207"
	ErrSyntaxMember     ErrorCode = "P0208"
	ErrSyntaxList       ErrorCode = "P0209"
	ErrUnexpectedEnd    ErrorCode = "P0210"

	// E03xx: Evaluation errors
	ErrUnknownVariable ErrorCode = "E0301"
	ErrUnknownField    ErrorCode = "E0302"
	ErrUnknownProperty ErrorCode = "E0303"
	ErrUnknownMethod   ErrorCode = "E0304"
	ErrTypeMismatch    ErrorCode = "E0305"
	ErrArgumentCount   ErrorCode = "E0306"
	ErrArgumentType    ErrorCode = "E0307"
	ErrBase64Decode    ErrorCode = "E0308"
	ErrInvalidUTF8     ErrorCode = "E0309"
	ErrImportScheme    ErrorCode = "E0310"
	ErrImportOrder     ErrorCode = "E0311"
	ErrImportCycle     ErrorCode = "E0312"
	ErrImportRead      ErrorCode = "E0313"
	ErrNotYetSupported ErrorCode = "E0314"

	// A04xx: Accessor errors
	ErrNotFound  ErrorCode = "A0401"
	ErrWrongType ErrorCode = "A0402"
)

// Error is a structured pipeline error: a message plus the byte span of the
// offending source text. Rendering it against the source (line/column
// mapping, caret diagrams) is the job of the diag package, not the core.
type Error struct {
	Code    ErrorCode
	Message string
	Span    Span
	Token   string
	Err     error
}

// NewError creates a new error with the given code, message and span.
func NewError(code ErrorCode, message string, span Span) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Span:    span,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Span, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
