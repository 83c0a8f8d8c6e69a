package types

import "fmt"

// Span is a half-open byte range [Start, End) into the original source
// buffer. Every token, AST node and error carries one so that callers can
// map failures back to source text. Spans are only meaningful against the
// buffer they were produced from.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// To returns the smallest span covering both s and other.
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsZero reports whether the span is the zero-length placeholder used by
// accessors that have no parse-time span available.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// String returns the span in "start..end" form.
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
