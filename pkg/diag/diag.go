// Package diag renders structured pipeline errors against their source
// text: it maps byte spans to line/column positions and produces caret
// diagrams suitable for terminal output.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/jvasti/new-pkl/pkg/types"
)

// Position is a 1-based line/column location in a source buffer.
type Position struct {
	Line   int
	Column int
}

// String returns the position in "line:column" form.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ComputeLineColumn maps a byte offset to its 1-based line and column.
// Offsets past the end of the buffer map to the position just after the
// last byte.
func ComputeLineColumn(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, b := range []byte(src[:offset]) {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// lineAt returns the full text of the line containing the byte offset,
// without its trailing newline, plus the offset of its first byte.
func lineAt(src string, offset int) (string, int) {
	if offset > len(src) {
		offset = len(src)
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		return src[start:], start
	}
	return src[start : start+end], start
}

// Render formats an error against its source buffer. Structured errors
// with a span produce a caret diagram pointing at the offending text;
// anything else renders as a plain message.
func Render(src string, err error) string {
	perr, ok := err.(*types.Error)
	if !ok {
		return err.Error()
	}

	red := color.New(color.FgRed, color.Bold)
	head := fmt.Sprintf("%s %s", red.Sprintf("error[%s]:", perr.Code), perr.Message)
	if perr.Span.IsZero() {
		return head
	}

	pos := ComputeLineColumn(src, perr.Span.Start)
	line, lineStart := lineAt(src, perr.Span.Start)

	caretLen := perr.Span.Len()
	if rest := len(line) - (perr.Span.Start - lineStart); caretLen > rest {
		caretLen = rest
	}
	if caretLen < 1 {
		caretLen = 1
	}

	gutter := fmt.Sprintf("%d | ", pos.Line)
	pad := strings.Repeat(" ", len(gutter)+pos.Column-1)
	caret := red.Sprint(strings.Repeat("^", caretLen))

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(fmt.Sprintf("\n --> %s\n", pos))
	b.WriteString(gutter + line + "\n")
	b.WriteString(pad + caret + "\n")
	return b.String()
}
