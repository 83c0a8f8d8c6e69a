package diag

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvasti/new-pkl/pkg/parser"
	"github.com/jvasti/new-pkl/pkg/types"
)

func TestComputeLineColumn(t *testing.T) {
	src := "abc\ndef\nghi"

	assert.Equal(t, Position{Line: 1, Column: 1}, ComputeLineColumn(src, 0))
	assert.Equal(t, Position{Line: 1, Column: 3}, ComputeLineColumn(src, 2))
	assert.Equal(t, Position{Line: 2, Column: 1}, ComputeLineColumn(src, 4))
	assert.Equal(t, Position{Line: 3, Column: 2}, ComputeLineColumn(src, 9))
	assert.Equal(t, Position{Line: 3, Column: 4}, ComputeLineColumn(src, 99))
}

func TestRenderParseError(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	src := "a = 1 b = 2"
	_, err := parser.Parse(src)
	require.Error(t, err)

	out := Render(src, err)
	assert.Contains(t, out, "error[P0201]:")
	assert.Contains(t, out, "--> 1:7")
	assert.Contains(t, out, "1 | a = 1 b = 2")
	assert.Contains(t, out, "^")
}

func TestRenderMultilineSource(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	src := "a = 1\nb = missing"
	_, err := parser.Parse(src)
	require.NoError(t, err)

	perr := types.NewError(types.ErrUnknownVariable, "Unknown variable `missing`",
		types.NewSpan(10, 17))
	out := Render(src, perr)
	assert.Contains(t, out, "--> 2:5")
	assert.Contains(t, out, "2 | b = missing")
	assert.Contains(t, out, "^^^^^^^")
}

func TestRenderSpanlessError(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	perr := types.NewError(types.ErrNotFound, "Variable `x` not found", types.Span{})
	out := Render("", perr)
	assert.Equal(t, "error[A0401]: Variable `x` not found", out)
}

func TestRenderPlainError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "boom", Render("src", err))
}
