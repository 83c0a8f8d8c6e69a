package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	s := NewSpan(3, 8)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, "3..8", s.String())
	assert.False(t, s.IsZero())
	assert.True(t, Span{}.IsZero())

	joined := s.To(NewSpan(10, 14))
	assert.Equal(t, NewSpan(3, 14), joined)
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrUnknownVariable, "Unknown variable `x`", NewSpan(4, 5))
	assert.Equal(t, "E0301 at 4..5: Unknown variable `x`", err.Error())

	spanless := NewError(ErrNotFound, "Variable `x` not found", Span{})
	assert.Equal(t, "A0401: Variable `x` not found", spanless.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := NewError(ErrSyntaxGlobal, "unexpected token", NewSpan(0, 1))
	err := NewError(ErrImportRead, "import failed", NewSpan(0, 10)).WithCause(cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestFieldMapOrderAndOverwrite(t *testing.T) {
	m := NewFieldMap()
	m.Set("a", &IntLit{Value: 1})
	m.Set("b", &IntLit{Value: 2})
	m.Set("a", &IntLit{Value: 3})

	assert.Equal(t, []string{"a", "b"}, m.Names())
	assert.Equal(t, 2, m.Len())

	expr, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), expr.(*IntLit).Value)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "Boolean", KindBool.String())
	assert.Equal(t, "Int", KindInt.String())
	assert.Equal(t, "Float", KindFloat.String())
	assert.Equal(t, "String", KindString.String())
	assert.Equal(t, "Duration", KindDuration.String())
	assert.Equal(t, "DataSize", KindDataSize.String())
}

func TestObjectClone(t *testing.T) {
	base := Object{"a": Int(1)}
	clone := base.Clone()
	clone["a"] = Int(2)
	clone["b"] = Int(3)

	assert.Equal(t, Int(1), base["a"])
	assert.NotContains(t, base, "b")
}

func TestDurationSeconds(t *testing.T) {
	d := &Duration{Secs: 3, Value: Int(-3), Unit: UnitSeconds, Negative: true}
	assert.Equal(t, float64(-3), d.Seconds())
	assert.Equal(t, "-3.s", d.String())

	p := &Duration{Secs: 600, Value: Int(10), Unit: UnitMinutes}
	assert.Equal(t, float64(600), p.Seconds())
}

func TestParseDurationUnit(t *testing.T) {
	unit, ok := ParseDurationUnit("MIN")
	require.True(t, ok)
	assert.Equal(t, UnitMinutes, unit)

	_, ok = ParseDurationUnit("fortnight")
	assert.False(t, ok)
}

func TestParseDataUnit(t *testing.T) {
	unit, ok := ParseDataUnit("GiB")
	require.True(t, ok)
	assert.Equal(t, UnitGibibytes, unit)

	_, ok = ParseDataUnit("bits")
	assert.False(t, ok)
}

func TestDataSizeString(t *testing.T) {
	s := &DataSize{Count: 3_000_000, Value: Int(3), Unit: UnitMegabytes}
	assert.Equal(t, int64(3_000_000), s.Bytes())
	assert.Equal(t, "3.mb", s.String())
}
