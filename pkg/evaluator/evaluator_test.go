package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvasti/new-pkl/pkg/parser"
	"github.com/jvasti/new-pkl/pkg/types"
)

func evalSource(t *testing.T, src string, opts ...Option) *Table {
	t.Helper()
	stmts, err := parser.Parse(src)
	require.NoError(t, err)
	table := New(opts...)
	require.NoError(t, table.Execute(stmts))
	return table
}

func evalFailure(t *testing.T, src string, opts ...Option) *types.Error {
	t.Helper()
	stmts, err := parser.Parse(src)
	require.NoError(t, err)
	table := New(opts...)
	err = table.Execute(stmts)
	require.Error(t, err)
	perr, ok := err.(*types.Error)
	require.True(t, ok, "expected *types.Error, got %T", err)
	return perr
}

func mustGet(t *testing.T, table *Table, name string) types.Value {
	t.Helper()
	value, ok := table.Get(name)
	require.True(t, ok, "missing binding %q", name)
	return value
}

func TestEvaluateLiterals(t *testing.T) {
	table := evalSource(t, `
flag = true
count = 42
ratio = 2.5
name = "widget"
`)
	assert.Equal(t, types.Bool(true), mustGet(t, table, "flag"))
	assert.Equal(t, types.Int(42), mustGet(t, table, "count"))
	assert.Equal(t, types.Float(2.5), mustGet(t, table, "ratio"))
	assert.Equal(t, types.String("widget"), mustGet(t, table, "name"))
}

func TestEvaluateIdentifierReference(t *testing.T) {
	table := evalSource(t, "a = 7\nb = a")
	assert.Equal(t, types.Int(7), mustGet(t, table, "b"))
}

func TestEvaluateForwardReferenceFails(t *testing.T) {
	err := evalFailure(t, "a = b\nb = 1")
	assert.Equal(t, types.ErrUnknownVariable, err.Code)
	assert.Contains(t, err.Message, "Unknown variable `b`")
}

func TestEvaluateRebindingOverwrites(t *testing.T) {
	table := evalSource(t, "a = 1\na = 2")
	assert.Equal(t, types.Int(2), mustGet(t, table, "a"))
	assert.Equal(t, []string{"a"}, table.Names())
}

func TestEvaluateObject(t *testing.T) {
	table := evalSource(t, "o { a = 1, b = \"x\" }")
	obj := mustGet(t, table, "o").(types.Object)
	assert.Equal(t, types.Int(1), obj["a"])
	assert.Equal(t, types.String("x"), obj["b"])
}

func TestEvaluateNestedObjectUsesFlatNamespace(t *testing.T) {
	table := evalSource(t, "base = 10\no { inner { v = base } }")
	obj := mustGet(t, table, "o").(types.Object)
	inner := obj["inner"].(types.Object)
	assert.Equal(t, types.Int(10), inner["v"])
}

func TestEvaluateList(t *testing.T) {
	table := evalSource(t, "l = [1, \"two\", true]")
	list := mustGet(t, table, "l").(types.List)
	require.Len(t, list, 3)
	assert.Equal(t, types.Int(1), list[0])
	assert.Equal(t, types.String("two"), list[1])
	assert.Equal(t, types.Bool(true), list[2])
}

func TestEvaluateClassInstance(t *testing.T) {
	table := evalSource(t, "cfg = new Server { port = 8080 }")
	inst := mustGet(t, table, "cfg").(*types.ClassInstance)
	assert.Equal(t, "Server", inst.Name)
	assert.Equal(t, types.Int(8080), inst.Fields["port"])
}

func TestAmendingLeavesBaseUnchanged(t *testing.T) {
	table := evalSource(t, "x { a = 1 }\ny = (x) { a = 2, b = 3 }")

	x := mustGet(t, table, "x").(types.Object)
	assert.Equal(t, types.Int(1), x["a"])
	assert.NotContains(t, x, "b")

	y := mustGet(t, table, "y").(types.Object)
	assert.Equal(t, types.Int(2), y["a"])
	assert.Equal(t, types.Int(3), y["b"])
}

func TestAmendingUnknownBase(t *testing.T) {
	err := evalFailure(t, "y = (x) { a = 1 }")
	assert.Equal(t, types.ErrTypeMismatch, err.Code)
	assert.Contains(t, err.Message, "Unknown object `x`")
}

func TestAmendingNonObjectBase(t *testing.T) {
	err := evalFailure(t, "n = 1\ny = (n) { a = 2 }")
	assert.Equal(t, types.ErrTypeMismatch, err.Code)
	assert.Contains(t, err.Message, "Unknown object `n`")
}

func TestChainedAmendmentLastWriteWins(t *testing.T) {
	table := evalSource(t, "o { a = 1 }\n{ a = 2 }\n{ b = 3 }")
	obj := mustGet(t, table, "o").(types.Object)
	assert.Equal(t, types.Int(2), obj["a"])
	assert.Equal(t, types.Int(3), obj["b"])
}

func TestObjectFieldAccess(t *testing.T) {
	table := evalSource(t, "o { a = 7 }\nb = o.a")
	assert.Equal(t, types.Int(7), mustGet(t, table, "b"))
}

func TestObjectFieldAccessUnknownField(t *testing.T) {
	err := evalFailure(t, "o { a = 7 }\nb = o.missing")
	assert.Equal(t, types.ErrUnknownField, err.Code)
	assert.Contains(t, err.Message, "does not possess a field `missing`")
}

func TestClassInstanceFieldAccess(t *testing.T) {
	table := evalSource(t, "cfg = new Server { port = 8080 }\np = cfg.port")
	assert.Equal(t, types.Int(8080), mustGet(t, table, "p"))
}

func TestDataSizeDecimalUnits(t *testing.T) {
	table := evalSource(t, "size = 3.mb")
	size := mustGet(t, table, "size").(*types.DataSize)
	assert.Equal(t, int64(3_000_000), size.Bytes())
	assert.Equal(t, types.UnitMegabytes, size.Unit)
}

func TestDataSizeBinaryUnits(t *testing.T) {
	table := evalSource(t, "disk = 5.gib")
	disk := mustGet(t, table, "disk").(*types.DataSize)
	assert.Equal(t, int64(5)*1024*1024*1024, disk.Bytes())
}

func TestDataSizeFractionTruncates(t *testing.T) {
	table := evalSource(t, "s = 1.5.kb")
	size := mustGet(t, table, "s").(*types.DataSize)
	assert.Equal(t, int64(1500), size.Bytes())

	table = evalSource(t, "s = 1.5.b")
	size = mustGet(t, table, "s").(*types.DataSize)
	assert.Equal(t, int64(1), size.Bytes())
}

func TestDurationUnits(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"d = 10.min", 600},
		{"d = 2.h", 7200},
		{"d = 1.d", 86400},
		{"d = 5.ms", 0.005},
		{"d = 250.ns", 250e-9},
		{"d = 3.s", 3},
	}
	for _, tt := range tests {
		table := evalSource(t, tt.src)
		dur := mustGet(t, table, "d").(*types.Duration)
		assert.InDelta(t, tt.want, dur.Seconds(), 1e-15, "src %q", tt.src)
	}
}

func TestDurationProperties(t *testing.T) {
	table := evalSource(t, `
d = 5.ms
v = d.value
u = d.unit
p = d.isPositive
`)
	assert.Equal(t, types.Int(5), mustGet(t, table, "v"))
	assert.Equal(t, types.String("ms"), mustGet(t, table, "u"))
	assert.Equal(t, types.Bool(true), mustGet(t, table, "p"))
}

func TestNegativeDuration(t *testing.T) {
	table := evalSource(t, "d = -3.s\np = d.isPositive")
	dur := mustGet(t, table, "d").(*types.Duration)
	assert.Equal(t, float64(-3), dur.Seconds())
	assert.Equal(t, types.Bool(false), mustGet(t, table, "p"))
}

func TestNumberUnknownProperty(t *testing.T) {
	err := evalFailure(t, "x = 3.lightyears")
	assert.Equal(t, types.ErrUnknownProperty, err.Code)
	assert.Contains(t, err.Message, "Int does not possess `lightyears` property")
}

func TestStringProperties(t *testing.T) {
	table := evalSource(t, `
s = "hello"
n = s.length
e = s.isEmpty
b = "  ".isBlank
enc = s.base64
`)
	assert.Equal(t, types.Int(5), mustGet(t, table, "n"))
	assert.Equal(t, types.Bool(false), mustGet(t, table, "e"))
	assert.Equal(t, types.Bool(true), mustGet(t, table, "b"))
	assert.Equal(t, types.String("aGVsbG8="), mustGet(t, table, "enc"))
}

func TestStringBase64RoundTrip(t *testing.T) {
	table := evalSource(t, "d = \"hello\".base64.base64Decoded")
	assert.Equal(t, types.String("hello"), mustGet(t, table, "d"))
}

func TestStringBase64DecodeInvalid(t *testing.T) {
	err := evalFailure(t, "d = \"not base64!\".base64Decoded")
	assert.Equal(t, types.ErrBase64Decode, err.Code)
}

func TestStringChars(t *testing.T) {
	table := evalSource(t, "c = \"ab\".chars")
	chars := mustGet(t, table, "c").(types.List)
	require.Len(t, chars, 2)
	assert.Equal(t, types.Char('a'), chars[0])
	assert.Equal(t, types.Char('b'), chars[1])
}

func TestStringCodePoints(t *testing.T) {
	table := evalSource(t, "c = \"Aé\".codePoints")
	points := mustGet(t, table, "c").(types.List)
	require.Len(t, points, 2)
	assert.Equal(t, types.Int('A'), points[0])
	assert.Equal(t, types.Int(0xe9), points[1])
}

func TestStringHashPropertiesNotYetSupported(t *testing.T) {
	err := evalFailure(t, "h = \"x\".sha256")
	assert.Equal(t, types.ErrNotYetSupported, err.Code)
	assert.Contains(t, err.Message, "not yet supported")
}

func TestStringUnknownProperty(t *testing.T) {
	err := evalFailure(t, "x = \"s\".volume")
	assert.Equal(t, types.ErrUnknownProperty, err.Code)
}

func TestStringLastIndex(t *testing.T) {
	table := evalSource(t, "i = \"hello\".lastIndex\nm = \"\".lastIndex")
	assert.Equal(t, types.Int(4), mustGet(t, table, "i"))
	assert.Equal(t, types.Int(-1), mustGet(t, table, "m"))
}

func TestBoolXor(t *testing.T) {
	table := evalSource(t, `
a = true.xor(false)
b = true.xor(true)
`)
	assert.Equal(t, types.Bool(true), mustGet(t, table, "a"))
	assert.Equal(t, types.Bool(false), mustGet(t, table, "b"))
}

func TestBoolImplies(t *testing.T) {
	table := evalSource(t, `
a = true.implies(false)
b = false.implies(false)
c = true.implies(true)
`)
	assert.Equal(t, types.Bool(false), mustGet(t, table, "a"))
	assert.Equal(t, types.Bool(true), mustGet(t, table, "b"))
	assert.Equal(t, types.Bool(true), mustGet(t, table, "c"))
}

func TestMethodArityValidation(t *testing.T) {
	err := evalFailure(t, "a = true.xor(false, true)")
	assert.Equal(t, types.ErrArgumentCount, err.Code)
	assert.Equal(t, "Boolean expects 'xor' method to take exactly 1 argument(s)", err.Message)
}

func TestMethodArgumentTypeValidation(t *testing.T) {
	err := evalFailure(t, "a = true.xor(1)")
	assert.Equal(t, types.ErrArgumentType, err.Code)
	assert.Equal(t, "xor method expects argument at index 0 to be of type Boolean, but found Int", err.Message)
}

func TestUnknownMethod(t *testing.T) {
	err := evalFailure(t, "a = true.frob(false)")
	assert.Equal(t, types.ErrUnknownMethod, err.Code)
	assert.Contains(t, err.Message, "Boolean does not possess `frob` method")
}

func TestMultilineStringEvaluatesToString(t *testing.T) {
	table := evalSource(t, "s = \"\"\"\nline1\nline2\n\"\"\"")
	assert.Equal(t, types.String("line1\nline2"), mustGet(t, table, "s"))
}

func TestTableSetRemove(t *testing.T) {
	table := evalSource(t, "a = 1\nb = 2")
	table.Set("c", types.Int(3))
	assert.Equal(t, []string{"a", "b", "c"}, table.Names())

	assert.True(t, table.Remove("b"))
	assert.False(t, table.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, table.Names())
	_, ok := table.Get("b")
	assert.False(t, ok)
}
