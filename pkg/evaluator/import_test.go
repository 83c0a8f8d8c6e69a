package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvasti/new-pkl/pkg/types"
)

// mapImporter serves documents from an in-memory path map.
func mapImporter(files map[string]string) Importer {
	return ImporterFunc(func(path string) (string, error) {
		src, ok := files[filepath.ToSlash(path)]
		if !ok {
			return "", fmt.Errorf("no such file %q", path)
		}
		return src, nil
	})
}

func TestImportMergesBindings(t *testing.T) {
	files := map[string]string{"lib.pkl": "x = 1\ny = 2"}
	table := evalSource(t, "import \"lib.pkl\"\nz = x", WithImporter(mapImporter(files)))

	assert.Equal(t, types.Int(1), mustGet(t, table, "x"))
	assert.Equal(t, types.Int(2), mustGet(t, table, "y"))
	assert.Equal(t, types.Int(1), mustGet(t, table, "z"))
	assert.Equal(t, []string{"x", "y", "z"}, table.Names())
}

func TestImportedBindingCanBeAmended(t *testing.T) {
	files := map[string]string{"lib.pkl": "base { a = 1 }"}
	table := evalSource(t, "import \"lib.pkl\"\nmine = (base) { b = 2 }",
		WithImporter(mapImporter(files)))

	mine := mustGet(t, table, "mine").(types.Object)
	assert.Equal(t, types.Int(1), mine["a"])
	assert.Equal(t, types.Int(2), mine["b"])
}

func TestImportWithAliasBindsObject(t *testing.T) {
	files := map[string]string{"lib.pkl": "x = 1\ny = 2"}
	table := evalSource(t, "import \"lib.pkl\" as lib\nv = lib.x",
		WithImporter(mapImporter(files)))

	_, ok := table.Get("x")
	assert.False(t, ok, "aliased import must not merge names directly")

	lib := mustGet(t, table, "lib").(types.Object)
	assert.Equal(t, types.Int(1), lib["x"])
	assert.Equal(t, types.Int(1), mustGet(t, table, "v"))
}

func TestImportAfterConstantFails(t *testing.T) {
	files := map[string]string{"lib.pkl": "x = 1"}
	err := evalFailure(t, "a = 1\nimport \"lib.pkl\"", WithImporter(mapImporter(files)))
	assert.Equal(t, types.ErrImportOrder, err.Code)
	assert.Contains(t, err.Message, "imports must appear before any constant")
}

func TestImportUnsupportedSchemes(t *testing.T) {
	for _, path := range []string{
		"package://registry/lib",
		"pkl:semver",
		"https://example.com/lib.pkl",
	} {
		err := evalFailure(t, fmt.Sprintf("import %q", path))
		assert.Equal(t, types.ErrImportScheme, err.Code, "path %q", path)
		assert.Contains(t, err.Message, "not yet supported", "path %q", path)
	}
}

func TestImportRelativePathsResolveAgainstImporter(t *testing.T) {
	files := map[string]string{
		"conf/main.pkl":      "import \"sub/extra.pkl\"\ntop = inner",
		"conf/sub/extra.pkl": "inner = 42",
	}
	table := evalSource(t, "import \"conf/main.pkl\"", WithImporter(mapImporter(files)))
	assert.Equal(t, types.Int(42), mustGet(t, table, "top"))
}

func TestImportCycleDetected(t *testing.T) {
	files := map[string]string{
		"a.pkl": "import \"b.pkl\"",
		"b.pkl": "import \"a.pkl\"",
	}
	err := evalFailure(t, "import \"a.pkl\"", WithImporter(mapImporter(files)))
	assert.Equal(t, types.ErrImportCycle, err.Code)
	assert.Contains(t, err.Message, "import cycle detected")
}

func TestImportSelfCycleDetected(t *testing.T) {
	files := map[string]string{"a.pkl": "import \"a.pkl\""}
	err := evalFailure(t, "import \"a.pkl\"", WithImporter(mapImporter(files)))
	assert.Equal(t, types.ErrImportCycle, err.Code)
}

func TestImportDiamondIsNotACycle(t *testing.T) {
	files := map[string]string{
		"a.pkl":      "import \"common.pkl\"\na = shared",
		"b.pkl":      "import \"common.pkl\"\nb = shared",
		"common.pkl": "shared = 1",
	}
	table := evalSource(t, "import \"a.pkl\"\nimport \"b.pkl\"",
		WithImporter(mapImporter(files)))
	assert.Equal(t, types.Int(1), mustGet(t, table, "a"))
	assert.Equal(t, types.Int(1), mustGet(t, table, "b"))
}

func TestImportMaxDepth(t *testing.T) {
	files := map[string]string{
		"a.pkl": "import \"b.pkl\"",
		"b.pkl": "import \"c.pkl\"",
		"c.pkl": "x = 1",
	}
	err := evalFailure(t, "import \"a.pkl\"",
		WithImporter(mapImporter(files)), WithMaxImportDepth(2))
	assert.Equal(t, types.ErrImportCycle, err.Code)
	assert.Contains(t, err.Message, "maximum import depth")
}

func TestImportReadFailure(t *testing.T) {
	err := evalFailure(t, "import \"missing.pkl\"", WithImporter(mapImporter(nil)))
	assert.Equal(t, types.ErrImportRead, err.Code)
	assert.Contains(t, err.Message, "cannot read import")
}

func TestImportParseFailureIsWrapped(t *testing.T) {
	files := map[string]string{"bad.pkl": "a = 1 b = 2"}
	err := evalFailure(t, "import \"bad.pkl\"", WithImporter(mapImporter(files)))
	assert.Equal(t, types.ErrImportRead, err.Code)

	cause, ok := err.Unwrap().(*types.Error)
	require.True(t, ok)
	assert.Equal(t, types.ErrSyntaxGlobal, cause.Code)
}

func TestFileImporter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.pkl"), []byte("x = 5"), 0o644))

	table := evalSource(t, "import \"lib.pkl\"\ny = x", WithBaseDir(dir))
	assert.Equal(t, types.Int(5), mustGet(t, table, "y"))
}
