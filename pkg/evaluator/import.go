package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jvasti/new-pkl/pkg/parser"
	"github.com/jvasti/new-pkl/pkg/types"
)

// Importer loads the source text of an imported document. The path has
// already been resolved against the importing document's directory.
type Importer interface {
	Load(path string) (string, error)
}

// FileImporter reads imported documents from the local filesystem.
type FileImporter struct{}

// Load reads the file at path.
func (FileImporter) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImporterFunc adapts a plain function to the Importer interface.
type ImporterFunc func(path string) (string, error)

// Load calls the wrapped function.
func (f ImporterFunc) Load(path string) (string, error) {
	return f(path)
}

// unsupportedSchemes are recognized remote import forms that the evaluator
// refuses with a dedicated error rather than treating as file paths.
var unsupportedSchemes = []string{"package://", "pkl:", "https://", "http://"}

// importState tracks the resolved paths on the active import chain and the
// nesting depth, shared across the whole transitive evaluation.
type importState struct {
	visited map[string]bool
	depth   int
}

func newImportState() *importState {
	return &importState{visited: make(map[string]bool)}
}

// evalImport resolves and evaluates an import statement, then merges the
// imported bindings into the table. Without an alias the imported names
// join the current namespace directly; with one, the whole imported table
// binds as a single object under the alias.
func (t *Table) evalImport(stmt *types.ImportStmt, st *importState) error {
	for _, scheme := range unsupportedSchemes {
		if strings.HasPrefix(stmt.Path, scheme) {
			return types.NewError(types.ErrImportScheme,
				fmt.Sprintf("`%s` imports are not yet supported", strings.TrimSuffix(scheme, "//")),
				stmt.Sp).WithToken(stmt.Path)
		}
	}

	resolved := stmt.Path
	if t.baseDir != "" && !filepath.IsAbs(resolved) {
		resolved = filepath.Join(t.baseDir, resolved)
	}
	resolved = filepath.Clean(resolved)

	if st.visited[resolved] {
		return types.NewError(types.ErrImportCycle,
			fmt.Sprintf("import cycle detected at `%s`", stmt.Path), stmt.Sp).WithToken(stmt.Path)
	}
	if st.depth >= t.maxDepth {
		return types.NewError(types.ErrImportCycle,
			fmt.Sprintf("maximum import depth %d exceeded at `%s`", t.maxDepth, stmt.Path),
			stmt.Sp).WithToken(stmt.Path)
	}

	source, err := t.importer.Load(resolved)
	if err != nil {
		return types.NewError(types.ErrImportRead,
			fmt.Sprintf("cannot read import `%s`", stmt.Path), stmt.Sp).WithCause(err)
	}

	stmts, err := parser.Parse(source)
	if err != nil {
		// Spans inside the error refer to the imported source, not the
		// importing one; wrap so the caller sees which import failed.
		return types.NewError(types.ErrImportRead,
			fmt.Sprintf("import `%s` failed to parse", stmt.Path), stmt.Sp).WithCause(err)
	}

	t.logger.Debug("evaluating import", "path", resolved, "depth", st.depth+1)

	sub := &Table{
		vars:     make(map[string]types.Value),
		logger:   t.logger,
		importer: t.importer,
		maxDepth: t.maxDepth,
		baseDir:  filepath.Dir(resolved),
	}

	st.visited[resolved] = true
	st.depth++
	err = sub.execute(stmts, st)
	st.depth--
	delete(st.visited, resolved)
	if err != nil {
		return err
	}

	if stmt.Alias != "" {
		obj := make(types.Object, len(sub.vars))
		for name, value := range sub.vars {
			obj[name] = value
		}
		t.bind(stmt.Alias, obj)
		return nil
	}

	for _, name := range sub.order {
		t.bind(name, sub.vars[name])
	}
	return nil
}
