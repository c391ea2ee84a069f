package module_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/module"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestLoadResolvesDirectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.zero", `pub fn sq(x: int) -> int { return x * x; } fn secret() -> int { return 42; }`)

	l := module.NewLoader("zero", dir)
	m, err := l.Load("math")
	require.NoError(t, err)
	require.Len(t, m.Chunk.Block.Stmts, 2)
}

func TestLoadResolvesNestedModFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "geo"), 0o755))
	writeFile(t, filepath.Join(dir, "geo"), "mod.zero", `pub fn id(x: int) -> int { return x; }`)

	l := module.NewLoader("zero", dir)
	m, err := l.Load("geo")
	require.NoError(t, err)
	require.Len(t, m.Chunk.Block.Stmts, 1)
}

func TestLoadNotFound(t *testing.T) {
	l := module.NewLoader("zero", t.TempDir())
	_, err := l.Load("nope")
	require.Error(t, err)
	var nf *module.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLoadCircularDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.zero", `mod b;`)
	writeFile(t, dir, "b.zero", `mod a;`)

	l := module.NewLoader("zero", dir)
	ch, err := parser.ParseFile("entry", []byte(`mod a;`))
	require.NoError(t, err)

	err = module.ResolveReferences(l, ch)
	require.Error(t, err)
	var cycle *module.CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	require.Contains(t, cycle.Cycle, "a")
	require.Contains(t, cycle.Cycle, "b")
}

func TestResolveReferencesReplacesInSitu(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.zero", `pub fn sq(x: int) -> int { return x * x; }`)

	l := module.NewLoader("zero", dir)
	ch, err := parser.ParseFile("entry", []byte(`mod math; use math::sq; print(sq(6));`))
	require.NoError(t, err)

	require.NoError(t, module.ResolveReferences(l, ch))
	require.IsType(t, &ast.ModuleDeclStmt{}, ch.Block.Stmts[0])
	decl := ch.Block.Stmts[0].(*ast.ModuleDeclStmt)
	require.Equal(t, "math", decl.Name)
	require.Len(t, decl.Body.Stmts, 1)
}
