package parser_test

import (
	"testing"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	ch, err := parser.ParseFile("t.zero", []byte(src))
	require.NoError(t, err)
	return ch
}

func TestParseArithmeticAndGlobals(t *testing.T) {
	ch := mustParse(t, `let x = 10; let y = 20; print(x + y);`)
	require.Len(t, ch.Block.Stmts, 3)
	require.IsType(t, &ast.VarDeclStmt{}, ch.Block.Stmts[0])
	require.IsType(t, &ast.PrintStmt{}, ch.Block.Stmts[2])
}

func TestParseRecursiveFunction(t *testing.T) {
	ch := mustParse(t, `fn fact(n) { if n <= 1 { return 1; } return n * fact(n - 1); } print(fact(5));`)
	require.Len(t, ch.Block.Stmts, 2)
	fn := ch.Block.Stmts[0].(*ast.FuncDeclStmt)
	require.Equal(t, "fact", fn.Name)
	require.Len(t, fn.Body.Stmts, 2)
	ifs := fn.Body.Stmts[0].(*ast.IfStmt)
	require.IsType(t, &ast.BinaryExpr{}, ifs.Cond)
}

func TestParseWhileBreakContinue(t *testing.T) {
	ch := mustParse(t, `var i = 0; while i < 10 { i = i + 1; if i == 3 { continue; } if i == 7 { break; } print(i); }`)
	ws := ch.Block.Stmts[1].(*ast.WhileStmt)
	require.Len(t, ws.Body.Stmts, 4)
}

func TestParseStructAndFieldUpdate(t *testing.T) {
	ch := mustParse(t, `struct P { x: int, y: int }; var p = P{ x: 1, y: 2 }; p.x = p.x + 10; print(p.x); print(p.y);`)
	sd := ch.Block.Stmts[0].(*ast.StructDeclStmt)
	require.Len(t, sd.Fields, 2)
	vd := ch.Block.Stmts[1].(*ast.VarDeclStmt)
	require.IsType(t, &ast.StructLiteralExpr{}, vd.Value)
	es := ch.Block.Stmts[2].(*ast.ExprStmt)
	require.IsType(t, &ast.FieldAssignExpr{}, es.X)
}

func TestParseMethodCall(t *testing.T) {
	ch := mustParse(t, `struct C { v: int }; impl C { fn add(self, k: int) -> int { return self.v + k; } } let c = C{ v: 5 }; print(c.add(7));`)
	impl := ch.Block.Stmts[1].(*ast.ImplDeclStmt)
	require.Equal(t, "C", impl.TypeName)
	require.Len(t, impl.Methods, 1)
	require.Equal(t, "add", impl.Methods[0].Name)

	pr := ch.Block.Stmts[3].(*ast.PrintStmt)
	require.IsType(t, &ast.MethodCallExpr{}, pr.Args[0])
}

func TestParseModuleAndUse(t *testing.T) {
	ch := mustParse(t, `mod math; use math::sq; print(sq(6));`)
	require.IsType(t, &ast.ModuleRefStmt{}, ch.Block.Stmts[0])
	use := ch.Block.Stmts[1].(*ast.UseStmt)
	require.Equal(t, ast.UseSingle, use.Kind)
	require.Equal(t, "sq", use.Item)
}

func TestParseForRangeAndArray(t *testing.T) {
	ch := mustParse(t, `let a = [1, 2, 3]; for i in 0..3 { print(a[i]); }`)
	vd := ch.Block.Stmts[0].(*ast.VarDeclStmt)
	require.IsType(t, &ast.ArrayLiteralExpr{}, vd.Value)
	fr := ch.Block.Stmts[1].(*ast.ForRangeStmt)
	require.Equal(t, "i", fr.Var)
}

func TestParseCompoundAssignDesugars(t *testing.T) {
	ch := mustParse(t, `var x = 1; x += 2;`)
	es := ch.Block.Stmts[1].(*ast.ExprStmt)
	assign := es.X.(*ast.AssignExpr)
	bin := assign.Value.(*ast.BinaryExpr)
	require.IsType(t, &ast.IdentExpr{}, bin.Left)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := parser.ParseFile("t.zero", []byte(`let x = ;`))
	require.Error(t, err)
}

func TestParseDeterminism(t *testing.T) {
	src := `fn f(x) { return x * 2; } print(f(21));`
	ch1 := mustParse(t, src)
	ch2 := mustParse(t, src)
	require.Equal(t, len(ch1.Block.Stmts), len(ch2.Block.Stmts))
}
