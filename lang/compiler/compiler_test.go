package compiler_test

import (
	"strconv"
	"testing"

	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) (*compiler.Chunk, error) {
	t.Helper()
	ch, err := parser.ParseFile("t.zero", []byte(src))
	require.NoError(t, err)
	return compiler.Compile(ch)
}

func TestCompileArithmeticAndPrint(t *testing.T) {
	chunk, err := mustCompile(t, `let x = 10; let y = 20; print(x + y);`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
	require.Contains(t, chunk.Constants, int64(10))
	require.Contains(t, chunk.Constants, int64(20))
}

func TestCompileFunctionCall(t *testing.T) {
	chunk, err := mustCompile(t, `
		fn fact(n: int) -> int { if n <= 1 { return 1; } return n * fact(n - 1); }
		print(fact(5));
	`)
	require.NoError(t, err)

	var fn *compiler.Chunk
	for _, c := range chunk.Constants {
		if f, ok := c.(*compiler.Chunk); ok {
			fn = f
		}
	}
	require.NotNil(t, fn, "fact should be compiled into a nested Chunk constant")
	require.Equal(t, 1, fn.NumParams)
	require.GreaterOrEqual(t, fn.NumLocals, 1)
}

func TestCompileWhileLoop(t *testing.T) {
	chunk, err := mustCompile(t, `
		var i = 0;
		while i < 10 {
			print(i);
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileForRangeBreakContinue(t *testing.T) {
	chunk, err := mustCompile(t, `
		for x in 0..10 {
			if x == 5 { break; }
			if x == 2 { continue; }
			print(x);
		}
	`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileShortCircuitAnd(t *testing.T) {
	chunk, err := mustCompile(t, `let a = true; let b = false; print(a && b);`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileShortCircuitOr(t *testing.T) {
	chunk, err := mustCompile(t, `let a = true; let b = false; print(a || b);`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileStructLiteralAndField(t *testing.T) {
	chunk, err := mustCompile(t, `
		struct Point { x: int, y: int }
		let p = Point { x: 1, y: 2 };
		print(p.x);
	`)
	require.NoError(t, err)
	require.Contains(t, chunk.Constants, "Point")
}

func TestCompileMethodCall(t *testing.T) {
	chunk, err := mustCompile(t, `
		struct Counter { n: int }
		impl Counter {
			fn get(self: Counter) -> int { return self.n; }
		}
		let c = Counter { n: 3 };
		print(c.get());
	`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileArrayIndexAssign(t *testing.T) {
	chunk, err := mustCompile(t, `
		let a = [1, 2, 3];
		a[0] = 9;
		print(a[0]);
	`)
	require.NoError(t, err)
	require.NotEmpty(t, chunk.Code)
}

func TestCompileModuleQualifiedCall(t *testing.T) {
	chunk, err := mustCompile(t, `
		mod math {
			pub fn sq(n: int) -> int { return n * n; }
		}
		use math::sq;
		print(sq(4));
	`)
	require.NoError(t, err)
	require.Contains(t, chunk.Constants, "math::sq")
}

func TestCompileBreakOutsideLoopIsError(t *testing.T) {
	_, err := mustCompile(t, `break;`)
	require.Error(t, err)
}

func TestCompileContinueOutsideLoopIsError(t *testing.T) {
	_, err := mustCompile(t, `continue;`)
	require.Error(t, err)
}

func TestCompileTooManyLocalsIsError(t *testing.T) {
	src := "fn f() -> int {\n"
	for i := 0; i < 300; i++ {
		src += "let a" + strconv.Itoa(i) + " = 1;\n"
	}
	src += "return 0;\n}\nprint(f());\n"
	_, err := mustCompile(t, src)
	require.Error(t, err)
}
