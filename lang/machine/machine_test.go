package machine_test

import (
	"bytes"
	"testing"

	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/machine"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

// run parses, compiles and executes src, returning whatever was written to
// Stdout by Print statements.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	f, err := parser.ParseFile("t.zero", []byte(src))
	require.NoError(t, err)
	chunk, err := compiler.Compile(f)
	require.NoError(t, err)

	var out bytes.Buffer
	vm := machine.New()
	vm.Stdout = &out
	vm.MaxSteps = 1_000_000
	err = vm.Run(chunk)
	return out.String(), err
}

// S1: arithmetic and print.
func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `let x = 10; let y = 20; print(x + y);`)
	require.NoError(t, err)
	require.Equal(t, "30\n", out)
}

func TestFloatWideningAndStringConcat(t *testing.T) {
	out, err := run(t, `print(1 + 2.5); print("a" + "b");`)
	require.NoError(t, err)
	require.Equal(t, "3.5\nab\n", out)
}

func TestDivisionAndModuloByZero(t *testing.T) {
	_, err := run(t, `let x = 1; let y = 0; print(x / y);`)
	require.Error(t, err)

	_, err = run(t, `let x = 1; let y = 0; print(x % y);`)
	require.Error(t, err)
}

// S2: recursive function call.
func TestRecursiveFunctionCall(t *testing.T) {
	out, err := run(t, `
		fn fact(n: int) -> int {
			if n <= 1 { return 1; }
			return n * fact(n - 1);
		}
		print(fact(5));
	`)
	require.NoError(t, err)
	require.Equal(t, "120\n", out)
}

// S3: while-loop and for-range with break/continue.
func TestWhileLoopBreakContinue(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		var sum = 0;
		while i < 10 {
			i = i + 1;
			if i == 3 { continue; }
			if i == 8 { break; }
			sum = sum + i;
		}
		print(sum);
	`)
	require.NoError(t, err)
	// 1+2+4+5+6+7 = 25 (3 skipped via continue, loop stops before adding 8)
	require.Equal(t, "25\n", out)
}

func TestForRangeBreakContinue(t *testing.T) {
	out, err := run(t, `
		var sum = 0;
		for x in 0..10 {
			if x == 5 { break; }
			if x == 2 { continue; }
			sum = sum + x;
		}
		print(sum);
	`)
	require.NoError(t, err)
	// 0+1+3+4 = 8 (2 skipped, loop stops at 5)
	require.Equal(t, "8\n", out)
}

// S4: struct field read/write, with copy-on-write semantics.
func TestStructFieldAssignIsCopyOnWrite(t *testing.T) {
	out, err := run(t, `
		struct Point { x: int, y: int }
		var p = Point { x: 1, y: 2 };
		let q = p;
		p.x = 9;
		print(p.x);
		print(q.x);
	`)
	require.NoError(t, err)
	require.Equal(t, "9\n1\n", out)
}

// S5: method call dispatch.
func TestMethodCall(t *testing.T) {
	out, err := run(t, `
		struct Counter { n: int }
		impl Counter {
			fn get(self: Counter) -> int { return self.n; }
		}
		let c = Counter { n: 3 };
		print(c.get());
	`)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)
}

// S6: module declaration, use, and qualified call.
func TestModuleUseAndQualifiedCall(t *testing.T) {
	out, err := run(t, `
		mod math {
			pub fn sq(n: int) -> int { return n * n; }
		}
		use math::sq;
		print(sq(4));
	`)
	require.NoError(t, err)
	require.Equal(t, "16\n", out)
}

// Testable Property 7/8: arrays have value semantics; index-assigning
// through one binding never affects another that shares the same
// underlying array value.
func TestArrayValueSemantics(t *testing.T) {
	out, err := run(t, `
		let a = [1, 2, 3];
		var b = a;
		b[0] = 9;
		print(a[0]);
		print(b[0]);
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n9\n", out)
}

func TestArrayIndexOutOfBounds(t *testing.T) {
	_, err := run(t, `let a = [1, 2, 3]; print(a[5]);`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestComparisonsAndEquality(t *testing.T) {
	out, err := run(t, `
		print(1 < 2);
		print(2.0 <= 2.0);
		print(1 == 1);
		print("a" == "b");
		print(null == null);
	`)
	require.NoError(t, err)
	require.Equal(t, "true\ntrue\ntrue\nfalse\ntrue\n", out)
}

func TestUnaryNegateAndNot(t *testing.T) {
	out, err := run(t, `
		let x = 5;
		print(-x);
		let b = true;
		print(!b);
	`)
	require.NoError(t, err)
	require.Equal(t, "-5\ntrue\n", out)
}

func TestCallArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fn add(a: int, b: int) -> int { return a + b; }
		print(add(1));
	`)
	require.Error(t, err)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	// x is declared, so compilation succeeds, but it is read before the
	// statement that first stores it has run.
	_, err := run(t, `print(x); let x = 1;`)
	require.Error(t, err)
}
