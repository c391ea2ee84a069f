package interp_test

import (
	"bytes"
	"testing"

	"github.com/mna/zero/internal/interp"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	ch, err := parser.ParseFile("t.zero", []byte(src))
	require.NoError(t, err)

	var out bytes.Buffer
	it := interp.New(&out)
	err = it.Run(ch)
	return out.String(), err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `let x = 10; let y = 20; print(x + y);`)
	require.NoError(t, err)
	require.Equal(t, "30\n", out)
}

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
	require.Equal(t, "8\n", out)
}

func TestUndefinedNameIsError(t *testing.T) {
	_, err := run(t, `print(doesNotExist);`)
	require.Error(t, err)
}

func TestStructDeclIsUnsupported(t *testing.T) {
	_, err := run(t, `struct Point { x: int } print(1);`)
	require.Error(t, err)
}
