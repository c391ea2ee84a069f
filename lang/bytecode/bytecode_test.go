package bytecode_test

import (
	"testing"

	"github.com/mna/zero/lang/bytecode"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/parser"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *compiler.Chunk {
	t.Helper()
	ch, err := parser.ParseFile("t.zero", []byte(src))
	require.NoError(t, err)
	chunk, err := compiler.Compile(ch)
	require.NoError(t, err)
	return chunk
}

func TestRoundtripArithmetic(t *testing.T) {
	chunk := compileSrc(t, `let x = 10; let y = 20; print(x + y);`)

	data, err := bytecode.Encode(chunk)
	require.NoError(t, err)

	restored, err := bytecode.Decode(data)
	require.NoError(t, err)

	require.Equal(t, chunk.Code, restored.Code)
	require.Equal(t, chunk.Lines, restored.Lines)
	require.Equal(t, chunk.Constants, restored.Constants)
	require.Equal(t, chunk.NumLocals, restored.NumLocals)
}

func TestRoundtripNestedFunction(t *testing.T) {
	chunk := compileSrc(t, `
		fn fact(n: int) -> int { if n <= 1 { return 1; } return n * fact(n - 1); }
		print(fact(5));
	`)

	data, err := bytecode.Encode(chunk)
	require.NoError(t, err)

	restored, err := bytecode.Decode(data)
	require.NoError(t, err)
	require.Equal(t, chunk, restored)
}

func TestRoundtripStructAndMethod(t *testing.T) {
	chunk := compileSrc(t, `
		struct Counter { n: int }
		impl Counter {
			fn get(self: Counter) -> int { return self.n; }
		}
		let c = Counter { n: 3 };
		print(c.get());
	`)

	data, err := bytecode.Encode(chunk)
	require.NoError(t, err)

	restored, err := bytecode.Decode(data)
	require.NoError(t, err)
	require.Equal(t, chunk, restored)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := bytecode.Decode([]byte{0, 0, 0, 0, 0})
	require.Error(t, err)
}

func TestDecodeRejectsShortArtifact(t *testing.T) {
	_, err := bytecode.Decode([]byte{1, 2})
	require.Error(t, err)
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	chunk := compileSrc(t, `print(1);`)
	data, err := bytecode.Encode(chunk)
	require.NoError(t, err)
	data[4] = 0xFF

	_, err = bytecode.Decode(data)
	require.Error(t, err)
}
