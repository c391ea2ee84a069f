package scanner_test

import (
	"testing"

	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Tok) []token.Token {
	ks := make([]token.Token, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanBasics(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`let x = 10 + 20; print(x);`))
	require.NoError(t, err)
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.INT, token.PLUS, token.INT, token.SEMI,
		token.PRINT, token.LPAREN, token.IDENT, token.RPAREN, token.SEMI, token.EOF,
	}, kinds(toks))
}

func TestScanNumberPrefixes(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`0x1F 0b101 0o17 1_000 3.14`))
	require.NoError(t, err)
	require.Equal(t, int64(0x1F), toks[0].Int)
	require.Equal(t, int64(5), toks[1].Int)
	require.Equal(t, int64(15), toks[2].Int)
	require.Equal(t, int64(1000), toks[3].Int)
	require.InDelta(t, 3.14, toks[4].Float, 1e-9)
}

func TestScanScientificNotationFused(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`1.5e10 2e-3`))
	require.NoError(t, err)
	require.Equal(t, []token.Token{token.FLOAT, token.FLOAT, token.EOF}, kinds(toks))
	require.InDelta(t, 1.5e10, toks[0].Float, 1)
	require.InDelta(t, 2e-3, toks[1].Float, 1e-9)
}

func TestScanStringEscapes(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`"a\nb\t\x41B\u{43}"`))
	require.NoError(t, err)
	require.Equal(t, "a\nb\tABC", toks[0].Str)
}

func TestScanRawString(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`r"a\nb"`))
	require.NoError(t, err)
	require.Equal(t, `a\nb`, toks[0].Str)
}

func TestScanErrors(t *testing.T) {
	cases := []string{`"unterminated`, `0x`, `1e`, `"bad \q"`}
	for _, src := range cases {
		_, err := scanner.ScanAll("t.zero", []byte(src))
		require.Error(t, err, src)
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	toks, err := scanner.ScanAll("t.zero", []byte(`1e10 + 2.5e-3`))
	require.NoError(t, err)
	require.Equal(t, toks, scanner.Preprocess(toks))
}
