package scanner

import (
	"strconv"
	"strings"

	"github.com/mna/zero/lang/token"
)

// Preprocess fuses adjacent (mantissa, SCIENTIFIC_EXPONENT) token pairs
// produced by the scanner into a single FLOAT token. It is pure and total:
// it never errors, never mutates its input, and Preprocess(Preprocess(toks))
// == Preprocess(toks).
func Preprocess(toks []token.Tok) []token.Tok {
	out := make([]token.Tok, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if (t.Kind == token.INT || t.Kind == token.FLOAT) && i+1 < len(toks) {
			next := toks[i+1]
			if next.Kind == token.SCIENTIFIC_EXPONENT && next.Start.Offset == t.End.Offset {
				out = append(out, fuse(t, next))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func fuse(mantissa, exp token.Tok) token.Tok {
	lexeme := mantissa.Lexeme + exp.Lexeme
	v, _ := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
	return token.Tok{
		Kind:   token.FLOAT,
		Lexeme: lexeme,
		Start:  mantissa.Start,
		End:    exp.End,
		Float:  v,
	}
}
