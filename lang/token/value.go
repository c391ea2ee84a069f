package token

// Tok is the concrete token value produced by the scanner: the tagged
// record {kind, lexeme, start, end} described by the language
// specification, plus any decoded literal payload (for INT/FLOAT/STRING/
// CHAR tokens). Tokens are immutable after the scanner emits them.
type Tok struct {
	Kind   Token
	Lexeme string
	Start  Position
	End    Position

	Int   int64   // valid when Kind == INT
	Float float64 // valid when Kind == FLOAT
	Str   string  // decoded value, valid when Kind == STRING or CHAR
}
