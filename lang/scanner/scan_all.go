package scanner

import "github.com/mna/zero/lang/token"

// ScanAll tokenizes src in full, applies Preprocess, and returns
// the resulting token stream (always ending in an EOF token) along with any
// lexical errors encountered, sorted by position.
func ScanAll(filename string, src []byte) ([]token.Tok, error) {
	var (
		s   Scanner
		el  ErrorList
		out []token.Tok
	)
	s.Init(filename, src, el.Add)
	for {
		t := s.Scan()
		out = append(out, t)
		if t.Kind == token.EOF {
			break
		}
	}
	el.Sort()
	return Preprocess(out), el.Err()
}
