package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/zero/lang/scanner"
)

// Tokenize runs just the lexer over each file and prints one line per
// token: position, kind and (for literals) lexeme, mainly useful for
// debugging the scanner itself.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var firstErr error
	for _, file := range args {
		src, err := readSource(file)
		if err != nil {
			printError(stdio.Stderr, err, c.Detailed)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		toks, err := scanner.ScanAll(file, src)
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Start, tok.Kind)
			if lex := tok.Lexeme; lex != "" {
				fmt.Fprintf(stdio.Stdout, " %q", lex)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			printError(stdio.Stderr, err, c.Detailed)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
