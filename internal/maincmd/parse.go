package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/zero/lang/ast"
)

// Parse runs the lexer and parser over each file and prints the resulting
// AST, one indented line per node, mainly useful for debugging the parser
// itself.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	printer := ast.Printer{Output: stdio.Stdout, WithPos: c.WithPos}
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
		ch, err := parseOnly(file, src)
		if err != nil {
			printError(stdio.Stderr, err, c.Detailed)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := printer.Print(ch); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
