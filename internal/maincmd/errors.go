package maincmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/module"
	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
)

// posError is implemented by every stage's positioned error type (the
// scanner's individual *scanner.Error, *checker.Error, *compiler.Error).
type posError interface {
	error
	position() token.Position
}

// the stage error types all carry the position in an exported Pos field
// rather than a method, so adapt them here instead of changing three
// packages' public shape for the sake of one interface.
type scannerErrAdapter struct{ *scanner.Error }

func (e scannerErrAdapter) position() token.Position { return e.Pos }

type checkerErrAdapter struct{ *checker.Error }

func (e checkerErrAdapter) position() token.Position { return e.Pos }

type compilerErrAdapter struct{ *compiler.Error }

func (e compilerErrAdapter) position() token.Position { return e.Pos }

func asPosError(err error) (posError, bool) {
	switch e := err.(type) {
	case *scanner.Error:
		return scannerErrAdapter{e}, true
	case *checker.Error:
		return checkerErrAdapter{e}, true
	case *compiler.Error:
		return compilerErrAdapter{e}, true
	}
	return nil, false
}

// printError renders err to w, either as a short one-liner
// (<file>:<line>:<col>: <message>) or, when detailed is true, also showing
// the offending source line with a column-aligned caret underneath, and
// enumerating the full cycle for a circular module dependency.
func printError(w io.Writer, err error, detailed bool) {
	if el, ok := err.(scanner.ErrorList); ok {
		for _, e := range el {
			printOne(w, scannerErrAdapter{e}, detailed)
		}
		return
	}

	var cycleErr *module.CircularDependencyError
	if ce, ok := err.(*module.CircularDependencyError); ok {
		cycleErr = ce
	}

	if pe, ok := asPosError(err); ok {
		printOne(w, pe, detailed)
		return
	}

	fmt.Fprintln(w, err)
	if detailed && cycleErr != nil {
		for _, name := range cycleErr.Cycle {
			fmt.Fprintf(w, "    -> %s\n", name)
		}
	}
}

func printOne(w io.Writer, pe posError, detailed bool) {
	fmt.Fprintln(w, pe.Error())
	if !detailed {
		return
	}
	pos := pe.position()
	if !pos.IsValid() || pos.Filename == "" {
		return
	}
	line, ok := sourceLine(pos.Filename, pos.Line)
	if !ok {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)
	col := pos.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", col-1))
}

func sourceLine(filename string, n int) (string, bool) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(b), "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}
