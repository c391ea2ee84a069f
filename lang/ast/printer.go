package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of AST nodes, mostly useful for tests and
// debugging (e.g. via the parse command).
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// WithPos includes each node's start position in the output.
	WithPos bool
}

// Print walks n and writes an indented, one-line-per-node description of the
// tree to p.Output.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, withPos: p.WithPos}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	withPos bool
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	indent := strings.Repeat(". ", p.depth)
	p.depth++

	if p.withPos {
		start, _ := n.Span()
		_, p.err = fmt.Fprintf(p.w, "%s[%s] %v\n", indent, start, n)
	} else {
		_, p.err = fmt.Fprintf(p.w, "%s%v\n", indent, n)
	}
	return p
}
