// Package ast defines the types used to represent the abstract syntax tree
// of a Zero module. Every node knows its own source span, expressed in terms
// of the positions recorded on the tokens the parser consumed to build it.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/zero/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a short description
	// of itself. Only the 'v' and 's' verbs are supported. The '#' flag adds
	// count information about child nodes when available.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Position)

	// Walk visits the node's direct children, if any, with the Visitor
	// pattern implemented by Walk.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding reports whether the statement may only appear as the last
	// statement of a block (return, break, continue).
	BlockEnding() bool
}

// Chunk is the root node of a parsed module file.
type Chunk struct {
	// Name is the module's file name.
	Name string

	// Block holds the module's top-level statements.
	Block *Block
	EOF   token.Position
}

// Block represents a brace-delimited sequence of statements.
type Block struct {
	Start token.Position
	End   token.Position
	Stmts []Stmt
}

func (n *Chunk) Format(f fmt.State, verb rune) { format(f, verb, n, "chunk", nil) }
func (n *Chunk) Span() (start, end token.Position) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Position) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// BlockEnding makes *Block satisfy Stmt so it can be used directly as a bare
// block statement in addition to being a function/control-flow body.
func (n *Block) BlockEnding() bool { return false }

// Unwrap the expression, currently a no-op placeholder since the grammar has
// no parenthesized-expression node distinct from its inner expression; kept
// for symmetry with IsAssignable and future grammar additions.
func Unwrap(e Expr) Expr { return e }

// IsAssignable reports whether e is a valid assignment target: an
// identifier, a field access, or an index expression.
func IsAssignable(e Expr) bool {
	switch e := e.(type) {
	case *IdentExpr:
		return true
	case *FieldExpr:
		return IsAssignable(Unwrap(e.Left))
	case *IndexExpr:
		return IsAssignable(Unwrap(e.Left))
	default:
		return false
	}
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
