package ast

import (
	"fmt"

	"github.com/mna/zero/lang/token"
)

// TypeExpr represents a type annotation written in source: a primitive
// keyword, an array type, or a named reference to a struct or alias.
type TypeExpr interface {
	Node
	typeExpr()
}

type (
	// PrimitiveType represents one of the built-in type keywords (int,
	// int64, float, string, bool, void, null).
	PrimitiveType struct {
		Start token.Position
		Kind  token.Token
	}

	// NamedType represents a reference to a user-defined struct or alias,
	// e.g. the `P` in `var p: P`.
	NamedType struct {
		Start token.Position
		Name  string
	}

	// ArrayTypeExpr represents an array type annotation `[T]`.
	ArrayTypeExpr struct {
		Lbrack token.Position
		Elem   TypeExpr
		Rbrack token.Position
	}
)

func (n *PrimitiveType) Format(f fmt.State, verb rune) { format(f, verb, n, n.Kind.String(), nil) }
func (n *PrimitiveType) Span() (start, end token.Position) {
	return n.Start, endOf(n.Start, n.Kind.String())
}
func (n *PrimitiveType) Walk(v Visitor) {}
func (n *PrimitiveType) typeExpr()      {}

func (n *NamedType) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *NamedType) Span() (start, end token.Position) {
	return n.Start, endOf(n.Start, n.Name)
}
func (n *NamedType) Walk(v Visitor) {}
func (n *NamedType) typeExpr()      {}

func (n *ArrayTypeExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "[elem]", nil) }
func (n *ArrayTypeExpr) Span() (start, end token.Position) {
	return n.Lbrack, n.Rbrack
}
func (n *ArrayTypeExpr) Walk(v Visitor) { Walk(v, n.Elem) }
func (n *ArrayTypeExpr) typeExpr()      {}

// endOf approximates the end position of a token that started at start and
// whose lexeme is lit; it is only used for single-line primitive/named type
// tokens, which never contain newlines.
func endOf(start token.Position, lit string) token.Position {
	end := start
	end.Column += len(lit)
	end.Offset += len(lit)
	return end
}
