package ast

import (
	"fmt"

	"github.com/mna/zero/lang/token"
)

type (
	// LiteralExpr represents an integer, float, string, char, bool or null
	// literal.
	LiteralExpr struct {
		Kind  token.Token // INT, FLOAT, STRING, CHAR, TRUE, FALSE or KWNULL
		Start token.Position
		End_  token.Position
		Raw   string
		Value any // int64 | float64 | string | bool | nil
	}

	// IdentExpr represents a bare identifier reference.
	IdentExpr struct {
		Start token.Position
		Name  string
	}

	// PathExpr represents a `a::b::c` module path reference.
	PathExpr struct {
		Segments []string
		Start    token.Position
		End_     token.Position
	}

	// ArrayLiteralExpr represents an array literal `[e, e, …]`.
	ArrayLiteralExpr struct {
		Lbrack token.Position
		Items  []Expr
		Rbrack token.Position
	}

	// StructFieldInit represents one `name: value` entry of a struct literal.
	StructFieldInit struct {
		Name  string
		Value Expr
	}

	// StructLiteralExpr represents a struct literal `Name{f: v, …}`.
	StructLiteralExpr struct {
		TypeName string
		Start    token.Position
		Fields   []StructFieldInit
		Rbrace   token.Position
	}

	// BinaryExpr represents a binary operator expression.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Position
		Right Expr
	}

	// UnaryExpr represents a unary operator expression (`!e`, `-e`).
	UnaryExpr struct {
		Op    token.Token
		OpPos token.Position
		Right Expr
	}

	// CallExpr represents a function call `fn(args…)`.
	CallExpr struct {
		Fn     Expr
		Args   []Expr
		Rparen token.Position
	}

	// MethodCallExpr represents a method call `obj.m(args…)`.
	MethodCallExpr struct {
		Recv   Expr
		Method string
		Args   []Expr
		Rparen token.Position
	}

	// IndexExpr represents an array index read `a[i]`.
	IndexExpr struct {
		Left   Expr
		Index  Expr
		Rbrack token.Position
	}

	// IndexAssignExpr represents an array index write `a[i] = v`.
	IndexAssignExpr struct {
		Left  Expr
		Index Expr
		Value Expr
	}

	// FieldExpr represents a field access `obj.f`.
	FieldExpr struct {
		Left  Expr
		Field string
		End_  token.Position
	}

	// FieldAssignExpr represents a field write `obj.f = v`.
	FieldAssignExpr struct {
		Left  Expr
		Field string
		Value Expr
	}

	// AssignExpr represents a plain variable assignment `name = v`. Compound
	// assignments (`+=` etc.) are desugared into this form by the parser.
	AssignExpr struct {
		Left  Expr // *IdentExpr
		Value Expr
	}
)

func (n *LiteralExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Kind.String()+" "+n.Raw, nil) }
func (n *LiteralExpr) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *LiteralExpr) Walk(v Visitor)                    {}
func (n *LiteralExpr) expr()                             {}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *IdentExpr) Span() (start, end token.Position) {
	return n.Start, endOf(n.Start, n.Name)
}
func (n *IdentExpr) Walk(v Visitor) {}
func (n *IdentExpr) expr()          {}

func (n *PathExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "path", map[string]int{"segs": len(n.Segments)}) }
func (n *PathExpr) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *PathExpr) Walk(v Visitor)                    {}
func (n *PathExpr) expr()                             {}

func (n *ArrayLiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array", map[string]int{"items": len(n.Items)})
}
func (n *ArrayLiteralExpr) Span() (start, end token.Position) { return n.Lbrack, n.Rbrack }
func (n *ArrayLiteralExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}
func (n *ArrayLiteralExpr) expr() {}

func (n *StructLiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.TypeName+"{}", map[string]int{"fields": len(n.Fields)})
}
func (n *StructLiteralExpr) Span() (start, end token.Position) { return n.Start, n.Rbrace }
func (n *StructLiteralExpr) Walk(v Visitor) {
	for _, fi := range n.Fields {
		Walk(v, fi.Value)
	}
}
func (n *StructLiteralExpr) expr() {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "binary "+n.Op.GoString(), nil) }
func (n *BinaryExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) expr() {}

func (n *UnaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Op.GoString(), nil) }
func (n *UnaryExpr) Span() (start, end token.Position) {
	_, end = n.Right.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryExpr) expr()          {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Position) {
	start, _ = n.Fn.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *CallExpr) expr() {}

func (n *MethodCallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "method ."+n.Method+"()", map[string]int{"args": len(n.Args)})
}
func (n *MethodCallExpr) Span() (start, end token.Position) {
	start, _ = n.Recv.Span()
	return start, n.Rparen
}
func (n *MethodCallExpr) Walk(v Visitor) {
	Walk(v, n.Recv)
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *MethodCallExpr) expr() {}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *IndexExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	return start, n.Rbrack
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Index)
}
func (n *IndexExpr) expr() {}

func (n *IndexAssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index] = expr", nil) }
func (n *IndexAssignExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *IndexAssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Index)
	Walk(v, n.Value)
}
func (n *IndexAssignExpr) expr() {}

func (n *FieldExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr."+n.Field, nil) }
func (n *FieldExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	return start, n.End_
}
func (n *FieldExpr) Walk(v Visitor) { Walk(v, n.Left) }
func (n *FieldExpr) expr()          {}

func (n *FieldAssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr."+n.Field+" = expr", nil) }
func (n *FieldAssignExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *FieldAssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Value)
}
func (n *FieldAssignExpr) expr() {}

func (n *AssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignExpr) Span() (start, end token.Position) {
	start, _ = n.Left.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Value)
}
func (n *AssignExpr) expr() {}
