package ast

import (
	"fmt"

	"github.com/mna/zero/lang/token"
)

// Visibility is the Public/Private marker carried by every declaration.
type Visibility int

// List of visibilities.
const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "private"
}

// Param represents one function or method parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// StructFieldDecl represents one field in a struct declaration.
type StructFieldDecl struct {
	Name string
	Type TypeExpr
}

// UseKind distinguishes the four `use` statement forms.
type UseKind int

// List of use-statement kinds.
const (
	UseSingle UseKind = iota // use path::item
	UseAll                   // use path::*
	UseGroup                 // use path::{a, b}
	UseAliased                // use path::x as y
)

type (
	// ExprStmt represents an expression used as a statement.
	ExprStmt struct {
		X     Expr
		Start token.Position
		End_  token.Position
	}

	// VarDeclStmt represents `let`/`var name[: Type] = value;`.
	VarDeclStmt struct {
		Start      token.Position
		Name       string
		Mutable    bool
		Type       TypeExpr // nil if not annotated
		Value      Expr
		Visibility Visibility
	}

	// FuncDeclStmt represents a `fn name(params…) [-> RetType] { body }`
	// declaration, whether top-level or inside an `impl` block.
	FuncDeclStmt struct {
		Start      token.Position
		Name       string
		Params     []Param
		Return     TypeExpr // nil if omitted (void)
		Body       *Block
		Visibility Visibility
	}

	// StructDeclStmt represents `struct Name { fields… }`.
	StructDeclStmt struct {
		Start      token.Position
		Name       string
		Fields     []StructFieldDecl
		End_       token.Position
		Visibility Visibility
	}

	// TypeAliasStmt represents `type Name = Target;`.
	TypeAliasStmt struct {
		Start      token.Position
		Name       string
		Target     TypeExpr
		Visibility Visibility
	}

	// ImplDeclStmt represents `impl TypeName { fn m(self, …) … }`.
	ImplDeclStmt struct {
		Start    token.Position
		TypeName string
		Methods  []*FuncDeclStmt
		End_     token.Position
	}

	// ReturnStmt represents `return [expr];`.
	ReturnStmt struct {
		Start token.Position
		Value Expr // nil if bare `return;`
		End_  token.Position
	}

	// IfStmt represents `if cond { then } [else …]`. Else may be another
	// *IfStmt (else if) or a *Block (else), or nil.
	IfStmt struct {
		Start token.Position
		Cond  Expr
		Then  *Block
		Else  Stmt
	}

	// WhileStmt represents `while cond { body }`.
	WhileStmt struct {
		Start token.Position
		Cond  Expr
		Body  *Block
	}

	// ForRangeStmt represents `for x in a..b { body }`.
	ForRangeStmt struct {
		Start token.Position
		Var   string
		From  Expr
		To    Expr
		Body  *Block
	}

	// PrintStmt represents `print(args…);`.
	PrintStmt struct {
		Start  token.Position
		Args   []Expr
		Rparen token.Position
	}

	// BreakStmt represents `break;`.
	BreakStmt struct {
		Start token.Position
		End_  token.Position
	}

	// ContinueStmt represents `continue;`.
	ContinueStmt struct {
		Start token.Position
		End_  token.Position
	}

	// ModuleRefStmt represents `mod name;`, a reference to a file the module
	// loader must resolve; replaced in situ by a *ModuleDeclStmt once loaded.
	ModuleRefStmt struct {
		Start      token.Position
		Name       string
		End_       token.Position
		Visibility Visibility
	}

	// ModuleDeclStmt represents either an inline `mod name { … }` or, after
	// loader resolution, a *ModuleRefStmt replaced with the target's body.
	ModuleDeclStmt struct {
		Start      token.Position
		Name       string
		Body       *Block
		End_       token.Position
		Visibility Visibility
	}

	// UseStmt represents any of the four `use` statement forms.
	UseStmt struct {
		Start token.Position
		Path  []string
		Kind  UseKind
		Item  string   // UseSingle, UseAliased (source name)
		Items []string // UseGroup
		Alias string   // UseAliased
		End_  token.Position
	}
)

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ExprStmt) Walk(v Visitor)                    { Walk(v, n.X) }
func (n *ExprStmt) BlockEnding() bool                  { return false }

func (n *VarDeclStmt) Format(f fmt.State, verb rune) {
	kw := "let"
	if n.Mutable {
		kw = "var"
	}
	format(f, verb, n, kw+" "+n.Name, nil)
}
func (n *VarDeclStmt) Span() (start, end token.Position) {
	_, end = n.Value.Span()
	return n.Start, end
}
func (n *VarDeclStmt) Walk(v Visitor) { Walk(v, n.Value) }
func (n *VarDeclStmt) BlockEnding() bool { return false }

func (n *FuncDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fn "+n.Name, map[string]int{"params": len(n.Params)})
}
func (n *FuncDeclStmt) Span() (start, end token.Position) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *FuncDeclStmt) Walk(v Visitor) { Walk(v, n.Body) }
func (n *FuncDeclStmt) BlockEnding() bool { return false }

func (n *StructDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct "+n.Name, map[string]int{"fields": len(n.Fields)})
}
func (n *StructDeclStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *StructDeclStmt) Walk(v Visitor)                    {}
func (n *StructDeclStmt) BlockEnding() bool                  { return false }

func (n *TypeAliasStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "type "+n.Name, nil) }
func (n *TypeAliasStmt) Span() (start, end token.Position) {
	_, end = n.Target.Span()
	return n.Start, end
}
func (n *TypeAliasStmt) Walk(v Visitor) { Walk(v, n.Target) }
func (n *TypeAliasStmt) BlockEnding() bool { return false }

func (n *ImplDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "impl "+n.TypeName, map[string]int{"methods": len(n.Methods)})
}
func (n *ImplDeclStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ImplDeclStmt) Walk(v Visitor) {
	for _, m := range n.Methods {
		Walk(v, m)
	}
}
func (n *ImplDeclStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

func (n *IfStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "if", nil) }
func (n *IfStmt) Span() (start, end token.Position) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.Start, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Position) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

func (n *ForRangeStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for "+n.Var+" in", nil) }
func (n *ForRangeStmt) Span() (start, end token.Position) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *ForRangeStmt) Walk(v Visitor) {
	Walk(v, n.From)
	Walk(v, n.To)
	Walk(v, n.Body)
}
func (n *ForRangeStmt) BlockEnding() bool { return false }

func (n *PrintStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "print", map[string]int{"args": len(n.Args)})
}
func (n *PrintStmt) Span() (start, end token.Position) { return n.Start, n.Rparen }
func (n *PrintStmt) Walk(v Visitor) {
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *PrintStmt) BlockEnding() bool { return false }

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *BreakStmt) Walk(v Visitor)                    {}
func (n *BreakStmt) BlockEnding() bool                  { return true }

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ContinueStmt) Walk(v Visitor)                    {}
func (n *ContinueStmt) BlockEnding() bool                  { return true }

func (n *ModuleRefStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "mod "+n.Name, nil) }
func (n *ModuleRefStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ModuleRefStmt) Walk(v Visitor)                    {}
func (n *ModuleRefStmt) BlockEnding() bool                  { return false }

func (n *ModuleDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "mod "+n.Name, map[string]int{"stmts": len(n.Body.Stmts)})
}
func (n *ModuleDeclStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *ModuleDeclStmt) Walk(v Visitor)                    { Walk(v, n.Body) }
func (n *ModuleDeclStmt) BlockEnding() bool                  { return false }

func (n *UseStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "use", nil) }
func (n *UseStmt) Span() (start, end token.Position) { return n.Start, n.End_ }
func (n *UseStmt) Walk(v Visitor)                    {}
func (n *UseStmt) BlockEnding() bool                  { return false }
