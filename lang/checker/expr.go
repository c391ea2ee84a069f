package checker

import (
	"fmt"
	"strings"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

func (c *Checker) checkExpr(e ast.Expr) (*Type, error) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return literalType(e), nil
	case *ast.IdentExpr:
		sym, ok := c.scope.lookup(e.Name)
		if !ok {
			return nil, c.errorf(e.Start, "undefined: %s", e.Name)
		}
		return sym.Type, nil
	case *ast.PathExpr:
		return c.checkPath(e)
	case *ast.ArrayLiteralExpr:
		return c.checkArrayLiteral(e)
	case *ast.StructLiteralExpr:
		return c.checkStructLiteral(e)
	case *ast.BinaryExpr:
		return c.checkBinary(e)
	case *ast.UnaryExpr:
		return c.checkUnary(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.IndexAssignExpr:
		return c.checkIndexAssign(e)
	case *ast.FieldExpr:
		return c.checkField(e)
	case *ast.FieldAssignExpr:
		return c.checkFieldAssign(e)
	case *ast.AssignExpr:
		return c.checkAssign(e)
	}
	panic(fmt.Sprintf("unexpected expr %T", e))
}

func literalType(e *ast.LiteralExpr) *Type {
	switch e.Kind {
	case token.INT:
		return Int
	case token.FLOAT:
		return Float
	case token.STRING:
		return String
	case token.CHAR:
		return Char
	case token.TRUE, token.FALSE:
		return Bool
	case token.KWNULL:
		return Null
	}
	panic(fmt.Sprintf("unexpected literal kind %v", e.Kind))
}

// checkPath resolves a `a::b::c` reference: every segment but the last names
// a module path component, and the last names a symbol exported Public from
// that module.
func (c *Checker) checkPath(e *ast.PathExpr) (*Type, error) {
	path := e.Segments[:len(e.Segments)-1]
	name := e.Segments[len(e.Segments)-1]
	sym, ok := c.exports.Get(exportKey(path, name))
	if !ok {
		return nil, c.errorf(e.Start, "undefined: %s", strings.Join(e.Segments, "::"))
	}
	if sym.Visibility != ast.Public {
		return nil, c.errorf(e.Start, "%s is private to module %s", name, strings.Join(path, "::"))
	}
	return sym.Type, nil
}

func (c *Checker) checkArrayLiteral(e *ast.ArrayLiteralExpr) (*Type, error) {
	if len(e.Items) == 0 {
		return ArrayOf(Unknown), nil
	}
	elem, err := c.checkExpr(e.Items[0])
	if err != nil {
		return nil, err
	}
	for _, it := range e.Items[1:] {
		t, err := c.checkExpr(it)
		if err != nil {
			return nil, err
		}
		if !compatible(elem, t) {
			return nil, c.errorf(e.Lbrack, "array element type mismatch: expected %s, got %s", elem, t)
		}
	}
	return ArrayOf(elem), nil
}

func (c *Checker) checkStructLiteral(e *ast.StructLiteralExpr) (*Type, error) {
	st, ok := c.structs[e.TypeName]
	if !ok {
		return nil, c.errorf(e.Start, "undefined struct: %s", e.TypeName)
	}
	if len(e.Fields) != len(st.Fields) {
		return nil, c.errorf(e.Start, "%s literal: expected %d fields, got %d", e.TypeName, len(st.Fields), len(e.Fields))
	}
	seen := make(map[string]bool, len(e.Fields))
	for _, fi := range e.Fields {
		fd := st.fieldByName(fi.Name)
		if fd == nil {
			return nil, c.errorf(e.Start, "%s has no field %q", e.TypeName, fi.Name)
		}
		if seen[fi.Name] {
			return nil, c.errorf(e.Start, "duplicate field %q in %s literal", fi.Name, e.TypeName)
		}
		seen[fi.Name] = true
		vt, err := c.checkExpr(fi.Value)
		if err != nil {
			return nil, err
		}
		if !compatible(fd.Type, vt) {
			return nil, c.errorf(e.Start, "field %s.%s: expected %s, got %s", e.TypeName, fi.Name, fd.Type, vt)
		}
	}
	return st, nil
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) (*Type, error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return nil, err
	}
	rt, err := c.checkExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		if lt.Kind == KUnknown || rt.Kind == KUnknown {
			return Unknown, nil
		}
		if e.Op == token.PLUS && lt.Kind == KString && rt.Kind == KString {
			return String, nil
		}
		if !lt.IsNumeric() || !rt.IsNumeric() {
			return nil, c.errorf(e.OpPos, "operator %s requires numeric operands, got %s and %s", e.Op.GoString(), lt, rt)
		}
		if lt.Kind == KFloat || rt.Kind == KFloat {
			return Float, nil
		}
		return Int, nil
	case token.PERCENT:
		if lt.Kind == KUnknown || rt.Kind == KUnknown {
			return Unknown, nil
		}
		if (lt.Kind != KInt && lt.Kind != KInt64) || (rt.Kind != KInt && rt.Kind != KInt64) {
			return nil, c.errorf(e.OpPos, "%% requires integer operands, got %s and %s", lt, rt)
		}
		return Int, nil
	case token.EQEQ, token.BANGEQ:
		if lt.Kind != KUnknown && rt.Kind != KUnknown && !compatible(lt, rt) && !compatible(rt, lt) {
			return nil, c.errorf(e.OpPos, "cannot compare %s and %s", lt, rt)
		}
		return Bool, nil
	case token.LT, token.LE, token.GT, token.GE:
		if lt.Kind != KUnknown && !lt.IsNumeric() {
			return nil, c.errorf(e.OpPos, "operator %s requires numeric operands, got %s", e.Op.GoString(), lt)
		}
		if rt.Kind != KUnknown && !rt.IsNumeric() {
			return nil, c.errorf(e.OpPos, "operator %s requires numeric operands, got %s", e.Op.GoString(), rt)
		}
		return Bool, nil
	case token.ANDAND, token.OROR:
		if lt.Kind != KBool && lt.Kind != KUnknown {
			return nil, c.errorf(e.OpPos, "operator %s requires bool operands, got %s", e.Op.GoString(), lt)
		}
		if rt.Kind != KBool && rt.Kind != KUnknown {
			return nil, c.errorf(e.OpPos, "operator %s requires bool operands, got %s", e.Op.GoString(), rt)
		}
		return Bool, nil
	}
	panic(fmt.Sprintf("unexpected binary operator %v", e.Op))
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) (*Type, error) {
	rt, err := c.checkExpr(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.BANG:
		if rt.Kind != KBool && rt.Kind != KUnknown {
			return nil, c.errorf(e.OpPos, "! requires a bool operand, got %s", rt)
		}
		return Bool, nil
	case token.MINUS:
		if rt.Kind != KUnknown && !rt.IsNumeric() {
			return nil, c.errorf(e.OpPos, "unary - requires a numeric operand, got %s", rt)
		}
		return rt, nil
	}
	panic(fmt.Sprintf("unexpected unary operator %v", e.Op))
}

func (c *Checker) checkCallArgs(pos func() token.Position, params []*Type, args []ast.Expr) error {
	if len(args) != len(params) {
		return c.errorf(pos(), "expected %d argument(s), got %d", len(params), len(args))
	}
	for i, a := range args {
		at, err := c.checkExpr(a)
		if err != nil {
			return err
		}
		if !compatible(params[i], at) {
			return c.errorf(pos(), "argument %d: expected %s, got %s", i+1, params[i], at)
		}
	}
	return nil
}

func (c *Checker) checkCall(e *ast.CallExpr) (*Type, error) {
	ft, err := c.checkExpr(e.Fn)
	if err != nil {
		return nil, err
	}
	if ft.Kind == KUnknown {
		for _, a := range e.Args {
			if _, err := c.checkExpr(a); err != nil {
				return nil, err
			}
		}
		return Unknown, nil
	}
	if ft.Kind != KFunction {
		start, _ := e.Fn.Span()
		return nil, c.errorf(start, "cannot call a value of type %s", ft)
	}
	start, _ := e.Fn.Span()
	if err := c.checkCallArgs(func() token.Position { return start }, ft.Params, e.Args); err != nil {
		return nil, err
	}
	return ft.Return, nil
}

func (c *Checker) checkMethodCall(e *ast.MethodCallExpr) (*Type, error) {
	rt, err := c.checkExpr(e.Recv)
	if err != nil {
		return nil, err
	}
	if rt.Kind == KUnknown {
		for _, a := range e.Args {
			if _, err := c.checkExpr(a); err != nil {
				return nil, err
			}
		}
		return Unknown, nil
	}
	if rt.Kind != KStruct {
		start, _ := e.Recv.Span()
		return nil, c.errorf(start, "cannot call method %s on non-struct type %s", e.Method, rt)
	}
	mt, ok := c.methods[rt.Name][e.Method]
	if !ok {
		start, _ := e.Recv.Span()
		return nil, c.errorf(start, "%s has no method %s", rt.Name, e.Method)
	}
	start, _ := e.Recv.Span()
	if err := c.checkCallArgs(func() token.Position { return start }, mt.Params, e.Args); err != nil {
		return nil, err
	}
	return mt.Return, nil
}

func (c *Checker) checkIndex(e *ast.IndexExpr) (*Type, error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return nil, err
	}
	it, err := c.checkExpr(e.Index)
	if err != nil {
		return nil, err
	}
	if it.Kind != KInt && it.Kind != KInt64 && it.Kind != KUnknown {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "array index must be int, got %s", it)
	}
	if lt.Kind == KUnknown {
		return Unknown, nil
	}
	if lt.Kind != KArray {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot index non-array type %s", lt)
	}
	return lt.Elem, nil
}

// checkIndexAssign type-checks `a[i] = v`. This is never gated on the root
// variable's let/var mutability: the VM's ArraySet builds a new array and
// the compiler writes it back to the root variable, so other bindings of the
// old array are unaffected (see the array value-semantics notes in
// DESIGN.md), and only the element type needs to match.
func (c *Checker) checkIndexAssign(e *ast.IndexAssignExpr) (*Type, error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return nil, err
	}
	it, err := c.checkExpr(e.Index)
	if err != nil {
		return nil, err
	}
	if it.Kind != KInt && it.Kind != KInt64 && it.Kind != KUnknown {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "array index must be int, got %s", it)
	}
	vt, err := c.checkExpr(e.Value)
	if err != nil {
		return nil, err
	}
	if lt.Kind == KUnknown {
		return vt, nil
	}
	if lt.Kind != KArray {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot index non-array type %s", lt)
	}
	if !compatible(lt.Elem, vt) {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot assign %s to array element of type %s", vt, lt.Elem)
	}
	return vt, nil
}

func (c *Checker) checkField(e *ast.FieldExpr) (*Type, error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if lt.Kind == KUnknown {
		return Unknown, nil
	}
	if lt.Kind != KStruct {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot access field %s on non-struct type %s", e.Field, lt)
	}
	fd := lt.fieldByName(e.Field)
	if fd == nil {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "%s has no field %s", lt.Name, e.Field)
	}
	return fd.Type, nil
}

// checkFieldAssign type-checks `obj.f = v`; like index assignment, never
// gated on the receiving variable's own mutability.
func (c *Checker) checkFieldAssign(e *ast.FieldAssignExpr) (*Type, error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return nil, err
	}
	vt, err := c.checkExpr(e.Value)
	if err != nil {
		return nil, err
	}
	if lt.Kind == KUnknown {
		return vt, nil
	}
	if lt.Kind != KStruct {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot access field %s on non-struct type %s", e.Field, lt)
	}
	fd := lt.fieldByName(e.Field)
	if fd == nil {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "%s has no field %s", lt.Name, e.Field)
	}
	if !compatible(fd.Type, vt) {
		start, _ := e.Left.Span()
		return nil, c.errorf(start, "cannot assign %s to field %s.%s of type %s", vt, lt.Name, e.Field, fd.Type)
	}
	return vt, nil
}

// checkAssign type-checks a plain `name = v` assignment. Unlike index and
// field assignment, this is the one case spec.md's array value-semantics
// example turns on: assigning straight to a let-bound name must fail.
func (c *Checker) checkAssign(e *ast.AssignExpr) (*Type, error) {
	ident, ok := e.Left.(*ast.IdentExpr)
	if !ok {
		panic(fmt.Sprintf("unexpected assignment target %T", e.Left))
	}
	sym, ok := c.scope.lookup(ident.Name)
	if !ok {
		return nil, c.errorf(ident.Start, "undefined: %s", ident.Name)
	}
	vt, err := c.checkExpr(e.Value)
	if err != nil {
		return nil, err
	}
	if !sym.Mutable {
		return nil, c.errorf(ident.Start, "cannot assign to %s: declared with let", ident.Name)
	}
	if !compatible(sym.Type, vt) {
		return nil, c.errorf(ident.Start, "cannot assign %s to %s of type %s", vt, ident.Name, sym.Type)
	}
	return vt, nil
}
