package compiler

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// resolveIdent resolves a bare identifier: first against the lexical scope
// (locals and use-bound aliases), then by qualifying it with the current
// module path, so that code inside `mod math { ... }` can call its own
// sibling declarations unqualified without a `use` statement.
func (c *compiler) resolveIdent(name string) (binding, bool) {
	if b, ok := c.scope.lookup(name); ok {
		return b, true
	}
	q := qualify(c.modulePath, name)
	if c.prog.globals[q] {
		return binding{global: q}, true
	}
	return binding{}, false
}

// inferExprType returns the static struct type name e evaluates to, or ""
// if unknown. This is deliberately a best-effort, purely local inference
// (identifiers, struct literals, and field chains through known struct
// types) — anything else falls back to the unknown case documented in
// spec.md §9, resolved by FieldGet(0) at the access site.
func (c *compiler) inferExprType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IdentExpr:
		if b, ok := c.resolveIdent(e.Name); ok {
			return b.typeName
		}
		return ""
	case *ast.StructLiteralExpr:
		return e.TypeName
	case *ast.FieldExpr:
		parent := c.inferExprType(e.Left)
		if parent == "" {
			return ""
		}
		info := c.prog.structs[parent]
		if info == nil {
			return ""
		}
		idx := info.indexOf(e.Field)
		if idx < 0 {
			return ""
		}
		return info.Fields[idx].TypeName
	default:
		return ""
	}
}

func (c *compiler) compileExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return c.compileLiteral(e)
	case *ast.IdentExpr:
		b, ok := c.resolveIdent(e.Name)
		if !ok {
			return errorf(e.Start, "undefined: %s", e.Name)
		}
		if b.isLocal {
			c.chunk.emitArg(LoadLocal, uint16(b.slot), e.Start.Line)
		} else {
			idx := c.chunk.addConstant(b.global)
			c.chunk.emitArg(LoadGlobal, idx, e.Start.Line)
		}
		return nil
	case *ast.PathExpr:
		name := qualify(e.Segments[:len(e.Segments)-1], e.Segments[len(e.Segments)-1])
		if !c.prog.globals[name] {
			return errorf(e.Start, "undefined: %s", name)
		}
		idx := c.chunk.addConstant(name)
		c.chunk.emitArg(LoadGlobal, idx, e.Start.Line)
		return nil
	case *ast.ArrayLiteralExpr:
		for _, it := range e.Items {
			if err := c.compileExpr(it); err != nil {
				return err
			}
		}
		c.chunk.emitArg(NewArray, uint16(len(e.Items)), e.Lbrack.Line)
		return nil
	case *ast.StructLiteralExpr:
		return c.compileStructLiteral(e)
	case *ast.BinaryExpr:
		return c.compileBinary(e)
	case *ast.UnaryExpr:
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		switch e.Op {
		case token.BANG:
			c.chunk.emit(Not, e.OpPos.Line)
		case token.MINUS:
			c.chunk.emit(Negate, e.OpPos.Line)
		default:
			panic(fmt.Sprintf("unexpected unary operator %v", e.Op))
		}
		return nil
	case *ast.CallExpr:
		if err := c.compileExpr(e.Fn); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.chunk.emitArg(Call, uint16(len(e.Args)), e.Rparen.Line)
		return nil
	case *ast.MethodCallExpr:
		return c.compileMethodCall(e)
	case *ast.IndexExpr:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		if err := c.compileExpr(e.Index); err != nil {
			return err
		}
		c.chunk.emit(ArrayGet, e.Rbrack.Line)
		return nil
	case *ast.IndexAssignExpr:
		return c.compileIndexAssign(e)
	case *ast.FieldExpr:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		idx := c.fieldIndex(e.Left, e.Field)
		c.chunk.emitArg(FieldGet, uint16(idx), e.End_.Line)
		return nil
	case *ast.FieldAssignExpr:
		return c.compileFieldAssign(e)
	case *ast.AssignExpr:
		return c.compileAssign(e)
	}
	panic(fmt.Sprintf("unexpected expr %T", e))
}

// fieldIndex resolves obj.field to its canonical field index; an object of
// unresolved static type falls back to index 0, the documented limitation
// in spec.md §9.
func (c *compiler) fieldIndex(obj ast.Expr, field string) int {
	typeName := c.inferExprType(obj)
	if typeName == "" {
		return 0
	}
	info := c.prog.structs[typeName]
	if info == nil {
		return 0
	}
	if idx := info.indexOf(field); idx >= 0 {
		return idx
	}
	return 0
}

func (c *compiler) compileLiteral(e *ast.LiteralExpr) error {
	line := e.Start.Line
	if e.Kind == token.KWNULL {
		c.chunk.emit(LoadNull, line)
		return nil
	}
	idx := c.chunk.addConstant(e.Value)
	c.chunk.emitArg(LoadConst, idx, line)
	return nil
}

func (c *compiler) compileStructLiteral(e *ast.StructLiteralExpr) error {
	info, ok := c.prog.structs[e.TypeName]
	if !ok {
		return errorf(e.Start, "undefined struct: %s", e.TypeName)
	}
	byName := make(map[string]ast.Expr, len(e.Fields))
	for _, fi := range e.Fields {
		byName[fi.Name] = fi.Value
	}
	for _, f := range info.Fields {
		v, ok := byName[f.Name]
		if !ok {
			return errorf(e.Start, "%s literal: missing field %q", e.TypeName, f.Name)
		}
		if err := c.compileExpr(v); err != nil {
			return err
		}
	}
	nameIdx := c.chunk.addConstant(e.TypeName)
	c.chunk.emitArg(LoadConst, nameIdx, e.Start.Line)
	c.chunk.emitArg(NewStruct, uint16(len(info.Fields)), e.Start.Line)
	return nil
}

func (c *compiler) compileBinary(e *ast.BinaryExpr) error {
	line := e.OpPos.Line
	switch e.Op {
	case token.ANDAND:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		j := c.chunk.emit(JumpIfFalse, line)
		c.chunk.emit(Pop, line)
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.chunk.patchJump(j)
		return nil
	case token.OROR:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		j := c.chunk.emit(JumpIfTrue, line)
		c.chunk.emit(Pop, line)
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.chunk.patchJump(j)
		return nil
	}

	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	switch e.Op {
	case token.PLUS:
		c.chunk.emit(Add, line)
	case token.MINUS:
		c.chunk.emit(Subtract, line)
	case token.STAR:
		c.chunk.emit(Multiply, line)
	case token.SLASH:
		c.chunk.emit(Divide, line)
	case token.PERCENT:
		c.chunk.emit(Modulo, line)
	case token.EQEQ:
		c.chunk.emit(Equal, line)
	case token.BANGEQ:
		c.chunk.emit(NotEqual, line)
	case token.LT:
		c.chunk.emit(Less, line)
	case token.LE:
		c.chunk.emit(LessEqual, line)
	case token.GT:
		c.chunk.emit(Greater, line)
	case token.GE:
		c.chunk.emit(GreaterEqual, line)
	default:
		panic(fmt.Sprintf("unexpected binary operator %v", e.Op))
	}
	return nil
}

func (c *compiler) compileMethodCall(e *ast.MethodCallExpr) error {
	typeName := c.inferExprType(e.Recv)
	if typeName == "" {
		start, _ := e.Recv.Span()
		return errorf(start, "cannot resolve static type of method receiver for .%s(...)", e.Method)
	}
	tbl := c.prog.methods[typeName]
	fn, ok := tbl[e.Method]
	if !ok {
		start, _ := e.Recv.Span()
		return errorf(start, "%s has no method %s", typeName, e.Method)
	}
	idx := c.chunk.addConstant(fn)
	c.chunk.emitArg(LoadConst, idx, e.Rparen.Line)
	if err := c.compileExpr(e.Recv); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.chunk.emitArg(Call, uint16(len(e.Args)+1), e.Rparen.Line)
	return nil
}

func (c *compiler) compileIndexAssign(e *ast.IndexAssignExpr) error {
	start, _ := e.Left.Span()
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Index); err != nil {
		return err
	}
	if err := c.compileExpr(e.Value); err != nil {
		return err
	}
	c.chunk.emit(ArraySet, start.Line)
	if ident, ok := e.Left.(*ast.IdentExpr); ok {
		b, ok := c.resolveIdent(ident.Name)
		if !ok {
			return errorf(ident.Start, "undefined: %s", ident.Name)
		}
		c.storeBinding(b, start.Line, false)
	}
	return nil
}

func (c *compiler) compileFieldAssign(e *ast.FieldAssignExpr) error {
	start, _ := e.Left.Span()
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	idx := c.fieldIndex(e.Left, e.Field)
	if err := c.compileExpr(e.Value); err != nil {
		return err
	}
	c.chunk.emitArg(FieldSet, uint16(idx), start.Line)
	if ident, ok := e.Left.(*ast.IdentExpr); ok {
		b, ok := c.resolveIdent(ident.Name)
		if !ok {
			return errorf(ident.Start, "undefined: %s", ident.Name)
		}
		c.storeBinding(b, start.Line, false)
	}
	return nil
}

func (c *compiler) compileAssign(e *ast.AssignExpr) error {
	ident := e.Left.(*ast.IdentExpr)
	b, ok := c.resolveIdent(ident.Name)
	if !ok {
		return errorf(ident.Start, "undefined: %s", ident.Name)
	}
	if err := c.compileExpr(e.Value); err != nil {
		return err
	}
	c.storeBinding(b, ident.Start.Line, false)
	return nil
}
