package interp

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

func (it *Interp) eval(x ast.Expr, e *env) (any, error) {
	switch x := x.(type) {
	case *ast.LiteralExpr:
		if x.Kind == token.KWNULL {
			return nil, nil
		}
		return x.Value, nil

	case *ast.IdentExpr:
		v, ok := e.get(x.Name)
		if !ok {
			return nil, errorf(x.Start, "undefined: %s", x.Name)
		}
		return v, nil

	case *ast.BinaryExpr:
		return it.evalBinary(x, e)

	case *ast.UnaryExpr:
		return it.evalUnary(x, e)

	case *ast.CallExpr:
		return it.evalCall(x, e)

	case *ast.AssignExpr:
		ident, ok := x.Left.(*ast.IdentExpr)
		if !ok {
			start, _ := x.Span()
			return nil, errorf(start, "unsupported assignment target in legacy interpreter")
		}
		v, err := it.eval(x.Value, e)
		if err != nil {
			return nil, err
		}
		if !e.set(ident.Name, v) {
			return nil, errorf(ident.Start, "undefined: %s", ident.Name)
		}
		return v, nil

	default:
		start, _ := x.Span()
		return nil, errorf(start, "unsupported expression in legacy interpreter: %T", x)
	}
}

func (it *Interp) evalCall(x *ast.CallExpr, e *env) (any, error) {
	ident, ok := x.Fn.(*ast.IdentExpr)
	if !ok {
		start, _ := x.Span()
		return nil, errorf(start, "unsupported call target in legacy interpreter")
	}
	fn, ok := it.fns[ident.Name]
	if !ok {
		return nil, errorf(ident.Start, "undefined function: %s", ident.Name)
	}
	if len(x.Args) != len(fn.Params) {
		return nil, errorf(ident.Start, "%s: expected %d argument(s), got %d", ident.Name, len(fn.Params), len(x.Args))
	}

	callEnv := newEnv(nil)
	for i, p := range fn.Params {
		v, err := it.eval(x.Args[i], e)
		if err != nil {
			return nil, err
		}
		callEnv.declare(p.Name, v)
	}

	err := it.execBlock(fn.Body, callEnv)
	if err == nil {
		return nil, nil
	}
	if ret, ok := err.(returnSignal); ok {
		return ret.value, nil
	}
	return nil, err
}
