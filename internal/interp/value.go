package interp

import (
	"fmt"
	"strconv"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asBool(pos token.Position, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errorf(pos, "expected a bool, got %s", describeType(v))
	}
	return b, nil
}

func asInt(pos token.Position, v any) (int64, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, errorf(pos, "expected an int, got %s", describeType(v))
	}
	return i, nil
}

func asFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func describeType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (it *Interp) evalUnary(x *ast.UnaryExpr, e *env) (any, error) {
	v, err := it.eval(x.Right, e)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.BANG:
		b, err := asBool(x.OpPos, v)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case token.MINUS:
		switch v := v.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, errorf(x.OpPos, "cannot negate a %s", describeType(v))
	}
	return nil, errorf(x.OpPos, "unsupported unary operator: %s", x.Op.GoString())
}

func (it *Interp) evalBinary(x *ast.BinaryExpr, e *env) (any, error) {
	switch x.Op {
	case token.ANDAND:
		l, err := it.eval(x.Left, e)
		if err != nil {
			return nil, err
		}
		lb, err := asBool(x.OpPos, l)
		if err != nil {
			return nil, err
		}
		if !lb {
			return false, nil
		}
		r, err := it.eval(x.Right, e)
		if err != nil {
			return nil, err
		}
		return asBool(x.OpPos, r)
	case token.OROR:
		l, err := it.eval(x.Left, e)
		if err != nil {
			return nil, err
		}
		lb, err := asBool(x.OpPos, l)
		if err != nil {
			return nil, err
		}
		if lb {
			return true, nil
		}
		r, err := it.eval(x.Right, e)
		if err != nil {
			return nil, err
		}
		return asBool(x.OpPos, r)
	}

	l, err := it.eval(x.Left, e)
	if err != nil {
		return nil, err
	}
	r, err := it.eval(x.Right, e)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		return arith(x.OpPos, x.Op, l, r)
	case token.PERCENT:
		li, lok := l.(int64)
		ri, rok := r.(int64)
		if !lok || !rok {
			return nil, errorf(x.OpPos, "%% requires int operands, got %s and %s", describeType(l), describeType(r))
		}
		if ri == 0 {
			return nil, errorf(x.OpPos, "division by zero")
		}
		return li % ri, nil
	case token.EQEQ:
		return valuesEqual(l, r), nil
	case token.BANGEQ:
		return !valuesEqual(l, r), nil
	case token.LT, token.LE, token.GT, token.GE:
		return compareOp(x.OpPos, x.Op, l, r)
	}
	return nil, errorf(x.OpPos, "unsupported binary operator: %s", x.Op.GoString())
}

func arith(pos token.Position, op token.Token, l, r any) (any, error) {
	if op == token.PLUS {
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}
	}

	li, lIsInt := l.(int64)
	ri, rIsInt := r.(int64)
	if lIsInt && rIsInt {
		switch op {
		case token.PLUS:
			return li + ri, nil
		case token.MINUS:
			return li - ri, nil
		case token.STAR:
			return li * ri, nil
		case token.SLASH:
			if ri == 0 {
				return nil, errorf(pos, "division by zero")
			}
			return li / ri, nil
		}
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, errorf(pos, "cannot apply arithmetic to %s and %s", describeType(l), describeType(r))
	}
	switch op {
	case token.PLUS:
		return lf + rf, nil
	case token.MINUS:
		return lf - rf, nil
	case token.STAR:
		return lf * rf, nil
	case token.SLASH:
		if rf == 0 {
			return nil, errorf(pos, "division by zero")
		}
		return lf / rf, nil
	}
	return nil, errorf(pos, "internal error: unexpected arithmetic operator %s", op.GoString())
}

func compareOp(pos token.Position, op token.Token, l, r any) (any, error) {
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, errorf(pos, "cannot compare %s and %s", describeType(l), describeType(r))
	}
	switch op {
	case token.LT:
		return lf < rf, nil
	case token.LE:
		return lf <= rf, nil
	case token.GT:
		return lf > rf, nil
	case token.GE:
		return lf >= rf, nil
	}
	panic("unreachable")
}

func valuesEqual(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	switch l := l.(type) {
	case int64:
		r, ok := r.(int64)
		return ok && l == r
	case float64:
		r, ok := r.(float64)
		return ok && l == r
	case string:
		r, ok := r.(string)
		return ok && l == r
	case bool:
		r, ok := r.(bool)
		return ok && l == r
	}
	return false
}
