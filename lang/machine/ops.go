package machine

import "github.com/mna/zero/lang/compiler"

// asFloat widens an Int64/Float64 value to a float64, reporting whether v
// was numeric at all.
func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int64:
		return float64(v), true
	case Float64:
		return float64(v), true
	}
	return 0, false
}

func asInt(v Value, line int32) (int64, error) {
	i, ok := v.(Int64)
	if !ok {
		return 0, runtimeErrorf(line, "expected an int, got %s", v.Type())
	}
	return int64(i), nil
}

// asBool only accepts Bool, not the full truthiness table from spec.md §3
// (0, 0.0, null, '\0' falsy; everything else truthy): lang/checker gates
// every condition/!/&&/|| operand to Bool before this ever runs, so the
// wider table has no reachable caller today and is not implemented here.
func asBool(v Value, line int32) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, runtimeErrorf(line, "expected a bool, got %s", v.Type())
	}
	return bool(b), nil
}

// arith implements Add/Subtract/Multiply/Divide/Modulo's numeric coercion
// rules from spec.md §4.4: if either operand is a Float, the result is a
// Float; two Ints stay Int; Add additionally accepts two Strings as
// concatenation.
func arith(op compiler.Opcode, x, y Value, line int32) (Value, error) {
	if op == compiler.Add {
		if xs, ok := x.(Str); ok {
			if ys, ok := y.(Str); ok {
				return xs + ys, nil
			}
		}
	}

	xi, xIsInt := x.(Int64)
	yi, yIsInt := y.(Int64)
	if xIsInt && yIsInt {
		switch op {
		case compiler.Add:
			return xi + yi, nil
		case compiler.Subtract:
			return xi - yi, nil
		case compiler.Multiply:
			return xi * yi, nil
		case compiler.Divide:
			if yi == 0 {
				return nil, runtimeErrorf(line, "division by zero")
			}
			return xi / yi, nil
		case compiler.Modulo:
			if yi == 0 {
				return nil, runtimeErrorf(line, "division by zero")
			}
			return xi % yi, nil
		}
	}

	if op == compiler.Modulo {
		return nil, runtimeErrorf(line, "%% requires int operands, got %s and %s", x.Type(), y.Type())
	}

	xf, xOk := asFloat(x)
	yf, yOk := asFloat(y)
	if !xOk || !yOk {
		return nil, runtimeErrorf(line, "cannot apply arithmetic to %s and %s", x.Type(), y.Type())
	}
	switch op {
	case compiler.Add:
		return Float64(xf + yf), nil
	case compiler.Subtract:
		return Float64(xf - yf), nil
	case compiler.Multiply:
		return Float64(xf * yf), nil
	case compiler.Divide:
		if yf == 0 {
			return nil, runtimeErrorf(line, "division by zero")
		}
		return Float64(xf / yf), nil
	}
	return nil, runtimeErrorf(line, "internal error: unexpected arithmetic opcode %v", op)
}

func negate(v Value, line int32) (Value, error) {
	switch v := v.(type) {
	case Int64:
		return -v, nil
	case Float64:
		return -v, nil
	}
	return nil, runtimeErrorf(line, "cannot negate a %s", v.Type())
}

// compareOp implements Less/LessEqual/Greater/GreaterEqual. Two numeric
// values compare after widening to float; two strings compare
// lexicographically; any other pairing is a type error.
func compareOp(op compiler.Opcode, x, y Value, line int32) (Value, error) {
	if xs, ok := x.(Str); ok {
		ys, ok := y.(Str)
		if !ok {
			return nil, runtimeErrorf(line, "cannot compare %s and %s", x.Type(), y.Type())
		}
		return Bool(compareOrdered(op, cmpStrings(string(xs), string(ys)))), nil
	}

	xf, xOk := asFloat(x)
	yf, yOk := asFloat(y)
	if !xOk || !yOk {
		return nil, runtimeErrorf(line, "cannot compare %s and %s", x.Type(), y.Type())
	}
	var c int
	switch {
	case xf < yf:
		c = -1
	case xf > yf:
		c = 1
	}
	return Bool(compareOrdered(op, c)), nil
}

func cmpStrings(x, y string) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op compiler.Opcode, c int) bool {
	switch op {
	case compiler.Less:
		return c < 0
	case compiler.LessEqual:
		return c <= 0
	case compiler.Greater:
		return c > 0
	case compiler.GreaterEqual:
		return c >= 0
	}
	panic("unreachable")
}
