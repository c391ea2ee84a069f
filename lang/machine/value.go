// Package machine implements the stack-based virtual machine that executes
// bytecode compiled by lang/compiler, and the runtime representation of
// Zero's values.
package machine

import (
	"fmt"
	"strconv"
)

// Value is the interface implemented by every value the machine can push on
// its stack, bind to a local/global, or pass as an argument.
type Value interface {
	// String returns the value's display form, as printed by the Print
	// instruction.
	String() string
	// Type returns a short name for the value's type, used in runtime error
	// messages (e.g. "cannot apply arithmetic to int and string").
	Type() string
}

// Int64 is a Zero `int` value.
type Int64 int64

func (v Int64) String() string { return strconv.FormatInt(int64(v), 10) }
func (Int64) Type() string     { return "int" }

// Float64 is a Zero `float` value.
type Float64 float64

func (v Float64) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (Float64) Type() string     { return "float" }

// Str is a Zero `string` value.
type Str string

func (v Str) String() string { return string(v) }
func (Str) Type() string     { return "string" }

// Bool is a Zero `bool` value.
type Bool bool

func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Null is the sole value of Zero's `null` type.
type Null struct{}

func (Null) String() string { return "null" }
func (Null) Type() string   { return "null" }

// TheNull is the singleton Null value; every LoadNull pushes this value.
var TheNull = Null{}

// Array is a Zero array. Arrays have value semantics: ArraySet never mutates
// an existing Array in place, it produces a new one (see the ArraySet case
// in VM.step), so
// sharing an Array between two bindings is always safe.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (a *Array) String() string {
	s := "["
	for i, e := range a.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}
func (*Array) Type() string { return "array" }

// Struct is a Zero struct value. Field names are erased at compile time
// (lang/compiler resolves field access to a positional index), so a Struct
// only needs to remember its type name (for error messages and printing)
// and the field values in declaration order.
type Struct struct {
	TypeName string
	Fields   []Value
}

func NewStruct(typeName string, fields []Value) *Struct {
	return &Struct{TypeName: typeName, Fields: fields}
}

func (s *Struct) String() string {
	out := s.TypeName + "{"
	for i, f := range s.Fields {
		if i > 0 {
			out += ", "
		}
		out += f.String()
	}
	return out + "}"
}
func (*Struct) Type() string { return "struct" }

// valuesEqual implements Equal/NotEqual's structural primitive equality:
// Null == Null is true, values of different dynamic types are never equal,
// arrays/structs compare element-wise.
func valuesEqual(x, y Value) (bool, error) {
	switch x := x.(type) {
	case Int64:
		y, ok := y.(Int64)
		return ok && x == y, nil
	case Float64:
		y, ok := y.(Float64)
		return ok && x == y, nil
	case Str:
		y, ok := y.(Str)
		return ok && x == y, nil
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y, nil
	case Null:
		_, ok := y.(Null)
		return ok, nil
	case *Array:
		y, ok := y.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false, nil
		}
		for i := range x.Elems {
			eq, err := valuesEqual(x.Elems[i], y.Elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Struct:
		y, ok := y.(*Struct)
		if !ok || x.TypeName != y.TypeName || len(x.Fields) != len(y.Fields) {
			return false, nil
		}
		for i := range x.Fields {
			eq, err := valuesEqual(x.Fields[i], y.Fields[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Function:
		y, ok := y.(*Function)
		return ok && x == y, nil
	default:
		return false, fmt.Errorf("cannot compare %s values", x.Type())
	}
}
