package checker

import (
	"fmt"
	"strings"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// Kind identifies the shape of a Type.
type Kind int

// List of type kinds.
const (
	KUnknown Kind = iota
	KInt
	KInt64
	KFloat
	KString
	KBool
	KChar
	KVoid
	KNull
	KArray
	KFunction
	KStruct
)

// Field describes one field of a Struct type, in declaration order.
type Field struct {
	Name string
	Type *Type
}

// Type is the checker's static type representation. Struct identity is by
// Name: two *Type values of Kind KStruct with the same Name denote the same
// struct, since structs live in a single flat namespace (see DESIGN.md).
type Type struct {
	Kind   Kind
	Elem   *Type   // KArray
	Params []*Type // KFunction
	Return *Type   // KFunction
	Name   string  // KStruct
	Fields []Field // KStruct, in canonical declaration order
}

// Predeclared primitive and sentinel types. These are shared, immutable
// values; never mutate a *Type returned from here.
var (
	Int     = &Type{Kind: KInt}
	Int64   = &Type{Kind: KInt64}
	Float   = &Type{Kind: KFloat}
	String  = &Type{Kind: KString}
	Bool    = &Type{Kind: KBool}
	Char    = &Type{Kind: KChar}
	Void    = &Type{Kind: KVoid}
	Null    = &Type{Kind: KNull}
	Unknown = &Type{Kind: KUnknown}
)

// ArrayOf builds an array type with the given element type.
func ArrayOf(elem *Type) *Type { return &Type{Kind: KArray, Elem: elem} }

// FuncType builds a function type.
func FuncType(params []*Type, ret *Type) *Type {
	return &Type{Kind: KFunction, Params: params, Return: ret}
}

// IsNumeric reports whether t is Int, Int64 or Float.
func (t *Type) IsNumeric() bool {
	return t.Kind == KInt || t.Kind == KInt64 || t.Kind == KFloat
}

func (t *Type) String() string {
	switch t.Kind {
	case KUnknown:
		return "unknown"
	case KInt:
		return "int"
	case KInt64:
		return "int64"
	case KFloat:
		return "float"
	case KString:
		return "string"
	case KBool:
		return "bool"
	case KChar:
		return "char"
	case KVoid:
		return "void"
	case KNull:
		return "null"
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
	case KStruct:
		return t.Name
	}
	return "?"
}

func (t *Type) fieldByName(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// compatible reports whether a value of type src may be used where dst is
// expected: same type, both numeric, or either side Unknown.
func compatible(dst, src *Type) bool {
	if dst.Kind == KUnknown || src.Kind == KUnknown {
		return true
	}
	if dst.Kind != src.Kind {
		return dst.IsNumeric() && src.IsNumeric()
	}
	switch dst.Kind {
	case KArray:
		return compatible(dst.Elem, src.Elem)
	case KStruct:
		return dst.Name == src.Name
	}
	return true
}

func primitiveType(kind token.Token) *Type {
	switch kind {
	case token.KWINT:
		return Int
	case token.KWINT64:
		return Int64
	case token.KWFLOAT:
		return Float
	case token.KWSTRING:
		return String
	case token.KWBOOL:
		return Bool
	case token.KWVOID:
		return Void
	case token.KWNULL:
		return Null
	}
	panic(fmt.Sprintf("unexpected primitive type token %v", kind))
}

// resolveTypeExpr resolves a concrete (non-nil) type annotation to a Type,
// recursively resolving Named types to a declared struct or alias target.
// Use resolveOptionalType for annotation sites where the TypeExpr may be nil.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) (*Type, error) {
	return c.resolveTypeExprSeen(te, map[string]bool{})
}

func (c *Checker) resolveTypeExprSeen(te ast.TypeExpr, seen map[string]bool) (*Type, error) {
	switch te := te.(type) {
	case *ast.PrimitiveType:
		return primitiveType(te.Kind), nil
	case *ast.ArrayTypeExpr:
		elem, err := c.resolveTypeExprSeen(te.Elem, seen)
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case *ast.NamedType:
		if st, ok := c.structs[te.Name]; ok {
			return st, nil
		}
		if seen[te.Name] {
			return nil, c.errorf(te.Start, "circular type alias: %s", te.Name)
		}
		target, ok := c.aliases[te.Name]
		if !ok {
			return nil, c.errorf(te.Start, "undefined type: %s", te.Name)
		}
		seen[te.Name] = true
		return c.resolveTypeExprSeen(target, seen)
	}
	panic(fmt.Sprintf("unexpected type expr %T", te))
}

// resolveOptionalType resolves te, or returns ifNil when te is nil (an
// omitted annotation): Unknown for an untyped parameter/variable, Void for an
// omitted function return type.
func (c *Checker) resolveOptionalType(te ast.TypeExpr, ifNil *Type) (*Type, error) {
	if te == nil {
		return ifNil, nil
	}
	return c.resolveTypeExpr(te)
}
