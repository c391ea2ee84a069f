// Package compiler takes a type-checked AST and emits bytecode for the
// stack-based virtual machine in lang/machine. Compilation is a single
// pass over already-checked statements and expressions: the compiler trusts
// that lang/checker has already rejected every type error, and limits
// itself to the failures that are purely about code generation (undefined
// name, undefined struct/field, too many locals, too many constants,
// break/continue outside a loop).
package compiler

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// Error describes a single compile-time failure.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

func errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// MaxLocals bounds the number of local slots a single function body may
// allocate. Overridable at process startup via ZERO_MAX_LOCALS
// (internal/maincmd); 256 matches the fixed 2-byte LoadLocal/StoreLocal
// operand width with room to spare.
var MaxLocals = 256

type fieldInfo struct {
	Name     string
	TypeName string // struct type name if this field is itself struct-typed, else ""
}

type structInfo struct {
	Fields []fieldInfo
}

func (s *structInfo) indexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// binding is what an identifier resolves to: either a local slot in the
// current function, or a fully qualified global name.
type binding struct {
	isLocal  bool
	slot     int
	mutable  bool
	global   string // qualified name, e.g. "math::sq" or "x"
	typeName string // static struct type, if known; "" if unknown (see §9)
}

type scope struct {
	parent *scope
	names  map[string]binding
}

func newScope(parent *scope) *scope { return &scope{parent: parent, names: map[string]binding{}} }

func (s *scope) declare(name string, b binding) { s.names[name] = b }

func (s *scope) lookup(name string) (binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.names[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// program is the state shared by the whole compilation: the struct layout
// table and the impl method table, both flat and keyed by bare name,
// exactly mirroring the type checker's own namespace (lang/checker).
type program struct {
	structs map[string]*structInfo
	methods map[string]map[string]*Chunk
	globals map[string]bool // set of every declared qualified global name
}

// compiler holds the state for one function (or the top-level module)
// being compiled into a single Chunk.
type compiler struct {
	prog   *program
	chunk  *Chunk
	scope  *scope
	depth  int
	nextSlot int

	modulePath []string

	loopStarts []int
	loopBreaks [][]int
}

// Compile compiles a fully type-checked entry chunk (with all mod
// references already resolved to mod declarations; see lang/module and
// lang/checker) into its top-level Chunk.
func Compile(ch *ast.Chunk) (*Chunk, error) {
	prog := &program{
		structs: map[string]*structInfo{},
		methods: map[string]map[string]*Chunk{},
		globals: map[string]bool{},
	}
	if err := collectDecls(prog, nil, ch.Block.Stmts); err != nil {
		return nil, err
	}

	c := &compiler{
		prog:  prog,
		chunk: &Chunk{Name: "<module>"},
		scope: newScope(nil),
	}
	if err := c.compileBlock(ch.Block.Stmts); err != nil {
		return nil, err
	}
	c.chunk.emit(Halt, 0)
	c.chunk.NumLocals = c.nextSlot
	return c.chunk, nil
}

func qualify(path []string, name string) string {
	if len(path) == 0 {
		return name
	}
	q := ""
	for _, p := range path {
		q += p + "::"
	}
	return q + name
}

// collectDecls walks stmts (recursing into mod bodies only, not into
// if/while/for/block bodies or function/method bodies) registering every struct layout
// and impl method placeholder and every declared global name, before any
// statement is compiled — mirroring the type checker's own two-pass
// declare-then-check shape (lang/checker.declareHeaders).
func collectDecls(prog *program, path []string, stmts []ast.Stmt) error {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.StructDeclStmt:
			if _, exists := prog.structs[s.Name]; exists {
				return errorf(s.Start, "struct %q already declared", s.Name)
			}
			prog.structs[s.Name] = &structInfo{}
		case *ast.ModuleDeclStmt:
			if err := collectDecls(prog, append(append([]string{}, path...), s.Name), s.Body.Stmts); err != nil {
				return err
			}
		}
	}
	for _, s := range stmts {
		sd, ok := s.(*ast.StructDeclStmt)
		if !ok {
			continue
		}
		info := prog.structs[sd.Name]
		for _, fd := range sd.Fields {
			typeName := ""
			if nt, ok := fd.Type.(*ast.NamedType); ok {
				if _, isStruct := prog.structs[nt.Name]; isStruct {
					typeName = nt.Name
				}
			}
			info.Fields = append(info.Fields, fieldInfo{Name: fd.Name, TypeName: typeName})
		}
	}
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.VarDeclStmt:
			prog.globals[qualify(path, s.Name)] = true
		case *ast.FuncDeclStmt:
			prog.globals[qualify(path, s.Name)] = true
		case *ast.ImplDeclStmt:
			if _, ok := prog.structs[s.TypeName]; !ok {
				return errorf(s.Start, "undefined struct: %s", s.TypeName)
			}
			if prog.methods[s.TypeName] == nil {
				prog.methods[s.TypeName] = map[string]*Chunk{}
			}
		}
	}
	return nil
}
