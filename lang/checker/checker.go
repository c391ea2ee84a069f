// Package checker implements the type checker: scoped symbol tables,
// named-type resolution, module-visibility rules, import aliasing and method
// signature tables, applied to an already parsed and module-resolved AST
// (see lang/module). It type-checks in place; it does not rewrite the tree.
package checker

import (
	"fmt"
	"strings"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"

	"github.com/dolthub/swiss"
)

// Checker holds all state accumulated while type-checking one entry chunk
// and the modules transitively reached through its mod declarations.
type Checker struct {
	scope *Scope

	// exports is the per-module export table: every top-scope symbol of every
	// module encountered, keyed by exportKey(modulePath, name), regardless of
	// its Visibility. Keeping private symbols here too (rather than omitting
	// them) lets Path/use lookups distinguish "undefined" from "private",
	// matching the distinct failure kinds in spec.md's failure taxonomy.
	exports *swiss.Map[string, *Symbol]
	// exportNames lists, per module path, the names exported in declaration
	// order; used only to expand `use path::*`. Plain bookkeeping, not a hot
	// path, so it stays a bare map alongside the swiss.Map export table.
	exportNames map[string][]string

	// structs, aliases and methods are flat, module-independent namespaces,
	// mirroring the bytecode compiler's own flat structs/methods tables
	// (spec.md §4.5): a struct or type alias declared anywhere in the program
	// is visible everywhere by name. See DESIGN.md for why this diverges from
	// a literal reading of "defines S in the current scope".
	structs map[string]*Type
	aliases map[string]ast.TypeExpr
	methods map[string]map[string]*Type

	currentModule []string
	atModuleTop   bool
	loopDepth     int
	returnStack   []*Type
}

// New builds a Checker ready to check one compilation (an entry chunk plus
// every module it transitively references).
func New() *Checker {
	return &Checker{
		scope:       newScope(nil),
		exports:     swiss.NewMap[string, *Symbol](16),
		exportNames: make(map[string][]string),
		structs:     make(map[string]*Type),
		aliases:     make(map[string]ast.TypeExpr),
		methods:     make(map[string]map[string]*Type),
	}
}

// Check type-checks ch, including every nested *ast.ModuleDeclStmt (the
// module loader must already have replaced mod references with declarations;
// see lang/module.ResolveReferences).
func (c *Checker) Check(ch *ast.Chunk) error {
	return c.checkBlock(ch.Block.Stmts, true)
}

func (c *Checker) modulePath() string { return strings.Join(c.currentModule, "::") }

func exportKey(path []string, name string) string {
	return strings.Join(path, "::") + "\x00" + name
}

func (c *Checker) export(name string, sym *Symbol) {
	key := exportKey(c.currentModule, name)
	c.exports.Put(key, sym)
	path := c.modulePath()
	c.exportNames[path] = append(c.exportNames[path], name)
}

// checkBlock type-checks one sequence of statements in the current scope: it
// first declares struct/alias/fn/impl headers (so mutual forward reference
// works, mirroring how the teacher's resolver declares a class's fields then
// methods before checking either body), then checks every statement in
// source order. isModuleTop controls whether declarations here are recorded
// in the export table.
func (c *Checker) checkBlock(stmts []ast.Stmt, isModuleTop bool) error {
	prevTop := c.atModuleTop
	c.atModuleTop = isModuleTop
	defer func() { c.atModuleTop = prevTop }()

	if err := c.declareHeaders(stmts); err != nil {
		return err
	}
	for _, s := range stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// declareHeaders registers struct, type-alias, function and impl-method
// signatures before any statement body is checked, so that functions may call
// each other (and themselves) regardless of declaration order within the
// same block.
func (c *Checker) declareHeaders(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if sd, ok := s.(*ast.StructDeclStmt); ok {
			if _, exists := c.structs[sd.Name]; exists {
				return c.errorf(sd.Start, "struct %q already declared", sd.Name)
			}
			c.structs[sd.Name] = &Type{Kind: KStruct, Name: sd.Name}
		}
	}
	for _, s := range stmts {
		sd, ok := s.(*ast.StructDeclStmt)
		if !ok {
			continue
		}
		st := c.structs[sd.Name]
		fields := make([]Field, len(sd.Fields))
		seen := make(map[string]bool, len(sd.Fields))
		for i, fd := range sd.Fields {
			if seen[fd.Name] {
				return c.errorf(sd.Start, "struct %s: duplicate field %q", sd.Name, fd.Name)
			}
			seen[fd.Name] = true
			ft, err := c.resolveTypeExpr(fd.Type)
			if err != nil {
				return err
			}
			fields[i] = Field{Name: fd.Name, Type: ft}
		}
		st.Fields = fields
		sym := &Symbol{Type: st, Visibility: sd.Visibility, Module: c.modulePath()}
		if !c.scope.declare(sd.Name, sym) {
			return c.errorf(sd.Start, "%q already declared in this scope", sd.Name)
		}
		if c.atModuleTop {
			c.export(sd.Name, sym)
		}
	}

	for _, s := range stmts {
		if ta, ok := s.(*ast.TypeAliasStmt); ok {
			if _, exists := c.aliases[ta.Name]; exists {
				return c.errorf(ta.Start, "type %q already declared", ta.Name)
			}
			c.aliases[ta.Name] = ta.Target
		}
	}
	for _, s := range stmts {
		ta, ok := s.(*ast.TypeAliasStmt)
		if !ok {
			continue
		}
		resolved, err := c.resolveTypeExpr(&ast.NamedType{Start: ta.Start, Name: ta.Name})
		if err != nil {
			return err
		}
		sym := &Symbol{Type: resolved, Visibility: ta.Visibility, Module: c.modulePath()}
		if !c.scope.declare(ta.Name, sym) {
			return c.errorf(ta.Start, "%q already declared in this scope", ta.Name)
		}
		if c.atModuleTop {
			c.export(ta.Name, sym)
		}
	}

	for _, s := range stmts {
		fd, ok := s.(*ast.FuncDeclStmt)
		if !ok {
			continue
		}
		ft, err := c.signature(fd.Params, fd.Return)
		if err != nil {
			return err
		}
		sym := &Symbol{Type: ft, Visibility: fd.Visibility, Module: c.modulePath()}
		if !c.scope.declare(fd.Name, sym) {
			return c.errorf(fd.Start, "%q already declared in this scope", fd.Name)
		}
		if c.atModuleTop {
			c.export(fd.Name, sym)
		}
	}

	for _, s := range stmts {
		id, ok := s.(*ast.ImplDeclStmt)
		if !ok {
			continue
		}
		st, ok := c.structs[id.TypeName]
		if !ok {
			return c.errorf(id.Start, "undefined struct: %s", id.TypeName)
		}
		tbl := c.methods[id.TypeName]
		if tbl == nil {
			tbl = make(map[string]*Type)
			c.methods[id.TypeName] = tbl
		}
		for _, m := range id.Methods {
			if len(m.Params) == 0 || m.Params[0].Name != "self" {
				return c.errorf(m.Start, "method %s.%s must declare self as its first parameter", id.TypeName, m.Name)
			}
			mt, err := c.signature(m.Params[1:], m.Return)
			if err != nil {
				return err
			}
			if _, exists := tbl[m.Name]; exists {
				return c.errorf(m.Start, "method %s.%s already declared", id.TypeName, m.Name)
			}
			tbl[m.Name] = mt
			_ = st
		}
	}
	return nil
}

// signature resolves a function/method's parameter and return type
// annotations, defaulting an untyped parameter to Unknown and an omitted
// return type to Void.
func (c *Checker) signature(params []ast.Param, ret ast.TypeExpr) (*Type, error) {
	ptypes := make([]*Type, len(params))
	for i, p := range params {
		pt, err := c.resolveOptionalType(p.Type, Unknown)
		if err != nil {
			return nil, err
		}
		ptypes[i] = pt
	}
	rt, err := c.resolveOptionalType(ret, Void)
	if err != nil {
		return nil, err
	}
	return FuncType(ptypes, rt), nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.StructDeclStmt, *ast.TypeAliasStmt:
		return nil // fully handled by declareHeaders
	case *ast.FuncDeclStmt:
		return c.checkFuncBody(s)
	case *ast.ImplDeclStmt:
		return c.checkImplBodies(s)
	case *ast.VarDeclStmt:
		return c.checkVarDecl(s)
	case *ast.ExprStmt:
		_, err := c.checkExpr(s.X)
		return err
	case *ast.ReturnStmt:
		return c.checkReturn(s)
	case *ast.IfStmt:
		return c.checkIf(s)
	case *ast.WhileStmt:
		return c.checkWhile(s)
	case *ast.ForRangeStmt:
		return c.checkForRange(s)
	case *ast.PrintStmt:
		for _, a := range s.Args {
			if _, err := c.checkExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			return c.errorf(s.Start, "break outside loop")
		}
		return nil
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			return c.errorf(s.Start, "continue outside loop")
		}
		return nil
	case *ast.UseStmt:
		return c.checkUse(s)
	case *ast.ModuleDeclStmt:
		return c.checkModule(s)
	case *ast.ModuleRefStmt:
		return c.errorf(s.Start, "unresolved module reference %q: the module loader must run before the type checker", s.Name)
	case *ast.Block:
		return c.checkNestedBlock(s)
	}
	panic(fmt.Sprintf("unexpected stmt %T", s))
}

func (c *Checker) checkVarDecl(s *ast.VarDeclStmt) error {
	vt, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}
	declared := vt
	if s.Type != nil {
		declared, err = c.resolveTypeExpr(s.Type)
		if err != nil {
			return err
		}
		if !compatible(declared, vt) {
			return c.errorf(s.Start, "cannot assign %s to declared type %s", vt, declared)
		}
	}
	sym := &Symbol{Type: declared, Mutable: s.Mutable, Visibility: s.Visibility, Module: c.modulePath()}
	if !c.scope.declare(s.Name, sym) {
		return c.errorf(s.Start, "%q already declared in this scope", s.Name)
	}
	if c.atModuleTop {
		c.export(s.Name, sym)
	}
	return nil
}

func (c *Checker) checkFuncBody(s *ast.FuncDeclStmt) error {
	sym, _ := c.scope.lookup(s.Name)
	ft := sym.Type

	saved := c.scope
	c.scope = newScope(saved)
	for i, p := range s.Params {
		if !c.scope.declare(p.Name, &Symbol{Type: ft.Params[i]}) {
			c.scope = saved
			return c.errorf(s.Start, "duplicate parameter %q", p.Name)
		}
	}
	c.returnStack = append(c.returnStack, ft.Return)
	err := c.checkBlock(s.Body.Stmts, false)
	c.returnStack = c.returnStack[:len(c.returnStack)-1]
	c.scope = saved
	return err
}

func (c *Checker) checkImplBodies(s *ast.ImplDeclStmt) error {
	st := c.structs[s.TypeName]
	tbl := c.methods[s.TypeName]
	for _, m := range s.Methods {
		mt := tbl[m.Name]
		saved := c.scope
		c.scope = newScope(saved)
		c.scope.declare("self", &Symbol{Type: st})
		for i, p := range m.Params[1:] {
			if !c.scope.declare(p.Name, &Symbol{Type: mt.Params[i]}) {
				c.scope = saved
				return c.errorf(m.Start, "duplicate parameter %q", p.Name)
			}
		}
		c.returnStack = append(c.returnStack, mt.Return)
		err := c.checkBlock(m.Body.Stmts, false)
		c.returnStack = c.returnStack[:len(c.returnStack)-1]
		c.scope = saved
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) error {
	rt := Void
	if s.Value != nil {
		var err error
		rt, err = c.checkExpr(s.Value)
		if err != nil {
			return err
		}
	}
	if len(c.returnStack) == 0 {
		return nil
	}
	want := c.returnStack[len(c.returnStack)-1]
	if want.Kind != KUnknown && rt.Kind != KUnknown && !compatible(want, rt) {
		return c.errorf(s.Start, "return type mismatch: expected %s, got %s", want, rt)
	}
	return nil
}

func (c *Checker) checkIf(s *ast.IfStmt) error {
	ct, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if ct.Kind != KBool && ct.Kind != KUnknown {
		return c.errorf(s.Start, "if condition must be bool, got %s", ct)
	}
	if err := c.checkNestedBlock(s.Then); err != nil {
		return err
	}
	switch e := s.Else.(type) {
	case nil:
		return nil
	case *ast.IfStmt:
		return c.checkStmt(e)
	case *ast.Block:
		return c.checkNestedBlock(e)
	}
	panic(fmt.Sprintf("unexpected else clause %T", s.Else))
}

func (c *Checker) checkWhile(s *ast.WhileStmt) error {
	ct, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if ct.Kind != KBool && ct.Kind != KUnknown {
		return c.errorf(s.Start, "while condition must be bool, got %s", ct)
	}
	c.loopDepth++
	err = c.checkNestedBlock(s.Body)
	c.loopDepth--
	return err
}

func (c *Checker) checkForRange(s *ast.ForRangeStmt) error {
	ft, err := c.checkExpr(s.From)
	if err != nil {
		return err
	}
	if ft.Kind != KInt && ft.Kind != KInt64 && ft.Kind != KUnknown {
		return c.errorf(s.Start, "for-range start must be int, got %s", ft)
	}
	tt, err := c.checkExpr(s.To)
	if err != nil {
		return err
	}
	if tt.Kind != KInt && tt.Kind != KInt64 && tt.Kind != KUnknown {
		return c.errorf(s.Start, "for-range end must be int, got %s", tt)
	}

	saved := c.scope
	c.scope = newScope(saved)
	c.scope.declare(s.Var, &Symbol{Type: Int, Mutable: true})
	c.loopDepth++
	err = c.checkBlock(s.Body.Stmts, false)
	c.loopDepth--
	c.scope = saved
	return err
}

func (c *Checker) checkNestedBlock(b *ast.Block) error {
	saved := c.scope
	c.scope = newScope(saved)
	err := c.checkBlock(b.Stmts, false)
	c.scope = saved
	return err
}

func (c *Checker) checkUse(s *ast.UseStmt) error {
	switch s.Kind {
	case ast.UseSingle:
		return c.importOne(s.Path, s.Item, s.Item, s.Start)
	case ast.UseAliased:
		return c.importOne(s.Path, s.Item, s.Alias, s.Start)
	case ast.UseGroup:
		for _, item := range s.Items {
			if err := c.importOne(s.Path, item, item, s.Start); err != nil {
				return err
			}
		}
		return nil
	case ast.UseAll:
		key := strings.Join(s.Path, "::")
		for _, name := range c.exportNames[key] {
			sym, ok := c.exports.Get(exportKey(s.Path, name))
			if !ok || sym.Visibility != ast.Public {
				continue
			}
			c.scope.declare(name, sym)
		}
		return nil
	}
	panic("unreachable")
}

func (c *Checker) importOne(path []string, item, bindAs string, pos token.Position) error {
	sym, ok := c.exports.Get(exportKey(path, item))
	if !ok {
		full := append(append([]string{}, path...), item)
		return c.errorf(pos, "undefined: %s", strings.Join(full, "::"))
	}
	if sym.Visibility != ast.Public {
		return c.errorf(pos, "%s is private to module %s", item, strings.Join(path, "::"))
	}
	if !c.scope.declare(bindAs, sym) {
		return c.errorf(pos, "%q already declared in this scope", bindAs)
	}
	return nil
}

func (c *Checker) checkModule(s *ast.ModuleDeclStmt) error {
	savedScope, savedPath := c.scope, c.currentModule
	c.scope = newScope(nil)
	c.currentModule = append(append([]string{}, c.currentModule...), s.Name)
	err := c.checkBlock(s.Body.Stmts, true)
	c.scope, c.currentModule = savedScope, savedPath
	return err
}
