package compiler

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
)

func (c *compiler) beginScope() { c.depth++; c.scope = newScope(c.scope) }

func (c *compiler) endScope() {
	c.depth--
	if c.scope.parent != nil {
		c.scope = c.scope.parent
	}
}

func (c *compiler) declareLocal(pos ast.Node, name string, mutable bool, typeName string) (int, error) {
	if c.nextSlot >= MaxLocals {
		start, _ := pos.Span()
		return 0, errorf(start, "too many locals in function (max %d)", MaxLocals)
	}
	slot := c.nextSlot
	c.nextSlot++
	c.scope.declare(name, binding{isLocal: true, slot: slot, mutable: mutable, typeName: typeName})
	return slot, nil
}

func (c *compiler) pushLoop(start int) { c.loopStarts = append(c.loopStarts, start); c.loopBreaks = append(c.loopBreaks, nil) }

func (c *compiler) popLoop() {
	breaks := c.loopBreaks[len(c.loopBreaks)-1]
	for _, off := range breaks {
		c.chunk.patchJump(off)
	}
	c.loopStarts = c.loopStarts[:len(c.loopStarts)-1]
	c.loopBreaks = c.loopBreaks[:len(c.loopBreaks)-1]
}

func (c *compiler) compileBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.StructDeclStmt, *ast.TypeAliasStmt:
		return nil
	case *ast.FuncDeclStmt:
		return c.compileFuncDecl(s)
	case *ast.ImplDeclStmt:
		return c.compileImplDecl(s)
	case *ast.VarDeclStmt:
		return c.compileVarDecl(s)
	case *ast.ExprStmt:
		line := s.Start.Line
		if err := c.compileExpr(s.X); err != nil {
			return err
		}
		c.chunk.emit(Pop, line)
		return nil
	case *ast.ReturnStmt:
		line := s.Start.Line
		if s.Value != nil {
			if err := c.compileExpr(s.Value); err != nil {
				return err
			}
		} else {
			c.chunk.emit(LoadNull, line)
		}
		c.chunk.emit(Return, line)
		return nil
	case *ast.IfStmt:
		return c.compileIf(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.ForRangeStmt:
		return c.compileForRange(s)
	case *ast.PrintStmt:
		for _, a := range s.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
			c.chunk.emit(Print, s.Start.Line)
		}
		return nil
	case *ast.BreakStmt:
		if len(c.loopStarts) == 0 {
			return errorf(s.Start, "break outside loop")
		}
		off := c.chunk.emit(Jump, s.Start.Line)
		top := len(c.loopBreaks) - 1
		c.loopBreaks[top] = append(c.loopBreaks[top], off)
		return nil
	case *ast.ContinueStmt:
		if len(c.loopStarts) == 0 {
			return errorf(s.Start, "continue outside loop")
		}
		c.chunk.emitArg(Loop, uint16(c.loopStarts[len(c.loopStarts)-1]), s.Start.Line)
		return nil
	case *ast.UseStmt:
		return c.compileUse(s)
	case *ast.ModuleDeclStmt:
		return c.compileModule(s)
	case *ast.ModuleRefStmt:
		return errorf(s.Start, "unresolved module reference %q: the module loader must run before the compiler", s.Name)
	case *ast.Block:
		c.beginScope()
		err := c.compileBlock(s.Stmts)
		c.endScope()
		return err
	}
	panic(fmt.Sprintf("unexpected stmt %T", s))
}

// storeBinding emits the store instruction for declaring/assigning to name,
// leaving the stored value on top of the stack as the VM's Store* ops do;
// pop controls whether a trailing Pop is emitted for a declaration (true)
// or the value is left for the caller as an expression result (false).
func (c *compiler) storeBinding(b binding, line int, pop bool) {
	if b.isLocal {
		c.chunk.emitArg(StoreLocal, uint16(b.slot), line)
	} else {
		idx := c.chunk.addConstant(b.global)
		c.chunk.emitArg(StoreGlobal, idx, line)
	}
	if pop {
		c.chunk.emit(Pop, line)
	}
}

func (c *compiler) compileVarDecl(s *ast.VarDeclStmt) error {
	line := s.Start.Line
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	typeName := c.inferExprType(s.Value)

	if c.depth == 0 {
		name := qualify(c.modulePath, s.Name)
		c.prog.globals[name] = true
		b := binding{global: name, mutable: s.Mutable, typeName: typeName}
		c.scope.declare(s.Name, b)
		c.storeBinding(b, line, true)
		return nil
	}
	slot, err := c.declareLocal(s, s.Name, s.Mutable, typeName)
	if err != nil {
		return err
	}
	c.storeBinding(binding{isLocal: true, slot: slot}, line, true)
	return nil
}

func (c *compiler) compileFuncDecl(s *ast.FuncDeclStmt) error {
	fn, err := c.compileFunction(s, "")
	if err != nil {
		return err
	}
	line := s.Start.Line
	idx := c.chunk.addConstant(fn)
	c.chunk.emitArg(LoadConst, idx, line)

	if c.depth == 0 {
		name := qualify(c.modulePath, s.Name)
		c.prog.globals[name] = true
		b := binding{global: name, typeName: ""}
		c.scope.declare(s.Name, b)
		c.storeBinding(b, line, true)
		return nil
	}
	slot, err := c.declareLocal(s, s.Name, false, "")
	if err != nil {
		return err
	}
	c.storeBinding(binding{isLocal: true, slot: slot}, line, true)
	return nil
}

// compileFunction compiles fd's body into its own Chunk. selfType, when
// non-empty, binds parameter 0 ("self") to that struct type for field-index
// inference inside the body.
func (c *compiler) compileFunction(fd *ast.FuncDeclStmt, selfType string) (*Chunk, error) {
	sub := &compiler{
		prog:       c.prog,
		chunk:      &Chunk{Name: fd.Name, NumParams: len(fd.Params)},
		scope:      newScope(nil),
		depth:      1,
		modulePath: c.modulePath,
	}
	for i, p := range fd.Params {
		typeName := ""
		if i == 0 && selfType != "" {
			typeName = selfType
		} else if nt, ok := p.Type.(*ast.NamedType); ok {
			if _, isStruct := c.prog.structs[nt.Name]; isStruct {
				typeName = nt.Name
			}
		}
		if _, err := sub.declareLocal(fd, p.Name, true, typeName); err != nil {
			return nil, err
		}
	}
	if err := sub.compileBlock(fd.Body.Stmts); err != nil {
		return nil, err
	}
	line := fd.Start.Line
	sub.chunk.emit(LoadNull, line)
	sub.chunk.emit(Return, line)
	sub.chunk.NumLocals = sub.nextSlot
	return sub.chunk, nil
}

func (c *compiler) compileImplDecl(s *ast.ImplDeclStmt) error {
	info, ok := c.prog.structs[s.TypeName]
	if !ok {
		return errorf(s.Start, "undefined struct: %s", s.TypeName)
	}
	_ = info
	tbl := c.prog.methods[s.TypeName]
	for _, m := range s.Methods {
		if len(m.Params) == 0 || m.Params[0].Name != "self" {
			return errorf(m.Start, "method %s.%s must declare self as its first parameter", s.TypeName, m.Name)
		}
		fn, err := c.compileFunction(m, s.TypeName)
		if err != nil {
			return err
		}
		if _, exists := tbl[m.Name]; exists {
			return errorf(m.Start, "method %s.%s already declared", s.TypeName, m.Name)
		}
		tbl[m.Name] = fn
	}
	return nil
}

func (c *compiler) compileIf(s *ast.IfStmt) error {
	line := s.Start.Line
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	thenJump := c.chunk.emit(JumpIfFalse, line)
	c.chunk.emit(Pop, line)
	c.beginScope()
	err := c.compileBlock(s.Then.Stmts)
	c.endScope()
	if err != nil {
		return err
	}
	elseJump := c.chunk.emit(Jump, line)
	c.chunk.patchJump(thenJump)
	c.chunk.emit(Pop, line)
	switch e := s.Else.(type) {
	case nil:
	case *ast.IfStmt:
		if err := c.compileStmt(e); err != nil {
			return err
		}
	case *ast.Block:
		c.beginScope()
		err := c.compileBlock(e.Stmts)
		c.endScope()
		if err != nil {
			return err
		}
	default:
		panic(fmt.Sprintf("unexpected else clause %T", s.Else))
	}
	c.chunk.patchJump(elseJump)
	return nil
}

func (c *compiler) compileWhile(s *ast.WhileStmt) error {
	line := s.Start.Line
	loopStart := len(c.chunk.Code)
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	exit := c.chunk.emit(JumpIfFalse, line)
	c.chunk.emit(Pop, line)
	c.pushLoop(loopStart)
	c.beginScope()
	err := c.compileBlock(s.Body.Stmts)
	c.endScope()
	if err != nil {
		return err
	}
	c.chunk.emitArg(Loop, uint16(loopStart), line)
	c.chunk.patchJump(exit)
	c.chunk.emit(Pop, line)
	c.popLoop()
	return nil
}

func (c *compiler) compileForRange(s *ast.ForRangeStmt) error {
	line := s.Start.Line
	c.beginScope()
	if err := c.compileExpr(s.From); err != nil {
		c.endScope()
		return err
	}
	xSlot, err := c.declareLocal(s, s.Var, true, "")
	if err != nil {
		c.endScope()
		return err
	}
	c.chunk.emitArg(StoreLocal, uint16(xSlot), line)
	c.chunk.emit(Pop, line)

	if err := c.compileExpr(s.To); err != nil {
		c.endScope()
		return err
	}
	endSlot, err := c.declareLocal(s, "__end__", false, "")
	if err != nil {
		c.endScope()
		return err
	}
	c.chunk.emitArg(StoreLocal, uint16(endSlot), line)
	c.chunk.emit(Pop, line)

	skip := c.chunk.emit(Jump, line)
	loopStart := len(c.chunk.Code)
	c.chunk.emitArg(LoadLocal, uint16(xSlot), line)
	oneIdx := c.chunk.addConstant(int64(1))
	c.chunk.emitArg(LoadConst, oneIdx, line)
	c.chunk.emit(Add, line)
	c.chunk.emitArg(StoreLocal, uint16(xSlot), line)
	c.chunk.emit(Pop, line)
	c.chunk.patchJump(skip)
	c.chunk.emitArg(LoadLocal, uint16(xSlot), line)
	c.chunk.emitArg(LoadLocal, uint16(endSlot), line)
	c.chunk.emit(Less, line)
	exit := c.chunk.emit(JumpIfFalse, line)
	c.chunk.emit(Pop, line)

	c.pushLoop(loopStart)
	c.beginScope()
	err = c.compileBlock(s.Body.Stmts)
	c.endScope()
	if err != nil {
		c.popLoop()
		c.endScope()
		return err
	}

	c.chunk.emitArg(Loop, uint16(loopStart), line)
	c.chunk.patchJump(exit)
	c.chunk.emit(Pop, line)
	c.popLoop()
	c.endScope()
	return nil
}

func (c *compiler) compileUse(s *ast.UseStmt) error {
	switch s.Kind {
	case ast.UseSingle:
		return c.bindImport(s, s.Path, s.Item, s.Item)
	case ast.UseAliased:
		return c.bindImport(s, s.Path, s.Item, s.Alias)
	case ast.UseGroup:
		for _, item := range s.Items {
			if err := c.bindImport(s, s.Path, item, item); err != nil {
				return err
			}
		}
		return nil
	case ast.UseAll:
		prefix := qualify(s.Path, "")
		for name := range c.prog.globals {
			if len(name) > len(prefix) && name[:len(prefix)] == prefix {
				c.scope.declare(name[len(prefix):], binding{global: name})
			}
		}
		return nil
	}
	panic("unreachable")
}

func (c *compiler) bindImport(s *ast.UseStmt, path []string, item, bindAs string) error {
	name := qualify(path, item)
	if !c.prog.globals[name] {
		return errorf(s.Start, "undefined: %s", name)
	}
	c.scope.declare(bindAs, binding{global: name})
	return nil
}

func (c *compiler) compileModule(s *ast.ModuleDeclStmt) error {
	savedScope, savedPath := c.scope, c.modulePath
	c.scope = newScope(nil)
	c.modulePath = append(append([]string{}, c.modulePath...), s.Name)
	err := c.compileBlock(s.Body.Stmts)
	c.scope, c.modulePath = savedScope, savedPath
	return err
}
