// Package interp implements a legacy tree-walking evaluator for Zero,
// reachable from the CLI via --old. It covers only the arithmetic and
// control-flow subset exercised by spec.md's scenarios S1-S3 (arithmetic,
// print, function calls including recursion, while/for loops with
// break/continue): no structs, methods, modules or arrays. It walks the
// *ast.Chunk directly, skipping lang/checker and lang/compiler entirely, so
// it performs no static type checking: a type error surfaces as a runtime
// error instead, if it surfaces at all.
package interp

import (
	"fmt"
	"io"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// Error reports a failure encountered while walking the tree: an
// unsupported construct, an undefined name, or a type mismatch in an
// operation.
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

// Interp walks a single *ast.Chunk, holding the function table and the
// output writer for Print statements.
type Interp struct {
	Stdout io.Writer
	fns    map[string]*ast.FuncDeclStmt
}

func New(stdout io.Writer) *Interp {
	return &Interp{Stdout: stdout, fns: make(map[string]*ast.FuncDeclStmt)}
}

// control-flow signals, propagated as errors up through execStmt/execBlock
// and unwrapped by the loop/call sites that handle them.
type breakSignal struct{}
type continueSignal struct{}
type returnSignal struct{ value any }

func (breakSignal) Error() string    { return "break outside a loop" }
func (continueSignal) Error() string { return "continue outside a loop" }
func (returnSignal) Error() string   { return "return outside a function" }

// Run evaluates every top-level statement of ch in order. Function
// declarations are collected up front so forward calls (including
// recursion) resolve regardless of declaration order.
func (it *Interp) Run(ch *ast.Chunk) error {
	env := newEnv(nil)
	for _, s := range ch.Block.Stmts {
		if fd, ok := s.(*ast.FuncDeclStmt); ok {
			it.fns[fd.Name] = fd
		}
	}
	for _, s := range ch.Block.Stmts {
		if _, ok := s.(*ast.FuncDeclStmt); ok {
			continue
		}
		if err := it.execStmt(s, env); err != nil {
			switch err.(type) {
			case breakSignal, continueSignal, returnSignal:
				return errorf(token.Position{}, "%s", err)
			}
			return err
		}
	}
	return nil
}
