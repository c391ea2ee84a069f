package interp

import (
	"fmt"

	"github.com/mna/zero/lang/ast"
)

func (it *Interp) execBlock(b *ast.Block, e *env) error {
	for _, s := range b.Stmts {
		if err := it.execStmt(s, e); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interp) execStmt(s ast.Stmt, e *env) error {
	switch s := s.(type) {
	case *ast.ExprStmt:
		_, err := it.eval(s.X, e)
		return err

	case *ast.VarDeclStmt:
		v, err := it.eval(s.Value, e)
		if err != nil {
			return err
		}
		e.declare(s.Name, v)
		return nil

	case *ast.PrintStmt:
		vals := make([]any, len(s.Args))
		for i, a := range s.Args {
			v, err := it.eval(a, e)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		for i, v := range vals {
			if i > 0 {
				fmt.Fprint(it.Stdout, " ")
			}
			fmt.Fprint(it.Stdout, formatValue(v))
		}
		fmt.Fprintln(it.Stdout)
		return nil

	case *ast.IfStmt:
		cond, err := it.eval(s.Cond, e)
		if err != nil {
			return err
		}
		b, err := asBool(s.Start, cond)
		if err != nil {
			return err
		}
		if b {
			return it.execBlock(s.Then, newEnv(e))
		}
		switch els := s.Else.(type) {
		case nil:
			return nil
		case *ast.Block:
			return it.execBlock(els, newEnv(e))
		default:
			return it.execStmt(els, e)
		}

	case *ast.WhileStmt:
		for {
			cond, err := it.eval(s.Cond, e)
			if err != nil {
				return err
			}
			b, err := asBool(s.Start, cond)
			if err != nil {
				return err
			}
			if !b {
				return nil
			}
			if err := it.execBlock(s.Body, newEnv(e)); err != nil {
				if _, ok := err.(breakSignal); ok {
					return nil
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}

	case *ast.ForRangeStmt:
		from, err := it.eval(s.From, e)
		if err != nil {
			return err
		}
		to, err := it.eval(s.To, e)
		if err != nil {
			return err
		}
		fromI, err := asInt(s.Start, from)
		if err != nil {
			return err
		}
		toI, err := asInt(s.Start, to)
		if err != nil {
			return err
		}
		for i := fromI; i < toI; i++ {
			loopEnv := newEnv(e)
			loopEnv.declare(s.Var, i)
			if err := it.execBlock(s.Body, loopEnv); err != nil {
				if _, ok := err.(breakSignal); ok {
					return nil
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}
		return nil

	case *ast.BreakStmt:
		return breakSignal{}

	case *ast.ContinueStmt:
		return continueSignal{}

	case *ast.ReturnStmt:
		var v any
		if s.Value != nil {
			var err error
			v, err = it.eval(s.Value, e)
			if err != nil {
				return err
			}
		}
		return returnSignal{value: v}

	case *ast.FuncDeclStmt:
		// top-level fn decls are collected by Run before execution; a nested
		// fn decl is not registered and has no effect when walked as a
		// statement.
		return nil

	case *ast.Block:
		return it.execBlock(s, newEnv(e))

	default:
		start, _ := s.Span()
		return errorf(start, "unsupported statement in legacy interpreter: %T", s)
	}
}
