package checker

import "github.com/mna/zero/lang/ast"

// Symbol records everything the checker knows about one declared name:
// struct, type alias, function, or var/let binding.
type Symbol struct {
	Type       *Type
	Mutable    bool
	Visibility ast.Visibility
	Module     string // joined module path ("" at the entry file's top level)
}

// Scope is one lexical block's bindings, linked to its enclosing scope.
// Module bodies start a fresh root scope (parent nil) rather than nesting
// under the scope they were declared from, since a module is its own
// namespace: bare identifiers from the importing side never leak in, and
// the module's own symbols never leak out except through use/Path access.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]*Symbol)}
}

// declare adds name to the scope, reporting false if it is already declared
// directly in this scope (shadowing a parent scope's binding is fine).
func (s *Scope) declare(name string, sym *Symbol) bool {
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = sym
	return true
}

// lookup walks from the innermost scope outward, so an inner declaration
// shadows an outer one of the same name.
func (s *Scope) lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
