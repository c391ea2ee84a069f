package machine

import "github.com/dolthub/swiss"

// Globals is the VM's global variable table, keyed by fully-qualified name
// (e.g. "math::sq"). It is one of the three swiss.Map-backed hot tables
// called for by SPEC_FULL.md's domain stack, alongside the module loader's
// cache (lang/module) and the type checker's export table (lang/checker).
type Globals struct {
	m *swiss.Map[string, Value]
}

func NewGlobals() *Globals {
	return &Globals{m: swiss.NewMap[string, Value](64)}
}

func (g *Globals) Get(name string) (Value, bool) {
	return g.m.Get(name)
}

func (g *Globals) Set(name string, v Value) {
	g.m.Put(name, v)
}
