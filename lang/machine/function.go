package machine

import (
	"fmt"

	"github.com/mna/zero/lang/compiler"
)

// Function is the runtime counterpart of a compiler.Chunk: the compiled code
// plus its constant pool, with every nested compiler.Chunk constant already
// converted into its own Function. This is the one-directional dependency
// the teacher's own machine.Function{Funcode *compiler.Funcode} establishes
// between the two packages; lang/compiler never imports lang/machine.
type Function struct {
	Chunk     *compiler.Chunk
	Constants []Value
}

func (fn *Function) String() string {
	name := fn.Chunk.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("<function %s>", name)
}
func (*Function) Type() string { return "function" }

// newFunction converts chunk's constant pool into runtime Values, recursing
// into nested *compiler.Chunk constants (compiled functions and methods).
func newFunction(chunk *compiler.Chunk) *Function {
	consts := make([]Value, len(chunk.Constants))
	for i, raw := range chunk.Constants {
		consts[i] = constantToValue(raw)
	}
	return &Function{Chunk: chunk, Constants: consts}
}

func constantToValue(raw any) Value {
	switch v := raw.(type) {
	case int64:
		return Int64(v)
	case float64:
		return Float64(v)
	case string:
		return Str(v)
	case bool:
		return Bool(v)
	case *compiler.Chunk:
		return newFunction(v)
	default:
		panic(fmt.Sprintf("machine: unexpected constant type %T", raw))
	}
}
