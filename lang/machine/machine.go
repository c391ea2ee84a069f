package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/zero/lang/compiler"
)

// VM is a classic stack machine: state is (value_stack, frames, globals,
// ip) per spec.md §4.6. One VM executes exactly one compiled program; it is
// not safe for concurrent use (the language is single-threaded end to end,
// per §5).
type VM struct {
	// Stdout receives Print output. Defaults to os.Stdout.
	Stdout io.Writer

	// MaxSteps bounds the number of dispatch iterations before the VM aborts
	// with a runtime error, as a safety net against runaway programs. A
	// value <= 0 means no limit.
	MaxSteps int

	globals *Globals
	stack   []Value
	frames  []frame
}

func New() *VM {
	return &VM{globals: NewGlobals()}
}

// Run loads chunk (the module top-level, as produced by compiler.Compile)
// and executes it to completion, returning any runtime error.
func (vm *VM) Run(chunk *compiler.Chunk) error {
	if vm.Stdout == nil {
		vm.Stdout = os.Stdout
	}
	if vm.globals == nil {
		vm.globals = NewGlobals()
	}

	top := newFunction(chunk)
	vm.pushFrame(top, nil)

	var steps int
	for {
		if vm.MaxSteps > 0 {
			steps++
			if steps > vm.MaxSteps {
				return runtimeErrorf(vm.currentLine(), "exceeded maximum step count (%d)", vm.MaxSteps)
			}
		}

		fr := &vm.frames[len(vm.frames)-1]
		op := compiler.Opcode(fr.fn.Chunk.Code[fr.ip])
		line := fr.fn.Chunk.Lines[fr.ip]
		fr.ip++

		var arg uint16
		if op.HasArg() {
			arg = readArg(fr.fn.Chunk.Code, fr.ip)
			fr.ip += 2
		}

		halt, err := vm.step(op, arg, line)
		if err != nil {
			return err
		}
		if halt {
			return nil
		}
	}
}

func readArg(code []byte, ip int) uint16 {
	return uint16(code[ip])<<8 | uint16(code[ip+1])
}

func (vm *VM) currentLine() int32 {
	if len(vm.frames) == 0 {
		return 0
	}
	fr := &vm.frames[len(vm.frames)-1]
	if fr.ip == 0 || fr.ip > len(fr.fn.Chunk.Lines) {
		return 0
	}
	return fr.fn.Chunk.Lines[fr.ip-1]
}

// pushFrame sets up a new call frame for fn with args already on top of the
// stack (args is nil for the initial top-level call). base is chosen so
// that local slot 0 is the first argument, matching the Call semantics in
// spec.md §4.6.
func (vm *VM) pushFrame(fn *Function, args []Value) {
	base := len(vm.stack) - len(args)
	vm.stack = append(vm.stack, make([]Value, fn.Chunk.NumLocals-len(args))...)
	for i := base + len(args); i < len(vm.stack); i++ {
		vm.stack[i] = TheNull
	}
	vm.frames = append(vm.frames, frame{fn: fn, ip: 0, base: base})
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek() Value { return vm.stack[len(vm.stack)-1] }

// step executes one instruction, returning halt=true when the Halt opcode
// is reached in the outermost frame.
func (vm *VM) step(op compiler.Opcode, arg uint16, line int32) (halt bool, err error) {
	fr := &vm.frames[len(vm.frames)-1]

	switch op {
	case compiler.Halt:
		return true, nil

	case compiler.Pop:
		vm.pop()

	case compiler.Print:
		fmt.Fprintln(vm.Stdout, vm.pop().String())

	case compiler.LoadNull:
		vm.push(TheNull)

	case compiler.LoadConst:
		vm.push(fr.fn.Constants[arg])

	case compiler.LoadLocal:
		vm.push(vm.stack[fr.base+int(arg)])

	case compiler.StoreLocal:
		vm.stack[fr.base+int(arg)] = vm.peek()

	case compiler.LoadGlobal:
		name := fr.fn.Chunk.Constants[arg].(string)
		v, ok := vm.globals.Get(name)
		if !ok {
			return false, runtimeErrorf(line, "undefined global: %s", name)
		}
		vm.push(v)

	case compiler.StoreGlobal:
		name := fr.fn.Chunk.Constants[arg].(string)
		vm.globals.Set(name, vm.peek())

	case compiler.Add, compiler.Subtract, compiler.Multiply, compiler.Divide, compiler.Modulo:
		y, x := vm.pop(), vm.pop()
		v, err := arith(op, x, y, line)
		if err != nil {
			return false, err
		}
		vm.push(v)

	case compiler.Negate:
		v, err := negate(vm.pop(), line)
		if err != nil {
			return false, err
		}
		vm.push(v)

	case compiler.Not:
		b, err := asBool(vm.pop(), line)
		if err != nil {
			return false, err
		}
		vm.push(Bool(!b))

	case compiler.Equal, compiler.NotEqual:
		y, x := vm.pop(), vm.pop()
		eq, err := valuesEqual(x, y)
		if err != nil {
			return false, runtimeErrorf(line, "%s", err)
		}
		if op == compiler.NotEqual {
			eq = !eq
		}
		vm.push(Bool(eq))

	case compiler.Less, compiler.LessEqual, compiler.Greater, compiler.GreaterEqual:
		y, x := vm.pop(), vm.pop()
		v, err := compareOp(op, x, y, line)
		if err != nil {
			return false, err
		}
		vm.push(v)

	case compiler.Jump:
		fr.ip = int(arg)

	case compiler.JumpIfFalse:
		b, err := asBool(vm.peek(), line)
		if err != nil {
			return false, err
		}
		if !b {
			fr.ip = int(arg)
		}

	case compiler.JumpIfTrue:
		b, err := asBool(vm.peek(), line)
		if err != nil {
			return false, err
		}
		if b {
			fr.ip = int(arg)
		}

	case compiler.Loop:
		fr.ip = int(arg)

	case compiler.NewArray:
		n := int(arg)
		elems := make([]Value, n)
		copy(elems, vm.stack[len(vm.stack)-n:])
		vm.stack = vm.stack[:len(vm.stack)-n]
		vm.push(NewArray(elems))

	case compiler.ArrayGet:
		idxV, arrV := vm.pop(), vm.pop()
		arr, ok := arrV.(*Array)
		if !ok {
			return false, runtimeErrorf(line, "cannot index into a %s", arrV.Type())
		}
		idx, err := asInt(idxV, line)
		if err != nil {
			return false, err
		}
		if idx < 0 || idx >= int64(len(arr.Elems)) {
			return false, runtimeErrorf(line, "array index out of bounds: %d (len %d)", idx, len(arr.Elems))
		}
		vm.push(arr.Elems[idx])

	case compiler.ArraySet:
		val, idxV, arrV := vm.pop(), vm.pop(), vm.pop()
		arr, ok := arrV.(*Array)
		if !ok {
			return false, runtimeErrorf(line, "cannot index into a %s", arrV.Type())
		}
		idx, err := asInt(idxV, line)
		if err != nil {
			return false, err
		}
		if idx < 0 || idx >= int64(len(arr.Elems)) {
			return false, runtimeErrorf(line, "array index out of bounds: %d (len %d)", idx, len(arr.Elems))
		}
		next := make([]Value, len(arr.Elems))
		copy(next, arr.Elems)
		next[idx] = val
		vm.push(NewArray(next))

	case compiler.NewStruct:
		n := int(arg)
		nameV := vm.pop()
		name, ok := nameV.(Str)
		if !ok {
			return false, runtimeErrorf(line, "internal error: struct name constant is a %s", nameV.Type())
		}
		fields := make([]Value, n)
		copy(fields, vm.stack[len(vm.stack)-n:])
		vm.stack = vm.stack[:len(vm.stack)-n]
		vm.push(NewStruct(string(name), fields))

	case compiler.FieldGet:
		recv := vm.pop()
		s, ok := recv.(*Struct)
		if !ok {
			return false, runtimeErrorf(line, "cannot access a field of a %s", recv.Type())
		}
		idx := int(arg)
		if idx < 0 || idx >= len(s.Fields) {
			return false, runtimeErrorf(line, "field index out of bounds: %d (%s has %d fields)", idx, s.TypeName, len(s.Fields))
		}
		vm.push(s.Fields[idx])

	case compiler.FieldSet:
		val, structV := vm.pop(), vm.pop()
		s, ok := structV.(*Struct)
		if !ok {
			return false, runtimeErrorf(line, "cannot access a field of a %s", structV.Type())
		}
		idx := int(arg)
		if idx < 0 || idx >= len(s.Fields) {
			return false, runtimeErrorf(line, "field index out of bounds: %d (%s has %d fields)", idx, s.TypeName, len(s.Fields))
		}
		next := make([]Value, len(s.Fields))
		copy(next, s.Fields)
		next[idx] = val
		vm.push(NewStruct(s.TypeName, next))

	case compiler.Call:
		if err := vm.call(int(arg), line); err != nil {
			return false, err
		}

	case compiler.Return:
		vm.doReturn()
		if len(vm.frames) == 0 {
			return true, nil
		}

	default:
		return false, runtimeErrorf(line, "internal error: unknown opcode %v", op)
	}
	return false, nil
}

func (vm *VM) call(argc int, line int32) error {
	top := len(vm.stack) - 1
	fnIdx := top - argc
	fnV := vm.stack[fnIdx]
	fn, ok := fnV.(*Function)
	if !ok {
		return runtimeErrorf(line, "cannot call a %s", fnV.Type())
	}
	if fn.Chunk.NumParams != argc {
		return runtimeErrorf(line, "%s: expected %d argument(s), got %d", fn.Chunk.Name, fn.Chunk.NumParams, argc)
	}

	args := vm.stack[fnIdx+1:]
	vm.pushFrame(fn, args)
	return nil
}

func (vm *VM) doReturn() {
	retVal := vm.pop()
	fr := vm.frames[len(vm.frames)-1]
	vm.stack = vm.stack[:fr.base-1]
	vm.stack = append(vm.stack, retVal)
	vm.frames = vm.frames[:len(vm.frames)-1]
}
