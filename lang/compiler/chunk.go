package compiler

import (
	"encoding/binary"
	"fmt"
)

// Chunk is one compiled function body (the top-level module body is a
// Chunk too, with NumParams == 0). It owns its own flat code array,
// constant pool and per-instruction line table; nested functions and
// methods are compiled into their own Chunk and referenced from the
// enclosing Chunk's constant pool.
type Chunk struct {
	Name      string
	NumParams int
	NumLocals int // total local slots the frame must allocate, params included
	Code      []byte
	Lines     []int32 // parallel to Code, one entry per byte
	Constants []any   // int64 | float64 | string | bool | nil | *Chunk
}

// addConstant interns v into the constant pool, returning its index. Equal
// primitive values are shared; *Chunk constants (nested functions) are
// never interned, since two functions are never equal even with identical
// bodies.
func (c *Chunk) addConstant(v any) uint16 {
	if _, isChunk := v.(*Chunk); !isChunk {
		for i, existing := range c.Constants {
			if existing == v {
				return uint16(i)
			}
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// emit appends op (and, if it takes one, a 2-byte big-endian operand) at
// line, returning the offset of the opcode byte.
func (c *Chunk) emit(op Opcode, line int) int {
	return c.emitArg(op, 0, line)
}

func (c *Chunk) emitArg(op Opcode, arg uint16, line int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.Lines = append(c.Lines, int32(line))
	if op.HasArg() {
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], arg)
		c.Code = append(c.Code, buf[0], buf[1])
		c.Lines = append(c.Lines, int32(line), int32(line))
	}
	return offset
}

// patchJump rewrites the 2-byte operand of the jump instruction at offset
// to point at the current end of the code (the "here" of the spec's patch
// descriptions). offset must be the opcode byte of a previously emitted
// jump-family instruction; patching anything else is a compiler bug.
func (c *Chunk) patchJump(offset int) {
	if op := Opcode(c.Code[offset]); !isJumpOp(op) {
		panic(fmt.Sprintf("compiler bug: patchJump at offset %d targets non-jump opcode %v", offset, op))
	}
	target := len(c.Code)
	binary.BigEndian.PutUint16(c.Code[offset+1:offset+3], uint16(target))
}

// argAt reads the 2-byte operand starting at offset+1.
func argAt(code []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(code[offset+1 : offset+3])
}
