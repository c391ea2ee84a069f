// Package bytecode implements the on-disk artifact format for a compiled
// chunk: a magic header, a version byte, and a gob-encoded payload. This is
// the `--compile`/`--run` artifact described in spec.md §4.7 and §6.
package bytecode

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/mna/zero/lang/compiler"
)

func init() {
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
	gob.Register(&compiler.Chunk{})
}

// magic identifies a Zero bytecode artifact.
var magic = [4]byte{'Z', 'B', 'C', 0}

const headerLen = len(magic) + 1 // magic + version byte

// Encode serializes chunk (and, recursively through its constant pool,
// every nested function/method Chunk it references) into a self-describing
// artifact. The constant pool and the (opcode, line) stream round-trip
// through encoding/gob, which already knows how to walk the recursive
// []any/*Chunk structure without a hand-rolled tag scheme.
func Encode(chunk *compiler.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(byte(compiler.Version))
	if err := gob.NewEncoder(&buf).Encode(chunk); err != nil {
		return nil, fmt.Errorf("bytecode: encode chunk: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an artifact produced by Encode. The returned Chunk is
// observationally indistinguishable from the one that was encoded: same
// code, same line table, same constant pool (including nested Chunks),
// satisfying the round-trip requirement in spec.md §4.7.
func Decode(data []byte) (*compiler.Chunk, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("bytecode: artifact too short: got %d bytes, need at least %d", len(data), headerLen)
	}
	var gotMagic [4]byte
	copy(gotMagic[:], data[:4])
	if gotMagic != magic {
		return nil, fmt.Errorf("bytecode: invalid magic header %v, expected %v", gotMagic, magic)
	}
	version := data[4]
	if version != byte(compiler.Version) {
		return nil, fmt.Errorf("bytecode: artifact version %d unsupported by this build (wants %d)", version, compiler.Version)
	}

	var chunk compiler.Chunk
	if err := gob.NewDecoder(bytes.NewReader(data[headerLen:])).Decode(&chunk); err != nil {
		return nil, fmt.Errorf("bytecode: decode chunk: %w", err)
	}
	return &chunk, nil
}
