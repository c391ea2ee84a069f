package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders chunk and every nested *Chunk constant it references,
// recursively, into a human-readable listing. It backs the ZERO_DEBUG=1
// tracing path in internal/maincmd: one column for the byte offset, one for
// the source line (elided when unchanged from the previous instruction,
// mirroring how debuggers usually print repeated line numbers), one for the
// opcode mnemonic, and a trailing comment for operands that resolve to
// something more meaningful than a bare index (a jump target, a constant's
// printed value).
func Disassemble(chunk *Chunk) string {
	var b strings.Builder
	disassemble(&b, chunk, map[*Chunk]bool{})
	return b.String()
}

func disassemble(b *strings.Builder, chunk *Chunk, seen map[*Chunk]bool) {
	if seen[chunk] {
		return
	}
	seen[chunk] = true

	fmt.Fprintf(b, "== %s ==\n", chunkLabel(chunk))
	lastLine := int32(-1)
	var nested []*Chunk
	for offset := 0; offset < len(chunk.Code); {
		op := Opcode(chunk.Code[offset])
		line := chunk.Lines[offset]
		if line == lastLine {
			fmt.Fprintf(b, "%4d    | %-12s", offset, op)
		} else {
			fmt.Fprintf(b, "%4d %4d %-12s", offset, line, op)
			lastLine = line
		}
		if op.HasArg() {
			arg := argAt(chunk.Code, offset)
			fmt.Fprintf(b, " %4d", arg)
			switch {
			case isJumpOp(op):
				fmt.Fprintf(b, "  -> %d", arg)
			case op == LoadConst || op == LoadGlobal || op == StoreGlobal:
				if int(arg) < len(chunk.Constants) {
					v := chunk.Constants[arg]
					if fn, ok := v.(*Chunk); ok {
						fmt.Fprintf(b, "  ; %s", chunkLabel(fn))
						nested = append(nested, fn)
					} else {
						fmt.Fprintf(b, "  ; %#v", v)
					}
				}
			}
			offset += 3
		} else {
			offset++
		}
		b.WriteByte('\n')
	}

	for _, fn := range nested {
		disassemble(b, fn, seen)
	}
}

func chunkLabel(chunk *Chunk) string {
	if chunk.Name == "" {
		return "<anonymous>"
	}
	return chunk.Name
}
