package machine

// frame records one call to a Function: the function being executed, its
// instruction pointer into fn.Chunk.Code, and the base index into the VM's
// shared value stack where its local slots (and, ultimately, its temporary
// operands) begin.
type frame struct {
	fn   *Function
	ip   int
	base int
}
