package compiler

// Increment this to force recompilation of saved bytecode files.
const Version = 0

// Opcode identifies one virtual machine instruction. Opcodes at or above
// OpcodeArgMin carry a 2-byte big-endian operand immediately following the
// opcode byte; the others are bare.
type Opcode uint8

//nolint:revive
const (
	Halt Opcode = iota
	Pop
	Print

	LoadNull
	Add
	Subtract
	Multiply
	Divide
	Modulo
	Negate
	Not
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	ArrayGet
	ArraySet
	Return

	// --- opcodes with a 2-byte operand go below this line ---

	LoadConst
	LoadLocal
	StoreLocal
	LoadGlobal
	StoreGlobal
	Jump
	JumpIfFalse
	JumpIfTrue
	Loop
	Call
	NewArray
	NewStruct
	FieldGet
	FieldSet

	OpcodeArgMin = LoadConst
	opcodeMax    = FieldSet
)

var opcodeNames = [...]string{
	Halt:        "halt",
	Pop:         "pop",
	Print:       "print",
	LoadNull:    "loadnull",
	Add:         "add",
	Subtract:    "subtract",
	Multiply:    "multiply",
	Divide:      "divide",
	Modulo:      "modulo",
	Negate:      "negate",
	Not:         "not",
	Equal:       "equal",
	NotEqual:    "notequal",
	Less:        "less",
	LessEqual:   "lessequal",
	Greater:     "greater",
	GreaterEqual: "greaterequal",
	ArrayGet:    "arrayget",
	ArraySet:    "arrayset",
	Return:      "return",
	LoadConst:   "loadconst",
	LoadLocal:   "loadlocal",
	StoreLocal:  "storelocal",
	LoadGlobal:  "loadglobal",
	StoreGlobal: "storeglobal",
	Jump:        "jump",
	JumpIfFalse: "jumpiffalse",
	JumpIfTrue:  "jumpiftrue",
	Loop:        "loop",
	Call:        "call",
	NewArray:    "newarray",
	NewStruct:   "newstruct",
	FieldGet:    "fieldget",
	FieldSet:    "fieldset",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "unknown opcode"
}

// HasArg reports whether op is followed by a 2-byte operand.
func (op Opcode) HasArg() bool { return op >= OpcodeArgMin }

// isJumpOp reports whether op's operand is an absolute code offset that
// needs patching/relocation treatment distinct from an ordinary index.
func isJumpOp(op Opcode) bool {
	switch op {
	case Jump, JumpIfFalse, JumpIfTrue, Loop:
		return true
	}
	return false
}
