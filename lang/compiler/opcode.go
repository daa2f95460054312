// Package compiler lowers an optimized AST into the stack-machine bytecode
// module of spec.md §4.4, §3.7-3.8.
package compiler

import "fmt"

// Opcode is a single stack-machine instruction (spec.md §4.5's opcode
// table). Following the teacher's compiler/opcode.go layout, it is a small
// uint8 enum backed by parallel arrays for its name and stack effect,
// rather than a method per opcode.
type Opcode uint8

const (
	Push Opcode = iota
	Pop
	LoadConst
	LoadConstTable
	LoadArg
	StoreArg
	LoadVariable
	StoreVariable
	LoadArrayElement
	StoreArrayElement
	Input
	PrintChar
	Add
	Sub
	Mult
	Div
	Mod
	DivChecked
	ModChecked
	Goto
	GotoIfTrue
	GotoIfFalse
	GotoIfEqual
	GotoIfLessThan
	GotoIfLessThanOrEqual
	Call
	Return
	Halt

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	Push:                  "PUSH",
	Pop:                   "POP",
	LoadConst:             "LOAD_CONST",
	LoadConstTable:        "LOAD_CONST_TABLE",
	LoadArg:               "LOAD_ARG",
	StoreArg:              "STORE_ARG",
	LoadVariable:          "LOAD_VARIABLE",
	StoreVariable:         "STORE_VARIABLE",
	LoadArrayElement:      "LOAD_ARRAY_ELEMENT",
	StoreArrayElement:     "STORE_ARRAY_ELEMENT",
	Input:                 "INPUT",
	PrintChar:             "PRINT_CHAR",
	Add:                   "ADD",
	Sub:                   "SUB",
	Mult:                  "MULT",
	Div:                   "DIV",
	Mod:                   "MOD",
	DivChecked:            "DIV_CHECKED",
	ModChecked:            "MOD_CHECKED",
	Goto:                  "GOTO",
	GotoIfTrue:            "GOTO_IF_TRUE",
	GotoIfFalse:           "GOTO_IF_FALSE",
	GotoIfEqual:           "GOTO_IF_EQUAL",
	GotoIfLessThan:        "GOTO_IF_LESS_THAN",
	GotoIfLessThanOrEqual: "GOTO_IF_LESS_THAN_OR_EQUAL",
	Call:                  "CALL",
	Return:                "RETURN",
	Halt:                  "HALT",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("<invalid Opcode %d>", op)
}

// variableStackEffect marks an opcode whose stack effect cannot be read
// from a fixed table and must be computed at emit time from its immediate
// (only Call: it pops one value per argument and pushes one result, and
// its argument count is the callee's arity, not a property of the opcode
// itself).
const variableStackEffect = 0x7f

var stackEffect = [opcodeCount]int8{
	Push:                  1,
	Pop:                   -1,
	LoadConst:             1,
	LoadConstTable:        1,
	LoadArg:               1,
	StoreArg:              -1,
	LoadVariable:          1,
	StoreVariable:         0,
	LoadArrayElement:      0,
	StoreArrayElement:     -1,
	Input:                 1,
	PrintChar:             0,
	Add:                   -1,
	Sub:                   -1,
	Mult:                  -1,
	Div:                   -1,
	Mod:                   -1,
	DivChecked:            -1,
	ModChecked:            -1,
	Goto:                  0,
	GotoIfTrue:            -1,
	GotoIfFalse:           -1,
	GotoIfEqual:           -2,
	GotoIfLessThan:        -2,
	GotoIfLessThanOrEqual: -2,
	Call:                  variableStackEffect,
	Return:                -1,
	Halt:                  -1,
}

// StackEffect returns op's net effect on the value stack's depth.
// callArity must be the callee's operand count when op is Call; it is
// ignored otherwise.
func StackEffect(op Opcode, callArity int) int {
	if e := stackEffect[op]; e != variableStackEffect {
		return int(e)
	}
	// Call pops callArity operands and pushes one result.
	return 1 - callArity
}

// hasImmediate reports whether op carries an immediate operand at all
// (spec.md §3.8's bytecode operation is (opcode, optional immediate)); used
// by Operation's disassembly format to decide whether to print one.
func hasImmediate(op Opcode) bool {
	switch op {
	case Pop, LoadArrayElement, StoreArrayElement, Input, PrintChar, Add, Sub, Mult, Div, Mod, DivChecked, ModChecked, Return, Halt:
		return false
	default:
		return true
	}
}
