package compiler

import (
	"fmt"
	"strings"

	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
)

// Operation is a single bytecode instruction: an Opcode together with its
// immediate (spec.md §3.8). Arg is unused (left zero) when Opcode carries
// no immediate. Jump opcodes hold an absolute instruction index into their
// own function's Operations slice, not a byte offset — Calc4's module is
// consumed directly by lang/machine in memory, it is never serialized, so
// there is no reason to shrink addresses into spec.md's illustrative
// 16-bit-immediate wire format the way a persisted bytecode file would.
type Operation struct {
	Opcode Opcode
	Arg    int32
}

func (o Operation) String() string {
	if hasImmediate(o.Opcode) {
		return fmt.Sprintf("%s %d", o.Opcode, o.Arg)
	}
	return o.Opcode.String()
}

// FunctionCode is one compiled function: either a user-defined operator's
// body or the program's entry point (spec.md §3.7). Definition is the zero
// opdef.Definition for the entry point, which has no name or arity of its
// own.
type FunctionCode[N numeric.Number] struct {
	Definition   opdef.Definition
	Operations   []Operation
	MaxStackSize int
}

func (f *FunctionCode[N]) String() string {
	var b strings.Builder
	if f.Definition.Arity == 0 && f.Definition.Name == "" {
		fmt.Fprintf(&b, "entry point (maxStack=%d):\n", f.MaxStackSize)
	} else {
		fmt.Fprintf(&b, "%s (maxStack=%d):\n", f.Definition, f.MaxStackSize)
	}
	for i, op := range f.Operations {
		fmt.Fprintf(&b, "\t%4d\t%s\n", i, op)
	}
	return b.String()
}

// Module is the compiled form of a whole program (spec.md §3.7): the
// entry-point expression's code, every user-defined operator registered
// in the context, whether reachable or not (in definition order, mirroring
// ast.Context.Implements), the
// table of out-of-int16-range literals LoadConstTable indexes into, and
// the index -> name table that LoadVariable/StoreVariable opcodes carry
// as an immediate index into: lang/machine resolves that index back to a
// name through this table on every load and store, so it is load-bearing
// at runtime, not just a diagnostics aid.
type Module[N numeric.Number] struct {
	EntryPoint           FunctionCode[N]
	UserDefinedOperators []FunctionCode[N]
	ConstTable           []N
	Variables            []string
}

func (m *Module[N]) String() string {
	var b strings.Builder
	b.WriteString(m.EntryPoint.String())
	for _, f := range m.UserDefinedOperators {
		b.WriteString(f.String())
	}
	return b.String()
}
