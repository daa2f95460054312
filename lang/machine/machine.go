// Package machine implements Calc4's stack-machine interpreter (spec.md
// §4.5): a switch-dispatch loop over a compiled Module, reusing its caller's
// state.State for variables, the global array, input and output.
package machine

import (
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/state"
)

// DefaultStackSize is the value stack's and call stack's capacity when
// Options.StackSize is left zero.
const DefaultStackSize = 1 << 20

// Options controls the interpreter's resource limits.
type Options struct {
	// StackSize bounds both the value stack and the call-depth stack.
	// Zero selects DefaultStackSize.
	StackSize int
}

// Execute runs module's entry point to completion against st, returning the
// entry point expression's value (spec.md §6.2's ExecuteStackMachineModule).
func Execute[N numeric.Number](module *compiler.Module[N], st *state.State[N], opts Options) (N, error) {
	size := opts.StackSize
	if size <= 0 {
		size = DefaultStackSize
	}

	m := &machine[N]{
		module: module,
		state:  st,
		stack:  make([]N, size),
		frames: make([]frame, 0, size),
	}
	return m.run()
}

// frame records what to restore when a Call's callee returns: where in the
// caller's code to resume, which function that is, and the caller's own
// frame bottom. The callee's frame bottom (where its argument slots start,
// which Return uses to discard them) is held in machine.frameBottom while
// the callee runs.
type frame struct {
	functionIndex int // index into module.UserDefinedOperators, -1 for the entry point
	pc            int
	frameBottom   int
}

type machine[N numeric.Number] struct {
	module *compiler.Module[N]
	state  *state.State[N]

	stack []N
	sp    int

	frames      []frame
	frameBottom int
}

func (m *machine[N]) run() (N, error) {
	functionIndex := -1
	code := m.module.EntryPoint.Operations
	pc := 0

	for {
		op := code[pc].Opcode
		arg := code[pc].Arg
		pc++

		switch op {
		case compiler.Push:
			m.stack[m.sp] = N(arg)
			m.sp++

		case compiler.Pop:
			m.sp--

		case compiler.LoadConst:
			m.stack[m.sp] = N(arg)
			m.sp++

		case compiler.LoadConstTable:
			m.stack[m.sp] = m.module.ConstTable[arg]
			m.sp++

		case compiler.LoadArg:
			m.stack[m.sp] = m.stack[m.frameBottom+int(arg)]
			m.sp++

		case compiler.StoreArg:
			m.sp--
			m.stack[m.frameBottom+int(arg)] = m.stack[m.sp]

		case compiler.LoadVariable:
			m.stack[m.sp] = m.state.LoadVariable(m.module.Variables[arg])
			m.sp++

		case compiler.StoreVariable:
			v := m.stack[m.sp-1]
			m.state.StoreVariable(m.module.Variables[arg], v)

		case compiler.LoadArrayElement:
			m.stack[m.sp-1] = m.state.LoadArray(m.stack[m.sp-1])

		case compiler.StoreArrayElement:
			index, value := m.stack[m.sp-1], m.stack[m.sp-2]
			m.state.StoreArray(index, value)
			m.sp--
			m.stack[m.sp-1] = value

		case compiler.Input:
			m.stack[m.sp] = m.state.Input()
			m.sp++

		case compiler.PrintChar:
			m.state.PrintChar(m.stack[m.sp-1])
			m.stack[m.sp-1] = 0

		case compiler.Add:
			m.sp--
			m.stack[m.sp-1] = numeric.Add(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.Sub:
			m.sp--
			m.stack[m.sp-1] = numeric.Sub(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.Mult:
			m.sp--
			m.stack[m.sp-1] = numeric.Mult(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.Div:
			m.sp--
			m.stack[m.sp-1] = numeric.Div(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.Mod:
			m.sp--
			m.stack[m.sp-1] = numeric.Mod(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.DivChecked:
			if m.stack[m.sp-1] == 0 {
				return 0, calcerr.NewNoPos(calcerr.ZeroDivision, "division by zero")
			}
			m.sp--
			m.stack[m.sp-1] = numeric.Div(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.ModChecked:
			if m.stack[m.sp-1] == 0 {
				return 0, calcerr.NewNoPos(calcerr.ZeroDivision, "division by zero")
			}
			m.sp--
			m.stack[m.sp-1] = numeric.Mod(m.stack[m.sp-1], m.stack[m.sp])

		case compiler.Goto:
			pc = int(arg)

		case compiler.GotoIfTrue:
			m.sp--
			if numeric.Truth(m.stack[m.sp]) {
				pc = int(arg)
			}

		case compiler.GotoIfFalse:
			m.sp--
			if !numeric.Truth(m.stack[m.sp]) {
				pc = int(arg)
			}

		case compiler.GotoIfEqual:
			m.sp -= 2
			if m.stack[m.sp] == m.stack[m.sp+1] {
				pc = int(arg)
			}

		case compiler.GotoIfLessThan:
			m.sp -= 2
			if m.stack[m.sp] < m.stack[m.sp+1] {
				pc = int(arg)
			}

		case compiler.GotoIfLessThanOrEqual:
			m.sp -= 2
			if m.stack[m.sp] <= m.stack[m.sp+1] {
				pc = int(arg)
			}

		case compiler.Call:
			callee := &m.module.UserDefinedOperators[arg]
			newFrameBottom := m.sp - callee.Definition.Arity
			if m.sp+callee.MaxStackSize > len(m.stack) || len(m.frames) >= cap(m.frames) {
				return 0, calcerr.NewNoPos(calcerr.StackOverflow, "stack overflow calling %s", callee.Definition)
			}
			m.frames = append(m.frames, frame{functionIndex: functionIndex, pc: pc, frameBottom: m.frameBottom})
			functionIndex, code, pc = int(arg), callee.Operations, 0
			m.frameBottom = newFrameBottom

		case compiler.Return:
			result := m.stack[m.sp-1]
			fr := m.frames[len(m.frames)-1]
			m.frames = m.frames[:len(m.frames)-1]
			m.sp = m.frameBottom
			m.stack[m.sp] = result
			m.sp++
			functionIndex, pc, m.frameBottom = fr.functionIndex, fr.pc, fr.frameBottom
			if functionIndex == -1 {
				code = m.module.EntryPoint.Operations
			} else {
				code = m.module.UserDefinedOperators[functionIndex].Operations
			}

		case compiler.Halt:
			return m.stack[m.sp-1], nil

		default:
			return 0, calcerr.NewNoPos(calcerr.AssertionError, "machine: unhandled opcode %s", op)
		}
	}
}
