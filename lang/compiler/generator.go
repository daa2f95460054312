package compiler

import (
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/token"
)

// Options controls the stack-machine code generator's runtime-checking
// behavior (spec.md §4.4).
type Options struct {
	// CheckZeroDivision selects DivChecked/ModChecked over the plain
	// Div/Mod opcodes, so a runtime ZeroDivision error is raised instead
	// of relying on the machine's host-language division semantics.
	CheckZeroDivision bool
}

// Generate lowers root and every operator registered in ctx into a Module
// (spec.md §4.4). root and every ctx body must already have passed through
// lang/optimizer, since UserDefined.IsTailCall must be non-nil for Generate
// to know which calls are self tail calls.
func Generate[N numeric.Number](ctx *ast.Context[N], root ast.Node[N], opts Options) (*Module[N], error) {
	g := &generator[N]{
		opts:       opts,
		varIndex:   make(map[string]int32),
		constIndex: make(map[N]int32),
		opNumber:   make(map[string]int32),
		beginLabel: make(map[string]int),
	}

	implements := ctx.Implements()
	for i, im := range implements {
		g.opNumber[im.Definition.Name] = int32(i)
	}

	module := &Module[N]{
		UserDefinedOperators: make([]FunctionCode[N], len(implements)),
	}

	for i, im := range implements {
		e := newEmitter()
		begin := e.newLabel()
		e.place(begin)
		g.beginLabel[im.Definition.Name] = begin

		if im.Body == nil {
			return nil, calcerr.New(calcerr.AssertionError, token.Position{}, "operator %s has no body", im.Definition)
		}
		if err := g.genNode(e, im.Body, im.Definition); err != nil {
			return nil, err
		}
		if err := g.finish(e, im.Definition, Return); err != nil {
			return nil, err
		}
		e.resolve()
		module.UserDefinedOperators[i] = FunctionCode[N]{
			Definition:   im.Definition,
			Operations:   e.ops,
			MaxStackSize: e.maxStack,
		}
	}

	entry := newEmitter()
	begin := entry.newLabel()
	entry.place(begin)
	if err := g.genNode(entry, root, opdef.Definition{}); err != nil {
		return nil, err
	}
	if err := g.finish(entry, opdef.Definition{}, Halt); err != nil {
		return nil, err
	}
	entry.resolve()
	module.EntryPoint = FunctionCode[N]{Operations: entry.ops, MaxStackSize: entry.maxStack}

	module.ConstTable = g.constTable
	module.Variables = g.varNames
	return module, nil
}

// generator holds the module-wide tables shared by every function's code
// generation: the variable name table, the out-of-range literal table and
// the operator-name -> index/begin-label tables used by Call and by self
// tail calls.
type generator[N numeric.Number] struct {
	opts Options

	varIndex map[string]int32
	varNames []string

	constIndex map[N]int32
	constTable []N

	opNumber   map[string]int32
	beginLabel map[string]int
}

func (g *generator[N]) internVar(name string) int32 {
	if idx, ok := g.varIndex[name]; ok {
		return idx
	}
	idx := int32(len(g.varNames))
	g.varIndex[name] = idx
	g.varNames = append(g.varNames, name)
	return idx
}

func (g *generator[N]) internConst(v N) int32 {
	if idx, ok := g.constIndex[v]; ok {
		return idx
	}
	idx := int32(len(g.constTable))
	g.constIndex[v] = idx
	g.constTable = append(g.constTable, v)
	return idx
}

// finish appends the function's terminal opcode and checks the stack
// invariant of spec.md §4.4: exactly one value (the result) must be on the
// stack right before the terminal opcode runs, in every function, entry
// point included.
func (g *generator[N]) finish(e *emitter, owner opdef.Definition, terminal Opcode) error {
	if e.stack != 1 {
		return calcerr.New(calcerr.AssertionError, token.Position{},
			"code generator left stack depth %d before %s in %s, want 1", e.stack, terminal, describeOwner(owner))
	}
	e.emit(terminal, 0)
	return nil
}

func describeOwner(def opdef.Definition) string {
	if def.Name == "" && def.Arity == 0 {
		return "entry point"
	}
	return def.String()
}

// genNode emits code for n, leaving exactly one value on the stack. owner
// is the definition n's enclosing body belongs to, needed to resolve a
// self tail call's Goto target.
func (g *generator[N]) genNode(e *emitter, n ast.Node[N], owner opdef.Definition) error {
	switch t := n.(type) {
	case ast.Zero[N]:
		e.emit(Push, 0)

	case ast.Define[N]:
		e.emit(Push, 0)

	case ast.Precomputed[N]:
		if v16, ok := numeric.FitsInt16(t.Value); ok {
			e.emit(LoadConst, int32(v16))
		} else {
			e.emit(LoadConstTable, g.internConst(t.Value))
		}

	case ast.Operand[N]:
		e.emit(LoadArg, int32(t.Index))

	case ast.LoadVariable[N]:
		e.emit(LoadVariable, g.internVar(t.Name))

	case ast.StoreVariable[N]:
		if err := g.genNode(e, t.Value, owner); err != nil {
			return err
		}
		e.emit(StoreVariable, g.internVar(t.Name))

	case ast.LoadArray[N]:
		if err := g.genNode(e, t.Index, owner); err != nil {
			return err
		}
		e.emit(LoadArrayElement, 0)

	case ast.StoreArray[N]:
		if err := g.genNode(e, t.Value, owner); err != nil {
			return err
		}
		if err := g.genNode(e, t.Index, owner); err != nil {
			return err
		}
		e.emit(StoreArrayElement, 0)

	case ast.PrintChar[N]:
		if err := g.genNode(e, t.Operand, owner); err != nil {
			return err
		}
		e.emit(PrintChar, 0)

	case ast.Input[N]:
		e.emit(Input, 0)

	case ast.Decimal[N]:
		if err := g.genNode(e, t.Operand, owner); err != nil {
			return err
		}
		e.emit(LoadConst, 10)
		e.emit(Mult, 0)
		e.emit(LoadConst, int32(t.Digit))
		e.emit(Add, 0)

	case ast.Parenthesis[N]:
		if len(t.Children) == 0 {
			e.emit(Push, 0)
			return nil
		}
		for i, c := range t.Children {
			if err := g.genNode(e, c, owner); err != nil {
				return err
			}
			if i != len(t.Children)-1 {
				e.emit(Pop, 0)
			}
		}

	case ast.Binary[N]:
		return g.genBinary(e, t, owner)

	case ast.Conditional[N]:
		return g.genConditional(e, t, owner)

	case ast.UserDefined[N]:
		return g.genUserDefined(e, t, owner)

	default:
		return calcerr.New(calcerr.AssertionError, n.Pos(), "code generator: unhandled node %T", n)
	}
	return nil
}

func (g *generator[N]) genBinary(e *emitter, t ast.Binary[N], owner opdef.Definition) error {
	switch t.Op {
	case token.Add, token.Sub, token.Mult, token.Div, token.Mod:
		if err := g.genNode(e, t.LHS, owner); err != nil {
			return err
		}
		if err := g.genNode(e, t.RHS, owner); err != nil {
			return err
		}
		e.emit(arithOpcode(t.Op, g.opts.CheckZeroDivision), 0)
		return nil

	case token.LogicalAnd:
		falseLabel, endLabel := e.newLabel(), e.newLabel()
		if err := g.genNode(e, t.LHS, owner); err != nil {
			return err
		}
		base := e.stack - 1
		e.emitJump(GotoIfFalse, falseLabel)
		if err := g.genNode(e, t.RHS, owner); err != nil {
			return err
		}
		e.emitJump(GotoIfFalse, falseLabel)
		e.emit(Push, 1)
		e.emitJump(Goto, endLabel)
		e.place(falseLabel)
		e.resetStack(base)
		e.emit(Push, 0)
		e.place(endLabel)
		return nil

	case token.LogicalOr:
		trueLabel, endLabel := e.newLabel(), e.newLabel()
		if err := g.genNode(e, t.LHS, owner); err != nil {
			return err
		}
		base := e.stack - 1
		e.emitJump(GotoIfTrue, trueLabel)
		if err := g.genNode(e, t.RHS, owner); err != nil {
			return err
		}
		e.emitJump(GotoIfTrue, trueLabel)
		e.emit(Push, 0)
		e.emitJump(Goto, endLabel)
		e.place(trueLabel)
		e.resetStack(base)
		e.emit(Push, 1)
		e.place(endLabel)
		return nil

	default:
		return g.genComparison(e, t, owner)
	}
}

// genComparison lowers the six comparison operators to a 0/1 value (spec.md
// §8 property 4), each by pushing its two operands — in whichever order
// turns the comparison into one the machine's GotoIfEqual/GotoIfLessThan/
// GotoIfLessThanOrEqual opcodes can test directly — and branching.
func (g *generator[N]) genComparison(e *emitter, t ast.Binary[N], owner opdef.Definition) error {
	lhs, rhs := t.LHS, t.RHS
	branchOp := GotoIfEqual
	invert := false

	switch t.Op {
	case token.Equal:
		branchOp = GotoIfEqual
	case token.NotEqual:
		branchOp, invert = GotoIfEqual, true
	case token.LessThan:
		branchOp = GotoIfLessThan
	case token.LessThanOrEqual:
		branchOp = GotoIfLessThanOrEqual
	case token.GreaterThan:
		lhs, rhs = rhs, lhs
		branchOp = GotoIfLessThan
	case token.GreaterThanOrEqual:
		lhs, rhs = rhs, lhs
		branchOp = GotoIfLessThanOrEqual
	default:
		return calcerr.New(calcerr.AssertionError, t.Pos(), "code generator: unhandled binary operator %s", t.Op)
	}

	if err := g.genNode(e, lhs, owner); err != nil {
		return err
	}
	if err := g.genNode(e, rhs, owner); err != nil {
		return err
	}
	base := e.stack - 2

	branchLabel, endLabel := e.newLabel(), e.newLabel()
	e.emitJump(branchOp, branchLabel)

	trueValue, falseValue := int32(1), int32(0)
	if invert {
		trueValue, falseValue = falseValue, trueValue
	}

	e.emit(Push, falseValue)
	e.emitJump(Goto, endLabel)
	e.place(branchLabel)
	e.resetStack(base)
	e.emit(Push, trueValue)
	e.place(endLabel)
	return nil
}

func arithOpcode(op token.BinaryOp, checked bool) Opcode {
	switch op {
	case token.Add:
		return Add
	case token.Sub:
		return Sub
	case token.Mult:
		return Mult
	case token.Div:
		if checked {
			return DivChecked
		}
		return Div
	case token.Mod:
		if checked {
			return ModChecked
		}
		return Mod
	default:
		return Add
	}
}

func (g *generator[N]) genConditional(e *emitter, t ast.Conditional[N], owner opdef.Definition) error {
	if err := g.genNode(e, t.Cond, owner); err != nil {
		return err
	}
	base := e.stack - 1

	ifTrueLabel, endLabel := e.newLabel(), e.newLabel()
	e.emitJump(GotoIfTrue, ifTrueLabel)

	if err := g.genNode(e, t.IfFalse, owner); err != nil {
		return err
	}
	e.emitJump(Goto, endLabel)

	e.place(ifTrueLabel)
	e.resetStack(base)
	if err := g.genNode(e, t.IfTrue, owner); err != nil {
		return err
	}

	e.place(endLabel)
	return nil
}

func (g *generator[N]) genUserDefined(e *emitter, t ast.UserDefined[N], owner opdef.Definition) error {
	if t.IsTailCall == nil {
		return calcerr.New(calcerr.AssertionError, t.Pos(), "code generator: %s has no tail-call marking, run lang/optimizer first", t.Def)
	}

	for _, operand := range t.Operands {
		if err := g.genNode(e, operand, owner); err != nil {
			return err
		}
	}

	if *t.IsTailCall && t.Def.Equal(owner) {
		for i := len(t.Operands) - 1; i >= 0; i-- {
			e.emit(StoreArg, int32(i))
		}
		begin, ok := g.beginLabel[t.Def.Name]
		if !ok {
			return calcerr.New(calcerr.AssertionError, t.Pos(), "code generator: no begin label for %s", t.Def)
		}
		e.emitJump(Goto, begin)
		// A tail call leaves no value on the stack of its own; the Goto
		// never falls through, so any code the caller appends after it
		// (e.g. a Conditional's merge jump) is unreachable. To keep the
		// static stack accounting consistent with the one value every
		// other node leaves behind, credit it back here.
		e.stack++
		if e.stack > e.maxStack {
			e.maxStack = e.stack
		}
		return nil
	}

	number, ok := g.opNumber[t.Def.Name]
	if !ok {
		return calcerr.New(calcerr.AssertionError, t.Pos(), "code generator: operator %s not registered", t.Def)
	}
	e.emitCall(number, len(t.Operands))
	return nil
}
