// Package ast defines Calc4's abstract syntax tree (spec.md §3.4): an
// immutable, number-type-parametrized sum type built by lang/parser,
// rebuilt into new trees by lang/optimizer, and consumed by lang/compiler
// and lang/evaluator.
//
// Following the teacher's visitor-over-AST design note (spec.md §9), Node
// is a closed interface implemented by the tagged variants below; every
// pass over the tree is a single type switch, no dynamic dispatch table
// is built and no other package may add new variants.
package ast

import (
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/token"
)

// Node is the sum type of every AST node (spec.md §3.4). It is immutable
// after construction: optimizer passes build and return new Node values
// rather than mutating existing ones, so a tree may safely be shared and
// re-optimized from a cached parse.
type Node[N numeric.Number] interface {
	// Pos reports the position of the source token this node was built
	// from, for errors raised while generating or evaluating it (e.g. the
	// evaluator's error for a call to an operator with no body). Runtime
	// ZeroDivision and StackOverflow errors carry no position.
	Pos() token.Position
	node()
}

type base struct{ pos token.Position }

func (b base) Pos() token.Position { return b.pos }
func (base) node()                 {}

// Zero is the constant 0.
type Zero[N numeric.Number] struct{ base }

func NewZero[N numeric.Number](pos token.Position) Zero[N] { return Zero[N]{base{pos}} }

// Precomputed is a literal value of the number type N, produced by the
// parser's digit fusion and by the optimizer's constant folding.
type Precomputed[N numeric.Number] struct {
	base
	Value N
}

func NewPrecomputed[N numeric.Number](pos token.Position, v N) Precomputed[N] {
	return Precomputed[N]{base{pos}, v}
}

// Operand is the i-th argument of the enclosing user-defined operator.
type Operand[N numeric.Number] struct {
	base
	Index int
}

func NewOperand[N numeric.Number](pos token.Position, index int) Operand[N] {
	return Operand[N]{base{pos}, index}
}

// Define is the placeholder result of a `D[...]` definition expression; it
// always evaluates to 0 (spec.md §3.4).
type Define[N numeric.Number] struct{ base }

func NewDefine[N numeric.Number](pos token.Position) Define[N] { return Define[N]{base{pos}} }

// LoadVariable reads a named mutable cell, defaulting to 0 if unset.
type LoadVariable[N numeric.Number] struct {
	base
	Name string
}

func NewLoadVariable[N numeric.Number](pos token.Position, name string) LoadVariable[N] {
	return LoadVariable[N]{base{pos}, name}
}

// StoreVariable writes Value into a named cell and evaluates to Value.
type StoreVariable[N numeric.Number] struct {
	base
	Name  string
	Value Node[N]
}

func NewStoreVariable[N numeric.Number](pos token.Position, name string, value Node[N]) StoreVariable[N] {
	return StoreVariable[N]{base{pos}, name, value}
}

// LoadArray reads the global array cell at Index, defaulting to 0.
type LoadArray[N numeric.Number] struct {
	base
	Index Node[N]
}

func NewLoadArray[N numeric.Number](pos token.Position, index Node[N]) LoadArray[N] {
	return LoadArray[N]{base{pos}, index}
}

// StoreArray writes Value into the global array cell at Index and
// evaluates to Value (spec.md §9's StoreArray open question).
type StoreArray[N numeric.Number] struct {
	base
	Value Node[N]
	Index Node[N]
}

func NewStoreArray[N numeric.Number](pos token.Position, value, index Node[N]) StoreArray[N] {
	return StoreArray[N]{base{pos}, value, index}
}

// PrintChar writes Operand's low byte to the output sink and evaluates to
// 0.
type PrintChar[N numeric.Number] struct {
	base
	Operand Node[N]
}

func NewPrintChar[N numeric.Number](pos token.Position, operand Node[N]) PrintChar[N] {
	return PrintChar[N]{base{pos}, operand}
}

// Input reads one byte from the input source, or -1 at EOF.
type Input[N numeric.Number] struct{ base }

func NewInput[N numeric.Number](pos token.Position) Input[N] { return Input[N]{base{pos}} }

// Decimal fuses a digit onto a previously-parsed operand:
// Operand*10 + Digit (spec.md §3.4, §8 property 8).
type Decimal[N numeric.Number] struct {
	base
	Operand Node[N]
	Digit   int8
}

func NewDecimal[N numeric.Number](pos token.Position, operand Node[N], digit int8) Decimal[N] {
	return Decimal[N]{base{pos}, operand, digit}
}

// Parenthesis sequences expressions; its value is the value of the last
// child, or 0 if empty.
type Parenthesis[N numeric.Number] struct {
	base
	Children []Node[N]
}

func NewParenthesis[N numeric.Number](pos token.Position, children []Node[N]) Parenthesis[N] {
	return Parenthesis[N]{base{pos}, children}
}

// Binary is a two-operand arithmetic, comparison or short-circuit logical
// expression (spec.md §3.4).
type Binary[N numeric.Number] struct {
	base
	Op       token.BinaryOp
	LHS, RHS Node[N]
}

func NewBinary[N numeric.Number](pos token.Position, op token.BinaryOp, lhs, rhs Node[N]) Binary[N] {
	return Binary[N]{base{pos}, op, lhs, rhs}
}

// Conditional is `cond ? ifTrue ? ifFalse` — a non-zero Cond selects
// IfTrue, zero selects IfFalse.
type Conditional[N numeric.Number] struct {
	base
	Cond, IfTrue, IfFalse Node[N]
}

func NewConditional[N numeric.Number](pos token.Position, cond, ifTrue, ifFalse Node[N]) Conditional[N] {
	return Conditional[N]{base{pos}, cond, ifTrue, ifFalse}
}

// UserDefined calls the operator named by Def with Operands. IsTailCall is
// nil until the optimizer's tail-call marking pass runs; after that pass
// it is always non-nil (spec.md §4.3).
type UserDefined[N numeric.Number] struct {
	base
	Def        opdef.Definition
	Operands   []Node[N]
	IsTailCall *bool
}

func NewUserDefined[N numeric.Number](pos token.Position, def opdef.Definition, operands []Node[N]) UserDefined[N] {
	return UserDefined[N]{base{pos}, def, operands, nil}
}

// WithTailCall returns a copy of u with IsTailCall set, used by
// lang/optimizer's tail-call marking pass (nodes are immutable, so marking
// produces a new node rather than mutating u).
func (u UserDefined[N]) WithTailCall(isTailCall bool) UserDefined[N] {
	u.IsTailCall = &isTailCall
	return u
}
