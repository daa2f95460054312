// Package optimizer implements the two AST-to-AST passes of spec.md
// §4.3: constant folding (Precompute) and tail-call marking. Both are
// applied first to every user-defined operator's body and then to the
// root expression, and both rebuild nodes rather than mutate them, since
// lang/ast's Node values are immutable by convention.
package optimizer

import (
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/token"
)

// Optimize runs Precompute then MarkTailCalls over every registered
// operator body in ctx and over root, returning the optimized root. ctx's
// implements are updated in place with their optimized bodies.
func Optimize[N numeric.Number](ctx *ast.Context[N], root ast.Node[N]) ast.Node[N] {
	for _, im := range ctx.Implements() {
		if im.Body == nil {
			continue
		}
		folded := Precompute[N](im.Body)
		im.Body = MarkTailCalls[N](folded, im.Definition)
	}
	folded := Precompute[N](root)
	return MarkTailCalls[N](folded, opdef.Definition{})
}

// Precompute is the bottom-up constant-folding pass (spec.md §4.3).
func Precompute[N numeric.Number](n ast.Node[N]) ast.Node[N] {
	switch t := n.(type) {
	case ast.Zero[N]:
		return ast.NewPrecomputed[N](t.Pos(), 0)

	case ast.Define[N]:
		return ast.NewPrecomputed[N](t.Pos(), 0)

	case ast.Precomputed[N]:
		return t

	case ast.Operand[N]:
		return t

	case ast.LoadVariable[N]:
		return t

	case ast.Input[N]:
		return t

	case ast.StoreVariable[N]:
		return ast.NewStoreVariable[N](t.Pos(), t.Name, Precompute[N](t.Value))

	case ast.LoadArray[N]:
		return ast.NewLoadArray[N](t.Pos(), Precompute[N](t.Index))

	case ast.StoreArray[N]:
		return ast.NewStoreArray[N](t.Pos(), Precompute[N](t.Value), Precompute[N](t.Index))

	case ast.PrintChar[N]:
		return ast.NewPrintChar[N](t.Pos(), Precompute[N](t.Operand))

	case ast.Decimal[N]:
		operand := Precompute[N](t.Operand)
		if p, ok := operand.(ast.Precomputed[N]); ok {
			return ast.NewPrecomputed[N](t.Pos(), numeric.Add(numeric.Mult(p.Value, N(10)), N(t.Digit)))
		}
		return ast.NewDecimal[N](t.Pos(), operand, t.Digit)

	case ast.Parenthesis[N]:
		children := make([]ast.Node[N], len(t.Children))
		allConst := len(children) > 0
		for i, c := range t.Children {
			children[i] = Precompute[N](c)
			if _, ok := children[i].(ast.Precomputed[N]); !ok {
				allConst = false
			}
		}
		if len(children) == 0 {
			return ast.NewPrecomputed[N](t.Pos(), 0)
		}
		if allConst {
			return children[len(children)-1]
		}
		return ast.NewParenthesis[N](t.Pos(), children)

	case ast.Binary[N]:
		lhs := Precompute[N](t.LHS)
		rhs := Precompute[N](t.RHS)
		lp, lok := lhs.(ast.Precomputed[N])
		rp, rok := rhs.(ast.Precomputed[N])
		if lok && rok {
			if (t.Op == token.Div || t.Op == token.Mod) && rp.Value == 0 {
				// Div/Mod by a literal 0 must still raise ZeroDivision at
				// runtime (spec.md §4.3); folding it away would hide that.
				return ast.NewBinary[N](t.Pos(), t.Op, lhs, rhs)
			}
			return ast.NewPrecomputed[N](t.Pos(), foldBinary(t.Op, lp.Value, rp.Value))
		}
		return ast.NewBinary[N](t.Pos(), t.Op, lhs, rhs)

	case ast.Conditional[N]:
		cond := Precompute[N](t.Cond)
		ifTrue := Precompute[N](t.IfTrue)
		ifFalse := Precompute[N](t.IfFalse)
		if cp, ok := cond.(ast.Precomputed[N]); ok {
			if numeric.Truth(cp.Value) {
				return ifTrue
			}
			return ifFalse
		}
		return ast.NewConditional[N](t.Pos(), cond, ifTrue, ifFalse)

	case ast.UserDefined[N]:
		operands := make([]ast.Node[N], len(t.Operands))
		for i, op := range t.Operands {
			operands[i] = Precompute[N](op)
		}
		u := ast.NewUserDefined[N](t.Pos(), t.Def, operands)
		if t.IsTailCall != nil {
			u = u.WithTailCall(*t.IsTailCall)
		}
		return u

	default:
		return n
	}
}

func foldBinary[N numeric.Number](op token.BinaryOp, a, b N) N {
	switch op {
	case token.Add:
		return numeric.Add(a, b)
	case token.Sub:
		return numeric.Sub(a, b)
	case token.Mult:
		return numeric.Mult(a, b)
	case token.Div:
		return numeric.Div(a, b)
	case token.Mod:
		return numeric.Mod(a, b)
	case token.Equal:
		return numeric.Bool[N](a == b)
	case token.NotEqual:
		return numeric.Bool[N](a != b)
	case token.LessThan:
		return numeric.Bool[N](numeric.Compare(a, b) < 0)
	case token.LessThanOrEqual:
		return numeric.Bool[N](numeric.Compare(a, b) <= 0)
	case token.GreaterThanOrEqual:
		return numeric.Bool[N](numeric.Compare(a, b) >= 0)
	case token.GreaterThan:
		return numeric.Bool[N](numeric.Compare(a, b) > 0)
	case token.LogicalAnd:
		return numeric.Bool[N](numeric.Truth(a) && numeric.Truth(b))
	case token.LogicalOr:
		return numeric.Bool[N](numeric.Truth(a) || numeric.Truth(b))
	default:
		return 0
	}
}

// MarkTailCalls is the top-down tail-position pass (spec.md §4.3). owner
// is the definition of the operator whose body n belongs to (the zero
// Definition when n is the program's entry expression, which has no
// enclosing operator and therefore no self tail calls).
func MarkTailCalls[N numeric.Number](n ast.Node[N], owner opdef.Definition) ast.Node[N] {
	return markTail(n, owner, true)
}

func markTail[N numeric.Number](n ast.Node[N], owner opdef.Definition, tail bool) ast.Node[N] {
	switch t := n.(type) {
	case ast.Parenthesis[N]:
		if len(t.Children) == 0 {
			return t
		}
		children := make([]ast.Node[N], len(t.Children))
		last := len(children) - 1
		for i, c := range t.Children {
			children[i] = markTail(c, owner, i == last && tail)
		}
		return ast.NewParenthesis[N](t.Pos(), children)

	case ast.Conditional[N]:
		cond := markTail(t.Cond, owner, false)
		ifTrue := markTail(t.IfTrue, owner, tail)
		ifFalse := markTail(t.IfFalse, owner, tail)
		return ast.NewConditional[N](t.Pos(), cond, ifTrue, ifFalse)

	case ast.UserDefined[N]:
		operands := make([]ast.Node[N], len(t.Operands))
		for i, op := range t.Operands {
			operands[i] = markTail(op, owner, false)
		}
		isSelfCall := t.Def.Equal(owner)
		return ast.NewUserDefined[N](t.Pos(), t.Def, operands).WithTailCall(tail && isSelfCall)

	case ast.Binary[N]:
		return ast.NewBinary[N](t.Pos(), t.Op, markTail(t.LHS, owner, false), markTail(t.RHS, owner, false))

	case ast.Decimal[N]:
		return ast.NewDecimal[N](t.Pos(), markTail(t.Operand, owner, false), t.Digit)

	case ast.StoreVariable[N]:
		return ast.NewStoreVariable[N](t.Pos(), t.Name, markTail(t.Value, owner, false))

	case ast.LoadArray[N]:
		return ast.NewLoadArray[N](t.Pos(), markTail(t.Index, owner, false))

	case ast.StoreArray[N]:
		return ast.NewStoreArray[N](t.Pos(), markTail(t.Value, owner, false), markTail(t.Index, owner, false))

	case ast.PrintChar[N]:
		return ast.NewPrintChar[N](t.Pos(), markTail(t.Operand, owner, false))

	default:
		return n
	}
}
