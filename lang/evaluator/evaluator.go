// Package evaluator implements Calc4's tree-walking evaluator (spec.md
// §4.6): a direct recursive walk of the optimized AST, kept deliberately
// simple (no tail-call optimization of its own) so it can serve as an
// independent parity oracle for lang/compiler+lang/machine in tests
// (spec.md §8 property 1). The REPL also runs lines that reach no
// recursive operator on it directly.
package evaluator

import (
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/state"
	"github.com/proprowataya/calc4go/lang/token"
)

// Evaluate walks root against ctx and st, returning root's value (spec.md
// §6.2's tree-evaluator entry point).
func Evaluate[N numeric.Number](ctx *ast.Context[N], root ast.Node[N], st *state.State[N]) (N, error) {
	return eval(ctx, root, nil, st)
}

// HasRecursiveCall reports whether def's body (or any operator it
// transitively calls) can reach def again. A caller that runs the tree
// evaluator opportunistically (the REPL does, for lines with no recursive
// call) can use this to skip programs where unbounded Go-stack recursion
// (this evaluator performs no tail-call optimization, spec.md §4.6) would
// be a real risk, and fall back to lang/machine.
func HasRecursiveCall[N numeric.Number](ctx *ast.Context[N], def opdef.Definition) bool {
	visited := make(map[string]bool)
	var walk func(opdef.Definition) bool
	walk = func(d opdef.Definition) bool {
		if d.Equal(def) {
			return true
		}
		if visited[d.Name] {
			return false
		}
		visited[d.Name] = true
		im, ok := ctx.Lookup(d.Name)
		if !ok || im.Body == nil {
			return false
		}
		return bodyCalls(ctx, im.Body, def, walk)
	}

	im, ok := ctx.Lookup(def.Name)
	if !ok || im.Body == nil {
		return false
	}
	return bodyCalls(ctx, im.Body, def, walk)
}

func bodyCalls[N numeric.Number](ctx *ast.Context[N], n ast.Node[N], target opdef.Definition, walk func(opdef.Definition) bool) bool {
	switch t := n.(type) {
	case ast.UserDefined[N]:
		if t.Def.Equal(target) || walk(t.Def) {
			return true
		}
		for _, op := range t.Operands {
			if bodyCalls(ctx, op, target, walk) {
				return true
			}
		}
		return false
	case ast.StoreVariable[N]:
		return bodyCalls(ctx, t.Value, target, walk)
	case ast.LoadArray[N]:
		return bodyCalls(ctx, t.Index, target, walk)
	case ast.StoreArray[N]:
		return bodyCalls(ctx, t.Value, target, walk) || bodyCalls(ctx, t.Index, target, walk)
	case ast.PrintChar[N]:
		return bodyCalls(ctx, t.Operand, target, walk)
	case ast.Decimal[N]:
		return bodyCalls(ctx, t.Operand, target, walk)
	case ast.Parenthesis[N]:
		for _, c := range t.Children {
			if bodyCalls(ctx, c, target, walk) {
				return true
			}
		}
		return false
	case ast.Binary[N]:
		return bodyCalls(ctx, t.LHS, target, walk) || bodyCalls(ctx, t.RHS, target, walk)
	case ast.Conditional[N]:
		return bodyCalls(ctx, t.Cond, target, walk) || bodyCalls(ctx, t.IfTrue, target, walk) || bodyCalls(ctx, t.IfFalse, target, walk)
	default:
		return false
	}
}

func eval[N numeric.Number](ctx *ast.Context[N], n ast.Node[N], args []N, st *state.State[N]) (N, error) {
	switch t := n.(type) {
	case ast.Zero[N]:
		return 0, nil

	case ast.Define[N]:
		return 0, nil

	case ast.Precomputed[N]:
		return t.Value, nil

	case ast.Operand[N]:
		return args[t.Index], nil

	case ast.LoadVariable[N]:
		return st.LoadVariable(t.Name), nil

	case ast.StoreVariable[N]:
		v, err := eval(ctx, t.Value, args, st)
		if err != nil {
			return 0, err
		}
		st.StoreVariable(t.Name, v)
		return v, nil

	case ast.LoadArray[N]:
		idx, err := eval(ctx, t.Index, args, st)
		if err != nil {
			return 0, err
		}
		return st.LoadArray(idx), nil

	case ast.StoreArray[N]:
		v, err := eval(ctx, t.Value, args, st)
		if err != nil {
			return 0, err
		}
		idx, err := eval(ctx, t.Index, args, st)
		if err != nil {
			return 0, err
		}
		st.StoreArray(idx, v)
		return v, nil

	case ast.PrintChar[N]:
		v, err := eval(ctx, t.Operand, args, st)
		if err != nil {
			return 0, err
		}
		st.PrintChar(v)
		return 0, nil

	case ast.Input[N]:
		return st.Input(), nil

	case ast.Decimal[N]:
		v, err := eval(ctx, t.Operand, args, st)
		if err != nil {
			return 0, err
		}
		return numeric.Add(numeric.Mult(v, N(10)), N(t.Digit)), nil

	case ast.Parenthesis[N]:
		var result N
		for _, c := range t.Children {
			v, err := eval(ctx, c, args, st)
			if err != nil {
				return 0, err
			}
			result = v
		}
		return result, nil

	case ast.Binary[N]:
		return evalBinary(ctx, t, args, st)

	case ast.Conditional[N]:
		cond, err := eval(ctx, t.Cond, args, st)
		if err != nil {
			return 0, err
		}
		if numeric.Truth(cond) {
			return eval(ctx, t.IfTrue, args, st)
		}
		return eval(ctx, t.IfFalse, args, st)

	case ast.UserDefined[N]:
		operands := make([]N, len(t.Operands))
		for i, op := range t.Operands {
			v, err := eval(ctx, op, args, st)
			if err != nil {
				return 0, err
			}
			operands[i] = v
		}
		im, ok := ctx.Lookup(t.Def.Name)
		if !ok || im.Body == nil {
			return 0, calcerr.New(calcerr.OperatorOrOperandNotDefined, t.Pos(), "operator %s is not defined", t.Def)
		}
		return eval(ctx, im.Body, operands, st)

	default:
		return 0, calcerr.New(calcerr.AssertionError, n.Pos(), "evaluator: unhandled node %T", n)
	}
}

func evalBinary[N numeric.Number](ctx *ast.Context[N], t ast.Binary[N], args []N, st *state.State[N]) (N, error) {
	if t.Op == token.LogicalAnd || t.Op == token.LogicalOr {
		lhs, err := eval(ctx, t.LHS, args, st)
		if err != nil {
			return 0, err
		}
		if t.Op == token.LogicalAnd && !numeric.Truth(lhs) {
			return 0, nil
		}
		if t.Op == token.LogicalOr && numeric.Truth(lhs) {
			return 1, nil
		}
		rhs, err := eval(ctx, t.RHS, args, st)
		if err != nil {
			return 0, err
		}
		return numeric.Bool[N](numeric.Truth(rhs)), nil
	}

	lhs, err := eval(ctx, t.LHS, args, st)
	if err != nil {
		return 0, err
	}
	rhs, err := eval(ctx, t.RHS, args, st)
	if err != nil {
		return 0, err
	}

	switch t.Op {
	case token.Add:
		return numeric.Add(lhs, rhs), nil
	case token.Sub:
		return numeric.Sub(lhs, rhs), nil
	case token.Mult:
		return numeric.Mult(lhs, rhs), nil
	case token.Div:
		if rhs == 0 {
			return 0, calcerr.NewNoPos(calcerr.ZeroDivision, "division by zero")
		}
		return numeric.Div(lhs, rhs), nil
	case token.Mod:
		if rhs == 0 {
			return 0, calcerr.NewNoPos(calcerr.ZeroDivision, "division by zero")
		}
		return numeric.Mod(lhs, rhs), nil
	case token.Equal:
		return numeric.Bool[N](lhs == rhs), nil
	case token.NotEqual:
		return numeric.Bool[N](lhs != rhs), nil
	case token.LessThan:
		return numeric.Bool[N](numeric.Compare(lhs, rhs) < 0), nil
	case token.LessThanOrEqual:
		return numeric.Bool[N](numeric.Compare(lhs, rhs) <= 0), nil
	case token.GreaterThanOrEqual:
		return numeric.Bool[N](numeric.Compare(lhs, rhs) >= 0), nil
	case token.GreaterThan:
		return numeric.Bool[N](numeric.Compare(lhs, rhs) > 0), nil
	default:
		return 0, calcerr.New(calcerr.AssertionError, t.Pos(), "evaluator: unhandled binary operator %s", t.Op)
	}
}
