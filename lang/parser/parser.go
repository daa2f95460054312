// Package parser builds an AST from a token sequence (spec.md §4.2). The
// parser never consults a precedence table: precedence emerges purely
// from each token's arity, with higher-arity operators binding the
// outermost and ties within one arity chaining left-to-right, reusing
// the previous construct's result as the chain's first operand — the
// same mechanism that gives binary arithmetic its familiar left-to-right
// grouping also gives the repeated-token ternary (`a?b?c`) its grouping,
// since an M-ary construct consumes exactly M-1 pivot-token occurrences
// the way M comma-separated values need M-1 commas.
package parser

import (
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/token"
)

// Parse builds the AST root for tokens against ctx. Every Define token
// reachable from tokens (including nested inside Parenthesis and other
// Define bodies) has its placeholder implement in ctx filled in as a
// side effect (spec.md §4.2 step 2) before the main pass runs.
func Parse[N numeric.Number](ctx *ast.Context[N], tokens []token.Token) (ast.Node[N], error) {
	if len(tokens) == 0 {
		return nil, calcerr.New(calcerr.CodeIsEmpty, token.Position{Line: 1, Column: 1}, "code is empty")
	}
	if err := resolveDefines[N](ctx, tokens); err != nil {
		return nil, err
	}
	return parseLevel[N](tokens)
}

// resolveDefines is the parser's first pass (spec.md §4.2 step 2): for
// every Define token, recursively resolve its own nested defines, parse
// its body, and install the finished AST into the context's placeholder
// implement for that name.
func resolveDefines[N numeric.Number](ctx *ast.Context[N], tokens []token.Token) error {
	for _, tok := range tokens {
		switch t := tok.(type) {
		case token.Define:
			if err := resolveDefines[N](ctx, t.Inner); err != nil {
				return err
			}
			body, err := parseLevel[N](t.Inner)
			if err != nil {
				return err
			}
			if im, ok := ctx.Lookup(t.Name); ok {
				im.Body = body
			}
		case token.Parenthesis:
			if err := resolveDefines[N](ctx, t.Inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseLevel implements spec.md §4.2 step 3 over a single flat token
// sequence (a top-level program, a Define body, or a Parenthesis's
// contents).
func parseLevel[N numeric.Number](tokens []token.Token) (ast.Node[N], error) {
	if len(tokens) == 0 {
		return ast.NewParenthesis[N](token.Position{}, nil), nil
	}

	maxArity := 0
	for _, t := range tokens {
		if a := t.Arity(); a > maxArity {
			maxArity = a
		}
	}

	if maxArity == 0 {
		nodes := make([]ast.Node[N], len(tokens))
		for i, t := range tokens {
			n, err := buildLeaf[N](t)
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		return ast.NewParenthesis[N](tokens[0].Pos(), nodes), nil
	}

	i := 0
	group, next := takeLowerGroup(tokens, i, maxArity)
	var result ast.Node[N]
	if len(group) == 0 {
		if _, ok := tokens[i].(token.Decimal); ok {
			result = ast.NewZero[N](tokens[i].Pos())
		} else {
			return nil, calcerr.New(calcerr.SomeOperandsMissing, tokens[i].Pos(), "operand missing before %s", tokens[i].Kind())
		}
	} else {
		n, err := parseLevel[N](group)
		if err != nil {
			return nil, err
		}
		result = n
	}
	i = next

	for i < len(tokens) && tokens[i].Arity() == maxArity {
		pivot := tokens[i]
		i++
		operands := make([]ast.Node[N], maxArity)
		operands[0] = result
		for k := 1; k < maxArity; k++ {
			// An M-ary construct needs M-1 occurrences of the pivot token to
			// separate its M operands (spec.md §4.2's "M comma-separated
			// values need M-1 commas"): the first occurrence was already
			// consumed above, so every operand after the second one must
			// consume another occurrence here first.
			if k > 1 {
				if i >= len(tokens) || tokens[i].Arity() != maxArity {
					return nil, calcerr.New(calcerr.SomeOperandsMissing, pivot.Pos(), "operand missing after %s", pivot.Kind())
				}
				i++
			}
			g, next := takeLowerGroup(tokens, i, maxArity)
			if len(g) == 0 {
				return nil, calcerr.New(calcerr.SomeOperandsMissing, pivot.Pos(), "operand missing after %s", pivot.Kind())
			}
			n, err := parseLevel[N](g)
			if err != nil {
				return nil, err
			}
			operands[k] = n
			i = next
		}
		node, err := buildPivot[N](pivot, operands)
		if err != nil {
			return nil, err
		}
		result = node
	}

	return result, nil
}

// takeLowerGroup returns the longest run starting at i of tokens whose
// arity is strictly less than maxArity, and the index just past it.
func takeLowerGroup(tokens []token.Token, i, maxArity int) ([]token.Token, int) {
	start := i
	for i < len(tokens) && tokens[i].Arity() < maxArity {
		i++
	}
	return tokens[start:i], i
}

// buildLeaf converts a single arity-0 token into its AST node.
func buildLeaf[N numeric.Number](tok token.Token) (ast.Node[N], error) {
	switch t := tok.(type) {
	case token.Argument:
		return ast.NewOperand[N](t.Pos(), t.Index), nil
	case token.Define:
		return ast.NewDefine[N](t.Pos()), nil
	case token.Parenthesis:
		inner, err := parseLevel[N](t.Inner)
		if err != nil {
			return nil, err
		}
		return inner, nil
	case token.UserDefinedOperator:
		return ast.NewUserDefined[N](t.Pos(), t.Def, nil), nil
	case token.LoadVariable:
		return ast.NewLoadVariable[N](t.Pos(), t.Name), nil
	case token.Input:
		return ast.NewInput[N](t.Pos()), nil
	default:
		return nil, calcerr.New(calcerr.UnexpectedToken, tok.Pos(), "unexpected token %s", tok.Kind())
	}
}

// buildPivot converts an operator token together with its already-parsed
// operands into the corresponding AST node.
func buildPivot[N numeric.Number](tok token.Token, operands []ast.Node[N]) (ast.Node[N], error) {
	switch t := tok.(type) {
	case token.Decimal:
		return ast.NewDecimal[N](t.Pos(), operands[0], t.Digit), nil
	case token.BinaryOperator:
		return ast.NewBinary[N](t.Pos(), t.Op, operands[0], operands[1]), nil
	case token.ConditionalOperator:
		return ast.NewConditional[N](t.Pos(), operands[0], operands[1], operands[2]), nil
	case token.UserDefinedOperator:
		return ast.NewUserDefined[N](t.Pos(), t.Def, operands), nil
	case token.StoreVariable:
		return ast.NewStoreVariable[N](t.Pos(), t.Name, operands[0]), nil
	case token.LoadArray:
		return ast.NewLoadArray[N](t.Pos(), operands[0]), nil
	case token.StoreArray:
		return ast.NewStoreArray[N](t.Pos(), operands[0], operands[1]), nil
	case token.PrintChar:
		return ast.NewPrintChar[N](t.Pos(), operands[0]), nil
	default:
		return nil, calcerr.New(calcerr.UnexpectedToken, tok.Pos(), "unexpected operator token %s", tok.Kind())
	}
}
