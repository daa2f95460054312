package parser_test

import (
	"testing"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/lexer"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ast.Node[int32] {
	t.Helper()
	ctx := ast.NewContext[int32]()
	toks, err := lexer.Lex[int32](ctx, src)
	require.NoError(t, err)
	root, err := parser.Parse[int32](ctx, toks)
	require.NoError(t, err)
	return root
}

func TestParseBinaryChainIsLeftAssociative(t *testing.T) {
	root := parse(t, "1+2+3")
	outer, ok := root.(ast.Binary[int32])
	require.True(t, ok)
	inner, ok := outer.LHS.(ast.Binary[int32])
	require.True(t, ok, "left operand of the outermost + must be the (1+2) subtree")
	assert.Equal(t, int8(1), inner.LHS.(ast.Decimal[int32]).Digit)
}

func TestParseDecimalFusionSuppliesSyntheticZero(t *testing.T) {
	root := parse(t, "123")
	d, ok := root.(ast.Decimal[int32])
	require.True(t, ok)
	assert.Equal(t, int8(3), d.Digit)

	inner, ok := d.Operand.(ast.Decimal[int32])
	require.True(t, ok)
	assert.Equal(t, int8(2), inner.Digit)

	innermost, ok := inner.Operand.(ast.Decimal[int32])
	require.True(t, ok)
	assert.Equal(t, int8(1), innermost.Digit)
	_, ok = innermost.Operand.(ast.Zero[int32])
	assert.True(t, ok, "the first digit fuses onto a synthetic Zero")
}

func TestParseChainedTernaryGathersThreeOperandsPerStep(t *testing.T) {
	// "0?1?2?3?4" is two chained ternaries: (0?1?2)?3?4. Each ternary
	// consumes two '?' occurrences to gather its three operands.
	root := parse(t, "0?1?2?3?4")
	outer, ok := root.(ast.Conditional[int32])
	require.True(t, ok)
	assert.Equal(t, int8(3), outer.IfTrue.(ast.Decimal[int32]).Digit)
	assert.Equal(t, int8(4), outer.IfFalse.(ast.Decimal[int32]).Digit)

	inner, ok := outer.Cond.(ast.Conditional[int32])
	require.True(t, ok)
	assert.Equal(t, int8(1), inner.IfTrue.(ast.Decimal[int32]).Digit)
	assert.Equal(t, int8(2), inner.IfFalse.(ast.Decimal[int32]).Digit)
}

func TestParseUserDefinedCallOperandOrder(t *testing.T) {
	// operand0 is the group preceding the pivot, operand1 the group
	// following it: "10{fact}1" calls fact with (10, 1), not (1, 10).
	ctx := ast.NewContext[int32]()
	ctx.Define("fact", &ast.Implement[int32]{Definition: opdef.Definition{Name: "fact", Arity: 2}})
	toks, err := lexer.Lex[int32](ctx, "10{fact}1")
	require.NoError(t, err)
	root, err := parser.Parse[int32](ctx, toks)
	require.NoError(t, err)

	call, ok := root.(ast.UserDefined[int32])
	require.True(t, ok)
	require.Len(t, call.Operands, 2)

	tens, ok := call.Operands[0].(ast.Decimal[int32])
	require.True(t, ok)
	assert.Equal(t, int8(0), tens.Digit)
	_, ok = tens.Operand.(ast.Decimal[int32])
	require.True(t, ok, "operand0 fuses into the two-digit literal 10")

	ones, ok := call.Operands[1].(ast.Decimal[int32])
	require.True(t, ok)
	assert.Equal(t, int8(1), ones.Digit)
	_, ok = ones.Operand.(ast.Zero[int32])
	assert.True(t, ok)
}

func TestParseMissingOperandAfterPivotFails(t *testing.T) {
	ctx := ast.NewContext[int32]()
	toks, err := lexer.Lex[int32](ctx, "1+")
	require.NoError(t, err)
	_, err = parser.Parse[int32](ctx, toks)
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.SomeOperandsMissing, cerr.Kind)
}

func TestParseMissingSecondPivotOccurrenceFails(t *testing.T) {
	// A ternary needs two '?' occurrences; only one leaves the third
	// operand ungathered.
	ctx := ast.NewContext[int32]()
	toks, err := lexer.Lex[int32](ctx, "1?2")
	require.NoError(t, err)
	_, err = parser.Parse[int32](ctx, toks)
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.SomeOperandsMissing, cerr.Kind)
}

func TestParseEmptyTokensFails(t *testing.T) {
	ctx := ast.NewContext[int32]()
	_, err := parser.Parse[int32](ctx, nil)
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.CodeIsEmpty, cerr.Kind)
}
