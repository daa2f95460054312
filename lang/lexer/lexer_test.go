package lexer_test

import (
	"testing"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/lexer"
	"github.com/proprowataya/calc4go/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexArithmetic(t *testing.T) {
	toks, err := lexer.Lex[int32](ast.NewContext[int32](), "1+2")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.KindDecimal, toks[0].Kind())
	assert.Equal(t, token.KindBinaryOperator, toks[1].Kind())
	assert.Equal(t, token.Add, toks[1].(token.BinaryOperator).Op)
	assert.Equal(t, token.KindDecimal, toks[2].Kind())
}

func TestLexDecimalFusion(t *testing.T) {
	toks, err := lexer.Lex[int32](ast.NewContext[int32](), "123")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.KindDecimal, tok.Kind())
	}
	assert.Equal(t, int8(1), toks[0].(token.Decimal).Digit)
	assert.Equal(t, int8(2), toks[1].(token.Decimal).Digit)
	assert.Equal(t, int8(3), toks[2].(token.Decimal).Digit)
}

func TestLexDefineRegistersOperatorForRecursiveReference(t *testing.T) {
	ctx := ast.NewContext[int32]()
	toks, err := lexer.Lex[int32](ctx, "D[fact|x,y|x==0?y?(x-1){fact}(x*y)]10{fact}1")
	require.NoError(t, err)

	def, ok := toks[0].(token.Define)
	require.True(t, ok)
	assert.Equal(t, "fact", def.Name)
	assert.Equal(t, []string{"x", "y"}, def.Args)
	assert.NotEmpty(t, def.Inner)

	// the trailing "10{fact}1" lexes as Decimal('1'), Decimal('0'),
	// UserDefinedOperator, Decimal('1') — decimal fusion happens at parse
	// time, not lex time.
	require.Len(t, toks, 5)
	assert.Equal(t, token.KindDecimal, toks[1].Kind())
	assert.Equal(t, token.KindDecimal, toks[2].Kind())
	assert.Equal(t, token.KindUserDefinedOperator, toks[3].Kind())
	assert.Equal(t, token.KindDecimal, toks[4].Kind())
}

func TestLexBraceReferenceResolvesMultiCharName(t *testing.T) {
	ctx := ast.NewContext[int32]()
	ctx.Define("fact", &ast.Implement[int32]{})
	toks, err := lexer.Lex[int32](ctx, "{fact}")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, token.KindUserDefinedOperator, toks[0].Kind())
}

func TestLexBareMultiCharNameFailsOnFirstUndefinedByte(t *testing.T) {
	// Without braces, a bare run of letters is NOT a multi-character
	// identifier: each byte resolves independently, so an undefined name
	// like "fact" fails on its first unresolved letter.
	_, err := lexer.Lex[int32](ast.NewContext[int32](), "fact")
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.OperatorOrOperandNotDefined, cerr.Kind)
}

func TestLexUndefinedNameFails(t *testing.T) {
	_, err := lexer.Lex[int32](ast.NewContext[int32](), "z")
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.OperatorOrOperandNotDefined, cerr.Kind)
}

func TestLexEmptySourceFails(t *testing.T) {
	_, err := lexer.Lex[int32](ast.NewContext[int32](), "")
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.CodeIsEmpty, cerr.Kind)
}

func TestLexUnmatchedParenFails(t *testing.T) {
	_, err := lexer.Lex[int32](ast.NewContext[int32](), ")")
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok)
	assert.Equal(t, calcerr.UnexpectedToken, cerr.Kind)
}

func TestLexCommentsAreStripped(t *testing.T) {
	toks, err := lexer.Lex[int32](ast.NewContext[int32](), "1 /* skip */ + // trailing\n2")
	require.NoError(t, err)
	require.Len(t, toks, 3)
}

func TestLexLoadStoreVariable(t *testing.T) {
	toks, err := lexer.Lex[int32](ast.NewContext[int32](), "S[x]L[x]")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	store, ok := toks[0].(token.StoreVariable)
	require.True(t, ok)
	assert.Equal(t, "x", store.Name)
	load, ok := toks[1].(token.LoadVariable)
	require.True(t, ok)
	assert.Equal(t, "x", load.Name)
}
