package calc4_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calc4"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/evaluator"
	"github.com/proprowataya/calc4go/lang/machine"
	"github.com/proprowataya/calc4go/lang/optimizer"
	"github.com/proprowataya/calc4go/lang/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fact = `D[fact|x,y|x==0?y?(x-1){fact}(x*y)]10{fact}1`
const fib = `D[fib|n|n<=1?n?(n-1){fib}+(n-2){fib}]10{fib}`

func TestEndToEnd(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int32
	}{
		{name: "arithmetic", src: "1+2*3-10", want: -1},
		{name: "big literal", src: "12345678", want: 12345678},
		{name: "nested conditional", src: "0?1?2?3?4", want: 3},
		{name: "factorial", src: fact, want: 3628800},
		{name: "fibonacci", src: fib, want: 55},
		{name: "logical and true", src: "1&&2?3?4", want: 3},
		{name: "logical and short circuit", src: "0&&(1/0)?1?2", want: 2},
		{name: "input eof", src: "I", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := run(t, tt.src, strings.NewReader(""))
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestInputReadsStdin(t *testing.T) {
	result := run(t, "I", strings.NewReader("A"))
	assert.Equal(t, int32(65), result)
}

func TestPrintCharWritesOutput(t *testing.T) {
	src := `72P101P108P108P111P10P`
	var out bytes.Buffer
	ctx := ast.NewContext[int32]()
	module, err := calc4.Compile[int32](ctx, src, compiler.Options{})
	require.NoError(t, err)
	st := state.New[int32](strings.NewReader(""), &out)
	result, err := calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), result)
	assert.Equal(t, "Hello\n", out.String())
}

func TestZeroDivisionChecked(t *testing.T) {
	ctx := ast.NewContext[int32]()
	module, err := calc4.Compile[int32](ctx, "1/0", compiler.Options{CheckZeroDivision: true})
	require.NoError(t, err)
	st := state.New[int32](nil, nil)
	_, err = calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{})
	require.Error(t, err)
	cerr, ok := err.(*calcerr.Error)
	require.True(t, ok, "expected *calcerr.Error, got %T", err)
	assert.Equal(t, calcerr.ZeroDivision, cerr.Kind)
}

func TestEvaluatorMatchesMachine(t *testing.T) {
	srcs := []string{"1+2*3-10", "0?1?2?3?4", fib, "1&&2?3?4", "0&&(1/0)?1?2"}
	for _, src := range srcs {
		src := src
		t.Run(src, func(t *testing.T) {
			wantFromMachine := run(t, src, strings.NewReader(""))

			ctx := ast.NewContext[int32]()
			tokens, err := calc4.Lex[int32](ctx, src)
			require.NoError(t, err)
			root, err := calc4.Parse[int32](ctx, tokens)
			require.NoError(t, err)
			root = calc4.Optimize[int32](ctx, root)

			st := state.New[int32](nil, nil)
			got, err := evaluator.Evaluate[int32](ctx, root, st)
			require.NoError(t, err)
			assert.Equal(t, wantFromMachine, got)
		})
	}
}

func TestOptimizeFoldsConstants(t *testing.T) {
	ctx := ast.NewContext[int32]()
	tokens, err := calc4.Lex[int32](ctx, "1+2*3")
	require.NoError(t, err)
	root, err := calc4.Parse[int32](ctx, tokens)
	require.NoError(t, err)

	folded := optimizer.Precompute[int32](root)
	p, ok := folded.(ast.Precomputed[int32])
	require.True(t, ok, "expected constant folding to produce a Precomputed node, got %T", folded)
	// + and * are both binary (arity 2), so they tie and chain
	// left-to-right: (1+2)*3, not standard-math precedence.
	assert.Equal(t, int32(9), p.Value)
}

func run(t *testing.T, src string, stdin *strings.Reader) int32 {
	t.Helper()
	ctx := ast.NewContext[int32]()
	module, err := calc4.Compile[int32](ctx, src, compiler.Options{})
	require.NoError(t, err)
	st := state.New[int32](stdin, nil)
	result, err := calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{})
	require.NoError(t, err)
	return result
}
