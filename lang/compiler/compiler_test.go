package compiler_test

import (
	"testing"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calc4"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/machine"
	"github.com/proprowataya/calc4go/lang/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMaxStackSizeIsConsistentAcrossBranches exercises every construct
// whose code generation emits two mutually-exclusive branches (Conditional,
// comparisons, &&/||): a wrong running stack-depth reset would either
// under-count MaxStackSize (risking a real stack overflow going
// undetected) or wildly over-count it. The tree is generated without
// running the optimizer, since constant folding would collapse most of
// these sources to a single literal and emit no branches at all. The
// generator's end-of-function depth check rejects unsound accounting with
// an AssertionError, and each program must then run to the right value.
func TestMaxStackSizeIsConsistentAcrossBranches(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int32
	}{
		{"conditional true arm", "1?2?3", 2},
		{"conditional false arm", "0?2?3", 3},
		{"equal true", "5==5", 1},
		{"equal false", "5==6", 0},
		{"less than", "3<4", 1},
		{"greater than", "4>3", 1},
		{"and both true", "1&&1", 1},
		{"and short circuits", "0&&(1/0)", 0},
		{"or short circuits", "1||(1/0)", 1},
		{"or both false", "0||0", 0},
		{"deeply nested conditional", "1?(2?3?4)?5", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ast.NewContext[int32]()
			tokens, err := calc4.Lex[int32](ctx, tt.src)
			require.NoError(t, err)
			root, err := calc4.Parse[int32](ctx, tokens)
			require.NoError(t, err)
			module, err := calc4.GenerateStackMachineModule[int32](ctx, root, compiler.Options{})
			require.NoError(t, err)

			st := state.New[int32](nil, nil)
			got, err := calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, module.EntryPoint.MaxStackSize, 1)
		})
	}
}

func TestSelfTailCallDoesNotGrowCallStack(t *testing.T) {
	// A loop-style self tail call (an accumulator-passing countdown) must
	// run to completion on a small 1024-entry stack even though its count
	// far exceeds that depth, since a tail call is rewritten into argument
	// stores plus a jump rather than a real Call.
	src := `D[loop|n,acc|n==0?acc?(n-1){loop}(acc+n)]100000{loop}0`
	ctx := ast.NewContext[int32]()
	module, err := calc4.Compile[int32](ctx, src, compiler.Options{})
	require.NoError(t, err)

	st := state.New[int32](nil, nil)
	got, err := calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{StackSize: 1024})
	require.NoError(t, err)
	// The sum 100000*100001/2 = 5000050000 does not fit in int32, so the
	// accumulator wraps; converting the int64 sum to int32 wraps the same way.
	sum := int64(100000) * 100001 / 2
	assert.Equal(t, int32(sum), got)
}

func TestNonTailRecursionCanStackOverflow(t *testing.T) {
	// Unlike the self tail call above, a non-tail recursive call grows the
	// interpreter's call stack by one frame per call, so a sufficiently
	// deep chain must eventually raise StackOverflow rather than corrupt
	// memory or hang.
	src := `D[deep|n|n==0?0?1+(n-1){deep}]10000000{deep}`
	ctx := ast.NewContext[int32]()
	module, err := calc4.Compile[int32](ctx, src, compiler.Options{})
	require.NoError(t, err)

	st := state.New[int32](nil, nil)
	_, err = calc4.ExecuteStackMachineModule[int32](module, st, machine.Options{StackSize: 1024})
	require.Error(t, err)
}
