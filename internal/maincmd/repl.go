package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/mna/mainer"
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calc4"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/evaluator"
	"github.com/proprowataya/calc4go/lang/machine"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/state"
)

// Repl implements the "repl" subcommand. Unlike lex/parse/run, which each
// compile a whole, self-contained source, the REPL keeps a single
// ast.Context and a single state.State alive across lines (the original
// implementation's REPL does the same, keeping one CompilationContext for
// the whole session — see SPEC_FULL.md's supplemented features): a line
// defining an operator makes it available to every later line, and a
// variable or array write persists across lines too.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	copts := compiler.Options{CheckZeroDivision: c.CheckZeroDivision}
	mopts := machine.Options{StackSize: c.StackSize}

	if c.Int64 {
		return printError(stdio, runRepl[int64](stdio, copts, mopts))
	}
	return printError(stdio, runRepl[int32](stdio, copts, mopts))
}

func runRepl[N numeric.Number](stdio mainer.Stdio, copts compiler.Options, mopts machine.Options) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "calc4> ",
		Stdin:       io.NopCloser(stdio.Stdin),
		Stdout:      stdio.Stdout,
		Stderr:      stdio.Stderr,
		HistoryFile: "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	actx := ast.NewContext[N]()
	st := state.New[N](stdio.Stdin, stdio.Stdout)

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		result, err := evalLine[N](actx, line, st, copts, mopts)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		fmt.Fprintf(stdio.Stdout, "%v\n", result)
	}
}

// evalLine compiles and runs one REPL line, adopting actx's staged clone
// only on success (the same staged-copy policy as calc4.Compile). Lines
// whose call graph contains no user-defined-operator self-recursion run
// directly on the tree evaluator, which is cheaper than generating and
// loading bytecode for a single line; recursive lines fall back to the
// stack machine, since the evaluator performs no tail-call optimization
// of its own (spec.md §4.6) and would risk overflowing the Go stack.
func evalLine[N numeric.Number](actx *ast.Context[N], line string, st *state.State[N], copts compiler.Options, mopts machine.Options) (N, error) {
	staged := actx.Clone()

	tokens, err := calc4.Lex[N](staged, line)
	if err != nil {
		return 0, err
	}
	root, err := calc4.Parse[N](staged, tokens)
	if err != nil {
		return 0, err
	}
	root = calc4.Optimize[N](staged, root)

	if containsRecursiveCall[N](staged, root) {
		module, err := calc4.GenerateStackMachineModule[N](staged, root, copts)
		if err != nil {
			return 0, err
		}
		result, err := calc4.ExecuteStackMachineModule[N](module, st, mopts)
		if err != nil {
			return 0, err
		}
		*actx = *staged
		return result, nil
	}

	result, err := evaluator.Evaluate[N](staged, root, st)
	if err != nil {
		return 0, err
	}
	*actx = *staged
	return result, nil
}

// containsRecursiveCall reports whether n calls (directly, or transitively
// through an operator it invokes) any operator that can reach itself,
// which is the condition evalLine uses to pick the stack machine over the
// tree evaluator.
func containsRecursiveCall[N numeric.Number](ctx *ast.Context[N], n ast.Node[N]) bool {
	switch t := n.(type) {
	case ast.UserDefined[N]:
		if evaluator.HasRecursiveCall[N](ctx, t.Def) {
			return true
		}
		// t.Def cannot reach itself, so descending into its body terminates.
		if im, ok := ctx.Lookup(t.Def.Name); ok && im.Body != nil && containsRecursiveCall(ctx, im.Body) {
			return true
		}
		for _, op := range t.Operands {
			if containsRecursiveCall(ctx, op) {
				return true
			}
		}
		return false
	case ast.StoreVariable[N]:
		return containsRecursiveCall(ctx, t.Value)
	case ast.LoadArray[N]:
		return containsRecursiveCall(ctx, t.Index)
	case ast.StoreArray[N]:
		return containsRecursiveCall(ctx, t.Value) || containsRecursiveCall(ctx, t.Index)
	case ast.PrintChar[N]:
		return containsRecursiveCall(ctx, t.Operand)
	case ast.Decimal[N]:
		return containsRecursiveCall(ctx, t.Operand)
	case ast.Parenthesis[N]:
		for _, c := range t.Children {
			if containsRecursiveCall(ctx, c) {
				return true
			}
		}
		return false
	case ast.Binary[N]:
		return containsRecursiveCall(ctx, t.LHS) || containsRecursiveCall(ctx, t.RHS)
	case ast.Conditional[N]:
		return containsRecursiveCall(ctx, t.Cond) || containsRecursiveCall(ctx, t.IfTrue) || containsRecursiveCall(ctx, t.IfFalse)
	default:
		return false
	}
}
