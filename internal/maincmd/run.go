package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calc4"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/machine"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/state"
)

// Run implements the "run" subcommand: compile a source file to stack
// machine bytecode and execute it, printing the entry point's resulting
// value. Stdin/stdout back the program's Input/PrintChar operators.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(ctx, stdio, args[0])
	if err != nil {
		return printError(stdio, err)
	}

	copts := compiler.Options{CheckZeroDivision: c.CheckZeroDivision}
	mopts := machine.Options{StackSize: c.StackSize}

	if c.Int64 {
		return printError(stdio, runSource[int64](stdio, src, copts, mopts))
	}
	return printError(stdio, runSource[int32](stdio, src, copts, mopts))
}

func runSource[N numeric.Number](stdio mainer.Stdio, src string, copts compiler.Options, mopts machine.Options) error {
	actx := ast.NewContext[N]()
	module, err := calc4.Compile[N](actx, src, copts)
	if err != nil {
		return err
	}
	st := state.New[N](stdio.Stdin, stdio.Stdout)
	result, err := calc4.ExecuteStackMachineModule[N](module, st, mopts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "%v\n", result)
	return nil
}
