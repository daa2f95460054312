// Package maincmd implements the calc4 CLI's subcommand dispatch, grounded
// on the teacher's internal/maincmd: a single Cmd struct driven by
// github.com/mna/mainer, one exported method per subcommand, looked up by
// name through reflection rather than a hand-written switch.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "calc4"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and interpreter for the Calc4 toy language (spec.md).

The <command> can be one of:
       lex <src>                 Tokenize <src> and print the resulting
                                 tokens.
       parse <src>               Parse <src> and print the resulting
                                 abstract syntax tree.
       run <src>                 Lex, parse, optimize, compile and run
                                 <src> on the stack machine, printing its
                                 result.
       repl                      Start an interactive read-eval-print
                                 loop, keeping one compilation context
                                 (and one execution state) alive across
                                 lines.

<src> is a file path, or "-" to read the program from stdin.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --int64                   Use a 64-bit number type instead of the
                                 default 32-bit one.
       --check-zero-division     Raise Calc4's own ZeroDivision error
                                 instead of relying on the host's native
                                 division-by-zero behavior.
       --stack-size <n>          Value/call stack capacity, in elements
                                 (0 selects the interpreter's default).
`, binName)
)

// Cmd is the calc4 CLI's flag and subcommand holder, parsed by
// mainer.Parser and dispatched to one of the methods below.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Int64             bool `flag:"int64"`
	CheckZeroDivision bool `flag:"check-zero-division"`
	StackSize         int  `flag:"stack-size"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if (cmdName == "lex" || cmdName == "parse" || cmdName == "run") && len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one <src> argument is required", cmdName)
	}
	if cmdName == "repl" && len(c.args[1:]) != 0 {
		return fmt.Errorf("repl: takes no arguments")
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds collects every method on v shaped like a subcommand handler:
// func(context.Context, mainer.Stdio, []string) error.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}
