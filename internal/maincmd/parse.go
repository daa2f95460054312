package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/lexer"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/parser"
)

// Parse implements the "parse" subcommand: lex and parse a source file,
// printing the resulting AST (and, for every user-defined operator the
// entry point reaches, its body once).
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(ctx, stdio, args[0])
	if err != nil {
		return printError(stdio, err)
	}
	if c.Int64 {
		return printError(stdio, parseAndPrint[int64](stdio, src))
	}
	return printError(stdio, parseAndPrint[int32](stdio, src))
}

func parseAndPrint[N numeric.Number](stdio mainer.Stdio, src string) error {
	actx := ast.NewContext[N]()
	tokens, err := lexer.Lex[N](actx, src)
	if err != nil {
		return err
	}
	root, err := parser.Parse[N](actx, tokens)
	if err != nil {
		return err
	}
	printNode[N](stdio.Stdout, actx, root, 0, make(map[string]bool))
	return nil
}
