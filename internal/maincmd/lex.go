package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/lexer"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/token"
)

// Lex implements the "lex" subcommand: tokenize a source file and print
// the resulting tokens, one per line, recursing into Define bodies and
// Parenthesis groups since those carry their own nested token sequences
// (spec.md §4.1).
func (c *Cmd) Lex(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := readSource(ctx, stdio, args[0])
	if err != nil {
		return printError(stdio, err)
	}
	if c.Int64 {
		return printError(stdio, lexAndPrint[int64](stdio, src))
	}
	return printError(stdio, lexAndPrint[int32](stdio, src))
}

func lexAndPrint[N numeric.Number](stdio mainer.Stdio, src string) error {
	tokens, err := lexer.Lex[N](ast.NewContext[N](), src)
	printTokens(stdio, tokens, 0)
	return err
}

func printTokens(stdio mainer.Stdio, tokens []token.Token, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, tok := range tokens {
		fmt.Fprintf(stdio.Stdout, "%s%s: %s\n", indent, tok.Pos(), formatToken(tok))
		switch t := tok.(type) {
		case token.Define:
			printTokens(stdio, t.Inner, depth+1)
		case token.Parenthesis:
			printTokens(stdio, t.Inner, depth+1)
		}
	}
}

func formatToken(tok token.Token) string {
	switch t := tok.(type) {
	case token.BinaryOperator:
		return fmt.Sprintf("%s %s", tok.Kind(), t.Op)
	case token.Decimal:
		return fmt.Sprintf("%s %d", tok.Kind(), t.Digit)
	case token.Argument:
		return fmt.Sprintf("%s %d", tok.Kind(), t.Index)
	case token.Define:
		return fmt.Sprintf("%s %s(%d args)", tok.Kind(), t.Name, len(t.Args))
	case token.UserDefinedOperator:
		return fmt.Sprintf("%s %s", tok.Kind(), t.Def)
	case token.LoadVariable:
		return fmt.Sprintf("%s %q", tok.Kind(), t.Name)
	case token.StoreVariable:
		return fmt.Sprintf("%s %q", tok.Kind(), t.Name)
	default:
		return tok.Kind().String()
	}
}
