// Package calc4 wires together lang/lexer, lang/parser, lang/optimizer,
// lang/compiler and lang/machine into the handful of entry points spec.md
// §6.2 names for an embedding host: Lex, Parse, Optimize,
// GenerateStackMachineModule and ExecuteStackMachineModule, plus a Compile
// convenience that chains lexing through code generation (it does not
// execute the module).
package calc4

import (
	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/compiler"
	"github.com/proprowataya/calc4go/lang/lexer"
	"github.com/proprowataya/calc4go/lang/machine"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/optimizer"
	"github.com/proprowataya/calc4go/lang/parser"
	"github.com/proprowataya/calc4go/lang/state"
	"github.com/proprowataya/calc4go/lang/token"
)

// Lex tokenizes src against ctx (spec.md §6.2).
func Lex[N numeric.Number](ctx *ast.Context[N], src string) ([]token.Token, error) {
	return lexer.Lex[N](ctx, src)
}

// Parse builds the AST for tokens against ctx (spec.md §6.2).
func Parse[N numeric.Number](ctx *ast.Context[N], tokens []token.Token) (ast.Node[N], error) {
	return parser.Parse[N](ctx, tokens)
}

// Optimize runs constant folding and tail-call marking over root and every
// operator body registered in ctx (spec.md §6.2).
func Optimize[N numeric.Number](ctx *ast.Context[N], root ast.Node[N]) ast.Node[N] {
	return optimizer.Optimize[N](ctx, root)
}

// GenerateStackMachineModule lowers root and ctx's operators into bytecode
// (spec.md §6.2).
func GenerateStackMachineModule[N numeric.Number](ctx *ast.Context[N], root ast.Node[N], opts compiler.Options) (*compiler.Module[N], error) {
	return compiler.Generate[N](ctx, root, opts)
}

// ExecuteStackMachineModule runs module against st (spec.md §6.2).
func ExecuteStackMachineModule[N numeric.Number](module *compiler.Module[N], st *state.State[N], opts machine.Options) (N, error) {
	return machine.Execute[N](module, st, opts)
}

// Compile lexes, parses, optimizes and generates bytecode for src in one
// call (spec.md §7's staged-copy propagation policy): ctx is cloned before
// lexing and parsing, so a failure at any stage leaves the caller's ctx
// completely untouched; only a fully successful compile adopts the staged
// clone as ctx's new contents.
func Compile[N numeric.Number](ctx *ast.Context[N], src string, opts compiler.Options) (*compiler.Module[N], error) {
	staged := ctx.Clone()

	tokens, err := Lex[N](staged, src)
	if err != nil {
		return nil, err
	}
	root, err := Parse[N](staged, tokens)
	if err != nil {
		return nil, err
	}
	root = Optimize[N](staged, root)
	module, err := GenerateStackMachineModule[N](staged, root, opts)
	if err != nil {
		return nil, err
	}

	*ctx = *staged
	return module, nil
}
