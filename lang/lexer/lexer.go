// Package lexer converts Calc4 source text into a sequence of tokens
// (spec.md §4.1). The lexer is the owner of two-phase operator
// registration: when it sees a `D[name|args|body]`, it registers a
// placeholder implement in the compilation context before lexing the
// body, so a recursive reference to the operator being defined resolves
// while lexing its own body, and it hands the body's own token sequence
// to the Define token for lang/parser to parse later.
package lexer

import (
	"strings"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/proprowataya/calc4go/lang/token"
)

// Lex tokenizes src against ctx, registering placeholder implements for
// every `D[...]` encountered along the way. ctx is mutated directly; per
// spec.md §7's staged-copy propagation policy, callers that need the
// "leave the original context unmodified on failure" guarantee should
// call Lex on a Clone() and only adopt it once the whole compile pipeline
// (lex, then parse) succeeds — see lang/calc4.Compile.
func Lex[N numeric.Number](ctx *ast.Context[N], src string) ([]token.Token, error) {
	l := &lexer[N]{src: []byte(src), line: 1, col: 1, ctx: ctx}
	toks, err := l.lexSequence(0)
	if err != nil {
		return nil, err
	}
	if l.off < len(l.src) {
		return nil, calcerr.New(calcerr.UnexpectedToken, l.pos(), "unexpected token %q", string(l.cur()))
	}
	if len(toks) == 0 {
		return nil, calcerr.New(calcerr.CodeIsEmpty, token.Position{Line: 1, Column: 1}, "code is empty")
	}
	return toks, nil
}

type lexer[N numeric.Number] struct {
	src  []byte
	off  int
	line int
	col  int
	ctx  *ast.Context[N]
	args []string // argument names in scope for the innermost enclosing D[...] body
}

func (l *lexer[N]) pos() token.Position {
	return token.Position{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer[N]) cur() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer[N]) peek() byte {
	if l.off+1 >= len(l.src) {
		return 0
	}
	return l.src[l.off+1]
}

func (l *lexer[N]) advance() {
	if l.off >= len(l.src) {
		return
	}
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *lexer[N]) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// skipTrivia skips whitespace, `//` line comments and `/* ... */` block
// comments (non-nesting: the first `*/` closes the comment, spec.md §4.1,
// §9).
func (l *lexer[N]) skipTrivia() {
	for {
		switch {
		case l.off >= len(l.src):
			return
		case isSpace(l.cur()):
			l.advance()
		case l.cur() == '/' && l.peek() == '/':
			for l.off < len(l.src) && l.cur() != '\n' {
				l.advance()
			}
		case l.cur() == '/' && l.peek() == '*':
			l.advanceN(2)
			for {
				if l.off >= len(l.src) {
					return // unterminated; caller will hit EOF / report elsewhere
				}
				if l.cur() == '*' && l.peek() == '/' {
					l.advanceN(2)
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// lexSequence lexes tokens until EOF (closer == 0) or until the closer
// byte is seen at depth 0 (consuming it), per spec.md §4.1's Parenthesis
// rule. At top level (closer == 0), an unmatched ')' is not consumed:
// lexSequence simply stops, leaving Lex to report UnexpectedToken for the
// leftover input.
func (l *lexer[N]) lexSequence(closer byte) ([]token.Token, error) {
	var toks []token.Token
	for {
		l.skipTrivia()
		if l.off >= len(l.src) {
			if closer != 0 {
				return nil, calcerr.New(calcerr.TokenExpected, l.pos(), "missing closing ')'")
			}
			return toks, nil
		}
		if closer != 0 && l.cur() == closer {
			l.advance()
			return toks, nil
		}
		if closer == 0 && l.cur() == ')' {
			return toks, nil
		}
		tok, err := l.lexOne()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// readBalancedBrackets consumes a leading '[' and returns the raw text up
// to its matching ']', tracking bracket depth so that a `D[...]` body
// containing its own `[...]` supplements (nested D, L[name], etc.) is
// captured whole (spec.md §4.1).
func (l *lexer[N]) readBalancedBrackets() (string, error) {
	startPos := l.pos()
	l.advance() // consume '['
	depth := 1
	start := l.off
	for {
		if l.off >= len(l.src) {
			return "", calcerr.New(calcerr.TokenExpected, startPos, "missing closing ']'")
		}
		switch l.cur() {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				content := string(l.src[start:l.off])
				l.advance() // consume ']'
				return content, nil
			}
		}
		l.advance()
	}
}

// readSimpleBracket consumes an optional leading '[' ... ']' where the
// content may not itself contain ']' (spec.md §6.1's `suppl` production).
// It returns ("", false, nil) if no '[' follows.
func (l *lexer[N]) readSimpleBracket() (string, bool, error) {
	if l.cur() != '[' {
		return "", false, nil
	}
	startPos := l.pos()
	l.advance()
	start := l.off
	for {
		if l.off >= len(l.src) {
			return "", false, calcerr.New(calcerr.TokenExpected, startPos, "missing closing ']'")
		}
		if l.cur() == ']' {
			content := string(l.src[start:l.off])
			l.advance()
			return content, true, nil
		}
		l.advance()
	}
}

// splitTopLevel splits s on '|' characters that are not nested inside a
// '[' ... ']' span, so a nested D[...]'s own '|' separators do not get
// mistaken for the outer definition's separators (spec.md §4.1).
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// resolveName looks up name as a user-defined operator first, then as an
// argument in the current scope, failing with
// OperatorOrOperandNotDefined otherwise (spec.md §4.1).
func (l *lexer[N]) resolveName(pos token.Position, name string) (token.Token, error) {
	if im, ok := l.ctx.Lookup(name); ok {
		return token.NewUserDefinedOperator(pos, im.Definition), nil
	}
	for i, a := range l.args {
		if a == name {
			return token.NewArgument(pos, i), nil
		}
	}
	return nil, calcerr.New(calcerr.OperatorOrOperandNotDefined, pos, "operator or operand %q is not defined", name)
}

func (l *lexer[N]) lexOne() (token.Token, error) {
	pos := l.pos()
	c := l.cur()

	switch {
	case c == 'D':
		l.advance()
		return l.lexDefine(pos)

	case isDigit(c):
		l.advance()
		tok := token.NewDecimal(pos, int8(c-'0'))
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == '{':
		return l.lexBraced(pos)

	case c == '(':
		l.advance()
		inner, err := l.lexSequence(')')
		if err != nil {
			return nil, err
		}
		tok := token.NewParenthesis(pos, inner)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == '=' && l.peek() == '=':
		l.advanceN(2)
		return l.finishBinary(pos, token.Equal)
	case c == '!' && l.peek() == '=':
		l.advanceN(2)
		return l.finishBinary(pos, token.NotEqual)
	case c == '<' && l.peek() == '=':
		l.advanceN(2)
		return l.finishBinary(pos, token.LessThanOrEqual)
	case c == '>' && l.peek() == '=':
		l.advanceN(2)
		return l.finishBinary(pos, token.GreaterThanOrEqual)
	case c == '&' && l.peek() == '&':
		l.advanceN(2)
		return l.finishBinary(pos, token.LogicalAnd)
	case c == '|' && l.peek() == '|':
		l.advanceN(2)
		return l.finishBinary(pos, token.LogicalOr)
	case c == '-' && l.peek() == '>':
		l.advanceN(2)
		tok := token.NewStoreArray(pos)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == '+':
		l.advance()
		return l.finishBinary(pos, token.Add)
	case c == '-':
		l.advance()
		return l.finishBinary(pos, token.Sub)
	case c == '*':
		l.advance()
		return l.finishBinary(pos, token.Mult)
	case c == '/':
		l.advance()
		return l.finishBinary(pos, token.Div)
	case c == '%':
		l.advance()
		return l.finishBinary(pos, token.Mod)
	case c == '<':
		l.advance()
		return l.finishBinary(pos, token.LessThan)
	case c == '>':
		l.advance()
		return l.finishBinary(pos, token.GreaterThan)

	case c == '?':
		l.advance()
		tok := token.NewConditionalOperator(pos)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == 'P':
		l.advance()
		tok := token.NewPrintChar(pos)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == 'I':
		l.advance()
		tok := token.NewInput(pos)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	case c == 'S':
		l.advance()
		name, _, err := l.readSimpleBracket()
		if err != nil {
			return nil, err
		}
		return token.NewStoreVariable(pos, name), nil

	case c == 'L':
		l.advance()
		name, _, err := l.readSimpleBracket()
		if err != nil {
			return nil, err
		}
		return token.NewLoadVariable(pos, name), nil

	case c == '@':
		l.advance()
		tok := token.NewLoadArray(pos)
		if _, _, err := l.readSimpleBracket(); err != nil {
			return nil, err
		}
		return tok, nil

	default:
		l.advance()
		return l.resolveName(pos, string(c))
	}
}

func (l *lexer[N]) finishBinary(pos token.Position, op token.BinaryOp) (token.Token, error) {
	tok := token.NewBinaryOperator(pos, op)
	if _, _, err := l.readSimpleBracket(); err != nil {
		return nil, err
	}
	return tok, nil
}

// lexBraced handles `{name}`, resolving it to a UserDefinedOperator or
// Argument token (spec.md §4.1).
func (l *lexer[N]) lexBraced(pos token.Position) (token.Token, error) {
	l.advance() // consume '{'
	start := l.off
	for l.off < len(l.src) && l.cur() != '}' {
		l.advance()
	}
	if l.off >= len(l.src) {
		return nil, calcerr.New(calcerr.TokenExpected, pos, "missing closing '}'")
	}
	name := string(l.src[start:l.off])
	l.advance() // consume '}'

	tok, err := l.resolveName(pos, name)
	if err != nil {
		return nil, err
	}
	if _, _, err := l.readSimpleBracket(); err != nil {
		return nil, err
	}
	return tok, nil
}

// lexDefine handles `D[name|args|body]` (spec.md §4.1): it registers a
// placeholder implement before lexing body so the body may reference
// itself, then lexes body with args bound as the operand scope.
func (l *lexer[N]) lexDefine(pos token.Position) (token.Token, error) {
	if l.cur() != '[' {
		return nil, calcerr.New(calcerr.TokenExpected, l.pos(), "expected '[' after 'D'")
	}
	raw, err := l.readBalancedBrackets()
	if err != nil {
		return nil, err
	}

	parts := splitTopLevel(raw)
	if len(parts) != 3 {
		return nil, calcerr.New(calcerr.DefinitionTextNotSplittedProperly, pos,
			"definition text must have exactly 3 '|'-separated parts, got %d", len(parts))
	}

	name := strings.TrimSpace(parts[0])
	var args []string
	if trimmedArgs := strings.TrimSpace(parts[1]); trimmedArgs != "" {
		for _, a := range strings.Split(trimmedArgs, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}
	bodySrc := parts[2]

	def := opdef.Definition{Name: name, Arity: len(args)}
	l.ctx.Define(name, &ast.Implement[N]{Definition: def})

	savedArgs := l.args
	l.args = args
	inner, bodyErr := lexBody[N](l.ctx, l.args, bodySrc)
	l.args = savedArgs
	if bodyErr != nil {
		return nil, bodyErr
	}

	return token.NewDefine(pos, name, args, inner), nil
}

// lexBody lexes a D[...] body as its own self-contained token stream.
// Positions reported for errors within the body are relative to the
// start of the body text itself rather than the enclosing file (a
// deliberate simplification documented in DESIGN.md: spec.md's testable
// properties never assert on exact line/column values, only on error
// Kind).
func lexBody[N numeric.Number](ctx *ast.Context[N], args []string, src string) ([]token.Token, error) {
	l := &lexer[N]{src: []byte(src), line: 1, col: 1, ctx: ctx, args: args}
	toks, err := l.lexSequence(0)
	if err != nil {
		return nil, err
	}
	if l.off < len(l.src) {
		return nil, calcerr.New(calcerr.UnexpectedToken, l.pos(), "unexpected token %q", string(l.cur()))
	}
	return toks, nil
}
