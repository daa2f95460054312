package maincmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/proprowataya/calc4go/lang/ast"
	"github.com/proprowataya/calc4go/lang/numeric"
)

// printNode writes an indented tree representation of n to w, following
// every user-defined operator's body once (guarded by printed, so mutually
// recursive definitions terminate) so a single "parse" run shows the whole
// program, the same scope the teacher's ast.Printer gives a parsed chunk.
func printNode[N numeric.Number](w io.Writer, ctx *ast.Context[N], n ast.Node[N], depth int, printed map[string]bool) {
	indent := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case ast.Zero[N]:
		fmt.Fprintf(w, "%sZero\n", indent)
	case ast.Precomputed[N]:
		fmt.Fprintf(w, "%sPrecomputed %v\n", indent, t.Value)
	case ast.Operand[N]:
		fmt.Fprintf(w, "%sOperand %d\n", indent, t.Index)
	case ast.Define[N]:
		fmt.Fprintf(w, "%sDefine\n", indent)
	case ast.LoadVariable[N]:
		fmt.Fprintf(w, "%sLoadVariable %q\n", indent, t.Name)
	case ast.StoreVariable[N]:
		fmt.Fprintf(w, "%sStoreVariable %q\n", indent, t.Name)
		printNode(w, ctx, t.Value, depth+1, printed)
	case ast.LoadArray[N]:
		fmt.Fprintf(w, "%sLoadArray\n", indent)
		printNode(w, ctx, t.Index, depth+1, printed)
	case ast.StoreArray[N]:
		fmt.Fprintf(w, "%sStoreArray\n", indent)
		printNode(w, ctx, t.Value, depth+1, printed)
		printNode(w, ctx, t.Index, depth+1, printed)
	case ast.PrintChar[N]:
		fmt.Fprintf(w, "%sPrintChar\n", indent)
		printNode(w, ctx, t.Operand, depth+1, printed)
	case ast.Input[N]:
		fmt.Fprintf(w, "%sInput\n", indent)
	case ast.Decimal[N]:
		fmt.Fprintf(w, "%sDecimal %d\n", indent, t.Digit)
		printNode(w, ctx, t.Operand, depth+1, printed)
	case ast.Parenthesis[N]:
		fmt.Fprintf(w, "%sParenthesis\n", indent)
		for _, c := range t.Children {
			printNode(w, ctx, c, depth+1, printed)
		}
	case ast.Binary[N]:
		fmt.Fprintf(w, "%sBinary %s\n", indent, t.Op)
		printNode(w, ctx, t.LHS, depth+1, printed)
		printNode(w, ctx, t.RHS, depth+1, printed)
	case ast.Conditional[N]:
		fmt.Fprintf(w, "%sConditional\n", indent)
		printNode(w, ctx, t.Cond, depth+1, printed)
		printNode(w, ctx, t.IfTrue, depth+1, printed)
		printNode(w, ctx, t.IfFalse, depth+1, printed)
	case ast.UserDefined[N]:
		tail := ""
		if t.IsTailCall != nil && *t.IsTailCall {
			tail = " (tail call)"
		}
		fmt.Fprintf(w, "%sUserDefined %s%s\n", indent, t.Def, tail)
		for _, op := range t.Operands {
			printNode(w, ctx, op, depth+1, printed)
		}
		if im, ok := ctx.Lookup(t.Def.Name); ok && im.Body != nil && !printed[t.Def.Name] {
			printed[t.Def.Name] = true
			fmt.Fprintf(w, "%s  body:\n", indent)
			printNode(w, ctx, im.Body, depth+2, printed)
		}
	default:
		fmt.Fprintf(w, "%s<unhandled %T>\n", indent, n)
	}
}
