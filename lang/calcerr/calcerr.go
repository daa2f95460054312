// Package calcerr defines Calc4's error taxonomy (spec.md §7): lex/parse
// failures carry a Kind and an optional source Position; compile-time
// internal errors and runtime errors are reported the same way so callers
// can switch on Kind regardless of which phase raised the error.
package calcerr

import (
	"fmt"
	"strings"

	"github.com/proprowataya/calc4go/lang/token"
)

// Kind identifies which of spec.md §7's error categories an Error belongs
// to.
type Kind int

const (
	// Lex/parse errors (spec.md §4.1, §4.2); all carry a Position.
	OperatorOrOperandNotDefined Kind = iota
	DefinitionTextNotSplittedProperly
	TokenExpected
	UnexpectedToken
	SomeOperandsMissing
	CodeIsEmpty

	// AssertionError signals a code generator bug (a stack-size invariant
	// violation), never a user error (spec.md §4.4, §7).
	AssertionError

	// Runtime errors (spec.md §4.5, §7).
	ZeroDivision
	StackOverflow
)

var kindNames = [...]string{
	OperatorOrOperandNotDefined:        "OperatorOrOperandNotDefined",
	DefinitionTextNotSplittedProperly:  "DefinitionTextNotSplittedProperly",
	TokenExpected:                      "TokenExpected",
	UnexpectedToken:                    "UnexpectedToken",
	SomeOperandsMissing:                "SomeOperandsMissing",
	CodeIsEmpty:                        "CodeIsEmpty",
	AssertionError:                     "AssertionError",
	ZeroDivision:                       "ZeroDivision",
	StackOverflow:                      "StackOverflow",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("<invalid Kind %d>", k)
}

// Error is a single Calc4 error: a Kind, a human-readable message and,
// for lex/parse errors, the source Position at which it was detected.
// Position.Line == 0 means no position is available (e.g. some runtime
// errors have none).
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NewNoPos builds an Error with no associated position, for runtime
// errors that are not tied to a specific source location (spec.md §7).
func NewNoPos(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

// List collects every Error encountered during a single compile pass. The
// caller decides whether to stop at the first error or to keep collecting
// (lang/lexer and lang/parser both stop at the first, per spec.md §4.1 and
// §4.2, but List exists so callers such as a batch linter can accumulate
// more than one across files).
type List []*Error

func (l *List) Add(err *Error) { *l = append(*l, err) }

func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}
