// Package opdef defines the operator definition value type shared by the
// token and ast packages (and the lexer, optimizer, compiler and evaluator
// built on them) without forcing a dependency cycle between them
// (spec.md §3.1).
package opdef

import "fmt"

// Definition names a user-defined operator and fixes its arity. Equality
// is (Name, Arity), per spec.md §3.1.
type Definition struct {
	Name  string
	Arity int
}

func (d Definition) String() string {
	return fmt.Sprintf("%s/%d", d.Name, d.Arity)
}

// Equal reports whether d and o name the same operator with the same
// arity.
func (d Definition) Equal(o Definition) bool {
	return d == o
}
