package ast

import (
	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/proprowataya/calc4go/lang/opdef"
)

// Implement pairs an operator definition with the AST root that realizes
// it (spec.md §3.2). Body is nil between the moment the lexer registers a
// placeholder for a `D[...]` token (so the body's own recursive uses of
// the name resolve) and the moment the parser finishes parsing the body
// and replaces the placeholder.
type Implement[N numeric.Number] struct {
	Definition opdef.Definition
	Body       Node[N] // nil until the two-phase construction completes
}

// HasBody reports whether the implement's body has been filled in yet.
func (im *Implement[N]) HasBody() bool { return im.Body != nil }

// Context is the compilation context (spec.md §3.3): an ordered mapping
// from operator name to its Implement. It is threaded through lexing,
// parsing and code generation, since a `D[...]` seen by the lexer may be
// referenced by tokens lexed afterwards, and updating the mapping for an
// existing name replaces the entry (redefinition, not accumulation).
//
// Context is read-only during code generation and execution (spec.md §5).
// Its name table only changes during lexing and parsing; lang/optimizer
// replaces the Body of each registered Implement in place.
type Context[N numeric.Number] struct {
	order []string
	impls map[string]*Implement[N]
}

// NewContext returns an empty compilation context.
func NewContext[N numeric.Number]() *Context[N] {
	return &Context[N]{impls: make(map[string]*Implement[N])}
}

// Lookup returns the implement registered for name, if any.
func (c *Context[N]) Lookup(name string) (*Implement[N], bool) {
	im, ok := c.impls[name]
	return im, ok
}

// Define registers (or replaces) the implement for a name. Replacing an
// existing name's entry is how redefinition works: later tokens resolve
// to whatever is currently registered at the time they are lexed.
func (c *Context[N]) Define(name string, im *Implement[N]) {
	if _, exists := c.impls[name]; !exists {
		c.order = append(c.order, name)
	}
	c.impls[name] = im
}

// Names returns every registered operator name in the order it was first
// defined, for deterministic iteration (spec.md §3.3).
func (c *Context[N]) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Implements returns every registered implement, in definition order.
func (c *Context[N]) Implements() []*Implement[N] {
	out := make([]*Implement[N], 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.impls[name])
	}
	return out
}

// Clone returns a shallow copy of c: a new ordered map with the same
// name -> *Implement entries. lang/calc4.Compile and the REPL lex and
// parse against a clone (the "staged copy" of spec.md §7) so that a
// failed lex or parse leaves the caller's original context untouched;
// replacing an existing name's *Implement pointer in the clone does not
// affect the original, since Define never mutates an Implement value in
// place, it always installs a new pointer. The Implement values themselves
// are shared, so lang/optimizer's in-place Body rewrite of an entry the
// clone inherited is seen by the original too.
func (c *Context[N]) Clone() *Context[N] {
	clone := &Context[N]{
		order: append([]string(nil), c.order...),
		impls: make(map[string]*Implement[N], len(c.impls)),
	}
	for k, v := range c.impls {
		clone.impls[k] = v
	}
	return clone
}
