// Package arraystore implements the storage behind Calc4's global array
// (spec.md §3.6, §6.2): a single array shared by every StoreArray/LoadArray
// in a program, indexed by the language's own number type, which a program
// is free to index with negative or very large values.
//
// A dense slice alone cannot serve that: a single `(1<<62)@` would try to
// allocate an unrepresentable amount of memory. Following the teacher's use
// of github.com/dolthub/swiss for its Map value (lang/machine/map.go), the
// store keeps a small dense prefix for the common case of small,
// non-negative indices and falls back to a swiss.Map for everything else.
package arraystore

import (
	"github.com/dolthub/swiss"

	"github.com/proprowataya/calc4go/lang/numeric"
)

// denseLimit bounds how large an index is still served from the dense
// slice. Chosen generously for typical array-using Calc4 programs (loop
// counters, small lookup tables) while keeping a pathological `(1<<40)@`
// from ever growing the dense slice.
const denseLimit = 1 << 16

// Store is Calc4's global array (spec.md §3.6). The zero Store is ready to
// use; every unset cell reads as 0.
type Store[N numeric.Number] struct {
	dense  []N
	sparse *swiss.Map[N, N]
}

// New returns an empty Store.
func New[N numeric.Number]() *Store[N] {
	return &Store[N]{}
}

// Get returns the value at index, or 0 if it was never set.
func (s *Store[N]) Get(index N) N {
	if i, ok := denseIndex[N](index); ok {
		if i >= len(s.dense) {
			return 0
		}
		return s.dense[i]
	}
	if s.sparse == nil {
		return 0
	}
	v, _ := s.sparse.Get(index)
	return v
}

// Set stores value at index, growing the dense slice if index is small and
// beyond its current length, or falling back to the sparse map otherwise.
func (s *Store[N]) Set(index, value N) {
	if i, ok := denseIndex[N](index); ok {
		if i >= len(s.dense) {
			grown := make([]N, i+1)
			copy(grown, s.dense)
			s.dense = grown
		}
		s.dense[i] = value
		return
	}
	if s.sparse == nil {
		s.sparse = swiss.NewMap[N, N](16)
	}
	s.sparse.Put(index, value)
}

// denseIndex reports whether index is small and non-negative enough to be
// served from the dense slice, returning it as a slice index.
func denseIndex[N numeric.Number](index N) (int, bool) {
	if index < 0 || index >= denseLimit {
		return 0, false
	}
	return int(index), true
}
