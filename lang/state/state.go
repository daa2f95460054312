// Package state implements Calc4's execution state (spec.md §3.6, §6.2):
// the mutable world a running program reads and writes, shared identically
// by lang/machine's stack-machine interpreter and lang/evaluator's
// tree-walking evaluator so the two backends can be run side by side over
// the same state shape for parity testing (spec.md §8 property 1).
package state

import (
	"bufio"
	"io"

	"github.com/proprowataya/calc4go/internal/arraystore"
	"github.com/proprowataya/calc4go/lang/numeric"
)

// State is one program run's mutable world: the named variable cells, the
// global array, the input source and the output sink.
type State[N numeric.Number] struct {
	variables map[string]N
	array     *arraystore.Store[N]
	input     *bufio.Reader
	output    io.Writer
}

// New returns a fresh State reading from input and writing to output. A nil
// input behaves as an immediately-exhausted source (every Input reads -1);
// a nil output discards every PrintChar.
func New[N numeric.Number](input io.Reader, output io.Writer) *State[N] {
	s := &State[N]{
		variables: make(map[string]N),
		array:     arraystore.New[N](),
		output:    output,
	}
	if input != nil {
		s.input = bufio.NewReader(input)
	}
	return s
}

// LoadVariable returns the named cell's value, defaulting to 0 if it was
// never stored.
func (s *State[N]) LoadVariable(name string) N { return s.variables[name] }

// StoreVariable writes v into the named cell.
func (s *State[N]) StoreVariable(name string, v N) { s.variables[name] = v }

// LoadArray returns the global array's value at index, defaulting to 0.
func (s *State[N]) LoadArray(index N) N { return s.array.Get(index) }

// StoreArray writes value into the global array at index.
func (s *State[N]) StoreArray(index, value N) { s.array.Set(index, value) }

// Input reads one byte from the input source, returning -1 at end of
// input (spec.md §8's `I` with empty input scenario).
func (s *State[N]) Input() N {
	if s.input == nil {
		return -1
	}
	b, err := s.input.ReadByte()
	if err != nil {
		return -1
	}
	return N(b)
}

// PrintChar writes v's low byte to the output sink.
func (s *State[N]) PrintChar(v N) {
	if s.output == nil {
		return
	}
	_, _ = s.output.Write([]byte{byte(v)})
}
