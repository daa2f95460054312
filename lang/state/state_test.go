package state_test

import (
	"strings"
	"testing"

	"github.com/proprowataya/calc4go/lang/state"
	"github.com/stretchr/testify/assert"
)

func TestVariablesDefaultToZero(t *testing.T) {
	s := state.New[int32](nil, nil)
	assert.Equal(t, int32(0), s.LoadVariable("x"))
	s.StoreVariable("x", 42)
	assert.Equal(t, int32(42), s.LoadVariable("x"))
}

func TestArrayDefaultsToZero(t *testing.T) {
	s := state.New[int32](nil, nil)
	assert.Equal(t, int32(0), s.LoadArray(5))
	s.StoreArray(5, 99)
	assert.Equal(t, int32(99), s.LoadArray(5))
}

func TestInputReturnsMinusOneAtEOF(t *testing.T) {
	s := state.New[int32](strings.NewReader(""), nil)
	assert.Equal(t, int32(-1), s.Input())
}

func TestInputReturnsMinusOneWithNilReader(t *testing.T) {
	s := state.New[int32](nil, nil)
	assert.Equal(t, int32(-1), s.Input())
}

func TestInputReadsSuccessiveBytes(t *testing.T) {
	s := state.New[int32](strings.NewReader("AB"), nil)
	assert.Equal(t, int32('A'), s.Input())
	assert.Equal(t, int32('B'), s.Input())
	assert.Equal(t, int32(-1), s.Input())
}

func TestPrintCharWritesToOutput(t *testing.T) {
	var out strings.Builder
	s := state.New[int32](nil, &out)
	s.PrintChar('H')
	s.PrintChar('i')
	assert.Equal(t, "Hi", out.String())
}

func TestPrintCharWithNilOutputDoesNotPanic(t *testing.T) {
	s := state.New[int32](nil, nil)
	assert.NotPanics(t, func() { s.PrintChar(65) })
}
