package opdef_test

import (
	"testing"

	"github.com/proprowataya/calc4go/lang/opdef"
	"github.com/stretchr/testify/assert"
)

func TestDefinitionEqual(t *testing.T) {
	a := opdef.Definition{Name: "fact", Arity: 2}
	b := opdef.Definition{Name: "fact", Arity: 2}
	c := opdef.Definition{Name: "fact", Arity: 1}
	d := opdef.Definition{Name: "fib", Arity: 2}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestDefinitionString(t *testing.T) {
	d := opdef.Definition{Name: "fact", Arity: 2}
	assert.Equal(t, "fact/2", d.String())
}
