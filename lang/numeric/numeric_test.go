package numeric_test

import (
	"math"
	"testing"

	"github.com/proprowataya/calc4go/lang/numeric"
	"github.com/stretchr/testify/assert"
)

func TestTruthAndBool(t *testing.T) {
	assert.False(t, numeric.Truth[int32](0))
	assert.True(t, numeric.Truth[int32](1))
	assert.True(t, numeric.Truth[int32](-1))

	assert.Equal(t, int32(1), numeric.Bool[int32](true))
	assert.Equal(t, int32(0), numeric.Bool[int32](false))
}

func TestFitsInt16(t *testing.T) {
	v, ok := numeric.FitsInt16[int32](12345)
	assert.True(t, ok)
	assert.Equal(t, int16(12345), v)

	_, ok = numeric.FitsInt16[int32](math.MaxInt16 + 1)
	assert.False(t, ok)

	_, ok = numeric.FitsInt16[int64](math.MinInt16 - 1)
	assert.False(t, ok)
}

func TestArithmeticWraps(t *testing.T) {
	assert.Equal(t, int32(math.MinInt32), numeric.Add[int32](math.MaxInt32, 1))
	assert.Equal(t, int32(7), numeric.Sub[int32](10, 3))
	assert.Equal(t, int32(42), numeric.Mult[int32](6, 7))
	assert.Equal(t, int32(3), numeric.Div[int32](10, 3))
	assert.Equal(t, int32(1), numeric.Mod[int32](10, 3))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, numeric.Compare[int32](1, 2))
	assert.Equal(t, 0, numeric.Compare[int32](2, 2))
	assert.Equal(t, 1, numeric.Compare[int32](3, 2))
}
