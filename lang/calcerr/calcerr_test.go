package calcerr_test

import (
	gotoken "go/token"
	"testing"

	"github.com/proprowataya/calc4go/lang/calcerr"
	"github.com/stretchr/testify/assert"
)

func TestNewIncludesPosition(t *testing.T) {
	pos := gotoken.Position{Line: 2, Column: 5}
	err := calcerr.New(calcerr.UnexpectedToken, pos, "found %q", "?")

	assert.Equal(t, calcerr.UnexpectedToken, err.Kind)
	assert.Equal(t, pos, err.Pos)
	assert.Contains(t, err.Error(), "UnexpectedToken")
	assert.Contains(t, err.Error(), "found \"?\"")
	assert.Contains(t, err.Error(), "2:5")
}

func TestNewNoPosOmitsPosition(t *testing.T) {
	err := calcerr.NewNoPos(calcerr.ZeroDivision, "division by zero")

	assert.Equal(t, calcerr.ZeroDivision, err.Kind)
	assert.Equal(t, 0, err.Pos.Line)
	assert.Equal(t, "ZeroDivision: division by zero", err.Error())
}

func TestListCollectsAndFormats(t *testing.T) {
	var l calcerr.List
	assert.NoError(t, l.Err())

	l.Add(calcerr.NewNoPos(calcerr.CodeIsEmpty, "empty source"))
	l.Add(calcerr.NewNoPos(calcerr.StackOverflow, "too deep"))

	err := l.Err()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CodeIsEmpty")
	assert.Contains(t, err.Error(), "StackOverflow")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "OperatorOrOperandNotDefined", calcerr.OperatorOrOperandNotDefined.String())
	assert.Contains(t, calcerr.Kind(999).String(), "invalid")
}
