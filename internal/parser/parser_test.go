package parser

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barsbold-coding/exactlp/internal/model"
)

func TestParseModelObjectiveSense(t *testing.T) {
	input := "MIN Z = 2x1 + 3x2\nx1+x2>=4\n"
	m, err := ParseModel(input)
	require.NoError(t, err)
	assert.Equal(t, model.Min, m.LPType)
}

func TestParseModelBuildsExpectedTerms(t *testing.T) {
	input := "MAX Z = 3x1 - 2x2\nx1+x2<=10\n"
	m, err := ParseModel(input)
	require.NoError(t, err)

	coef, ok := m.Target.Get(model.Variable{Name: "x", Index: 1})
	require.True(t, ok)
	assert.True(t, coef.EqualRat(big.NewRat(3, 1)))

	coef2, ok := m.Target.Get(model.Variable{Name: "x", Index: 2})
	require.True(t, ok)
	assert.True(t, coef2.EqualRat(big.NewRat(-2, 1)))
}

func TestParseModelFractionalCoefficient(t *testing.T) {
	input := "MAX Z = x1 + x2\n1/600x1 + 1/1200x2 <= 1\n"
	m, err := ParseModel(input)
	require.NoError(t, err)

	c := m.Constraints[0]
	coef, ok := c.Left.Get(model.Variable{Name: "x", Index: 1})
	require.True(t, ok)
	assert.True(t, coef.EqualRat(big.NewRat(1, 600)))
}

func TestParseModelIntegralityClause(t *testing.T) {
	input := "MAX Z = 8x1 + 6x2\n2x1+5x2<=11\n4x1+x2<=10\nx1,x2 non-negative integers\n"
	m, err := ParseModel(input)
	require.NoError(t, err)

	require.Len(t, m.PositiveIntegerVariables, 2)
	assert.True(t, m.IsIntegerDeclared(model.Variable{Name: "x", Index: 1}))
	assert.True(t, m.IsIntegerDeclared(model.Variable{Name: "x", Index: 2}))
}

func TestParseModelCombinedSignAndIntegralityClause(t *testing.T) {
	input := "MAX Z = 3000x1 + 2000x2\n" +
		"20x1+30x2<=3000\n" +
		"x2 >= 10 and x1,x2 non-negative integers\n"
	m, err := ParseModel(input)
	require.NoError(t, err)

	assert.Len(t, m.PositiveIntegerVariables, 2)

	foundBound := false
	for _, c := range m.Constraints {
		if c.Sign == model.GE {
			if _, ok := c.Left.Get(model.Variable{Name: "x", Index: 2}); ok {
				foundBound = true
			}
		}
	}
	assert.True(t, foundBound, "x2 >= 10 should have been added as a constraint")
}

func TestParseModelRejectsMissingRelation(t *testing.T) {
	input := "MAX Z = x1\nx1 10\n"
	_, err := ParseModel(input)
	assert.Error(t, err)
}

func TestParseModelDefaultsToNonNegativity(t *testing.T) {
	input := "MAX Z = x1\nx1<=10\n"
	m, err := ParseModel(input)
	require.NoError(t, err)

	foundNonNeg := false
	for _, c := range m.VariableConstraints {
		if c.Sign == model.GE {
			if coef, ok := c.Left.Get(model.Variable{Name: "x", Index: 1}); ok && coef.EqualRat(big.NewRat(1, 1)) {
				foundNonNeg = true
			}
		}
	}
	assert.True(t, foundNonNeg)
}
