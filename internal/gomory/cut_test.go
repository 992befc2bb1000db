package gomory

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barsbold-coding/exactlp/internal/canon"
	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
	"github.com/barsbold-coding/exactlp/internal/simplex"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

func v(name string, idx int) model.Variable { return model.Variable{Name: name, Index: idx} }

func term(name string, idx int, n, d int64) model.Term {
	return model.Term{Var: v(name, idx), Coef: scalar.FromFraction(n, d)}
}

// MAX Z = 8x1 + 6x2; 2x1+5x2<=11; 4x1+x2<=10; x1,x2 non-negative integers.
// Expected x1=2, x2=1, Z=22, with at least one cut appended.
func buildKnapsackIP() *model.Model {
	target := model.NewLinearForm(term("x", 1, 8, 1), term("x", 2, 6, 1))
	c1 := model.NewConstraint(model.NewLinearForm(term("x", 1, 2, 1), term("x", 2, 5, 1)), model.LE, scalar.FromInt(11))
	c2 := model.NewConstraint(model.NewLinearForm(term("x", 1, 4, 1), term("x", 2, 1, 1)), model.LE, scalar.FromInt(10))
	vc := []*model.Constraint{
		model.Ge(model.NewLinearForm(term("x", 1, 1, 1)), scalar.Zero()),
		model.Ge(model.NewLinearForm(term("x", 2, 1, 1)), scalar.Zero()),
	}
	m := model.New(model.Max, target, []*model.Constraint{c1, c2}, vc)
	m.PositiveIntegerVariables = []model.Variable{v("x", 1), v("x", 2)}
	return m
}

func TestFracPartPositiveAndNegative(t *testing.T) {
	assert.Equal(t, big.NewRat(1, 3), fracPart(big.NewRat(4, 3)))
	assert.Equal(t, big.NewRat(2, 3), fracPart(big.NewRat(-1, 3)))
	assert.Equal(t, big.NewRat(0, 1), fracPart(big.NewRat(4, 1)))
	assert.Equal(t, big.NewRat(1, 1), fracPart(big.NewRat(1, 1)))
}

func TestGomoryReachesIntegerOptimal(t *testing.T) {
	m := buildKnapsackIP()
	canon.Canonicalize(m)

	simplexEngine := simplex.NewEngine(nil, 0)
	status := simplexEngine.Run(m)
	require.Equal(t, trace.Optimal, status)

	gomoryEngine := NewEngine(nil, 0)
	intStatus := gomoryEngine.Run(m)
	require.Equal(t, trace.IntegerOptimal, intStatus)

	candidate := simplex.Candidate(m)
	assert.True(t, candidate[v("x", 1)].Cmp(big.NewRat(2, 1)) == 0)
	assert.True(t, candidate[v("x", 2)].Cmp(big.NewRat(1, 1)) == 0)

	obj := simplex.ObjectiveValue(m)
	assert.True(t, obj.EqualRat(big.NewRat(22, 1)))

	foundCut := false
	for _, v := range m.GomoryVariables {
		if v.Name == gomorySlackName {
			foundCut = true
		}
	}
	assert.True(t, foundCut, "at least one Gomory cut should have been appended")
}

func TestGomoryNotApplicableWithoutIntegerDeclarations(t *testing.T) {
	target := model.NewLinearForm(term("x", 1, 1, 1))
	c1 := model.NewConstraint(model.NewLinearForm(term("x", 1, 1, 1)), model.LE, scalar.FromInt(3))
	vc := []*model.Constraint{model.Ge(model.NewLinearForm(term("x", 1, 1, 1)), scalar.Zero())}
	m := model.New(model.Max, target, []*model.Constraint{c1}, vc)
	canon.Canonicalize(m)
	simplex.NewEngine(nil, 0).Run(m)

	status := NewEngine(nil, 0).Run(m)
	assert.Equal(t, trace.IntegerNotApplicable, status)
}
