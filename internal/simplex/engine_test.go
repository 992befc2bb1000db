package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barsbold-coding/exactlp/internal/canon"
	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

func v(name string, idx int) model.Variable { return model.Variable{Name: name, Index: idx} }

func term(name string, idx int, n, d int64) model.Term {
	return model.Term{Var: v(name, idx), Coef: scalar.FromFraction(n, d)}
}

// MAX Z = 8x1 + 6x2; 2x1+5x2<=11; 4x1+x2<=10; x1,x2>=0
// (a knapsack relaxation; its continuous optimum sits at the row
// intersection x1=13/6, x2=4/3 with Z=76/3).
func buildRelaxedKnapsack() *model.Model {
	target := model.NewLinearForm(term("x", 1, 8, 1), term("x", 2, 6, 1))
	c1 := model.NewConstraint(model.NewLinearForm(term("x", 1, 2, 1), term("x", 2, 5, 1)), model.LE, scalar.FromInt(11))
	c2 := model.NewConstraint(model.NewLinearForm(term("x", 1, 4, 1), term("x", 2, 1, 1)), model.LE, scalar.FromInt(10))
	vc := []*model.Constraint{
		model.Ge(model.NewLinearForm(term("x", 1, 1, 1)), scalar.Zero()),
		model.Ge(model.NewLinearForm(term("x", 2, 1, 1)), scalar.Zero()),
	}
	return model.New(model.Max, target, []*model.Constraint{c1, c2}, vc)
}

func TestRunReachesOptimal(t *testing.T) {
	m := buildRelaxedKnapsack()
	canon.Canonicalize(m)

	e := NewEngine(nil, 0)
	status := e.Run(m)

	require.Equal(t, trace.Optimal, status)
	assert.NotEmpty(t, m.Trace)
}

func TestRunDetectsUnbounded(t *testing.T) {
	// MAX Z = x1; x1 - x2 <= 1; x1,x2 >= 0 is unbounded in x1.
	target := model.NewLinearForm(term("x", 1, 1, 1))
	c1 := model.NewConstraint(model.NewLinearForm(term("x", 1, 1, 1), term("x", 2, -1, 1)), model.LE, scalar.FromInt(1))
	vc := []*model.Constraint{
		model.Ge(model.NewLinearForm(term("x", 1, 1, 1)), scalar.Zero()),
		model.Ge(model.NewLinearForm(term("x", 2, 1, 1)), scalar.Zero()),
	}
	m := model.New(model.Max, target, []*model.Constraint{c1}, vc)
	canon.Canonicalize(m)

	e := NewEngine(nil, 0)
	status := e.Run(m)

	assert.Equal(t, trace.Unbounded, status)
}

func TestObjectiveValueMatchesFinalBasisSum(t *testing.T) {
	m := buildRelaxedKnapsack()
	canon.Canonicalize(m)
	e := NewEngine(nil, 0)
	e.Run(m)

	require.NotEmpty(t, m.Trace)
	last := m.Trace[len(m.Trace)-1]
	assert.True(t, scalar.Equal(last.ObjectiveValue, ObjectiveValue(m)))
}

func TestCandidateSatisfiesOriginalConstraints(t *testing.T) {
	m := buildRelaxedKnapsack()
	canon.Canonicalize(m)
	e := NewEngine(nil, 0)
	status := e.Run(m)
	require.Equal(t, trace.Optimal, status)

	candidate := Candidate(m)
	assert.True(t, VerifyFeasible(m, candidate))
}

func TestChooseColumnTieBreaksOnLowestIndex(t *testing.T) {
	m := buildRelaxedKnapsack()
	canon.Canonicalize(m)
	deltas := Deltas(m)
	col := ChooseColumn(m, deltas)
	assert.GreaterOrEqual(t, col, 0)
	assert.Less(t, col, len(deltas))

	// Columns 1 and 2 tie for the smallest delta under MAX; the lower
	// index enters.
	tied := []scalar.Scalar{scalar.Zero(), scalar.FromInt(-6), scalar.FromInt(-6), scalar.Zero()}
	assert.Equal(t, 1, ChooseColumn(m, tied))
}
