// Package canon turns a parsed Model with mixed-sign constraints into
// standard form: every constraint an equality, every row zero-padded
// to the objective's term set, and a starting basis covering every
// row, introducing slack/surplus and, where needed, Big-M-penalized
// artificial variables.
package canon

import (
	"math/big"

	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
)

// slackName and artificialName are the variable-name prefixes used for
// introduced columns; indices keep counting from the decision
// variables' high-water mark, so "s3" and "a5" never collide with a
// parsed identity.
const (
	slackName      = "s"
	artificialName = "a"
)

// Canonicalize mutates m in place and returns it for chaining: rows
// with a negative right-hand side are reoriented first, then objective
// padding, slacks, the basis search, artificials, a second basis
// search, and zero padding run in order.
func Canonicalize(m *model.Model) *model.Model {
	normalizeRHS(m)
	padTarget(m)
	introduceSlacks(m)
	basisSearch(m)
	introduceArtificials(m)
	basisSearch(m)
	zeroPad(m)
	return m
}

func one() *big.Rat    { return big.NewRat(1, 1) }
func negOne() *big.Rat { return big.NewRat(-1, 1) }

// normalizeRHS multiplies every row with a negative right-hand side by
// -1, flipping its sign. Big-M needs every starting rhs non-negative:
// an artificial entered against a negative rhs would start at a
// negative value, where the penalty rewards it instead of driving it
// out.
func normalizeRHS(m *model.Model) {
	for i, c := range m.Constraints {
		if c.Right.HasM() || c.Right.C().Sign() >= 0 {
			continue
		}
		m.Constraints[i] = c.MulRat(negOne())
	}
}

// padTarget gives every variable mentioned by a constraint a column:
// one absent from the objective gets a zero objective coefficient.
// Without its own column such a variable would be invisible to the
// reduced-cost test, and an unbounded direction through it would go
// undetected.
func padTarget(m *model.Model) {
	for _, c := range m.Constraints {
		for _, t := range c.Left.Terms() {
			if _, ok := m.Target.Get(t.Var); !ok {
				m.Target.Set(t.Var, scalar.Zero())
			}
			if t.Var.Index > m.HighestVariableIndex {
				m.HighestVariableIndex = t.Var.Index
			}
		}
	}
}

// introduceSlacks is step 1: for each constraint in order, a <=
// constraint gains a +1 slack, a >= constraint gains a -1 surplus, and
// an = constraint is left alone. Every introduced variable is
// registered non-negative.
func introduceSlacks(m *model.Model) {
	for i, c := range m.Constraints {
		var coef *big.Rat
		switch c.Sign {
		case model.LE:
			coef = one()
		case model.GE:
			coef = negOne()
		default:
			continue
		}

		idx := m.NextIndex()
		v := model.Variable{Name: slackName, Index: idx}

		left := c.Left.Copy()
		left.Set(v, scalar.FromRat(coef))
		m.Constraints[i] = model.NewConstraint(left, model.EQ, c.Right)

		m.Target.Set(v, scalar.Zero())
		m.VariableConstraints = append(m.VariableConstraints, model.Ge(model.NewLinearForm(model.Term{Var: v, Coef: scalar.FromInt(1)}), scalar.Zero()))
	}
}

// introduceArtificials is step 3: every row still lacking a basic
// variable gets a +1 artificial variable, penalized by +M when
// minimizing or -M when maximizing, and is entered as that row's
// basis immediately.
func introduceArtificials(m *model.Model) {
	for i, c := range m.Constraints {
		if _, ok := m.Basis[i]; ok {
			continue
		}

		idx := m.NextIndex()
		v := model.Variable{Name: artificialName, Index: idx}

		left := c.Left.Copy()
		left.Set(v, scalar.FromInt(1))
		m.Constraints[i] = model.NewConstraint(left, model.EQ, c.Right)

		penalty := one()
		if m.LPType == model.Max {
			penalty = negOne()
		}
		m.Target.Set(v, scalar.FromM(penalty))

		m.VariableConstraints = append(m.VariableConstraints, model.Ge(model.NewLinearForm(model.Term{Var: v, Coef: scalar.FromInt(1)}), scalar.Zero()))
		m.Basis[i] = v
	}
}

// basisSearch is steps 2 and 4: a row's basic candidate is a variable
// whose coefficient in that row is exactly 1 and whose coefficient in
// every other row is 0. Rows are scanned in order, terms within a row
// in insertion order; the first candidate wins.
func basisSearch(m *model.Model) {
	m.Basis = make(map[int]model.Variable, len(m.Constraints))

	unit := scalar.FromInt(1)
	for i, c := range m.Constraints {
		for _, t := range c.Left.Terms() {
			if !scalar.Equal(t.Coef, unit) {
				continue
			}
			if isExclusiveToRow(m, t.Var, i) {
				m.Basis[i] = t.Var
				break
			}
		}
	}
}

func isExclusiveToRow(m *model.Model, v model.Variable, row int) bool {
	for j, other := range m.Constraints {
		if j == row {
			continue
		}
		if coef, ok := other.Left.Get(v); ok && !coef.IsZero() {
			return false
		}
	}
	return true
}

// zeroPad is step 5: every constraint gets an explicit zero
// coefficient for every objective variable it doesn't otherwise
// mention, making the tableau rectangular.
func zeroPad(m *model.Model) {
	for _, c := range m.Constraints {
		for _, t := range m.Target.Terms() {
			if _, ok := c.Left.Get(t.Var); !ok {
				c.Left.Set(t.Var, scalar.Zero())
			}
		}
	}
}
