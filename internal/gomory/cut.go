// Package gomory implements the fractional cutting-plane method: row
// selection by largest fractional right-hand side, cut construction
// from the fractional parts of the chosen row, and a dual simplex
// re-optimization loop over the augmented tableau.
package gomory

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
	"github.com/barsbold-coding/exactlp/internal/simplex"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

// gomorySlackName is the variable-name prefix for cut slacks,
// mirroring canon's single-letter convention for introduced columns.
const gomorySlackName = "g"

// Engine drives the cut-and-reoptimize cycle over a Model that the
// primal simplex has already brought to OPTIMAL.
type Engine struct {
	Logger  *zap.Logger
	MaxCuts int
}

// NewEngine builds an Engine. A nil logger is replaced with a no-op
// one, a non-positive maxCuts with a default iteration cap.
func NewEngine(logger *zap.Logger, maxCuts int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCuts <= 0 {
		maxCuts = 500
	}
	return &Engine{Logger: logger, MaxCuts: maxCuts}
}

// Run applies cuts until every integer-declared variable is integral
// (IntegerOptimal), the dual phase runs out of eligible columns
// (IntegerInfeasible), the cut selector finds no eligible row while a
// declared variable is still fractional (IntegerUnsolved, the current
// fractional solution stands), or the model declares no integer
// variables at all (IntegerNotApplicable).
func (e *Engine) Run(m *model.Model) trace.IntegerStatus {
	if len(m.PositiveIntegerVariables) == 0 {
		return trace.IntegerNotApplicable
	}

	for cuts := 0; cuts < e.MaxCuts; cuts++ {
		row, ok := selectCutRow(m)
		if !ok {
			if !declaredIntegral(m) {
				e.Logger.Debug("gomory: no eligible cut row, declared variables still fractional", zap.Int("cuts", cuts))
				return trace.IntegerUnsolved
			}
			e.Logger.Debug("gomory: all integer-declared variables are integral", zap.Int("cuts", cuts))
			return trace.IntegerOptimal
		}

		g := insertCut(m, row)
		e.Logger.Debug("gomory: cut inserted", zap.Int("cuts", cuts), zap.String("slack", g.String()), zap.Int("row", row))

		for dualPivots := 0; dualPivots < e.MaxCuts; dualPivots++ {
			deltas := simplex.Deltas(m)
			dualRow, enter, ratios, status := chooseDualPivot(m, deltas)
			if status == trace.Infeasible {
				m.Trace = append(m.Trace, simplex.Snapshot(m, "", "", nil, deltas, ratios))
				e.Logger.Debug("gomory: dual phase has no eligible column", zap.Int("row", dualRow))
				return trace.IntegerInfeasible
			}
			if dualRow == -1 {
				m.Trace = append(m.Trace, simplex.Snapshot(m, "", "", nil, deltas, nil))
				break // this cut's dual phase is feasible again; re-check integrality
			}

			leaving := m.Basis[dualRow]
			pivotVal, _ := m.Constraints[dualRow].Left.Get(enter)
			m.Trace = append(m.Trace, simplex.Snapshot(m, enter.String(), leaving.String(), &pivotVal, deltas, ratios))
			simplex.Pivot(m, dualRow, enter)
			e.Logger.Debug("gomory: dual pivot",
				zap.String("entering", enter.String()),
				zap.String("leaving", leaving.String()),
				zap.Int("row", dualRow),
			)
		}
	}

	e.Logger.Debug("gomory: reached cut cap", zap.Int("max", e.MaxCuts))
	return trace.IntegerUnsolved
}

// declaredIntegral reports whether every integer-declared variable
// currently holds an integer value: a basic one must have an integral
// rhs, a non-basic one is zero.
func declaredIntegral(m *model.Model) bool {
	for i := range m.Constraints {
		bv, ok := m.Basis[i]
		if !ok || !m.IsIntegerDeclared(bv) {
			continue
		}
		if !m.Constraints[i].Right.C().IsInt() {
			return false
		}
	}
	return true
}

// selectCutRow implements the cut row selection: among rows whose
// basic variable is declared a non-negative integer, the row with the
// largest fractional rhs. A row whose rhs fractional part is itself an
// integer (0, or 1 for a rhs of exactly 1) is already integral and is
// never cut; a zero-rhs row whose basis is a Gomory slack is skipped
// as an anti-cycling measure. Ties break on the lowest row index.
func selectCutRow(m *model.Model) (int, bool) {
	best := -1
	var bestFrac *big.Rat

	for i := range m.Constraints {
		bv, ok := m.Basis[i]
		if !ok || !m.IsIntegerDeclared(bv) {
			continue
		}
		rhs := m.Constraints[i].Right.C()
		if antiCycleBlocked(m, bv, rhs) {
			continue
		}
		f := fracPart(rhs)
		if f.IsInt() {
			continue
		}
		if best == -1 || f.Cmp(bestFrac) > 0 {
			best, bestFrac = i, f
		}
	}
	return best, best != -1
}

func antiCycleBlocked(m *model.Model, bv model.Variable, rhs *big.Rat) bool {
	return rhs.Sign() == 0 && m.IsGomorySlack(bv)
}

// insertCut builds the cut for row, appends it as a new equality
// constraint, seeds its basis with the fresh slack, and zero-pads every
// row for the new column.
func insertCut(m *model.Model, row int) model.Variable {
	c := m.Constraints[row]
	basisVar := m.Basis[row]
	rhsFrac := fracPart(c.Right.C())

	left := model.NewLinearForm()
	for _, t := range c.Left.Terms() {
		if t.Var == basisVar {
			continue
		}
		f := fracPart(t.Coef.C())
		if f.Sign() == 0 {
			continue
		}
		left.Set(t.Var, scalar.FromRat(new(big.Rat).Neg(f)))
	}

	idx := m.NextIndex()
	g := model.Variable{Name: gomorySlackName, Index: idx}
	left.Set(g, scalar.FromInt(1))

	right := scalar.FromRat(new(big.Rat).Neg(rhsFrac))
	cut := model.NewConstraint(left, model.EQ, right)

	m.Target.Set(g, scalar.Zero())
	m.VariableConstraints = append(m.VariableConstraints, model.Ge(model.NewLinearForm(model.Term{Var: g, Coef: scalar.FromInt(1)}), scalar.Zero()))
	m.GomoryVariables = append(m.GomoryVariables, g)

	m.Constraints = append(m.Constraints, cut)
	newRow := len(m.Constraints) - 1
	m.Basis[newRow] = g

	zeroPad(m)
	return g
}

// zeroPad inserts an explicit zero coefficient for every objective
// variable missing from a row's LinearForm, keeping the tableau
// rectangular after a cut introduces a new column and row.
func zeroPad(m *model.Model) {
	for _, c := range m.Constraints {
		for _, t := range m.Target.Terms() {
			if _, ok := c.Left.Get(t.Var); !ok {
				c.Left.Set(t.Var, scalar.Zero())
			}
		}
	}
}

// chooseDualPivot picks the dual re-optimization step: the leaving row
// is the one with the most negative rhs, the entering column is chosen
// by the dual ratio test delta_j / A[r,j] among columns with a negative
// coefficient in that row: largest ratio under MAX, smallest under
// MIN, ties on the lowest column index. Returns dualRow=-1 when no row
// has a negative rhs (the dual phase for this cut is done); status is
// Infeasible when a leaving row exists but no column is eligible.
func chooseDualPivot(m *model.Model, deltas []scalar.Scalar) (int, model.Variable, []scalar.Scalar, trace.Status) {
	row := -1
	var worst *big.Rat
	for i, c := range m.Constraints {
		rhs := c.Right.C()
		if rhs.Sign() >= 0 {
			continue
		}
		if row == -1 || rhs.Cmp(worst) < 0 {
			row, worst = i, rhs
		}
	}
	if row == -1 {
		return -1, model.Variable{}, nil, trace.Unsolved
	}

	cols := m.Target.Terms()
	ratios := make([]scalar.Scalar, len(cols))

	bestCol := -1
	var bestRatio scalar.Scalar
	for j, col := range cols {
		aij, ok := m.Constraints[row].Left.Get(col.Var)
		if !ok || aij.HasM() || aij.C().Sign() >= 0 {
			continue
		}
		ratio, err := scalar.Div(deltas[j], aij)
		if err != nil {
			continue
		}
		ratios[j] = ratio

		better := bestCol == -1
		if !better {
			if m.LPType == model.Max {
				better = scalar.Greater(ratio, bestRatio)
			} else {
				better = scalar.Less(ratio, bestRatio)
			}
		}
		if better {
			bestCol, bestRatio = j, ratio
		}
	}

	if bestCol == -1 {
		return row, model.Variable{}, ratios, trace.Infeasible
	}
	return row, cols[bestCol].Var, ratios, trace.Unsolved
}

// floorRat returns the largest integer <= r.
func floorRat(r *big.Rat) *big.Rat {
	q := new(big.Int)
	mod := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), mod)
	return new(big.Rat).SetInt(q)
}

// ceilRat returns the smallest integer >= r.
func ceilRat(r *big.Rat) *big.Rat {
	return new(big.Rat).Neg(floorRat(new(big.Rat).Neg(r)))
}

// fracPart returns x - floor(x) for non-negative x and x + ceil(|x|)
// for negative x, with the single special case that the fractional
// part of the integer 1 is 1 rather than 0. Every integer still maps to
// an integer, which is how selectCutRow recognizes an integral rhs; in
// insertCut a non-basic column with coefficient exactly 1 gets a cut
// coefficient of -1.
func fracPart(x *big.Rat) *big.Rat {
	one := big.NewRat(1, 1)
	if x.IsInt() {
		if x.Cmp(one) == 0 {
			return big.NewRat(1, 1)
		}
		return big.NewRat(0, 1)
	}
	if x.Sign() > 0 {
		return new(big.Rat).Sub(x, floorRat(x))
	}
	absX := new(big.Rat).Abs(x)
	return new(big.Rat).Add(x, ceilRat(absX))
}
