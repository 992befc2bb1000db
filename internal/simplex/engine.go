// Package simplex implements the primal Big-M loop: the reduced-cost
// vector, pivot selection, ratio test, basis update, and
// optimality/infeasibility/unboundedness detection, parameterized by
// the optimization sense.
package simplex

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

// Engine runs the primal Big-M simplex loop over a canonicalized
// Model.
type Engine struct {
	Logger        *zap.Logger
	MaxIterations int
}

// NewEngine builds an Engine. A nil logger is replaced with a no-op
// one; logging is optional, never required to construct the engine.
func NewEngine(logger *zap.Logger, maxIterations int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxIterations <= 0 {
		maxIterations = 10000
	}
	return &Engine{Logger: logger, MaxIterations: maxIterations}
}

// Deltas computes the reduced-cost vector in column (objective term)
// order: Δ_j = Σ_i A[i,j]*c_basis(i) - c_j.
func Deltas(m *model.Model) []scalar.Scalar {
	cols := m.Target.Terms()
	deltas := make([]scalar.Scalar, len(cols))

	for j, col := range cols {
		sum := scalar.Zero()
		for i, c := range m.Constraints {
			basisVar := m.Basis[i]
			basisCoef, _ := m.Target.Get(basisVar)
			aij, ok := c.Left.Get(col.Var)
			if !ok {
				continue
			}
			prod, err := scalar.Mul(aij, basisCoef)
			if err != nil {
				// aij is always a plain tableau coefficient (m=0); this
				// would only happen from a programmer error upstream.
				panic(errors.Wrap(err, "simplex: reduced-cost computation"))
			}
			sum = scalar.Add(sum, prod)
		}
		deltas[j] = scalar.Sub(sum, col.Coef)
	}
	return deltas
}

// IsOptimal applies the sense-parameterized optimality test: MAX
// requires every delta >= 0, MIN requires every delta <= 0.
func IsOptimal(m *model.Model, deltas []scalar.Scalar) bool {
	zero := scalar.Zero()
	for _, d := range deltas {
		if m.LPType == model.Max {
			if scalar.Less(d, zero) {
				return false
			}
		} else if scalar.Greater(d, zero) {
			return false
		}
	}
	return true
}

// Candidate builds the assignment of InitialTarget's variables: the
// right-hand side of their basic row, or zero if non-basic.
func Candidate(m *model.Model) map[model.Variable]*big.Rat {
	assignment := make(map[model.Variable]*big.Rat)
	for _, t := range m.InitialTarget.Terms() {
		assignment[t.Var] = big.NewRat(0, 1)
	}
	for i, bv := range m.Basis {
		if _, tracked := assignment[bv]; tracked {
			assignment[bv] = m.Constraints[i].Right.C()
		}
	}
	return assignment
}

// VerifyFeasible reports whether candidate satisfies every original
// constraint and variable constraint. Checking at the optimum catches
// the case where Big-M could not drive an artificial out of the basis.
func VerifyFeasible(m *model.Model, candidate map[model.Variable]*big.Rat) bool {
	for _, c := range m.InitialConstraints {
		if !c.IsSatisfiedBy(candidate) {
			return false
		}
	}
	for _, c := range m.VariableConstraints {
		if !c.IsSatisfiedBy(candidate) {
			return false
		}
	}
	return true
}

// ChooseColumn returns the index of the entering column: smallest
// delta under MAX, largest under MIN, ties broken by lowest column
// index.
func ChooseColumn(m *model.Model, deltas []scalar.Scalar) int {
	best := 0
	for j := 1; j < len(deltas); j++ {
		if m.LPType == model.Max {
			if scalar.Less(deltas[j], deltas[best]) {
				best = j
			}
		} else if scalar.Greater(deltas[j], deltas[best]) {
			best = j
		}
	}
	return best
}

// ChooseRow runs the ratio test for the given entering column,
// returning -1 (unbounded) if no row is eligible.
func ChooseRow(m *model.Model, col model.Variable) int {
	row := -1
	var bestRatio *big.Rat

	for i, c := range m.Constraints {
		xr, ok := c.Left.Get(col)
		if !ok || xr.IsZero() {
			continue
		}
		ratio, err := scalar.Div(c.Right, xr)
		if err != nil {
			continue
		}
		if ratio.HasM() || ratio.C().Sign() <= 0 {
			continue
		}
		r := ratio.C()
		if row == -1 || r.Cmp(bestRatio) < 0 {
			row, bestRatio = i, r
		}
	}
	return row
}

// Pivot rewrites the tableau around (row, col): divides row by the
// pivot element, eliminates col from every other row, and swaps the
// basis. If the variable leaving the basis was penalized by M
// (an artificial), it is dropped entirely from the objective and
// every row.
func Pivot(m *model.Model, row int, enter model.Variable) scalar.Scalar {
	pivotElem, _ := m.Constraints[row].Left.Get(enter)

	newRow, err := divideConstraint(m.Constraints[row], pivotElem)
	if err != nil {
		panic(errors.Wrap(err, "simplex: pivot division"))
	}
	m.Constraints[row] = newRow

	for i, c := range m.Constraints {
		if i == row {
			continue
		}
		factor, ok := c.Left.Get(enter)
		if !ok || factor.IsZero() {
			continue
		}
		scaled, err := scaleConstraint(newRow, factor)
		if err != nil {
			panic(errors.Wrap(err, "simplex: pivot elimination"))
		}
		m.Constraints[i] = c.Add(scaled.MulRat(big.NewRat(-1, 1)))
	}

	leaving := m.Basis[row]
	m.Basis[row] = enter

	if leavingCoef, ok := m.Target.Get(leaving); ok && leavingCoef.HasM() {
		m.Target.Remove(leaving)
		for _, c := range m.Constraints {
			c.Left.Remove(leaving)
		}
	}

	return pivotElem
}

// divideConstraint divides a constraint's Left and Right by a plain
// rational pivot element.
func divideConstraint(c *model.Constraint, pivot scalar.Scalar) (*model.Constraint, error) {
	if pivot.HasM() {
		return nil, errors.New("simplex: pivot element carries an M component")
	}
	return c.DivRat(pivot.C())
}

// scaleConstraint multiplies a constraint's Left and Right by a plain
// rational factor.
func scaleConstraint(c *model.Constraint, factor scalar.Scalar) (*model.Constraint, error) {
	if factor.HasM() {
		return nil, errors.New("simplex: elimination factor carries an M component")
	}
	return c.MulRat(factor.C()), nil
}

// Snapshot captures the current tableau for the trace.
func Snapshot(m *model.Model, entering, leaving string, pivot *scalar.Scalar, deltas, dualRatios []scalar.Scalar) *trace.Snapshot {
	cols := m.Target.Terms()
	columnNames := make([]string, len(cols))
	objRow := make([]scalar.Scalar, len(cols))
	for j, t := range cols {
		columnNames[j] = t.Var.String()
		objRow[j] = t.Coef
	}

	basisNames := make([]string, len(m.Constraints))
	rhs := make([]scalar.Scalar, len(m.Constraints))
	rows := make([][]scalar.Scalar, len(m.Constraints))
	for i, c := range m.Constraints {
		basisNames[i] = m.Basis[i].String()
		rhs[i] = c.Right
		row := make([]scalar.Scalar, len(cols))
		for j, t := range cols {
			coef, _ := c.Left.Get(t.Var)
			row[j] = coef
		}
		rows[i] = row
	}

	return &trace.Snapshot{
		ObjectiveRow:   objRow,
		Columns:        columnNames,
		BasisNames:     basisNames,
		RHS:            rhs,
		Rows:           rows,
		Deltas:         deltas,
		DualRatios:     dualRatios,
		ObjectiveValue: ObjectiveValue(m),
		Entering:       entering,
		Leaving:        leaving,
		Pivot:          pivot,
	}
}

// ObjectiveValue sums c_basis(i) * rhs_i over the current basis.
func ObjectiveValue(m *model.Model) scalar.Scalar {
	sum := scalar.Zero()
	for i, c := range m.Constraints {
		coef, _ := m.Target.Get(m.Basis[i])
		prod, err := scalar.Mul(coef, c.Right)
		if err != nil {
			panic(errors.Wrap(err, "simplex: objective value"))
		}
		sum = scalar.Add(sum, prod)
	}
	return sum
}

// Run drives the primal loop until OPTIMAL, INFEASIBLE, or UNBOUNDED.
// One snapshot is appended to m.Trace per tableau state (the
// post-canonicalization tableau first, then one after every pivot),
// each labeled with the pivot chosen from that state. The labels are
// empty on an optimal or infeasible tableau; an unbounded tableau's
// snapshot names only the entering column.
func (e *Engine) Run(m *model.Model) trace.Status {
	for iter := 0; iter < e.MaxIterations; iter++ {
		deltas := Deltas(m)
		if IsOptimal(m, deltas) {
			m.Trace = append(m.Trace, Snapshot(m, "", "", nil, deltas, nil))
			if VerifyFeasible(m, Candidate(m)) {
				e.Logger.Debug("simplex: optimal", zap.Int("iteration", iter))
				return trace.Optimal
			}
			e.Logger.Debug("simplex: optimal tableau violates an original constraint", zap.Int("iteration", iter))
			return trace.Infeasible
		}

		colIdx := ChooseColumn(m, deltas)
		enterVar := m.Target.Terms()[colIdx].Var
		row := ChooseRow(m, enterVar)
		if row == -1 {
			m.Trace = append(m.Trace, Snapshot(m, enterVar.String(), "", nil, deltas, nil))
			e.Logger.Debug("simplex: unbounded", zap.Int("iteration", iter), zap.String("entering", enterVar.String()))
			return trace.Unbounded
		}

		leavingVar := m.Basis[row]
		pivotVal, _ := m.Constraints[row].Left.Get(enterVar)
		m.Trace = append(m.Trace, Snapshot(m, enterVar.String(), leavingVar.String(), &pivotVal, deltas, nil))
		Pivot(m, row, enterVar)
		e.Logger.Debug("simplex: pivot",
			zap.Int("iteration", iter),
			zap.String("entering", enterVar.String()),
			zap.String("leaving", leavingVar.String()),
		)
	}

	e.Logger.Debug("simplex: reached max iterations", zap.Int("max", e.MaxIterations))
	return trace.Unsolved
}
