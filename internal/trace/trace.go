// Package trace holds the tableau snapshot and final result records a
// caller renders however it likes: terminal table, JSON, animation
// frames. It depends only on the scalar package (never on model) so
// the emitted trace stays a thin, decoupled wire shape.
package trace

import (
	"math/big"

	"github.com/barsbold-coding/exactlp/internal/scalar"
)

// Snapshot captures one tableau state: after canonicalization, after
// every primal pivot, after every Gomory cut insertion, and after
// every dual pivot.
type Snapshot struct {
	// ObjectiveRow is the objective coefficient per column, in column order.
	ObjectiveRow []scalar.Scalar
	// Columns names each column's variable, in tableau column order.
	Columns []string
	// BasisNames names the basic variable for each row, in row order.
	BasisNames []string
	// RHS is the right-hand side of each row, in row order.
	RHS []scalar.Scalar
	// Rows holds each row's per-column coefficients, in row order.
	Rows [][]scalar.Scalar
	// Deltas is the reduced-cost vector, in column order.
	Deltas []scalar.Scalar
	// DualRatios holds the Gomory dual-ratio row; nil outside the
	// Gomory phase.
	DualRatios []scalar.Scalar
	// ObjectiveValue is the objective value at this snapshot.
	ObjectiveValue scalar.Scalar
	// Entering/Leaving/Pivot describe the pivot chosen from this
	// tableau; all are zero-valued ("", "", nil) when no pivot remains,
	// except on an unbounded tableau, where Entering names the column
	// that has no eligible pivot row.
	Entering string
	Leaving  string
	Pivot    *scalar.Scalar
}

// Status is the primal solve state.
type Status int

const (
	Unsolved Status = iota
	Optimal
	Infeasible
	Unbounded
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return "unsolved"
	}
}

// IntegerStatus tracks the integrality state of a solution, reusing
// Status's vocabulary rather than introducing a second taxonomy: an
// integer-declared problem is unsolved until every declared variable
// holds an integer value, at which point it becomes optimal, or
// infeasible if the Gomory dual phase runs out of eligible columns.
type IntegerStatus int

const (
	IntegerNotApplicable IntegerStatus = iota
	IntegerUnsolved
	IntegerOptimal
	IntegerInfeasible
)

func (s IntegerStatus) String() string {
	switch s {
	case IntegerOptimal:
		return "optimal"
	case IntegerInfeasible:
		return "infeasible"
	case IntegerUnsolved:
		return "unsolved"
	default:
		return "not_applicable"
	}
}

// Result is the final solve record: primal status, integer-feasibility
// status, the original-variable assignment, and the objective value.
type Result struct {
	Status         Status
	IntegerStatus  IntegerStatus
	Assignment     map[string]*big.Rat
	ObjectiveValue scalar.Scalar
	Snapshots      []*Snapshot
}
