package model

import (
	"github.com/barsbold-coding/exactlp/internal/trace"
)

// LPType is the optimization sense.
type LPType int

const (
	Min LPType = iota
	Max
)

func (t LPType) String() string {
	if t == Max {
		return "max"
	}
	return "min"
}

// Model is the solver's owned state. A Model is constructed once per
// request, mutated in place through canonicalization/simplex/Gomory,
// and discarded once a Result is produced; no entity is shared
// across Model instances.
type Model struct {
	LPType LPType

	// InitialTarget/InitialConstraints are preserved exactly as parsed,
	// so a candidate optimum can be verified against the problem as the
	// user stated it.
	InitialTarget      *LinearForm
	InitialConstraints []*Constraint

	Target      *LinearForm
	Constraints []*Constraint

	// VariableConstraints holds non-negativity and similar sign
	// restrictions, including those introduced for slack/surplus and
	// artificial variables during canonicalization.
	VariableConstraints []*Constraint

	// PositiveIntegerVariables are those declared "non-negative
	// integer"; a non-empty set drives the Gomory cut engine.
	PositiveIntegerVariables []Variable

	// HighestVariableIndex is monotonically increasing; every new
	// slack, artificial, or Gomory variable extends it.
	HighestVariableIndex int

	// Basis maps a constraint (row) index to its basic variable.
	Basis map[int]Variable

	// GomoryVariables are slacks introduced by cuts, tracked so the
	// cut row selector's anti-cycling rule can recognize them.
	GomoryVariables []Variable

	Trace []*trace.Snapshot
}

// New builds a Model from a parsed objective and constraint set.
// HighestVariableIndex is seeded from the objective's own variables.
func New(lpType LPType, target *LinearForm, constraints []*Constraint, variableConstraints []*Constraint) *Model {
	highest := 0
	for _, t := range target.Terms() {
		if t.Var.Index > highest {
			highest = t.Var.Index
		}
	}

	m := &Model{
		LPType:               lpType,
		InitialTarget:        target.Copy(),
		Target:               target,
		Constraints:          constraints,
		InitialConstraints:   copyConstraints(constraints),
		VariableConstraints:  variableConstraints,
		HighestVariableIndex: highest,
		Basis:                make(map[int]Variable),
	}
	return m
}

func copyConstraints(cs []*Constraint) []*Constraint {
	out := make([]*Constraint, len(cs))
	for i, c := range cs {
		out[i] = c.Copy()
	}
	return out
}

// NextIndex allocates the next variable index and advances the high
// water mark.
func (m *Model) NextIndex() int {
	m.HighestVariableIndex++
	return m.HighestVariableIndex
}

// IsIntegerDeclared reports whether v was declared "non-negative integer".
func (m *Model) IsIntegerDeclared(v Variable) bool {
	for _, iv := range m.PositiveIntegerVariables {
		if iv == v {
			return true
		}
	}
	return false
}

// IsGomorySlack reports whether v was introduced by a Gomory cut.
func (m *Model) IsGomorySlack(v Variable) bool {
	for _, gv := range m.GomoryVariables {
		if gv == v {
			return true
		}
	}
	return false
}
