// Package solver wires canonicalization, the primal simplex engine,
// and the Gomory cut engine into a single entry point: Solve(Model)
// returning a Result, plus an accessor for the collected trace.
package solver

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/barsbold-coding/exactlp/internal/canon"
	"github.com/barsbold-coding/exactlp/internal/gomory"
	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/simplex"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

// Solver bundles the primal and cut engines behind one call, sharing
// one logger across both.
type Solver struct {
	Logger        *zap.Logger
	MaxIterations int
	MaxCuts       int
}

// New builds a Solver. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger, maxIterations, maxCuts int) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{Logger: logger, MaxIterations: maxIterations, MaxCuts: maxCuts}
}

// Solve canonicalizes m, runs the primal simplex, and, if m declares
// integer variables and the relaxation is optimal, drives the Gomory
// cut loop, producing the final Result.
func (s *Solver) Solve(m *model.Model) trace.Result {
	canon.Canonicalize(m)

	primalEngine := simplex.NewEngine(s.Logger, s.MaxIterations)
	status := primalEngine.Run(m)

	integerStatus := trace.IntegerNotApplicable
	if status == trace.Optimal {
		gomoryEngine := gomory.NewEngine(s.Logger, s.MaxCuts)
		integerStatus = gomoryEngine.Run(m)
		if integerStatus == trace.IntegerInfeasible {
			status = trace.Infeasible
		}
	}

	return trace.Result{
		Status:         status,
		IntegerStatus:  integerStatus,
		Assignment:     assignmentByName(m),
		ObjectiveValue: simplex.ObjectiveValue(m),
		Snapshots:      m.Trace,
	}
}

// Snapshots returns the trace collected on m so far.
func Snapshots(m *model.Model) []*trace.Snapshot {
	return m.Trace
}

func assignmentByName(m *model.Model) map[string]*big.Rat {
	candidate := simplex.Candidate(m)
	out := make(map[string]*big.Rat, len(candidate))
	for v, val := range candidate {
		out[v.String()] = val
	}
	return out
}
