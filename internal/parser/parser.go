// Package parser turns a textual program into a *model.Model. The
// grammar is newline-delimited: an objective line ("MAX Z = 3x1+2x2"),
// constraint lines ("20x1+30x2<=3000"), and an optional trailing line
// of sign bounds and/or an integrality declaration, joined by "and".
package parser

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/barsbold-coding/exactlp/internal/model"
	"github.com/barsbold-coding/exactlp/internal/scalar"
)

var (
	termRe      = regexp.MustCompile(`^((?:\d+/\d+)|\d+)?([A-Za-z]+)(\d+)$`)
	variableRe  = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
	signedRe    = regexp.MustCompile(`[+-][^+-]+`)
	andClauseRe = regexp.MustCompile(`(?i)\s+and\s+`)
)

// ParseModel parses the full textual input (objective line, constraint
// lines, optional trailing sign/integrality clause) into a Model ready
// for canonicalization.
func ParseModel(input string) (*model.Model, error) {
	lines := nonEmptyLines(input)
	if len(lines) < 2 {
		return nil, errors.New("parser: expected an objective line followed by at least one constraint")
	}

	lpType, targetExpr, err := parseObjectiveLine(lines[0])
	if err != nil {
		return nil, err
	}
	target, err := parseExpression(targetExpr)
	if err != nil {
		return nil, errors.Wrap(err, "parser: objective function")
	}

	body := lines[1:]
	var trailing string
	hasTrailing := false
	if n := len(body); n > 0 && isSignOrIntegralityClause(body[n-1]) {
		trailing = body[n-1]
		body = body[:n-1]
		hasTrailing = true
	}

	constraints := make([]*model.Constraint, 0, len(body))
	for i, line := range body {
		c, err := parseConstraintLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "parser: constraint %d", i+1)
		}
		constraints = append(constraints, c)
	}

	m := model.New(lpType, target, constraints, nil)
	for _, v := range collectVariables(target, constraints) {
		m.VariableConstraints = append(m.VariableConstraints,
			model.Ge(model.NewLinearForm(model.Term{Var: v, Coef: scalar.FromInt(1)}), scalar.Zero()))
	}

	if hasTrailing {
		if err := applyTrailingClause(m, trailing); err != nil {
			return nil, errors.Wrap(err, "parser: sign/integrality clause")
		}
	}
	return m, nil
}

// isSignOrIntegralityClause reports whether line looks like the
// trailing clause rather than a general constraint: it names one or
// more bare variables (no coefficients) and either a relation plus a
// rational, or the "non-negative integer(s)" phrase, possibly both
// joined by "and".
func isSignOrIntegralityClause(line string) bool {
	if strings.Contains(strings.ToLower(line), "integer") {
		return true
	}
	half := andClauseRe.Split(line, -1)[0]
	_, idx := findRelation(half)
	if idx == -1 {
		return false
	}
	lhs := strings.TrimSpace(half[:idx])
	for _, tok := range strings.Split(lhs, ",") {
		if _, err := parseVariableName(tok); err != nil {
			return false
		}
	}
	return true
}

func parseObjectiveLine(line string) (model.LPType, string, error) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return 0, "", errors.New("parser: objective line too short")
	}
	sense := strings.ToUpper(trimmed[:3])
	var lpType model.LPType
	switch sense {
	case "MAX":
		lpType = model.Max
	case "MIN":
		lpType = model.Min
	default:
		return 0, "", errors.Errorf("parser: objective line must start with MIN or MAX, got %q", sense)
	}

	idx := strings.Index(trimmed, "=")
	if idx == -1 {
		return 0, "", errors.New("parser: objective line missing '='")
	}
	return lpType, trimmed[idx+1:], nil
}

func parseConstraintLine(line string) (*model.Constraint, error) {
	rel, idx := findRelation(line)
	if idx == -1 {
		return nil, errors.New("parser: missing relation (expected <=, >=, or =)")
	}
	lhs, rhs := line[:idx], line[idx+len(rel):]

	left, err := parseExpression(lhs)
	if err != nil {
		return nil, errors.Wrap(err, "left-hand side")
	}
	right, err := parseRational(rhs)
	if err != nil {
		return nil, errors.Wrap(err, "right-hand side")
	}
	return model.NewConstraint(left, relationSign(rel), scalar.FromRat(right)), nil
}

// applyTrailingClause handles the final input line: one or two clauses
// joined by the literal "and", each either a bound on a bare variable
// list or a "non-negative integers" integrality declaration.
func applyTrailingClause(m *model.Model, line string) error {
	for _, clause := range andClauseRe.Split(line, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		lower := strings.ToLower(clause)
		if strings.Contains(lower, "integer") {
			cut := strings.Index(lower, "non-negative")
			if cut == -1 {
				cut = strings.Index(lower, "integer")
			}
			varlist := clause[:cut]
			for _, tok := range strings.Split(varlist, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				v, err := parseVariableName(tok)
				if err != nil {
					return err
				}
				m.PositiveIntegerVariables = append(m.PositiveIntegerVariables, v)
			}
			continue
		}

		rel, idx := findRelation(clause)
		if idx == -1 {
			return errors.Errorf("parser: malformed sign clause %q", clause)
		}
		rhs, err := parseRational(clause[idx+len(rel):])
		if err != nil {
			return err
		}
		for _, tok := range strings.Split(clause[:idx], ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := parseVariableName(tok)
			if err != nil {
				return err
			}
			left := model.NewLinearForm(model.Term{Var: v, Coef: scalar.FromInt(1)})
			bound := model.NewConstraint(left, relationSign(rel), scalar.FromRat(rhs))
			if rhs.Sign() == 0 {
				// A zero bound is a sign restriction, not a tableau row;
				// non-negativity is already registered for every parsed
				// variable, so only the unusual <=0/=0 cases add anything.
				if relationSign(rel) != model.GE {
					m.VariableConstraints = append(m.VariableConstraints, bound)
				}
				continue
			}
			m.Constraints = append(m.Constraints, bound)
			m.InitialConstraints = append(m.InitialConstraints, bound.Copy())
		}
	}
	return nil
}

// findRelation locates the first of <=, >=, = in s, preferring the
// two-character relations so "=" doesn't falsely match inside them.
func findRelation(s string) (string, int) {
	for _, rel := range []string{"<=", ">=", "="} {
		if idx := strings.Index(s, rel); idx != -1 {
			return rel, idx
		}
	}
	return "", -1
}

func relationSign(rel string) model.Sign {
	switch rel {
	case "<=":
		return model.LE
	case ">=":
		return model.GE
	default:
		return model.EQ
	}
}

// parseExpression splits expr into signed terms and parses each as a
// coefficient/variable pair.
func parseExpression(expr string) (*model.LinearForm, error) {
	lf := model.NewLinearForm()
	for _, tok := range splitSignedTerms(expr) {
		sign := int64(1)
		if tok[0] == '-' {
			sign = -1
		}
		v, coef, ok := matchVariableTerm(tok[1:])
		if !ok {
			return nil, errors.Errorf("parser: invalid term %q", tok)
		}
		if sign < 0 {
			coef = new(big.Rat).Neg(coef)
		}
		lf.AddTerm(model.Term{Var: v, Coef: scalar.FromRat(coef)})
	}
	return lf, nil
}

// splitSignedTerms normalizes expr (strips whitespace, forces a
// leading sign) and splits it into tokens of the form "[+-]<term>".
func splitSignedTerms(expr string) []string {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return nil
	}
	if expr[0] != '+' && expr[0] != '-' {
		expr = "+" + expr
	}
	return signedRe.FindAllString(expr, -1)
}

// matchVariableTerm parses a single term of the form
// [integer/][integer]?[letters][integer], with a missing coefficient
// meaning 1.
func matchVariableTerm(body string) (model.Variable, *big.Rat, bool) {
	m := termRe.FindStringSubmatch(body)
	if m == nil {
		return model.Variable{}, nil, false
	}
	magnitude, name, idxStr := m[1], m[2], m[3]
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return model.Variable{}, nil, false
	}

	var coef *big.Rat
	switch {
	case magnitude == "":
		coef = big.NewRat(1, 1)
	case strings.Contains(magnitude, "/"):
		parts := strings.SplitN(magnitude, "/", 2)
		n, errN := strconv.ParseInt(parts[0], 10, 64)
		d, errD := strconv.ParseInt(parts[1], 10, 64)
		if errN != nil || errD != nil || d == 0 {
			return model.Variable{}, nil, false
		}
		coef = big.NewRat(n, d)
	default:
		n, errN := strconv.ParseInt(magnitude, 10, 64)
		if errN != nil {
			return model.Variable{}, nil, false
		}
		coef = big.NewRat(n, 1)
	}
	return model.Variable{Name: name, Index: idx}, coef, true
}

func parseVariableName(s string) (model.Variable, error) {
	s = strings.TrimSpace(s)
	m := variableRe.FindStringSubmatch(s)
	if m == nil {
		return model.Variable{}, errors.Errorf("parser: invalid variable name %q", s)
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return model.Variable{}, errors.Wrapf(err, "parser: invalid variable index in %q", s)
	}
	return model.Variable{Name: m[1], Index: idx}, nil
}

func parseRational(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		n, errN := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		d, errD := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if errN != nil || errD != nil || d == 0 {
			return nil, errors.Errorf("parser: invalid rational %q", s)
		}
		return big.NewRat(n, d), nil
	}
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return nil, errors.Errorf("parser: invalid rational %q", s)
	}
	return r, nil
}

func collectVariables(target *model.LinearForm, constraints []*model.Constraint) []model.Variable {
	seen := make(map[model.Variable]bool)
	var out []model.Variable
	add := func(v model.Variable) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, t := range target.Terms() {
		add(t.Var)
	}
	for _, c := range constraints {
		for _, t := range c.Left.Terms() {
			add(t.Var)
		}
	}
	return out
}

func nonEmptyLines(input string) []string {
	var out []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
