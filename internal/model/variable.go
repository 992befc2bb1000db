// Package model holds the data types the simplex core operates on:
// variables, linear forms, constraints, and the overall solver state.
// Variable and LinearForm know nothing about Constraint; the
// relational helpers that build one (Le, Eq, Ge) live as free
// functions so the dependency runs in a single direction.
package model

import "fmt"

// Variable is a decision-variable identity: a name and a 1-based
// index. Two variables are the same identity iff both fields match;
// any associated coefficient lives alongside it in a Term, never in
// Variable itself.
type Variable struct {
	Name  string
	Index int
}

func (v Variable) String() string {
	return fmt.Sprintf("%s%d", v.Name, v.Index)
}

// Sign is a constraint relation.
type Sign int

const (
	LE Sign = iota
	EQ
	GE
)

func (s Sign) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// Flipped returns the sign with <= and >= swapped; = is unchanged.
// flipped(flipped(s)) == s for every sign, and a negative scalar
// multiply of a Constraint calls this exactly once.
func (s Sign) Flipped() Sign {
	switch s {
	case LE:
		return GE
	case GE:
		return LE
	default:
		return EQ
	}
}
