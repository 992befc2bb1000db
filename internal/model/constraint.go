package model

import (
	"fmt"
	"math/big"

	"github.com/barsbold-coding/exactlp/internal/scalar"
)

// Constraint is a left-hand LinearForm related to a right-hand scalar
// by one of <=, =, >=.
type Constraint struct {
	Left  *LinearForm
	Sign  Sign
	Right scalar.Scalar
}

// NewConstraint builds a Constraint.
func NewConstraint(left *LinearForm, sign Sign, right scalar.Scalar) *Constraint {
	return &Constraint{Left: left, Sign: sign, Right: right}
}

// Le, Eq, Ge build a constraint with the given relation.
func Le(left *LinearForm, right scalar.Scalar) *Constraint { return NewConstraint(left, LE, right) }
func Eq(left *LinearForm, right scalar.Scalar) *Constraint { return NewConstraint(left, EQ, right) }
func Ge(left *LinearForm, right scalar.Scalar) *Constraint { return NewConstraint(left, GE, right) }

// IsSatisfiedBy evaluates Left against assignment and compares it to
// Right under Sign.
func (c *Constraint) IsSatisfiedBy(assignment map[Variable]*big.Rat) bool {
	lhs := c.Left.Evaluate(assignment)
	switch c.Sign {
	case LE:
		return scalar.LessEqual(lhs, c.Right)
	case GE:
		return scalar.GreaterEqual(lhs, c.Right)
	default:
		return scalar.Equal(lhs, c.Right)
	}
}

// MulRat scales left and right by r, distributing over the whole
// constraint; a negative r flips Sign (= is left unchanged).
func (c *Constraint) MulRat(r *big.Rat) *Constraint {
	sign := c.Sign
	if r.Sign() < 0 {
		sign = sign.Flipped()
	}
	return NewConstraint(c.Left.MulRat(r), sign, scalar.MulRat(c.Right, r))
}

// DivRat divides by r, implemented as multiplication by its
// reciprocal.
func (c *Constraint) DivRat(r *big.Rat) (*Constraint, error) {
	if r.Sign() == 0 {
		return nil, fmt.Errorf("model: division by zero")
	}
	return c.MulRat(new(big.Rat).Inv(r)), nil
}

// Add combines two constraints coefficient-wise on Left and scalar on
// Right; the resulting Sign is taken from c since, post
// canonicalization, every constraint is an equality and the sign is
// irrelevant to the pivot rewrites.
func (c *Constraint) Add(other *Constraint) *Constraint {
	return NewConstraint(c.Left.AddForm(other.Left), c.Sign, scalar.Add(c.Right, other.Right))
}

// Copy returns a deep copy.
func (c *Constraint) Copy() *Constraint {
	return NewConstraint(c.Left.Copy(), c.Sign, c.Right)
}

func (c *Constraint) String() string {
	return fmt.Sprintf("%v %s %s", c.Left.Terms(), c.Sign, c.Right)
}
