// Package scalar implements the exact Big-M coefficient algebra the
// simplex tableau runs on: every cell is a pair (m, c) of arbitrary
// precision rationals representing m*M + c, where M is a symbolic
// penalty larger than any rational. Keeping M symbolic means the
// dominance of M-terms in a comparison is decided exactly, never by
// substituting a large numeric stand-in.
package scalar

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// ErrUnsupportedOp is returned when a product would multiply two
// scalars that both carry an M component, or when a quotient's divisor
// carries an M component. M is treated as symbolic, so M*M has no
// representation in this algebra.
var ErrUnsupportedOp = errors.New("scalar: operation requires multiplying or dividing by an M-bearing value")

// Scalar is an exact value m*M + c. The zero value is the exact
// number 0.
type Scalar struct {
	m *big.Rat
	c *big.Rat
}

func ratOrZero(r *big.Rat) *big.Rat {
	if r == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(r)
}

// New builds m*M + c from two rationals. Either may be nil, meaning 0.
func New(m, c *big.Rat) Scalar {
	return Scalar{m: ratOrZero(m), c: ratOrZero(c)}
}

// Zero is the exact value 0.
func Zero() Scalar { return New(nil, nil) }

// FromRat lifts a plain rational to 0*M + c.
func FromRat(c *big.Rat) Scalar { return New(nil, c) }

// FromInt lifts a plain integer to 0*M + n.
func FromInt(n int64) Scalar { return New(nil, big.NewRat(n, 1)) }

// FromFraction lifts num/den to 0*M + num/den.
func FromFraction(num, den int64) Scalar { return New(nil, big.NewRat(num, den)) }

// FromM builds a pure penalty term mult*M + 0.
func FromM(mult *big.Rat) Scalar { return New(mult, nil) }

// M returns the coefficient of the symbolic penalty term.
func (s Scalar) M() *big.Rat { return ratOrZero(s.m) }

// C returns the plain-rational component.
func (s Scalar) C() *big.Rat { return ratOrZero(s.c) }

// HasM reports whether the M-component is nonzero.
func (s Scalar) HasM() bool { return s.M().Sign() != 0 }

// IsZero reports whether the value is exactly 0.
func (s Scalar) IsZero() bool { return s.M().Sign() == 0 && s.C().Sign() == 0 }

// Add returns s + o, componentwise.
func Add(s, o Scalar) Scalar {
	return New(new(big.Rat).Add(s.M(), o.M()), new(big.Rat).Add(s.C(), o.C()))
}

// Sub returns s - o, componentwise.
func Sub(s, o Scalar) Scalar {
	return New(new(big.Rat).Sub(s.M(), o.M()), new(big.Rat).Sub(s.C(), o.C()))
}

// Neg returns -s.
func Neg(s Scalar) Scalar {
	return New(new(big.Rat).Neg(s.M()), new(big.Rat).Neg(s.C()))
}

// MulRat scales both components of s by the plain rational r. This is
// always defined: a plain rational never carries an M component.
func MulRat(s Scalar, r *big.Rat) Scalar {
	return New(new(big.Rat).Mul(s.M(), r), new(big.Rat).Mul(s.C(), r))
}

// DivRat divides both components of s by the plain rational r.
func DivRat(s Scalar, r *big.Rat) (Scalar, error) {
	if r.Sign() == 0 {
		return Scalar{}, errors.New("scalar: division by zero rational")
	}
	return New(new(big.Rat).Quo(s.M(), r), new(big.Rat).Quo(s.C(), r)), nil
}

// Mul multiplies two scalars. The product is defined only when at
// least one factor has m=0 (a plain rational); M is never squared.
func Mul(a, b Scalar) (Scalar, error) {
	switch {
	case !a.HasM():
		return MulRat(b, a.C()), nil
	case !b.HasM():
		return MulRat(a, b.C()), nil
	default:
		return Scalar{}, errors.Wrap(ErrUnsupportedOp, "cannot multiply two M-bearing scalars")
	}
}

// Div divides a by b. The quotient is defined only when the divisor
// has m=0; dividing by an M-bearing scalar is rejected.
func Div(a, b Scalar) (Scalar, error) {
	if b.HasM() {
		return Scalar{}, errors.Wrap(ErrUnsupportedOp, "cannot divide by an M-bearing scalar")
	}
	return DivRat(a, b.C())
}

// Cmp orders scalars: x<y iff x.m<y.m, or x.m==y.m and x.c<y.c.
func Cmp(a, b Scalar) int {
	if c := a.M().Cmp(b.M()); c != 0 {
		return c
	}
	return a.C().Cmp(b.C())
}

// Less reports whether a < b.
func Less(a, b Scalar) bool { return Cmp(a, b) < 0 }

// LessEqual reports whether a <= b.
func LessEqual(a, b Scalar) bool { return Cmp(a, b) <= 0 }

// Greater reports whether a > b.
func Greater(a, b Scalar) bool { return Cmp(a, b) > 0 }

// GreaterEqual reports whether a >= b.
func GreaterEqual(a, b Scalar) bool { return Cmp(a, b) >= 0 }

// Equal reports componentwise equality.
func Equal(a, b Scalar) bool { return a.M().Cmp(b.M()) == 0 && a.C().Cmp(b.C()) == 0 }

// EqualRat reports whether s equals the plain rational r, i.e. m=0 and c=r.
func (s Scalar) EqualRat(r *big.Rat) bool { return !s.HasM() && s.C().Cmp(r) == 0 }

// RenderRat formats a plain rational as "p/q", or just "p" when q==1.
func RenderRat(r *big.Rat) string {
	if r == nil {
		return "0"
	}
	if r.IsInt() {
		return r.Num().String()
	}
	return fmt.Sprintf("%s/%s", r.Num().String(), r.Denom().String())
}

// String renders "0" if both components are zero; else "[sign][|m|]M"
// optionally joined with "[± |c|]".
func (s Scalar) String() string {
	if s.IsZero() {
		return "0"
	}
	if !s.HasM() {
		return RenderRat(s.C())
	}

	m := s.M()
	absM := new(big.Rat).Abs(m)
	mPart := "M"
	one := big.NewRat(1, 1)
	if absM.Cmp(one) != 0 {
		mPart = RenderRat(absM) + "M"
	}
	if m.Sign() < 0 {
		mPart = "-" + mPart
	}

	if s.C().Sign() == 0 {
		return mPart
	}

	c := s.C()
	sign := "+"
	absC := new(big.Rat).Abs(c)
	if c.Sign() < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s %s %s", mPart, sign, RenderRat(absC))
}
