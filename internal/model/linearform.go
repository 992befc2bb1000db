package model

import (
	"math/big"

	"github.com/barsbold-coding/exactlp/internal/scalar"
)

// Term bundles a Variable identity with a scalar coefficient.
type Term struct {
	Var  Variable
	Coef scalar.Scalar
}

// Negate returns a copy of t with its coefficient sign flipped.
func (t Term) Negate() Term {
	return Term{Var: t.Var, Coef: scalar.Neg(t.Coef)}
}

// LinearForm is an ordered sequence of Terms over distinct variable
// identities. Insertion order is preserved, with new identities placed
// so that a given variable name's indices stay ascending within their
// block; this is what keeps column ordering, and therefore pivot
// tie-breaking, deterministic.
type LinearForm struct {
	terms []Term
	index map[Variable]int
}

// NewLinearForm builds an empty form, optionally seeded with terms.
func NewLinearForm(terms ...Term) *LinearForm {
	lf := &LinearForm{index: make(map[Variable]int)}
	for _, t := range terms {
		lf.AddTerm(t)
	}
	return lf
}

// Terms returns the ordered term list. Callers must not mutate the
// returned slice's elements through the Variable field; the
// coefficient can be read freely.
func (lf *LinearForm) Terms() []Term {
	out := make([]Term, len(lf.terms))
	copy(out, lf.terms)
	return out
}

// Len reports how many distinct variables appear in the form.
func (lf *LinearForm) Len() int { return len(lf.terms) }

// Get returns the coefficient for v and whether v is present at all.
func (lf *LinearForm) Get(v Variable) (scalar.Scalar, bool) {
	if i, ok := lf.index[v]; ok {
		return lf.terms[i].Coef, true
	}
	return scalar.Scalar{}, false
}

// Set inserts or overwrites the coefficient of v.
func (lf *LinearForm) Set(v Variable, s scalar.Scalar) {
	if i, ok := lf.index[v]; ok {
		lf.terms[i].Coef = s
		return
	}
	lf.insert(Term{Var: v, Coef: s})
}

// AddTerm adds t to the form: if t's identity is already present, its
// coefficient is incremented; otherwise t is inserted in deterministic
// position.
func (lf *LinearForm) AddTerm(t Term) {
	if i, ok := lf.index[t.Var]; ok {
		lf.terms[i].Coef = scalar.Add(lf.terms[i].Coef, t.Coef)
		return
	}
	lf.insert(t)
}

func (lf *LinearForm) insert(t Term) {
	at := len(lf.terms)
	for i, existing := range lf.terms {
		if existing.Var.Name == t.Var.Name && existing.Var.Index > t.Var.Index {
			at = i
			break
		}
	}
	lf.terms = append(lf.terms, Term{})
	copy(lf.terms[at+1:], lf.terms[at:])
	lf.terms[at] = t
	lf.reindex()
}

func (lf *LinearForm) reindex() {
	lf.index = make(map[Variable]int, len(lf.terms))
	for i, t := range lf.terms {
		lf.index[t.Var] = i
	}
}

// Remove deletes v from the form, if present. Used when an artificial
// variable leaves the basis for good: it is dropped from the objective
// and from every row so no trace of its column remains anywhere in the
// tableau.
func (lf *LinearForm) Remove(v Variable) {
	i, ok := lf.index[v]
	if !ok {
		return
	}
	lf.terms = append(lf.terms[:i], lf.terms[i+1:]...)
	lf.reindex()
}

// AddForm returns a new LinearForm that is the coefficient-wise join
// of lf and other on identity; missing identities on either side are
// introduced with a zero coefficient.
func (lf *LinearForm) AddForm(other *LinearForm) *LinearForm {
	result := lf.Copy()
	for _, t := range other.Terms() {
		result.AddTerm(t)
	}
	return result
}

// MulRat scales every coefficient by the plain rational r.
func (lf *LinearForm) MulRat(r *big.Rat) *LinearForm {
	result := NewLinearForm()
	for _, t := range lf.terms {
		result.insert(Term{Var: t.Var, Coef: scalar.MulRat(t.Coef, r)})
	}
	return result
}

// Evaluate sums coef*assignment[v] over every term; a variable
// missing from the assignment contributes zero.
func (lf *LinearForm) Evaluate(assignment map[Variable]*big.Rat) scalar.Scalar {
	sum := scalar.Zero()
	for _, t := range lf.terms {
		v, ok := assignment[t.Var]
		if !ok {
			continue
		}
		sum = scalar.Add(sum, scalar.MulRat(t.Coef, v))
	}
	return sum
}

// Copy returns a deep copy of lf.
func (lf *LinearForm) Copy() *LinearForm {
	cp := &LinearForm{
		terms: make([]Term, len(lf.terms)),
		index: make(map[Variable]int, len(lf.index)),
	}
	copy(cp.terms, lf.terms)
	for k, v := range lf.index {
		cp.index[k] = v
	}
	return cp
}
