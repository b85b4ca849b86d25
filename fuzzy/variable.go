package fuzzy

import (
	"github.com/verdantio/verdant/util"
)

// Variable is a linguistic variable: a named crisp domain with a set of
// named fuzzy terms over it
type Variable struct {
	Name string
	Min  float64
	Max  float64

	terms map[string]MembershipFunc
	order []string
}

// NewVariable creates a Variable over the domain [min, max] with no terms
func NewVariable(name string, min, max float64) *Variable {
	return &Variable{
		name, min, max,
		make(map[string]MembershipFunc), nil,
	}
}

// AddTerm adds a named term to the variable, replacing any previous term
// with the same name
func (v *Variable) AddTerm(name string, mf MembershipFunc) *Variable {
	if _, exists := v.terms[name]; !exists {
		v.order = append(v.order, name)
	}
	v.terms[name] = mf
	return v
}

// Term returns the membership function for the named term
func (v *Variable) Term(name string) (mf MembershipFunc, ok bool) {
	mf, ok = v.terms[name]
	return
}

// TermNames returns the term names in the order they were added
func (v *Variable) TermNames() []string {
	return v.order
}

// Clamp limits x to the variable's domain
func (v *Variable) Clamp(x float64) float64 {
	return util.Clamp(x, v.Min, v.Max)
}

// Fuzzify clamps x to the variable's domain and evaluates every term,
// returning the membership degree per term name
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	x = v.Clamp(x)
	degrees := make(map[string]float64, len(v.terms))
	for name, mf := range v.terms {
		degrees[name] = mf(x)
	}
	return degrees
}
