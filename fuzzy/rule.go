package fuzzy

import "fmt"

// Condition is a single antecedent clause of a Rule: "variable IS term",
// or "variable IS NOT term" when Negate is set
type Condition struct {
	Variable string
	Term     string
	Negate   bool
}

func (c Condition) String() string {
	if c.Negate {
		return fmt.Sprintf("%s IS NOT %s", c.Variable, c.Term)
	}
	return fmt.Sprintf("%s IS %s", c.Variable, c.Term)
}

// Rule maps a conjunction of antecedent conditions to one output term.
// Antecedents are combined with the minimum T-norm.
type Rule struct {
	Antecedents []Condition
	Consequent  string
}

// FiringStrength computes the degree to which the rule fires given the
// fuzzified input degrees (variable name -> term name -> degree)
func (r *Rule) FiringStrength(degrees map[string]map[string]float64) float64 {
	strength := 1.0
	for _, cond := range r.Antecedents {
		mu := degrees[cond.Variable][cond.Term]
		if cond.Negate {
			mu = 1 - mu
		}
		if mu < strength {
			strength = mu
		}
	}
	return strength
}
