package fuzzy

import (
	"fmt"

	"github.com/verdantio/verdant/util"
)

// DefaultResolution is the sampling step over the output universe used for
// aggregation and defuzzification
const DefaultResolution = 1.0

// RuleTable is a fixed decision table: input variables, one output variable
// and the rules connecting them. It is built (and validated) once and then
// shared by reference; Evaluate has no mutable state.
type RuleTable struct {
	Inputs     []*Variable
	Output     *Variable
	Rules      []Rule
	Resolution float64
}

// NewRuleTable creates a RuleTable and validates it, returning a
// configuration error if any rule references an undefined variable or term
func NewRuleTable(inputs []*Variable, output *Variable, rules []Rule) (t *RuleTable, err error) {
	t = &RuleTable{inputs, output, rules, DefaultResolution}
	if err = t.Validate(); err != nil {
		t = nil
	}
	return
}

// Input returns the input variable with the specified name, or nil
func (t *RuleTable) Input(name string) *Variable {
	for _, v := range t.Inputs {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Validate checks the table for configuration errors: missing variables,
// rules referencing undefined variables or terms, empty rules
func (t *RuleTable) Validate() (err error) {
	if len(t.Inputs) == 0 {
		return util.NewConfigError("inputs", "rule table has no input variables")
	}
	if err = util.CheckNotNil(t.Output, "output variable"); err != nil {
		return
	}
	if len(t.Rules) == 0 {
		return util.NewConfigError("rules", "rule table has no rules")
	}
	if t.Resolution <= 0 {
		return util.NewConfigError("resolution",
			fmt.Sprintf("resolution must be positive: %v", t.Resolution))
	}
	for i, rule := range t.Rules {
		name := fmt.Sprintf("rule %d", i)
		if len(rule.Antecedents) == 0 {
			return util.NewConfigError(name, fmt.Sprintf("%s has no antecedents", name))
		}
		for _, cond := range rule.Antecedents {
			v := t.Input(cond.Variable)
			if v == nil {
				return util.NewConfigError(name,
					fmt.Sprintf("%s references undefined variable %q", name, cond.Variable))
			}
			if _, ok := v.Term(cond.Term); !ok {
				return util.NewConfigError(name,
					fmt.Sprintf("%s references undefined term %q of variable %q",
						name, cond.Term, cond.Variable))
			}
		}
		if _, ok := t.Output.Term(rule.Consequent); !ok {
			return util.NewConfigError(name,
				fmt.Sprintf("%s references undefined output term %q", name, rule.Consequent))
		}
	}
	return nil
}

// Evaluate runs the full inference chain (fuzzification, rule evaluation,
// aggregation, centroid defuzzification) for the specified crisp inputs,
// keyed by input variable name. Inputs outside their domain are clamped;
// missing inputs are treated as the variable's domain minimum. When no rule
// fires at all the result is the output domain minimum.
func (t *RuleTable) Evaluate(inputs map[string]float64) float64 {
	degrees := make(map[string]map[string]float64, len(t.Inputs))
	for _, v := range t.Inputs {
		degrees[v.Name] = v.Fuzzify(inputs[v.Name])
	}

	// max firing strength per output term across all rules
	levels := make(map[string]float64, len(t.Output.TermNames()))
	for i := range t.Rules {
		rule := &t.Rules[i]
		strength := rule.FiringStrength(degrees)
		if strength > levels[rule.Consequent] {
			levels[rule.Consequent] = strength
		}
	}

	return t.defuzzCentroid(levels)
}

// defuzzCentroid computes the center of mass of the aggregate output set,
// sampling the output universe at the table's resolution
func (t *RuleTable) defuzzCentroid(levels map[string]float64) float64 {
	var num, den float64
	out := t.Output
	for y := out.Min; y <= out.Max; y += t.Resolution {
		mu := 0.0
		for term, level := range levels {
			if level == 0 {
				continue
			}
			mf, _ := out.Term(term)
			m := mf(y)
			if level < m {
				m = level
			}
			if m > mu {
				mu = m
			}
		}
		num += y * mu
		den += mu
	}
	if den == 0 {
		return out.Min
	}
	return num / den
}
