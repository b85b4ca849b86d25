package datamodel

import (
	"fmt"

	"github.com/verdantio/verdant/fuzzy"
	"github.com/verdantio/verdant/util"
)

// Membership function shapes supported by the rule-table artifact
const (
	ShapeTri  = "tri"
	ShapeTrap = "trap"
)

// TermJSON is the serialized form of one linguistic term
type TermJSON struct {
	Name   string    `json:"name" yaml:"name"`
	Shape  string    `json:"shape" yaml:"shape"`
	Points []float64 `json:"points" yaml:"points"`
}

// ToMembershipFunc converts a TermJSON to a fuzzy.MembershipFunc
func (t *TermJSON) ToMembershipFunc() (mf fuzzy.MembershipFunc, err error) {
	if t.Name == "" {
		err = util.NewNotSpecifiedError("term name")
		return
	}
	switch t.Shape {
	case ShapeTri:
		if len(t.Points) != 3 {
			err = util.NewConfigError(t.Name,
				fmt.Sprintf("term %q: tri needs 3 points, got %d", t.Name, len(t.Points)))
			return
		}
		mf = fuzzy.Trimf(t.Points[0], t.Points[1], t.Points[2])
	case ShapeTrap:
		if len(t.Points) != 4 {
			err = util.NewConfigError(t.Name,
				fmt.Sprintf("term %q: trap needs 4 points, got %d", t.Name, len(t.Points)))
			return
		}
		mf = fuzzy.Trapmf(t.Points[0], t.Points[1], t.Points[2], t.Points[3])
	default:
		err = util.NewConfigError(t.Name,
			fmt.Sprintf("term %q: unknown shape %q", t.Name, t.Shape))
		return
	}
	for i := 1; i < len(t.Points); i++ {
		if t.Points[i] < t.Points[i-1] {
			err = util.NewConfigError(t.Name,
				fmt.Sprintf("term %q: points must be non-decreasing", t.Name))
			return
		}
	}
	return
}

// VariableJSON is the serialized form of a linguistic variable
type VariableJSON struct {
	Name  string     `json:"name" yaml:"name"`
	Min   float64    `json:"min" yaml:"min"`
	Max   float64    `json:"max" yaml:"max"`
	Terms []TermJSON `json:"terms" yaml:"terms"`
}

// ToVariable converts a VariableJSON to a fuzzy.Variable
func (v *VariableJSON) ToVariable() (variable *fuzzy.Variable, err error) {
	if v.Name == "" {
		err = util.NewNotSpecifiedError("variable name")
		return
	}
	if v.Max <= v.Min {
		err = util.NewConfigError(v.Name,
			fmt.Sprintf("variable %q: max must be above min", v.Name))
		return
	}
	if len(v.Terms) == 0 {
		err = util.NewConfigError(v.Name,
			fmt.Sprintf("variable %q has no terms", v.Name))
		return
	}
	variable = fuzzy.NewVariable(v.Name, v.Min, v.Max)
	for i := range v.Terms {
		var mf fuzzy.MembershipFunc
		mf, err = v.Terms[i].ToMembershipFunc()
		if err != nil {
			err = fmt.Errorf("invalid term of variable %q: %v", v.Name, err)
			variable = nil
			return
		}
		variable.AddTerm(v.Terms[i].Name, mf)
	}
	return
}

// ConditionJSON is the serialized form of one rule antecedent
type ConditionJSON struct {
	Variable string `json:"variable" yaml:"variable"`
	Term     string `json:"term" yaml:"term"`
	Negate   bool   `json:"negate,omitempty" yaml:"negate,omitempty"`
}

// RuleJSON is the serialized form of one rule
type RuleJSON struct {
	When []ConditionJSON `json:"when" yaml:"when"`
	Then string          `json:"then" yaml:"then"`
}

// ToRule converts a RuleJSON to a fuzzy.Rule
func (r *RuleJSON) ToRule() fuzzy.Rule {
	conds := make([]fuzzy.Condition, len(r.When))
	for i, c := range r.When {
		conds[i] = fuzzy.Condition{Variable: c.Variable, Term: c.Term, Negate: c.Negate}
	}
	return fuzzy.Rule{Antecedents: conds, Consequent: r.Then}
}

// RuleTableDoc is the versioned rule-table artifact as stored on disk
// (yaml) or sent over apis (json). Changing breakpoints or rules changes
// behavior, so the version should be bumped with any edit.
type RuleTableDoc struct {
	Version    int            `json:"version" yaml:"version"`
	Inputs     []VariableJSON `json:"inputs" yaml:"inputs"`
	Output     VariableJSON   `json:"output" yaml:"output"`
	Rules      []RuleJSON     `json:"rules" yaml:"rules"`
	Resolution float64        `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// ToRuleTable converts the doc to a validated fuzzy.RuleTable
func (d *RuleTableDoc) ToRuleTable() (table *fuzzy.RuleTable, err error) {
	inputs := make([]*fuzzy.Variable, len(d.Inputs))
	for i := range d.Inputs {
		inputs[i], err = d.Inputs[i].ToVariable()
		if err != nil {
			err = fmt.Errorf("invalid input variable: %v", err)
			return
		}
	}
	output, err := d.Output.ToVariable()
	if err != nil {
		err = fmt.Errorf("invalid output variable: %v", err)
		return
	}
	rules := make([]fuzzy.Rule, len(d.Rules))
	for i := range d.Rules {
		rules[i] = d.Rules[i].ToRule()
	}
	table, err = fuzzy.NewRuleTable(inputs, output, rules)
	if err != nil {
		return
	}
	if d.Resolution > 0 {
		table.Resolution = d.Resolution
	}
	return
}
