package cleaning

import (
	"fmt"
	"math"

	"surveyclean/pkg/contracts/domain"
)

// Rule pairs a row-level violation predicate with a corrective action.
// Only one concrete rule ships today, but corrections are expressed
// through this type rather than hard-wired into control flow so further
// rules slot in without touching the validator.
type Rule struct {
	Name        string
	Description string

	// Applicable reports whether the table carries the columns the
	// rule needs.
	Applicable func(t *domain.Table) bool

	// Violates reports whether row i violates the rule.
	Violates func(t *domain.Table, i int) bool

	// Correct fixes row i in place.
	Correct func(t *domain.Table, i int)
}

// ageEmploymentRule: respondents under 18 cannot be recorded as employed.
// The correction forces Employment_Status to "Unemployed"; the forced
// value is a fixed survey policy, not configurable for now.
var ageEmploymentRule = Rule{
	Name:        "age_employment",
	Description: "Age < 18 and Employed",
	Applicable: func(t *domain.Table) bool {
		age := t.Column("Age")
		status := t.Column("Employment_Status")
		return age != nil && age.IsNumeric() && status != nil
	},
	Violates: func(t *domain.Table, i int) bool {
		age := t.Column("Age").Float[i]
		status := t.Column("Employment_Status")
		return !math.IsNaN(age) && age < 18 && status.CellString(i) == "Employed"
	},
	Correct: func(t *domain.Table, i int) {
		t.Column("Employment_Status").Text[i] = "Unemployed"
	},
}

// Validate applies the survey consistency rule to the table, correcting
// violating rows in a copy, and returns the new table plus one log line.
// When the required columns are absent the table passes through untouched.
func Validate(t *domain.Table) (*domain.Table, string) {
	return applyRule(t, ageEmploymentRule)
}

func applyRule(t *domain.Table, rule Rule) (*domain.Table, string) {
	out := t.Clone()
	if !rule.Applicable(out) {
		return out, "Could not apply age/employment rule: required columns not found."
	}

	count := 0
	for i := 0; i < out.RowCount(); i++ {
		if rule.Violates(out, i) {
			rule.Correct(out, i)
			count++
		}
	}

	if count == 0 {
		return out, "No rule violations found."
	}
	return out, fmt.Sprintf("Found %d rule violation(s): %s. Correcting status to 'Unemployed'.", count, rule.Description)
}
