package store

import (
	"fmt"

	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/parsererror"

	"github.com/google/uuid"
)

// NewRuleID returns a fresh random rule identifier
func NewRuleID() string {
	return uuid.NewString()
}

// ValidateRules checks every rule and the uniqueness of their ids
func ValidateRules(rules []models.ManualRecurringRule) error {
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if err := ValidateRule(rule); err != nil {
			return err
		}
		if _, dup := seen[rule.ID]; dup {
			return &parsererror.ValidationError{Subject: "rule " + rule.ID, Reason: "duplicate rule id"}
		}
		seen[rule.ID] = struct{}{}
	}
	return nil
}

// ValidateRule checks the ranges of a single rule. Absent optional fields
// are always valid.
func ValidateRule(rule models.ManualRecurringRule) error {
	invalid := func(field, reason string) error {
		return &parsererror.ValidationError{Subject: "rule " + rule.Label(), Field: field, Reason: reason}
	}

	if rule.ID == "" {
		return invalid("id", "must not be empty")
	}
	if !rule.Direction.IsValid() {
		return invalid("direction", fmt.Sprintf("must be CREDIT or DEBIT, got %q", string(rule.Direction)))
	}
	if w := rule.DayWindow; w != nil {
		if w.Start < 1 || w.Start > 31 || w.End < 1 || w.End > 31 {
			return invalid("day_window", "must be within 1-31")
		}
	}
	if rule.Tolerance != nil && *rule.Tolerance < 0 {
		return invalid("tolerance", "must not be negative")
	}
	if rule.ExpectedAmount != nil && rule.ExpectedAmount.IsNegative() {
		return invalid("expected_amount", "must not be negative")
	}
	if rule.IntervalDays < 0 {
		return invalid("interval_days", "must not be negative")
	}
	return nil
}

// FindRule returns the index of the rule with the given id, or -1
func FindRule(rules []models.ManualRecurringRule, id string) int {
	for i, rule := range rules {
		if rule.ID == id {
			return i
		}
	}
	return -1
}

// UpsertRule replaces the rule with the same id or appends it. A rule
// without id gets a new one.
func UpsertRule(rules []models.ManualRecurringRule, rule models.ManualRecurringRule) ([]models.ManualRecurringRule, models.ManualRecurringRule) {
	if rule.ID == "" {
		rule.ID = NewRuleID()
	}
	if i := FindRule(rules, rule.ID); i >= 0 {
		rules[i] = rule
		return rules, rule
	}
	return append(rules, rule), rule
}

// RemoveRule drops the rule with the given id and reports whether it existed
func RemoveRule(rules []models.ManualRecurringRule, id string) ([]models.ManualRecurringRule, bool) {
	i := FindRule(rules, id)
	if i < 0 {
		return rules, false
	}
	return append(rules[:i:i], rules[i+1:]...), true
}

// SetRuleEnabled toggles a rule and reports whether it existed
func SetRuleEnabled(rules []models.ManualRecurringRule, id string, enabled bool) bool {
	i := FindRule(rules, id)
	if i < 0 {
		return false
	}
	rules[i].Enabled = enabled
	return true
}
