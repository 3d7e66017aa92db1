package models

import (
	"github.com/shopspring/decimal"
)

// DayWindow is an inclusive day-of-month range. A window whose Start is
// greater than its End wraps around the month boundary (e.g. 28..3).
type DayWindow struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether the given day of month lies in the window
func (w DayWindow) Contains(day int) bool {
	if w.Start <= w.End {
		return day >= w.Start && day <= w.End
	}
	return day >= w.Start || day <= w.End
}

// ManualRecurringRule is a user-declared recurring pattern. Optional fields
// left nil or empty impose no constraint.
type ManualRecurringRule struct {
	ID             string           `json:"id" yaml:"id"`
	Name           string           `json:"name,omitempty" yaml:"name,omitempty"`
	Direction      Direction        `json:"direction" yaml:"direction"`
	Pattern        string           `json:"pattern" yaml:"pattern"`
	Category       string           `json:"category,omitempty" yaml:"category,omitempty"`
	DayWindow      *DayWindow       `json:"day_window,omitempty" yaml:"day_window,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty" yaml:"expected_amount,omitempty"`
	Tolerance      *float64         `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	IntervalDays   int              `json:"interval_days,omitempty" yaml:"interval_days,omitempty"`
	UseAverage     bool             `json:"use_average" yaml:"use_average"`
	Enabled        bool             `json:"enabled" yaml:"enabled"`
	IsExclude      bool             `json:"is_exclude" yaml:"is_exclude"`
}

// Label is the human readable name of the rule
func (r ManualRecurringRule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}

// HasExpectedAmount reports whether the rule pins an expected amount
func (r ManualRecurringRule) HasExpectedAmount() bool {
	return r.ExpectedAmount != nil
}

// EnabledRules returns the enabled subset of rules, preserving order
func EnabledRules(rules []ManualRecurringRule) []ManualRecurringRule {
	result := make([]ManualRecurringRule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			result = append(result, r)
		}
	}
	return result
}
