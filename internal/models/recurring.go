package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency classifies how often a recurring pattern repeats
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// ClassifyFrequency maps a whole interval in days onto a frequency band
func ClassifyFrequency(intervalDays int) Frequency {
	return ClassifyMeanGap(float64(intervalDays))
}

// ClassifyMeanGap maps a mean interval in days onto a frequency band:
// up to 9 weekly, up to 16 bi-weekly, up to 35 monthly, up to 100
// quarterly, above that yearly. A mean of 9.33 is already bi-weekly.
func ClassifyMeanGap(meanDays float64) Frequency {
	switch {
	case meanDays <= 9:
		return FrequencyWeekly
	case meanDays <= 16:
		return FrequencyBiWeekly
	case meanDays <= 35:
		return FrequencyMonthly
	case meanDays <= 100:
		return FrequencyQuarterly
	default:
		return FrequencyYearly
	}
}

// RecurringTransaction is a detected or rule-declared recurring cash flow.
// Occurrences is zero only for a projected rule that no transaction has
// evidenced yet.
type RecurringTransaction struct {
	Description    string          `json:"description" yaml:"description"`
	Category       string          `json:"category" yaml:"category"`
	Amount         decimal.Decimal `json:"amount" yaml:"amount"`
	Frequency      Frequency       `json:"frequency" yaml:"frequency"`
	IntervalDays   int             `json:"interval_days" yaml:"interval_days"`
	LastCharged    time.Time       `json:"last_charged" yaml:"last_charged"`
	Occurrences    int             `json:"occurrences" yaml:"occurrences"`
	TransactionIDs []string        `json:"transaction_ids" yaml:"transaction_ids"`
	IsExclude      bool            `json:"is_exclude,omitempty" yaml:"is_exclude,omitempty"`
	RuleID         string          `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
}

// IsRuleBacked reports whether the entry originated from a manual rule
func (r RecurringTransaction) IsRuleBacked() bool {
	return r.RuleID != ""
}

// IsProjected reports whether the entry is a rule with no observed transactions
func (r RecurringTransaction) IsProjected() bool {
	return r.IsRuleBacked() && r.Occurrences == 0
}

// NextOccurrence advances LastCharged by IntervalDays until it is on or after
// the given day. A non-positive interval leaves LastCharged unchanged.
func (r RecurringTransaction) NextOccurrence(onOrAfter time.Time) time.Time {
	next := r.LastCharged
	if r.IntervalDays <= 0 {
		return next
	}
	for next.Before(onOrAfter) {
		next = next.AddDate(0, 0, r.IntervalDays)
	}
	return next
}

// SortByAmountDesc orders entries by amount, largest first. Equal amounts keep
// their relative order.
func SortByAmountDesc(entries []RecurringTransaction) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})
}
