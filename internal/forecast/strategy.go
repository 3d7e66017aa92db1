package forecast

import (
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/models"
)

// OccurrenceStrategy lists the dates on which a recurring entry is expected
// to hit the account between start and start+horizonDays, both inclusive.
type OccurrenceStrategy interface {
	Occurrences(entry models.RecurringTransaction, start time.Time, horizonDays int) []time.Time
}

// MonthEndStrategy places one occurrence on the last day of every month.
// Rule-backed entries use it since a rule states what is due, not when it was
// last seen.
type MonthEndStrategy struct{}

// Occurrences implements OccurrenceStrategy
func (MonthEndStrategy) Occurrences(_ models.RecurringTransaction, start time.Time, horizonDays int) []time.Time {
	start = dateutils.Day(start)
	date := dateutils.EndOfMonth(start)
	if date.Before(start) {
		date = dateutils.EndOfNextMonth(start)
	}

	var dates []time.Time
	for dateutils.DaysBetween(start, date) <= horizonDays {
		dates = append(dates, date)
		date = dateutils.EndOfNextMonth(date)
	}
	return dates
}

// IntervalStrategy steps from the last charge by the entry's interval.
// Entries without a positive interval never occur.
type IntervalStrategy struct{}

// Occurrences implements OccurrenceStrategy
func (IntervalStrategy) Occurrences(entry models.RecurringTransaction, start time.Time, horizonDays int) []time.Time {
	interval := entry.IntervalDays
	if interval <= 0 {
		return nil
	}
	start = dateutils.Day(start)
	date := dateutils.Day(entry.LastCharged)
	if behind := dateutils.DaysBetween(date, start); behind > 0 {
		steps := (behind + interval - 1) / interval
		date = dateutils.AddDays(date, steps*interval)
	}

	var dates []time.Time
	for dateutils.DaysBetween(start, date) <= horizonDays {
		dates = append(dates, date)
		date = dateutils.AddDays(date, interval)
	}
	return dates
}

// StrategyFor picks the occurrence strategy of an entry
func StrategyFor(entry models.RecurringTransaction) OccurrenceStrategy {
	if entry.IsRuleBacked() {
		return MonthEndStrategy{}
	}
	return IntervalStrategy{}
}
