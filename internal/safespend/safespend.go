// Package safespend estimates how much of the current balance can be spent
// before the next payday without missing a bill.
package safespend

import (
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/recurring"

	"github.com/shopspring/decimal"
)

// DefaultBuffer is kept aside when no buffer is given
var DefaultBuffer = decimal.NewFromInt(500)

const (
	// DefaultMinOccurrences is the detection threshold used for safe-to-spend
	DefaultMinOccurrences = 2
	// DefaultPaydayDays is the assumed distance to payday without recurring income
	DefaultPaydayDays = 30
)

// Input is the data a safe-to-spend estimate is computed from.
// A nil Buffer means the configured buffer; a zero Today means the current day.
type Input struct {
	Balance      decimal.Decimal
	Transactions []models.Transaction
	Rules        []models.ManualRecurringRule
	Buffer       *decimal.Decimal
	Today        time.Time
}

// Config tunes the Calculator
type Config struct {
	DefaultBuffer     decimal.Decimal
	DefaultPaydayDays int
}

// DefaultConfig returns a 500 buffer and a 30 day payday fallback
func DefaultConfig() Config {
	return Config{DefaultBuffer: DefaultBuffer, DefaultPaydayDays: DefaultPaydayDays}
}

// Calculator computes safe-to-spend summaries
type Calculator struct {
	merger *recurring.Merger
	config Config
	logger logging.Logger
}

// NewCalculator creates a Calculator. The merger is used with a detection
// threshold of two occurrences; a nil merger gets the defaults.
func NewCalculator(merger *recurring.Merger, config Config, logger logging.Logger) *Calculator {
	logger = logging.OrDiscard(logger)
	if merger == nil {
		merger = recurring.NewMerger(nil, nil, logger)
	}
	if config.DefaultPaydayDays <= 0 {
		config.DefaultPaydayDays = DefaultPaydayDays
	}
	if config.DefaultBuffer.IsNegative() {
		config.DefaultBuffer = decimal.Zero
	}
	return &Calculator{
		merger: merger.WithMinOccurrences(DefaultMinOccurrences),
		config: config,
		logger: logger,
	}
}

// Calculate merges the history into recurring incomes and expenses, then
// reserves every expense due on or before the next payday.
func (c *Calculator) Calculate(input Input) models.SafeToSpend {
	today := input.Today
	if today.IsZero() {
		today = dateutils.Today()
	}
	today = dateutils.Day(today)

	set := c.merger.MergeAll(input.Transactions, input.Rules, today)
	return c.CalculateFromRecurring(input.Balance, set.Incomes, set.Expenses, input.Buffer, today)
}

// CalculateFromRecurring is Calculate for an already merged recurring set
func (c *Calculator) CalculateFromRecurring(balance decimal.Decimal, incomes, expenses []models.RecurringTransaction, buffer *decimal.Decimal, today time.Time) models.SafeToSpend {
	today = dateutils.Day(today)
	effectiveBuffer := c.config.DefaultBuffer
	if buffer != nil {
		effectiveBuffer = *buffer
	}

	nextPayday := NextPayday(incomes, today, c.config.DefaultPaydayDays)

	reserved := decimal.Zero
	bills := 0
	for _, expense := range expenses {
		if expense.IsExclude {
			continue
		}
		due := expense.NextOccurrence(today)
		if !due.Before(today) && !due.After(nextPayday) {
			reserved = reserved.Add(expense.Amount.Abs())
			bills++
		}
	}

	days := dateutils.DaysBetween(today, nextPayday)
	if days < 0 {
		days = 0
	}

	result := models.SafeToSpend{
		SafeToSpend:      SafeToSpendAmount(balance, reserved, effectiveBuffer),
		ReservedForBills: reserved,
		DaysUntilPayday:  days,
		NextPayday:       nextPayday,
		Buffer:           effectiveBuffer,
		TotalBalance:     balance,
	}

	c.logger.Debug("Safe to spend calculated",
		logging.Field{Key: logging.FieldBalance, Value: balance.StringFixed(2)},
		logging.Field{Key: logging.FieldAmount, Value: result.SafeToSpend.StringFixed(2)},
		logging.Field{Key: logging.FieldCount, Value: bills},
		logging.Field{Key: logging.FieldDate, Value: dateutils.ToISODate(nextPayday)})
	return result
}

// NextPayday is the next occurrence, on or after today, of the largest
// recurring income. Without income it is fallbackDays after today.
func NextPayday(incomes []models.RecurringTransaction, today time.Time, fallbackDays int) time.Time {
	var primary *models.RecurringTransaction
	for i := range incomes {
		if incomes[i].IsExclude {
			continue
		}
		if primary == nil || incomes[i].Amount.GreaterThan(primary.Amount) {
			primary = &incomes[i]
		}
	}
	if primary == nil {
		return dateutils.AddDays(today, fallbackDays)
	}
	return primary.NextOccurrence(today)
}

// SafeToSpendAmount is balance minus reserved bills and buffer, never below zero
func SafeToSpendAmount(balance, reserved, buffer decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, balance.Sub(reserved).Sub(buffer))
}
