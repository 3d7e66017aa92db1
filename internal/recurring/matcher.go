package recurring

import (
	"math"
	"sort"
	"strings"
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/textutils"

	"github.com/shopspring/decimal"
)

// MatcherConfig holds the fallbacks used when a rule leaves a field unset
type MatcherConfig struct {
	// DefaultIntervalDays applies to rules without a declared interval
	DefaultIntervalDays int
	// DefaultTolerance applies to rules with an expected amount but no tolerance
	DefaultTolerance float64
}

// DefaultMatcherConfig returns the standard rule fallbacks
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		DefaultIntervalDays: models.DefaultIntervalDays,
		DefaultTolerance:    0.10,
	}
}

// RuleMatcher evaluates manual recurring rules against a transaction set.
// It works independently of automatic detection.
type RuleMatcher struct {
	config MatcherConfig
	logger logging.Logger
}

// NewRuleMatcher creates a RuleMatcher
func NewRuleMatcher(config MatcherConfig, logger logging.Logger) *RuleMatcher {
	if config.DefaultIntervalDays <= 0 {
		config.DefaultIntervalDays = models.DefaultIntervalDays
	}
	if config.DefaultTolerance < 0 {
		config.DefaultTolerance = 0
	}
	return &RuleMatcher{config: config, logger: logging.OrDiscard(logger)}
}

// Match applies every enabled rule to the transactions and returns one entry
// per rule that matched something, plus projected entries for rules nothing
// has evidenced yet. Exclusion rules yield zero-amount entries flagged
// IsExclude.
//
// context is the direction of the transaction set. When it is
// DirectionUnknown the direction of the first transaction is used; an empty
// set with an unknown context accepts projected rules of either direction.
func (m *RuleMatcher) Match(transactions []models.Transaction, rules []models.ManualRecurringRule, context models.Direction, today time.Time) []models.RecurringTransaction {
	if context == models.DirectionUnknown && len(transactions) > 0 {
		context = transactions[0].Direction
	}

	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	result := make([]models.RecurringTransaction, 0)
	for _, rule := range models.EnabledRules(rules) {
		matched := make([]models.Transaction, 0)
		for _, tx := range sorted {
			if m.matches(rule, tx) {
				matched = append(matched, tx)
			}
		}

		log := m.logger.WithFields(
			logging.Field{Key: logging.FieldRuleID, Value: rule.ID},
			logging.Field{Key: logging.FieldCount, Value: len(matched)})

		switch {
		case len(matched) == 0:
			if m.projects(rule, context) {
				log.Debug("Rule projected without observed transactions")
				result = append(result, m.projected(rule, today))
			}
		case rule.IsExclude:
			log.Debug("Exclusion rule matched transactions")
			result = append(result, exclusion(rule, matched))
		default:
			log.Debug("Rule matched transactions")
			result = append(result, m.observed(rule, matched))
		}
	}
	return result
}

// matches is the conjunction of every constraint the rule declares
func (m *RuleMatcher) matches(rule models.ManualRecurringRule, tx models.Transaction) bool {
	return tx.Direction == rule.Direction &&
		patternMatches(rule.Pattern, tx.Description) &&
		categoryMatches(rule.Category, tx.Category) &&
		dayWindowMatches(rule.DayWindow, tx.Date) &&
		m.amountMatches(rule, tx.Amount)
}

func patternMatches(pattern, description string) bool {
	if pattern == "" {
		return true
	}
	normalizedPattern := textutils.Normalize(pattern)
	if normalizedPattern != "" && textutils.ContainsFold(textutils.Normalize(description), normalizedPattern) {
		return true
	}
	return textutils.ContainsFold(description, pattern)
}

func categoryMatches(category, txCategory string) bool {
	return category == "" || strings.EqualFold(strings.TrimSpace(category), strings.TrimSpace(txCategory))
}

func dayWindowMatches(window *models.DayWindow, date time.Time) bool {
	return window == nil || window.Contains(date.Day())
}

func (m *RuleMatcher) amountMatches(rule models.ManualRecurringRule, amount decimal.Decimal) bool {
	if rule.ExpectedAmount == nil {
		return true
	}
	tolerance := m.config.DefaultTolerance
	if rule.Tolerance != nil {
		tolerance = math.Max(0, *rule.Tolerance)
	}
	expected := *rule.ExpectedAmount
	delta := expected.Mul(decimal.NewFromFloat(tolerance)).Abs()
	return amount.GreaterThanOrEqual(expected.Sub(delta)) && amount.LessThanOrEqual(expected.Add(delta))
}

func (m *RuleMatcher) projects(rule models.ManualRecurringRule, context models.Direction) bool {
	if rule.IsExclude {
		return false
	}
	if rule.Pattern == "" && rule.ExpectedAmount == nil {
		return false
	}
	return context == models.DirectionUnknown || context == rule.Direction
}

func (m *RuleMatcher) declaredInterval(rule models.ManualRecurringRule) int {
	if rule.IntervalDays > 0 {
		return rule.IntervalDays
	}
	return m.config.DefaultIntervalDays
}

func (m *RuleMatcher) projected(rule models.ManualRecurringRule, today time.Time) models.RecurringTransaction {
	amount := decimal.Zero
	if rule.ExpectedAmount != nil {
		amount = *rule.ExpectedAmount
	}
	interval := m.declaredInterval(rule)
	return models.RecurringTransaction{
		Description:    rule.Label(),
		Category:       rule.Category,
		Amount:         amount,
		Frequency:      models.ClassifyFrequency(interval),
		IntervalDays:   interval,
		LastCharged:    dateutils.Day(today),
		Occurrences:    0,
		TransactionIDs: []string{},
		RuleID:         rule.ID,
	}
}

func exclusion(rule models.ManualRecurringRule, matched []models.Transaction) models.RecurringTransaction {
	last := matched[len(matched)-1]
	return models.RecurringTransaction{
		Description:    rule.Label(),
		Category:       last.Category,
		Amount:         decimal.Zero,
		LastCharged:    last.Date,
		Occurrences:    len(matched),
		TransactionIDs: transactionIDs(matched),
		IsExclude:      true,
		RuleID:         rule.ID,
	}
}

func (m *RuleMatcher) observed(rule models.ManualRecurringRule, matched []models.Transaction) models.RecurringTransaction {
	last := matched[len(matched)-1]

	interval := m.declaredInterval(rule)
	if len(matched) >= 2 {
		span := dateutils.DaysBetween(matched[0].Date, last.Date)
		if mean := float64(span) / float64(len(matched)-1); mean > 0 {
			interval = int(math.Round(mean))
		}
	}

	sum := decimal.Zero
	for _, tx := range matched {
		sum = sum.Add(tx.Amount)
	}
	average := sum.Div(decimal.NewFromInt(int64(len(matched)))).Round(2)

	amount := last.Amount
	switch {
	case rule.UseAverage:
		amount = average
	case rule.ExpectedAmount != nil:
		amount = *rule.ExpectedAmount
	}

	category := rule.Category
	if category == "" {
		category = last.Category
	}

	return models.RecurringTransaction{
		Description:    rule.Label(),
		Category:       category,
		Amount:         amount,
		Frequency:      models.ClassifyFrequency(interval),
		IntervalDays:   interval,
		LastCharged:    last.Date,
		Occurrences:    len(matched),
		TransactionIDs: transactionIDs(matched),
		RuleID:         rule.ID,
	}
}

func transactionIDs(transactions []models.Transaction) []string {
	ids := make([]string, len(transactions))
	for i, tx := range transactions {
		ids[i] = tx.ID
	}
	return ids
}
