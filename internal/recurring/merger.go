package recurring

import (
	"time"

	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
)

// Set is the merged recurring view of one account, split by direction
type Set struct {
	Incomes  []models.RecurringTransaction `json:"incomes" yaml:"incomes"`
	Expenses []models.RecurringTransaction `json:"expenses" yaml:"expenses"`
}

// Merger reconciles manual rules with automatic detection. Transactions
// claimed by any enabled rule, exclusions included, never reach the detector.
type Merger struct {
	matcher  *RuleMatcher
	detector *Detector
	logger   logging.Logger
}

// NewMerger creates a Merger over the given matcher and detector
func NewMerger(matcher *RuleMatcher, detector *Detector, logger logging.Logger) *Merger {
	logger = logging.OrDiscard(logger)
	if matcher == nil {
		matcher = NewRuleMatcher(DefaultMatcherConfig(), logger)
	}
	if detector == nil {
		detector = NewDetector(DefaultDetectorConfig(), logger)
	}
	return &Merger{matcher: matcher, detector: detector, logger: logger}
}

// WithMinOccurrences returns a Merger whose detector uses another threshold
func (m *Merger) WithMinOccurrences(n int) *Merger {
	return &Merger{matcher: m.matcher, detector: m.detector.WithMinOccurrences(n), logger: m.logger}
}

// Merge returns the recurring entries of one direction: rule-backed entries
// followed by automatically detected ones, largest amount first. Exclusion
// entries are consumed here and never returned.
func (m *Merger) Merge(direction models.Direction, transactions []models.Transaction, rules []models.ManualRecurringRule, today time.Time) []models.RecurringTransaction {
	scoped := transactions
	if direction != models.DirectionUnknown {
		scoped = models.FilterByDirection(transactions, direction)
	}

	manual := m.matcher.Match(scoped, rules, direction, today)

	claimed := make(map[string]struct{})
	for _, entry := range manual {
		for _, id := range entry.TransactionIDs {
			claimed[id] = struct{}{}
		}
	}

	pool := make([]models.Transaction, 0, len(scoped))
	for _, tx := range scoped {
		if _, ok := claimed[tx.ID]; !ok {
			pool = append(pool, tx)
		}
	}

	automatic := m.detector.Detect(pool, today)

	result := make([]models.RecurringTransaction, 0, len(manual)+len(automatic))
	excluded := 0
	for _, entry := range manual {
		if entry.IsExclude {
			excluded++
			continue
		}
		result = append(result, entry)
	}
	result = append(result, automatic...)
	models.SortByAmountDesc(result)

	m.logger.Debug("Recurring set merged",
		logging.Field{Key: logging.FieldDirection, Value: direction.String()},
		logging.Field{Key: "manual", Value: len(manual) - excluded},
		logging.Field{Key: "excluded", Value: excluded},
		logging.Field{Key: "automatic", Value: len(automatic)},
		logging.Field{Key: "claimed_transactions", Value: len(claimed)})
	return result
}

// MergeAll merges credits into incomes and debits into expenses
func (m *Merger) MergeAll(transactions []models.Transaction, rules []models.ManualRecurringRule, today time.Time) Set {
	return Set{
		Incomes:  m.Merge(models.DirectionCredit, transactions, rules, today),
		Expenses: m.Merge(models.DirectionDebit, transactions, rules, today),
	}
}
