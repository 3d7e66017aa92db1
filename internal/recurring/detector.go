// Package recurring infers recurring cash flows from a transaction history and
// reconciles them with user-declared rules.
package recurring

import (
	"sort"
	"time"

	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/textutils"

	"github.com/shopspring/decimal"
)

// DetectorConfig holds the tunable heuristics of automatic detection
type DetectorConfig struct {
	// MinOccurrences is the smallest group size considered
	MinOccurrences int
	// GapTolerance is the maximum relative deviation of a gap from the mean gap (exclusive)
	GapTolerance float64
	// StalenessFactor is how many mean gaps may pass after the last occurrence
	StalenessFactor float64
	// AmountVariance is the amount spread, relative to the average, above which the amount is variable
	AmountVariance float64
	// AmountWindow is how many recent occurrences feed the representative amount
	AmountWindow int
}

// DefaultDetectorConfig returns the standard detection heuristics
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinOccurrences:  3,
		GapTolerance:    0.20,
		StalenessFactor: 2,
		AmountVariance:  0.10,
		AmountWindow:    12,
	}
}

// Detector finds recurring patterns by grouping transactions on their
// normalized description. It holds no state between calls.
type Detector struct {
	config DetectorConfig
	logger logging.Logger
}

// NewDetector creates a Detector. Zero-valued config fields take their
// defaults, except AmountVariance: zero is kept and makes any spread variable,
// only a negative variance takes the default.
func NewDetector(config DetectorConfig, logger logging.Logger) *Detector {
	defaults := DefaultDetectorConfig()
	if config.MinOccurrences <= 0 {
		config.MinOccurrences = defaults.MinOccurrences
	}
	if config.GapTolerance <= 0 {
		config.GapTolerance = defaults.GapTolerance
	}
	if config.StalenessFactor <= 0 {
		config.StalenessFactor = defaults.StalenessFactor
	}
	if config.AmountVariance < 0 {
		config.AmountVariance = defaults.AmountVariance
	}
	if config.AmountWindow <= 0 {
		config.AmountWindow = defaults.AmountWindow
	}
	return &Detector{config: config, logger: logging.OrDiscard(logger)}
}

// WithMinOccurrences returns a copy of the detector using another group size threshold
func (d *Detector) WithMinOccurrences(n int) *Detector {
	config := d.config
	config.MinOccurrences = n
	return NewDetector(config, d.logger)
}

// Config returns the effective configuration
func (d *Detector) Config() DetectorConfig {
	return d.config
}

func (d *Detector) guards() []guard {
	return []guard{
		minOccurrences(d.config.MinOccurrences),
		positiveInterval(),
		consistentGaps(d.config.GapTolerance),
		active(d.config.StalenessFactor),
	}
}

// Detect returns one RecurringTransaction per consistent, still active group,
// largest amount first. The transactions are expected to share one direction;
// the input slice is not modified.
func (d *Detector) Detect(transactions []models.Transaction, today time.Time) []models.RecurringTransaction {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	groups := make(map[string][]models.Transaction)
	for _, tx := range sorted {
		key := textutils.Normalize(tx.Description)
		groups[key] = append(groups[key], tx)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	guards := d.guards()
	result := make([]models.RecurringTransaction, 0)
	for _, key := range keys {
		c := newCandidate(key, groups[key], today)
		if rejected := firstFailing(guards, c); rejected != nil {
			d.logger.Debug("Group rejected",
				logging.Field{Key: logging.FieldGroupKey, Value: key},
				logging.Field{Key: logging.FieldOccurrences, Value: len(c.transactions)},
				logging.Field{Key: logging.FieldReason, Value: rejected.reason})
			continue
		}
		result = append(result, d.toRecurring(c))
	}

	models.SortByAmountDesc(result)

	d.logger.Debug("Automatic detection finished",
		logging.Field{Key: logging.FieldCount, Value: len(result)},
		logging.Field{Key: "groups", Value: len(groups)})
	return result
}

func firstFailing(guards []guard, c *candidate) *guard {
	for i := range guards {
		if !guards[i].accept(c) {
			return &guards[i]
		}
	}
	return nil
}

func (d *Detector) toRecurring(c *candidate) models.RecurringTransaction {
	last := c.last()
	interval := c.intervalDays()

	ids := make([]string, len(c.transactions))
	for i, tx := range c.transactions {
		ids[i] = tx.ID
	}

	return models.RecurringTransaction{
		Description:    last.Description,
		Category:       last.Category,
		Amount:         representativeAmount(c.transactions, d.config.AmountWindow, d.config.AmountVariance),
		Frequency:      models.ClassifyMeanGap(c.meanGap),
		IntervalDays:   interval,
		LastCharged:    last.Date,
		Occurrences:    len(c.transactions),
		TransactionIDs: ids,
	}
}

// representativeAmount looks at the last window transactions. When their
// spread exceeds variance times their average the amount is variable and the
// average is used; otherwise the latest exact amount is used.
func representativeAmount(transactions []models.Transaction, window int, variance float64) decimal.Decimal {
	if len(transactions) == 0 {
		return decimal.Zero
	}
	recent := transactions
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	minAmount, maxAmount := recent[0].Amount, recent[0].Amount
	sum := decimal.Zero
	for _, tx := range recent {
		sum = sum.Add(tx.Amount)
		minAmount = decimal.Min(minAmount, tx.Amount)
		maxAmount = decimal.Max(maxAmount, tx.Amount)
	}
	average := sum.Div(decimal.NewFromInt(int64(len(recent))))

	threshold := average.Mul(decimal.NewFromFloat(variance))
	if maxAmount.Sub(minAmount).GreaterThan(threshold) {
		return average.Round(2)
	}
	return recent[len(recent)-1].Amount
}
