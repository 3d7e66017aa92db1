// Package cashflow is the public entry point of the recurring pattern and
// liquidity engine. An Engine is stateless between calls: every method takes
// the transaction history, the manual rules and the reference day.
package cashflow

import (
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/forecast"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/recurring"
	"fjacquet/cashflow/internal/safespend"
	"fjacquet/cashflow/internal/subscription"

	"github.com/shopspring/decimal"
)

// Options tunes an Engine. Start from DefaultOptions; a zero-valued section
// takes its package defaults, including the 500 safe-to-spend buffer.
type Options struct {
	Detector recurring.DetectorConfig
	Matcher  recurring.MatcherConfig
	// ForecastMinOccurrences is the detection threshold used for the forecast
	ForecastMinOccurrences int
	HousingKeywords        []string
	HorizonDays            int
	SafeToSpend            safespend.Config
}

// DefaultOptions returns the standard engine settings
func DefaultOptions() Options {
	return Options{
		Detector:               recurring.DefaultDetectorConfig(),
		Matcher:                recurring.DefaultMatcherConfig(),
		ForecastMinOccurrences: 2,
		HousingKeywords:        subscription.DefaultHousingKeywords,
		HorizonDays:            models.DefaultHorizonDays,
		SafeToSpend:            safespend.DefaultConfig(),
	}
}

// Engine computes recurring sets, subscriptions, forecasts and safe-to-spend
// estimates from a transaction history.
type Engine struct {
	merger         *recurring.Merger
	forecastMerger *recurring.Merger
	filter         *subscription.Filter
	projector      *forecast.Projector
	calculator     *safespend.Calculator
	horizonDays    int
	logger         logging.Logger
}

// NewEngine wires an Engine from options
func NewEngine(opts Options, logger logging.Logger) *Engine {
	logger = logging.OrDiscard(logger)
	if opts.Detector == (recurring.DetectorConfig{}) {
		opts.Detector = recurring.DefaultDetectorConfig()
	}
	if opts.Matcher == (recurring.MatcherConfig{}) {
		opts.Matcher = recurring.DefaultMatcherConfig()
	}
	if opts.SafeToSpend == (safespend.Config{}) {
		opts.SafeToSpend = safespend.DefaultConfig()
	}
	if opts.Detector.MinOccurrences <= 0 {
		opts.Detector.MinOccurrences = recurring.DefaultDetectorConfig().MinOccurrences
	}
	if opts.ForecastMinOccurrences <= 0 {
		opts.ForecastMinOccurrences = 2
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = models.DefaultHorizonDays
	}

	matcher := recurring.NewRuleMatcher(opts.Matcher, logger)
	detector := recurring.NewDetector(opts.Detector, logger)
	merger := recurring.NewMerger(matcher, detector, logger)

	return &Engine{
		merger:         merger,
		forecastMerger: merger.WithMinOccurrences(opts.ForecastMinOccurrences),
		filter:         subscription.NewFilter(opts.HousingKeywords, logger),
		projector:      forecast.NewProjector(logger),
		calculator:     safespend.NewCalculator(merger, opts.SafeToSpend, logger),
		horizonDays:    opts.HorizonDays,
		logger:         logger,
	}
}

// Recurring returns the merged recurring incomes and expenses
func (e *Engine) Recurring(transactions []models.Transaction, rules []models.ManualRecurringRule, today time.Time) recurring.Set {
	return e.merger.MergeAll(transactions, rules, orToday(today))
}

// Subscriptions returns the non-housing recurring expenses with their
// monthly equivalents, and the total monthly burn rate.
func (e *Engine) Subscriptions(transactions []models.Transaction, rules []models.ManualRecurringRule, today time.Time) ([]models.SubscriptionItem, decimal.Decimal) {
	expenses := e.merger.Merge(models.DirectionDebit, transactions, rules, orToday(today))
	items := e.filter.Apply(expenses)
	return items, subscription.BurnRate(items)
}

// Forecast projects the balance over horizonDays from today. A non-positive
// horizon means the configured one.
func (e *Engine) Forecast(balance decimal.Decimal, transactions []models.Transaction, rules []models.ManualRecurringRule, today time.Time, horizonDays int) []models.LiquidityForecastPoint {
	today = orToday(today)
	set := e.forecastMerger.MergeAll(transactions, rules, today)
	return e.project(balance, set, today, horizonDays)
}

// SafeToSpend estimates what can be spent before the next payday. A nil
// buffer means the configured one.
func (e *Engine) SafeToSpend(balance decimal.Decimal, transactions []models.Transaction, rules []models.ManualRecurringRule, buffer *decimal.Decimal, today time.Time) models.SafeToSpend {
	return e.calculator.Calculate(safespend.Input{
		Balance:      balance,
		Transactions: transactions,
		Rules:        rules,
		Buffer:       buffer,
		Today:        orToday(today),
	})
}

// Request is the input of Analyze
type Request struct {
	Balance      decimal.Decimal
	Transactions []models.Transaction
	Rules        []models.ManualRecurringRule
	Buffer       *decimal.Decimal
	HorizonDays  int
	Today        time.Time
}

// Analyze computes every view in one pass
func (e *Engine) Analyze(req Request) models.Analysis {
	today := orToday(req.Today)

	set := e.merger.MergeAll(req.Transactions, req.Rules, today)
	items := e.filter.Apply(set.Expenses)

	forecastSet := e.forecastMerger.MergeAll(req.Transactions, req.Rules, today)
	points := e.project(req.Balance, forecastSet, today, req.HorizonDays)

	analysis := models.Analysis{
		Today:           today,
		Balance:         req.Balance,
		Incomes:         set.Incomes,
		Expenses:        set.Expenses,
		Subscriptions:   items,
		BurnRate:        subscription.BurnRate(items),
		Forecast:        points,
		ForecastSummary: forecast.Summarize(req.Balance, points),
		SafeToSpend:     e.SafeToSpend(req.Balance, req.Transactions, req.Rules, req.Buffer, today),
	}

	e.logger.Info("Analysis complete",
		logging.Field{Key: "incomes", Value: len(analysis.Incomes)},
		logging.Field{Key: "expenses", Value: len(analysis.Expenses)},
		logging.Field{Key: "subscriptions", Value: len(analysis.Subscriptions)},
		logging.Field{Key: logging.FieldBalance, Value: analysis.SafeToSpend.SafeToSpend.StringFixed(2)})
	return analysis
}

func (e *Engine) project(balance decimal.Decimal, set recurring.Set, today time.Time, horizonDays int) []models.LiquidityForecastPoint {
	if horizonDays <= 0 {
		horizonDays = e.horizonDays
	}
	return e.projector.Project(balance, set.Incomes, set.Expenses, forecast.Options{
		HorizonDays: horizonDays,
		Start:       today,
	})
}

func orToday(today time.Time) time.Time {
	if today.IsZero() {
		return dateutils.Today()
	}
	return dateutils.Day(today)
}
