// Package container provides dependency injection for the cashflow application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/cashflow/internal/batch"
	"fjacquet/cashflow/internal/common"
	"fjacquet/cashflow/internal/config"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/recurring"
	"fjacquet/cashflow/internal/report"
	"fjacquet/cashflow/internal/safespend"
	"fjacquet/cashflow/internal/store"
	"fjacquet/cashflow/pkg/cashflow"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	rules      store.RuleRepository
	engine     *cashflow.Engine
	aggregator *batch.Aggregator
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies, with the
// rule repository stored at the configured rules path.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := config.ConfigureLoggingFromConfig(cfg)
	return newContainer(cfg, store.NewRuleStore(cfg.RulesPath(), logger), logger), nil
}

// NewContainerWithRepository wires the application around an existing rule
// repository.
func NewContainerWithRepository(cfg *config.Config, rules store.RuleRepository, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule repository cannot be nil")
	}
	return newContainer(cfg, rules, logging.OrDiscard(logger)), nil
}

func newContainer(cfg *config.Config, rules store.RuleRepository, logger logging.Logger) *Container {
	common.SetDelimiter(cfg.DelimiterRune())

	c := &Container{
		logger:     logger,
		config:     cfg,
		rules:      rules,
		engine:     cashflow.NewEngine(EngineOptions(cfg), logger),
		aggregator: batch.NewAggregator(logger),
		generator:  report.NewGenerator(logger),
	}

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldFile, Value: cfg.RulesPath()},
		logging.Field{Key: logging.FieldHorizon, Value: cfg.Forecast.HorizonDays})
	return c
}

// EngineOptions maps configuration onto engine options
func EngineOptions(cfg *config.Config) cashflow.Options {
	d := cfg.Detection
	return cashflow.Options{
		Detector: recurring.DetectorConfig{
			MinOccurrences:  d.MinOccurrences,
			GapTolerance:    d.GapTolerance,
			StalenessFactor: d.StalenessFactor,
			AmountVariance:  d.AmountVariance,
			AmountWindow:    d.AmountWindow,
		},
		Matcher: recurring.MatcherConfig{
			DefaultIntervalDays: cfg.Rules.DefaultIntervalDays,
			DefaultTolerance:    cfg.Rules.DefaultAmountTolerance,
		},
		ForecastMinOccurrences: d.ForecastMinOccurrences,
		HousingKeywords:        cfg.Subscriptions.HousingKeywords,
		HorizonDays:            cfg.Forecast.HorizonDays,
		SafeToSpend: safespend.Config{
			DefaultBuffer:     decimal.NewFromFloat(cfg.SafeToSpend.Buffer),
			DefaultPaydayDays: cfg.SafeToSpend.DefaultPaydayDays,
		},
	}
}

// LoadRules reads the manual rules from the repository
func (c *Container) LoadRules() ([]models.ManualRecurringRule, error) {
	rules, err := c.rules.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	c.logger.Debug("Rules loaded", logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}

// SaveRules validates and persists the manual rules
func (c *Container) SaveRules(rules []models.ManualRecurringRule) error {
	if err := store.ValidateRules(rules); err != nil {
		return err
	}
	if err := c.rules.Save(rules); err != nil {
		return fmt.Errorf("failed to save rules: %w", err)
	}
	c.logger.Info("Rules saved", logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRuleRepository returns the manual rule repository.
func (c *Container) GetRuleRepository() store.RuleRepository {
	return c.rules
}

// GetEngine returns the cashflow engine.
func (c *Container) GetEngine() *cashflow.Engine {
	return c.engine
}

// GetAggregator returns the transaction file aggregator.
func (c *Container) GetAggregator() *batch.Aggregator {
	return c.aggregator
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
