// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"time"

	"fjacquet/cashflow/internal/batch"
	"fjacquet/cashflow/internal/container"
	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/report"

	"github.com/shopspring/decimal"
)

// ResolveToday parses the --today flag. An empty value means the current day.
func ResolveToday(value string) (time.Time, error) {
	if value == "" {
		return dateutils.Today(), nil
	}
	day, _, err := dateutils.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today value %q: %w", value, err)
	}
	return dateutils.Day(day), nil
}

// ParseRequiredAmount parses a mandatory amount flag
func ParseRequiredAmount(flag, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("--%s is required", flag)
	}
	amount, err := models.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	return amount, nil
}

// ParseOptionalAmount parses an amount flag; an empty value yields nil
func ParseOptionalAmount(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	amount, err := ParseRequiredAmount(flag, value)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

// LoadTransactions expands the --input paths and aggregates every CSV file
// they name into one chronological history.
func LoadTransactions(aggregator *batch.Aggregator, inputs []string, log logging.Logger) ([]models.Transaction, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("at least one --input file or directory is required")
	}
	files, err := batch.ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files found in %v", inputs)
	}

	result, err := aggregator.AggregateFiles(files)
	if err != nil {
		return nil, err
	}
	log.Info("Transactions loaded",
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: "files", Value: len(result.SourceFiles)},
		logging.Field{Key: "period", Value: result.DateRange.String()})
	return result.Transactions, nil
}

// LoadHistory loads the transactions named by inputs and the stored manual rules
func LoadHistory(c *container.Container, inputs []string) ([]models.Transaction, []models.ManualRecurringRule, error) {
	transactions, err := LoadTransactions(c.GetAggregator(), inputs, c.GetLogger())
	if err != nil {
		return nil, nil, err
	}
	rules, err := c.LoadRules()
	if err != nil {
		return nil, nil, err
	}
	return transactions, rules, nil
}

// Render writes data in the requested format
func Render(w io.Writer, generator *report.Generator, data interface{}, format string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	out, err := generator.Generate(data, f)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
