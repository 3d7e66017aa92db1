// Package batch merges transaction exports from several files into one
// chronological history.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/cashflow/internal/common"
	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// Result is an aggregated transaction history
type Result struct {
	Transactions []models.Transaction
	DateRange    DateRange
	SourceFiles  []string
	// Duplicates counts transactions dropped because their id was already seen
	Duplicates int
}

// ReadFunc loads the transactions of one file
type ReadFunc func(path string, logger logging.Logger) ([]models.Transaction, error)

// Aggregator handles the aggregation of multiple transaction files
type Aggregator struct {
	logger logging.Logger
	read   ReadFunc
}

// NewAggregator creates an Aggregator reading CSV exports
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrDiscard(logger), read: common.ReadTransactionsCSV}
}

// WithReader returns an Aggregator that loads files with read
func (a *Aggregator) WithReader(read ReadFunc) *Aggregator {
	return &Aggregator{logger: a.logger, read: read}
}

// ExpandInputs replaces every directory in paths by the CSV files it
// contains, in name order.
func ExpandInputs(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error reading input %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("error listing %s: %w", path, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// AggregateFiles reads every file, drops transactions whose id was already
// seen (first wins) and sorts the rest chronologically. Unreadable files are
// logged and skipped; it fails only when no file could be read.
func (a *Aggregator) AggregateFiles(files []string) (Result, error) {
	var result Result
	var all []models.Transaction
	var lastErr error

	a.logger.Info("Aggregating transaction files",
		logging.Field{Key: "file_count", Value: len(files)})

	for _, file := range files {
		transactions, err := a.read(file, a.logger)
		if err != nil {
			a.logger.WithError(err).Error("Failed to read file",
				logging.Field{Key: logging.FieldFile, Value: file})
			lastErr = err
			continue
		}

		a.logger.Debug("Loaded transactions from file",
			logging.Field{Key: logging.FieldCount, Value: len(transactions)},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})

		all = append(all, transactions...)
		result.SourceFiles = append(result.SourceFiles, filepath.Base(file))
	}

	if len(result.SourceFiles) == 0 && lastErr != nil {
		return Result{}, fmt.Errorf("no input file could be read: %w", lastErr)
	}

	seen := make(map[string]struct{}, len(all))
	unique := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if _, dup := seen[tx.ID]; dup {
			result.Duplicates++
			a.logger.Debug("Dropped transaction with duplicate id",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
			continue
		}
		seen[tx.ID] = struct{}{}
		unique = append(unique, tx)
	}

	sortTransactionsChronologically(unique)
	a.detectAndLogLookAlikes(unique)

	for _, tx := range unique {
		result.DateRange = result.DateRange.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	result.Transactions = unique

	a.logger.Info("Aggregated transactions",
		logging.Field{Key: "total_transactions", Value: len(unique)},
		logging.Field{Key: "duplicates", Value: result.Duplicates},
		logging.Field{Key: "date_range", Value: result.DateRange.String()},
		logging.Field{Key: "source_files", Value: strings.Join(result.SourceFiles, ", ")})
	return result, nil
}

// sortTransactionsChronologically sorts by date, then amount, then id
func sortTransactionsChronologically(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		if !transactions[i].Amount.Equal(transactions[j].Amount) {
			return transactions[i].Amount.LessThan(transactions[j].Amount)
		}
		return transactions[i].ID < transactions[j].ID
	})
}

// detectAndLogLookAlikes warns about transactions with distinct ids but the
// same date, amount, direction and description. They are kept: two coffees
// on one day are legitimate.
func (a *Aggregator) detectAndLogLookAlikes(transactions []models.Transaction) {
	count := 0
	for i := 0; i < len(transactions)-1; i++ {
		for j := i + 1; j < len(transactions) && transactions[j].Date.Equal(transactions[i].Date); j++ {
			if areLookAlikes(transactions[i], transactions[j]) {
				count++
				a.logger.Warn("Potential duplicate transaction",
					logging.Field{Key: logging.FieldDate, Value: dateutils.ToISODate(transactions[i].Date)},
					logging.Field{Key: logging.FieldAmount, Value: transactions[i].Amount.String()},
					logging.Field{Key: logging.FieldGroupKey, Value: transactions[i].Description})
				break
			}
		}
	}
	if count > 0 {
		a.logger.Warn("Found potential duplicate transactions", logging.Field{Key: logging.FieldCount, Value: count})
	}
}

func areLookAlikes(tx1, tx2 models.Transaction) bool {
	return tx1.Date.Equal(tx2.Date) &&
		tx1.Amount.Equal(tx2.Amount) &&
		tx1.Direction == tx2.Direction &&
		strings.EqualFold(strings.TrimSpace(tx1.Description), strings.TrimSpace(tx2.Description))
}
