// Package common provides the CSV plumbing shared by the commands: reading
// transaction exports and writing forecasts.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// Delimiter is the CSV field separator used for reading and writing
var Delimiter rune = ','

// SetDelimiter changes the CSV field separator
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// transactionNamespace seeds the deterministic ids of rows without an ID column
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cashflow/transaction"))

// requiredTransactionColumns must appear in the header of a transaction file
var requiredTransactionColumns = []string{"Date", "Description", "Amount"}

// TransactionCSVRow is the raw layout of a transaction export
type TransactionCSVRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Direction   string `csv:"Direction"`
	Category    string `csv:"Category"`
}

func (r TransactionCSVRow) isBlank() bool {
	return strings.TrimSpace(r.Date+r.Description+r.Amount+r.Direction+r.Category+r.ID) == ""
}

// ForecastCSVRow is one day of an exported forecast
type ForecastCSVRow struct {
	Date             string `csv:"Date"`
	Balance          string `csv:"Balance"`
	EventType        string `csv:"EventType"`
	EventDescription string `csv:"EventDescription"`
	EventAmount      string `csv:"EventAmount"`
}

func newReader(data []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDiscard(logger)
	log := logger.WithField(logging.FieldFile, filePath)
	log.Debug("Reading CSV file")

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(newReader(data), &rows); err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.Debug("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// checkHeader verifies that every required column is present
func checkHeader(filePath string, required []string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}
	header, err := newReader(data).Read()
	if err != nil {
		return &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: strings.Join(required, string(Delimiter)),
			Msg:            "missing header row",
		}
	}

	present := make(map[string]struct{}, len(header))
	for _, column := range header {
		present[strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))] = struct{}{}
	}
	for _, column := range required {
		if _, ok := present[column]; !ok {
			return &parsererror.InvalidFormatError{
				FilePath:       filePath,
				ExpectedFormat: strings.Join(required, string(Delimiter)),
				Msg:            "missing column " + column,
			}
		}
	}
	return nil
}

// ReadTransactionsCSV reads a transaction export. Amounts may be signed when
// the Direction column is empty: negative means DEBIT. Stored amounts are
// always magnitudes. Rows without an ID get a deterministic one derived from
// their content.
func ReadTransactionsCSV(filePath string, logger logging.Logger) ([]models.Transaction, error) {
	logger = logging.OrDiscard(logger)
	if err := checkHeader(filePath, requiredTransactionColumns); err != nil {
		return nil, err
	}

	rows, err := ReadCSVFile[TransactionCSVRow](filePath, logger)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(filePath)
	seen := make(map[string]int)
	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		if row.isBlank() {
			continue
		}
		tx, err := rowToTransaction(source, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, i+2, err)
		}
		if tx.ID == "" {
			key := strings.Join([]string{dateutils.ToISODate(tx.Date), tx.Description, tx.Amount.String(), string(tx.Direction)}, "|")
			tx.ID = uuid.NewSHA1(transactionNamespace, []byte(fmt.Sprintf("%s#%d", key, seen[key]))).String()
			seen[key]++
		}
		transactions = append(transactions, tx)
	}

	logger.Info("Loaded transactions",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, nil
}

func rowToTransaction(source string, row TransactionCSVRow) (models.Transaction, error) {
	date, _, err := dateutils.ParseDate(row.Date)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: source, Field: "Date", Value: row.Date, Err: err}
	}

	amount, err := models.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: source, Field: "Amount", Value: row.Amount, Err: err}
	}

	direction := models.ParseDirection(row.Direction)
	switch {
	case direction != models.DirectionUnknown:
	case strings.TrimSpace(row.Direction) != "":
		return models.Transaction{}, &parsererror.ParseError{
			Parser: source, Field: "Direction", Value: row.Direction,
			Err: fmt.Errorf("expected CREDIT or DEBIT"),
		}
	case amount.IsNegative():
		direction = models.DirectionDebit
	default:
		direction = models.DirectionCredit
	}

	category := strings.TrimSpace(row.Category)
	if category == "" {
		category = models.CategoryUncategorized
	}

	return models.Transaction{
		ID:          strings.TrimSpace(row.ID),
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		Amount:      amount.Abs(),
		Direction:   direction,
		Category:    category,
	}, nil
}

// WriteForecastCSV writes one row per forecast day, creating the parent
// directory when needed.
func WriteForecastCSV(points []models.LiquidityForecastPoint, csvFile string, logger logging.Logger) error {
	logger = logging.OrDiscard(logger)
	if points == nil {
		return fmt.Errorf("cannot write nil forecast to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	rows := make([]ForecastCSVRow, len(points))
	for i, point := range points {
		rows[i] = ForecastCSVRow{
			Date:    dateutils.ToISODate(point.Date),
			Balance: point.Balance.StringFixed(2),
		}
		if point.Event != nil {
			rows[i].EventType = string(point.Event.Type)
			rows[i].EventDescription = point.Event.Description
			rows[i].EventAmount = point.Event.Amount.StringFixed(2)
		}
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	writer := csv.NewWriter(file)
	writer.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Wrote forecast CSV",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}
