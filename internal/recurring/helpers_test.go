package recurring

import (
	"fmt"
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
)

func d(iso string) time.Time {
	return dateutils.MustParseISO(iso)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(id, date, description, amount string, direction models.Direction) models.Transaction {
	return models.Transaction{
		ID:          id,
		Date:        d(date),
		Description: description,
		Amount:      amt(amount),
		Direction:   direction,
		Category:    "General",
	}
}

// series builds one transaction per amount, gapDays apart, starting at start
func series(prefix, description string, direction models.Direction, start string, gapDays int, amounts ...string) []models.Transaction {
	result := make([]models.Transaction, len(amounts))
	date := d(start)
	for i, a := range amounts {
		result[i] = models.Transaction{
			ID:          fmt.Sprintf("%s-%d", prefix, i+1),
			Date:        date,
			Description: fmt.Sprintf("%s %d", description, 1000+i),
			Amount:      amt(a),
			Direction:   direction,
			Category:    "General",
		}
		date = dateutils.AddDays(date, gapDays)
	}
	return result
}

// withGaps builds transactions separated by the given gaps
func withGaps(prefix, description string, direction models.Direction, start, amount string, gaps ...int) []models.Transaction {
	date := d(start)
	result := []models.Transaction{{
		ID: prefix + "-1", Date: date, Description: description, Amount: amt(amount), Direction: direction,
	}}
	for i, gap := range gaps {
		date = dateutils.AddDays(date, gap)
		result = append(result, models.Transaction{
			ID: fmt.Sprintf("%s-%d", prefix, i+2), Date: date, Description: description, Amount: amt(amount), Direction: direction,
		})
	}
	return result
}

func repeat(value string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func concat(groups ...[]models.Transaction) []models.Transaction {
	var out []models.Transaction
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func decPtr(s string) *decimal.Decimal {
	v := amt(s)
	return &v
}

func floatPtr(f float64) *float64 {
	return &f
}

func idsOf(entries []models.RecurringTransaction) map[string]bool {
	ids := make(map[string]bool)
	for _, e := range entries {
		for _, id := range e.TransactionIDs {
			ids[id] = true
		}
	}
	return ids
}
