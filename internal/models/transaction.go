// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money entered (CREDIT) or left (DEBIT) the account
type Direction string

const (
	DirectionCredit  Direction = "CREDIT"
	DirectionDebit   Direction = "DEBIT"
	DirectionUnknown Direction = ""
)

// String returns the canonical upper-case form of the direction
func (d Direction) String() string {
	if d == DirectionUnknown {
		return "UNKNOWN"
	}
	return string(d)
}

// IsValid reports whether d is CREDIT or DEBIT
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// ParseDirection converts bank and user spellings into a Direction.
// Unrecognized input yields DirectionUnknown.
func ParseDirection(s string) Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREDIT", "CRDT", "CR", "IN", "INCOME":
		return DirectionCredit
	case "DEBIT", "DBIT", "DR", "OUT", "EXPENSE":
		return DirectionDebit
	default:
		return DirectionUnknown
	}
}

// Transaction is a single booked account movement.
// Amount is always a non-negative magnitude; Direction carries the sign.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Direction   Direction       `json:"direction" yaml:"direction"`
	Category    string          `json:"category" yaml:"category"`
}

// IsDebit returns true if the transaction is a debit (outgoing money)
func (t Transaction) IsDebit() bool {
	return t.Direction == DirectionDebit
}

// IsCredit returns true if the transaction is a credit (incoming money)
func (t Transaction) IsCredit() bool {
	return t.Direction == DirectionCredit
}

// FilterByDirection returns the transactions with the given direction, preserving order
func FilterByDirection(transactions []Transaction, direction Direction) []Transaction {
	result := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Direction == direction {
			result = append(result, tx)
		}
	}
	return result
}

// ParseAmount parses a string amount to decimal.Decimal.
// It accepts comma decimal separators, apostrophe thousand separators and
// common currency markers. Unparseable input yields an error.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "'", "")
	for _, marker := range []string{"CHF", "EUR", "USD", "$", "€"} {
		amount = strings.ReplaceAll(amount, marker, "")
	}
	// "1.234,56" -> "1234.56"; "1234,56" -> "1234.56"
	if strings.Contains(amount, ",") {
		if strings.Contains(amount, ".") && strings.LastIndex(amount, ",") > strings.LastIndex(amount, ".") {
			amount = strings.ReplaceAll(amount, ".", "")
		}
		if strings.Count(amount, ",") == 1 && !strings.Contains(amount, ".") {
			amount = strings.ReplaceAll(amount, ",", ".")
		} else {
			amount = strings.ReplaceAll(amount, ",", "")
		}
	}
	return decimal.NewFromString(amount)
}
