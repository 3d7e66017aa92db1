package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionItem is a recurring expense annotated with its cost per month
type SubscriptionItem struct {
	RecurringTransaction `yaml:",inline"`
	MonthlyEquivalent    decimal.Decimal `json:"monthly_equivalent" yaml:"monthly_equivalent"`
}

// EventType is the kind of a projected cash event
type EventType string

const (
	EventIncome  EventType = "income"
	EventExpense EventType = "expense"
)

// ForecastEvent is a single projected cash movement
type ForecastEvent struct {
	Type        EventType       `json:"type" yaml:"type"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// Signed returns the event amount with income positive and expense negative
func (e ForecastEvent) Signed() decimal.Decimal {
	if e.Type == EventExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// LiquidityForecastPoint is the projected balance at the end of one day.
// Event holds the first event of that day, if any; Balance always reflects
// every event of the day.
type LiquidityForecastPoint struct {
	Date    time.Time       `json:"date" yaml:"date"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
	Event   *ForecastEvent  `json:"event,omitempty" yaml:"event,omitempty"`
}

// SafeToSpend summarizes what can be spent before the next payday
type SafeToSpend struct {
	SafeToSpend      decimal.Decimal `json:"safe_to_spend" yaml:"safe_to_spend"`
	ReservedForBills decimal.Decimal `json:"reserved_for_bills" yaml:"reserved_for_bills"`
	DaysUntilPayday  int             `json:"days_until_payday" yaml:"days_until_payday"`
	NextPayday       time.Time       `json:"next_payday" yaml:"next_payday"`
	Buffer           decimal.Decimal `json:"buffer" yaml:"buffer"`
	TotalBalance     decimal.Decimal `json:"total_balance" yaml:"total_balance"`
}

// ForecastSummary condenses a forecast: where it ends, its lowest point and
// whether the balance dips below zero on the way.
type ForecastSummary struct {
	StartBalance decimal.Decimal         `json:"start_balance" yaml:"start_balance"`
	EndBalance   decimal.Decimal         `json:"end_balance" yaml:"end_balance"`
	NetChange    decimal.Decimal         `json:"net_change" yaml:"net_change"`
	Lowest       *LiquidityForecastPoint `json:"lowest,omitempty" yaml:"lowest,omitempty"`
	GoesNegative bool                    `json:"goes_negative" yaml:"goes_negative"`
}

// Analysis bundles every view of one account at a given day
type Analysis struct {
	Today           time.Time                `json:"today" yaml:"today"`
	Balance         decimal.Decimal          `json:"balance" yaml:"balance"`
	Incomes         []RecurringTransaction   `json:"incomes" yaml:"incomes"`
	Expenses        []RecurringTransaction   `json:"expenses" yaml:"expenses"`
	Subscriptions   []SubscriptionItem       `json:"subscriptions" yaml:"subscriptions"`
	BurnRate        decimal.Decimal          `json:"burn_rate" yaml:"burn_rate"`
	Forecast        []LiquidityForecastPoint `json:"forecast" yaml:"forecast"`
	ForecastSummary ForecastSummary          `json:"forecast_summary" yaml:"forecast_summary"`
	SafeToSpend     SafeToSpend              `json:"safe_to_spend" yaml:"safe_to_spend"`
}
