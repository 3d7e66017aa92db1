// Package subscription derives the subscriptions view from recurring expenses:
// housing costs are set aside and every remaining charge is expressed as a
// monthly cost.
package subscription

import (
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/textutils"

	"github.com/shopspring/decimal"
)

// DefaultHousingKeywords are the description fragments that mark an expense
// as housing rather than a subscription.
var DefaultHousingKeywords = []string{"rent", "mortgage", "miete", "hypothek", "lease"}

var monthlyMultipliers = map[models.Frequency]decimal.Decimal{
	models.FrequencyWeekly:    decimal.RequireFromString("4.33"),
	models.FrequencyBiWeekly:  decimal.RequireFromString("2.17"),
	models.FrequencyMonthly:   decimal.NewFromInt(1),
	models.FrequencyQuarterly: decimal.RequireFromString("0.33"),
	models.FrequencyYearly:    decimal.RequireFromString("0.083"),
}

// Filter turns recurring expenses into subscription items
type Filter struct {
	housingKeywords []string
	logger          logging.Logger
}

// NewFilter creates a Filter. A nil keyword list means DefaultHousingKeywords.
func NewFilter(housingKeywords []string, logger logging.Logger) *Filter {
	if housingKeywords == nil {
		housingKeywords = DefaultHousingKeywords
	}
	keywords := make([]string, 0, len(housingKeywords))
	for _, k := range housingKeywords {
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Filter{housingKeywords: keywords, logger: logging.OrDiscard(logger)}
}

// Apply drops housing expenses and annotates the rest with their monthly
// equivalent. Input order is preserved.
func (f *Filter) Apply(expenses []models.RecurringTransaction) []models.SubscriptionItem {
	items := make([]models.SubscriptionItem, 0, len(expenses))
	for _, expense := range expenses {
		if expense.IsExclude {
			continue
		}
		if f.IsHousing(expense.Description) {
			f.logger.Debug("Housing expense left out of subscriptions",
				logging.Field{Key: logging.FieldGroupKey, Value: expense.Description})
			continue
		}
		items = append(items, models.SubscriptionItem{
			RecurringTransaction: expense,
			MonthlyEquivalent:    MonthlyEquivalent(expense.Amount, expense.Frequency),
		})
	}
	return items
}

// IsHousing reports whether the description contains a housing keyword
func (f *Filter) IsHousing(description string) bool {
	return textutils.ContainsAnyFold(description, f.housingKeywords)
}

// MonthlyEquivalent scales an amount to its average cost per month. Unknown
// frequencies are treated as monthly.
func MonthlyEquivalent(amount decimal.Decimal, frequency models.Frequency) decimal.Decimal {
	multiplier, ok := monthlyMultipliers[frequency]
	if !ok {
		return amount
	}
	return amount.Mul(multiplier)
}

// BurnRate is the total monthly cost of the given subscriptions
func BurnRate(items []models.SubscriptionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.MonthlyEquivalent)
	}
	return total
}
