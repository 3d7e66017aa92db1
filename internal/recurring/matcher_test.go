package recurring

import (
	"testing"

	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = d("2024-03-15")

func newMatcher() *RuleMatcher {
	return NewRuleMatcher(DefaultMatcherConfig(), nil)
}

func debitRule(id, pattern string) models.ManualRecurringRule {
	return models.ManualRecurringRule{ID: id, Direction: models.DirectionDebit, Pattern: pattern, Enabled: true}
}

func TestMatch_PatternMatchesNormalizedDescription(t *testing.T) {
	txs := []models.Transaction{
		tx("1", "2024-01-01", "NETFLIX.COM 4521", "15.99", models.DirectionDebit),
		tx("2", "2024-01-31", "Netflix 7788", "15.99", models.DirectionDebit),
		tx("3", "2024-03-01", "netflix", "17.99", models.DirectionDebit),
		tx("4", "2024-03-02", "SPOTIFY", "9.99", models.DirectionDebit),
	}
	rule := debitRule("r1", "Netflix")
	rule.Name = "Streaming"

	result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)

	require.Len(t, result, 1)
	got := result[0]
	assert.Equal(t, "Streaming", got.Description)
	assert.Equal(t, "r1", got.RuleID)
	assert.Equal(t, []string{"1", "2", "3"}, got.TransactionIDs)
	assert.Equal(t, 3, got.Occurrences)
	assert.Equal(t, 30, got.IntervalDays)
	assert.Equal(t, models.FrequencyMonthly, got.Frequency)
	assert.True(t, amt("17.99").Equal(got.Amount), "latest amount without expectation")
	assert.Equal(t, d("2024-03-01"), got.LastCharged)
	assert.False(t, got.IsProjected())
}

func TestMatch_Constraints(t *testing.T) {
	txs := []models.Transaction{
		{ID: "a", Date: d("2024-01-28"), Description: "ACME PAYROLL", Amount: amt("90"), Direction: models.DirectionDebit, Category: "Subscriptions"},
		{ID: "b", Date: d("2024-02-02"), Description: "ACME PAYROLL", Amount: amt("110"), Direction: models.DirectionDebit, Category: "Housing"},
		{ID: "c", Date: d("2024-02-15"), Description: "ACME PAYROLL", Amount: amt("89.99"), Direction: models.DirectionDebit, Category: "Subscriptions"},
		{ID: "d", Date: d("2024-03-01"), Description: "ACME PAYROLL", Amount: amt("111"), Direction: models.DirectionDebit, Category: "subscriptions"},
		{ID: "e", Date: d("2024-03-03"), Description: "ACME PAYROLL", Amount: amt("100"), Direction: models.DirectionCredit, Category: "Subscriptions"},
	}

	tests := []struct {
		name     string
		mutate   func(r *models.ManualRecurringRule)
		expected []string
	}{
		{
			name:     "direction only",
			mutate:   func(r *models.ManualRecurringRule) {},
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "category is case insensitive",
			mutate:   func(r *models.ManualRecurringRule) { r.Category = " SUBSCRIPTIONS " },
			expected: []string{"a", "c", "d"},
		},
		{
			name:     "day window wraps around month end",
			mutate:   func(r *models.ManualRecurringRule) { r.DayWindow = &models.DayWindow{Start: 25, End: 2} },
			expected: []string{"a", "b", "d"},
		},
		{
			name: "explicit tolerance is inclusive",
			mutate: func(r *models.ManualRecurringRule) {
				r.ExpectedAmount = decPtr("100")
				r.Tolerance = floatPtr(0.10)
			},
			expected: []string{"a", "b"},
		},
		{
			name:     "missing tolerance defaults to ten percent",
			mutate:   func(r *models.ManualRecurringRule) { r.ExpectedAmount = decPtr("100") },
			expected: []string{"a", "b"},
		},
		{
			name: "zero tolerance needs the exact amount",
			mutate: func(r *models.ManualRecurringRule) {
				r.ExpectedAmount = decPtr("111")
				r.Tolerance = floatPtr(0)
			},
			expected: []string{"d"},
		},
		{
			name: "all constraints combined",
			mutate: func(r *models.ManualRecurringRule) {
				r.Category = "subscriptions"
				r.DayWindow = &models.DayWindow{Start: 1, End: 31}
				r.ExpectedAmount = decPtr("100")
				r.Tolerance = floatPtr(0.12)
			},
			expected: []string{"a", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := debitRule("r", "acme payroll")
			tt.mutate(&rule)

			result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)

			require.Len(t, result, 1)
			assert.Equal(t, tt.expected, result[0].TransactionIDs)
		})
	}
}

func TestMatch_AmountSelection(t *testing.T) {
	txs := series("g", "GYM", models.DirectionDebit, "2024-01-01", 30, "100", "110", "120")

	t.Run("average when requested", func(t *testing.T) {
		rule := debitRule("r", "gym")
		rule.UseAverage = true
		rule.ExpectedAmount = decPtr("105")
		rule.Tolerance = floatPtr(0.2)

		result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)
		require.Len(t, result, 1)
		assert.True(t, amt("110").Equal(result[0].Amount))
	})

	t.Run("expected amount wins over observed", func(t *testing.T) {
		rule := debitRule("r", "gym")
		rule.ExpectedAmount = decPtr("105")
		rule.Tolerance = floatPtr(0.2)

		result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)
		require.Len(t, result, 1)
		assert.True(t, amt("105").Equal(result[0].Amount))
	})

	t.Run("average is rounded to cents", func(t *testing.T) {
		odd := series("o", "GYM", models.DirectionDebit, "2024-01-01", 30, "10", "10", "10.01")
		rule := debitRule("r", "gym")
		rule.UseAverage = true

		result := newMatcher().Match(odd, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)
		require.Len(t, result, 1)
		assert.True(t, amt("10").Equal(result[0].Amount), "got %s", result[0].Amount)
	})
}

func TestMatch_SingleMatchUsesDeclaredInterval(t *testing.T) {
	txs := []models.Transaction{tx("1", "2024-02-10", "CAR INSURANCE", "840", models.DirectionDebit)}

	rule := debitRule("r", "car insurance")
	result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)
	require.Len(t, result, 1)
	assert.Equal(t, 30, result[0].IntervalDays)
	assert.Equal(t, 1, result[0].Occurrences)

	rule.IntervalDays = 365
	result = newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today)
	require.Len(t, result, 1)
	assert.Equal(t, 365, result[0].IntervalDays)
	assert.Equal(t, models.FrequencyYearly, result[0].Frequency)
}

func TestMatch_ProjectedRule(t *testing.T) {
	txs := []models.Transaction{tx("1", "2024-03-01", "GROCERIES", "80", models.DirectionDebit)}
	rule := debitRule("rent", "rent")
	rule.ExpectedAmount = decPtr("1200")
	rule.Category = "Housing"

	result := newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, d("2024-03-15"))

	require.Len(t, result, 1)
	got := result[0]
	assert.True(t, got.IsProjected())
	assert.Equal(t, "rent", got.Description)
	assert.Equal(t, "Housing", got.Category)
	assert.True(t, decimal.NewFromInt(1200).Equal(got.Amount))
	assert.Equal(t, 30, got.IntervalDays)
	assert.Equal(t, models.FrequencyMonthly, got.Frequency)
	assert.Equal(t, d("2024-03-15"), got.LastCharged)
	assert.Equal(t, 0, got.Occurrences)
	assert.NotNil(t, got.TransactionIDs)
	assert.Empty(t, got.TransactionIDs)
}

func TestMatch_ProjectionRespectsContextDirection(t *testing.T) {
	salary := models.ManualRecurringRule{ID: "salary", Direction: models.DirectionCredit, Pattern: "employer", Enabled: true}
	rent := debitRule("rent", "rent")
	rules := []models.ManualRecurringRule{salary, rent}
	matcher := newMatcher()

	debits := []models.Transaction{tx("1", "2024-03-01", "GROCERIES", "80", models.DirectionDebit)}

	result := matcher.Match(debits, rules, models.DirectionDebit, today)
	require.Len(t, result, 1)
	assert.Equal(t, "rent", result[0].RuleID)

	result = matcher.Match(debits, rules, models.DirectionUnknown, today)
	require.Len(t, result, 1, "context falls back to the first transaction")
	assert.Equal(t, "rent", result[0].RuleID)

	result = matcher.Match(nil, rules, models.DirectionUnknown, today)
	assert.Len(t, result, 2, "no context accepts both directions")

	result = matcher.Match(nil, rules, models.DirectionCredit, today)
	require.Len(t, result, 1)
	assert.Equal(t, "salary", result[0].RuleID)
}

func TestMatch_RuleWithoutPatternOrAmountIsNotProjected(t *testing.T) {
	rule := models.ManualRecurringRule{ID: "any", Direction: models.DirectionDebit, Enabled: true}
	assert.Empty(t, newMatcher().Match(nil, []models.ManualRecurringRule{rule}, models.DirectionDebit, today))
}

func TestMatch_ExclusionRule(t *testing.T) {
	txs := []models.Transaction{
		tx("1", "2024-01-05", "TRANSFER TO SAVINGS", "500", models.DirectionDebit),
		tx("2", "2024-02-05", "TRANSFER TO SAVINGS", "500", models.DirectionDebit),
		tx("3", "2024-02-07", "NETFLIX", "15.99", models.DirectionDebit),
	}
	exclude := debitRule("x", "transfer to savings")
	exclude.IsExclude = true
	unmatched := debitRule("y", "brokerage")
	unmatched.IsExclude = true

	result := newMatcher().Match(txs, []models.ManualRecurringRule{exclude, unmatched}, models.DirectionDebit, today)

	require.Len(t, result, 1, "an unmatched exclusion is never projected")
	got := result[0]
	assert.True(t, got.IsExclude)
	assert.True(t, got.Amount.IsZero())
	assert.Equal(t, []string{"1", "2"}, got.TransactionIDs)
	assert.Equal(t, "x", got.RuleID)
}

func TestMatch_DisabledRulesIgnored(t *testing.T) {
	txs := series("n", "NETFLIX", models.DirectionDebit, "2024-01-01", 30, "15.99", "15.99")
	rule := debitRule("r", "netflix")
	rule.Enabled = false

	assert.Empty(t, newMatcher().Match(txs, []models.ManualRecurringRule{rule}, models.DirectionDebit, today))
}

func TestMatch_OverlappingRulesEachClaim(t *testing.T) {
	txs := series("n", "NETFLIX PREMIUM", models.DirectionDebit, "2024-01-01", 30, "19.99", "19.99")
	rules := []models.ManualRecurringRule{debitRule("a", "netflix"), debitRule("b", "premium")}

	result := newMatcher().Match(txs, rules, models.DirectionDebit, today)

	require.Len(t, result, 2)
	assert.Equal(t, result[0].TransactionIDs, result[1].TransactionIDs)
}

func TestMatch_CategoryFallsBackToLastTransaction(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Date: d("2024-01-01"), Description: "SWISSCOM", Amount: amt("59"), Direction: models.DirectionDebit, Category: "Telecom"},
	}
	result := newMatcher().Match(txs, []models.ManualRecurringRule{debitRule("r", "swisscom")}, models.DirectionDebit, today)
	require.Len(t, result, 1)
	assert.Equal(t, "Telecom", result[0].Category)
}
