package cashflow

import (
	"fmt"
	"testing"
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = dateutils.MustParseISO("2024-03-28")

func series(prefix, description string, direction models.Direction, start string, amounts ...string) []models.Transaction {
	date := dateutils.MustParseISO(start)
	out := make([]models.Transaction, len(amounts))
	for i, a := range amounts {
		out[i] = models.Transaction{
			ID:          fmt.Sprintf("%s-%d", prefix, i+1),
			Date:        date,
			Description: description,
			Amount:      decimal.RequireFromString(a),
			Direction:   direction,
			Category:    models.CategoryUncategorized,
		}
		date = dateutils.AddDays(date, 30)
	}
	return out
}

// history holds a salary, rent and a streaming subscription seen three
// times, and a gym membership seen only twice.
func history() []models.Transaction {
	var txs []models.Transaction
	txs = append(txs, series("s", "ACME SALARY", models.DirectionCredit, "2024-01-25", "5000", "5000", "5000")...)
	txs = append(txs, series("r", "RENT LANDLORD", models.DirectionDebit, "2024-01-01", "1500", "1500", "1500")...)
	txs = append(txs, series("n", "NETFLIX", models.DirectionDebit, "2024-01-05", "15.99", "15.99", "15.99")...)
	txs = append(txs, series("g", "FITNESS PARK", models.DirectionDebit, "2024-01-10", "60", "60")...)
	return txs
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEngine_Recurring(t *testing.T) {
	set := NewEngine(DefaultOptions(), nil).Recurring(history(), nil, today)

	require.Len(t, set.Incomes, 1)
	assert.True(t, dec("5000").Equal(set.Incomes[0].Amount))
	require.Len(t, set.Expenses, 2, "two occurrences are below the recurring view threshold")
	assert.True(t, dec("1500").Equal(set.Expenses[0].Amount))
	assert.True(t, dec("15.99").Equal(set.Expenses[1].Amount))
}

func TestEngine_RecurringWithRules(t *testing.T) {
	rules := []models.ManualRecurringRule{
		{ID: "gym", Name: "Gym", Direction: models.DirectionDebit, Pattern: "fitness", Enabled: true},
		{ID: "skip", Direction: models.DirectionDebit, Pattern: "netflix", Enabled: true, IsExclude: true},
	}

	set := NewEngine(DefaultOptions(), nil).Recurring(history(), rules, today)

	require.Len(t, set.Expenses, 2)
	assert.True(t, dec("1500").Equal(set.Expenses[0].Amount))
	assert.Equal(t, "gym", set.Expenses[1].RuleID)
	assert.Equal(t, "Gym", set.Expenses[1].Description)
}

func TestEngine_Subscriptions(t *testing.T) {
	items, burnRate := NewEngine(DefaultOptions(), nil).Subscriptions(history(), nil, today)

	require.Len(t, items, 1, "rent is housing")
	assert.True(t, dec("15.99").Equal(items[0].Amount))
	assert.True(t, dec("15.99").Equal(burnRate))
}

func TestEngine_Forecast(t *testing.T) {
	points := NewEngine(DefaultOptions(), nil).Forecast(dec("3000"), history(), nil, today, 30)

	require.Len(t, points, 31)
	assert.Equal(t, today, points[0].Date)

	var gymSeen bool
	for _, p := range points {
		if p.Event != nil && p.Event.Amount.Equal(dec("60")) {
			gymSeen = true
		}
	}
	assert.True(t, gymSeen, "the forecast uses the lower detection threshold")
}

func TestEngine_ForecastDefaultHorizon(t *testing.T) {
	opts := DefaultOptions()
	opts.HorizonDays = 14

	points := NewEngine(opts, nil).Forecast(dec("100"), nil, nil, today, 0)

	require.Len(t, points, 15)
	for _, p := range points {
		assert.True(t, dec("100").Equal(p.Balance))
	}
}

func TestEngine_SafeToSpend(t *testing.T) {
	engine := NewEngine(DefaultOptions(), nil)

	result := engine.SafeToSpend(dec("3000"), history(), nil, nil, today)

	assert.Equal(t, dateutils.MustParseISO("2024-04-24"), result.NextPayday)
	assert.Equal(t, 27, result.DaysUntilPayday)
	assert.True(t, dec("1575.99").Equal(result.ReservedForBills), "got %s", result.ReservedForBills)
	assert.True(t, dec("500").Equal(result.Buffer))
	assert.True(t, dec("924.01").Equal(result.SafeToSpend), "got %s", result.SafeToSpend)

	zero := decimal.Zero
	noBuffer := engine.SafeToSpend(dec("3000"), history(), nil, &zero, today)
	assert.True(t, dec("1424.01").Equal(noBuffer.SafeToSpend))
}

func TestEngine_Analyze(t *testing.T) {
	logger := logging.NewMockLogger()
	engine := NewEngine(DefaultOptions(), logger)

	analysis := engine.Analyze(Request{
		Balance:      dec("3000"),
		Transactions: history(),
		Today:        today,
	})

	assert.Equal(t, today, analysis.Today)
	assert.Len(t, analysis.Incomes, 1)
	assert.Len(t, analysis.Expenses, 2)
	assert.Len(t, analysis.Subscriptions, 1)
	assert.True(t, dec("15.99").Equal(analysis.BurnRate))
	assert.Len(t, analysis.Forecast, models.DefaultHorizonDays+1)
	assert.True(t, dec("3000").Equal(analysis.ForecastSummary.StartBalance))
	require.NotNil(t, analysis.ForecastSummary.Lowest)
	assert.True(t, dec("924.01").Equal(analysis.SafeToSpend.SafeToSpend))
	assert.True(t, logger.HasEntry("INFO", "Analysis complete"))
}

func TestEngine_ZeroTodayMeansCurrentDay(t *testing.T) {
	points := NewEngine(DefaultOptions(), nil).Forecast(dec("1"), nil, nil, time.Time{}, 1)

	require.Len(t, points, 2)
	assert.Equal(t, dateutils.Today(), points[0].Date)
}

func TestNewEngine_ZeroOptionsTakeDefaults(t *testing.T) {
	engine := NewEngine(Options{}, nil)

	result := engine.SafeToSpend(dec("3000"), history(), nil, nil, today)
	assert.True(t, dec("500").Equal(result.Buffer))
	assert.True(t, dec("924.01").Equal(result.SafeToSpend), "got %s", result.SafeToSpend)

	set := engine.Recurring(history(), nil, today)
	assert.Len(t, set.Expenses, 2)
	assert.Len(t, engine.Forecast(dec("1"), nil, nil, today, 0), models.DefaultHorizonDays+1)
}

func TestNewEngine_ExplicitZeroBufferKept(t *testing.T) {
	opts := DefaultOptions()
	opts.SafeToSpend.DefaultBuffer = decimal.Zero

	result := NewEngine(opts, nil).SafeToSpend(dec("3000"), history(), nil, nil, today)

	assert.True(t, result.Buffer.IsZero())
	assert.True(t, dec("1424.01").Equal(result.SafeToSpend))
}
