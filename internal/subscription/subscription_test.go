package subscription

import (
	"testing"

	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(description, amount string, frequency models.Frequency) models.RecurringTransaction {
	return models.RecurringTransaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Frequency:   frequency,
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		frequency models.Frequency
		amount    string
		expected  string
	}{
		{models.FrequencyWeekly, "10", "43.3"},
		{models.FrequencyBiWeekly, "100", "217"},
		{models.FrequencyMonthly, "15.99", "15.99"},
		{models.FrequencyQuarterly, "300", "99"},
		{models.FrequencyYearly, "120", "9.96"},
		{models.Frequency("fortnightly"), "50", "50"},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			got := MonthlyEquivalent(decimal.RequireFromString(tt.amount), tt.frequency)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestFilter_ApplyDropsHousing(t *testing.T) {
	expenses := []models.RecurringTransaction{
		expense("Monthly RENT Lausanne", "1800", models.FrequencyMonthly),
		expense("NETFLIX", "15.99", models.FrequencyMonthly),
		expense("UBS Hypothek", "950", models.FrequencyQuarterly),
		expense("Car lease", "420", models.FrequencyMonthly),
		expense("Spotify", "9.99", models.FrequencyMonthly),
		expense("Miete Zürich", "2100", models.FrequencyMonthly),
		expense("AWS", "300", models.FrequencyQuarterly),
	}

	items := NewFilter(nil, nil).Apply(expenses)

	require.Len(t, items, 3)
	assert.Equal(t, "NETFLIX", items[0].Description)
	assert.Equal(t, "Spotify", items[1].Description)
	assert.Equal(t, "AWS", items[2].Description)
	assert.True(t, decimal.RequireFromString("99").Equal(items[2].MonthlyEquivalent))

	burn := BurnRate(items)
	assert.True(t, decimal.RequireFromString("124.98").Equal(burn), "got %s", burn)
}

func TestFilter_CustomKeywords(t *testing.T) {
	logger := logging.NewMockLogger()
	filter := NewFilter([]string{"parking", ""}, logger)

	items := filter.Apply([]models.RecurringTransaction{
		expense("City PARKING", "80", models.FrequencyMonthly),
		expense("Rent", "1500", models.FrequencyMonthly),
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Rent", items[0].Description)
	assert.True(t, logger.HasEntry("DEBUG", "Housing expense left out of subscriptions"))
}

func TestFilter_SkipsExclusionEntries(t *testing.T) {
	entry := expense("TRANSFER", "0", models.FrequencyMonthly)
	entry.IsExclude = true

	assert.Empty(t, NewFilter(nil, nil).Apply([]models.RecurringTransaction{entry}))
}

func TestBurnRate_Empty(t *testing.T) {
	assert.True(t, BurnRate(nil).IsZero())
}
