package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestRuleStore_LoadMissingFile(t *testing.T) {
	logger := logging.NewMockLogger()
	store := NewRuleStore(filepath.Join(t.TempDir(), "missing.yaml"), logger)

	rules, err := store.Load()

	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
	assert.True(t, logger.HasEntry("DEBUG", "Rules file not found, starting without rules"))
}

func TestRuleStore_LoadDocument(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, `rules:
  - id: rent
    name: Rent
    direction: debit
    pattern: landlord
    day_window:
      start: 28
      end: 3
    expected_amount: 1850.50
    tolerance: 0.05
    enabled: true
  - id: savings
    direction: OUT
    pattern: transfer to savings
    enabled: true
    is_exclude: true
`)

	rules, err := NewRuleStore(file, nil).Load()

	require.NoError(t, err)
	require.Len(t, rules, 2)
	rent := rules[0]
	assert.Equal(t, "Rent", rent.Label())
	assert.Equal(t, models.DirectionDebit, rent.Direction)
	require.NotNil(t, rent.DayWindow)
	assert.Equal(t, models.DayWindow{Start: 28, End: 3}, *rent.DayWindow)
	require.NotNil(t, rent.ExpectedAmount)
	assert.True(t, decimal.RequireFromString("1850.50").Equal(*rent.ExpectedAmount))
	require.NotNil(t, rent.Tolerance)
	assert.InDelta(t, 0.05, *rent.Tolerance, 1e-9)
	assert.True(t, rent.Enabled)

	assert.Equal(t, models.DirectionDebit, rules[1].Direction)
	assert.True(t, rules[1].IsExclude)
	assert.Nil(t, rules[1].ExpectedAmount)
}

func TestRuleStore_LoadBareList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, `- id: salary
  direction: CREDIT
  pattern: acme
  enabled: true
`)

	rules, err := NewRuleStore(file, nil).Load()

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.DirectionCredit, rules[0].Direction)
}

func TestRuleStore_LoadEmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, "")

	rules, err := NewRuleStore(file, nil).Load()

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRuleStore_LoadMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, "rules: [unclosed")

	_, err := NewRuleStore(file, nil).Load()

	assert.Error(t, err)
}

func TestRuleStore_LoadInvalidRule(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, `rules:
  - id: bad
    direction: sideways
    pattern: x
`)

	_, err := NewRuleStore(file, nil).Load()

	var validationErr *parsererror.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "direction", validationErr.Field)
}

func TestRuleStore_SaveRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "dir", "rules.yaml")
	store := NewRuleStore(file, nil)
	amount := decimal.RequireFromString("15.99")
	tolerance := 0.1
	rules := []models.ManualRecurringRule{{
		ID:             "netflix",
		Direction:      models.DirectionDebit,
		Pattern:        "netflix",
		ExpectedAmount: &amount,
		Tolerance:      &tolerance,
		IntervalDays:   30,
		Enabled:        true,
	}}

	require.NoError(t, store.Save(rules))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "netflix", loaded[0].ID)
	assert.Equal(t, 30, loaded[0].IntervalDays)
	require.NotNil(t, loaded[0].ExpectedAmount)
	assert.True(t, amount.Equal(*loaded[0].ExpectedAmount))
}

func TestRuleStore_SaveRejectsInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	rules := []models.ManualRecurringRule{{ID: "x", Direction: models.DirectionDebit, DayWindow: &models.DayWindow{Start: 0, End: 40}}}

	err := NewRuleStore(file, nil).Save(rules)

	var validationErr *parsererror.ValidationError
	require.True(t, errors.As(err, &validationErr))
	_, statErr := os.Stat(file)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewRuleStore_DefaultFile(t *testing.T) {
	assert.Equal(t, DefaultRulesFile, NewRuleStore("", nil).RulesFile)
}

func TestMockRuleStore(t *testing.T) {
	mock := &MockRuleStore{Rules: []models.ManualRecurringRule{{ID: "a"}}}

	rules, err := mock.Load()
	require.NoError(t, err)
	rules[0].ID = "changed"
	assert.Equal(t, "a", mock.Rules[0].ID)

	require.NoError(t, mock.Save(nil))
	assert.Empty(t, mock.Rules)
	assert.Equal(t, 1, mock.SaveCalls)

	mock.LoadError = errors.New("boom")
	_, err = mock.Load()
	assert.EqualError(t, err, "boom")
}
