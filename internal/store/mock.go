package store

import (
	"fjacquet/cashflow/internal/models"
)

// MockRuleStore is an in-memory RuleRepository for tests
type MockRuleStore struct {
	Rules []models.ManualRecurringRule

	// Error flags for testing error conditions
	LoadError error
	SaveError error

	SaveCalls int
}

// Load returns a copy of the stored rules
func (m *MockRuleStore) Load() ([]models.ManualRecurringRule, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return append([]models.ManualRecurringRule{}, m.Rules...), nil
}

// Save replaces the stored rules with a copy of rules
func (m *MockRuleStore) Save(rules []models.ManualRecurringRule) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Rules = append([]models.ManualRecurringRule{}, rules...)
	return nil
}

var _ RuleRepository = (*MockRuleStore)(nil)
var _ RuleRepository = (*RuleStore)(nil)
