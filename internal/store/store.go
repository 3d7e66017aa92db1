// Package store persists manual recurring rules.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the file name used when no rules file is configured
const DefaultRulesFile = "rules.yaml"

// RuleRepository is the load/save contract the engine callers depend on
type RuleRepository interface {
	Load() ([]models.ManualRecurringRule, error)
	Save(rules []models.ManualRecurringRule) error
}

// rulesDocument is the on-disk layout: a top-level "rules" list
type rulesDocument struct {
	Rules []models.ManualRecurringRule `yaml:"rules"`
}

// RuleStore keeps rules in a YAML file
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for the given file. An empty path means
// DefaultRulesFile in the working directory.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if rulesFile == "" {
		rulesFile = DefaultRulesFile
	}
	return &RuleStore{RulesFile: rulesFile, logger: logging.OrDiscard(logger)}
}

// Load reads and validates the rules. A missing file is an empty rule set.
func (s *RuleStore) Load() ([]models.ManualRecurringRule, error) {
	log := s.logger.WithField(logging.FieldFile, s.RulesFile)

	data, err := os.ReadFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("Rules file not found, starting without rules")
			return []models.ManualRecurringRule{}, nil
		}
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	rules, err := decodeRules(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", s.RulesFile, err)
	}

	normalizeRules(rules)
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	log.Debug("Loaded rules", logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}

// decodeRules accepts the documented "rules:" layout and, for hand-written
// files, a bare list.
func decodeRules(data []byte) ([]models.ManualRecurringRule, error) {
	var doc rulesDocument
	docErr := yaml.Unmarshal(data, &doc)
	if docErr == nil && doc.Rules != nil {
		return doc.Rules, nil
	}

	var list []models.ManualRecurringRule
	if err := yaml.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []models.ManualRecurringRule{}
		}
		return list, nil
	}

	if docErr != nil {
		return nil, docErr
	}
	return []models.ManualRecurringRule{}, nil
}

// Save validates the rules and writes them, creating parent directories
func (s *RuleStore) Save(rules []models.ManualRecurringRule) error {
	normalizeRules(rules)
	if err := ValidateRules(rules); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.RulesFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if rules == nil {
		rules = []models.ManualRecurringRule{}
	}
	data, err := yaml.Marshal(rulesDocument{Rules: rules})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if err := os.WriteFile(s.RulesFile, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}

	s.logger.Debug("Saved rules",
		logging.Field{Key: logging.FieldFile, Value: s.RulesFile},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return nil
}

// normalizeRules accepts the user spellings of a direction (debit, out, ...)
func normalizeRules(rules []models.ManualRecurringRule) {
	for i := range rules {
		if parsed := models.ParseDirection(string(rules[i].Direction)); parsed != models.DirectionUnknown {
			rules[i].Direction = parsed
		}
	}
}
