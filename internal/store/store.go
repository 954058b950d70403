// Package store persists the rule configuration as YAML. Ownership of the
// configuration sits with the caller; the evaluation core only ever
// receives it as an argument.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"clearline/reim-audit/internal/logging"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/rules"

	"gopkg.in/yaml.v3"
)

var log = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// RuleStore loads and saves the ordered rule configuration.
type RuleStore struct {
	FilePath string
}

// NewRuleStore creates a store bound to the given file.
func NewRuleStore(filePath string) *RuleStore {
	return &RuleStore{FilePath: filePath}
}

// Load reads the configured rules, restoring any missing built-ins against
// the defaults. A missing file yields the full default set.
func (s *RuleStore) Load() ([]models.RuleConfig, error) {
	data, err := os.ReadFile(s.FilePath)
	if os.IsNotExist(err) {
		log.Debug("no rules file, using defaults", logging.F("file", s.FilePath))
		return rules.Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var cfgs []models.RuleConfig
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", s.FilePath, err)
	}
	return rules.MergeWithDefaults(cfgs), nil
}

// Save writes the rule configuration back, creating parent directories as
// needed.
func (s *RuleStore) Save(cfgs []models.RuleConfig) error {
	data, err := yaml.Marshal(cfgs)
	if err != nil {
		return fmt.Errorf("error serializing rules: %w", err)
	}
	if dir := filepath.Dir(s.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating rules directory: %w", err)
		}
	}
	if err := os.WriteFile(s.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}
	log.Info("saved rule configuration", logging.F("file", s.FilePath), logging.F("rules", len(cfgs)))
	return nil
}
