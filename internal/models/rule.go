package models

import "time"

// RuleSeverity classifies how serious a rule breach is considered.
type RuleSeverity string

const (
	SeverityCritical RuleSeverity = "critical"
	SeverityHigh     RuleSeverity = "high"
	SeverityMedium   RuleSeverity = "medium"
	SeverityInfo     RuleSeverity = "info"
)

// RuleStatusValue is the evaluated outcome of a single rule.
type RuleStatusValue string

const (
	StatusPass    RuleStatusValue = "pass"
	StatusWarning RuleStatusValue = "warning"
	StatusBlocked RuleStatusValue = "blocked"
)

// RuleConfig describes one compliance rule. Built-in rules carry fixed,
// stable IDs so user edits and disables survive reevaluation; custom rules
// are user-authored and surface as advisory items only.
type RuleConfig struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Detail    string       `json:"detail" yaml:"detail"`
	Severity  RuleSeverity `json:"severity" yaml:"severity"`
	Enabled   bool         `json:"enabled" yaml:"enabled"`
	BuiltIn   bool         `json:"built_in" yaml:"built_in"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// RuleStatus is a rule's evaluated outcome for the current submission.
// Detail is computed at evaluation time; Severity mirrors the rule's
// current configuration, not a hardcoded value.
type RuleStatus struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Detail   string          `json:"detail"`
	Severity RuleSeverity    `json:"severity"`
	Status   RuleStatusValue `json:"status"`
}
