// Package rules evaluates the ordered, user-configurable compliance rule
// set against the current submission.
package rules

import (
	"clearline/reim-audit/internal/models"

	"github.com/shopspring/decimal"
)

// Built-in rule IDs are fixed constants so a partial or edited
// configuration can always be diffed against the defaults.
const (
	RuleDuplicateInUpload  = "r1"
	RuleAlreadyProcessed   = "r2"
	RuleAmountThreshold    = "r3"
	RuleReceiptAge         = "r4"
	RuleRequiredFields     = "r5"
	RuleSubjectForApproval = "r6"
)

// DefaultAmountCeiling is the default per-transaction warning threshold.
var DefaultAmountCeiling = decimal.NewFromInt(300)

// DefaultMaxReceiptAgeDays is the default receipt aging threshold.
const DefaultMaxReceiptAgeDays = 30

// Defaults returns the full built-in rule set in evaluation order. The
// subject-for-approval meta-rule must stay last.
func Defaults() []models.RuleConfig {
	return []models.RuleConfig{
		{ID: RuleDuplicateInUpload, Title: "Duplicate in upload", Detail: "No two rows in one submission may share a unique id or a store/date/amount signature.", Severity: models.SeverityCritical, Enabled: true, BuiltIn: true},
		{ID: RuleAlreadyProcessed, Title: "Already processed", Detail: "The submission must not match any historical record by id or by date and amount.", Severity: models.SeverityCritical, Enabled: true, BuiltIn: true},
		{ID: RuleAmountThreshold, Title: "Amount threshold", Detail: "Transactions above the configured ceiling need extra review.", Severity: models.SeverityHigh, Enabled: true, BuiltIn: true},
		{ID: RuleReceiptAge, Title: "Receipt age", Detail: "Receipts older than the configured age need extra review.", Severity: models.SeverityMedium, Enabled: true, BuiltIn: true},
		{ID: RuleRequiredFields, Title: "Required fields", Detail: "Client name, address and approver must be present; staff member too for single-staff submissions.", Severity: models.SeverityHigh, Enabled: true, BuiltIn: true},
		{ID: RuleSubjectForApproval, Title: "Subject for approval", Detail: "Flags the submission when any other rule is not passing.", Severity: models.SeverityInfo, Enabled: true, BuiltIn: true},
	}
}

// MergeWithDefaults restores built-ins missing from a partial or edited
// configuration while preserving the supplied entries, including custom
// rules, and their order.
func MergeWithDefaults(cfgs []models.RuleConfig) []models.RuleConfig {
	present := make(map[string]bool, len(cfgs))
	for _, cfg := range cfgs {
		present[cfg.ID] = true
	}
	merged := append([]models.RuleConfig(nil), cfgs...)
	for _, def := range Defaults() {
		if !present[def.ID] {
			merged = append(merged, def)
		}
	}
	return merged
}
