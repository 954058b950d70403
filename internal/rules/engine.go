package rules

import (
	"fmt"
	"strings"
	"time"

	"clearline/reim-audit/internal/dateutils"
	"clearline/reim-audit/internal/history"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/moneyutils"

	"github.com/shopspring/decimal"
)

// FormFields carries the form-level values the required-fields rule checks.
type FormFields struct {
	ClientName  string
	Address     string
	StaffMember string
	ApprovedBy  string
}

// Input is everything one evaluation pass reads. State is caller-owned and
// passed fresh on every call.
type Input struct {
	Transactions []models.Transaction
	Fingerprints []models.Fingerprint
	History      []models.HistoricalRecord
	Fields       FormFields
	GroupMode    bool

	AmountCeiling     decimal.Decimal // zero means DefaultAmountCeiling
	MaxReceiptAgeDays int             // zero means DefaultMaxReceiptAgeDays
	Now               func() time.Time
}

func (in Input) withDefaults() Input {
	if in.AmountCeiling.IsZero() {
		in.AmountCeiling = DefaultAmountCeiling
	}
	if in.MaxReceiptAgeDays <= 0 {
		in.MaxReceiptAgeDays = DefaultMaxReceiptAgeDays
	}
	if in.Now == nil {
		in.Now = time.Now
	}
	return in
}

// Evaluate runs every enabled rule in configuration order and returns the
// status list. Disabled built-ins are omitted entirely; enabled custom
// rules surface as advisory warnings carrying their configured text
// verbatim. Severity always mirrors the supplied configuration.
func Evaluate(cfgs []models.RuleConfig, in Input) []models.RuleStatus {
	in = in.withDefaults()

	if len(in.Transactions) == 0 {
		return []models.RuleStatus{{
			ID:       "awaiting-input",
			Title:    "Awaiting Input",
			Detail:   "No transactions to evaluate yet.",
			Severity: models.SeverityInfo,
			Status:   models.StatusPass,
		}}
	}

	// The meta-rule reads every other outcome, so it is evaluated last
	// regardless of where it sits in the configuration.
	ordered := make([]models.RuleConfig, 0, len(cfgs))
	var meta *models.RuleConfig
	for _, cfg := range cfgs {
		if cfg.ID == RuleSubjectForApproval {
			c := cfg
			meta = &c
			continue
		}
		ordered = append(ordered, cfg)
	}

	var statuses []models.RuleStatus
	for _, cfg := range ordered {
		if !cfg.Enabled {
			continue
		}
		statuses = append(statuses, evaluateRule(cfg, in))
	}
	if meta != nil && meta.Enabled {
		statuses = append(statuses, subjectForApproval(*meta, statuses))
	}
	return statuses
}

func evaluateRule(cfg models.RuleConfig, in Input) models.RuleStatus {
	status := models.RuleStatus{
		ID:       cfg.ID,
		Title:    cfg.Title,
		Detail:   cfg.Detail,
		Severity: cfg.Severity,
		Status:   models.StatusPass,
	}

	if !cfg.BuiltIn {
		// Custom rules are informational flags, not computed checks.
		status.Status = models.StatusWarning
		return status
	}

	switch cfg.ID {
	case RuleDuplicateInUpload:
		if detail, dup := duplicateInUpload(in.Fingerprints); dup {
			status.Status = models.StatusBlocked
			status.Detail = detail
		}
	case RuleAlreadyProcessed:
		if detail, hit := alreadyProcessed(in.Fingerprints, in.History); hit {
			status.Status = models.StatusBlocked
			status.Detail = detail
		}
	case RuleAmountThreshold:
		if detail, over := amountThreshold(in.Transactions, in.AmountCeiling); over {
			status.Status = models.StatusWarning
			status.Detail = detail
		}
	case RuleReceiptAge:
		if detail, old := receiptAge(in.Transactions, in.MaxReceiptAgeDays, in.Now()); old {
			status.Status = models.StatusWarning
			status.Detail = detail
		}
	case RuleRequiredFields:
		if detail, missing := requiredFields(in.Fields, in.GroupMode); missing {
			status.Status = models.StatusBlocked
			status.Detail = detail
		}
	}
	return status
}

// duplicateInUpload blocks when any same-id or same-signature group within
// the current submission has more than one member.
func duplicateInUpload(fps []models.Fingerprint) (string, bool) {
	byUID := make(map[string]int)
	bySig := make(map[string]int)
	for _, fp := range fps {
		if uid := strings.ToLower(strings.TrimSpace(fp.UID)); uid != "" {
			byUID[uid]++
			if byUID[uid] > 1 {
				return fmt.Sprintf("unique id %q appears more than once in this upload", fp.UID), true
			}
		}
		bySig[fp.SignatureKey]++
		if bySig[fp.SignatureKey] > 1 {
			return fmt.Sprintf("signature %q appears more than once in this upload", fp.SignatureKey), true
		}
	}
	return "", false
}

// alreadyProcessed blocks on any history match by id or by date+amount
// signature. Deliberately stricter than the tiered duplicate detector: any
// match counts, with no reference-confidence tiers.
func alreadyProcessed(fps []models.Fingerprint, records []models.HistoricalRecord) (string, bool) {
	for _, rec := range records {
		mined := history.Mine(rec)
		ids := mined.KnownIDs()
		histAmount := moneyutils.NormalizeOrZero(rec.Amount)
		for _, fp := range fps {
			if uid := strings.ToLower(strings.TrimSpace(fp.UID)); uid != "" && ids[uid] {
				return fmt.Sprintf("receipt id %q already appears in processed record %s", fp.UID, rec.ID), true
			}
			if mined.DateKey != "" && fp.DateKey == mined.DateKey && fp.Amount == histAmount {
				return fmt.Sprintf("date %s with amount %s already appears in processed record %s", fp.DateKey, fp.Amount, rec.ID), true
			}
		}
	}
	return "", false
}

func amountThreshold(txs []models.Transaction, ceiling decimal.Decimal) (string, bool) {
	over := 0
	for _, tx := range txs {
		if tx.Amount.GreaterThan(ceiling) {
			over++
		}
	}
	if over == 0 {
		return "", false
	}
	return fmt.Sprintf("%d transaction(s) exceed the %s ceiling", over, moneyutils.FormatDollars(ceiling)), true
}

func receiptAge(txs []models.Transaction, maxDays int, now time.Time) (string, bool) {
	cutoff := now.AddDate(0, 0, -maxDays)
	for _, tx := range txs {
		if t, ok := dateutils.Parse(tx.Date); ok && t.Before(cutoff) {
			return fmt.Sprintf("receipt dated %s is more than %d days old", t.Format(dateutils.KeyLayout), maxDays), true
		}
	}
	return "", false
}

func requiredFields(fields FormFields, groupMode bool) (string, bool) {
	var missing []string
	if strings.TrimSpace(fields.ClientName) == "" {
		missing = append(missing, "client name")
	}
	if strings.TrimSpace(fields.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(fields.ApprovedBy) == "" {
		missing = append(missing, "approver")
	}
	if !groupMode && strings.TrimSpace(fields.StaffMember) == "" {
		missing = append(missing, "staff member")
	}
	if len(missing) == 0 {
		return "", false
	}
	return "missing required fields: " + strings.Join(missing, ", "), true
}

// subjectForApproval is the meta-rule: a warning whenever any other rule is
// blocked or warning.
func subjectForApproval(cfg models.RuleConfig, others []models.RuleStatus) models.RuleStatus {
	status := models.RuleStatus{
		ID:       cfg.ID,
		Title:    cfg.Title,
		Detail:   cfg.Detail,
		Severity: cfg.Severity,
		Status:   models.StatusPass,
	}
	for _, other := range others {
		if other.Status != models.StatusPass {
			status.Status = models.StatusWarning
			status.Detail = fmt.Sprintf("submission needs approval: %q is %s", other.Title, other.Status)
			break
		}
	}
	return status
}
