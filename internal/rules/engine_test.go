package rules

import (
	"testing"
	"time"

	"clearline/reim-audit/internal/dupcheck"
	"clearline/reim-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
}

func completeFields() FormFields {
	return FormFields{
		ClientName:  "Alex Parker",
		Address:     "12 High Street",
		StaffMember: "John Smith",
		ApprovedBy:  "Jane Boss",
	}
}

func transaction(amount int64, uid, date string) models.Transaction {
	return models.Transaction{
		StaffName:        "John Smith",
		FormattedName:    "John Smith",
		Amount:           decimal.NewFromInt(amount),
		ClientOrLocation: "Coles",
		ReceiptID:        uid,
		Date:             date,
	}
}

func inputFor(txs ...models.Transaction) Input {
	return Input{
		Transactions: txs,
		Fingerprints: dupcheck.Fingerprints(txs),
		Fields:       completeFields(),
		Now:          fixedNow,
	}
}

func statusByID(statuses []models.RuleStatus, id string) (models.RuleStatus, bool) {
	for _, st := range statuses {
		if st.ID == id {
			return st, true
		}
	}
	return models.RuleStatus{}, false
}

func TestCleanSubmissionPasses(t *testing.T) {
	statuses := Evaluate(Defaults(), inputFor(transaction(60, "R-1", "25/02/2025")))
	require.Len(t, statuses, 6)
	for _, st := range statuses {
		assert.Equal(t, models.StatusPass, st.Status, st.ID)
	}
}

func TestAwaitingInput(t *testing.T) {
	statuses := Evaluate(Defaults(), Input{Now: fixedNow})
	require.Len(t, statuses, 1)
	assert.Equal(t, "Awaiting Input", statuses[0].Title)
	assert.Equal(t, models.StatusPass, statuses[0].Status)
}

func TestDuplicateInUploadBlocked(t *testing.T) {
	statuses := Evaluate(Defaults(), inputFor(
		transaction(60, "R-1", "25/02/2025"),
		transaction(45, "R-1", "26/02/2025"),
	))
	st, ok := statusByID(statuses, RuleDuplicateInUpload)
	require.True(t, ok)
	assert.Equal(t, models.StatusBlocked, st.Status)
}

func TestAlreadyProcessedBlockedByID(t *testing.T) {
	in := inputFor(transaction(60, "R-1", "25/02/2025"))
	in.History = []models.HistoricalRecord{{
		ID:           "h1",
		StaffName:    "Someone Else",
		Amount:       "10.00",
		CreatedAt:    "2025-02-20T00:00:00Z",
		EmailContent: "**Receipt ID:** R-1\n",
	}}

	statuses := Evaluate(Defaults(), in)
	st, ok := statusByID(statuses, RuleAlreadyProcessed)
	require.True(t, ok)
	assert.Equal(t, models.StatusBlocked, st.Status)
}

func TestAlreadyProcessedBlockedBySignature(t *testing.T) {
	in := inputFor(transaction(60, "R-1", "15/02/2025"))
	in.History = []models.HistoricalRecord{{
		ID:           "h2",
		StaffName:    "Someone Else",
		Amount:       "60.00",
		CreatedAt:    "2025-02-20T00:00:00Z",
		EmailContent: "| 1 | OTHER | Coles | 15/02/2025 | Milk | Groceries | 60.00 | 60.00 | |\n",
	}}

	statuses := Evaluate(Defaults(), in)
	st, ok := statusByID(statuses, RuleAlreadyProcessed)
	require.True(t, ok)
	assert.Equal(t, models.StatusBlocked, st.Status)
}

func TestAmountThresholdWarning(t *testing.T) {
	statuses := Evaluate(Defaults(), inputFor(transaction(400, "R-1", "25/02/2025")))
	st, ok := statusByID(statuses, RuleAmountThreshold)
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, st.Status)
	assert.Contains(t, st.Detail, "$300.00")
}

func TestAmountThresholdDisabledIsOmitted(t *testing.T) {
	cfgs := Defaults()
	for i := range cfgs {
		if cfgs[i].ID == RuleAmountThreshold {
			cfgs[i].Enabled = false
		}
	}

	statuses := Evaluate(cfgs, inputFor(transaction(400, "R-1", "25/02/2025")))
	_, ok := statusByID(statuses, RuleAmountThreshold)
	assert.False(t, ok, "disabled built-in must be omitted entirely")
}

func TestReceiptAgeWarning(t *testing.T) {
	statuses := Evaluate(Defaults(), inputFor(transaction(60, "R-1", "15/01/2025")))
	st, ok := statusByID(statuses, RuleReceiptAge)
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, st.Status)
}

func TestRequiredFieldsBlocked(t *testing.T) {
	in := inputFor(transaction(60, "R-1", "25/02/2025"))
	in.Fields.ApprovedBy = ""

	statuses := Evaluate(Defaults(), in)
	st, ok := statusByID(statuses, RuleRequiredFields)
	require.True(t, ok)
	assert.Equal(t, models.StatusBlocked, st.Status)
	assert.Contains(t, st.Detail, "approver")
}

func TestRequiredFieldsGroupModeSkipsStaffMember(t *testing.T) {
	in := inputFor(transaction(60, "R-1", "25/02/2025"))
	in.Fields.StaffMember = ""
	in.GroupMode = true

	statuses := Evaluate(Defaults(), in)
	st, ok := statusByID(statuses, RuleRequiredFields)
	require.True(t, ok)
	assert.Equal(t, models.StatusPass, st.Status)
}

func TestSubjectForApprovalReflectsOtherRules(t *testing.T) {
	statuses := Evaluate(Defaults(), inputFor(transaction(400, "R-1", "25/02/2025")))
	require.NotEmpty(t, statuses)

	// The meta-rule is evaluated last.
	last := statuses[len(statuses)-1]
	assert.Equal(t, RuleSubjectForApproval, last.ID)
	assert.Equal(t, models.StatusWarning, last.Status)
}

func TestCustomRuleAlwaysAdvisory(t *testing.T) {
	cfgs := append(Defaults(), models.RuleConfig{
		ID:       "custom-1",
		Title:    "Check GST breakdown",
		Detail:   "Finance wants GST split out for claims over $82.50.",
		Severity: models.SeverityMedium,
		Enabled:  true,
	})

	statuses := Evaluate(cfgs, inputFor(transaction(60, "R-1", "25/02/2025")))
	st, ok := statusByID(statuses, "custom-1")
	require.True(t, ok)
	assert.Equal(t, models.StatusWarning, st.Status)
	assert.Equal(t, "Check GST breakdown", st.Title)
	assert.Equal(t, "Finance wants GST split out for claims over $82.50.", st.Detail)
	assert.Equal(t, models.SeverityMedium, st.Severity)
}

func TestSeverityMirrorsConfiguration(t *testing.T) {
	cfgs := Defaults()
	for i := range cfgs {
		if cfgs[i].ID == RuleAmountThreshold {
			cfgs[i].Severity = models.SeverityCritical
		}
	}

	statuses := Evaluate(cfgs, inputFor(transaction(400, "R-1", "25/02/2025")))
	st, ok := statusByID(statuses, RuleAmountThreshold)
	require.True(t, ok)
	assert.Equal(t, models.SeverityCritical, st.Severity)
}

func TestMergeWithDefaultsRestoresMissingBuiltIns(t *testing.T) {
	custom := models.RuleConfig{ID: "custom-1", Title: "Custom", Enabled: true}
	merged := MergeWithDefaults([]models.RuleConfig{custom})

	require.Len(t, merged, 7)
	assert.Equal(t, "custom-1", merged[0].ID)
	ids := make(map[string]bool)
	for _, cfg := range merged {
		ids[cfg.ID] = true
	}
	for _, want := range []string{RuleDuplicateInUpload, RuleAlreadyProcessed, RuleAmountThreshold, RuleReceiptAge, RuleRequiredFields, RuleSubjectForApproval} {
		assert.True(t, ids[want], want)
	}
}
