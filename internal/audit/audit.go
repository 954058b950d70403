// Package audit implements the pre-flight completeness and sanity gate over
// a built transaction set. Warnings are advisory; errors block progression
// until the caller explicitly bypasses the gate once.
package audit

import (
	"fmt"
	"strings"

	"clearline/reim-audit/internal/dateutils"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/moneyutils"

	"github.com/shopspring/decimal"
)

// Input carries everything the validator inspects: the resolved rows,
// form-level fields and the two declared totals (either possibly absent).
type Input struct {
	Rows              []models.ReceiptRow
	ClientName        string
	Address           string
	StaffMember       string
	ApprovedBy        string
	FormTotal         string
	ReceiptGrandTotal string
}

// Validate runs every check and returns the ordered issue list. It never
// fails; an empty result means the submission is clean.
func Validate(in Input) []models.AuditIssue {
	var issues []models.AuditIssue
	warn := func(format string, args ...interface{}) {
		issues = append(issues, models.AuditIssue{Level: models.AuditWarning, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(in.ClientName) == "" {
		warn("client name is missing")
	}
	if strings.TrimSpace(in.Address) == "" {
		warn("address is missing")
	}
	if strings.TrimSpace(in.StaffMember) == "" {
		warn("staff member is missing")
	}
	if strings.TrimSpace(in.ApprovedBy) == "" {
		warn("approver is missing")
	}

	if len(in.Rows) == 0 {
		// Nothing to run row-level checks against; short-circuit.
		issues = append(issues, models.AuditIssue{
			Level:   models.AuditError,
			Message: "no valid receipt rows were resolved from the upload",
		})
		return issues
	}

	for i, row := range in.Rows {
		if strings.TrimSpace(row.Product) == "" {
			warn("row %d (receipt %s): product is missing", i+1, row.ReceiptNum)
		}
		if strings.TrimSpace(row.DateTime) == "" {
			warn("row %d (receipt %s): date/time is missing", i+1, row.ReceiptNum)
		}
		if !moneyutils.IsPositive(row.ReceiptTotal) {
			warn("row %d (receipt %s): receipt total %q is zero or not a number", i+1, row.ReceiptNum, row.ReceiptTotal)
		}
	}

	issues = append(issues, duplicateUIDIssues(in.Rows)...)
	issues = append(issues, duplicateSignatureIssues(in.Rows)...)

	if msg, mismatch := totalsMismatch(in.FormTotal, in.ReceiptGrandTotal); mismatch {
		issues = append(issues, models.AuditIssue{Level: models.AuditWarning, Message: msg})
	}
	return issues
}

// duplicateUIDIssues flags unique-ids shared by rows that are not plausibly
// one physical receipt split across lines: flagged when receipt numbers
// differ across the group or the (product, amount) pairs are not all
// identical.
func duplicateUIDIssues(rows []models.ReceiptRow) []models.AuditIssue {
	groups := make(map[string][]models.ReceiptRow)
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.UniqueID))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], row)
	}

	var issues []models.AuditIssue
	for uid, group := range groups {
		if len(group) < 2 {
			continue
		}
		if receiptNumsDiffer(group) || !itemPairsIdentical(group) {
			issues = append(issues, models.AuditIssue{
				Level:   models.AuditWarning,
				Message: fmt.Sprintf("unique id %q appears on %d rows that do not look like one receipt split across lines", uid, len(group)),
			})
		}
	}
	return issues
}

// duplicateSignatureIssues applies the analogous heuristic to rows sharing
// a (store, date, amount) signature.
func duplicateSignatureIssues(rows []models.ReceiptRow) []models.AuditIssue {
	groups := make(map[string][]models.ReceiptRow)
	for _, row := range rows {
		sig := strings.ToLower(strings.TrimSpace(row.StoreName)) + "|" +
			dateutils.Key(row.DateTime) + "|" +
			moneyutils.NormalizeOrZero(row.ReceiptTotal)
		groups[sig] = append(groups[sig], row)
	}

	var issues []models.AuditIssue
	for sig, group := range groups {
		if len(group) < 2 {
			continue
		}
		if receiptNumsDiffer(group) || !itemPairsIdentical(group) {
			issues = append(issues, models.AuditIssue{
				Level:   models.AuditWarning,
				Message: fmt.Sprintf("store/date/amount signature %q appears on %d rows that do not look like one receipt split across lines", sig, len(group)),
			})
		}
	}
	return issues
}

func receiptNumsDiffer(group []models.ReceiptRow) bool {
	for _, row := range group[1:] {
		if !strings.EqualFold(strings.TrimSpace(row.ReceiptNum), strings.TrimSpace(group[0].ReceiptNum)) {
			return true
		}
	}
	return false
}

func itemPairsIdentical(group []models.ReceiptRow) bool {
	first := itemPair(group[0])
	for _, row := range group[1:] {
		if itemPair(row) != first {
			return false
		}
	}
	return true
}

func itemPair(row models.ReceiptRow) string {
	return strings.ToLower(strings.TrimSpace(row.Product)) + "|" + row.ItemAmount
}

// totalsMismatch compares the declared form total against the declared
// receipt grand total when both are present, tolerating one cent.
func totalsMismatch(formTotal, grandTotal string) (string, bool) {
	if strings.TrimSpace(formTotal) == "" || strings.TrimSpace(grandTotal) == "" {
		return "", false
	}
	form := moneyutils.Parse(formTotal)
	grand := moneyutils.Parse(grandTotal)
	if form.Sub(grand).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)) {
		return "", false
	}
	return fmt.Sprintf("form total %s does not match receipt grand total %s",
		form.StringFixed(2), grand.StringFixed(2)), true
}
