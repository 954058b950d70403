// Package builder turns extracted form fields and receipt tables into
// canonical transaction sets and the narrative document that carries them.
// Three mutually exclusive modes exist: solo (one staff member), group
// (multi-staff petty cash) and manual (structured extraction skipped).
package builder

import (
	"strconv"
	"strings"
	"time"

	"clearline/reim-audit/internal/logging"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/moneyutils"
	"clearline/reim-audit/internal/parsererror"
	"clearline/reim-audit/internal/rowparser"
	"clearline/reim-audit/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var log = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// FallbackStoreName is inherited by rows that omit a store column when no
// better value is known.
const FallbackStoreName = "Unknown Store"

// ExpenseTypePettyCash is the expense type stamped on every group-mode
// transaction.
const ExpenseTypePettyCash = "Petty Cash"

// Options injects the ambient dependencies of a build pass. The clock and
// id generator are injectable so fallback identifiers and aging tests stay
// deterministic.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string {
			return "FB-" + strings.ToUpper(uuid.NewString()[:8])
		}
	}
	return o
}

// FormFields are the form-level values extracted once per submission.
type FormFields struct {
	ClientName  string
	Address     string
	StaffMember string
	ApprovedBy  string
	TotalAmount string
}

// ExtractFormFields pulls the form-level fields out of free-form text.
// Unresolved fields stay empty; completeness is the audit validator's job.
func ExtractFormFields(text string) FormFields {
	return FormFields{
		ClientName:  textutils.ExtractField(text, textutils.FieldClientName),
		Address:     textutils.ExtractField(text, textutils.FieldAddress),
		StaffMember: textutils.ExtractField(text, textutils.FieldStaffMember),
		ApprovedBy:  textutils.ExtractField(text, textutils.FieldApprovedBy),
		TotalAmount: textutils.ExtractField(text, textutils.FieldTotalAmount),
	}
}

// Result is the outcome of one build pass. ReceiptGrandTotal is the amount
// declared on a summary row of the receipt table, when one was present.
type Result struct {
	Transactions      []models.Transaction
	Rows              []models.ReceiptRow
	Fields            FormFields
	Total             decimal.Decimal
	Document          string
	UIDFallbacks      []string
	ReceiptGrandTotal string
}

// BuildSolo builds transactions for a single staff member from the form
// text plus an optional receipt-details block. Absent a table, Particular
// blocks are used; absent both, a single total-amount-only transaction is
// emitted so the submission still round-trips.
func BuildSolo(formText, receiptText string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	fields := ExtractFormFields(formText)

	fb := rowparser.Fallbacks{
		Total:     fields.TotalAmount,
		StoreName: FallbackStoreName,
	}

	tableSource := receiptText
	if strings.TrimSpace(tableSource) == "" {
		tableSource = formText
	}
	rows, grandTotal := parseTable(tableSource, fb)

	var txs []models.Transaction
	var uidFallbacks []string
	switch {
	case len(rows) > 0:
		uidFallbacks = assignFallbackIDs(rows, opts.NewID)
		txs = rowTransactions(rows, fields)
	default:
		txs = particularTransactions(formText, fields)
		if len(txs) == 0 {
			txs = []models.Transaction{fallbackTransaction(fields)}
		}
	}

	total := models.SumAmounts(txs)
	result := &Result{
		Transactions:      txs,
		Rows:              rows,
		Fields:            fields,
		Total:             total,
		UIDFallbacks:      uidFallbacks,
		ReceiptGrandTotal: grandTotal,
	}
	result.Document = renderSolo(result)
	log.Info("built solo submission",
		logging.F("transactions", len(txs)),
		logging.F("total", total.StringFixed(2)))
	return result, nil
}

// BuildGroup builds one transaction per staff member from either a
// three-column staff table or repeated Staff Member blocks. Fewer than two
// distinct entries, or any entry matching the delinquent staff list, is a
// hard error returning no transactions.
func BuildGroup(formText string, delinquentStaff []string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	fields := ExtractFormFields(formText)

	entries := groupTableEntries(formText)
	if len(entries) == 0 {
		entries = groupBlockEntries(formText)
	}

	if distinctStaff(entries) < 2 {
		return nil, &parsererror.GroupFormatError{Entries: distinctStaff(entries)}
	}
	for _, entry := range entries {
		for _, blocked := range delinquentStaff {
			if textutils.SameName(entry.staffName, blocked) {
				return nil, &parsererror.DelinquentStaffError{StaffName: entry.staffName}
			}
		}
	}

	txs := make([]models.Transaction, 0, len(entries))
	for i, entry := range entries {
		txs = append(txs, models.Transaction{
			StaffName:        entry.staffName,
			FormattedName:    textutils.FormatName(entry.staffName),
			Amount:           moneyutils.Parse(entry.amount),
			ClientOrLocation: entry.clientName,
			Address:          fields.Address,
			ExpenseType:      ExpenseTypePettyCash,
			ReceiptID:        strconv.Itoa(i + 1),
		})
	}

	total := models.SumAmounts(txs)
	result := &Result{
		Transactions: txs,
		Fields:       fields,
		Total:        total,
	}
	result.Document = renderGroup(result)
	log.Info("built group submission",
		logging.F("staff", len(txs)),
		logging.F("total", total.StringFixed(2)))
	return result, nil
}

// BuildManual produces the single passthrough stub used when the caller
// wants to skip structured extraction entirely.
func BuildManual(opts Options) (*Result, error) {
	opts = opts.withDefaults()
	tx := models.Transaction{
		StaffName:        "Manual Entry",
		FormattedName:    "Manual Entry",
		Amount:           decimal.Zero,
		ClientOrLocation: "N/A",
		Address:          "N/A",
		ExpenseType:      "Manual",
		ReceiptID:        "1",
	}
	result := &Result{
		Transactions: []models.Transaction{tx},
		Total:        decimal.Zero,
	}
	result.Document = renderManual(result)
	return result, nil
}

// parseTable extracts canonical rows from every pipe-delimited line in the
// text. Malformed rows are dropped silently; normalization is best-effort
// per row. Summary rows never become items, but the amount of the last one
// seen is kept so the declared grand total can be checked against the form.
func parseTable(text string, fb rowparser.Fallbacks) ([]models.ReceiptRow, string) {
	var rows []models.ReceiptRow
	var grandTotal string
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		if total, ok := rowparser.SummaryTotal(rowparser.SplitCells(line)); ok {
			grandTotal = total
			continue
		}
		if row, ok := rowparser.ParseLine(line, fb); ok {
			rows = append(rows, row)
		}
	}
	return rows, grandTotal
}

// assignFallbackIDs synthesizes a unique id for every row that arrived
// without one, so every row carries a stable dedup key. Continuation rows
// sharing a receipt number are one physical receipt and share one id;
// distinct receipt numbers always get distinct ids.
func assignFallbackIDs(rows []models.ReceiptRow, newID func() string) []string {
	var issued []string
	byReceipt := make(map[string]string)
	for i := range rows {
		if strings.TrimSpace(rows[i].UniqueID) != "" {
			continue
		}
		id, ok := byReceipt[rows[i].ReceiptNum]
		if !ok {
			id = newID()
			byReceipt[rows[i].ReceiptNum] = id
			issued = append(issued, id)
		}
		rows[i].UniqueID = id
	}
	return issued
}

// rowTransactions converts canonical rows to transactions. Rows whose item
// amount is folded into the receipt total contribute that total exactly
// once per receipt number, keeping the recomputed sum honest for
// multi-line receipts.
func rowTransactions(rows []models.ReceiptRow, fields FormFields) []models.Transaction {
	txs := make([]models.Transaction, 0, len(rows))
	counted := make(map[string]bool, len(rows))
	for i, row := range rows {
		var amount decimal.Decimal
		if row.ItemAmount == models.IncludedInTotal {
			if !counted[row.ReceiptNum] {
				amount = moneyutils.Parse(row.ReceiptTotal)
			}
		} else {
			amount = moneyutils.Parse(row.ItemAmount)
		}
		counted[row.ReceiptNum] = true

		receiptID := strings.TrimSpace(row.UniqueID)
		if receiptID == "" {
			receiptID = strconv.Itoa(i + 1)
		}
		txs = append(txs, models.Transaction{
			StaffName:        fields.StaffMember,
			FormattedName:    textutils.FormatName(fields.StaffMember),
			Amount:           amount,
			ClientOrLocation: fields.ClientName,
			Address:          fields.Address,
			ExpenseType:      row.Product,
			ReceiptID:        receiptID,
			Date:             row.DateTime,
		})
	}
	return txs
}

// particularTransactions builds one transaction per Particular block when
// no receipt table exists.
func particularTransactions(formText string, fields FormFields) []models.Transaction {
	starts := textutils.FindAllFieldIndex(formText, textutils.FieldParticular)
	if len(starts) == 0 {
		return nil
	}

	var txs []models.Transaction
	for i, start := range starts {
		end := len(formText)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		block := formText[start:end]

		expenseType := textutils.ExtractField(block, textutils.FieldParticular)
		if onCharge := textutils.ExtractField(block, textutils.FieldOnCharge); onCharge != "" {
			expenseType = expenseType + " (" + onCharge + ")"
		}
		txs = append(txs, models.Transaction{
			StaffName:        fields.StaffMember,
			FormattedName:    textutils.FormatName(fields.StaffMember),
			Amount:           moneyutils.Parse(textutils.ExtractField(block, textutils.FieldAmount)),
			ClientOrLocation: fields.ClientName,
			Address:          fields.Address,
			ExpenseType:      expenseType,
			ReceiptID:        strconv.Itoa(i + 1),
			Date:             textutils.ExtractField(block, textutils.FieldDatePurchased),
		})
	}
	return txs
}

// fallbackTransaction covers submissions carrying neither a table nor
// Particular blocks: a single claim for the declared form total.
func fallbackTransaction(fields FormFields) models.Transaction {
	return models.Transaction{
		StaffName:        fields.StaffMember,
		FormattedName:    textutils.FormatName(fields.StaffMember),
		Amount:           moneyutils.Parse(fields.TotalAmount),
		ClientOrLocation: fields.ClientName,
		Address:          fields.Address,
		ExpenseType:      "General Expense",
		ReceiptID:        "1",
	}
}

type groupEntry struct {
	staffName  string
	clientName string
	amount     string
}

// groupTableEntries reads the three-column 'Staff Name | YP Name | Amount'
// table format.
func groupTableEntries(text string) []groupEntry {
	var entries []groupEntry
	for _, line := range strings.Split(text, "\n") {
		cells := rowparser.SplitCells(line)
		if len(cells) != 3 {
			continue
		}
		if strings.EqualFold(cells[0], "Staff Name") || strings.EqualFold(cells[0], "Staff Member") {
			continue
		}
		entries = append(entries, groupEntry{
			staffName:  cells[0],
			clientName: cells[1],
			amount:     cells[2],
		})
	}
	return entries
}

// groupBlockEntries reads the repeated 'Staff Member: <name> ... Amount:'
// block format.
func groupBlockEntries(text string) []groupEntry {
	starts := textutils.FindAllFieldIndex(text, textutils.FieldStaffMember)
	var entries []groupEntry
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		block := text[start:end]
		entries = append(entries, groupEntry{
			staffName:  textutils.ExtractField(block, textutils.FieldStaffMember),
			clientName: textutils.ExtractField(block, textutils.FieldClientName),
			amount:     textutils.ExtractField(block, textutils.FieldAmount),
		})
	}
	return entries
}

func distinctStaff(entries []groupEntry) int {
	keys := make(map[string]bool, len(entries))
	for _, e := range entries {
		if key := textutils.NameKey(textutils.FormatName(e.staffName)); key != "" {
			keys[key] = true
		}
	}
	return len(keys)
}
