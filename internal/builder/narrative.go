package builder

import (
	"strings"

	"clearline/reim-audit/internal/moneyutils"
)

// The table headers below are a wire format, not presentation: downstream
// re-parsing of the narrative document depends on these exact strings and
// on the **Label:** convention.
const (
	// ReceiptTableHeader is the nine-column receipt table header.
	ReceiptTableHeader = "| Receipt # | Unique ID / Fallback | Store Name | Date & Time | Product (Per Item) | Category | Item Amount | Receipt Total | Notes |"

	// GroupTableHeader is the six-column group submission table header.
	GroupTableHeader = "| Staff Member | Client | Location | Type | Amount | NAB Reference |"

	receiptTableDivider = "|---|---|---|---|---|---|---|---|---|"
	groupTableDivider   = "|---|---|---|---|---|---|"

	// PendingReference is the placeholder printed until a bank processing
	// code is assigned.
	PendingReference = "Pending"
)

// UIDFallbacksComment renders the embedded fallback-id-list comment, or ""
// when no row needed a synthesized identifier.
func UIDFallbacksComment(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return "<!-- UID_FALLBACKS: " + strings.Join(ids, "||") + " -->"
}

func renderSolo(r *Result) string {
	var b strings.Builder
	b.WriteString("Hi team,\n\nPlease find the reimbursement details below.\n\n")

	receiptID := "1"
	if len(r.Rows) > 0 {
		receiptID = r.Rows[0].UniqueID
	}
	writeLabel(&b, "Staff Member", displayOr(r.Fields.StaffMember, "N/A"))
	writeLabel(&b, "Client", displayOr(r.Fields.ClientName, "N/A"))
	writeLabel(&b, "Address", displayOr(r.Fields.Address, "N/A"))
	writeLabel(&b, "Approved By", displayOr(r.Fields.ApprovedBy, "N/A"))
	writeLabel(&b, "Total Amount", moneyutils.FormatDollars(r.Total))
	writeLabel(&b, "Receipt ID", receiptID)
	writeLabel(&b, "NAB Reference", PendingReference)

	if comment := UIDFallbacksComment(r.UIDFallbacks); comment != "" {
		b.WriteString("\n" + comment + "\n")
	}

	if len(r.Rows) > 0 {
		b.WriteString("\n" + ReceiptTableHeader + "\n" + receiptTableDivider + "\n")
		for _, row := range r.Rows {
			cells := []string{
				row.ReceiptNum, row.UniqueID, row.StoreName, row.DateTime,
				row.Product, row.Category, row.ItemAmount, row.ReceiptTotal, row.Notes,
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}

	b.WriteString("\n**TOTAL AMOUNT: " + moneyutils.FormatDollars(r.Total) + "**\n")
	return b.String()
}

func renderGroup(r *Result) string {
	var b strings.Builder
	b.WriteString("Hi team,\n\nPlease find the petty cash liquidation details below.\n\n")

	writeLabel(&b, "Staff Member", "Multiple (see table)")
	writeLabel(&b, "Address", displayOr(r.Fields.Address, "N/A"))
	writeLabel(&b, "Approved By", displayOr(r.Fields.ApprovedBy, "N/A"))
	writeLabel(&b, "Total Amount", moneyutils.FormatDollars(r.Total))
	writeLabel(&b, "NAB Reference", PendingReference)

	b.WriteString("\n" + GroupTableHeader + "\n" + groupTableDivider + "\n")
	for _, tx := range r.Transactions {
		cells := []string{
			tx.FormattedName, tx.ClientOrLocation, tx.Address,
			tx.ExpenseType, moneyutils.FormatDollars(tx.Amount), PendingReference,
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\n**TOTAL AMOUNT: " + moneyutils.FormatDollars(r.Total) + "**\n")
	return b.String()
}

func renderManual(r *Result) string {
	var b strings.Builder
	b.WriteString("Hi team,\n\nManual entry placeholder. Details to be completed by hand.\n\n")
	writeLabel(&b, "Staff Member", "Manual Entry")
	writeLabel(&b, "Client", "N/A")
	writeLabel(&b, "Address", "N/A")
	writeLabel(&b, "Approved By", "N/A")
	writeLabel(&b, "Total Amount", moneyutils.FormatDollars(r.Total))
	writeLabel(&b, "Receipt ID", "1")
	writeLabel(&b, "NAB Reference", PendingReference)
	b.WriteString("\n**TOTAL AMOUNT: " + moneyutils.FormatDollars(r.Total) + "**\n")
	return b.String()
}

func writeLabel(b *strings.Builder, label, value string) {
	b.WriteString("**" + label + ":** " + value + "\n")
}

func displayOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
