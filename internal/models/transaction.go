// Package models defines the data structures shared across the extraction
// and audit pipeline.
package models

import (
	"github.com/shopspring/decimal"
)

// Transaction represents one line-item or staff-level reimbursement claim.
// Transactions are created by the builder from a single parse pass and are
// immutable afterwards; user edits flow through the narrative document and
// are re-parsed into the same shape.
type Transaction struct {
	StaffName        string          `json:"staff_name" yaml:"staff_name"`
	FormattedName    string          `json:"formatted_name" yaml:"formatted_name"`
	Amount           decimal.Decimal `json:"amount" yaml:"amount"`
	ClientOrLocation string          `json:"client_or_location" yaml:"client_or_location"`
	Address          string          `json:"address" yaml:"address"`
	ExpenseType      string          `json:"expense_type" yaml:"expense_type"`
	ReceiptID        string          `json:"receipt_id" yaml:"receipt_id"`
	Date             string          `json:"date" yaml:"date"`
}

// AmountString returns the amount fixed to two decimal places.
func (t Transaction) AmountString() string {
	return t.Amount.StringFixed(2)
}

// SumAmounts recomputes the total over a transaction set. Declared totals
// are never trusted once a table has been parsed.
func SumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}
