package models

// IncludedInTotal is the literal sentinel used in place of an item amount
// when the line's cost is folded into the receipt total.
const IncludedInTotal = "Included in total"

// ReceiptRow is the canonical nine-field shape for one receipt line.
// ItemAmount and ReceiptTotal hold normalized two-decimal money or the
// IncludedInTotal sentinel.
type ReceiptRow struct {
	ReceiptNum   string `json:"receipt_num" yaml:"receipt_num"`
	UniqueID     string `json:"unique_id" yaml:"unique_id"`
	StoreName    string `json:"store_name" yaml:"store_name"`
	DateTime     string `json:"date_time" yaml:"date_time"`
	Product      string `json:"product" yaml:"product"`
	Category     string `json:"category" yaml:"category"`
	ItemAmount   string `json:"item_amount" yaml:"item_amount"`
	ReceiptTotal string `json:"receipt_total" yaml:"receipt_total"`
	Notes        string `json:"notes" yaml:"notes"`
}
