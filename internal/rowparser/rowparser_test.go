package rowparser

import (
	"testing"

	"clearline/reim-audit/internal/models"

	"github.com/stretchr/testify/assert"
)

var testFallbacks = Fallbacks{
	Total:     "20.00",
	StoreName: "Unknown Store",
	UniqueID:  "FB1",
}

func TestParseLineFourCells(t *testing.T) {
	row, ok := ParseLine("1 | 12/01/2025 | Milk | 6.00", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "1", row.ReceiptNum)
	assert.Equal(t, "Unknown Store", row.StoreName)
	assert.Equal(t, "12/01/2025", row.DateTime)
	assert.Equal(t, "Milk", row.Product)
	assert.Equal(t, models.IncludedInTotal, row.ItemAmount)
	assert.Equal(t, "6.00", row.ReceiptTotal)
	assert.Equal(t, "FB1", row.UniqueID)
}

func TestParseLineFiveCells(t *testing.T) {
	row, ok := ParseLine("2 | Coles | 12/01/2025 | Bread | 4.50", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "Coles", row.StoreName)
	assert.Equal(t, "12/01/2025", row.DateTime)
	assert.Equal(t, "Bread", row.Product)
	assert.Equal(t, models.IncludedInTotal, row.ItemAmount)
	assert.Equal(t, "4.50", row.ReceiptTotal)
}

func TestParseLineSixCellsEmbeddedDate(t *testing.T) {
	row, ok := ParseLine("3 | Coles 12/01/2025 | Milk | Groceries | 3.00 | 6.00", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "Coles", row.StoreName)
	assert.Equal(t, "12/01/2025", row.DateTime)
	assert.Equal(t, "Milk", row.Product)
	assert.Equal(t, "Groceries", row.Category)
	assert.Equal(t, "3.00", row.ItemAmount)
	assert.Equal(t, "6.00", row.ReceiptTotal)
}

func TestParseLineSevenCellsCarriesNotes(t *testing.T) {
	row, ok := ParseLine("3 | Coles 12/01/2025 | Milk | Groceries | 3.00 | 6.00 | split pack", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "split pack", row.Notes)
	assert.Equal(t, "12/01/2025", row.DateTime)
}

func TestParseCellsEightCells(t *testing.T) {
	cells := []string{"4", "", "Woolworths", "13/01/2025", "Eggs", "Groceries", "7.20", "15.00"}
	row, ok := ParseCells(cells, testFallbacks)
	assert.True(t, ok)
	// Blank unique id inherits the caller-supplied fallback.
	assert.Equal(t, "FB1", row.UniqueID)
	assert.Equal(t, "Woolworths", row.StoreName)
	assert.Equal(t, "7.20", row.ItemAmount)
	assert.Equal(t, "", row.Notes)
}

func TestParseLineNineCells(t *testing.T) {
	row, ok := ParseLine("5 | R-881 | Kmart | 14/01/2025 | Socks | Clothing | 9.00 | 9.00 | for YP", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "R-881", row.UniqueID)
	assert.Equal(t, "Kmart", row.StoreName)
	assert.Equal(t, "for YP", row.Notes)
}

func TestDateProductSwap(t *testing.T) {
	// Transposed source columns: the product cell holds the date.
	row, ok := ParseLine("1 | Coles | Milk | 12/01/2025 | 6.00", testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "12/01/2025", row.DateTime)
	assert.Equal(t, "Milk", row.Product)
}

func TestRejectsSummaryRows(t *testing.T) {
	_, ok := ParseLine("Grand Total | 12/01/2025 | x | 20.00", testFallbacks)
	assert.False(t, ok)

	_, ok = ParseLine("TOTAL | 12/01/2025 | x | 20.00", testFallbacks)
	assert.False(t, ok)
}

func TestRejectsShortAndStructuralRows(t *testing.T) {
	_, ok := ParseLine("1 | 6.00", testFallbacks)
	assert.False(t, ok)

	_, ok = ParseLine("|---|---|---|---|", testFallbacks)
	assert.False(t, ok)

	_, ok = ParseLine("| Receipt # | Unique ID / Fallback | Store Name | Date & Time | Product (Per Item) | Category | Item Amount | Receipt Total | Notes |", testFallbacks)
	assert.False(t, ok)
}

func TestItemAmountFallsBackToRowTotal(t *testing.T) {
	cells := []string{"6", "R-1", "Coles", "12/01/2025", "Milk", "Groceries", "n/a", "18.00"}
	row, ok := ParseCells(cells, testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "18.00", row.ItemAmount)
}

func TestReceiptTotalFallsBackToCallerTotal(t *testing.T) {
	cells := []string{"7", "R-2", "Coles", "12/01/2025", "Milk", "Groceries", "5.00", "tbc"}
	row, ok := ParseCells(cells, testFallbacks)
	assert.True(t, ok)
	assert.Equal(t, "20.00", row.ReceiptTotal)
}

func TestSummaryTotal(t *testing.T) {
	total, ok := SummaryTotal([]string{"Grand Total", "21.00"})
	assert.True(t, ok)
	assert.Equal(t, "21.00", total)

	total, ok = SummaryTotal([]string{"TOTAL", "x", "$15.50"})
	assert.True(t, ok)
	assert.Equal(t, "15.50", total)

	total, ok = SummaryTotal([]string{"Subtotal", "9.00"})
	assert.True(t, ok)
	assert.Equal(t, "9.00", total)

	// Item rows and amount-less summary rows carry no summary total.
	_, ok = SummaryTotal([]string{"1", "Coles", "12/01/2025", "Milk", "6.00"})
	assert.False(t, ok)
	_, ok = SummaryTotal([]string{"Total"})
	assert.False(t, ok)
	_, ok = SummaryTotal(nil)
	assert.False(t, ok)
}

func TestSplitCells(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitCells("| a | b | c |"))
	assert.Nil(t, SplitCells("|---|---|"))
	assert.Nil(t, SplitCells("   "))
}
