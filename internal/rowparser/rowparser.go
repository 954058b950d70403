// Package rowparser maps variable-length pipe-delimited receipt rows onto
// the fixed nine-field canonical shape. Each supported cell count is an
// independent shape handler; handlers are evaluated top-down, most specific
// first, so behavior per shape stays reproducible and testable.
package rowparser

import (
	"regexp"
	"strings"

	"clearline/reim-audit/internal/dateutils"
	"clearline/reim-audit/internal/logging"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/moneyutils"
)

var log = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Fallbacks supplies row values inherited from the surrounding submission
// when a row omits them, e.g. continuation rows of a multi-line receipt.
type Fallbacks struct {
	Total     string
	StoreName string
	UniqueID  string
}

// totalLabel matches summary-row labels so subtotal/grand-total lines never
// leak into item rows.
var totalLabel = regexp.MustCompile(`(?i)^(sub\s*)?(grand\s*)?total`)

// shape pairs a cell-count predicate with its field mapping.
type shape struct {
	name    string
	matches func(n int) bool
	mapRow  func(cells []string, fb Fallbacks) models.ReceiptRow
}

// shapes is ordered most specific first; the first match wins. New shapes
// must be inserted without disturbing the existing order.
var shapes = []shape{
	{
		// Direct 1:1 mapping onto the nine canonical fields.
		name:    "nine-or-more",
		matches: func(n int) bool { return n >= 9 },
		mapRow: func(c []string, fb Fallbacks) models.ReceiptRow {
			return models.ReceiptRow{
				ReceiptNum: c[0], UniqueID: c[1], StoreName: c[2],
				DateTime: c[3], Product: c[4], Category: c[5],
				ItemAmount: c[6], ReceiptTotal: c[7], Notes: c[8],
			}
		},
	},
	{
		// As nine-or-more but without a notes column.
		name:    "eight",
		matches: func(n int) bool { return n == 8 },
		mapRow: func(c []string, fb Fallbacks) models.ReceiptRow {
			return models.ReceiptRow{
				ReceiptNum: c[0], UniqueID: c[1], StoreName: c[2],
				DateTime: c[3], Product: c[4], Category: c[5],
				ItemAmount: c[6], ReceiptTotal: c[7],
			}
		},
	},
	{
		// No explicit date column: the purchase date rides inside the
		// store-name cell and is split out. Seven cells carry notes.
		name:    "six-or-seven",
		matches: func(n int) bool { return n == 6 || n == 7 },
		mapRow: func(c []string, fb Fallbacks) models.ReceiptRow {
			store, date, _ := dateutils.SplitEmbedded(c[1])
			row := models.ReceiptRow{
				ReceiptNum: c[0], StoreName: store, DateTime: date,
				Product: c[2], Category: c[3], ItemAmount: c[4],
				ReceiptTotal: c[5],
			}
			if len(c) == 7 {
				row.Notes = c[6]
			}
			return row
		},
	},
	{
		// receipt#, store, date, product, total.
		name:    "five",
		matches: func(n int) bool { return n == 5 },
		mapRow: func(c []string, fb Fallbacks) models.ReceiptRow {
			return models.ReceiptRow{
				ReceiptNum: c[0], StoreName: c[1], DateTime: c[2],
				Product: c[3], ItemAmount: models.IncludedInTotal,
				ReceiptTotal: c[4],
			}
		},
	},
	{
		// receipt#, date, product, total; store comes from the caller.
		name:    "four",
		matches: func(n int) bool { return n == 4 },
		mapRow: func(c []string, fb Fallbacks) models.ReceiptRow {
			return models.ReceiptRow{
				ReceiptNum: c[0], StoreName: fb.StoreName, DateTime: c[1],
				Product: c[2], ItemAmount: models.IncludedInTotal,
				ReceiptTotal: c[3],
			}
		},
	},
}

// ParseCells normalizes one row of trimmed, non-empty cells into the
// canonical shape. Rows with fewer than four cells, or summary rows, are
// rejected (ok=false) rather than surfaced as errors.
func ParseCells(cells []string, fb Fallbacks) (models.ReceiptRow, bool) {
	n := len(cells)
	for _, s := range shapes {
		if !s.matches(n) {
			continue
		}
		row := s.mapRow(cells, fb)
		normalized, ok := finalize(row, fb)
		if !ok {
			log.Debug("rejected receipt row", logging.F("shape", s.name), logging.F("receipt_num", row.ReceiptNum))
		}
		return normalized, ok
	}
	return models.ReceiptRow{}, false
}

// ParseLine splits a pipe-delimited line into cells and normalizes it.
// Separator rows (|---|...) and the canonical header are rejected.
func ParseLine(line string, fb Fallbacks) (models.ReceiptRow, bool) {
	cells := SplitCells(line)
	if len(cells) == 0 {
		return models.ReceiptRow{}, false
	}
	if strings.EqualFold(cells[0], "Receipt #") || strings.EqualFold(cells[0], "Staff Member") {
		return models.ReceiptRow{}, false
	}
	return ParseCells(cells, fb)
}

// SummaryTotal reports the amount carried by a summary row (total,
// subtotal or grand total). Summary rows never become item rows; their
// declared amount is the last money-valued cell.
func SummaryTotal(cells []string) (string, bool) {
	if len(cells) == 0 || !totalLabel.MatchString(cells[0]) {
		return "", false
	}
	for i := len(cells) - 1; i >= 1; i-- {
		if moneyutils.IsPositive(cells[i]) {
			return moneyutils.NormalizeOrZero(cells[i]), true
		}
	}
	return "", false
}

// SplitCells splits a pipe-delimited line into trimmed, non-empty cells.
func SplitCells(line string) []string {
	line = strings.TrimSpace(line)
	if strings.Trim(line, "|-: ") == "" {
		return nil
	}
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if cell := strings.TrimSpace(p); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// finalize applies the post-branch invariants shared by every shape.
func finalize(row models.ReceiptRow, fb Fallbacks) (models.ReceiptRow, bool) {
	row.ReceiptNum = strings.TrimSpace(row.ReceiptNum)
	if row.ReceiptNum == "" || totalLabel.MatchString(row.ReceiptNum) {
		return models.ReceiptRow{}, false
	}

	// Inconsistent source tables sometimes transpose the date and product
	// columns; swap back when the evidence is unambiguous.
	if !dateutils.IsDateLike(row.DateTime) && dateutils.IsDateLike(row.Product) {
		row.DateTime, row.Product = row.Product, row.DateTime
	}

	row.ReceiptTotal = moneyutils.Normalize(row.ReceiptTotal, moneyutils.NormalizeOrZero(fb.Total))
	if row.ItemAmount != models.IncludedInTotal {
		row.ItemAmount = moneyutils.Normalize(row.ItemAmount, row.ReceiptTotal)
	}

	if strings.TrimSpace(row.StoreName) == "" {
		row.StoreName = fb.StoreName
	}
	if strings.TrimSpace(row.UniqueID) == "" {
		row.UniqueID = fb.UniqueID
	}
	return row, true
}
