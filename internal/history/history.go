// Package history consumes records from the remote table of past
// submissions: mining their embedded narrative documents, validating
// external references against the placeholder contract and filtering to
// the duplicate-comparison lookback window.
package history

import (
	"regexp"
	"strings"
	"time"

	"clearline/reim-audit/internal/dateutils"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/rowparser"
	"clearline/reim-audit/internal/textutils"
)

// DefaultLookbackDays is the trailing span within which historical records
// stay eligible for duplicate comparison.
const DefaultLookbackDays = 30

// placeholderReferences are values that look like references but prove
// nothing. This set is a hard contract: the duplicate detector and the
// rule engine both rely on it when deciding whether a reference confirms
// payment.
var placeholderReferences = map[string]bool{
	"":               true,
	"pending":        true,
	"n/a":            true,
	"na":             true,
	"none":           true,
	"-":              true,
	"tba":            true,
	"tbc":            true,
	"enter nab code": true,
}

// ValidReference reports whether ref is a usable external reference: it
// must be non-empty and not one of the fixed placeholder strings.
func ValidReference(ref string) bool {
	return !placeholderReferences[strings.ToLower(strings.TrimSpace(ref))]
}

var (
	receiptIDLine    = regexp.MustCompile(`(?im)^[\s*_]*receipt\s+id[\s*_]*:[\s*_]*(.+)$`)
	clientLine       = regexp.MustCompile(`(?im)^[\s*_]*(?:client|location)[\s*_]*:[\s*_]*(.+)$`)
	amountLine       = regexp.MustCompile(`(?im)^[\s*_]*total\s+amount[\s*_:]*\$?\s*([0-9][0-9,.]*)`)
	uidFallbackBlock = regexp.MustCompile(`<!--\s*UID_FALLBACKS:\s*(.*?)\s*-->`)
)

// Mined is the structured view of one historical record's email content.
type Mined struct {
	ReceiptID    string
	Client       string
	Amount       string
	UIDFallbacks []string
	Rows         []models.ReceiptRow
	StaffKey     string
	DateKey      string
	Store        string
}

// Mine extracts the comparison-relevant pieces of a historical record.
// Everything is best-effort: absent pieces stay empty rather than failing.
func Mine(rec models.HistoricalRecord) Mined {
	content := rec.EmailContent
	m := Mined{
		StaffKey: textutils.NameKey(textutils.FormatName(rec.StaffName)),
	}

	if match := receiptIDLine.FindStringSubmatch(content); match != nil {
		m.ReceiptID = cleanValue(match[1])
	}
	if match := clientLine.FindStringSubmatch(content); match != nil {
		m.Client = cleanValue(match[1])
	}
	if match := amountLine.FindStringSubmatch(content); match != nil {
		m.Amount = cleanValue(match[1])
	}
	if match := uidFallbackBlock.FindStringSubmatch(content); match != nil {
		for _, id := range strings.Split(match[1], "||") {
			if id = strings.TrimSpace(id); id != "" {
				m.UIDFallbacks = append(m.UIDFallbacks, id)
			}
		}
	}

	fb := rowparser.Fallbacks{Total: rec.Amount}
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		if row, ok := rowparser.ParseLine(line, fb); ok {
			m.Rows = append(m.Rows, row)
		}
	}
	if len(m.Rows) > 0 {
		m.DateKey = dateutils.Key(m.Rows[0].DateTime)
		m.Store = m.Rows[0].StoreName
	}
	return m
}

// KnownIDs returns every identifier the record answers to: the mined
// receipt id, the fallback id list and each row's unique id, lowercased.
func (m Mined) KnownIDs() map[string]bool {
	ids := make(map[string]bool)
	add := func(id string) {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			ids[id] = true
		}
	}
	add(m.ReceiptID)
	for _, id := range m.UIDFallbacks {
		add(id)
	}
	for _, row := range m.Rows {
		add(row.UniqueID)
	}
	return ids
}

// WithinLookback filters records to those processed within the trailing
// window ending at now. Records with unparseable timestamps are excluded.
func WithinLookback(recs []models.HistoricalRecord, days int, now time.Time) []models.HistoricalRecord {
	if days <= 0 {
		days = DefaultLookbackDays
	}
	cutoff := now.AddDate(0, 0, -days)

	var kept []models.HistoricalRecord
	for _, rec := range recs {
		created, ok := rec.CreatedAtTime()
		if !ok {
			continue
		}
		if !created.Before(cutoff) && !created.After(now) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func cleanValue(v string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(v), "*_"))
}
