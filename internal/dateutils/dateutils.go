// Package dateutils provides best-effort date parsing and the calendar keys
// used for duplicate matching.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the ISO calendar key layout (YYYY-MM-DD).
const KeyLayout = "2006-01-02"

// layouts are tried in order before falling back to the numeric pattern.
// Day-first layouts come before US month-first, matching the source data.
var layouts = []string{
	KeyLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"2 January 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// numericDate matches D/M/YY and D/M/YYYY with '/' or '-' separators,
// anywhere in the string.
var numericDate = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})`)

// Parse attempts to parse raw as a calendar date. Known layouts are tried
// first; on failure a D/M/YY|YYYY pattern is matched with two-digit years
// coerced to 2000+YY. Returns false on total failure, never an error.
func Parse(raw string) (time.Time, bool) {
	cleaned := clean(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}

	m := numericDate.FindStringSubmatch(cleaned)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// Key returns the ISO calendar key for raw, or the lowercased trimmed raw
// text when parsing fails, so identical un-parseable date strings still
// key-match. Empty input keys to "".
func Key(raw string) string {
	if t, ok := Parse(raw); ok {
		return t.Format(KeyLayout)
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsDateLike reports whether raw contains a recognizable date.
func IsDateLike(raw string) bool {
	_, ok := Parse(raw)
	return ok
}

// SplitEmbedded finds a date-like token embedded in cell text and splits it
// out, returning the remaining text and the date token. Used for row shapes
// that fold the purchase date into the store-name column.
func SplitEmbedded(cell string) (rest, date string, found bool) {
	loc := numericDate.FindStringIndex(cell)
	if loc == nil {
		return cell, "", false
	}
	date = cell[loc[0]:loc[1]]
	rest = clean(cell[:loc[0]] + " " + cell[loc[1]:])
	rest = strings.Trim(rest, " -,;")
	return rest, date, true
}

func clean(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
