package textutils

import (
	"regexp"
	"strings"
)

// FieldID identifies a logical form field.
type FieldID string

const (
	FieldClientName    FieldID = "client_name"
	FieldAddress       FieldID = "address"
	FieldStaffMember   FieldID = "staff_member"
	FieldApprovedBy    FieldID = "approved_by"
	FieldTotalAmount   FieldID = "total_amount"
	FieldParticular    FieldID = "particular"
	FieldDatePurchased FieldID = "date_purchased"
	FieldAmount        FieldID = "amount"
	FieldOnCharge      FieldID = "on_charge"
)

// fieldLabels maps each logical field to its ordered list of accepted label
// spellings. Adding a field or a label variant is a data change here, not
// new extraction code. Apostrophe variants (', ’) and plural forms are
// folded into the patterns.
var fieldLabels = map[FieldID][]string{
	FieldClientName: {
		`client(?:['’]s)?\s+full\s+name`,
		`client(?:['’]s)?\s+name`,
		`yp\s+name`,
	},
	FieldAddress: {
		`(?:client\s+)?address`,
		`location`,
	},
	FieldStaffMember: {
		`staff\s+member(?:['’]s)?(?:\s+name)?`,
		`staff\s+name`,
	},
	FieldApprovedBy: {
		`approved\s+by`,
		`approver`,
	},
	FieldTotalAmount: {
		`total\s+amount`,
		`grand\s+total`,
		`total`,
	},
	FieldParticular: {
		`particulars?`,
	},
	FieldDatePurchased: {
		`date\s+purchased`,
		`purchase\s+date`,
		`date`,
	},
	FieldAmount: {
		`amount`,
	},
	FieldOnCharge: {
		`on[\s-]?charge`,
	},
}

var fieldPatterns = compileFieldPatterns()

func compileFieldPatterns() map[FieldID][]*regexp.Regexp {
	compiled := make(map[FieldID][]*regexp.Regexp, len(fieldLabels))
	for field, labels := range fieldLabels {
		for _, label := range labels {
			// Label anchored at line start, tolerating *, _ and #
			// emphasis markers around the label and after the colon.
			pattern := `(?im)^[\s*_#]*` + label + `[\s*_]*:[\s*_]*(.+)$`
			compiled[field] = append(compiled[field], regexp.MustCompile(pattern))
		}
	}
	return compiled
}

// ExtractField returns the value of the first matching label variant for
// the field, or "" when no label is present. Extraction never fails;
// missing fields are reported by the manual audit validator, not here.
func ExtractField(text string, field FieldID) string {
	for _, re := range fieldPatterns[field] {
		if m := re.FindStringSubmatch(text); m != nil {
			return cleanFieldValue(m[1])
		}
	}
	return ""
}

// ExtractAllFields resolves every known field against the form text.
func ExtractAllFields(text string) map[FieldID]string {
	values := make(map[FieldID]string, len(fieldLabels))
	for field := range fieldLabels {
		values[field] = ExtractField(text, field)
	}
	return values
}

// FindAllField returns every occurrence of the field's first matching label
// variant, in document order. Used for repeated block formats such as
// multiple Particular entries.
func FindAllField(text string, field FieldID) []string {
	for _, re := range fieldPatterns[field] {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		values := make([]string, 0, len(matches))
		for _, m := range matches {
			values = append(values, cleanFieldValue(m[1]))
		}
		return values
	}
	return nil
}

// FindAllFieldIndex returns the start offsets of each occurrence of the
// field label, letting callers slice the text into per-entry blocks.
func FindAllFieldIndex(text string, field FieldID) []int {
	for _, re := range fieldPatterns[field] {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		starts := make([]int, 0, len(locs))
		for _, loc := range locs {
			starts = append(starts, loc[0])
		}
		return starts
	}
	return nil
}

func cleanFieldValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, "*_")
	return strings.TrimSpace(v)
}
