package models

import "time"

// HistoricalRecord is one previously processed submission from the remote
// history table. EmailContent carries the full narrative document and is
// mined for receipt ids, amounts, fallback id lists and the receipt table.
// The csv tags match the column names of a history snapshot export.
type HistoricalRecord struct {
	ID           string `csv:"id" json:"id"`
	StaffName    string `csv:"staff_name" json:"staff_name"`
	Amount       string `csv:"amount" json:"amount"`
	NABCode      string `csv:"nab_code" json:"nab_code"`
	EmailContent string `csv:"full_email_content" json:"full_email_content"`
	CreatedAt    string `csv:"created_at" json:"created_at"` // ISO-8601
}

// CreatedAtTime parses the record's creation timestamp. Records with an
// unparseable timestamp report false and are excluded from lookback windows.
func (r HistoricalRecord) CreatedAtTime() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
