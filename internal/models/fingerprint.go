package models

import "time"

// Fingerprint is derived from a current-input transaction for duplicate
// comparison against historical records.
type Fingerprint struct {
	StaffName    string `json:"staff_name"`
	Amount       string `json:"amount"` // normalized two-decimal money
	UID          string `json:"uid"`
	StoreName    string `json:"store_name"`
	RawDate      string `json:"raw_date"`
	DateKey      string `json:"date_key"`      // calendar key or lowercased raw fallback
	SignatureKey string `json:"signature_key"` // store|dateKey|amount, lowercased
	DateParsed   bool   `json:"date_parsed"`   // true when DateKey came from a real calendar parse
}

// MatchEvidence records one matched pair between a current fingerprint and a
// historical record. Evidence is produced fresh on each evaluation and never
// persisted.
type MatchEvidence struct {
	CurrentStaff     string    `json:"current_staff"`
	CurrentDateKey   string    `json:"current_date_key"`
	CurrentAmount    string    `json:"current_amount"`
	CurrentReference string    `json:"current_reference"`
	HistoryStaff     string    `json:"history_staff"`
	HistoryDateKey   string    `json:"history_date_key"`
	HistoryAmount    string    `json:"history_amount"`
	HistoryReference string    `json:"history_reference"`
	ProcessedAt      time.Time `json:"processed_at"`
}
