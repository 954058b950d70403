// Package dupcheck compares the current submission's fingerprints against a
// lookback window of historical records and produces a tiered signal. Red
// requires reference confirmation, not just a name/amount/date coincidence,
// so legitimate repeat purchases by the same person are never hard-blocked
// on circumstantial evidence alone.
package dupcheck

import (
	"strings"
	"time"

	"clearline/reim-audit/internal/dateutils"
	"clearline/reim-audit/internal/history"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/moneyutils"
	"clearline/reim-audit/internal/textutils"
)

// Signal is the overall duplicate verdict for a submission.
type Signal string

const (
	// SignalGreen: no duplicate evidence within the lookback window.
	SignalGreen Signal = "green"
	// SignalYellow: same person, amount and date with no reference
	// confirmation; plausible duplicate needing human review.
	SignalYellow Signal = "yellow"
	// SignalRed: reference-confirmed duplicate or already-paid record.
	SignalRed Signal = "red"
)

// Config owns the caller-supplied evaluation state. Nothing here is cached
// between calls.
type Config struct {
	LookbackDays int
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.LookbackDays <= 0 {
		c.LookbackDays = history.DefaultLookbackDays
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Fingerprints derives the duplicate-comparison view of the current
// transactions.
func Fingerprints(txs []models.Transaction) []models.Fingerprint {
	fps := make([]models.Fingerprint, 0, len(txs))
	for _, tx := range txs {
		amount := tx.Amount.StringFixed(2)
		_, parsed := dateutils.Parse(tx.Date)
		dateKey := dateutils.Key(tx.Date)
		store := strings.TrimSpace(tx.ClientOrLocation)
		fps = append(fps, models.Fingerprint{
			StaffName:    tx.FormattedName,
			Amount:       amount,
			UID:          tx.ReceiptID,
			StoreName:    store,
			RawDate:      tx.Date,
			DateKey:      dateKey,
			DateParsed:   parsed,
			SignatureKey: strings.ToLower(store + "|" + dateKey + "|" + amount),
		})
	}
	return fps
}

// Evaluate classifies every current fingerprint against the retained
// history and returns the overall signal plus the full evidence list for
// audit-trail display.
func Evaluate(fps []models.Fingerprint, records []models.HistoricalRecord, cfg Config) (Signal, []models.MatchEvidence) {
	cfg = cfg.withDefaults()
	retained := history.WithinLookback(records, cfg.LookbackDays, cfg.Now())

	signal := SignalGreen
	var evidence []models.MatchEvidence
	for _, fp := range fps {
		for _, rec := range retained {
			tier, ev, ok := classify(fp, rec)
			if !ok {
				continue
			}
			evidence = append(evidence, ev)
			if tier == SignalRed || (tier == SignalYellow && signal == SignalGreen) {
				signal = tier
			}
		}
	}
	return signal, evidence
}

// classify applies the tiering to one fingerprint/record pair. A base match
// needs name and amount equality, plus date equality when both sides carry
// a usable calendar date. Among base matches: equal valid references on
// both sides is red; a real-date match without reference confirmation is
// yellow; anything else is not evidence.
func classify(fp models.Fingerprint, rec models.HistoricalRecord) (Signal, models.MatchEvidence, bool) {
	mined := history.Mine(rec)

	nameMatch := textutils.NameKey(textutils.FormatName(fp.StaffName)) != "" &&
		textutils.NameKey(textutils.FormatName(fp.StaffName)) == mined.StaffKey
	amountMatch := moneyutils.Equal(fp.Amount, rec.Amount)
	if !nameMatch || !amountMatch {
		return SignalGreen, models.MatchEvidence{}, false
	}

	datesComparable := fp.DateParsed && mined.DateKey != "" && dateutils.IsDateLike(mined.DateKey)
	if datesComparable && fp.DateKey != mined.DateKey {
		return SignalGreen, models.MatchEvidence{}, false
	}

	processedAt, _ := rec.CreatedAtTime()
	ev := models.MatchEvidence{
		CurrentStaff:     fp.StaffName,
		CurrentDateKey:   fp.DateKey,
		CurrentAmount:    moneyutils.NormalizeOrZero(fp.Amount),
		CurrentReference: fp.UID,
		HistoryStaff:     rec.StaffName,
		HistoryDateKey:   mined.DateKey,
		HistoryAmount:    moneyutils.NormalizeOrZero(rec.Amount),
		HistoryReference: rec.NABCode,
		ProcessedAt:      processedAt,
	}

	if history.ValidReference(fp.UID) && history.ValidReference(rec.NABCode) &&
		strings.EqualFold(strings.TrimSpace(fp.UID), strings.TrimSpace(rec.NABCode)) {
		return SignalRed, ev, true
	}
	if datesComparable {
		return SignalYellow, ev, true
	}
	return SignalGreen, models.MatchEvidence{}, false
}
