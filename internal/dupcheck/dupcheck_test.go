package dupcheck

import (
	"testing"
	"time"

	"clearline/reim-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
}

func historicalRecord(nabCode string) models.HistoricalRecord {
	return models.HistoricalRecord{
		ID:        "h1",
		StaffName: "Smith, John",
		Amount:    "60.00",
		NABCode:   nabCode,
		CreatedAt: "2025-02-20T00:00:00Z",
		EmailContent: "**Receipt ID:** ABC123\n" +
			"| 1 | ABC123 | Coles | 15/02/2025 | Milk | Groceries | 60.00 | 60.00 | |\n",
	}
}

func currentTransaction(amount int64, uid, date string) models.Transaction {
	return models.Transaction{
		StaffName:        "John Smith",
		FormattedName:    "John Smith",
		Amount:           decimal.NewFromInt(amount),
		ClientOrLocation: "Coles",
		ReceiptID:        uid,
		Date:             date,
	}
}

func evaluate(t *testing.T, tx models.Transaction, rec models.HistoricalRecord) (Signal, []models.MatchEvidence) {
	t.Helper()
	fps := Fingerprints([]models.Transaction{tx})
	require.Len(t, fps, 1)
	return Evaluate(fps, []models.HistoricalRecord{rec}, Config{Now: fixedNow})
}

func TestFingerprints(t *testing.T) {
	fps := Fingerprints([]models.Transaction{currentTransaction(60, "ABC123", "15/02/2025")})
	require.Len(t, fps, 1)

	fp := fps[0]
	assert.Equal(t, "60.00", fp.Amount)
	assert.Equal(t, "2025-02-15", fp.DateKey)
	assert.True(t, fp.DateParsed)
	assert.Equal(t, "coles|2025-02-15|60.00", fp.SignatureKey)
}

func TestFingerprintUndatedFallbackKey(t *testing.T) {
	fps := Fingerprints([]models.Transaction{currentTransaction(60, "ABC123", "Sometime Soon")})
	require.Len(t, fps, 1)
	assert.Equal(t, "sometime soon", fps[0].DateKey)
	assert.False(t, fps[0].DateParsed)
}

func TestReferenceConfirmedMatchIsRed(t *testing.T) {
	signal, evidence := evaluate(t, currentTransaction(60, "ABC123", "15/02/2025"), historicalRecord("ABC123"))
	assert.Equal(t, SignalRed, signal)
	require.Len(t, evidence, 1)
	assert.Equal(t, "ABC123", evidence[0].HistoryReference)
	assert.Equal(t, "2025-02-15", evidence[0].HistoryDateKey)
}

func TestUnconfirmedDateMatchIsYellow(t *testing.T) {
	// Same person, amount and date, but the historical reference is a
	// placeholder: plausible duplicate needing human review, not a block.
	signal, evidence := evaluate(t, currentTransaction(60, "R-1", "15/02/2025"), historicalRecord("pending"))
	assert.Equal(t, SignalYellow, signal)
	assert.Len(t, evidence, 1)
}

func TestDifferentAmountIsGreen(t *testing.T) {
	signal, evidence := evaluate(t, currentTransaction(61, "ABC123", "15/02/2025"), historicalRecord("ABC123"))
	assert.Equal(t, SignalGreen, signal)
	assert.Empty(t, evidence)
}

func TestDifferentDateIsGreen(t *testing.T) {
	signal, _ := evaluate(t, currentTransaction(60, "R-1", "16/02/2025"), historicalRecord("pending"))
	assert.Equal(t, SignalGreen, signal)
}

func TestFallbackDateMatchIsNotEvidence(t *testing.T) {
	// Name and amount match but neither side has a comparable calendar
	// date; without reference confirmation this is not evidence.
	rec := historicalRecord("pending")
	rec.EmailContent = "**Receipt ID:** ABC123\n"
	signal, evidence := evaluate(t, currentTransaction(60, "R-1", ""), rec)
	assert.Equal(t, SignalGreen, signal)
	assert.Empty(t, evidence)
}

func TestRecordOutsideLookbackIgnored(t *testing.T) {
	rec := historicalRecord("ABC123")
	rec.CreatedAt = "2024-11-01T00:00:00Z"
	signal, evidence := evaluate(t, currentTransaction(60, "ABC123", "15/02/2025"), rec)
	assert.Equal(t, SignalGreen, signal)
	assert.Empty(t, evidence)
}

func TestRedOutranksYellow(t *testing.T) {
	fps := Fingerprints([]models.Transaction{
		currentTransaction(60, "R-9", "15/02/2025"),
		currentTransaction(60, "ABC123", "15/02/2025"),
	})
	signal, evidence := Evaluate(fps, []models.HistoricalRecord{historicalRecord("ABC123")}, Config{Now: fixedNow})
	assert.Equal(t, SignalRed, signal)
	assert.Len(t, evidence, 2)
}
