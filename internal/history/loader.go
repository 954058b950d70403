package history

import (
	"fmt"
	"os"

	"clearline/reim-audit/internal/logging"
	"clearline/reim-audit/internal/models"

	"github.com/gocarina/gocsv"
)

var log = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// LoadCSV reads a history snapshot export. Fetching the snapshot is the
// caller's asynchronous boundary; the core only ever sees the loaded slice.
func LoadCSV(filePath string) ([]models.HistoricalRecord, error) {
	log.Info("loading history snapshot", logging.F("file", filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening history snapshot: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("failed to close history snapshot")
		}
	}()

	var records []models.HistoricalRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("error parsing history snapshot: %w", err)
	}

	log.Info("loaded history snapshot", logging.F("count", len(records)))
	return records, nil
}
