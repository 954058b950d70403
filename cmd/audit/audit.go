// Package audit contains the command that evaluates a submission against
// the history snapshot and the configured rules.
package audit

import (
	"fmt"
	"os"
	"time"

	"clearline/reim-audit/cmd/root"
	"clearline/reim-audit/internal/builder"
	"clearline/reim-audit/internal/doctags"
	"clearline/reim-audit/internal/dupcheck"
	"clearline/reim-audit/internal/history"
	"clearline/reim-audit/internal/models"
	"clearline/reim-audit/internal/rules"
	"clearline/reim-audit/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	inputFile    string
	receiptsFile string
	historyFile  string
	groupMode    bool

	// Cmd is the audit command.
	Cmd = &cobra.Command{
		Use:   "audit",
		Short: "Check a submission for duplicates and rule breaches",
		Long: `Audit builds the submission, compares its fingerprints against the
lookback window of the history snapshot and evaluates the configured
compliance rules. The resulting duplicate-audit tag is printed with the
annotated document.`,
		RunE: run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Form text file (required)")
	Cmd.Flags().StringVarP(&receiptsFile, "receipts", "r", "", "Receipt details text file (solo mode)")
	Cmd.Flags().StringVar(&historyFile, "history", "", "History snapshot CSV export")
	Cmd.Flags().BoolVar(&groupMode, "group", false, "Treat the input as a group submission")
	_ = Cmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	formText, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	var result *builder.Result
	if groupMode {
		result, err = builder.BuildGroup(string(formText), nil, builder.Options{})
	} else {
		receiptText := ""
		if receiptsFile != "" {
			data, err := os.ReadFile(receiptsFile)
			if err != nil {
				return fmt.Errorf("error reading receipts file: %w", err)
			}
			receiptText = string(data)
		}
		result, err = builder.BuildSolo(string(formText), receiptText, builder.Options{})
	}
	if err != nil {
		return err
	}

	var hist []models.HistoricalRecord
	if historyFile != "" {
		hist, err = history.LoadCSV(historyFile)
		if err != nil {
			return err
		}
	}

	settings := root.Settings
	lookbackDays := history.DefaultLookbackDays
	ceiling := rules.DefaultAmountCeiling
	maxAge := rules.DefaultMaxReceiptAgeDays
	rulesFile := "rules.yaml"
	if settings != nil {
		lookbackDays = settings.Audit.LookbackDays
		ceiling = decimal.NewFromFloat(settings.Audit.AmountCeiling)
		maxAge = settings.Audit.ReceiptAgeDays
		rulesFile = settings.Rules.File
	}

	fps := dupcheck.Fingerprints(result.Transactions)
	signal, evidence := dupcheck.Evaluate(fps, hist, dupcheck.Config{LookbackDays: lookbackDays})

	cfgs, err := store.NewRuleStore(rulesFile).Load()
	if err != nil {
		return err
	}
	statuses := rules.Evaluate(cfgs, rules.Input{
		Transactions: result.Transactions,
		Fingerprints: fps,
		History:      hist,
		Fields: rules.FormFields{
			ClientName:  result.Fields.ClientName,
			Address:     result.Fields.Address,
			StaffMember: result.Fields.StaffMember,
			ApprovedBy:  result.Fields.ApprovedBy,
		},
		GroupMode:         groupMode,
		AmountCeiling:     ceiling,
		MaxReceiptAgeDays: maxAge,
	})

	fmt.Printf("Duplicate signal: %s (%d matched record(s))\n", signal, len(evidence))
	for _, ev := range evidence {
		fmt.Printf("  matched %s / %s / $%s against record processed %s (ref %s)\n",
			ev.HistoryStaff, ev.HistoryDateKey, ev.HistoryAmount,
			ev.ProcessedAt.Format("2006-01-02"), ev.HistoryReference)
	}
	fmt.Println()
	for _, st := range statuses {
		fmt.Printf("[%s/%s] %s: %s\n", st.Status, st.Severity, st.Title, st.Detail)
	}

	doc := doctags.UpsertStatus(result.Document, doctags.StatusPending)
	doc = doctags.UpsertDuplicateAudit(doc, doctags.DuplicateAudit{
		Signal:       string(signal),
		LookbackDays: lookbackDays,
		Reason:       fmt.Sprintf("%d matched record(s)", len(evidence)),
		Detail:       fmt.Sprintf("%d rule status item(s)", len(statuses)),
		CheckedAt:    time.Now(),
	})
	fmt.Println()
	fmt.Println(doc)
	return nil
}
