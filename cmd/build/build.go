// Package build contains the command that turns form text into a narrative
// document and its transaction set.
package build

import (
	"fmt"
	"os"
	"strings"

	"clearline/reim-audit/cmd/root"
	"clearline/reim-audit/internal/audit"
	"clearline/reim-audit/internal/builder"

	"github.com/spf13/cobra"
)

var (
	inputFile     string
	receiptsFile  string
	mode          string
	bypassAudit   bool
	delinquentCSV string

	// Cmd is the build command.
	Cmd = &cobra.Command{
		Use:   "build",
		Short: "Build transactions and a narrative document from form text",
		Long: `Build parses a reimbursement form text file (plus an optional receipt
details file) in solo, group or manual mode, runs the manual audit gate
and prints the narrative document.`,
		RunE: run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Form text file (required for solo/group)")
	Cmd.Flags().StringVarP(&receiptsFile, "receipts", "r", "", "Receipt details text file (solo mode)")
	Cmd.Flags().StringVarP(&mode, "mode", "m", "solo", "Input mode: solo, group or manual")
	Cmd.Flags().BoolVar(&bypassAudit, "bypass-audit", false, "Bypass the manual audit gate once")
	Cmd.Flags().StringVar(&delinquentCSV, "delinquent", "", "Comma-separated staff names with unresolved prior liquidations")
}

func run(cmd *cobra.Command, args []string) error {
	result, err := buildResult()
	if err != nil {
		return err
	}

	if mode == "solo" {
		gate := &audit.Gate{}
		if bypassAudit {
			gate.Arm()
		}
		issues, ok := gate.Check(audit.Input{
			Rows:              result.Rows,
			ClientName:        result.Fields.ClientName,
			Address:           result.Fields.Address,
			StaffMember:       result.Fields.StaffMember,
			ApprovedBy:        result.Fields.ApprovedBy,
			FormTotal:         result.Fields.TotalAmount,
			ReceiptGrandTotal: result.ReceiptGrandTotal,
		})
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", issue.Level, issue.Message)
		}
		if !ok {
			return fmt.Errorf("manual audit found %d issue(s); re-run with --bypass-audit to proceed anyway", len(issues))
		}
	}

	fmt.Println(result.Document)
	root.Log.WithField("transactions", len(result.Transactions)).Info("Build complete")
	return nil
}

func buildResult() (*builder.Result, error) {
	opts := builder.Options{}
	switch mode {
	case "manual":
		return builder.BuildManual(opts)
	case "group":
		formText, err := readInput()
		if err != nil {
			return nil, err
		}
		return builder.BuildGroup(formText, splitDelinquent(), opts)
	case "solo":
		formText, err := readInput()
		if err != nil {
			return nil, err
		}
		receiptText := ""
		if receiptsFile != "" {
			data, err := os.ReadFile(receiptsFile)
			if err != nil {
				return nil, fmt.Errorf("error reading receipts file: %w", err)
			}
			receiptText = string(data)
		}
		return builder.BuildSolo(formText, receiptText, opts)
	default:
		return nil, fmt.Errorf("unknown mode %q: expected solo, group or manual", mode)
	}
}

func readInput() (string, error) {
	if inputFile == "" {
		return "", fmt.Errorf("--input is required for %s mode", mode)
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("error reading input file: %w", err)
	}
	return string(data), nil
}

func splitDelinquent() []string {
	if strings.TrimSpace(delinquentCSV) == "" {
		return nil
	}
	parts := strings.Split(delinquentCSV, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
