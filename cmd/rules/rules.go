// Package rules contains the command that manages the rule configuration.
package rules

import (
	"fmt"

	"clearline/reim-audit/cmd/root"
	"clearline/reim-audit/internal/rules"
	"clearline/reim-audit/internal/store"

	"github.com/spf13/cobra"
)

var (
	rulesFile string
	restore   bool

	// Cmd is the rules command.
	Cmd = &cobra.Command{
		Use:   "rules",
		Short: "List or restore the compliance rule configuration",
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&rulesFile, "file", "f", "", "Rules file (defaults to the configured rules.file)")
	Cmd.Flags().BoolVar(&restore, "restore-defaults", false, "Write the full default rule set back to the rules file")
}

func run(cmd *cobra.Command, args []string) error {
	path := rulesFile
	if path == "" {
		path = "rules.yaml"
		if root.Settings != nil {
			path = root.Settings.Rules.File
		}
	}
	ruleStore := store.NewRuleStore(path)

	if restore {
		if err := ruleStore.Save(rules.Defaults()); err != nil {
			return err
		}
		fmt.Printf("Restored default rules to %s\n", path)
		return nil
	}

	cfgs, err := ruleStore.Load()
	if err != nil {
		return err
	}
	for _, cfg := range cfgs {
		state := "enabled"
		if !cfg.Enabled {
			state = "disabled"
		}
		kind := "custom"
		if cfg.BuiltIn {
			kind = "built-in"
		}
		fmt.Printf("%-4s %-10s %-9s [%s] %s\n", cfg.ID, state, kind, cfg.Severity, cfg.Title)
	}
	return nil
}
