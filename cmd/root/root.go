// Package root contains the root command for the application.
package root

import (
	"os"

	"clearline/reim-audit/internal/builder"
	"clearline/reim-audit/internal/config"
	"clearline/reim-audit/internal/history"
	"clearline/reim-audit/internal/logging"
	"clearline/reim-audit/internal/rowparser"
	"clearline/reim-audit/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Settings holds the resolved application configuration.
	Settings *config.Settings

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "reim-audit",
		Short: "Extract reimbursement submissions into auditable records and check them for duplicates and rule breaches.",
		Long: `reim-audit parses free-form reimbursement form and receipt text into
canonical transaction records, validates them, compares them against a
window of previously processed submissions and evaluates the configured
compliance rules.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to reim-audit!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			settings, err := config.LoadSettings()
			if err != nil {
				Log.Warnf("Failed to load settings, using defaults: %v", err)
			} else {
				Settings = settings
			}

			adapter := logging.NewLogrusAdapterFromLogger(Log)
			rowparser.SetLogger(adapter)
			builder.SetLogger(adapter)
			history.SetLogger(adapter)
			store.SetLogger(adapter)
		},
	}
)

// Init initializes the root command.
func Init() {
	cobra.OnInitialize(func() {
		if os.Getenv("LOG_LEVEL") == "debug" {
			Log.SetLevel(logrus.DebugLevel)
		}
	})
}
