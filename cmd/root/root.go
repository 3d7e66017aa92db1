// Package root contains the root command for the application
package root

import (
	"fmt"
	"path/filepath"

	"fjacquet/cashflow/internal/config"
	"fjacquet/cashflow/internal/container"
	"fjacquet/cashflow/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs    []string
	RulesFile string
	Today     string
	Format    string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppContainer holds the wired dependencies once PersistentPreRun ran
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "cashflow",
		Short: "Detect recurring transactions and project account liquidity.",
		Long: `cashflow reads bank transaction CSV files, detects recurring incomes and
expenses, reconciles them with manual rules and projects the balance forward:
subscriptions and burn rate, a daily liquidity forecast and a safe-to-spend
estimate until the next payday.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := Bootstrap(); err != nil {
				Log.Fatalf("Failed to initialize: %v", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Transaction CSV file or directory (repeatable)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.RulesFile, "rules", "r", "", "Manual rules YAML file (default: data.rules_file)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Today, "today", "t", "", "Reference day, YYYY-MM-DD (default: current day)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format: text, json or yaml")
}

// Bootstrap loads the environment and configuration, then wires the container
func Bootstrap() error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if SharedFlags.RulesFile != "" {
		rulesFile, err := filepath.Abs(SharedFlags.RulesFile)
		if err != nil {
			return fmt.Errorf("invalid rules file %s: %w", SharedFlags.RulesFile, err)
		}
		cfg.Data.RulesFile = rulesFile
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	Log = c.GetLogger()
	Log.Debug("Configuration loaded", logging.Field{Key: logging.FieldFile, Value: cfg.RulesPath()})
	return nil
}
