package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ph "phlab/internal/calc/ph"
	logging "phlab/internal/logging"
)

var (
	logLevel   = "info"
	tablesPath = ""
)

func handleCmdError(err error) {
	if errors.Is(err, ph.ErrIncompleteSelection) {
		fmt.Fprintln(os.Stderr, "\nError: a solution and a concentration must both be selected")
		fmt.Fprintln(os.Stderr, "  - Pass both --solute and --concentration")
		fmt.Fprintln(os.Stderr, "  - Run 'phlab tables' to list the available labels")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phlab",
		Short: "phlab computes the pH of acid and base solutions",
		Long: `phlab computes the pH of acid and base solutions picked from reference tables.

The pH comes from the positive root of x^2 + Kx - cK = 0, where K is the
dissociation constant of the solute and c its molar concentration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.Setup(logLevel)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&tablesPath, "tables", os.Getenv("PHLAB_TABLES"), "reference tables JSON file (built-in tables when empty)")

	cmd.AddCommand(
		NewComputeCommand(),
		NewTablesCommand(),
		NewBatchCommand(),
		NewReportCommand(),
	)

	return cmd
}

func loadTables() (*ph.Tables, error) {
	return ph.LoadTables(tablesPath)
}
