package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ph "phlab/internal/calc/ph"
)

func colorPH(pH float64) string {
	text := ph.Format(pH)
	switch {
	case text == ph.Format(ph.Neutral):
		return color.New(color.FgGreen, color.Bold).Sprint(text)
	case pH < ph.Neutral:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	default:
		return color.New(color.FgBlue, color.Bold).Sprint(text)
	}
}

func NewComputeCommand() *cobra.Command {
	var solute, conc string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the pH of one solution",
		Long: `Compute the pH of one solution.

Both the solute and the concentration are labels from the reference tables, for example:

  phlab compute --solute NH3 --concentration "1 M"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}
			sel, err := tables.Select(solute, conc)
			if err != nil {
				return err
			}
			m, err := ph.Measure(sel)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"k":   m.K,
				"c":   m.Molarity,
				"ion": m.Ion,
			}).Debug("positive root selected")

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s): pH %s\n", m.Solute, m.Concentration, m.Class, colorPH(m.PH))
			return nil
		},
	}

	cmd.Flags().StringVarP(&solute, "solute", "s", "", "acid or base label")
	cmd.Flags().StringVarP(&conc, "concentration", "c", "", "concentration label")

	return cmd
}

func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List acids, bases and concentrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACIDS\tK")
			for _, s := range tables.Acids {
				fmt.Fprintf(w, "%s\t%g\n", s.Label, s.K)
			}
			fmt.Fprintln(w, "\nBASES\tK")
			for _, s := range tables.Bases {
				fmt.Fprintf(w, "%s\t%g\n", s.Label, s.K)
			}
			fmt.Fprintln(w, "\nCONCENTRATIONS\tmol/L")
			for _, c := range tables.Concentrations {
				fmt.Fprintf(w, "%s\t%g\n", c.Label, c.Value)
			}
			return w.Flush()
		},
	}
}
