package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	report "phlab/internal/calc/report"
)

func NewReportCommand() *cobra.Command {
	var (
		in     report.Input
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report for one measurement",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}
			sel, err := tables.Select(in.Solute, in.Concentration)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.Render(f, in, sel, time.Now()); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logrus.Infof("report written to %s", output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&in.Solute, "solute", "s", "", "acid or base label")
	flags.StringVarP(&in.Concentration, "concentration", "c", "", "concentration label")
	flags.StringVar(&in.Project, "project", "", "project name")
	flags.StringVar(&in.Author, "author", "", "author")
	flags.StringVar(&in.Title, "title", "", "report title")
	flags.StringVar(&in.Notes, "notes", "", "free-form notes")
	flags.StringVarP(&output, "output", "o", "ph-report.pdf", "output PDF path")

	return cmd
}
