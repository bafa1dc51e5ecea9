package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	importer "phlab/internal/calc/importer"
	ph "phlab/internal/calc/ph"
)

func NewBatchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "batch <workbook.xlsx>",
		Short: "Compute the pH of every row of a workbook",
		Long: `Compute the pH of every row of a workbook.

The first sheet is read. Row 1 is a header, column A holds the solute label and
column B the concentration label. With --output the results are written to a new
workbook, otherwise they are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := importer.ReadWorkbook(f, tables)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"computed": res.Count,
				"failed":   res.Failed,
			}).Infof("read %s", args[0])

			if output != "" {
				measurements := make([]ph.Measurement, 0, res.Count)
				for _, r := range res.Results {
					if r.Measurement != nil {
						measurements = append(measurements, *r.Measurement)
					} else {
						logrus.Warnf("row %d skipped: %s", r.Row, r.Error)
					}
				}
				out, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := importer.WriteWorkbook(out, measurements); err != nil {
					out.Close()
					return err
				}
				if err := out.Close(); err != nil {
					return err
				}
				logrus.Infof("wrote %d results to %s", len(measurements), output)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tSOLUTE\tCONCENTRATION\tPH")
			for _, r := range res.Results {
				if r.Measurement != nil {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Row, r.Solute, r.Concentration, r.Measurement.Display)
				} else {
					fmt.Fprintf(w, "%d\t%s\t%s\terror: %s\n", r.Row, r.Solute, r.Concentration, r.Error)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to this xlsx file")

	return cmd
}
