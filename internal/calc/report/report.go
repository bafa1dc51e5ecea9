package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	ph "phlab/internal/calc/ph"
)

type Input struct {
	Solute        string `json:"solute"`
	Concentration string `json:"concentration"`
	Project       string `json:"project"`
	Author        string `json:"author"`
	Title         string `json:"title"`
	Notes         string `json:"notes"`
}

// Render writes a one-page PDF describing how the pH of sel was obtained.
func Render(w io.Writer, in Input, sel ph.Selection, now time.Time) error {
	m, err := ph.Measure(sel)
	if err != nil {
		return err
	}
	if in.Title == "" {
		in.Title = "pH Measurement Report"
	}
	k, c := sel.Solute.K, sel.Concentration.Value
	x1, x2 := ph.Roots(k, c)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Sample")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Solute: %s (%s), K = %g", m.Solute, m.Class, k))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Concentration: %s (c = %g mol/L)", m.Concentration, c))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Equilibrium")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("x^2 + %g x - %g = 0", k, c*k))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("x1 = %.6g, x2 = %.6g, chosen x = %.6g mol/L", x1, x2, m.Ion))
	pdf.Ln(6)
	if sel.Solute.IsAcid {
		pdf.Cell(0, 6, "pH = -log10([H+])")
	} else {
		pdf.Cell(0, 6, "pH = 14 + log10([OH-])")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, fmt.Sprintf("pH = %s", m.Display))
	pdf.Ln(14)

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}

	return pdf.Output(w)
}
