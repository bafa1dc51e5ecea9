package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	ph "phlab/internal/calc/ph"
)

// SheetName is the sheet WriteWorkbook produces.
const SheetName = "pH"

var header = []interface{}{"Solute", "Class", "K", "Concentration", "c (mol/L)", "[H+]/[OH-] (mol/L)", "pH"}

type RowResult struct {
	Row           int             `json:"row"`
	Solute        string          `json:"solute"`
	Concentration string          `json:"concentration"`
	Measurement   *ph.Measurement `json:"measurement,omitempty"`
	Error         string          `json:"error,omitempty"`
}

type ImportResult struct {
	Count   int         `json:"count"`
	Failed  int         `json:"failed"`
	Results []RowResult `json:"results"`
}

// ReadWorkbook measures every data row of the first sheet.
// Expected columns: solute label, concentration label. Row 1 is a header.
func ReadWorkbook(r io.Reader, tables *ph.Tables) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	out := ImportResult{Results: make([]RowResult, 0, len(rows)-1)}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		// GetRows trims trailing empty cells.
		for len(row) < 2 {
			row = append(row, "")
		}
		rr := RowResult{
			Row:           i + 1,
			Solute:        strings.TrimSpace(row[0]),
			Concentration: strings.TrimSpace(row[1]),
		}
		m, err := measureRow(tables, rr.Solute, rr.Concentration)
		if err != nil {
			rr.Error = err.Error()
			out.Failed++
		} else {
			rr.Measurement = &m
			out.Count++
		}
		out.Results = append(out.Results, rr)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func measureRow(tables *ph.Tables, solute, conc string) (ph.Measurement, error) {
	sel, err := tables.Select(solute, conc)
	if err != nil {
		return ph.Measurement{}, err
	}
	return ph.Measure(sel)
}

// WriteWorkbook writes measurements as an xlsx workbook.
func WriteWorkbook(w io.Writer, results []ph.Measurement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, m := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Solute, m.Class, m.K, m.Concentration, m.Molarity, m.Ion, m.PH}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
