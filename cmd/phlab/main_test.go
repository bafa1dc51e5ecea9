package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"

	ph "phlab/internal/calc/ph"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestComputeCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr error
	}{
		{[]string{"compute", "-s", "CH3COOH", "-c", "0.1 M"}, "pH 2.88", nil},
		{[]string{"compute", "--solute", "NH3", "--concentration", "1 M"}, "pH 11.63", nil},
		{[]string{"compute", "--solute", "NH3"}, "", ph.ErrIncompleteSelection},
		{[]string{"compute", "--solute", "HF", "-c", "1 M"}, "", ph.ErrUnknownSolute},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%v: error = %v, want %v", tt.args, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v: output %q does not contain %q", tt.args, out, tt.want)
		}
	}
}

func TestTablesCommand(t *testing.T) {
	out, err := run(t, "tables")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ACIDS", "HNO2", "BASES", "CH3NH2", "0.0005 M"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTablesFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	content := `{"acids":[{"label":"HF","k":6.8e-4,"is_acid":true}],"concentrations":[{"label":"0.2 M","value":0.2}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--tables", path, "compute", "-s", "HF", "-c", "0.2 M")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "HF 0.2 M (acid)") {
		t.Errorf("output = %q", out)
	}
}

func TestBatchAndReportCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]interface{}{"solute", "concentration"})
	f.SetSheetRow(sheet, "A2", &[]interface{}{"HNO2", "0.01 M"})
	f.SetSheetRow(sheet, "A3", &[]interface{}{"HNO2", "7 M"})
	if err := f.SaveAs(in); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out, err := run(t, "batch", in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2.63") || !strings.Contains(out, "unknown concentration") {
		t.Errorf("batch output = %q", out)
	}

	xlsx := filepath.Join(dir, "out.xlsx")
	if _, err := run(t, "batch", in, "-o", xlsx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Errorf("output workbook: %v", err)
	}

	pdf := filepath.Join(dir, "r.pdf")
	if _, err := run(t, "report", "-s", "KOH", "-c", "0.05 M", "-o", pdf); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(pdf)
	if err != nil || !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Errorf("report: %v", err)
	}

	missing := filepath.Join(dir, "missing.pdf")
	if _, err := run(t, "report", "-s", "KOH", "-o", missing); !errors.Is(err, ph.ErrIncompleteSelection) {
		t.Errorf("incomplete report error = %v", err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Error("incomplete report left a file behind")
	}
}
