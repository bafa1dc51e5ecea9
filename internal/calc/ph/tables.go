package ph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrUnknownSolute is returned for a label that is in neither the acid nor the base table.
	ErrUnknownSolute = errors.New("unknown solute")

	// ErrUnknownConcentration is returned for a label missing from the concentration table.
	ErrUnknownConcentration = errors.New("unknown concentration")
)

// Tables holds the reference data the calculator is served from.
// It is read-only after loading and safe to share between goroutines.
type Tables struct {
	Acids          []Solute        `json:"acids"`
	Bases          []Solute        `json:"bases"`
	Concentrations []Concentration `json:"concentrations"`
}

func DefaultTables() *Tables {
	return &Tables{
		Acids: []Solute{
			{Label: "HCl", K: 1.6e1, IsAcid: true},
			{Label: "HNO3", K: 2.2e1, IsAcid: true},
			{Label: "HNO2", K: 7.1e-4, IsAcid: true},
			{Label: "CH3COOH", K: 1.8e-5, IsAcid: true},
		},
		Bases: []Solute{
			{Label: "NaOH", K: 0.63},
			{Label: "KOH", K: 0.63},
			{Label: "NH3", K: 1.8e-5},
			{Label: "CH3NH2", K: 3.7e-4},
		},
		Concentrations: []Concentration{
			{Label: "1 M", Value: 1},
			{Label: "0.5 M", Value: 0.5},
			{Label: "0.1 M", Value: 0.1},
			{Label: "0.05 M", Value: 0.05},
			{Label: "0.01 M", Value: 0.01},
			{Label: "0.005 M", Value: 0.005},
			{Label: "0.001 M", Value: 0.001},
			{Label: "0.0005 M", Value: 0.0005},
		},
	}
}

// LoadTables reads tables from a JSON file. An empty path yields the default tables.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open tables file %s", path)
	}
	defer f.Close()

	t, err := DecodeTables(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load tables from %s", path)
	}
	return t, nil
}

func DecodeTables(r io.Reader) (*Tables, error) {
	var t Tables
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode tables")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every entry is usable by Compute.
func (t *Tables) Validate() error {
	if len(t.Acids)+len(t.Bases) == 0 {
		return fmt.Errorf("no solutes defined")
	}
	if len(t.Concentrations) == 0 {
		return fmt.Errorf("no concentrations defined")
	}

	seen := make(map[string]struct{})
	check := func(s Solute, acid bool) error {
		if s.Label == "" {
			return fmt.Errorf("solute with empty label")
		}
		if _, dup := seen[s.Label]; dup {
			return fmt.Errorf("duplicate solute %q", s.Label)
		}
		seen[s.Label] = struct{}{}
		if !positive(s.K) {
			return fmt.Errorf("solute %q: dissociation constant must be positive, got %g", s.Label, s.K)
		}
		if s.IsAcid != acid {
			return fmt.Errorf("solute %q is classified as %s but listed in the wrong table", s.Label, s.Class())
		}
		return nil
	}
	for _, s := range t.Acids {
		if err := check(s, true); err != nil {
			return err
		}
	}
	for _, s := range t.Bases {
		if err := check(s, false); err != nil {
			return err
		}
	}

	seenC := make(map[string]struct{})
	for _, c := range t.Concentrations {
		if c.Label == "" {
			return fmt.Errorf("concentration with empty label")
		}
		if _, dup := seenC[c.Label]; dup {
			return fmt.Errorf("duplicate concentration %q", c.Label)
		}
		seenC[c.Label] = struct{}{}
		if !positive(c.Value) {
			return fmt.Errorf("concentration %q must be positive, got %g", c.Label, c.Value)
		}
	}

	for _, list := range [][]Solute{t.Acids, t.Bases} {
		for _, s := range list {
			for _, c := range t.Concentrations {
				if _, err := Compute(s, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Solute looks a solute up by label in both tables.
// An empty label returns the unset solute.
func (t *Tables) Solute(label string) (Solute, error) {
	if label == "" {
		return Solute{}, nil
	}
	for _, s := range t.Acids {
		if s.Label == label {
			return s, nil
		}
	}
	for _, s := range t.Bases {
		if s.Label == label {
			return s, nil
		}
	}
	return Solute{}, fmt.Errorf("%w: %q", ErrUnknownSolute, label)
}

// Concentration looks a concentration up by label.
// An empty label returns the unset concentration.
func (t *Tables) Concentration(label string) (Concentration, error) {
	if label == "" {
		return Concentration{}, nil
	}
	for _, c := range t.Concentrations {
		if c.Label == label {
			return c, nil
		}
	}
	return Concentration{}, fmt.Errorf("%w: %q", ErrUnknownConcentration, label)
}

// Select resolves both labels into a Selection.
func (t *Tables) Select(solute, conc string) (Selection, error) {
	s, err := t.Solute(solute)
	if err != nil {
		return Selection{}, err
	}
	c, err := t.Concentration(conc)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Solute: s, Concentration: c}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
