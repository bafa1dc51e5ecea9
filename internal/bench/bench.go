// Package bench holds the state behind the measuring screen: which solute and
// concentration are picked, where the probe is and the pH last read.
package bench

import (
	"errors"

	ph "phlab/internal/calc/ph"
)

// ErrLocked is returned when the selection is changed while a reading is shown.
var ErrLocked = errors.New("selection is locked until the bench is reset")

// Probe heights of the scene. The probe rests above the cylinder and is lowered
// into the liquid while measuring.
const (
	ProbeRaised  = 1.0
	ProbeLowered = 0.0
)

type Bench struct {
	Selection ph.Selection `json:"selection"`
	PH        *float64     `json:"ph"`
	Probe     float64      `json:"probe"`
}

func New() Bench {
	return Bench{Probe: ProbeRaised}
}

// Locked reports whether a reading is displayed.
func (b Bench) Locked() bool {
	return b.PH != nil
}

func (b *Bench) SelectSolute(s ph.Solute) error {
	if b.Locked() {
		return ErrLocked
	}
	b.Selection.Solute = s
	return nil
}

func (b *Bench) SelectConcentration(c ph.Concentration) error {
	if b.Locked() {
		return ErrLocked
	}
	b.Selection.Concentration = c
	return nil
}

// Measure lowers the probe and reads the pH of the current selection.
// The bench is left untouched when the computation fails.
func (b *Bench) Measure() (float64, error) {
	pH, err := ph.ComputeSelection(b.Selection)
	if err != nil {
		return 0, err
	}
	b.PH = &pH
	b.Probe = ProbeLowered
	return pH, nil
}

// Reset raises the probe and clears both the selection and the reading.
func (b *Bench) Reset() {
	*b = New()
}

type Snapshot struct {
	Solute        string   `json:"solute"`
	Concentration string   `json:"concentration"`
	PH            *float64 `json:"ph"`
	Display       string   `json:"display"`
	Probe         float64  `json:"probe"`
	Locked        bool     `json:"locked"`
}

func (b Bench) Snapshot() Snapshot {
	s := Snapshot{
		Solute:        b.Selection.Solute.Label,
		Concentration: b.Selection.Concentration.Label,
		Probe:         b.Probe,
		Locked:        b.Locked(),
	}
	if b.PH != nil {
		v := *b.PH
		s.PH = &v
		s.Display = ph.Format(v)
	}
	return s
}
