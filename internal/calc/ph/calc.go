package ph

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrIncompleteSelection is returned when either the solute or the concentration
	// has not been picked yet.
	ErrIncompleteSelection = errors.New("a solution and a concentration must both be selected")

	// ErrNoPositiveRoot means the reference data produced no single finite
	// positive root.
	ErrNoPositiveRoot = errors.New("no unique positive root for dissociation equilibrium")
)

// Neutral is the pH of pure water at standard conditions; pH + pOH = Neutral*2.
const Neutral = 7.0

type Solute struct {
	Label  string  `json:"label"`
	K      float64 `json:"k"`
	IsAcid bool    `json:"is_acid"`
}

type Concentration struct {
	Label string  `json:"label"`
	Value float64 `json:"value"` // mol/L
}

// Selection pairs the chosen solute and concentration. The zero value is unset.
type Selection struct {
	Solute        Solute        `json:"solute"`
	Concentration Concentration `json:"concentration"`
}

func (s Selection) Complete() bool {
	return s.Solute.Label != "" && s.Concentration.Label != ""
}

// Class returns "acid" or "base".
func (s Solute) Class() string {
	if s.IsAcid {
		return "acid"
	}
	return "base"
}

// Roots solves x^2 + k*x - c*k = 0.
func Roots(k, c float64) (x1, x2 float64) {
	disc := k*k + 4*c*k
	root := math.Sqrt(disc)
	x1 = (-k + root) / 2
	x2 = (-k - root) / 2
	return x1, x2
}

// DissociatedConcentration returns [H+] for acids or [OH-] for bases.
// Exactly one root must be positive and finite.
func DissociatedConcentration(k, c float64) (float64, error) {
	x1, x2 := Roots(k, c)
	ok1, ok2 := physical(x1), physical(x2)
	switch {
	case ok1 && !ok2:
		return x1, nil
	case ok2 && !ok1:
		return x2, nil
	}
	return 0, ErrNoPositiveRoot
}

func physical(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// Compute returns the pH of the solute at the given concentration.
func Compute(solute Solute, conc Concentration) (float64, error) {
	if solute.Label == "" || conc.Label == "" {
		return 0, ErrIncompleteSelection
	}

	x, err := DissociatedConcentration(solute.K, conc.Value)
	if err != nil {
		return 0, fmt.Errorf("%s (k=%g) at %s (c=%g): %w", solute.Label, solute.K, conc.Label, conc.Value, err)
	}

	if solute.IsAcid {
		return -math.Log10(x), nil
	}
	// pOH = -log10([OH-]), pH = 14 - pOH
	return 2*Neutral + math.Log10(x), nil
}

// ComputeSelection is Compute over a Selection snapshot.
func ComputeSelection(sel Selection) (float64, error) {
	return Compute(sel.Solute, sel.Concentration)
}

// Format renders a pH the way it is displayed.
func Format(pH float64) string {
	return fmt.Sprintf("%.2f", pH)
}

// Measurement is a computed pH together with the inputs it came from.
type Measurement struct {
	Solute        string  `json:"solute"`
	Class         string  `json:"class"`
	K             float64 `json:"k"`
	Concentration string  `json:"concentration"`
	Molarity      float64 `json:"molarity"`
	Ion           float64 `json:"ion_concentration"`
	PH            float64 `json:"ph"`
	Display       string  `json:"display"`
}

func Measure(sel Selection) (Measurement, error) {
	pH, err := ComputeSelection(sel)
	if err != nil {
		return Measurement{}, err
	}
	// Compute already succeeded, so the root exists.
	x, _ := DissociatedConcentration(sel.Solute.K, sel.Concentration.Value)
	return Measurement{
		Solute:        sel.Solute.Label,
		Class:         sel.Solute.Class(),
		K:             sel.Solute.K,
		Concentration: sel.Concentration.Label,
		Molarity:      sel.Concentration.Value,
		Ion:           x,
		PH:            pH,
		Display:       Format(pH),
	}, nil
}
