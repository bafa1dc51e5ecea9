package ph

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Input struct {
	Solute        string `json:"solute"`
	Concentration string `json:"concentration"`
}

type Handler struct {
	Tables *Tables
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sel, err := h.Tables.Select(input.Solute, input.Concentration)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := Measure(sel)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Tables)
}

// WriteError maps calculator errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrIncompleteSelection):
		http.Error(w, ErrIncompleteSelection.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrUnknownSolute), errors.Is(err, ErrUnknownConcentration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logrus.WithError(err).Error("pH calculation failed")
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
