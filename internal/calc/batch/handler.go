package batch

import (
	"encoding/json"
	"errors"
	"net/http"

	ph "phlab/internal/calc/ph"
)

type Handler struct {
	Tables *ph.Tables
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(h.Tables, input)
	if errors.Is(err, ErrNoItems) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		ph.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
