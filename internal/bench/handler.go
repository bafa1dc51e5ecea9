package bench

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	auth "phlab/internal/auth"
	ph "phlab/internal/calc/ph"
)

type Handler struct {
	Tables *ph.Tables
	Store  *Store
}

type labelRequest struct {
	Label string `json:"label"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeSnapshot(w, h.Store.Get(userID))
}

func (h *Handler) SelectSolute(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s, err := h.Tables.Solute(req.Label)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.update(w, r, func(b *Bench) error { return b.SelectSolute(s) })
}

func (h *Handler) SelectConcentration(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	c, err := h.Tables.Concentration(req.Label)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.update(w, r, func(b *Bench) error { return b.SelectConcentration(c) })
}

func (h *Handler) Measure(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(b *Bench) error {
		_, err := b.Measure()
		return err
	})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(b *Bench) error {
		b.Reset()
		return nil
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, fn func(b *Bench) error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	b, err := h.Store.Update(userID, fn)
	switch {
	case err == nil:
	case errors.Is(err, ErrLocked):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	default:
		ph.WriteError(w, err)
		return
	}
	if b.Locked() {
		logrus.WithFields(logrus.Fields{
			"user":          userID,
			"solute":        b.Selection.Solute.Label,
			"concentration": b.Selection.Concentration.Label,
			"ph":            *b.PH,
		}).Debug("bench reading")
	}
	writeSnapshot(w, b)
}

func writeSnapshot(w http.ResponseWriter, b Bench) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b.Snapshot())
}
