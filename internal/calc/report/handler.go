package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	ph "phlab/internal/calc/ph"
)

type Handler struct {
	Tables *ph.Tables
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
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

	if _, err := ph.ComputeSelection(sel); err != nil {
		ph.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input, sel, time.Now()); err != nil {
		logrus.WithError(err).Error("report generation failed")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"ph-report.pdf\"")
	w.Write(buf.Bytes())
}
