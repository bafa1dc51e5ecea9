package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	batch "phlab/internal/calc/batch"
	ph "phlab/internal/calc/ph"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Tables *ph.Tables
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := ReadWorkbook(file, h.Tables)
	if err != nil {
		logrus.WithError(err).Debug("workbook import rejected")
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var input batch.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := batch.Calculate(h.Tables, input)
	if err != nil {
		if errors.Is(err, batch.ErrNoItems) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ph.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"ph.xlsx\"")
	if err := WriteWorkbook(w, res.Results); err != nil {
		logrus.WithError(err).Error("failed to write workbook")
		http.Error(w, "Export error", http.StatusInternalServerError)
	}
}
