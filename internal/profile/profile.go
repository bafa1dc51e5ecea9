package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	auth "phlab/internal/auth"
	repo "phlab/internal/repo"
)

type ProfileHandler struct {
	Repo repo.Repository
}

type Profile struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Email string `json:"email,omitempty"`
}

// GetProfile serves the caller's own profile, or another user's public one
// when an id is given in the path.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := userID
	if idStr, ok := mux.Vars(r)["id"]; ok && idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}
		targetID = id
	}

	u, err := h.Repo.GetByID(r.Context(), targetID)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("GetByID failed")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	prof := Profile{ID: u.ID, Login: u.Login}
	if targetID == userID {
		prof.Email = u.Email
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prof)
}
