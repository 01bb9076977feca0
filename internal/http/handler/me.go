package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"scorelog/internal/auth"
	"scorelog/internal/score"
)

var timeNow = func() time.Time { return time.Now().UTC() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type MeHandler struct {
	Store *score.Store
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var log *score.ScoreLog
	err := h.Store.Transaction(r.Context(), func(uow score.UnitOfWork) error {
		var err error
		log, err = uow.ScoreLogs().LoadByParent(r.Context(), uid)
		return err
	})
	if errors.Is(err, score.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      uid,
		"score_log_id": log.ID,
	})
}
