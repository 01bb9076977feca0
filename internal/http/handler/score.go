package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"scorelog/internal/auth"
	"scorelog/internal/jobs"
	"scorelog/internal/logger"
	"scorelog/internal/notify"
	"scorelog/internal/score"
)

type ScoreHandler struct {
	Store    *score.Store
	Scores   *score.Service
	Jobs     *jobs.Repo
	Notifier notify.Publisher
	Log      *logger.Logger
}

func (h *ScoreHandler) Overview(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var o score.UserScoreOverview
	err := h.Store.Transaction(r.Context(), func(uow score.UnitOfWork) error {
		var err error
		o, err = h.Scores.LoadOverview(r.Context(), uow, uid)
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *ScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	q := r.URL.Query()

	period, err := score.ParsePeriod(strings.TrimSpace(strings.ToLower(q.Get("period"))))
	if err != nil {
		http.Error(w, "invalid period", http.StatusBadRequest)
		return
	}
	now := timeNow()
	from, err := parseTimeParam(q.Get("from"), now.AddDate(0, 0, -30))
	if err != nil {
		http.Error(w, "invalid from (RFC3339 or YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	to, err := parseTimeParam(q.Get("to"), now)
	if err != nil {
		http.Error(w, "invalid to (RFC3339 or YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	var out []score.UserScore
	err = h.Store.Transaction(r.Context(), func(uow score.UnitOfWork) error {
		var err error
		out, err = h.Scores.LoadHistory(r.Context(), uow, uid, period, from, to)
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RecordTask scores a completed task. With ?async=true the task is queued
// for the job worker instead.
func (h *ScoreHandler) RecordTask(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var spec score.TaskSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	task, err := spec.Task()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("async") == "true" {
		j, err := h.Jobs.EnqueueScoreRecord(r.Context(), nil, uid, spec, timeNow())
		if err != nil {
			h.Log.Error("enqueue score record failed", "user_id", uid, "error", err)
			http.Error(w, "failed enqueue job", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"job_id": j.ID})
		return
	}

	var res *score.RecordResult
	err = h.Store.Transaction(r.Context(), func(uow score.UnitOfWork) error {
		var err error
		res, err = h.Scores.RecordTask(r.Context(), uow, uid, task)
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ev := notify.ScoreEvent{UserID: uid, TaskKind: spec.Kind, TaskID: spec.ID, Result: *res, RecordedAt: timeNow()}
	if err := h.Notifier.PublishScore(r.Context(), ev); err != nil {
		h.Log.Warn("publish score event failed", "user_id", uid, "error", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ScoreHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, score.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, score.ErrInvalidTask):
		http.Error(w, "invalid task", http.StatusBadRequest)
	default:
		h.Log.Error("score request failed", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func parseTimeParam(raw string, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}
