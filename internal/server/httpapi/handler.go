// Package httpapi exposes the sync surface consumed by clients: row upsert,
// incremental download by lastSyncedAt cursor, physical delete and a ping.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/ekoshkin/recallbox/internal/server/models"
	"github.com/ekoshkin/recallbox/internal/server/repositories/records"
)

type RecordHandler struct {
	repo records.Repository
	log  logging.Logger
}

func NewRecordHandler(repo records.Repository, log logging.Logger) *RecordHandler {
	return &RecordHandler{repo: repo, log: log.With("component", "httpapi")}
}

func isTombstone(rec *models.Record) bool {
	return rec.Deleted || rec.DeletedAt > 0 || rec.Category == "deleted" || rec.MasteryLevel == -2
}

// validate rejects rows the sync protocol cannot use. Tombstone markers
// only need an id; active rows must also carry a category and a creation
// timestamp.
func validate(rec *models.Record) string {
	if rec.ID == "" {
		return "id required"
	}
	if isTombstone(rec) {
		return ""
	}
	if rec.Category == "" {
		return "category required"
	}
	if rec.CreatedAt == 0 {
		return "createdAt required"
	}
	return ""
}

func (h *RecordHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn(r.Context(), "failed to write response", "error", err)
	}
}

func (h *RecordHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if msg := validate(&rec); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	stored, err := h.repo.Upsert(r.Context(), &rec)
	if err != nil {
		h.log.Error(r.Context(), "upsert failed", "id", rec.ID, "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stored)
}

type selectResponse struct {
	Records []*models.Record `json:"records"`
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	since := int64(0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	rows, err := h.repo.SelectUpdatedSince(r.Context(), since)
	if err != nil {
		h.log.Error(r.Context(), "select failed", "since", since, "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []*models.Record{}
	}
	h.writeJSON(w, r, http.StatusOK, selectResponse{Records: rows})
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.repo.DeleteByID(r.Context(), id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		h.log.Error(r.Context(), "delete failed", "id", id, "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
