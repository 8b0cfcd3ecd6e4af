package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
)

func (s *Server) apiBackup(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")

	var req domain.BackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Logger.Warn("api backup bad request", "cluster", clusterID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.backupService.Backup(r.Context(), clusterID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) apiRestore(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")

	var req domain.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Logger.Warn("api restore bad request", "cluster", clusterID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.restoreService.Restore(r.Context(), clusterID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
