package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
)

func (s *Server) apiListTopics(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topics, err := s.topicService.ListTopics(r.Context(), clusterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) apiCreateTopic(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")

	var spec domain.TopicSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		utils.Logger.Warn("api create topic bad request", "cluster", clusterID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.topicService.CreateTopic(r.Context(), clusterID, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) apiDescribeTopic(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	desc, err := s.topicService.DescribeTopic(r.Context(), clusterID, topicName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (s *Server) apiDeleteTopic(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	if err := s.topicService.DeleteTopic(r.Context(), clusterID, topicName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type alterConfigRequest struct {
	Configs      []domain.ConfigEntry `json:"configs"`
	ValidateOnly bool                 `json:"validate_only"`
}

func (s *Server) apiAlterTopicConfig(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	var req alterConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Logger.Warn("api alter topic config bad request", "cluster", clusterID, "topic", topicName, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.topicService.AlterTopicConfig(r.Context(), clusterID, topicName, req.Configs, req.ValidateOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type addPartitionsRequest struct {
	TotalPartitions int32 `json:"total_partitions"`
	ValidateOnly    bool  `json:"validate_only"`
}

func (s *Server) apiAddPartitions(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	var req addPartitionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Logger.Warn("api add partitions bad request", "cluster", clusterID, "topic", topicName, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.topicService.AddPartitions(r.Context(), clusterID, topicName, req.TotalPartitions, req.ValidateOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type writeMessageRequest struct {
	Key     *string                `json:"key,omitempty"`
	Value   string                 `json:"value"`
	Headers []domain.MessageHeader `json:"headers,omitempty"`
}

func (s *Server) apiWriteMessage(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	var req writeMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Logger.Warn("api write message bad request", "cluster", clusterID, "topic", topicName, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec := domain.Record{
		Value:     []byte(req.Value),
		Headers:   req.Headers,
		Timestamp: time.Now(),
	}
	if req.Key != nil {
		rec.Key = []byte(*req.Key)
	}

	if err := s.topicService.WriteMessage(r.Context(), clusterID, topicName, rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message written successfully"})
}
