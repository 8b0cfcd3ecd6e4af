package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
)

// redactedCluster is the API response shape of a cluster profile, with
// credentials stripped.
type redactedCluster struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	BootstrapServers []string `json:"bootstrap_servers"`
	SASLMechanism    string   `json:"sasl_mechanism,omitempty"`
	SecurityProtocol string   `json:"security_protocol,omitempty"`
	AuthType         string   `json:"auth_type"`
}

func redact(cfg config.ClusterConfig) redactedCluster {
	return redactedCluster{
		ID:               cfg.ID,
		Name:             cfg.Name,
		BootstrapServers: cfg.BootstrapServers,
		SASLMechanism:    cfg.SASLMechanism,
		SecurityProtocol: cfg.SecurityProtocol,
		AuthType:         cfg.AuthType(),
	}
}

func (s *Server) apiListClusters(w http.ResponseWriter, _ *http.Request) {
	clusters := s.clusterService.ListClusters()
	out := make([]redactedCluster, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, redact(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiGetCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	cfg, ok := s.clusterService.GetCluster(clusterID)
	if !ok {
		writeError(w, application.ErrClusterNotFound)
		return
	}
	writeJSON(w, http.StatusOK, redact(cfg))
}

func (s *Server) apiAddCluster(w http.ResponseWriter, r *http.Request) {
	var cfg config.ClusterConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.Logger.Warn("api add cluster bad request", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.clusterService.AddCluster(cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, redact(cfg))
}

func (s *Server) apiUpdateCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")

	var patch config.ClusterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.Logger.Warn("api update cluster bad request", "cluster", clusterID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	updated, err := s.clusterService.UpdateCluster(clusterID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(updated))
}

func (s *Server) apiDeleteCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	if err := s.clusterService.DeleteCluster(clusterID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiBrokerStatus(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	result, err := s.clusterService.BrokerStatus(r.Context(), clusterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
