package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server provides the HTTP API endpoints for Kafka Vault.
type Server struct {
	clusterService *application.ClusterService
	topicService   *application.TopicService
	backupService  *application.BackupService
	restoreService *application.RestoreService
}

// New creates a new HTTP server instance.
func New(clusterService *application.ClusterService, topicService *application.TopicService,
	backupService *application.BackupService, restoreService *application.RestoreService) *Server {
	return &Server{
		clusterService: clusterService,
		topicService:   topicService,
		backupService:  backupService,
		restoreService: restoreService,
	}
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			dur := time.Since(start)
			utils.Logger.Info("http request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", dur.String(),
			)
		})
	})

	r.Get("/api/clusters", s.apiListClusters)
	r.Post("/api/clusters", s.apiAddCluster)
	r.Get("/api/clusters/{clusterID}", s.apiGetCluster)
	r.Put("/api/clusters/{clusterID}", s.apiUpdateCluster)
	r.Delete("/api/clusters/{clusterID}", s.apiDeleteCluster)
	r.Get("/api/clusters/{clusterID}/brokers", s.apiBrokerStatus)

	r.Get("/api/clusters/{clusterID}/topics", s.apiListTopics)
	r.Post("/api/clusters/{clusterID}/topics", s.apiCreateTopic)
	r.Get("/api/clusters/{clusterID}/topics/{topicName}", s.apiDescribeTopic)
	r.Delete("/api/clusters/{clusterID}/topics/{topicName}", s.apiDeleteTopic)
	r.Put("/api/clusters/{clusterID}/topics/{topicName}/config", s.apiAlterTopicConfig)
	r.Post("/api/clusters/{clusterID}/topics/{topicName}/partitions", s.apiAddPartitions)
	r.Post("/api/clusters/{clusterID}/topics/{topicName}/messages", s.apiWriteMessage)
	r.Get("/api/clusters/{clusterID}/topics/{topicName}/ws", s.wsStreamTopic)

	r.Post("/api/clusters/{clusterID}/backups", s.apiBackup)
	r.Post("/api/clusters/{clusterID}/restores", s.apiRestore)

	utils.Logger.Info("HTTP server listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Logger.Error("encode response failed", "err", err)
	}
}

// writeError maps service errors onto HTTP status codes: validation failures
// to 400, unknown resources to 404, broker rejections to 502 and broker
// timeouts to 504.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var brokerErr *application.BrokerError
	switch {
	case errors.Is(err, application.ErrClusterNotFound),
		errors.Is(err, application.ErrTopicNotFound),
		errors.Is(err, application.ErrBackupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, application.ErrInvalidClusterConfig),
		errors.Is(err, application.ErrInvalidTopicName),
		errors.Is(err, application.ErrInvalidPartitionCount),
		errors.Is(err, application.ErrInvalidReplicationFactor),
		errors.Is(err, application.ErrInvalidTopicConfig),
		errors.Is(err, application.ErrInvalidBackupID):
		status = http.StatusBadRequest
	case errors.As(err, &brokerErr):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
