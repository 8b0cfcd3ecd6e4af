package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/infrastructure/storage"
	"github.com/OliveiraNt/kafka-vault/internal/testutil"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *testutil.FakeRepository, *testutil.FakeFactory) {
	t.Helper()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(config.ClusterConfig{
		ID: "c1", Name: "local", BootstrapServers: []string{"localhost:9092"},
		SASLPassword: "secret",
	})
	factory := testutil.NewFakeFactory()
	store := storage.NewFSStore(t.TempDir())

	srv := New(
		application.NewClusterService(repo, factory),
		application.NewTopicService(repo, factory),
		application.NewBackupService(repo, factory, store, storage.None{}),
		application.NewRestoreService(repo, factory, store),
	)
	return srv, repo, factory
}

// routed builds the same route tree Run serves, without binding a listener.
func routed(s *Server) http.Handler {
	r := chi.NewRouter()
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
	r.Post("/api/clusters/{clusterID}/backups", s.apiBackup)
	r.Post("/api/clusters/{clusterID}/restores", s.apiRestore)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIListClustersRedactsCredentials(t *testing.T) {
	t.Parallel()
	srv, _, _ := newTestServer(t)
	h := routed(srv)

	rec := doJSON(t, h, http.MethodGet, "/api/clusters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret")
	require.NotContains(t, rec.Body.String(), "sasl_password")

	var out []redactedCluster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "local", out[0].Name)
}

func TestAPIClusterCRUD(t *testing.T) {
	t.Parallel()
	srv, repo, _ := newTestServer(t)
	h := routed(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/clusters", config.ClusterConfig{
		Name: "staging", BootstrapServers: []string{"s1:9092"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.Cfgs, 2)

	// missing required fields
	rec = doJSON(t, h, http.MethodPost, "/api/clusters", config.ClusterConfig{Name: "bad"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/clusters/staging", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/clusters/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/clusters/staging", map[string]any{
		"bootstrap_servers": []string{"s2:9092"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got, ok := repo.Resolve("staging")
	require.True(t, ok)
	require.Equal(t, []string{"s2:9092"}, got.BootstrapServers)

	rec = doJSON(t, h, http.MethodDelete, "/api/clusters/staging", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, repo.Cfgs, 1)
}

func TestAPIBrokerStatus(t *testing.T) {
	t.Parallel()
	srv, _, factory := newTestServer(t)
	factory.AdminClient.Brokers = []domain.BrokerStatus{{ID: 1, Host: "b1", Port: 9092}}
	h := routed(srv)

	rec := doJSON(t, h, http.MethodGet, "/api/clusters/c1/brokers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out domain.BrokerStatusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 1, out.TotalBrokers)
}

func TestAPICreateTopic(t *testing.T) {
	t.Parallel()
	srv, _, factory := newTestServer(t)
	h := routed(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/clusters/c1/topics", domain.TopicSpec{
		Name: "orders", Partitions: 3, ReplicationFactor: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, factory.AdminClient.CreatedSpecs, 1)

	// validation failures map to 400
	rec = doJSON(t, h, http.MethodPost, "/api/clusters/c1/topics", domain.TopicSpec{
		Name: "orders", Partitions: 0, ReplicationFactor: 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown cluster maps to 404
	rec = doJSON(t, h, http.MethodPost, "/api/clusters/nope/topics", domain.TopicSpec{
		Name: "orders", Partitions: 1, ReplicationFactor: 1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	// malformed body maps to 400
	req := httptest.NewRequest(http.MethodPost, "/api/clusters/c1/topics", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIAlterTopicConfigAndPartitions(t *testing.T) {
	t.Parallel()
	srv, _, factory := newTestServer(t)
	h := routed(srv)

	rec := doJSON(t, h, http.MethodPut, "/api/clusters/c1/topics/orders/config", alterConfigRequest{
		Configs:      []domain.ConfigEntry{{Key: "retention.ms", Value: "1000"}},
		ValidateOnly: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var alterOut domain.AlterConfigResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alterOut))
	require.True(t, alterOut.ValidateOnly)
	require.False(t, alterOut.Applied)

	rec = doJSON(t, h, http.MethodPut, "/api/clusters/c1/topics/orders/config", alterConfigRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/clusters/c1/topics/orders/partitions", addPartitionsRequest{
		TotalPartitions: 6,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, factory.AdminClient.PartitionCalls, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/clusters/c1/topics/orders/partitions", addPartitionsRequest{
		TotalPartitions: -1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIBackupAndRestore(t *testing.T) {
	t.Parallel()
	srv, _, factory := newTestServer(t)
	factory.AdminClient.PartitionIDs = []int32{0}
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{{Partition: 0, Offset: 0, Value: []byte("a")}},
	}}
	h := routed(srv)

	rec := doJSON(t, h, http.MethodPost, "/api/clusters/c1/backups", domain.BackupRequest{
		Topic: "orders",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var backup domain.BackupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &backup))
	require.Equal(t, uint64(1), backup.TotalMessages)

	rec = doJSON(t, h, http.MethodPost, "/api/clusters/c1/restores", domain.RestoreRequest{
		BackupID:    backup.BackupID,
		TargetTopic: "orders-copy",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var restore domain.RestoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &restore))
	require.Equal(t, uint64(1), restore.MessagesRestored)
	require.Len(t, factory.ProducerFake.Produced, 1)

	// restoring an unknown backup maps to 404
	rec = doJSON(t, h, http.MethodPost, "/api/clusters/c1/restores", domain.RestoreRequest{
		BackupID:    "backup_nope_0_ff",
		TargetTopic: "orders-copy",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIBackupAcceptsFlatWindowFields(t *testing.T) {
	t.Parallel()
	srv, _, factory := newTestServer(t)
	factory.AdminClient.PartitionIDs = []int32{0}
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{
			{Partition: 0, Offset: 0, Value: []byte("a")},
			{Partition: 0, Offset: 1, Value: []byte("b")},
			{Partition: 0, Offset: 2, Value: []byte("c")},
		},
	}}
	h := routed(srv)

	// window bounds arrive inlined next to topic, not nested
	rec := doJSON(t, h, http.MethodPost, "/api/clusters/c1/backups", map[string]any{
		"topic":        "orders",
		"max_messages": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var backup domain.BackupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &backup))
	require.Equal(t, uint64(1), backup.TotalMessages)
}

func TestWriteErrorMapping(t *testing.T) {
	t.Parallel()
	utils.InitLogger()

	cases := []struct {
		err  error
		want int
	}{
		{application.ErrClusterNotFound, http.StatusNotFound},
		{application.ErrBackupNotFound, http.StatusNotFound},
		{application.ErrInvalidPartitionCount, http.StatusBadRequest},
		{application.ErrInvalidBackupID, http.StatusBadRequest},
		{&application.BrokerError{Op: "create", Resource: "t", Err: context.Canceled}, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		require.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}
