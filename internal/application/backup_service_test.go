package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/infrastructure/storage"
	"github.com/OliveiraNt/kafka-vault/internal/testutil"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
	"github.com/stretchr/testify/require"
)

func record(partition int32, offset int64, value string) domain.Record {
	return domain.Record{
		Partition: partition,
		Offset:    offset,
		Timestamp: time.UnixMilli(1700000000000 + offset),
		Key:       []byte("k"),
		Value:     []byte(value),
		Headers:   []domain.MessageHeader{{Key: "h", Value: "hv"}},
	}
}

func TestBackupService_RoundTrip(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.AdminClient.PartitionIDs = []int32{0, 1}
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 0, "a"), record(0, 1, "b")},
	}}
	factory.Consumers[1] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(1, 0, "c")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.Gzip{})

	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:         "orders",
		ConsumeWindow: domain.ConsumeWindow{IncludeHeaders: true},
	})
	require.NoError(t, err)
	require.Equal(t, "orders", result.Topic)
	require.Equal(t, uint64(3), result.TotalMessages)
	require.Equal(t, []int32{0, 1}, result.PartitionsBackedUp)
	require.NotEmpty(t, result.BackupID)

	meta, err := store.LoadMetadata(result.BackupID)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1}, meta.Partitions)

	data, err := store.Load(result.BackupID, 0)
	require.NoError(t, err)
	require.Len(t, data.Messages, 2)
	require.Equal(t, int64(0), data.Messages[0].Offset)
	require.Equal(t, int64(1), data.Messages[1].Offset)
	require.Equal(t, "a", data.Messages[0].Value)
	require.NotNil(t, data.Messages[0].Key)
	require.Equal(t, "k", *data.Messages[0].Key)
	require.Len(t, data.Messages[0].Headers, 1)
}

func TestBackupService_UnknownCluster(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	svc := application.NewBackupService(testutil.NewFakeRepository(), testutil.NewFakeFactory(),
		storage.NewFSStore(t.TempDir()), storage.None{})

	_, err := svc.Backup(context.Background(), "unknown", domain.BackupRequest{Topic: "orders"})
	require.ErrorIs(t, err, application.ErrClusterNotFound)
}

func TestBackupService_MaxMessagesBoundsTheRun(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 0, "a"), record(0, 1, "b"), record(0, 2, "c")},
	}}
	factory.Consumers[1] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(1, 0, "d")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.None{})

	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:         "orders",
		Partitions:    []int32{0, 1},
		ConsumeWindow: domain.ConsumeWindow{MaxMessages: 2},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2), result.TotalMessages)
	// the cap was hit inside partition 0, so partition 1 was never consumed
	require.Equal(t, []int32{0}, result.PartitionsBackedUp)

	_, err = store.Load(result.BackupID, 1)
	require.ErrorIs(t, err, application.ErrBackupNotFound)
}

func TestBackupService_PartitionTargeting(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 0, "a")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.None{})

	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:      "orders",
		Partitions: []int32{0},
	})
	require.NoError(t, err)
	require.Equal(t, []int32{0}, result.PartitionsBackedUp)

	// no files exist for partitions outside the requested set
	_, err = store.Load(result.BackupID, 1)
	require.ErrorIs(t, err, application.ErrBackupNotFound)
	_, err = store.Load(result.BackupID, 2)
	require.ErrorIs(t, err, application.ErrBackupNotFound)
}

func TestBackupService_EndOffsetIsExclusive(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 0, "a"), record(0, 1, "b"), record(0, 2, "c")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.None{})

	end := int64(2)
	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:         "orders",
		Partitions:    []int32{0},
		ConsumeWindow: domain.ConsumeWindow{EndOffset: &end},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2), result.TotalMessages)

	data, err := store.Load(result.BackupID, 0)
	require.NoError(t, err)
	require.Len(t, data.Messages, 2)
	require.Equal(t, int64(1), data.Messages[len(data.Messages)-1].Offset)
}

func TestBackupService_StartOffsetIsForwarded(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 5, "a")},
	}}

	svc := application.NewBackupService(repo, factory, storage.NewFSStore(t.TempDir()), storage.None{})

	start := int64(5)
	_, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:         "orders",
		Partitions:    []int32{0},
		ConsumeWindow: domain.ConsumeWindow{StartOffset: &start},
	})
	require.NoError(t, err)
	require.NotNil(t, factory.StartOffsets[0])
	require.Equal(t, int64(5), *factory.StartOffsets[0])
}

func TestBackupService_HeadersExcludedByDefault(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.Consumers[0] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(0, 0, "a")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.None{})

	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:      "orders",
		Partitions: []int32{0},
	})
	require.NoError(t, err)

	data, err := store.Load(result.BackupID, 0)
	require.NoError(t, err)
	require.Empty(t, data.Messages[0].Headers)
}

func TestBackupService_ConsumerFailureSkipsPartition(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.ConsumerErr[0] = errors.New("broker unreachable")
	factory.Consumers[1] = &testutil.FakeConsumer{Batches: [][]domain.Record{
		{record(1, 0, "a")},
	}}

	store := storage.NewFSStore(t.TempDir())
	svc := application.NewBackupService(repo, factory, store, storage.None{})

	result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{
		Topic:      "orders",
		Partitions: []int32{0, 1},
	})
	require.NoError(t, err)
	require.Equal(t, []int32{1}, result.PartitionsBackedUp)
	require.Equal(t, uint64(1), result.TotalMessages)
}

func TestBackupService_BackupIDsAreUnique(t *testing.T) {
	t.Parallel()
	utils.InitLogger()
	repo := testutil.NewFakeRepository(testCluster())
	factory := testutil.NewFakeFactory()
	factory.AdminClient.PartitionIDs = []int32{0}

	svc := application.NewBackupService(repo, factory, storage.NewFSStore(t.TempDir()), storage.None{})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		result, err := svc.Backup(context.Background(), "c1", domain.BackupRequest{Topic: "orders"})
		require.NoError(t, err)
		require.False(t, seen[result.BackupID])
		seen[result.BackupID] = true
	}
}
