package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/stretchr/testify/require"
)

func sampleData(backupID string, partition int32) *domain.BackupData {
	key := "k"
	return &domain.BackupData{
		BackupID:  backupID,
		Topic:     "orders",
		Partition: partition,
		Messages: []domain.BackupMessage{
			{Offset: 0, TimestampMillis: 1700000000000, Key: &key, Value: "v0"},
			{Offset: 1, TimestampMillis: 1700000000500, Value: "v1",
				Headers: []domain.MessageHeader{{Key: "h", Value: "hv"}}},
		},
		CreatedAt: "2026-08-28T00:00:00Z",
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	t.Parallel()
	for _, codec := range Codecs() {
		codec := codec
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()
			store := NewFSStore(t.TempDir())

			data := sampleData("backup_orders_1_aa", 0)
			require.NoError(t, store.Store(data, codec))

			got, err := store.Load("backup_orders_1_aa", 0)
			require.NoError(t, err)
			require.Equal(t, data.Messages, got.Messages)
			require.Equal(t, "orders", got.Topic)
			require.NotZero(t, got.Checksum)

			meta, err := store.LoadMetadata("backup_orders_1_aa")
			require.NoError(t, err)
			require.Equal(t, "orders", meta.Topic)
			require.Equal(t, []int32{0}, meta.Partitions)
		})
	}
}

func TestFSStoreMetadataAccumulatesPartitions(t *testing.T) {
	t.Parallel()
	store := NewFSStore(t.TempDir())

	require.NoError(t, store.Store(sampleData("backup_orders_2_bb", 0), None{}))
	require.NoError(t, store.Store(sampleData("backup_orders_2_bb", 2), None{}))
	// storing the same partition twice must not duplicate it
	require.NoError(t, store.Store(sampleData("backup_orders_2_bb", 2), None{}))

	meta, err := store.LoadMetadata("backup_orders_2_bb")
	require.NoError(t, err)
	require.Equal(t, []int32{0, 2}, meta.Partitions)
}

func TestFSStoreUnknownBackup(t *testing.T) {
	t.Parallel()
	store := NewFSStore(t.TempDir())

	_, err := store.Load("backup_nope_0_cc", 0)
	require.ErrorIs(t, err, application.ErrBackupNotFound)

	_, err = store.LoadMetadata("backup_nope_0_cc")
	require.ErrorIs(t, err, application.ErrBackupNotFound)
}

func TestFSStoreLoadMissingPartition(t *testing.T) {
	t.Parallel()
	store := NewFSStore(t.TempDir())
	require.NoError(t, store.Store(sampleData("backup_orders_3_dd", 0), None{}))

	_, err := store.Load("backup_orders_3_dd", 1)
	require.ErrorIs(t, err, application.ErrBackupNotFound)
}

func TestFSStoreChecksumMismatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewFSStore(dir)
	require.NoError(t, store.Store(sampleData("backup_orders_4_ee", 0), None{}))

	// tamper with a message value on disk, keeping the JSON valid
	path := filepath.Join(dir, "backup_orders_4_ee_part_0.json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := bytes.Replace(raw, []byte(`"v0"`), []byte(`"vX"`), 1)
	require.NotEqual(t, raw, tampered)
	require.NoError(t, os.WriteFile(path, tampered, 0644))

	_, err = store.Load("backup_orders_4_ee", 0)
	require.ErrorIs(t, err, application.ErrChecksumMismatch)
}

func TestChecksumMessagesIsStable(t *testing.T) {
	t.Parallel()
	msgs := sampleData("b", 0).Messages
	require.Equal(t, ChecksumMessages(msgs), ChecksumMessages(msgs))

	other := sampleData("b", 0).Messages
	other[0].Value = "different"
	require.NotEqual(t, ChecksumMessages(msgs), ChecksumMessages(other))
}

func TestCodecByName(t *testing.T) {
	t.Parallel()
	c, err := CodecByName("")
	require.NoError(t, err)
	require.Equal(t, "gzip", c.Name())

	c, err = CodecByName("lz4")
	require.NoError(t, err)
	require.Equal(t, "lz4", c.Name())

	_, err = CodecByName("zstd")
	require.Error(t, err)
}
