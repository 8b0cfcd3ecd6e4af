// Package storage provides the filesystem-backed BackupStore: one data file
// per backed-up partition plus one metadata record per backup run.
package storage

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
)

// FSStore persists backups under a base directory. Data files are named
// <backupID>_part_<partition>.json plus the codec's extension, which makes
// the compression strategy self-describing on load.
type FSStore struct {
	basePath string
}

// NewFSStore creates a store rooted at basePath. The directory is created on
// first write.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// Store durably writes the per-partition data file and folds the partition
// into the run-level metadata record. The checksum is computed over the
// serialized message batch before writing.
func (s *FSStore) Store(data *domain.BackupData, codec domain.Compression) error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	data.Checksum = ChecksumMessages(data.Messages)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serialize backup data: %w", err)
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("compress backup data: %w", err)
	}

	path := s.dataPath(data.BackupID, data.Partition, codec.Ext())
	if err := writeFileSync(path, compressed); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}

	return s.appendPartition(data)
}

// Load reads, decompresses and verifies the data file for one partition of a
// backup run.
func (s *FSStore) Load(backupID string, partition int32) (*domain.BackupData, error) {
	var (
		raw   []byte
		codec domain.Compression
	)
	for _, c := range Codecs() {
		b, err := os.ReadFile(s.dataPath(backupID, partition, c.Ext()))
		if err == nil {
			raw, codec = b, c
			break
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read backup file: %w", err)
		}
	}
	if codec == nil {
		return nil, fmt.Errorf("backup %s partition %d: %w", backupID, partition, application.ErrBackupNotFound)
	}

	payload, err := codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress backup data: %w", err)
	}
	var data domain.BackupData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("parse backup data: %w", err)
	}
	if data.Checksum != 0 && ChecksumMessages(data.Messages) != data.Checksum {
		return nil, fmt.Errorf("backup %s partition %d: %w", backupID, partition, application.ErrChecksumMismatch)
	}
	return &data, nil
}

// LoadMetadata reads the run-level metadata record for a backup id.
func (s *FSStore) LoadMetadata(backupID string) (*domain.BackupMetadata, error) {
	b, err := os.ReadFile(s.metadataPath(backupID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup %s: %w", backupID, application.ErrBackupNotFound)
		}
		return nil, fmt.Errorf("read backup metadata: %w", err)
	}
	var meta domain.BackupMetadata
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, fmt.Errorf("parse backup metadata: %w", err)
	}
	return &meta, nil
}

// appendPartition records the partition in the run metadata, creating the
// record on the first partition of a run.
func (s *FSStore) appendPartition(data *domain.BackupData) error {
	meta := &domain.BackupMetadata{
		BackupID:  data.BackupID,
		Topic:     data.Topic,
		CreatedAt: data.CreatedAt,
	}
	if existing, err := s.LoadMetadata(data.BackupID); err == nil {
		meta = existing
	}

	for _, p := range meta.Partitions {
		if p == data.Partition {
			return nil
		}
	}
	meta.Partitions = append(meta.Partitions, data.Partition)

	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("serialize backup metadata: %w", err)
	}
	if err := writeFileSync(s.metadataPath(data.BackupID), b); err != nil {
		return fmt.Errorf("write backup metadata: %w", err)
	}
	return nil
}

func (s *FSStore) dataPath(backupID string, partition int32, ext string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s_part_%d.json%s", backupID, partition, ext))
}

func (s *FSStore) metadataPath(backupID string) string {
	return filepath.Join(s.basePath, backupID+".meta.json")
}

// ChecksumMessages computes the FNV-1a 64-bit checksum of the serialized
// message batch.
func ChecksumMessages(messages []domain.BackupMessage) uint64 {
	b, err := json.Marshal(messages)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// writeFileSync writes data through a temp file, fsyncs it and renames it
// into place, so the write is durable before returning.
func writeFileSync(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
