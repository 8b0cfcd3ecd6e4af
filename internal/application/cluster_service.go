package application

import (
	"context"

	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
)

// ClusterService handles cluster profile management and cluster-level broker
// introspection.
type ClusterService struct {
	repo    domain.ClusterRepository
	factory domain.ClientFactory
}

// NewClusterService creates a new cluster service.
func NewClusterService(repo domain.ClusterRepository, factory domain.ClientFactory) *ClusterService {
	return &ClusterService{repo: repo, factory: factory}
}

// ListClusters returns all stored cluster profiles.
func (s *ClusterService) ListClusters() []config.ClusterConfig {
	return s.repo.FindAll()
}

// GetCluster resolves a cluster profile by id or name.
func (s *ClusterService) GetCluster(idOrName string) (config.ClusterConfig, bool) {
	return s.repo.Resolve(idOrName)
}

// AddCluster validates and persists a new cluster profile.
func (s *ClusterService) AddCluster(cfg config.ClusterConfig) error {
	if cfg.Name == "" {
		return ErrInvalidClusterConfig
	}
	if len(cfg.BootstrapServers) == 0 {
		return ErrInvalidClusterConfig
	}
	if err := s.repo.Save(cfg); err != nil {
		utils.Logger.Error("save cluster failed", "cluster", cfg.Name, "err", err)
		return err
	}
	utils.Logger.Info("cluster saved", "cluster", cfg.Name)
	return nil
}

// DeleteCluster removes a cluster profile by id or name.
func (s *ClusterService) DeleteCluster(idOrName string) error {
	if err := s.repo.Delete(idOrName); err != nil {
		utils.Logger.Error("delete cluster failed", "cluster", idOrName, "err", err)
		return err
	}
	utils.Logger.Info("cluster deleted", "cluster", idOrName)
	return nil
}

// UpdateCluster merges the fields present in the patch into the stored
// profile and persists the result. Unset patch fields are left untouched.
func (s *ClusterService) UpdateCluster(idOrName string, patch config.ClusterPatch) (config.ClusterConfig, error) {
	if patch.IsEmpty() {
		return config.ClusterConfig{}, ErrInvalidClusterConfig
	}

	base, ok := s.repo.Resolve(idOrName)
	if !ok {
		return config.ClusterConfig{}, ErrClusterNotFound
	}

	updated := base.Apply(patch)
	if err := s.repo.Save(updated); err != nil {
		utils.Logger.Error("update cluster failed", "cluster", idOrName, "err", err)
		return config.ClusterConfig{}, err
	}
	utils.Logger.Info("cluster updated", "cluster", updated.Name)
	return updated, nil
}

// BrokerStatus lists the brokers of a cluster.
func (s *ClusterService) BrokerStatus(ctx context.Context, clusterID string) (*domain.BrokerStatusResult, error) {
	cfg, ok := s.repo.Resolve(clusterID)
	if !ok {
		return nil, ErrClusterNotFound
	}

	admin, err := s.factory.Admin(cfg, "kvault-broker-status")
	if err != nil {
		return nil, err
	}
	defer admin.Close()

	brokers, err := admin.BrokerStatus(ctx)
	if err != nil {
		utils.Logger.Error("broker status failed", "cluster", clusterID, "err", err)
		return nil, err
	}

	return &domain.BrokerStatusResult{
		ClusterID:    clusterID,
		Brokers:      brokers,
		TotalBrokers: len(brokers),
	}, nil
}
