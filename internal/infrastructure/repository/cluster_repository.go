// Package repository provides the file-backed store of cluster connection
// profiles, with hot reload of the underlying YAML file.
package repository

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/config"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// ClusterRepository manages cluster connection profiles persisted in a YAML
// file. Connections are resolved fresh per operation; no broker clients are
// cached here.
type ClusterRepository struct {
	mu         sync.RWMutex
	configData config.FileConfig
	configPath string
	watcher    *fsnotify.Watcher
}

// NewClusterRepository creates a new cluster repository over the given file.
func NewClusterRepository(configPath string) *ClusterRepository {
	return &ClusterRepository{configPath: configPath}
}

// LoadFromFile loads configuration from the file.
func (r *ClusterRepository) LoadFromFile() error {
	cfg, err := config.ReadConfig(r.configPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.configData = cfg
	r.mu.Unlock()
	return nil
}

// Resolve returns the connection settings for a cluster, matching by id first
// and then by exact name.
func (r *ClusterRepository) Resolve(idOrName string) (config.ClusterConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.configData.Clusters {
		if c.ID != "" && c.ID == idOrName {
			return c, true
		}
	}
	for _, c := range r.configData.Clusters {
		if c.Name == idOrName {
			return c, true
		}
	}
	return config.ClusterConfig{}, false
}

// Save persists a cluster profile, replacing any existing entry with the same
// id or name.
func (r *ClusterRepository) Save(cfg config.ClusterConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.configData.Clusters {
		existing := &r.configData.Clusters[i]
		if (cfg.ID != "" && existing.ID == cfg.ID) || existing.Name == cfg.Name {
			*existing = cfg
			found = true
			break
		}
	}
	if !found {
		r.configData.Clusters = append(r.configData.Clusters, cfg)
	}

	return r.writeToFile()
}

// Delete removes a cluster profile by id or name.
func (r *ClusterRepository) Delete(idOrName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, c := range r.configData.Clusters {
		if (c.ID != "" && c.ID == idOrName) || c.Name == idOrName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return application.ErrClusterNotFound
	}
	r.configData.Clusters = append(r.configData.Clusters[:idx], r.configData.Clusters[idx+1:]...)

	return r.writeToFile()
}

// FindAll returns all cluster profiles.
func (r *ClusterRepository) FindAll() []config.ClusterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]config.ClusterConfig, len(r.configData.Clusters))
	copy(out, r.configData.Clusters)
	return out
}

// Watch sets a fsnotify watcher on the file for hot reload.
func (r *ClusterRepository) Watch() error {
	abs, err := filepath.Abs(r.configPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return err
	}
	r.watcher = w

	const debounceDelay = 350 * time.Millisecond

	go func() {
		reload := func() {
			for i := 0; i < 10; i++ {
				if _, err := os.Stat(abs); err == nil {
					break
				}
				time.Sleep(100 * time.Millisecond)
			}

			utils.Logger.Info("cluster profiles file changed", "path", abs)
			if err := r.LoadFromFile(); err != nil {
				utils.Logger.Error("failed to reload cluster profiles", "err", err)
			}
		}

		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
					if timer == nil {
						timer = time.AfterFunc(debounceDelay, reload)
					} else {
						if !timer.Stop() {
							select {
							case <-timer.C:
							default:
							}
						}
						timer.Reset(debounceDelay)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				utils.Logger.Error("fsnotify error", "err", err)
			}
		}
	}()

	return nil
}

// Close stops the file watcher.
func (r *ClusterRepository) Close() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

// writeToFile persists the current in-memory config to the file.
func (r *ClusterRepository) writeToFile() error {
	dir := filepath.Dir(r.configPath)
	_ = os.MkdirAll(dir, 0755)
	return config.WriteConfig(r.configPath, r.configData)
}
