package main

import (
	"os"
	"path/filepath"

	"github.com/OliveiraNt/kafka-vault/cmd"
	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/infrastructure/kafka"
	"github.com/OliveiraNt/kafka-vault/internal/infrastructure/repository"
	"github.com/OliveiraNt/kafka-vault/internal/infrastructure/storage"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
	"github.com/joho/godotenv"
)

func findConfigPath() string {
	names := []string{"config.yml", "config.yaml"}
	candidates := []string{}

	for _, n := range names {
		candidates = append(candidates, "./"+n)
	}

	home, _ := os.UserHomeDir()
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		for _, n := range names {
			candidates = append(candidates, filepath.Join(xdg, "kafka-vault", n))
		}
	}
	if home != "" {
		for _, n := range names {
			candidates = append(candidates, filepath.Join(home, ".config", "kafka-vault", n))
		}
	}
	for _, n := range names {
		candidates = append(candidates, filepath.Join("/etc", "kafka-vault", n))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	createPath := "./config.yml"
	initial := []byte("# kafka-vault configuration\n")
	if err := os.WriteFile(createPath, initial, 0644); err == nil {
		return createPath
	}
	return candidates[0]
}

func main() {
	godotenv.Load()
	utils.InitLogger()

	configPath := os.Getenv("KVAULT_CONFIG")
	if configPath == "" {
		configPath = findConfigPath()
	}

	repo := repository.NewClusterRepository(configPath)
	defer repo.Close()

	if err := repo.LoadFromFile(); err != nil {
		utils.Logger.Warn("failed to load config file", "path", configPath, "err", err)
	} else {
		utils.Logger.Info("configuration loaded", "path", configPath)
	}
	if err := repo.Watch(); err != nil {
		utils.Logger.Fatal("failed to start config watcher", "err", err)
	}

	backupDir := os.Getenv("KVAULT_BACKUP_DIR")
	if backupDir == "" {
		backupDir = "./backups"
	}
	store := storage.NewFSStore(backupDir)

	codec, err := storage.CodecByName(os.Getenv("KVAULT_BACKUP_COMPRESSION"))
	if err != nil {
		utils.Logger.Fatal("invalid backup compression setting", "err", err)
	}

	factory := kafka.NewFactory()
	clusterService := application.NewClusterService(repo, factory)
	topicService := application.NewTopicService(repo, factory)
	backupService := application.NewBackupService(repo, factory, store, codec)
	restoreService := application.NewRestoreService(repo, factory, store)
	utils.Logger.Info("application layer initialized", "backupDir", backupDir, "compression", codec.Name())

	cmd.StartWeb(clusterService, topicService, backupService, restoreService)
}
