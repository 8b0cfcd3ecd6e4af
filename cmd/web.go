// Package cmd provides command implementations for the kafka-vault
// application. It includes the StartWeb function which starts the HTTP server
// with the already-initialized application services.
package cmd

import (
	"os"

	httpserver "github.com/OliveiraNt/kafka-vault/internal/adapters/http"
	"github.com/OliveiraNt/kafka-vault/internal/application"
	"github.com/OliveiraNt/kafka-vault/internal/utils"
)

// StartWeb starts the HTTP server using already-initialized application services.
func StartWeb(clusterService *application.ClusterService, topicService *application.TopicService,
	backupService *application.BackupService, restoreService *application.RestoreService) {
	server := httpserver.New(clusterService, topicService, backupService, restoreService)
	port := os.Getenv("KVAULT_HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	utils.Logger.Info("HTTP API starting", "port", port)
	if err := server.Run(":" + port); err != nil {
		utils.Logger.Fatal("HTTP API terminated", "err", err)
	}
}
