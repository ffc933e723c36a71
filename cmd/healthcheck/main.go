package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/database"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
)

func main() {
	var auditPointers bool
	flag.BoolVar(&auditPointers, "audit", false, "also audit document current pointers against version history")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Perform health check
	result := services.HealthCheck(ctx, cfg, db, store)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	if auditPointers {
		drifted, err := services.AuditCurrentPointers(db)
		if err != nil {
			log.Fatalf("Pointer audit failed: %v", err)
		}
		if len(drifted) > 0 {
			report, _ := json.MarshalIndent(drifted, "", "  ")
			fmt.Println(string(report))
			os.Exit(1)
		}
		fmt.Println("All current pointers match version history")
	}

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}

func openStorage(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageType == "memory" {
		return storage.NewMemoryStore(), nil
	}
	return storage.ConnectMinIO(storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}, zap.NewNop())
}
