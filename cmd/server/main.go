package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopstream/backend/config"
	httpDelivery "github.com/shopstream/backend/internal/delivery/http"
	"github.com/shopstream/backend/internal/infrastructure/blob"
	"github.com/shopstream/backend/internal/infrastructure/sqlite"
	"github.com/shopstream/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopStream Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Database: %s", cfg.Database.Path)

	// Initialize infrastructure dependencies
	store, err := sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open product store: %v", err)
	}
	defer store.Close()

	var snapshots *usecase.SnapshotStore
	if cfg.Blob.BaseURL != "" {
		blobClient := blob.NewClient(cfg.Blob.BaseURL, cfg.Blob.Token, cfg.RateLimit.Blob)
		snapshots = usecase.NewSnapshotStore(blobClient, cfg.Catalog.SnapshotName)
		log.Printf("Blob store configured: %s (snapshot: %s)", cfg.Blob.BaseURL, cfg.Catalog.SnapshotName)
	} else {
		log.Printf("WARNING: no blob store configured - every cold start rebuilds the catalog from the database")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		store.Products(),
		snapshots,
		usecase.CatalogServiceConfig{
			DefaultCurrency: cfg.Catalog.DefaultCurrency,
		},
	)

	searchService := usecase.NewSearchService(catalogService, usecase.SearchServiceConfig{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	})

	log.Printf("Search: pageSize=%d (max %d), currency=%s",
		cfg.Search.DefaultPageSize,
		cfg.Search.MaxPageSize,
		cfg.Catalog.DefaultCurrency)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		searchService,
		catalogService,
		store.Products(),
		store.Users(),
		store.Orders(),
		store.Categories(),
	)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
