package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/shopstream/backend/config"
	"github.com/shopstream/backend/internal/infrastructure/blob"
	"github.com/shopstream/backend/internal/infrastructure/sqlite"
	"github.com/shopstream/backend/internal/usecase"
)

// The indexer is the offline build entry point: it optionally imports
// the catalog CSV feed into the relational store, then force-rebuilds
// the catalog and uploads a fresh snapshot. Run it from CI or a cron
// job; the serving process picks the snapshot up on its next cold
// start.
func main() {
	skipImport := flag.Bool("skip-import", false, "rebuild the snapshot without re-importing the CSV feed")
	csvPath := flag.String("csv", "", "catalog feed path (defaults to catalog.csv_path from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open product store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if !*skipImport {
		path := *csvPath
		if path == "" {
			path = cfg.Catalog.CSVPath
		}
		log.Printf("Importing catalog feed from %s", path)

		importer := usecase.NewImporter(store.Products())
		result, err := importer.ImportFile(ctx, path)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import complete: %d inserted, %d updated, %d skipped",
			result.Inserted, result.Updated, result.Skipped)
	}

	var snapshots *usecase.SnapshotStore
	if cfg.Blob.BaseURL != "" {
		blobClient := blob.NewClient(cfg.Blob.BaseURL, cfg.Blob.Token, cfg.RateLimit.Blob)
		snapshots = usecase.NewSnapshotStore(blobClient, cfg.Catalog.SnapshotName)
	} else {
		log.Printf("WARNING: no blob store configured - building the catalog without uploading a snapshot")
	}

	catalogService := usecase.NewCatalogService(
		store.Products(),
		snapshots,
		usecase.CatalogServiceConfig{
			DefaultCurrency: cfg.Catalog.DefaultCurrency,
		},
	)

	catalog, err := catalogService.ForceRebuild(ctx)
	if err != nil {
		log.Printf("Catalog build failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Catalog built: %d documents, generation %d", len(catalog.Documents), catalog.Generation)
}
