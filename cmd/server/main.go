package main

import (
	"context"
	"log"
	"os"

	"github.com/brewlab/hop-finder/internal/api"
	"github.com/brewlab/hop-finder/internal/catalog"
	"github.com/brewlab/hop-finder/internal/db"
	"github.com/brewlab/hop-finder/internal/ingest"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	registry, err := ingest.LoadRegistry(os.Getenv("SOURCES_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	// The snapshot serves aroma filtering and ranking queries. Without a
	// catalog file the server starts empty and /reload stays disabled;
	// store-backed routes still work.
	catalogPath := os.Getenv("CATALOG_PATH")
	snap := &catalog.Snapshot{}
	if catalogPath != "" {
		snap, err = catalog.LoadFile(catalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog %s: %v", catalogPath, err)
		}
		log.Printf("Loaded catalog %s: %d hops", catalogPath, len(snap.Profiles))
	} else {
		log.Print("CATALOG_PATH is not set; starting with an empty snapshot")
	}

	srv := api.NewServer(pool, catalog.NewCache(snap), registry, catalogPath)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
