package main

import (
	"context"
	"flag"
	"log"

	"github.com/brewlab/hop-finder/internal/catalog"
	"github.com/brewlab/hop-finder/internal/db"
	"github.com/brewlab/hop-finder/internal/ingest"
)

// Loads hops into the store without scraping: either a previously scraped
// catalog JSON file (-file) or a live run of one registry source (-source).
func main() {
	file := flag.String("file", "", "Catalog JSON file to load into the store")
	sourceID := flag.String("source", "", "Registry source ID to scrape and ingest (e.g. yakima)")
	flag.Parse()

	if *file == "" && *sourceID == "" {
		log.Fatal("Provide -file or -source")
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

	if *file != "" {
		snap, err := catalog.LoadFile(*file)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}

		store := db.NewStore(pool)
		upserted := 0
		for _, h := range snap.Profiles {
			if err := store.UpsertHop(ctx, h); err != nil {
				log.Printf("[manual_ingest] upsert %s failed: %v", h.UniqueID(), err)
				continue
			}
			upserted++
		}
		log.Printf("Loaded %s: %d/%d hops upserted", *file, upserted, len(snap.Profiles))
		return
	}

	registry, err := ingest.LoadRegistry("")
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	log.Printf("Starting manual ingestion for source: %s", *sourceID)
	stats, err := ingest.NewPipeline(pool, registry).IngestSource(ctx, *sourceID)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
	log.Printf("Ingestion finished for %s. Found: %d, Upserted: %d, Errors: %d", *sourceID, stats.Found, stats.Upserted, stats.Errors)
}
