package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/brewlab/hop-finder/internal/db"
	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestStats summarizes one vendor scrape.
type IngestStats struct {
	Found    int `json:"found"`
	Upserted int `json:"upserted"`
	Errors   int `json:"errors"`
}

type Pipeline struct {
	DB       *pgxpool.Pool
	Store    *db.Store
	Registry *Registry
}

func NewPipeline(pool *pgxpool.Pool, registry *Registry) *Pipeline {
	return &Pipeline{
		DB:       pool,
		Store:    db.NewStore(pool),
		Registry: registry,
	}
}

// scraperFor maps a registry strategy name to its scraper.
func scraperFor(strategy string) (Scraper, error) {
	switch strategy {
	case "yakima_html":
		return &YakimaScraper{}, nil
	case "barthhaas_html":
		return &BarthHaasScraper{}, nil
	case "hopsteiner_api":
		return &HopsteinerScraper{}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// fetcherFor picks the fetcher for a source. Storefront catalogs go
// through Colly for its robots.txt handling and domain delays.
func fetcherFor(cfg FetchConfig) Fetcher {
	if cfg.UseColly {
		return CollyFetcherWithConfig(cfg)
	}
	return NewHTTPFetcherWithConfig(cfg)
}

// IngestSource scrapes one vendor source and upserts every hop it yields.
// The run is recorded in ingest_runs regardless of outcome.
func (p *Pipeline) IngestSource(ctx context.Context, sourceID string) (IngestStats, error) {
	stats := IngestStats{}

	config := p.Registry.Find(sourceID)
	if config == nil {
		return stats, fmt.Errorf("source id %q not found in registry", sourceID)
	}
	if !config.Active {
		return stats, fmt.Errorf("source %q is inactive", sourceID)
	}

	scraper, err := scraperFor(config.Strategy)
	if err != nil {
		return stats, fmt.Errorf("source %q: %w", sourceID, err)
	}

	runID, runErr := p.Store.StartIngestRun(ctx, scraper.Source())
	if runErr != nil {
		log.Printf("[Warn] Failed to create ingest run: %v", runErr)
	}

	var finalErr error
	defer func() {
		if runID == "" {
			return
		}
		status := "completed"
		if finalErr != nil {
			status = "failed"
		} else if stats.Errors > 0 && stats.Upserted == 0 {
			status = "failed"
		}
		if err := p.Store.FinishIngestRun(ctx, runID, status, stats.Found, stats.Upserted, finalErr); err != nil {
			log.Printf("Failed to update ingest run %s: %v", runID, err)
		}
	}()

	log.Printf("Starting ingestion for source: %s (%s)", config.Name, config.ID)

	doc, err := fetcherFor(config.Fetch).Fetch(ctx, config.URL)
	if err != nil {
		finalErr = fmt.Errorf("fetch error: %w", err)
		return stats, finalErr
	}

	records, err := scraper.Parse(ctx, doc)
	if err != nil {
		finalErr = fmt.Errorf("parse error: %w", err)
		return stats, finalErr
	}
	stats.Found = len(records)

	// Data sheet PDFs are fetched over plain HTTP even for Colly-backed
	// sources; the collector is tuned for HTML listings.
	sheetFetcher := NewHTTPFetcherWithConfig(config.Fetch)

	for _, record := range records {
		enrichFromSpecSheet(ctx, sheetFetcher, record)
		profile, ok := hops.FromRaw(record)
		if !ok {
			continue
		}
		cleanProfile(&profile)
		if err := p.Store.UpsertHop(ctx, profile); err != nil {
			log.Printf("Failed to save %q: %v", profile.UniqueID(), err)
			stats.Errors++
			continue
		}
		stats.Upserted++
	}

	log.Printf("Ingestion complete: %d/%d saved from %s", stats.Upserted, stats.Found, config.Name)
	return stats, nil
}

// IngestAll scrapes every active source in the registry. A failing source
// does not stop the others.
func (p *Pipeline) IngestAll(ctx context.Context) (map[string]IngestStats, error) {
	results := make(map[string]IngestStats)
	for _, src := range p.Registry.Sources {
		if !src.Active {
			continue
		}
		stats, err := p.IngestSource(ctx, src.ID)
		if err != nil {
			log.Printf("Error ingesting source %q: %v", src.ID, err)
			stats.Errors++
		}
		results[src.ID] = stats
	}
	return results, nil
}

// cleanProfile scrubs scraped text fields before anything hits the store.
func cleanProfile(h *models.HopProfile) {
	h.Name = sanitizeText(h.Name)
	h.Country = sanitizeText(h.Country)
	h.Notes = sanitizeNotes(h.Notes)
}
