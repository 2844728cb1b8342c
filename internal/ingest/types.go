package ingest

import (
	"context"
	"io"
	"time"

	"github.com/brewlab/hop-finder/internal/hops"
)

// FetchedDocument represents the raw result of a fetch operation.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
	Headers     map[string][]string
}

// Fetcher retrieves raw content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

// Scraper extracts raw hop records from one vendor's catalog page or feed.
// Records come out in the vendor's own vocabulary; the normalizer folds
// them into the canonical profile shape afterwards.
type Scraper interface {
	// Source is the label stamped on every record (e.g. "BarthHaas").
	Source() string
	Parse(ctx context.Context, doc *FetchedDocument) ([]hops.RawHopRecord, error)
}
