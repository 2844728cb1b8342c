package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brewlab/hop-finder/internal/hops"
)

// BarthHaasScraper parses the BarthHaas variety overview. The overview
// renders one card per variety with the brewing values in data attributes
// and the aroma wheel intensities in a JSON-encoded data-filter-values
// attribute whose keys are prefixed with "raw".
type BarthHaasScraper struct{}

func (s *BarthHaasScraper) Source() string { return "BarthHaas" }

func (s *BarthHaasScraper) Parse(ctx context.Context, doc *FetchedDocument) ([]hops.RawHopRecord, error) {
	defer doc.Body.Close()

	page, err := goquery.NewDocumentFromReader(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overview: %w", err)
	}

	var records []hops.RawHopRecord
	page.Find("div.section-card-item").Each(func(_ int, card *goquery.Selection) {
		name, ok := card.Attr("data-name")
		if !ok || strings.TrimSpace(name) == "" {
			return
		}

		record := hops.RawHopRecord{
			"name":   strings.TrimSpace(name),
			"source": s.Source(),
		}

		if country, ok := card.Attr("data-country"); ok {
			record["country"] = country
		}
		if href, ok := card.Find("a.section-card-link").First().Attr("href"); ok {
			record["href"] = "https://www.barthhaas.com/" + strings.TrimPrefix(href, "/")
		}

		for attr, key := range map[string]string{
			"data-alpha-from": "alpha_from",
			"data-alpha-to":   "alpha_to",
			"data-beta-from":  "beta_from",
			"data-beta-to":    "beta_to",
			"data-oil-from":   "oil_from",
			"data-oil-to":     "oil_to",
		} {
			if v, ok := card.Attr(attr); ok {
				record[key] = v
			}
		}

		if filterValues, ok := card.Attr("data-filter-values"); ok {
			var rawAromas map[string]any
			if err := json.Unmarshal([]byte(filterValues), &rawAromas); err == nil {
				aromas := make(map[string]any, len(rawAromas))
				for key, value := range rawAromas {
					aromas[strings.TrimPrefix(key, "raw")] = value
				}
				record["aromas"] = aromas
			}
		}

		var notes []string
		card.Find("li").Each(func(_ int, note *goquery.Selection) {
			if text := strings.TrimSpace(note.Text()); text != "" {
				notes = append(notes, text)
			}
		})
		if len(notes) > 0 {
			record["notes"] = notes
		}

		records = append(records, record)
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("no variety cards found at %s", doc.URL)
	}
	return records, nil
}
