package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brewlab/hop-finder/internal/hops"
)

// YakimaScraper parses the Yakima Chief Hops commercial variety listing.
// Each product tile carries a small brewing-value table and a one-line
// aroma descriptor paragraph.
type YakimaScraper struct{}

func (s *YakimaScraper) Source() string { return "Yakima Chief Hops" }

// propertyPrefixes maps the labels seen in the brewing-value tables to the
// canonical range field prefixes. Labels vary between "Alpha" and "Alpha
// Acids" depending on the product template.
var propertyPrefixes = map[string]string{
	"alpha":       "alpha",
	"alpha acid":  "alpha",
	"alpha acids": "alpha",
	"beta":        "beta",
	"beta acid":   "beta",
	"beta acids":  "beta",
	"total oil":   "oil",
	"oil":         "oil",
	"cohumulone":  "co_h",
	"co-humulone": "co_h",
}

func (s *YakimaScraper) Parse(ctx context.Context, doc *FetchedDocument) ([]hops.RawHopRecord, error) {
	defer doc.Body.Close()

	page, err := goquery.NewDocumentFromReader(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	var records []hops.RawHopRecord
	page.Find("li.item.product.product-item").Each(func(_ int, item *goquery.Selection) {
		details := item.Find("div.product-item-details-wrapper")
		name := strings.TrimSpace(details.Find("a").First().Text())
		if name == "" {
			return
		}

		record := hops.RawHopRecord{
			"name":    name,
			"source":  s.Source(),
			"country": "USA",
		}

		if href, ok := item.Find("a.hop").First().Attr("href"); ok {
			record["href"] = href
		}
		// Some tiles link the printable variety data sheet; the pipeline
		// uses it to backfill ranges the tile table leaves out.
		if sheet, ok := item.Find(`a[href$=".pdf"]`).First().Attr("href"); ok {
			record["spec_sheet"] = sheet
		}

		item.Find("table.product-properties tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			label := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(cells.Eq(0).Text()), ":"))
			prefix, ok := propertyPrefixes[label]
			if !ok {
				return
			}
			from, to := splitRange(cells.Eq(1).Text())
			record[prefix+"_from"] = from
			record[prefix+"_to"] = to
		})

		// The "sight" line is a comma-separated aroma descriptor list.
		// Yakima publishes no per-category intensities, so descriptors
		// land in notes and the aroma vector stays zero.
		if sight := strings.TrimSpace(details.Find("p.product-sight").First().Text()); sight != "" {
			var notes []string
			for _, term := range strings.Split(sight, ",") {
				if term = strings.TrimSpace(term); term != "" {
					notes = append(notes, term)
				}
			}
			if len(notes) > 0 {
				record["notes"] = notes
			}
		}

		records = append(records, record)
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("no product tiles found at %s", doc.URL)
	}
	return records, nil
}

// splitRange turns "11.5 - 13.5%" or "2.2 mL/100g" into a from/to pair.
// A single value becomes a degenerate range.
func splitRange(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "-"); idx >= 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:])
	}
	return raw, raw
}
