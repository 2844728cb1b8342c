package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brewlab/hop-finder/internal/hops"
)

// HopsteinerScraper parses the Hopsteiner variety feed. Values come as
// "low - high" strings and the aroma wheel uses numbered slots.
type HopsteinerScraper struct{}

func (s *HopsteinerScraper) Source() string { return "Hopsteiner" }

// hopsteinerAromaSlots names the numbered aroma wheel positions in the
// feed. Slot 7 ("sugar like") and 8 ("other") have no canonical category
// and fold to nothing.
var hopsteinerAromaSlots = map[string]string{
	"1": "Fruity",
	"2": "Floral",
	"3": "citrusy",
	"4": "Spicy",
	"5": "Resinous",
	"6": "Herbal",
	"7": "sugar like",
	"8": "Other",
}

type hopsteinerFeed struct {
	Hops []hopsteinerEntry `json:"hops"`
}

type hopsteinerEntry struct {
	Name        string             `json:"name"`
	MainCountry string             `json:"main_country"`
	Permalink   string             `json:"permalink"`
	AcidAlpha   string             `json:"acid_alpha"`
	AcidBeta    string             `json:"acid_beta"`
	Cohumulone  string             `json:"cohumulone"`
	Oils        string             `json:"oils"`
	AromaSpec   string             `json:"aroma_spec"`
	Aromas      map[string]float64 `json:"aromas"`
}

func (s *HopsteinerScraper) Parse(ctx context.Context, doc *FetchedDocument) ([]hops.RawHopRecord, error) {
	defer doc.Body.Close()

	var feed hopsteinerFeed
	if err := json.NewDecoder(doc.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode variety feed: %w", err)
	}
	if len(feed.Hops) == 0 {
		return nil, fmt.Errorf("empty variety feed at %s", doc.URL)
	}

	records := make([]hops.RawHopRecord, 0, len(feed.Hops))
	for _, entry := range feed.Hops {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}

		record := hops.RawHopRecord{
			"name":    strings.TrimSpace(entry.Name),
			"source":  s.Source(),
			"country": entry.MainCountry,
			"href":    "https://www.hopsteiner.com/variety-data-sheets/" + entry.Permalink,
		}

		for prefix, raw := range map[string]string{
			"alpha": entry.AcidAlpha,
			"beta":  entry.AcidBeta,
			"co_h":  entry.Cohumulone,
			"oil":   entry.Oils,
		} {
			from, to := splitRange(raw)
			record[prefix+"_from"] = from
			record[prefix+"_to"] = to
		}

		if len(entry.Aromas) > 0 {
			aromas := make(map[string]any, len(entry.Aromas))
			for slot, intensity := range entry.Aromas {
				label, ok := hopsteinerAromaSlots[slot]
				if !ok {
					continue
				}
				aromas[label] = intensity
			}
			record["aromas"] = aromas
		}

		if spec := strings.TrimSpace(entry.AromaSpec); spec != "" {
			var notes []string
			for _, term := range strings.Split(spec, ",") {
				if term = strings.TrimSpace(term); term != "" {
					notes = append(notes, term)
				}
			}
			if len(notes) > 0 {
				record["notes"] = notes
			}
		}

		records = append(records, record)
	}

	return records, nil
}
