package ingest

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func docFromString(body string) *FetchedDocument {
	return &FetchedDocument{
		URL:        "http://example.test/catalog",
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
		FetchedAt:  time.Now(),
	}
}

const yakimaListingHTML = `
<ul>
  <li class="item product product-item">
    <a class="hop" href="https://www.yakimachief.com/citra"></a>
    <a href="https://www.yakimachief.com/media/citra-data-sheet.pdf">Data sheet</a>
    <table class="product-properties">
      <tr><td>Alpha:</td><td>11.0 - 13.0%</td></tr>
      <tr><td>Beta:</td><td>3.0 - 4.5%</td></tr>
      <tr><td>Total Oil:</td><td>2.2 mL/100g</td></tr>
      <tr><td>Harvest:</td><td>September</td></tr>
    </table>
    <div class="product-item-details-wrapper">
      <a href="/citra">Citra</a>
      <p class="product-sight">Grapefruit, Lime, Tropical</p>
    </div>
  </li>
  <li class="item product product-item">
    <div class="product-item-details-wrapper"><a>  </a></div>
  </li>
</ul>`

func TestYakimaScraperParse(t *testing.T) {
	scraper := &YakimaScraper{}
	records, err := scraper.Parse(context.Background(), docFromString(yakimaListingHTML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record (nameless tile skipped), got %d", len(records))
	}

	r := records[0]
	if r["name"] != "Citra" || r["source"] != "Yakima Chief Hops" {
		t.Errorf("identity = %v / %v", r["name"], r["source"])
	}
	if r["alpha_from"] != "11.0" || r["alpha_to"] != "13.0%" {
		t.Errorf("alpha range = %v - %v", r["alpha_from"], r["alpha_to"])
	}
	// Single oil value becomes a degenerate range.
	if r["oil_from"] != "2.2 mL/100g" || r["oil_to"] != "2.2 mL/100g" {
		t.Errorf("oil range = %v - %v", r["oil_from"], r["oil_to"])
	}
	if r["href"] != "https://www.yakimachief.com/citra" {
		t.Errorf("href = %v", r["href"])
	}
	if r["spec_sheet"] != "https://www.yakimachief.com/media/citra-data-sheet.pdf" {
		t.Errorf("spec_sheet = %v", r["spec_sheet"])
	}
	notes, ok := r["notes"].([]string)
	if !ok || len(notes) != 3 || notes[0] != "Grapefruit" {
		t.Errorf("notes = %v", r["notes"])
	}
	if _, ok := r["aromas"]; ok {
		t.Error("listing carries no intensities, aromas should be absent")
	}
}

func TestYakimaScraperEmptyPage(t *testing.T) {
	scraper := &YakimaScraper{}
	if _, err := scraper.Parse(context.Background(), docFromString("<html><body></body></html>")); err == nil {
		t.Fatal("expected error for page with no product tiles")
	}
}

const barthhaasOverviewHTML = `
<div class="col-12 col-lg-4 section-card-item"
     data-name="Hallertau Tradition"
     data-country="Germany"
     data-alpha-from="4.5" data-alpha-to="7.0"
     data-beta-from="3.5" data-beta-to="5.5"
     data-oil-from="0.7" data-oil-to="1.3"
     data-filter-values='{"rawFlowery": 4, "rawSpicy": 3, "rawGreenfruits": 2, "rawCitrus": 0}'>
  <a class="section-card-link" href="/varieties/hallertau-tradition"></a>
  <ul class="section-card-text__tastes">
    <li>floral</li>
    <li>grassy</li>
  </ul>
</div>
<div class="section-card-item"><span>no data-name attribute</span></div>`

func TestBarthHaasScraperParse(t *testing.T) {
	scraper := &BarthHaasScraper{}
	records, err := scraper.Parse(context.Background(), docFromString(barthhaasOverviewHTML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r["name"] != "Hallertau Tradition" || r["country"] != "Germany" {
		t.Errorf("identity = %v / %v", r["name"], r["country"])
	}
	if r["alpha_from"] != "4.5" || r["oil_to"] != "1.3" {
		t.Errorf("ranges = alpha_from %v, oil_to %v", r["alpha_from"], r["oil_to"])
	}
	if r["href"] != "https://www.barthhaas.com/varieties/hallertau-tradition" {
		t.Errorf("href = %v", r["href"])
	}

	aromas, ok := r["aromas"].(map[string]any)
	if !ok {
		t.Fatalf("aromas missing: %v", r["aromas"])
	}
	// "raw" prefix stripped from the filter value keys.
	if aromas["Flowery"] != float64(4) || aromas["Greenfruits"] != float64(2) {
		t.Errorf("aromas = %v", aromas)
	}
}

const hopsteinerFeedJSON = `{
  "hops": [
    {
      "name": "Herkules",
      "main_country": "Germany",
      "permalink": "herkules",
      "acid_alpha": "13.0 - 17.0",
      "acid_beta": "4.0 - 5.5",
      "cohumulone": "31 - 38",
      "oils": "1.4 - 2.4",
      "aroma_spec": "pepper, spicy, resinous, orange",
      "aromas": {"1": 3, "2": 2, "3": 3, "4": 3, "5": 2, "6": 1, "7": 1}
    },
    {
      "name": "Polaris",
      "main_country": "Germany",
      "permalink": "polaris",
      "acid_alpha": "19.0",
      "acid_beta": "4.5",
      "cohumulone": "26",
      "oils": "4.5"
    },
    {"name": "  "}
  ]
}`

func TestHopsteinerScraperParse(t *testing.T) {
	scraper := &HopsteinerScraper{}
	records, err := scraper.Parse(context.Background(), docFromString(hopsteinerFeedJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (blank name skipped), got %d", len(records))
	}

	herkules := records[0]
	if herkules["alpha_from"] != "13.0" || herkules["alpha_to"] != "17.0" {
		t.Errorf("alpha range = %v - %v", herkules["alpha_from"], herkules["alpha_to"])
	}
	if herkules["co_h_from"] != "31" || herkules["co_h_to"] != "38" {
		t.Errorf("cohumulone range = %v - %v", herkules["co_h_from"], herkules["co_h_to"])
	}
	if herkules["href"] != "https://www.hopsteiner.com/variety-data-sheets/herkules" {
		t.Errorf("href = %v", herkules["href"])
	}

	aromas, ok := herkules["aromas"].(map[string]any)
	if !ok {
		t.Fatalf("aromas missing")
	}
	// Numbered slots resolve to labels; slot 7 keeps its label here and is
	// dropped later by alias folding.
	if aromas["Resinous"] != float64(2) || aromas["citrusy"] != float64(3) {
		t.Errorf("aromas = %v", aromas)
	}

	notes, ok := herkules["notes"].([]string)
	if !ok || len(notes) != 4 || notes[0] != "pepper" {
		t.Errorf("notes = %v", herkules["notes"])
	}

	polaris := records[1]
	if polaris["alpha_from"] != "19.0" || polaris["alpha_to"] != "19.0" {
		t.Errorf("single alpha should become degenerate range, got %v - %v", polaris["alpha_from"], polaris["alpha_to"])
	}
	if _, ok := polaris["aromas"]; ok {
		t.Error("entry without aroma slots should have no aromas key")
	}
}

func TestHopsteinerScraperRejectsMalformedFeed(t *testing.T) {
	scraper := &HopsteinerScraper{}
	if _, err := scraper.Parse(context.Background(), docFromString("<html>not json</html>")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := scraper.Parse(context.Background(), docFromString(`{"hops": []}`)); err == nil {
		t.Fatal("expected error for empty feed")
	}
}

func TestSplitRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to string
	}{
		{"11.0 - 13.0%", "11.0", "13.0%"},
		{"2.2 mL/100g", "2.2 mL/100g", "2.2 mL/100g"},
		{"31 - 38", "31", "38"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to := splitRange(tt.in)
			if from != tt.from || to != tt.to {
				t.Errorf("splitRange(%q) = (%q, %q), want (%q, %q)", tt.in, from, to, tt.from, tt.to)
			}
		})
	}
}
