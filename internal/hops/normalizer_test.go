package hops

import (
	"reflect"
	"testing"

	"github.com/brewlab/hop-finder/internal/models"
)

func TestFromRaw(t *testing.T) {
	raw := RawHopRecord{
		"name":       "Citra",
		"source":     "YCH",
		"country":    "USA",
		"alpha_from": 11.0,
		"alpha_to":   13.0,
		"beta_from":  3.0,
		"beta_to":    4.0,
		"oil_from":   "2.2 mL/100g",
		"notes":      []any{"grapefruit", "lime"},
		"aromas": map[string]any{
			"Citrus":   5.0,
			"Tropical": 4.0,
			"Spicy":    1.0,
		},
	}

	h, ok := FromRaw(raw)
	if !ok {
		t.Fatal("expected record to be accepted")
	}

	if h.UniqueID() != "Citra (YCH)" {
		t.Errorf("unexpected uniqueId %q", h.UniqueID())
	}
	if h.AvgAlpha != 12 {
		t.Errorf("avgAlpha = %v, want 12", h.AvgAlpha)
	}
	// Missing oil_to defaults to oil_from, so the average is the single value.
	if h.AvgOil != 2.2 {
		t.Errorf("avgOil = %v, want 2.2", h.AvgOil)
	}
	if h.AvgBeta != 3.5 {
		t.Errorf("avgBeta = %v, want 3.5", h.AvgBeta)
	}
	if got := h.BetaAlphaRatio; got != 3.5/12 {
		t.Errorf("betaAlphaRatio = %v, want %v", got, 3.5/12)
	}

	if len(h.Aromas) != len(models.AromaCategories) {
		t.Fatalf("expected all %d categories present, got %d", len(models.AromaCategories), len(h.Aromas))
	}
	if h.Aromas[models.AromaCitrus] != 5 {
		t.Errorf("Citrus = %v, want 5", h.Aromas[models.AromaCitrus])
	}
	if h.Aromas[models.AromaTropicalFruit] != 4 {
		t.Errorf("Tropical Fruit = %v, want 4 (via 'Tropical' alias)", h.Aromas[models.AromaTropicalFruit])
	}
	if h.Aromas[models.AromaSpice] != 1 {
		t.Errorf("Spice = %v, want 1 (via 'Spicy' alias)", h.Aromas[models.AromaSpice])
	}
	if h.Aromas[models.AromaBerry] != 0 {
		t.Errorf("Berry = %v, want 0 default", h.Aromas[models.AromaBerry])
	}
}

func TestFromRawHyphenatedKeys(t *testing.T) {
	raw := RawHopRecord{
		"name":       "Saaz",
		"source":     "Hopsteiner",
		"alpha-from": 3.0,
		"alpha-to":   4.5,
	}
	h, ok := FromRaw(raw)
	if !ok {
		t.Fatal("expected record to be accepted")
	}
	if h.AvgAlpha != 3.75 {
		t.Errorf("avgAlpha = %v, want 3.75", h.AvgAlpha)
	}
}

func TestFromRawSnakeCaseWinsOverHyphenated(t *testing.T) {
	raw := RawHopRecord{
		"name":       "Perle",
		"source":     "BarthHaas",
		"alpha_from": 6.0,
		"alpha-from": 99.0,
		"alpha_to":   8.0,
	}
	h, _ := FromRaw(raw)
	if h.AlphaFrom != 6 {
		t.Errorf("alphaFrom = %v, want snake_case value 6", h.AlphaFrom)
	}
}

func TestFromRawDuplicateAliasesKeepMax(t *testing.T) {
	raw := RawHopRecord{
		"name":   "Simcoe",
		"source": "YCH",
		"aromas": map[string]any{
			"pine":  2.0,
			"piney": 4.0,
			"resin": 1.0,
		},
	}
	h, _ := FromRaw(raw)
	if h.Aromas[models.AromaResinPine] != 4 {
		t.Errorf("Resin/Pine = %v, want max 4 across aliases", h.Aromas[models.AromaResinPine])
	}
}

func TestNormalizeCatalogDropsBlankNames(t *testing.T) {
	catalog := NormalizeCatalog([]RawHopRecord{
		{"name": "Citra", "source": "YCH"},
		{"name": "", "source": "YCH"},
		{"name": "   ", "source": "YCH"},
		{"source": "YCH"},
		{"name": "Mosaic", "source": "YCH"},
	})
	if len(catalog) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(catalog))
	}
	if catalog[0].Name != "Citra" || catalog[1].Name != "Mosaic" {
		t.Errorf("unexpected catalog contents: %v, %v", catalog[0].Name, catalog[1].Name)
	}
}

func TestNormalizeCatalogIdempotent(t *testing.T) {
	raw := []RawHopRecord{
		{
			"name": "Citra", "source": "YCH",
			"alpha_from": "11", "alpha_to": "13",
			"aromas": map[string]any{"Citrus": 5.0, "mango": 3.0},
		},
		{"name": "Saaz", "source": "Hopsteiner", "alpha_from": 3.0},
	}

	first := NormalizeCatalog(raw)
	second := NormalizeCatalog(raw)
	if !reflect.DeepEqual(first, second) {
		t.Error("NormalizeCatalog is not deterministic for identical input")
	}
}

func TestFoldAromaCategory(t *testing.T) {
	tests := []struct {
		raw      string
		expected models.AromaCategory
		ok       bool
	}{
		{"Citrus", models.AromaCitrus, true},
		{"citrusy", models.AromaCitrus, true},
		{"PINE", models.AromaResinPine, true},
		{" woody ", models.AromaResinPine, true},
		{"Sweet Aromatic", models.AromaFloral, true},
		{"Melon", models.AromaTropicalFruit, true},
		{"petrichor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cat, ok := FoldAromaCategory(tt.raw)
			if ok != tt.ok || (ok && cat != tt.expected) {
				t.Errorf("FoldAromaCategory(%q) = (%v, %v), want (%v, %v)", tt.raw, cat, ok, tt.expected, tt.ok)
			}
		})
	}
}
