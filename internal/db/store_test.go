package db

import (
	"strings"
	"testing"

	"github.com/brewlab/hop-finder/internal/models"
)

func TestAvgExpr(t *testing.T) {
	expr := avgExpr("alpha")
	for _, want := range []string{"alpha_from", "alpha_to", "CASE WHEN"} {
		if !strings.Contains(expr, want) {
			t.Errorf("avgExpr missing %q: %s", want, expr)
		}
	}
}

func TestScanHopDerivesAverages(t *testing.T) {
	// Feed scanHop through a fake scan that mimics a row with a one-sided
	// oil range and a stored aroma map.
	fakeScan := func(dest ...interface{}) error {
		*(dest[0].(*string)) = "Citra"
		*(dest[1].(*string)) = "YCH"
		country := "USA"
		*(dest[2].(**string)) = &country
		*(dest[3].(**string)) = nil
		*(dest[4].(*float64)) = 11 // alpha_from
		*(dest[5].(*float64)) = 13 // alpha_to
		*(dest[6].(*float64)) = 3  // beta_from
		*(dest[7].(*float64)) = 4  // beta_to
		*(dest[8].(*float64)) = 2.2 // oil_from
		*(dest[9].(*float64)) = 0   // oil_to missing
		*(dest[10].(*float64)) = 0
		*(dest[11].(*float64)) = 0
		*(dest[12].(*[]string)) = []string{"grapefruit"}
		*(dest[13].(*[]byte)) = []byte(`{"Citrus": 5, "Tropical Fruit": 4, "Bogus": 9}`)
		return nil
	}

	h, err := scanHop(fakeScan)
	if err != nil {
		t.Fatalf("scanHop failed: %v", err)
	}

	if h.UniqueID() != "Citra (YCH)" {
		t.Errorf("uniqueId = %q", h.UniqueID())
	}
	if h.AvgAlpha != 12 {
		t.Errorf("AvgAlpha = %v, want 12", h.AvgAlpha)
	}
	if h.AvgOil != 2.2 {
		t.Errorf("AvgOil = %v, want 2.2 from one-sided range", h.AvgOil)
	}
	if h.BetaAlphaRatio == 0 {
		t.Error("BetaAlphaRatio not derived")
	}
	if h.Aromas[models.AromaCitrus] != 5 {
		t.Errorf("Citrus = %v, want 5", h.Aromas[models.AromaCitrus])
	}
	if len(h.Aromas) != len(models.AromaCategories) {
		t.Errorf("aroma map has %d entries, want all %d categories (unknown keys dropped)",
			len(h.Aromas), len(models.AromaCategories))
	}
	if h.Aromas[models.AromaGrassy] != 0 {
		t.Error("missing category not zero-filled")
	}
}

func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("empty string should map to nil")
	}
	if v := nullIfEmpty("USA"); v == nil || *v != "USA" {
		t.Error("non-empty string should round-trip")
	}
}
