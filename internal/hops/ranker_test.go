package hops

import (
	"testing"

	"github.com/brewlab/hop-finder/internal/models"
)

// testHop builds a profile with the given aroma intensities; unnamed
// categories default to zero like normalization guarantees.
func testHop(name, source string, aromas map[models.AromaCategory]float64) models.HopProfile {
	h := models.HopProfile{
		Name:   name,
		Source: source,
		Aromas: make(map[models.AromaCategory]float64, len(models.AromaCategories)),
	}
	for _, cat := range models.AromaCategories {
		h.Aromas[cat] = aromas[cat]
	}
	return h
}

func categories(ranked []RankedAroma) []models.AromaCategory {
	out := make([]models.AromaCategory, len(ranked))
	for i, a := range ranked {
		out[i] = a.Category
	}
	return out
}

func TestTopAromasTieInclusive(t *testing.T) {
	hop := testHop("Citra", "YCH", map[models.AromaCategory]float64{
		models.AromaCitrus:        5,
		models.AromaTropicalFruit: 5,
		models.AromaStoneFruit:    5,
		models.AromaFloral:        3,
	})

	top := TopAromas(hop, 3)
	if len(top) != 3 {
		t.Fatalf("expected exactly the 3 tied categories, got %d: %v", len(top), categories(top))
	}
	for _, a := range top {
		if a.Intensity != 5 {
			t.Errorf("unexpected entry %v at intensity %v", a.Category, a.Intensity)
		}
	}
}

func TestTopAromasTieExceedsN(t *testing.T) {
	hop := testHop("Mosaic", "YCH", map[models.AromaCategory]float64{
		models.AromaCitrus:        5,
		models.AromaTropicalFruit: 5,
		models.AromaStoneFruit:    5,
		models.AromaBerry:         5,
	})

	top := TopAromas(hop, 3)
	if len(top) != 4 {
		t.Fatalf("expected all 4 tied categories, got %d", len(top))
	}
}

func TestTopAromasExcludesZero(t *testing.T) {
	hop := testHop("Saaz", "Hopsteiner", map[models.AromaCategory]float64{
		models.AromaSpice:  4,
		models.AromaHerbal: 3,
	})

	top := TopAromas(hop, 3)
	if len(top) != 2 {
		t.Fatalf("expected only the 2 nonzero categories, got %d: %v", len(top), categories(top))
	}
}

func TestBottomAromasIncludesZero(t *testing.T) {
	hop := testHop("Citra", "YCH", map[models.AromaCategory]float64{
		models.AromaCitrus:        5,
		models.AromaTropicalFruit: 4,
	})

	// Seven categories sit at zero; the tie-inclusive cut keeps them all.
	bottom := BottomAromas(hop, 3)
	if len(bottom) != 7 {
		t.Fatalf("expected 7 zero-intensity categories, got %d", len(bottom))
	}
	for _, a := range bottom {
		if a.Intensity != 0 {
			t.Errorf("unexpected nonzero entry %v=%v in bottom set", a.Category, a.Intensity)
		}
	}
}

func TestBottomAromasAscendingCut(t *testing.T) {
	aromas := map[models.AromaCategory]float64{}
	for i, cat := range models.AromaCategories {
		aromas[cat] = float64(i + 1) // 1..9, no ties
	}
	hop := testHop("Test", "X", aromas)

	bottom := BottomAromas(hop, 3)
	if len(bottom) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(bottom))
	}
	for i, a := range bottom {
		if a.Intensity != float64(i+1) {
			t.Errorf("entry %d has intensity %v, want %d", i, a.Intensity, i+1)
		}
	}
}

func TestRankersDeterministic(t *testing.T) {
	hop := testHop("Citra", "YCH", map[models.AromaCategory]float64{
		models.AromaCitrus:        5,
		models.AromaTropicalFruit: 5,
		models.AromaSpice:         1,
	})

	first := categories(TopAromas(hop, 3))
	for i := 0; i < 10; i++ {
		again := categories(TopAromas(hop, 3))
		if len(again) != len(first) {
			t.Fatal("TopAromas length varies across calls")
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("TopAromas order varies across calls: %v vs %v", first, again)
			}
		}
	}
}

func TestHasAllZeroAromas(t *testing.T) {
	zero := testHop("Mystery", "X", nil)
	if !HasAllZeroAromas(zero) {
		t.Error("expected all-zero profile to be flagged")
	}
	nonzero := testHop("Citra", "YCH", map[models.AromaCategory]float64{models.AromaCitrus: 1})
	if HasAllZeroAromas(nonzero) {
		t.Error("expected nonzero profile not to be flagged")
	}
}
