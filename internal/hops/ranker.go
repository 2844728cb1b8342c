package hops

import (
	"sort"

	"github.com/brewlab/hop-finder/internal/models"
)

// RankedAroma is one entry of a top/bottom aroma ranking.
type RankedAroma struct {
	Category  models.AromaCategory `json:"category"`
	Intensity float64              `json:"intensity"`
}

// sortedAromas returns the profile's aromas ordered by intensity. Ties are
// broken by canonical category order so repeated calls yield identical
// output (map iteration alone would not).
func sortedAromas(h models.HopProfile, descending bool) []RankedAroma {
	ranked := make([]RankedAroma, 0, len(models.AromaCategories))
	for _, cat := range models.AromaCategories {
		ranked = append(ranked, RankedAroma{Category: cat, Intensity: h.Aromas[cat]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if descending {
			return ranked[i].Intensity > ranked[j].Intensity
		}
		return ranked[i].Intensity < ranked[j].Intensity
	})
	return ranked
}

// TopAromas returns the hop's n most intense aroma categories, excluding
// zero intensities. The cut is tie-inclusive: every category matching the
// intensity at rank n is included, so the result can be longer than n.
func TopAromas(h models.HopProfile, n int) []RankedAroma {
	ranked := sortedAromas(h, true)

	nonZero := ranked[:0:0]
	for _, a := range ranked {
		if a.Intensity > 0 {
			nonZero = append(nonZero, a)
		}
	}
	if len(nonZero) <= n {
		return nonZero
	}

	cutoff := nonZero[n-1].Intensity
	out := nonZero[:0:0]
	for _, a := range nonZero {
		if a.Intensity >= cutoff {
			out = append(out, a)
		}
	}
	return out
}

// BottomAromas returns the hop's n least intense aroma categories with the
// same tie-inclusive cut as TopAromas, but ascending and including zero
// intensities: a hop with many unrated aromas has several zero entries in
// its bottom set.
func BottomAromas(h models.HopProfile, n int) []RankedAroma {
	ranked := sortedAromas(h, false)
	if len(ranked) <= n {
		return ranked
	}

	cutoff := ranked[n-1].Intensity
	out := ranked[:0:0]
	for _, a := range ranked {
		if a.Intensity <= cutoff {
			out = append(out, a)
		}
	}
	return out
}

// HasAllZeroAromas reports whether every aroma intensity is exactly zero,
// i.e. the vendor published no aroma profile at all.
func HasAllZeroAromas(h models.HopProfile) bool {
	for _, intensity := range h.Aromas {
		if intensity != 0 {
			return false
		}
	}
	return true
}
