package hops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brewlab/hop-finder/internal/models"
)

// AromaState is the three-way constraint a query can place on one aroma
// category.
type AromaState int

const (
	AromaUnset AromaState = iota
	AromaProminent            // category must appear in the hop's top 3
	AromaSubtle               // category must appear in the hop's bottom 3
)

// RangeFilter is an optional [Min,Max] constraint on one numeric parameter.
type RangeFilter struct {
	Enabled bool    `json:"enabled"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

func (r RangeFilter) matches(v float64) bool {
	if !r.Enabled {
		return true
	}
	return v >= r.Min && v <= r.Max
}

// FilterQuery is one composite catalog query. All active constraints
// combine with AND. A zero FilterQuery matches the whole catalog.
//
// Cohumulone note: an average of 0 means "no vendor data", but range
// filtering deliberately does not special-case it: a [0,max] cohumulone
// range retains unknown hops. Treating unknowns differently is a product
// decision, not an engine one.
type FilterQuery struct {
	Aromas     map[models.AromaCategory]AromaState `json:"aromas,omitempty"`
	Alpha      RangeFilter                         `json:"alpha"`
	Cohumulone RangeFilter                         `json:"cohumulone"`
	Oil        RangeFilter                         `json:"oil"`
}

// NewFilterQuery returns an empty query matching everything.
func NewFilterQuery() FilterQuery {
	return FilterQuery{Aromas: make(map[models.AromaCategory]AromaState)}
}

// SetAroma places a constraint on one category. Unknown categories are a
// caller programming error and are rejected here, before the engine runs.
func (q *FilterQuery) SetAroma(cat models.AromaCategory, state AromaState) error {
	if !models.ValidAromaCategory(cat) {
		return fmt.Errorf("unknown aroma category %q", cat)
	}
	if q.Aromas == nil {
		q.Aromas = make(map[models.AromaCategory]AromaState)
	}
	q.Aromas[cat] = state
	return nil
}

// Validate rejects queries referencing categories outside the fixed
// vocabulary. FilterAndSort assumes a validated query.
func (q FilterQuery) Validate() error {
	for cat := range q.Aromas {
		if !models.ValidAromaCategory(cat) {
			return fmt.Errorf("unknown aroma category %q", cat)
		}
	}
	return nil
}

// prominent returns the categories constrained to AromaProminent in
// canonical order, so sums and counts are deterministic.
func (q FilterQuery) prominent() []models.AromaCategory {
	return q.selected(AromaProminent)
}

func (q FilterQuery) subtle() []models.AromaCategory {
	return q.selected(AromaSubtle)
}

func (q FilterQuery) selected(state AromaState) []models.AromaCategory {
	var out []models.AromaCategory
	for _, cat := range models.AromaCategories {
		if q.Aromas[cat] == state {
			out = append(out, cat)
		}
	}
	return out
}

// HasAromaConstraints reports whether any aroma category is constrained.
func (q FilterQuery) HasAromaConstraints() bool {
	for _, state := range q.Aromas {
		if state != AromaUnset {
			return true
		}
	}
	return false
}

// rankCount is how deep the prominent/subtle rankings look.
const rankCount = 3

// Adaptive comparator tuning. A normalized prominent-sum gap of 1.5+ (or a
// subtle gap of 1.0+) decides the order outright; below that a weighted
// composite score is used, inverting subtle sums against an 8-point scale.
const (
	significantHighGap = 1.5
	significantLowGap  = 1.0
	favoredWeight      = 1.5
	unfavoredWeight    = 0.8
	maxAromaScale      = 8.0
	compositeEpsilon   = 0.1
	sumEpsilon         = 0.01
)

// FilterAndSort applies the query to the catalog and returns a fresh,
// deterministically ordered result. The catalog itself is never mutated;
// each call recomputes from scratch. Callers must Validate the query first.
func FilterAndSort(catalog []models.HopProfile, query FilterQuery) []models.HopProfile {
	high := query.prominent()
	low := query.subtle()
	aromaActive := len(high) > 0 || len(low) > 0

	filtered := make([]models.HopProfile, 0, len(catalog))
	for _, hop := range catalog {
		if aromaActive && !matchesAromaConstraints(hop, high, low) {
			continue
		}
		if !query.Alpha.matches(hop.AvgAlpha) {
			continue
		}
		if !query.Cohumulone.matches(hop.AvgCohumulone) {
			continue
		}
		if !query.Oil.matches(hop.AvgOil) {
			continue
		}
		filtered = append(filtered, hop)
	}

	if !aromaActive {
		sort.SliceStable(filtered, func(i, j int) bool {
			return compareNames(filtered[i], filtered[j]) < 0
		})
		return filtered
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return compareByAromas(filtered[i], filtered[j], high, low) < 0
	})
	return filtered
}

func matchesAromaConstraints(hop models.HopProfile, high, low []models.AromaCategory) bool {
	if len(high) > 0 {
		top := categorySet(TopAromas(hop, rankCount))
		for _, cat := range high {
			if !top[cat] {
				return false
			}
		}
	}
	if len(low) > 0 {
		bottom := categorySet(BottomAromas(hop, rankCount))
		for _, cat := range low {
			if !bottom[cat] {
				return false
			}
		}
	}
	return true
}

func categorySet(ranked []RankedAroma) map[models.AromaCategory]bool {
	set := make(map[models.AromaCategory]bool, len(ranked))
	for _, a := range ranked {
		set[a.Category] = true
	}
	return set
}

func aromaSum(hop models.HopProfile, cats []models.AromaCategory) float64 {
	var sum float64
	for _, cat := range cats {
		sum += hop.Aromas[cat]
	}
	return sum
}

// compareByAromas orders two hops under active aroma constraints. Hops with
// no aroma data at all always sink to the end; the rest are ordered by
// prominent sums (descending), subtle sums (ascending), or, when both
// constraint kinds are active, the adaptive weighted comparator. The final
// name/uniqueId fallback guarantees a total order.
func compareByAromas(a, b models.HopProfile, high, low []models.AromaCategory) int {
	aAllZero := HasAllZeroAromas(a)
	bAllZero := HasAllZeroAromas(b)
	if aAllZero && !bAllZero {
		return 1
	}
	if !aAllZero && bAllZero {
		return -1
	}
	if aAllZero && bAllZero {
		return compareNames(a, b)
	}

	sumHighA := aromaSum(a, high)
	sumHighB := aromaSum(b, high)
	sumLowA := aromaSum(a, low)
	sumLowB := aromaSum(b, low)

	if len(high) > 0 && len(low) == 0 {
		if diff := sumHighB - sumHighA; diff > sumEpsilon || diff < -sumEpsilon {
			return sign(diff)
		}
		return compareNames(a, b)
	}

	if len(low) > 0 && len(high) == 0 {
		if diff := sumLowA - sumLowB; diff > sumEpsilon || diff < -sumEpsilon {
			return sign(diff)
		}
		return compareNames(a, b)
	}

	// Both prominent and subtle constraints are active.
	normHighA := sumHighA / float64(len(high))
	normHighB := sumHighB / float64(len(high))
	normLowA := sumLowA / float64(len(low))
	normLowB := sumLowB / float64(len(low))

	highGap := abs(normHighB - normHighA)
	lowGap := abs(normLowB - normLowA)

	if highGap >= significantHighGap {
		return sign(sumHighB - sumHighA)
	}
	if lowGap >= significantLowGap {
		return sign(sumLowA - sumLowB)
	}

	highWeight, lowWeight := 1.0, 1.0
	if lowGap > highGap {
		lowWeight, highWeight = favoredWeight, unfavoredWeight
	} else if highGap > lowGap {
		highWeight, lowWeight = favoredWeight, unfavoredWeight
	}

	scoreA := highWeight*normHighA + lowWeight*(maxAromaScale-normLowA)
	scoreB := highWeight*normHighB + lowWeight*(maxAromaScale-normLowB)
	if abs(scoreB-scoreA) > compositeEpsilon {
		return sign(scoreB - scoreA)
	}

	if diff := sumHighB - sumHighA; abs(diff) > sumEpsilon {
		return sign(diff)
	}
	if diff := sumLowA - sumLowB; abs(diff) > sumEpsilon {
		return sign(diff)
	}

	return compareNames(a, b)
}

// compareNames is the case-sensitive alphabetical fallback. Names repeat
// across vendors, so uniqueId is the terminal tie-break.
func compareNames(a, b models.HopProfile) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.UniqueID(), b.UniqueID())
}

func sign(v float64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
