package models

// AromaCategory is one of the nine fixed sensory descriptors every hop
// profile carries. The set is closed: raw vendor labels are folded into
// these during normalization and nothing else survives past that boundary.
type AromaCategory string

const (
	AromaCitrus        AromaCategory = "Citrus"
	AromaResinPine     AromaCategory = "Resin/Pine"
	AromaSpice         AromaCategory = "Spice"
	AromaHerbal        AromaCategory = "Herbal"
	AromaGrassy        AromaCategory = "Grassy"
	AromaFloral        AromaCategory = "Floral"
	AromaBerry         AromaCategory = "Berry"
	AromaStoneFruit    AromaCategory = "Stone Fruit"
	AromaTropicalFruit AromaCategory = "Tropical Fruit"
)

// AromaCategories lists all nine categories in canonical display order.
var AromaCategories = []AromaCategory{
	AromaCitrus,
	AromaResinPine,
	AromaSpice,
	AromaHerbal,
	AromaGrassy,
	AromaFloral,
	AromaBerry,
	AromaStoneFruit,
	AromaTropicalFruit,
}

// ValidAromaCategory reports whether c belongs to the fixed vocabulary.
func ValidAromaCategory(c AromaCategory) bool {
	for _, known := range AromaCategories {
		if c == known {
			return true
		}
	}
	return false
}

// HopProfile is the canonical, immutable representation of one hop variety.
// All numeric fields are already coerced; 0 means "unknown" for range bounds
// (see the midpoint rules in the hops package).
type HopProfile struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Country string `json:"country"`
	Href    string `json:"href,omitempty"`

	AlphaFrom      float64 `json:"alpha_from"`
	AlphaTo        float64 `json:"alpha_to"`
	BetaFrom       float64 `json:"beta_from"`
	BetaTo         float64 `json:"beta_to"`
	OilFrom        float64 `json:"oil_from"` // mL/100g
	OilTo          float64 `json:"oil_to"`
	CohumuloneFrom float64 `json:"co_h_from"` // % of alpha, 0 if unknown
	CohumuloneTo   float64 `json:"co_h_to"`

	Notes  []string                  `json:"notes,omitempty"`
	Aromas map[AromaCategory]float64 `json:"aromas"` // all 9 present, [0,5]

	// Derived values, computed once at normalization time.
	AvgAlpha       float64 `json:"avg_alpha"`
	AvgBeta        float64 `json:"avg_beta"`
	AvgOil         float64 `json:"avg_oil"`
	AvgCohumulone  float64 `json:"avg_cohumulone"`
	BetaAlphaRatio float64 `json:"beta_alpha_ratio"`
}

// UniqueID is the stable identity key for selection and filtering. Variety
// names repeat across vendors, so the source is part of the key.
func (h HopProfile) UniqueID() string {
	return h.Name + " (" + h.Source + ")"
}

// AromaVector returns the nine intensities in canonical category order,
// suitable for pgvector similarity queries.
func (h HopProfile) AromaVector() []float32 {
	vec := make([]float32, len(AromaCategories))
	for i, cat := range AromaCategories {
		vec[i] = float32(h.Aromas[cat])
	}
	return vec
}

// Classification is a derived categorical label on one classification axis.
type Classification struct {
	Label       string `json:"label"`
	ColorTag    string `json:"color"`
	Description string `json:"description"`
}

// HopClassification bundles the three independent classification axes.
type HopClassification struct {
	Purpose         Classification `json:"purpose"`
	CohumuloneClass Classification `json:"cohumulone_class"`
	BetaAlphaClass  Classification `json:"beta_alpha_class"`
}
