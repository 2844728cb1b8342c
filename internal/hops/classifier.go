package hops

import "github.com/brewlab/hop-finder/internal/models"

// Brewing science thresholds. These are fixed constants, not runtime
// configuration: the classification taxonomy is part of the contract.
const (
	AlphaSuperAlpha = 11.0 // %
	AlphaHigh       = 8.0
	AlphaMedium     = 5.0
	AlphaLow        = 3.0
	AlphaVeryLow    = 3.0

	OilVeryHigh = 2.5 // mL/100g
	OilHigh     = 1.5
	OilMedium   = 0.8
	OilLow      = 0.4

	CohumuloneHigh = 34.0 // % of alpha
	CohumuloneLow  = 25.0

	BetaAlphaStable         = 0.8
	BetaAlphaAgingPotential = 0.9
)

// ClassifyPurpose derives the bittering/aroma taxonomy from average alpha
// and oil. Rules are evaluated in this exact order; in particular an alpha
// of 11+ is Super-Alpha even though it also satisfies the Bittering rule.
func ClassifyPurpose(avgAlpha, avgOil float64) models.Classification {
	switch {
	case avgAlpha >= AlphaSuperAlpha:
		return models.Classification{Label: "Super-Alpha", ColorTag: "red", Description: "Maximum bittering efficiency"}
	case avgAlpha <= AlphaVeryLow && avgOil <= OilLow:
		return models.Classification{Label: "Noble/Aroma", ColorTag: "teal", Description: "Traditional European character"}
	case avgAlpha <= AlphaMedium && avgOil >= OilHigh:
		return models.Classification{Label: "Modern Aroma", ColorTag: "cyan", Description: "Contemporary aromatics"}
	case avgAlpha >= AlphaHigh && avgOil < OilHigh:
		return models.Classification{Label: "Bittering", ColorTag: "orange", Description: "Efficient bittering"}
	default:
		return models.Classification{Label: "Dual-Purpose", ColorTag: "violet", Description: "Versatile applications"}
	}
}

// ClassifyAlpha maps average alpha to its single-axis band.
func ClassifyAlpha(avgAlpha float64) models.Classification {
	switch {
	case avgAlpha >= AlphaSuperAlpha:
		return models.Classification{Label: "Super-Alpha", ColorTag: "red", Description: "Maximum bittering efficiency"}
	case avgAlpha >= AlphaHigh:
		return models.Classification{Label: "High Alpha", ColorTag: "orange", Description: "Efficient bittering"}
	case avgAlpha >= AlphaMedium:
		return models.Classification{Label: "Medium Alpha", ColorTag: "yellow", Description: "Balanced bittering"}
	case avgAlpha >= AlphaLow:
		return models.Classification{Label: "Low Alpha", ColorTag: "green", Description: "Aroma-focused"}
	default:
		return models.Classification{Label: "Noble/Very Low", ColorTag: "teal", Description: "Traditional aroma"}
	}
}

// ClassifyOil maps average total oil to its single-axis band.
func ClassifyOil(avgOil float64) models.Classification {
	switch {
	case avgOil >= OilVeryHigh:
		return models.Classification{Label: "Very High", ColorTag: "blue", Description: "Exceptional aroma potential"}
	case avgOil >= OilHigh:
		return models.Classification{Label: "High", ColorTag: "cyan", Description: "Strong aroma character"}
	case avgOil >= OilMedium:
		return models.Classification{Label: "Medium", ColorTag: "grape", Description: "Moderate aroma"}
	default:
		return models.Classification{Label: "Low", ColorTag: "gray", Description: "Subtle aroma"}
	}
}

// ClassifyCohumulone maps average cohumulone to an IBU-yield category.
// Zero means the vendor published no cohumulone data, not a true low value.
func ClassifyCohumulone(avgCohumulone float64) models.Classification {
	switch {
	case avgCohumulone == 0:
		return models.Classification{Label: "Unknown", ColorTag: "gray", Description: "Data not available"}
	case avgCohumulone > CohumuloneHigh:
		return models.Classification{Label: "High Yield", ColorTag: "yellow", Description: "+15-25% more IBUs than predicted"}
	case avgCohumulone < CohumuloneLow:
		return models.Classification{Label: "Low Yield", ColorTag: "blue", Description: "May yield fewer IBUs"}
	default:
		return models.Classification{Label: "Standard", ColorTag: "green", Description: "Standard IBU prediction"}
	}
}

// ClassifyBetaAlphaRatio maps the beta:alpha ratio to a storage-stability
// category.
func ClassifyBetaAlphaRatio(ratio float64) models.Classification {
	switch {
	case ratio >= BetaAlphaAgingPotential:
		return models.Classification{Label: "Aging+", ColorTag: "orange", Description: "May develop pleasant aged character"}
	case ratio >= BetaAlphaStable:
		return models.Classification{Label: "Stable", ColorTag: "blue", Description: "Good bitterness stability"}
	case ratio < 0.5:
		return models.Classification{Label: "Rapid Loss", ColorTag: "red", Description: "Rapid alpha degradation"}
	default:
		return models.Classification{Label: "Standard", ColorTag: "gray", Description: "Normal degradation rate"}
	}
}

// Classify bundles the three independent classification axes for a profile.
func Classify(h models.HopProfile) models.HopClassification {
	return models.HopClassification{
		Purpose:         ClassifyPurpose(h.AvgAlpha, h.AvgOil),
		CohumuloneClass: ClassifyCohumulone(h.AvgCohumulone),
		BetaAlphaClass:  ClassifyBetaAlphaRatio(h.BetaAlphaRatio),
	}
}
