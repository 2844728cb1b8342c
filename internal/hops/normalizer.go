package hops

import (
	"strings"

	"github.com/brewlab/hop-finder/internal/models"
)

// RawHopRecord is one untrusted catalog entry as decoded from hops.json.
// Fields may be numbers or strings with embedded units, keys may be
// snake_case or hyphenated, and aroma keys are free-form vendor labels.
// Nothing of this shape propagates past FromRaw.
type RawHopRecord map[string]any

// aromaAliases folds case-insensitive vendor aroma labels into the fixed
// category vocabulary. It is the union of the per-vendor tables (Yakima
// Chief, BarthHaas, Hopsteiner) plus common free-text descriptors.
var aromaAliases = map[string]models.AromaCategory{
	// Citrus
	"citrus":  models.AromaCitrus,
	"citrusy": models.AromaCitrus,
	"lemon":   models.AromaCitrus,
	"lime":    models.AromaCitrus,
	"orange":  models.AromaCitrus,

	// Resin/Pine
	"resin/pine": models.AromaResinPine,
	"resin":      models.AromaResinPine,
	"resinous":   models.AromaResinPine,
	"pine":       models.AromaResinPine,
	"piney":      models.AromaResinPine,
	"woody":      models.AromaResinPine,
	"cedar":      models.AromaResinPine,
	"dank":       models.AromaResinPine,

	// Spice
	"spice":  models.AromaSpice,
	"spicy":  models.AromaSpice,
	"pepper": models.AromaSpice,

	// Herbal
	"herbal":     models.AromaHerbal,
	"herbaceous": models.AromaHerbal,
	"earthy":     models.AromaHerbal,
	"menthol":    models.AromaHerbal,
	"tea":        models.AromaHerbal,

	// Grassy
	"grassy":  models.AromaGrassy,
	"green":   models.AromaGrassy,
	"vegetal": models.AromaGrassy,
	"hay":     models.AromaGrassy,

	// Floral
	"floral":         models.AromaFloral,
	"flowery":        models.AromaFloral,
	"sweet aromatic": models.AromaFloral,
	"creamcaramel":   models.AromaFloral,

	// Berry
	"berry":      models.AromaBerry,
	"berries":    models.AromaBerry,
	"redberries": models.AromaBerry,

	// Stone Fruit
	"stone fruit": models.AromaStoneFruit,
	"stonefruit":  models.AromaStoneFruit,
	"pomme":       models.AromaStoneFruit,
	"sweetfruits": models.AromaStoneFruit,
	"greenfruits": models.AromaStoneFruit,
	"fruity":      models.AromaStoneFruit,
	"peach":       models.AromaStoneFruit,
	"apricot":     models.AromaStoneFruit,

	// Tropical Fruit
	"tropical fruit": models.AromaTropicalFruit,
	"tropical":       models.AromaTropicalFruit,
	"melon":          models.AromaTropicalFruit,
	"mango":          models.AromaTropicalFruit,
	"pineapple":      models.AromaTropicalFruit,
	"coconut":        models.AromaTropicalFruit,
}

// FoldAromaCategory resolves a raw vendor aroma label to its canonical
// category. The second return is false when no alias matches.
func FoldAromaCategory(raw string) (models.AromaCategory, bool) {
	cat, ok := aromaAliases[strings.ToLower(strings.TrimSpace(raw))]
	return cat, ok
}

// field looks up a raw value under its snake_case key, falling back to the
// hyphenated variant. Snake_case wins when both are present.
func (r RawHopRecord) field(snake string) any {
	if v, ok := r[snake]; ok {
		return v
	}
	if v, ok := r[strings.ReplaceAll(snake, "_", "-")]; ok {
		return v
	}
	return nil
}

func (r RawHopRecord) stringField(key string) string {
	if v, ok := r.field(key).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// rangeFields reads a from/to pair, defaulting a missing "to" to "from" so
// single-value records become degenerate ranges.
func (r RawHopRecord) rangeFields(prefix string) (float64, float64) {
	from := ParseValue(r.field(prefix + "_from"))
	toRaw := r.field(prefix + "_to")
	if toRaw == nil {
		return from, from
	}
	return from, ParseValue(toRaw)
}

// FromRaw maps one raw catalog record into a canonical HopProfile. It is a
// pure function: alias resolution, type coercion and all derived values
// happen here, once. The second return is false for records with a blank
// name, which are not valid catalog entries.
func FromRaw(raw RawHopRecord) (models.HopProfile, bool) {
	name := raw.stringField("name")
	if name == "" {
		return models.HopProfile{}, false
	}

	h := models.HopProfile{
		Name:    name,
		Source:  raw.stringField("source"),
		Country: raw.stringField("country"),
		Href:    raw.stringField("href"),
		Aromas:  make(map[models.AromaCategory]float64, len(models.AromaCategories)),
	}

	h.AlphaFrom, h.AlphaTo = raw.rangeFields("alpha")
	h.BetaFrom, h.BetaTo = raw.rangeFields("beta")
	h.OilFrom, h.OilTo = raw.rangeFields("oil")
	h.CohumuloneFrom, h.CohumuloneTo = raw.rangeFields("co_h")

	// Notes arrive as []any from JSON and []string from scrapers.
	switch notes := raw.field("notes").(type) {
	case []any:
		for _, n := range notes {
			if s, ok := n.(string); ok && strings.TrimSpace(s) != "" {
				h.Notes = append(h.Notes, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range notes {
			if strings.TrimSpace(s) != "" {
				h.Notes = append(h.Notes, strings.TrimSpace(s))
			}
		}
	}

	// Every category is present, defaulting to 0. Duplicate aliases mapping
	// to the same category keep the maximum intensity seen.
	for _, cat := range models.AromaCategories {
		h.Aromas[cat] = 0
	}
	foldAroma := func(rawKey string, rawIntensity any) {
		cat, ok := FoldAromaCategory(rawKey)
		if !ok {
			return
		}
		intensity := ParseValue(rawIntensity)
		if intensity > h.Aromas[cat] {
			h.Aromas[cat] = intensity
		}
	}
	switch aromas := raw.field("aromas").(type) {
	case map[string]any:
		for rawKey, rawIntensity := range aromas {
			foldAroma(rawKey, rawIntensity)
		}
	case map[string]float64:
		for rawKey, rawIntensity := range aromas {
			foldAroma(rawKey, rawIntensity)
		}
	}

	h.AvgAlpha = AverageValue(h.AlphaFrom, h.AlphaTo)
	h.AvgBeta = AverageValue(h.BetaFrom, h.BetaTo)
	h.AvgOil = AverageValue(h.OilFrom, h.OilTo)
	h.AvgCohumulone = AverageValue(h.CohumuloneFrom, h.CohumuloneTo)
	if h.AvgAlpha > 0 {
		h.BetaAlphaRatio = h.AvgBeta / h.AvgAlpha
	}

	return h, true
}

// NormalizeCatalog converts a loaded raw catalog into canonical profiles,
// dropping records with blank names.
func NormalizeCatalog(rawRecords []RawHopRecord) []models.HopProfile {
	profiles := make([]models.HopProfile, 0, len(rawRecords))
	for _, raw := range rawRecords {
		if h, ok := FromRaw(raw); ok {
			profiles = append(profiles, h)
		}
	}
	return profiles
}
