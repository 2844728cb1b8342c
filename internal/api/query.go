package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/models"
	"github.com/labstack/echo/v4"
)

// parseFilterQuery builds a validated catalog query from request params.
//
//	aroma_high, aroma_low  CSV lists of aroma category names
//	alpha_min, alpha_max   alpha acid bounds (percent)
//	coh_min, coh_max       cohumulone bounds (percent of alpha)
//	oil_min, oil_max       total oil bounds (mL/100g)
//
// A range is active as soon as one of its bounds is present; the missing
// bound defaults to 0 or +Inf.
func parseFilterQuery(c echo.Context) (hops.FilterQuery, error) {
	query := hops.NewFilterQuery()

	for _, name := range splitCSV(c.QueryParam("aroma_high")) {
		if err := query.SetAroma(models.AromaCategory(name), hops.AromaProminent); err != nil {
			return query, err
		}
	}
	for _, name := range splitCSV(c.QueryParam("aroma_low")) {
		cat := models.AromaCategory(name)
		if query.Aromas[cat] == hops.AromaProminent {
			return query, fmt.Errorf("category %q cannot be both prominent and subtle", name)
		}
		if err := query.SetAroma(cat, hops.AromaSubtle); err != nil {
			return query, err
		}
	}

	var err error
	if query.Alpha, err = rangeParam(c, "alpha_min", "alpha_max"); err != nil {
		return query, err
	}
	if query.Cohumulone, err = rangeParam(c, "coh_min", "coh_max"); err != nil {
		return query, err
	}
	if query.Oil, err = rangeParam(c, "oil_min", "oil_max"); err != nil {
		return query, err
	}

	return query, nil
}

func rangeParam(c echo.Context, minKey, maxKey string) (hops.RangeFilter, error) {
	rawMin := strings.TrimSpace(c.QueryParam(minKey))
	rawMax := strings.TrimSpace(c.QueryParam(maxKey))
	if rawMin == "" && rawMax == "" {
		return hops.RangeFilter{}, nil
	}

	r := hops.RangeFilter{Enabled: true, Min: 0, Max: math.MaxFloat64}
	if rawMin != "" {
		v, err := strconv.ParseFloat(rawMin, 64)
		if err != nil || v < 0 {
			return hops.RangeFilter{}, fmt.Errorf("invalid %s %q", minKey, rawMin)
		}
		r.Min = v
	}
	if rawMax != "" {
		v, err := strconv.ParseFloat(rawMax, 64)
		if err != nil || v < 0 {
			return hops.RangeFilter{}, fmt.Errorf("invalid %s %q", maxKey, rawMax)
		}
		r.Max = v
	}
	if r.Min > r.Max {
		return hops.RangeFilter{}, fmt.Errorf("%s exceeds %s", minKey, maxKey)
	}
	return r, nil
}

func parsePagination(c echo.Context) (limit, offset int) {
	limit = 50
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

// floatParam parses an optional non-negative float query param, returning 0
// (meaning "unset") when absent or malformed.
func floatParam(c echo.Context, key string) float64 {
	if v, err := strconv.ParseFloat(c.QueryParam(key), 64); err == nil && v > 0 {
		return v
	}
	return 0
}

// splitCSV splits a comma-separated query parameter into trimmed non-empty strings.
func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// splitUniqueID splits a "Name (Source)" identifier back into its parts.
// Source names can themselves contain parentheses, hop names do not, so the
// split happens at the first " (".
func splitUniqueID(id string) (name, source string, ok bool) {
	if !strings.HasSuffix(id, ")") {
		return "", "", false
	}
	open := strings.Index(id, " (")
	if open <= 0 {
		return "", "", false
	}
	name = id[:open]
	source = id[open+2 : len(id)-1]
	if name == "" || source == "" {
		return "", "", false
	}
	return name, source, true
}
