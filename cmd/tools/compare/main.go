package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/brewlab/hop-finder/internal/catalog"
	"github.com/brewlab/hop-finder/internal/db"
	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Renders a side-by-side comparison table for up to five hops, named by
// their "Name (Source)" IDs. Profiles come from a catalog file (-catalog)
// or from the database.
func main() {
	catalogFile := flag.String("catalog", "", "Catalog JSON file; omit to read from the database")
	flag.Parse()

	ids := flag.Args()
	if len(ids) == 0 || len(ids) > 5 {
		fmt.Println("Usage: compare [-catalog hops.json] \"Citra (YCH)\" [\"Saaz (BarthHaas)\" ...] (1-5 hops)")
		os.Exit(1)
	}

	profiles, err := loadProfiles(context.Background(), *catalogFile, ids)
	if err != nil {
		log.Fatal(err)
	}

	render(profiles)
}

func loadProfiles(ctx context.Context, catalogFile string, ids []string) ([]models.HopProfile, error) {
	if catalogFile != "" {
		snap, err := catalog.LoadFile(catalogFile)
		if err != nil {
			return nil, err
		}
		var profiles []models.HopProfile
		for _, id := range ids {
			h, ok := snap.Get(id)
			if !ok {
				return nil, fmt.Errorf("hop %q not in catalog", id)
			}
			profiles = append(profiles, h)
		}
		return profiles, nil
	}

	pool, err := db.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	var profiles []models.HopProfile
	for _, id := range ids {
		name, source, ok := splitID(id)
		if !ok {
			return nil, fmt.Errorf("invalid hop ID %q, expected \"Name (Source)\"", id)
		}
		h, err := store.GetHop(ctx, name, source)
		if err != nil {
			return nil, fmt.Errorf("hop %q: %w", id, err)
		}
		profiles = append(profiles, *h)
	}
	return profiles, nil
}

func render(profiles []models.HopProfile) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{""}
	for _, h := range profiles {
		header = append(header, h.UniqueID())
	}
	t.AppendHeader(header)

	t.AppendRow(row("Country", profiles, func(h models.HopProfile) string { return h.Country }))
	t.AppendRow(row("Purpose", profiles, func(h models.HopProfile) string { return hops.Classify(h).Purpose.Label }))
	t.AppendSeparator()
	t.AppendRow(row("Alpha", profiles, func(h models.HopProfile) string { return hops.FormatRange(h.AlphaFrom, h.AlphaTo, "%") }))
	t.AppendRow(row("Beta", profiles, func(h models.HopProfile) string { return hops.FormatRange(h.BetaFrom, h.BetaTo, "%") }))
	t.AppendRow(row("Total oil", profiles, func(h models.HopProfile) string { return hops.FormatRange(h.OilFrom, h.OilTo, " mL/100g") }))
	t.AppendRow(row("Cohumulone", profiles, func(h models.HopProfile) string { return hops.FormatRange(h.CohumuloneFrom, h.CohumuloneTo, "%") }))
	t.AppendRow(row("Bitterness", profiles, func(h models.HopProfile) string { return hops.Classify(h).CohumuloneClass.Label }))
	t.AppendRow(row("Beta:alpha", profiles, func(h models.HopProfile) string { return hops.Classify(h).BetaAlphaClass.Label }))
	t.AppendSeparator()
	t.AppendRow(row("Top aromas", profiles, topAromas))
	t.Render()
}

func row(label string, profiles []models.HopProfile, value func(models.HopProfile) string) table.Row {
	r := table.Row{label}
	for _, h := range profiles {
		r = append(r, value(h))
	}
	return r
}

func topAromas(h models.HopProfile) string {
	ranked := hops.TopAromas(h, 3)
	if len(ranked) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ranked))
	for _, a := range ranked {
		parts = append(parts, fmt.Sprintf("%s (%.0f)", a.Category, a.Intensity))
	}
	return strings.Join(parts, ", ")
}

func splitID(id string) (name, source string, ok bool) {
	if !strings.HasSuffix(id, ")") {
		return "", "", false
	}
	open := strings.Index(id, " (")
	if open <= 0 {
		return "", "", false
	}
	return id[:open], id[open+2 : len(id)-1], true
}
