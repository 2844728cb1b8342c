package ingest

import (
	"testing"

	"github.com/brewlab/hop-finder/internal/hops"
)

const specSheetText = `
HOP VARIETY DATA SHEET
Alpha Acids: 11.5 - 13.5 %
Beta Acids: 3.5 - 4.5 %
Co-Humulone: 22 - 24 %
Total Oil: 2.2 - 2.8 mL/100 g
Harvest window: early September
`

func TestParseSpecSheetRanges(t *testing.T) {
	ranges := parseSpecSheetRanges(specSheetText)

	tests := []struct {
		prefix   string
		from, to string
	}{
		{"alpha", "11.5", "13.5"},
		{"beta", "3.5", "4.5"},
		{"co_h", "22", "24"},
		{"oil", "2.2", "2.8"},
	}
	for _, tt := range tests {
		pair, ok := ranges[tt.prefix]
		if !ok {
			t.Errorf("%s range not found", tt.prefix)
			continue
		}
		if pair[0] != tt.from || pair[1] != tt.to {
			t.Errorf("%s = %v, want [%s %s]", tt.prefix, pair, tt.from, tt.to)
		}
	}
}

func TestParseSpecSheetSingleValue(t *testing.T) {
	ranges := parseSpecSheetRanges("Alpha Acids: 12.0 %")
	pair, ok := ranges["alpha"]
	if !ok {
		t.Fatal("alpha range not found")
	}
	if pair[0] != "12.0" || pair[1] != "12.0" {
		t.Errorf("single value should be degenerate range, got %v", pair)
	}
}

func TestSpecSheetDoesNotOverrideListing(t *testing.T) {
	record := hops.RawHopRecord{"alpha_from": "11.0", "alpha_to": "13.0"}
	backfillRanges(record, specSheetText)

	if record["alpha_from"] != "11.0" {
		t.Errorf("listing value overwritten: %v", record["alpha_from"])
	}
	if record["oil_from"] != "2.2" || record["oil_to"] != "2.8" {
		t.Errorf("missing value not backfilled: %v - %v", record["oil_from"], record["oil_to"])
	}
	if record["co_h_from"] != "22" {
		t.Errorf("missing value not backfilled: %v", record["co_h_from"])
	}
}

func TestSpecSheetURL(t *testing.T) {
	tests := []struct {
		name   string
		record hops.RawHopRecord
		want   string
	}{
		{"explicit field", hops.RawHopRecord{"spec_sheet": "https://example.com/citra.pdf"}, "https://example.com/citra.pdf"},
		{"pdf href", hops.RawHopRecord{"href": "https://example.com/sheets/Citra.PDF"}, "https://example.com/sheets/Citra.PDF"},
		{"html href is not a sheet", hops.RawHopRecord{"href": "https://example.com/hops/citra"}, ""},
		{"no links", hops.RawHopRecord{"name": "Citra"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := specSheetURL(tt.record); got != tt.want {
				t.Errorf("specSheetURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeedsSpecSheet(t *testing.T) {
	complete := hops.RawHopRecord{
		"alpha_from": "11.0", "alpha_to": "13.0",
		"beta_from": "3.5", "beta_to": "4.5",
		"oil_from": "2.2", "oil_to": "2.8",
		"co_h_from": "22", "co_h_to": "24",
	}
	if needsSpecSheet(complete) {
		t.Error("record with every range should not need a sheet")
	}

	missingOil := hops.RawHopRecord{
		"alpha_from": "11.0", "alpha_to": "13.0",
		"beta_from": "3.5", "beta_to": "4.5",
		"co_h_from": "22", "co_h_to": "24",
	}
	if !needsSpecSheet(missingOil) {
		t.Error("record without oil data should need a sheet")
	}

	oneSided := hops.RawHopRecord{
		"alpha_from": "11.0",
		"beta_from":  "3.5",
		"oil_from":   "2.2",
		"co_h_from":  "22",
	}
	if needsSpecSheet(oneSided) {
		t.Error("one-sided ranges still count as present")
	}
}
