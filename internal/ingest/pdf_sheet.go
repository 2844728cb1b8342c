package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/brewlab/hop-finder/internal/hops"
	rpdf "rsc.io/pdf"
)

// maxSpecSheetBytes caps how much of a data sheet download is read.
const maxSpecSheetBytes = 10 << 20

// Variety data sheets publish the brewing values as labelled ranges, e.g.
// "Alpha Acids 11.5 - 13.5 %" or "Total Oil: 2.2 mL/100g". Labels differ
// per vendor template, so each field gets a small alternation.
var specSheetPatterns = map[string]*regexp.Regexp{
	"alpha": regexp.MustCompile(`(?i)alpha\s*acids?\s*[:\s]\s*([\d.]+)\s*(?:-|–|to)?\s*([\d.]+)?\s*%`),
	"beta":  regexp.MustCompile(`(?i)beta\s*acids?\s*[:\s]\s*([\d.]+)\s*(?:-|–|to)?\s*([\d.]+)?\s*%`),
	"oil":   regexp.MustCompile(`(?i)total\s*oil[s]?\s*[:\s]\s*([\d.]+)\s*(?:-|–|to)?\s*([\d.]+)?\s*(?:m[lL]/100\s*g)?`),
	"co_h":  regexp.MustCompile(`(?i)co[-\s]?humulone\s*[:\s]\s*([\d.]+)\s*(?:-|–|to)?\s*([\d.]+)?\s*%`),
}

// extractPDFText pulls the plain text out of a PDF. The parser panics on
// malformed files, so failures are converted to errors.
func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// parseSpecSheetRanges scans data sheet text for brewing value ranges and
// returns them keyed by field prefix. A single published value becomes a
// degenerate range.
func parseSpecSheetRanges(text string) map[string][2]string {
	ranges := make(map[string][2]string)
	for prefix, pattern := range specSheetPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		from := match[1]
		to := match[2]
		if to == "" {
			to = from
		}
		ranges[prefix] = [2]string{from, to}
	}
	return ranges
}

// specSheetURL returns the variety data sheet link a record carries: an
// explicit spec_sheet field, or an href pointing straight at a PDF.
func specSheetURL(record hops.RawHopRecord) string {
	if u, ok := record["spec_sheet"].(string); ok && u != "" {
		return u
	}
	if u, ok := record["href"].(string); ok && strings.HasSuffix(strings.ToLower(u), ".pdf") {
		return u
	}
	return ""
}

// needsSpecSheet reports whether any brewing range is still missing after
// the listing page parse.
func needsSpecSheet(record hops.RawHopRecord) bool {
	for _, prefix := range []string{"alpha", "beta", "oil", "co_h"} {
		if hops.ParseValue(record[prefix+"_from"]) == 0 && hops.ParseValue(record[prefix+"_to"]) == 0 {
			return true
		}
	}
	return false
}

// backfillRanges merges parsed sheet ranges into a record. Values already
// present win; the listing page is the primary source and the sheet only
// backfills.
func backfillRanges(record hops.RawHopRecord, text string) {
	for prefix, pair := range parseSpecSheetRanges(text) {
		fromKey := prefix + "_from"
		toKey := prefix + "_to"
		if hops.ParseValue(record[fromKey]) > 0 || hops.ParseValue(record[toKey]) > 0 {
			continue
		}
		record[fromKey] = pair[0]
		record[toKey] = pair[1]
	}
}

// EnrichFromSpecSheet fills a record's missing brewing ranges from a
// variety data sheet PDF.
func EnrichFromSpecSheet(record hops.RawHopRecord, pdfContent []byte) error {
	text, err := extractPDFText(pdfContent)
	if err != nil {
		return fmt.Errorf("failed to read data sheet: %w", err)
	}
	backfillRanges(record, text)
	return nil
}

// enrichFromSpecSheet fetches a record's linked data sheet and backfills
// missing ranges. Best effort: sheet problems are logged and never fail the
// run, the listing data stands on its own.
func enrichFromSpecSheet(ctx context.Context, fetcher Fetcher, record hops.RawHopRecord) {
	sheetURL := specSheetURL(record)
	if sheetURL == "" || !needsSpecSheet(record) {
		return
	}

	doc, err := fetcher.Fetch(ctx, sheetURL)
	if err != nil {
		log.Printf("Failed to fetch data sheet %s: %v", sheetURL, err)
		return
	}
	defer doc.Body.Close()

	content, err := io.ReadAll(io.LimitReader(doc.Body, maxSpecSheetBytes))
	if err != nil {
		log.Printf("Failed to read data sheet %s: %v", sheetURL, err)
		return
	}
	if err := EnrichFromSpecSheet(record, content); err != nil {
		log.Printf("Failed to parse data sheet %s: %v", sheetURL, err)
	}
}
