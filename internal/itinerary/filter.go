// =============================================================================
// Itinerary Processor - Row Filter
// =============================================================================
//
// The row filter decides which grid rows are usable data rows. It guards
// against stray repeated header rows inside the data region (for example
// pasted multi-sheet exports) without requiring a strict schema.
//
// A ROW IS KEPT WHEN ALL OF:
//   1. day, city and description cells are non-empty after coercion
//   2. the trimmed, lower-cased day cell is not "day"
//   3. the trimmed, lower-cased city cell is not "city"
//
// Rejected rows are dropped and reported as diagnostics. They are never
// errors.
//
// =============================================================================

package itinerary

import (
	"strings"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
)

// HeaderRows is the number of leading rows skipped before data: a title row
// and a column-header row.
const HeaderRows = 2

// Column positions in a raw itinerary row.
const (
	ColDay = iota
	ColCity
	ColDate
	ColTiming
	ColCategory
	ColDescription
)

// IndexedRow is a data row together with its index in the input grid.
type IndexedRow struct {
	Index int
	Row   grid.Row
}

// FilterRows returns the rows after skip that pass the data-row predicate,
// plus one diagnostic for every row that did not.
func FilterRows(g grid.Grid, skip int) ([]IndexedRow, []Diagnostic) {
	if skip < 0 {
		skip = 0
	}

	var kept []IndexedRow
	var diags []Diagnostic

	for i := skip; i < len(g); i++ {
		row := g[i]
		if reason, detail, ok := checkRow(row); !ok {
			diags = append(diags, Diagnostic{Row: i, Reason: reason, Detail: detail})
			continue
		}
		kept = append(kept, IndexedRow{Index: i, Row: row})
	}

	return kept, diags
}

// checkRow applies the predicate and names the first failed condition.
func checkRow(row grid.Row) (Reason, string, bool) {
	day := row.At(ColDay).String()
	city := row.At(ColCity).String()
	description := row.At(ColDescription).String()

	switch {
	case day == "":
		return ReasonMissingDay, "day cell is empty", false
	case city == "":
		return ReasonMissingCity, "city cell is empty", false
	case description == "":
		return ReasonMissingDescription, "description cell is empty", false
	case isSentinel(day, "day"):
		return ReasonHeaderRow, "repeated header row (day column)", false
	case isSentinel(city, "city"):
		return ReasonHeaderRow, "repeated header row (city column)", false
	}

	return "", "", true
}

// isSentinel compares a cell against a header label, ignoring case and
// surrounding whitespace.
func isSentinel(value, label string) bool {
	return strings.ToLower(strings.TrimSpace(value)) == label
}
