// =============================================================================
// Itinerary Processor - Assembler
// =============================================================================
//
// Process is the single entry point that turns a cell grid into an
// ItineraryData aggregate.
//
// PROCESSING PIPELINE:
//   1. Read the trip title from grid[0][1] (default "Travel Itinerary")
//   2. Filter data rows, skipping the title and column-header rows
//   3. Group rows into days, detecting meals inline
//   4. Record diagnostics for skipped rows and unusable timings
//
// Process performs no I/O and no persistence. Callers save the result.
// All state is allocated per call, so concurrent calls need no locking.
//
// =============================================================================

package itinerary

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
	"github.com/ginjaninja78/itinerary-processor/internal/logging"
)

// errNoGrid is the structural failure for a missing grid.
var errNoGrid = errors.New("no grid supplied")

// Result is the outcome of one processing call.
type Result struct {
	// Itinerary is the assembled aggregate.
	Itinerary *ItineraryData

	// Diagnostics lists dropped rows and ignored timings in grid order.
	Diagnostics []Diagnostic

	// RowsRead is the number of rows after the header rows.
	RowsRead int

	// RowsKept is the number of rows that became items.
	RowsKept int
}

// Process assembles an itinerary from a grid.
//
// RETURNS:
//   - The Result holding the aggregate and its diagnostics.
//   - A *ProcessingError only when g is nil. An empty grid is valid and
//     produces an itinerary with no days.
func Process(g grid.Grid) (*Result, error) {
	if g == nil {
		return nil, &ProcessingError{Op: "process", Err: errNoGrid}
	}

	rows, diags := FilterRows(g, HeaderRows)

	it := &ItineraryData{
		Title: titleOf(g),
		Days:  GroupDays(rows),
	}

	diags = append(diags, timingDiagnostics(rows)...)
	sortDiagnostics(diags)

	rowsRead := len(g) - HeaderRows
	if rowsRead < 0 {
		rowsRead = 0
	}

	return &Result{
		Itinerary:   it,
		Diagnostics: diags,
		RowsRead:    rowsRead,
		RowsKept:    len(rows),
	}, nil
}

// ProcessWithLogger runs Process and reports the diagnostics as one warning.
func ProcessWithLogger(g grid.Grid, logger logging.Logger) (*Result, error) {
	res, err := Process(g)
	if err != nil {
		return nil, err
	}

	if len(res.Diagnostics) > 0 {
		logger.Warn("%s", FormatDiagnostics(res.Diagnostics))
	}
	logger.Debug("Assembled %d day(s) from %d of %d row(s)", len(res.Itinerary.Days), res.RowsKept, res.RowsRead)

	return res, nil
}

// titleOf reads the trip title from the second cell of the title row.
func titleOf(g grid.Grid) string {
	if len(g) == 0 {
		return DefaultTitle
	}
	if title := g[0].At(1).String(); title != "" {
		return title
	}
	return DefaultTitle
}

// timingDiagnostics flags item timings that the duration calculator will
// skip. Blank timings are common for untimed entries and still reported,
// since they do not contribute to the day's duration.
func timingDiagnostics(rows []IndexedRow) []Diagnostic {
	var diags []Diagnostic
	for _, r := range rows {
		item := itemFromRow(r.Row)
		if _, err := ParseTiming(item.Timing); err != nil {
			diags = append(diags, Diagnostic{
				Row:    r.Index,
				Reason: ReasonInvalidTiming,
				Detail: fmt.Sprintf("%v; excluded from day %q duration", err, r.Row.At(ColDay).String()),
			})
		}
	}
	return diags
}

// sortDiagnostics orders diagnostics by grid row, keeping the original order
// for entries on the same row.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Row < diags[j].Row
	})
}
