// =============================================================================
// Itinerary Processor - Cell Grid Types
// =============================================================================
//
// This package contains the shared cell grid types produced by the grid
// loaders and consumed by the itinerary pipeline. Keeping them here avoids
// import cycles between:
//   - csvparser
//   - xlsxparser
//   - itinerary
//
// A spreadsheet cell carries no type guarantee: it may be text, a number, a
// native date or nothing at all. Cell models that as a small sum type with an
// explicit coercion-to-string step (String) instead of relying on implicit
// conversion at every call site.
//
// =============================================================================

package grid

import (
	"strconv"
	"time"
)

// =============================================================================
// CELL KINDS
// =============================================================================

// Kind identifies which variant a Cell holds.
type Kind int

const (
	// Empty is a missing or blank cell.
	Empty Kind = iota

	// String is a text cell. The text is kept verbatim (no trimming).
	String

	// Number is a numeric cell.
	Number

	// Date is a native date/time cell (spreadsheet date formats).
	Date
)

// String returns the name of the kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// =============================================================================
// CELL
// =============================================================================

// Cell is a single raw spreadsheet value.
// The zero value is an empty cell.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Text returns a string cell. An empty string yields an empty cell, matching
// how loaders report blank fields.
func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: String, text: s}
}

// Num returns a numeric cell.
func Num(f float64) Cell {
	return Cell{kind: Number, num: f}
}

// DateValue returns a native date cell.
func DateValue(t time.Time) Cell {
	return Cell{kind: Date, date: t}
}

// Kind reports which variant the cell holds.
func (c Cell) Kind() Kind {
	return c.kind
}

// IsEmpty reports whether the cell is empty after coercion to string.
func (c Cell) IsEmpty() bool {
	return c.String() == ""
}

// Float returns the numeric value and true for Number cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != Number {
		return 0, false
	}
	return c.num, true
}

// Time returns the date value and true for Date cells.
func (c Cell) Time() (time.Time, bool) {
	if c.kind != Date {
		return time.Time{}, false
	}
	return c.date, true
}

// String coerces the cell to its string form.
//
// COERCION RULES:
//   - Empty  -> ""
//   - String -> the text, verbatim
//   - Number -> shortest decimal representation ("1", "1.5", "-3")
//   - Date   -> "2006-01-02", or "2006-01-02 15:04" when a time part is set
func (c Cell) String() string {
	switch c.kind {
	case String:
		return c.text
	case Number:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case Date:
		if c.date.Hour() == 0 && c.date.Minute() == 0 && c.date.Second() == 0 {
			return c.date.Format("2006-01-02")
		}
		return c.date.Format("2006-01-02 15:04")
	default:
		return ""
	}
}

// =============================================================================
// ROWS AND GRIDS
// =============================================================================

// Row is an ordered sequence of cells.
type Row []Cell

// At returns the cell at index i, or an empty cell when the row is too short.
// Ragged rows are normal in spreadsheet exports and are never an error.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// IsBlank reports whether every cell in the row is empty.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Grid is the rectangular-ish sequence of rows produced by a loader.
type Grid []Row

// FromStrings builds a grid of text cells. Blank strings become empty cells.
// It is mostly useful for tests and for callers holding plain string data.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		r := make(Row, len(row))
		for j, v := range row {
			r[j] = Text(v)
		}
		g[i] = r
	}
	return g
}
