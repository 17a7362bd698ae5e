// =============================================================================
// Itinerary Processor - XLSX Grid Loader
// =============================================================================
//
// This module reads an itinerary spreadsheet into a cell grid. Unlike CSV,
// spreadsheet cells carry type information, which is kept:
//
//   | Stored value           | Number format          | Cell kind             |
//   |------------------------|------------------------|-----------------------|
//   | (nothing)              | any                    | empty                 |
//   | text                   | any                    | string (verbatim)     |
//   | number                 | date (14-17, 22, y/d)  | date                  |
//   | number                 | general                | number                |
//   | number                 | other (time, currency) | string (as displayed) |
//
// Displayed time cells ("9:00") become strings so the duration calculator
// sees the value the traveller typed.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
)

// builtinDateFormats are the built-in number format ids that display a date.
var builtinDateFormats = map[int]bool{
	14: true, // m/d/yy
	15: true, // d-mmm-yy
	16: true, // d-mmm
	17: true, // mmm-yy
	22: true, // m/d/yy h:mm
}

// formatNoise matches quoted literals and bracketed sections ("[Red]", "[$-409]")
// that must not be read as date tokens.
var formatNoise = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one sheet of a spreadsheet file into a grid.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//   - sheet: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The grid, one row per spreadsheet row from row 1.
//   - An error if the file cannot be opened or the sheet does not exist.
func Parse(filePath string, sheet string) (grid.Grid, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// ParseReader reads one sheet of a spreadsheet from r.
func ParseReader(r io.Reader, sheet string) (grid.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX data: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// readSheet reads the displayed and the stored value of every cell and
// combines them into typed cells.
func readSheet(f *excelize.File, sheet string) (grid.Grid, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw values from sheet %q: %w", sheet, err)
	}

	r := &cellReader{f: f, sheet: sheet, dateStyles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	g := make(grid.Grid, 0, len(shown))
	for rowIdx := 0; rowIdx < len(shown) || rowIdx < len(raw); rowIdx++ {
		shownRow := at(shown, rowIdx)
		rawRow := at(raw, rowIdx)

		width := len(shownRow)
		if len(rawRow) > width {
			width = len(rawRow)
		}

		row := make(grid.Row, width)
		for col := 0; col < width; col++ {
			row[col] = r.cell(rowIdx, col, value(shownRow, col), value(rawRow, col))
		}
		g = append(g, row)
	}

	return trimTrailingBlank(g), nil
}

// =============================================================================
// CELL TYPING
// =============================================================================

// cellReader types cells using the workbook's styles. Style lookups are
// cached per style index.
type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

// cell combines the displayed and stored value of one cell.
func (r *cellReader) cell(rowIdx, col int, shown, raw string) grid.Cell {
	if shown == "" && raw == "" {
		return grid.Cell{}
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Text cell: the stored and displayed values are the same.
		if shown != "" {
			return grid.Text(shown)
		}
		return grid.Text(raw)
	}

	if r.isDateCell(rowIdx, col) {
		if t, err := excelize.ExcelDateToTime(num, r.date1904); err == nil {
			return grid.DateValue(t)
		}
	}

	if shown == raw || shown == "" {
		return grid.Num(num)
	}

	// Formatted numbers (times, currency, percentages) keep their display.
	return grid.Text(shown)
}

// isDateCell reports whether the cell's number format displays a date.
func (r *cellReader) isDateCell(rowIdx, col int) bool {
	name, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
	if err != nil {
		return false
	}
	styleIdx, err := r.f.GetCellStyle(r.sheet, name)
	if err != nil || styleIdx == 0 {
		return false
	}

	if isDate, ok := r.dateStyles[styleIdx]; ok {
		return isDate
	}

	isDate := false
	if style, err := r.f.GetStyle(styleIdx); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = IsDateFormat(*style.CustomNumFmt)
		}
	}
	r.dateStyles[styleIdx] = isDate
	return isDate
}

// IsDateFormat reports whether a custom number format code displays a date,
// meaning it contains a year or day token outside quoted or bracketed text.
func IsDateFormat(code string) bool {
	code = strings.ToLower(formatNoise.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "yd")
}

// =============================================================================
// HELPERS
// =============================================================================

func at(rows [][]string, i int) []string {
	if i < len(rows) {
		return rows[i]
	}
	return nil
}

func value(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// trimTrailingBlank drops blank rows at the end of the grid.
func trimTrailingBlank(g grid.Grid) grid.Grid {
	end := len(g)
	for end > 0 && g[end-1].IsBlank() {
		end--
	}
	return g[:end]
}
