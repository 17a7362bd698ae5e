// =============================================================================
// Itinerary Processor - CSV Grid Loader
// =============================================================================
//
// This module turns CSV text into a cell grid for the itinerary pipeline.
// It handles the formats itinerary spreadsheets are usually exported in:
//   - Different delimiters (comma, semicolon, tab, pipe)
//   - Rows with a varying number of fields
//   - Loosely quoted fields
//   - A UTF-8 byte order mark at the start of the file
//
// CELL TYPING:
//   CSV has no types, so cells are typed conservatively:
//   - ""                      -> empty cell
//   - canonical numbers "1"   -> number cell
//   - everything else         -> string cell, verbatim ("01", "09:00", "1.50")
//
// The loader does not interpret the itinerary layout. Title rows, header rows
// and data rows are all returned; the pipeline decides what they mean.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/itinerary-processor/internal/config"
	"github.com/ginjaninja78/itinerary-processor/internal/grid"
)

// utf8BOM is stripped from the start of the input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its cell grid.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the main configuration.
//
// RETURNS:
//   - The grid, one row per CSV record.
//   - An error if the file cannot be opened or is not valid CSV.
func Parse(filePath string, settings config.CSVSettings) (grid.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	g, err := ParseReader(file, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return g, nil
}

// ParseReader reads CSV text from r and returns its cell grid.
// Each grid row is one CSV record, not one source line: encoding/csv skips
// empty lines and a quoted field may span several lines. Records whose cells
// are all empty (",,,") are kept unless they trail the data.
func ParseReader(r io.Reader, settings config.CSVSettings) (grid.Grid, error) {
	reader := bufio.NewReader(r)

	// Strip a UTF-8 BOM if present.
	if head, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := reader.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	g := make(grid.Grid, 0, len(records))
	for _, record := range records {
		row := make(grid.Row, len(record))
		for i, value := range record {
			row[i] = toCell(value)
		}
		g = append(g, row)
	}

	return trimTrailingBlank(g), nil
}

// configureReader configures the CSV reader based on the settings.
//
// PARAMETERS:
//   - reader: The CSV reader to configure.
//   - settings: The CSV parsing settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Itinerary sheets often have short rows (no timing, no category).
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Hand-written CSVs commonly use ", " as a separator.
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
}

// Delimiter resolves a configured delimiter name to a rune.
// Names: "tab", "\t", "pipe", "|", "semicolon", ";", "comma", ",".
// Any other value uses its first character; empty means comma.
func Delimiter(name string) rune {
	switch strings.ToLower(name) {
	case "\\t", "\t", "tab":
		return '\t'
	case "|", "pipe":
		return '|'
	case ";", "semicolon":
		return ';'
	case "", ",", "comma":
		return ','
	default:
		return []rune(name)[0]
	}
}

// toCell types a single CSV field.
func toCell(value string) grid.Cell {
	if value == "" {
		return grid.Cell{}
	}

	trimmed := strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		// Only canonical numbers become number cells, so "01" and "1.50"
		// keep their spelling when coerced back to text.
		if strconv.FormatFloat(f, 'f', -1, 64) == trimmed && trimmed == value {
			return grid.Num(f)
		}
	}

	return grid.Text(value)
}

// trimTrailingBlank drops blank rows at the end of the grid.
func trimTrailingBlank(g grid.Grid) grid.Grid {
	end := len(g)
	for end > 0 && g[end-1].IsBlank() {
		end--
	}
	return g[:end]
}
