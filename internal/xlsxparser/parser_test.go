package xlsxparser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

func mkXLSX(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatal(err)
		}
	}
	name := f.GetSheetName(0)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(name, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func vacationRows() [][]any {
	may1 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	may3 := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	return [][]any{
		{"Title", "European Vacation"},
		{"Day", "City", "Date", "Time", "Category", "Description"},
		{1, "Paris", may1, "09:00", "Sightseeing", "Eiffel Tower visit"},
		{1, "Paris", may1, "12:30", "Food", "Lunch at Café"},
		{2, "Rome", may3, "09:30", "Sightseeing", "Colosseum"},
	}
}

func TestParseReaderTypesCells(t *testing.T) {
	g, err := ParseReader(bytes.NewReader(mkXLSX(t, "", vacationRows())), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g) != 5 {
		t.Fatalf("rows = %d", len(g))
	}

	day := g[2].At(0)
	if day.Kind() != grid.Number || day.String() != "1" {
		t.Errorf("day cell = %v %q", day.Kind(), day.String())
	}
	date := g[2].At(2)
	if date.Kind() != grid.Date || date.String() != "2025-05-01" {
		t.Errorf("date cell = %v %q", date.Kind(), date.String())
	}
	timing := g[2].At(3)
	if timing.Kind() != grid.String || timing.String() != "09:00" {
		t.Errorf("timing cell = %v %q", timing.Kind(), timing.String())
	}
	if !g[0].At(2).IsEmpty() {
		t.Error("out of range cell should be empty")
	}
}

func TestParseReaderFeedsPipeline(t *testing.T) {
	g, err := ParseReader(bytes.NewReader(mkXLSX(t, "", vacationRows())), "")
	if err != nil {
		t.Fatal(err)
	}
	res, err := itinerary.Process(g)
	if err != nil {
		t.Fatal(err)
	}

	it := res.Itinerary
	if it.Title != "European Vacation" || len(it.Days) != 2 {
		t.Fatalf("unexpected itinerary: %+v", it)
	}
	paris := it.Days["1"]
	if paris.City != "Paris" || paris.Date != "2025-05-01" || len(paris.Items) != 2 {
		t.Errorf("day 1 = %+v", paris)
	}
	if paris.Duration() != "3.5 hours" {
		t.Errorf("duration = %q", paris.Duration())
	}
	if got := paris.AllMeals.List(); len(got) != 1 || got[0] != itinerary.MealLunch {
		t.Errorf("meals = %v", got)
	}
}

func TestParseNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.xlsx")
	if err := os.WriteFile(path, mkXLSX(t, "Trip", vacationRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Parse(path, "Trip"); err != nil {
		t.Fatalf("parse named sheet: %v", err)
	}
	if _, err := Parse(path, "Missing"); err == nil {
		t.Fatal("expected error for missing sheet")
	}
}

func TestParseNotSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.xlsx")
	if err := os.WriteFile(path, []byte("Day,City\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(path, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := map[string]bool{
		"yyyy-mm-dd":       true,
		"dd/mm/yyyy":       true,
		"[$-409]mmmm d":    true,
		"0.00":             false,
		"h:mm":             false,
		"[Red]0.00":        false,
		`0.00" days"`:      false,
		`#,##0 "yd"`:       false,
		"[h]:mm:ss":        false,
		"ddd, mmm d, yyyy": true,
	}
	for code, want := range tests {
		if got := IsDateFormat(code); got != want {
			t.Errorf("IsDateFormat(%q) = %v, want %v", code, got, want)
		}
	}
}
