// Package xlsxwriter exports a processed itinerary as a spreadsheet with a
// one-row-per-day summary sheet and a detail sheet listing every item.
package xlsxwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/itinerary-processor/internal/format"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

// Sheet names.
const (
	SummarySheet = "Summary"
	ItemsSheet   = "Items"
)

// SummaryHeaders are the columns of the summary sheet.
var SummaryHeaders = []string{"Day", "City", "Date", "Duration", "Meals", "Items"}

// ItemHeaders are the columns of the items sheet.
var ItemHeaders = []string{"Day", "Time", "Category", "Icon", "Description"}

// WriteSummary writes the itinerary to a new workbook at outputPath.
// Days are written in display order.
func WriteSummary(it *itinerary.ItineraryData, outputPath string) error {
	if it == nil {
		return fmt.Errorf("write summary: no itinerary")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return fmt.Errorf("create items sheet: %w", err)
	}

	_ = f.SetDocProps(&excelize.DocProperties{Title: it.Title})

	writeHeaders(f, SummarySheet, SummaryHeaders)
	writeHeaders(f, ItemsSheet, ItemHeaders)

	itemRow := 2
	for i, day := range it.OrderedDays() {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(SummarySheet, cell, value)
		}

		set(1, day.Day)
		set(2, day.City)
		set(3, format.FormatDate(day.Date))
		set(4, day.Duration())
		set(5, format.FormatMeals(day.AllMeals.List()))
		set(6, len(day.Items))

		for _, item := range day.Items {
			setItem := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, itemRow)
				_ = f.SetCellValue(ItemsSheet, cell, value)
			}
			setItem(1, day.Day)
			setItem(2, format.FormatTime(item.Timing))
			setItem(3, item.Category)
			setItem(4, string(format.CategoryIcon(item.Category)))
			setItem(5, item.Description)
			itemRow++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}
