package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/itinerary-processor/internal/config"
	"github.com/ginjaninja78/itinerary-processor/internal/converter"
	"github.com/ginjaninja78/itinerary-processor/internal/csvparser"
	"github.com/ginjaninja78/itinerary-processor/internal/geo"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
	"github.com/ginjaninja78/itinerary-processor/internal/logging"
	"github.com/ginjaninja78/itinerary-processor/internal/store"
)

const vacationCSV = "Title,European Vacation\n" +
	"Day,City,Date,Time,Category,Description\n" +
	"1,Paris,2025-05-01,09:00,Sightseeing,Eiffel Tower visit\n" +
	"1,Paris,2025-05-01,12:30,Food,Lunch at Café\n" +
	",Paris,2025-05-01,13:00,Food,Orphan row\n" +
	"2,Rome,2025-05-03,09:30,Sightseeing,Colosseum\n"

// setupRun writes a config file into a temp dir, points the global flags at
// it and restores them when the test ends.
func setupRun(t *testing.T, extra string) (root string) {
	t.Helper()
	root = t.TempDir()

	body := fmt.Sprintf("input_dir: %s\noutput_dir: %s\ninput_archive_dir: %s\nstore: memory\nexport_formats: [xml]\n%s",
		filepath.Join(root, "input"), filepath.Join(root, "output"), filepath.Join(root, "archive"), extra)
	path := filepath.Join(root, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	oldCfg, oldDry, oldFile, oldUser := cfgFile, dryRun, filePath, userID
	cfgFile, dryRun, filePath, userID = path, false, "", ""
	t.Cleanup(func() {
		cfgFile, dryRun, filePath, userID = oldCfg, oldDry, oldFile, oldUser
	})

	if err := os.MkdirAll(filepath.Join(root, "input"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunProcess(t *testing.T) {
	root := setupRun(t, "")
	writeFile(t, filepath.Join(root, "input", "may.csv"), vacationCSV)
	writeFile(t, filepath.Join(root, "input", "june.csv"), vacationCSV)

	var out bytes.Buffer
	if err := runProcess(context.Background(), &out); err != nil {
		t.Fatalf("runProcess: %v\n%s", err, out.String())
	}

	for _, want := range []string{"Found 2 file(s)", "Successful:      2", "Skipped rows:    2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	xmls, _ := filepath.Glob(filepath.Join(root, "output", "*.xml"))
	if len(xmls) != 2 {
		t.Errorf("xml outputs = %v", xmls)
	}
	for _, pattern := range []string{"processing_summary_*.txt", "diagnostics_*.txt"} {
		if logs, _ := filepath.Glob(filepath.Join(root, "output", pattern)); len(logs) != 1 {
			t.Errorf("expected one %s, got %v", pattern, logs)
		}
	}
	if archived, _ := filepath.Glob(filepath.Join(root, "archive", "*.csv")); len(archived) != 2 {
		t.Errorf("archived = %v", archived)
	}
}

func TestRunProcessDryRun(t *testing.T) {
	root := setupRun(t, "")
	input := writeFile(t, filepath.Join(root, "input", "may.csv"), vacationCSV)
	dryRun = true

	var out bytes.Buffer
	if err := runProcess(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"European Vacation", 2 day(s), 3 item(s)`) {
		t.Errorf("output:\n%s", out.String())
	}
	if _, err := os.Stat(input); err != nil {
		t.Error("dry run moved the input")
	}
	if entries, _ := os.ReadDir(filepath.Join(root, "output")); len(entries) != 0 {
		t.Errorf("dry run wrote %d output file(s)", len(entries))
	}
}

func TestRunProcessReportsFailures(t *testing.T) {
	root := setupRun(t, "")
	writeFile(t, filepath.Join(root, "input", "broken.xlsx"), "not a spreadsheet")

	var out bytes.Buffer
	err := runProcess(context.Background(), &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 file(s) failed") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out.String(), "✗ broken.xlsx: could not process broken.xlsx") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunProcessEmptyInput(t *testing.T) {
	setupRun(t, "")

	var out bytes.Buffer
	if err := runProcess(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No .csv or .xlsx files found") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestCollectInputFiles(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = root
	good := writeFile(t, filepath.Join(root, "trip.csv"), vacationCSV)
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	files, err := collectInputFiles(cfg, "")
	if err != nil || len(files) != 1 || files[0] != good {
		t.Errorf("directory scan = %v, %v", files, err)
	}

	files, err = collectInputFiles(cfg, good)
	if err != nil || len(files) != 1 {
		t.Errorf("single file = %v, %v", files, err)
	}

	if _, err := collectInputFiles(cfg, filepath.Join(root, "notes.txt")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := collectInputFiles(cfg, filepath.Join(root, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProcessFiles(t *testing.T) {
	root := t.TempDir()
	bad := writeFile(t, filepath.Join(root, "bad.xlsx"), "junk")
	good := writeFile(t, filepath.Join(root, "good.csv"), vacationCSV)

	tests := []struct {
		name            string
		continueOnError bool
		wantResults     int
	}{
		{"continue after failure", true, 2},
		{"stop after failure", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.MaxConcurrency = 1
			cfg.ContinueOnError = tt.continueOnError

			results := processFiles(context.Background(), []string{bad, good}, cfg, nil,
				converter.Options{DryRun: true}, logging.Nop())

			if len(results) != tt.wantResults {
				t.Fatalf("got %d results, want %d", len(results), tt.wantResults)
			}
			if results[0].FilePath != bad || results[0].Success {
				t.Errorf("first result = %+v", results[0])
			}
			if tt.wantResults == 2 && (results[1].FilePath != good || !results[1].Success) {
				t.Errorf("second result = %+v", results[1])
			}
		})
	}
}

func TestProcessFilesKeepsInputOrder(t *testing.T) {
	root := t.TempDir()
	var files []string
	for i := 0; i < 8; i++ {
		files = append(files, writeFile(t, filepath.Join(root, fmt.Sprintf("trip%d.csv", i)), vacationCSV))
	}

	cfg := config.Default()
	cfg.MaxConcurrency = 3
	results := processFiles(context.Background(), files, cfg, nil, converter.Options{DryRun: true}, logging.Nop())

	if len(results) != len(files) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.FilePath != files[i] || !r.Success {
			t.Errorf("result %d = %s, success %v", i, r.FilePath, r.Success)
		}
	}
}

func TestSummarizeAndDiagnostics(t *testing.T) {
	g, err := csvparser.ParseReader(strings.NewReader(vacationCSV), config.CSVSettings{})
	if err != nil {
		t.Fatal(err)
	}
	processed, err := itinerary.Process(g)
	if err != nil {
		t.Fatal(err)
	}

	results := []converter.Result{
		{
			FilePath:    "in/may.csv",
			Itinerary:   processed.Itinerary,
			Diagnostics: processed.Diagnostics,
			Success:     true,
			Stats:       converter.ProcessingStats{RowsRead: 4, DaysCreated: 2, ItemsCreated: 3},
		},
		{FilePath: "in/bad.xlsx", Error: fmt.Errorf("boom")},
	}

	summary := summarize(results, 3, time.Now())
	if summary.SuccessfulFiles != 1 || summary.FailedFiles != 1 || summary.TotalDays != 2 || summary.TotalItems != 3 || summary.Diagnostics != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.ProcessedFiles[0].Title != "European Vacation" || summary.FailedFilesList[0].ErrorMessage != "boom" {
		t.Errorf("file lists = %+v / %+v", summary.ProcessedFiles, summary.FailedFilesList)
	}

	entries := diagnosticEntries(results)
	if len(entries) != 1 || entries[0].FileName != "may.csv" || entries[0].RowNumber != 5 || entries[0].Reason != "missing_day" {
		t.Errorf("entries = %+v", entries)
	}

	var out bytes.Buffer
	printSummary(&out, results, summary)
	for _, want := range []string{"Not started:     1", "Skipped rows:    1\n    missing_day: 1\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderItinerary(t *testing.T) {
	g, err := csvparser.ParseReader(strings.NewReader(vacationCSV), config.CSVSettings{})
	if err != nil {
		t.Fatal(err)
	}
	processed, err := itinerary.Process(g)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := renderItinerary(&out, processed.Itinerary, geo.NewStaticLocator(nil)); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"European Vacation",
		"Day 1  Paris  Thu, May 1, 2025",
		"Duration: 3.5 hours   Meals: Lunch",
		"[utensils]",
		"Day 2  Rome  Sat, May 3, 2025",
		"Day 1 -> Day 2: Paris to Rome",
		"Total:",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := renderItinerary(&out, nil, geo.NewStaticLocator(nil)); err == nil {
		t.Error("expected error for nil itinerary")
	}
}

func TestRenderList(t *testing.T) {
	var out bytes.Buffer
	if err := renderList(&out, nil); err != nil || !strings.Contains(out.String(), "No saved itineraries") {
		t.Errorf("empty list: %q, %v", out.String(), err)
	}

	ctx := context.Background()
	st := store.NewMemoryStore()
	id, err := st.Create(ctx, "alice", &itinerary.ItineraryData{Title: "Weekend", Days: map[string]*itinerary.DayData{}})
	if err != nil {
		t.Fatal(err)
	}
	records, _ := st.List(ctx, "alice")

	out.Reset()
	if err := renderList(&out, records); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "Weekend") {
		t.Errorf("list output:\n%s", out.String())
	}
}
