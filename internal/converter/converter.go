// =============================================================================
// Itinerary Processor - Converter Module
// =============================================================================
//
// This module orchestrates the pipeline for a single input file, from
// reading the spreadsheet to exporting the processed itinerary.
//
// CONVERSION PIPELINE:
//   1. Load the input file into a cell grid (CSV or XLSX by extension)
//   2. Assemble the itinerary (filter, group, detect meals)
//   3. Save the itinerary to the store
//   4. Export it in every configured format (XML, XLSX)
//   5. Archive the input file
//
// Steps 3 to 5 are skipped in dry-run mode. When an export fails, the saved
// record and any files already exported for it are removed again.
//
// CONCURRENCY:
//   Each file is processed in its own goroutine with its own Converter. The
//   only shared collaborator is the store, which is safe for concurrent use.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/itinerary-processor/internal/config"
	"github.com/ginjaninja78/itinerary-processor/internal/csvparser"
	"github.com/ginjaninja78/itinerary-processor/internal/grid"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
	"github.com/ginjaninja78/itinerary-processor/internal/logging"
	"github.com/ginjaninja78/itinerary-processor/internal/store"
	"github.com/ginjaninja78/itinerary-processor/internal/xlsxparser"
	"github.com/ginjaninja78/itinerary-processor/internal/xlsxwriter"
	"github.com/ginjaninja78/itinerary-processor/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// ItineraryID is the store id of the saved itinerary.
	// This is empty in dry-run mode or if processing failed.
	ItineraryID string

	// Itinerary is the assembled aggregate, nil if processing failed.
	Itinerary *itinerary.ItineraryData

	// Diagnostics lists rows and timings the pipeline skipped.
	Diagnostics []itinerary.Diagnostic

	// OutputFiles are the exported files, one per export format.
	OutputFiles []string

	// ArchivePath is where the input file was moved, if it was archived.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of rows after the title and header rows.
	RowsRead int

	// RowsKept is the number of rows that became items.
	RowsKept int

	// DaysCreated is the number of day buckets.
	DaysCreated int

	// ItemsCreated is the number of items across all days.
	ItemsCreated int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options adjusts a single run.
type Options struct {
	// UserID owns the saved itinerary. Default: the configured default user.
	UserID string

	// DryRun processes the file without saving, exporting or archiving.
	DryRun bool
}

// Converter handles the processing of a single itinerary file.
type Converter struct {
	inputPath  string
	mainConfig *config.MainConfig
	store      store.Store
	options    Options
	logger     logging.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the .csv or .xlsx input file.
//   - mainConfig: The main application configuration.
//   - st: The itinerary store. May be nil in dry-run mode.
//   - options: Per-run options.
func New(inputPath string, mainConfig *config.MainConfig, st store.Store, options Options) *Converter {
	if options.UserID == "" {
		options.UserID = mainConfig.DefaultUser
	}
	return &Converter{
		inputPath:  inputPath,
		mainConfig: mainConfig,
		store:      st,
		options:    options,
		logger:     logging.Nop(),
	}
}

// SetLogger replaces the converter's logger.
func (c *Converter) SetLogger(logger logging.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file. Failures are reported in the
// Result rather than returned.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{FilePath: c.inputPath}

	c.logger.Info("Processing file: %s", c.inputPath)

	// =========================================================================
	// STEP 1: LOAD THE CELL GRID
	// =========================================================================

	g, err := LoadGrid(c.inputPath, c.mainConfig)
	if err != nil {
		result.Error = err
		return result
	}
	c.logger.Debug("Loaded %d rows from %s", len(g), filepath.Base(c.inputPath))

	// =========================================================================
	// STEP 2: ASSEMBLE THE ITINERARY
	// =========================================================================

	processed, err := itinerary.ProcessWithLogger(g, c.logger)
	if err != nil {
		result.Error = err
		return result
	}

	it := processed.Itinerary
	result.Itinerary = it
	result.Diagnostics = processed.Diagnostics
	result.Stats.RowsRead = processed.RowsRead
	result.Stats.RowsKept = processed.RowsKept
	result.Stats.DaysCreated = len(it.Days)
	result.Stats.ItemsCreated = it.ItemCount()

	if c.options.DryRun {
		c.logger.Info("Dry run: %q has %d day(s), %d item(s)", it.Title, len(it.Days), it.ItemCount())
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 3: SAVE
	// =========================================================================

	if c.store != nil {
		id, err := c.store.Create(ctx, c.options.UserID, it)
		if err != nil {
			result.Error = fmt.Errorf("failed to save itinerary: %w", err)
			return result
		}
		result.ItineraryID = id
		c.logger.Info("Saved itinerary %s for user %s", id, c.options.UserID)
	}

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	for _, format := range c.mainConfig.ExportFormats {
		outputPath, err := c.export(it, format, result.ItineraryID)
		if err != nil {
			c.rollback(ctx, result.ItineraryID, result.OutputFiles)
			result.ItineraryID = ""
			result.OutputFiles = nil
			result.Error = fmt.Errorf("failed to export %s: %w", format, err)
			return result
		}
		result.OutputFiles = append(result.OutputFiles, outputPath)
		c.logger.Info("Wrote output to: %s", outputPath)
	}

	if c.mainConfig.Exports(config.FormatXML) {
		if schemaPath, err := writeSchema(c.mainConfig.OutputDir); err != nil {
			c.logger.Warn("Failed to write XML schema: %v", err)
		} else if schemaPath != "" {
			c.logger.Debug("Wrote XML schema to: %s", schemaPath)
		}
	}

	// =========================================================================
	// STEP 5: ARCHIVE
	// =========================================================================

	if c.mainConfig.ArchiveInputs {
		fm := utils.NewFileManager(c.mainConfig.InputDir, c.mainConfig.OutputDir, c.mainConfig.InputArchiveDir)
		fm.UseTimestampSubdirs = c.mainConfig.ArchiveByDate
		archivePath, err := fm.ArchiveInputFile(c.inputPath)
		if err != nil {
			c.logger.Warn("Failed to archive %s: %v", c.inputPath, err)
		} else {
			result.ArchivePath = archivePath
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// LoadGrid reads an input file into a cell grid, choosing the loader by
// file extension. Load failures are returned as *itinerary.ProcessingError.
func LoadGrid(path string, mainConfig *config.MainConfig) (grid.Grid, error) {
	var (
		g   grid.Grid
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		g, err = csvparser.Parse(path, mainConfig.CSV)
	case ".xlsx":
		g, err = xlsxparser.Parse(path, mainConfig.XLSX.Sheet)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	if err != nil {
		return nil, &itinerary.ProcessingError{Op: "load", Source: filepath.Base(path), Err: err}
	}
	return g, nil
}

// export writes the itinerary in one format and returns the output path.
// The path is reserved first, so two runs producing the same name never
// overwrite each other.
func (c *Converter) export(it *itinerary.ItineraryData, format, id string) (string, error) {
	var write func(*itinerary.ItineraryData, string) error
	switch format {
	case config.FormatXML:
		write = writeXML
	case config.FormatXLSX:
		write = xlsxwriter.WriteSummary
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	source := strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath))
	fileName := utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, "."+format, map[string]string{
		"title":  it.Title,
		"source": source,
		"id":     id,
	})

	outputPath, err := utils.ReserveOutputFile(filepath.Join(c.mainConfig.OutputDir, fileName))
	if err != nil {
		return "", err
	}
	if err := write(it, outputPath); err != nil {
		os.Remove(outputPath)
		return "", err
	}
	return outputPath, nil
}

// rollback undoes a partly exported run: it removes the exported files and
// the saved record.
func (c *Converter) rollback(ctx context.Context, id string, outputs []string) {
	for _, path := range outputs {
		if err := os.Remove(path); err != nil {
			c.logger.Warn("Failed to remove %s: %v", path, err)
		}
	}
	if id == "" || c.store == nil {
		return
	}
	if err := c.store.Delete(context.WithoutCancel(ctx), id); err != nil {
		c.logger.Warn("Failed to remove saved itinerary %s: %v", id, err)
	}
}
