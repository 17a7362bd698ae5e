// =============================================================================
// Itinerary Processor - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the itinerary pipeline
// over the input directory or a single file.
//
// COMMAND USAGE:
//   itinerary process [flags]
//
// FLAGS:
//   --file     : Process only this file instead of scanning the input directory
//   --dry-run  : Assemble itineraries without saving, exporting or archiving
//   --user     : Owner of the saved itineraries (default: configured user)
//
// PROCESSING PIPELINE:
//   1. Load the configuration
//   2. Discover .csv and .xlsx files in the input directory
//   3. Open the itinerary store
//   4. For each file (concurrently, bounded by max_concurrency):
//      a. Load the cell grid
//      b. Assemble the itinerary
//      c. Save, export and archive
//   5. Print the summary and write the summary and diagnostic logs
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ginjaninja78/itinerary-processor/internal/config"
	"github.com/ginjaninja78/itinerary-processor/internal/converter"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
	"github.com/ginjaninja78/itinerary-processor/internal/logging"
	"github.com/ginjaninja78/itinerary-processor/internal/store"
	"github.com/ginjaninja78/itinerary-processor/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun assembles itineraries without side effects.
var dryRun bool

// filePath is a single file to process instead of the input directory.
var filePath string

// userID owns the saved itineraries.
var userID string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process itinerary spreadsheets",
	Long: `The process command scans the input directory for .csv and .xlsx files
and turns each one into an itinerary.

Files are processed concurrently. Each file is processed independently; with
continue_on_error disabled, no new files are started after the first failure.

On successful processing:
  - The itinerary is saved to the store
  - Each configured export format is written to the output directory
  - The input file is moved to the input archive

Rows that were skipped are listed in a diagnostics log in the output
directory. A summary log is written after every run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), cmd.OutOrStdout())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Assemble itineraries without saving, exporting or archiving",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a single .csv or .xlsx file to process",
	)

	processCmd.Flags().StringVar(
		&userID,
		"user",
		"",
		"Owner of the saved itineraries (default: the configured default_user)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Fprintln(out, "=== Itinerary Processor ===")

	mainConfig, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := collectInputFiles(mainConfig, filePath)
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No .csv or .xlsx files found in the input directory.")
		return nil
	}
	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: OPEN THE STORE
	// =========================================================================

	var st store.Store
	if !dryRun {
		st, err = store.Open(mainConfig.Store, mainConfig.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", mainConfig.Store, err)
		}
		defer st.Close()
	}

	// =========================================================================
	// STEP 4: PROCESS FILES CONCURRENTLY
	// =========================================================================

	results := processFiles(ctx, inputFiles, mainConfig, st, converter.Options{
		UserID: userID,
		DryRun: dryRun,
	}, logger)

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	summary := summarize(results, len(inputFiles), startTime)
	printSummary(out, results, summary)

	if dryRun {
		return nil
	}

	if path, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir); err != nil {
		logger.Warn("Failed to write summary log: %v", err)
	} else {
		logger.Debug("Summary written to %s", path)
	}

	if path, err := utils.WriteDiagnosticLog(diagnosticEntries(results), mainConfig.OutputDir); err != nil {
		logger.Warn("Failed to write diagnostic log: %v", err)
	} else if path != "" {
		fmt.Fprintf(out, "\nSkipped rows have been logged to %s\n", path)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// collectInputFiles returns the single --file when given, otherwise every
// input file in the configured input directory.
func collectInputFiles(mainConfig *config.MainConfig, single string) ([]string, error) {
	if single != "" {
		if !utils.IsInputFile(single) {
			return nil, fmt.Errorf("unsupported input file %q: expected .csv or .xlsx", single)
		}
		if !utils.FileExists(single) {
			return nil, fmt.Errorf("input file %q does not exist", single)
		}
		return []string{single}, nil
	}

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	files, err := fm.DiscoverInputFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return files, nil
}

// processFiles runs one converter per file with at most MaxConcurrency in
// flight. Results come back in input order. When ContinueOnError is off, a
// failure stops new files from starting; files already running finish.
//
// PARAMETERS:
//   - files: Input file paths.
//   - mainConfig: The main configuration.
//   - st: The shared store. Nil in dry-run mode.
//   - opts: Options passed to every converter.
//   - logger: Shared logger.
//
// RETURNS:
//   - One result per file that was started.
func processFiles(ctx context.Context, files []string, mainConfig *config.MainConfig, st store.Store, opts converter.Options, logger logging.Logger) []converter.Result {
	limit := mainConfig.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	type indexed struct {
		index  int
		result converter.Result
	}

	var wg sync.WaitGroup
	var stop atomic.Bool
	sem := make(chan struct{}, limit)
	results := make(chan indexed, len(files))

	for i, file := range files {
		sem <- struct{}{}
		if stop.Load() || ctx.Err() != nil {
			<-sem
			logger.Warn("Skipping %s after an earlier failure", filepath.Base(file))
			continue
		}

		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			conv := converter.New(path, mainConfig, st, opts)
			conv.SetLogger(logger)
			result := conv.Run(ctx)
			if !result.Success {
				logger.Error("%v", result.Error)
				if !mainConfig.ContinueOnError {
					stop.Store(true)
				}
			}
			results <- indexed{index: index, result: result}
		}(i, file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []indexed
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	out := make([]converter.Result, len(collected))
	for i, r := range collected {
		out[i] = r.result
	}
	return out
}

// summarize folds per-file results into the run summary.
func summarize(results []converter.Result, totalFiles int, startTime time.Time) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		EndTime:    time.Now(),
		TotalFiles: totalFiles,
	}

	for _, r := range results {
		if !r.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: r.Error.Error(),
			})
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRows += r.Stats.RowsRead
		summary.TotalDays += r.Stats.DaysCreated
		summary.TotalItems += r.Stats.ItemsCreated
		summary.Diagnostics += len(r.Diagnostics)
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   r.FilePath,
			ItineraryID: r.ItineraryID,
			Title:       r.Itinerary.Title,
			OutputFiles: r.OutputFiles,
			Days:        r.Stats.DaysCreated,
			Items:       r.Stats.ItemsCreated,
			ProcessTime: r.Stats.ProcessingTime,
		})
	}
	return summary
}

// diagnosticEntries flattens every file's diagnostics for the diagnostic log.
func diagnosticEntries(results []converter.Result) []utils.DiagnosticLogEntry {
	var entries []utils.DiagnosticLogEntry
	for _, r := range results {
		for _, d := range r.Diagnostics {
			entries = append(entries, utils.DiagnosticLogEntry{
				FileName:  filepath.Base(r.FilePath),
				RowNumber: d.Row + 1,
				Reason:    string(d.Reason),
				Detail:    d.Detail,
			})
		}
	}
	return entries
}

func printSummary(out io.Writer, results []converter.Result, summary utils.ProcessingSummary) {
	for _, r := range results {
		name := filepath.Base(r.FilePath)
		if !r.Success {
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.Error)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s: %q, %d day(s), %d item(s)", name, r.Itinerary.Title, r.Stats.DaysCreated, r.Stats.ItemsCreated)
		if r.ItineraryID != "" {
			fmt.Fprintf(out, " [%s]", r.ItineraryID)
		}
		fmt.Fprintln(out)
		for _, f := range r.OutputFiles {
			fmt.Fprintf(out, "      -> %s\n", f)
		}
	}

	skipped := summary.TotalFiles - len(results)

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	if skipped > 0 {
		fmt.Fprintf(out, "Not started:     %d\n", skipped)
	}
	fmt.Fprintf(out, "Days:            %d\n", summary.TotalDays)
	fmt.Fprintf(out, "Items:           %d\n", summary.TotalItems)
	fmt.Fprintf(out, "Skipped rows:    %d\n", summary.Diagnostics)
	printReasonCounts(out, results)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
}

// printReasonCounts breaks the skipped rows of all files down by reason.
func printReasonCounts(out io.Writer, results []converter.Result) {
	var all []itinerary.Diagnostic
	for _, r := range results {
		all = append(all, r.Diagnostics...)
	}

	counts := itinerary.CountByReason(all)
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)

	for _, reason := range reasons {
		fmt.Fprintf(out, "    %s: %d\n", reason, counts[itinerary.Reason(reason)])
	}
}
