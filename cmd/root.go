// =============================================================================
// Itinerary Processor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (itinerary)
//   ├── processCmd (itinerary process)
//   ├── listCmd    (itinerary list)
//   ├── showCmd    (itinerary show <id>)
//   ├── deleteCmd  (itinerary delete <id>)
//   └── versionCmd (itinerary version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Each
//   subcommand calls loadRuntime to read the configuration and build its
//   logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/itinerary-processor/internal/config"
	"github.com/ginjaninja78/itinerary-processor/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "itinerary",
	Short: "Itinerary Processor - Turn travel spreadsheets into structured itineraries",
	Long: `Itinerary Processor reads travel itineraries exported as CSV or XLSX
spreadsheets, groups their rows into days, detects meals and computes each
day's duration. Processed itineraries are saved per user and exported as XML
or as an XLSX summary workbook.

Expected sheet layout:
  Row 1    title (first cell)
  Row 2    column headers
  Row 3+   Day, City, Date, Time, Category, Description

Example Usage:
  itinerary process                        # Process every file in the input directory
  itinerary process --file trip.xlsx       # Process a single file
  itinerary process --dry-run              # Report what would be produced
  itinerary list --user alice              # List saved itineraries
  itinerary show <id>                      # Print a saved itinerary`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadRuntime loads the main configuration and builds the logger every
// subcommand shares. Logs go to stderr so command output stays clean.
func loadRuntime() (*config.MainConfig, logging.Logger, error) {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := logging.ParseLevel(mainConfig.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	return mainConfig, logging.New(os.Stderr, level), nil
}
