// =============================================================================
// Itinerary Processor - Configuration Module
// =============================================================================
//
// This module loads the main application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. Main config file (config.yaml), optional
//   3. A .env file next to the config file, optional
//   4. ITINERARY_* environment variables
//
// A missing config file is not an error; the defaults describe a working
// setup that reads ./input and writes ./output.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/itinerary-processor/pkg/utils"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Export formats.
const (
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
)

// Environment variables that override the config file.
const (
	EnvInputDir       = "ITINERARY_INPUT_DIR"
	EnvOutputDir      = "ITINERARY_OUTPUT_DIR"
	EnvDBPath         = "ITINERARY_DB_PATH"
	EnvStore          = "ITINERARY_STORE"
	EnvUser           = "ITINERARY_USER"
	EnvLogLevel       = "ITINERARY_LOG_LEVEL"
	EnvMaxConcurrency = "ITINERARY_MAX_CONCURRENCY"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for .csv and .xlsx itinerary files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the exported XML and XLSX files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// =========================================================================
	// PERSISTENCE SETTINGS
	// =========================================================================

	// Store selects the itinerary store: "sqlite" or "memory".
	// Default: "sqlite"
	Store string `yaml:"store"`

	// DBPath is the SQLite database file.
	// Default: "./data/itineraries.db"
	DBPath string `yaml:"db_path"`

	// DefaultUser owns itineraries saved by the process command when no
	// --user flag is given.
	// Default: "local"
	DefaultUser string `yaml:"default_user"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ExportFormats lists the exporters to run: "xml", "xlsx".
	// Default: ["xml"]
	ExportFormats []string `yaml:"export_formats"`

	// OutputNameFormat defines output file names, without extension.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {title}     - Itinerary title, lower-cased with spaces as dashes
	//   {source}    - Input file name without extension
	// Default: "{source}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other files after one fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`

	// ArchiveInputs moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveInputs bool `yaml:"archive_inputs"`

	// ArchiveByDate files archived inputs under YYYY/MM/DD subdirectories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`

	// CSV holds settings for the CSV grid loader.
	CSV CSVSettings `yaml:"csv"`

	// XLSX holds settings for the spreadsheet grid loader.
	XLSX XLSXSettings `yaml:"xlsx"`
}

// =============================================================================
// LOADER SETTINGS
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields: ",", ";", "|", "tab".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// TrimLeadingSpace drops spaces after a delimiter.
	TrimLeadingSpace bool `yaml:"trim_leading_space"`
}

// XLSXSettings contains settings for reading spreadsheet files.
type XLSXSettings struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{
		ContinueOnError: true,
		ArchiveInputs:   true,
	}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. It may not exist.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file exists but cannot be parsed, or the resulting
//     configuration is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Booleans default to true, so they are set before decoding.
	config := MainConfig{
		ContinueOnError: true,
		ArchiveInputs:   true,
	}

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// A .env file never overrides variables that are already set.
	envFile := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	applyEnvOverrides(&config)

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides replaces settings with ITINERARY_* variables when set.
func applyEnvOverrides(config *MainConfig) {
	config.InputDir = getEnv(EnvInputDir, config.InputDir)
	config.OutputDir = getEnv(EnvOutputDir, config.OutputDir)
	config.DBPath = getEnv(EnvDBPath, config.DBPath)
	config.Store = getEnv(EnvStore, config.Store)
	config.DefaultUser = getEnv(EnvUser, config.DefaultUser)
	config.LogLevel = getEnv(EnvLogLevel, config.LogLevel)
	config.MaxConcurrency = getEnvInt(EnvMaxConcurrency, config.MaxConcurrency)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.Store == "" {
		config.Store = StoreSQLite
	}
	if config.DBPath == "" {
		config.DBPath = "./data/itineraries.db"
	}
	if config.DefaultUser == "" {
		config.DefaultUser = "local"
	}
	if len(config.ExportFormats) == 0 {
		config.ExportFormats = []string{FormatXML}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{source}_{timestamp}"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}

	config.Store = strings.ToLower(strings.TrimSpace(config.Store))
	for i, f := range config.ExportFormats {
		config.ExportFormats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

// validateMainConfig checks enumerated settings and creates the working
// directories.
func validateMainConfig(config *MainConfig) error {
	switch config.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", config.Store, StoreSQLite, StoreMemory)
	}

	for _, f := range config.ExportFormats {
		if f != FormatXML && f != FormatXLSX {
			return fmt.Errorf("unknown export format %q", f)
		}
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	fm := utils.NewFileManager(config.InputDir, config.OutputDir, config.InputArchiveDir)
	fm.ArchiveOnSuccess = config.ArchiveInputs
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	if config.Store == StoreSQLite {
		if err := os.MkdirAll(filepath.Dir(config.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return nil
}

// Exports reports whether the given export format is enabled.
func (c *MainConfig) Exports(format string) bool {
	for _, f := range c.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
