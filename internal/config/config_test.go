package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	// Relative defaults resolve inside the temp dir.
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMainConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := LoadMainConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.InputDir != "./input" || cfg.OutputDir != "./output" {
		t.Errorf("unexpected dirs: %q %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.Store != StoreSQLite || cfg.MaxConcurrency != 4 || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.ContinueOnError || !cfg.ArchiveInputs {
		t.Error("boolean defaults should be true")
	}
	if !reflect.DeepEqual(cfg.ExportFormats, []string{FormatXML}) {
		t.Errorf("export formats = %v", cfg.ExportFormats)
	}
	for _, d := range []string{"input", "output", "input_archive", "data"} {
		if _, err := os.Stat(filepath.Join(dir, d)); err != nil {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}

func TestLoadMainConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
input_dir: `+filepath.Join(dir, "in")+`
output_dir: `+filepath.Join(dir, "out")+`
store: Memory
export_formats: [xml, XLSX]
max_concurrency: 2
continue_on_error: false
archive_inputs: false
archive_by_date: true
csv:
  delimiter: ";"
xlsx:
  sheet: Trip
`)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store = %q", cfg.Store)
	}
	if !cfg.Exports(FormatXLSX) || !cfg.Exports(FormatXML) {
		t.Errorf("export formats = %v", cfg.ExportFormats)
	}
	if cfg.MaxConcurrency != 2 || cfg.ContinueOnError || cfg.ArchiveInputs {
		t.Errorf("processing settings = %+v", cfg)
	}
	if cfg.CSV.Delimiter != ";" || cfg.XLSX.Sheet != "Trip" {
		t.Errorf("loader settings = %+v %+v", cfg.CSV, cfg.XLSX)
	}
	if _, err := os.Stat(filepath.Join(dir, "in")); err != nil {
		t.Errorf("input dir not created: %v", err)
	}
	if !cfg.ArchiveByDate {
		t.Error("archive_by_date not read")
	}
	if _, err := os.Stat(filepath.Join(dir, "input_archive")); !os.IsNotExist(err) {
		t.Errorf("archive dir created with archiving disabled: %v", err)
	}
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "input_dir: "+filepath.Join(dir, "yaml-in")+"\nstore: sqlite\n")

	t.Setenv(EnvInputDir, filepath.Join(dir, "env-in"))
	t.Setenv(EnvOutputDir, filepath.Join(dir, "env-out"))
	t.Setenv(EnvDBPath, filepath.Join(dir, "db", "x.db"))
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvUser, "alice")
	t.Setenv(EnvMaxConcurrency, "7")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InputDir != filepath.Join(dir, "env-in") {
		t.Errorf("input dir = %q", cfg.InputDir)
	}
	if cfg.Store != StoreMemory || cfg.DefaultUser != "alice" || cfg.MaxConcurrency != 7 || cfg.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadMainConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "output_dir: "+filepath.Join(dir, "out")+"\ninput_dir: "+filepath.Join(dir, "in")+"\ndb_path: "+filepath.Join(dir, "data", "x.db")+"\n")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ITINERARY_USER=bob\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Register cleanup for the variable godotenv sets.
	t.Setenv(EnvUser, "")
	os.Unsetenv(EnvUser)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultUser != "bob" {
		t.Errorf("default user = %q", cfg.DefaultUser)
	}
}

func TestLoadMainConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "store: [",
		"bad store":  "store: postgres",
		"bad format": "export_formats: [pdf]",
		"bad level":  "log_level: loud",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, body+"\ninput_dir: "+filepath.Join(dir, "in")+"\noutput_dir: "+filepath.Join(dir, "out")+"\n")
			if _, err := LoadMainConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("ITINERARY_TEST_INT", "abc")
	if got := getEnvInt("ITINERARY_TEST_INT", 3); got != 3 {
		t.Errorf("getEnvInt() = %d, want fallback", got)
	}
	t.Setenv("ITINERARY_TEST_INT", "12")
	if got := getEnvInt("ITINERARY_TEST_INT", 3); got != 12 {
		t.Errorf("getEnvInt() = %d", got)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
