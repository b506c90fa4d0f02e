package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tvschema/internal/config"
)

func TestLoadDefaultConfigResolvesPathsInDataDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("TVSCHEMA_DATA_DIR", dataDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, dataDir)
	}
	if cfg.Paths.SpecsFile != filepath.Join(dataDir, "rtings_tv_data.csv") {
		t.Fatalf("unexpected specs file: %q", cfg.Paths.SpecsFile)
	}
	if cfg.Paths.SpectralFile != filepath.Join(dataDir, "spd_analysis_results.csv") {
		t.Fatalf("unexpected spectral file: %q", cfg.Paths.SpectralFile)
	}
	if cfg.Paths.OutputCSV != filepath.Join(dataDir, "tv_database.csv") {
		t.Fatalf("unexpected output csv: %q", cfg.Paths.OutputCSV)
	}
	wantState := filepath.Join(tempHome, ".local", "state", "tvschema")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Store.Path != filepath.Join(wantState, "tvschema.db") {
		t.Fatalf("unexpected store path: %q", cfg.Store.Path)
	}
	if cfg.Classification.CdSeFWHMThresholdNM != 28 {
		t.Fatalf("unexpected threshold: %v", cfg.Classification.CdSeFWHMThresholdNM)
	}
	if got := strings.Join(cfg.Classification.PseudoQDMarketingLabels, ","); got != "QLED,QNED,ULED" {
		t.Fatalf("unexpected pseudo qd labels: %q", got)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.OutputDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tvschema.toml")

	type payload struct {
		Paths struct {
			DataDir    string `toml:"data_dir"`
			OutputJSON string `toml:"output_json"`
		} `toml:"paths"`
		Classification struct {
			Threshold float64  `toml:"cdse_fwhm_threshold_nm"`
			Fallback  []string `toml:"cdse_fallback_brands"`
		} `toml:"classification"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "inputs")
	custom.Paths.OutputJSON = "/tmp/exports/tv.json"
	custom.Classification.Threshold = 30
	custom.Classification.Fallback = []string{" Hisense ", "", "TCL", "TCL"}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SpecsFile != filepath.Join(tempDir, "inputs", "rtings_tv_data.csv") {
		t.Fatalf("expected specs file inside custom data dir, got %q", cfg.Paths.SpecsFile)
	}
	if cfg.Paths.OutputJSON != "/tmp/exports/tv.json" {
		t.Fatalf("expected absolute output json untouched, got %q", cfg.Paths.OutputJSON)
	}
	if cfg.Classification.CdSeFWHMThresholdNM != 30 {
		t.Fatalf("expected threshold 30, got %v", cfg.Classification.CdSeFWHMThresholdNM)
	}
	if got := strings.Join(cfg.Classification.CdSeFallbackBrands, ","); got != "Hisense,TCL" {
		t.Fatalf("expected cleaned fallback brands, got %q", got)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "tvschema.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nspecs = \"x.csv\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvVarOverridesLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "tvschema.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TVSCHEMA_LOG_LEVEL", "WARN")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env level to win, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(content), "cdse_fwhm_threshold_nm") {
		t.Fatalf("sample config missing classification section: %s", content)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	def := config.Default()
	if cfg.Classification.CdSeFWHMThresholdNM != def.Classification.CdSeFWHMThresholdNM {
		t.Fatalf("sample threshold drifted from defaults: %v", cfg.Classification.CdSeFWHMThresholdNM)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "non-positive threshold",
			mutate:  func(c *config.Config) { c.Classification.CdSeFWHMThresholdNM = 0 },
			wantErr: "classification.cdse_fwhm_threshold_nm",
		},
		{
			name:    "no pseudo qd labels",
			mutate:  func(c *config.Config) { c.Classification.PseudoQDMarketingLabels = nil },
			wantErr: "classification.pseudo_qd_marketing_labels",
		},
		{
			name: "output overwrites input",
			mutate: func(c *config.Config) {
				c.Paths.SpecsFile = "/data/in.csv"
				c.Paths.SpectralFile = "/data/spd.csv"
				c.Paths.OutputCSV = "/data/in.csv"
			},
			wantErr: "paths.output_csv",
		},
		{
			name: "json equals csv",
			mutate: func(c *config.Config) {
				c.Paths.SpecsFile = "/data/in.csv"
				c.Paths.SpectralFile = "/data/spd.csv"
				c.Paths.OutputCSV = "/data/out"
				c.Paths.OutputJSON = "/data/out"
			},
			wantErr: "paths.output_json",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "trace" },
			wantErr: "logging.level",
		},
		{
			name: "store without path",
			mutate: func(c *config.Config) {
				c.Store.Enabled = true
				c.Store.Path = " "
			},
			wantErr: "store.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Path = "/state/tvschema.db"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/exports")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "exports") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
