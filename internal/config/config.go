package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the input tables, output artifacts and local state.
// Relative file names are resolved against DataDir.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	SpecsFile    string `toml:"specs_file"`
	SpectralFile string `toml:"spectral_file"`
	OutputCSV    string `toml:"output_csv"`
	OutputJSON   string `toml:"output_json"`
	StateDir     string `toml:"state_dir"`
}

// Classification holds the tunable inputs of the derivation rules.
type Classification struct {
	// CdSeFWHMThresholdNM: QD-LCD green FWHM strictly below it reads as CdSe.
	CdSeFWHMThresholdNM float64 `toml:"cdse_fwhm_threshold_nm"`
	// InPOverrideBrands are treated as InP on QD-LCD regardless of FWHM.
	InPOverrideBrands []string `toml:"inp_override_brands"`
	// CdSeFallbackBrands are assumed CdSe when FWHM is unavailable.
	CdSeFallbackBrands []string `toml:"cdse_fallback_brands"`
	// PseudoQDMarketingLabels turn a KSF classification into Pseudo QD.
	PseudoQDMarketingLabels []string `toml:"pseudo_qd_marketing_labels"`
	// MarketingRulesPath optionally replaces the embedded label table.
	MarketingRulesPath string `toml:"marketing_rules_path"`
}

// Store controls the run history database.
type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <state_dir>/tvschema.db
}

// Metrics controls the node-exporter textfile output.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"` // Empty disables metrics output
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"` // Optional log file in addition to stderr
}

// Config encapsulates all configuration values for tvschema.
//
// Configuration sections:
//   - Paths: input tables, output artifacts and state directory
//   - Classification: material thresholds, brand lists, label rules
//   - Store: run history database
//   - Metrics: batch metrics textfile
//   - Logging: log format, level and optional file
type Config struct {
	Paths          Paths          `toml:"paths"`
	Classification Classification `toml:"classification"`
	Store          Store          `toml:"store"`
	Metrics        Metrics        `toml:"metrics"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tvschema/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tvschema.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and the parent directories
// of every configured output.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, filepath.Dir(c.Paths.OutputCSV), filepath.Dir(c.Paths.OutputJSON)}
	if c.Store.Enabled {
		dirs = append(dirs, filepath.Dir(c.Store.Path))
	}
	if c.Metrics.TextfilePath != "" {
		dirs = append(dirs, filepath.Dir(c.Metrics.TextfilePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OutputDir returns the directory that receives the classified tables.
func (c *Config) OutputDir() string {
	return filepath.Dir(c.Paths.OutputCSV)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveIn expands value, joining bare relative names onto base first.
func resolveIn(base, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !filepath.IsAbs(value) && !strings.HasPrefix(value, "~") && base != "" {
		value = filepath.Join(base, value)
	}
	return expandPath(value)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
