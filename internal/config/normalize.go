package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeClassification(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TVSCHEMA_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	base := c.Paths.DataDir
	if c.Paths.SpecsFile, err = resolveIn(base, orDefault(c.Paths.SpecsFile, defaultSpecsFile)); err != nil {
		return fmt.Errorf("paths.specs_file: %w", err)
	}
	if c.Paths.SpectralFile, err = resolveIn(base, orDefault(c.Paths.SpectralFile, defaultSpectralFile)); err != nil {
		return fmt.Errorf("paths.spectral_file: %w", err)
	}
	if c.Paths.OutputCSV, err = resolveIn(base, orDefault(c.Paths.OutputCSV, defaultOutputCSV)); err != nil {
		return fmt.Errorf("paths.output_csv: %w", err)
	}
	if c.Paths.OutputJSON, err = resolveIn(base, c.Paths.OutputJSON); err != nil {
		return fmt.Errorf("paths.output_json: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(orDefault(c.Paths.StateDir, defaultStateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeClassification() error {
	c.Classification.InPOverrideBrands = cleanList(c.Classification.InPOverrideBrands)
	c.Classification.CdSeFallbackBrands = cleanList(c.Classification.CdSeFallbackBrands)
	c.Classification.PseudoQDMarketingLabels = cleanList(c.Classification.PseudoQDMarketingLabels)

	path := strings.TrimSpace(c.Classification.MarketingRulesPath)
	if path == "" {
		c.Classification.MarketingRulesPath = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("classification.marketing_rules_path: %w", err)
	}
	c.Classification.MarketingRulesPath = expanded
	return nil
}

func (c *Config) normalizeStore() error {
	path := strings.TrimSpace(c.Store.Path)
	if path == "" {
		c.Store.Path = filepath.Join(c.Paths.StateDir, defaultStoreFile)
		return nil
	}
	var err error
	if c.Store.Path, err = resolveIn(c.Paths.StateDir, path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("TVSCHEMA_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}
