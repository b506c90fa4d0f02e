package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateClassification(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.SpecsFile == "" {
		return errors.New("paths.specs_file must be set")
	}
	if c.Paths.SpectralFile == "" {
		return errors.New("paths.spectral_file must be set")
	}
	if c.Paths.OutputCSV == "" {
		return errors.New("paths.output_csv must be set")
	}
	inputs := map[string]string{
		filepath.Clean(c.Paths.SpecsFile):    "paths.specs_file",
		filepath.Clean(c.Paths.SpectralFile): "paths.spectral_file",
	}
	outputs := map[string]string{"paths.output_csv": c.Paths.OutputCSV}
	if c.Paths.OutputJSON != "" {
		outputs["paths.output_json"] = c.Paths.OutputJSON
	}
	for key, out := range outputs {
		if input, clash := inputs[filepath.Clean(out)]; clash {
			return fmt.Errorf("%s must not overwrite %s", key, input)
		}
	}
	if c.Paths.OutputJSON != "" && filepath.Clean(c.Paths.OutputJSON) == filepath.Clean(c.Paths.OutputCSV) {
		return errors.New("paths.output_json must differ from paths.output_csv")
	}
	return nil
}

func (c *Config) validateClassification() error {
	threshold := c.Classification.CdSeFWHMThresholdNM
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold <= 0 {
		return errors.New("classification.cdse_fwhm_threshold_nm must be positive")
	}
	if len(c.Classification.PseudoQDMarketingLabels) == 0 {
		return errors.New("classification.pseudo_qd_marketing_labels must list at least one label")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Enabled && strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set when store.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
