package preflight

import (
	"path/filepath"
	"strings"

	"tvschema/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckInputFile("Specification table", cfg.Paths.SpecsFile),
		CheckInputFile("Spectral table", cfg.Paths.SpectralFile),
		CheckOutputDirectory("Output directory", filepath.Dir(cfg.Paths.OutputCSV)),
	}
	if cfg.Paths.OutputJSON != "" {
		if jsonDir := filepath.Dir(cfg.Paths.OutputJSON); jsonDir != filepath.Dir(cfg.Paths.OutputCSV) {
			results = append(results, CheckOutputDirectory("JSON output directory", jsonDir))
		}
	}
	if cfg.Store.Enabled {
		results = append(results, CheckOutputDirectory("History store directory", filepath.Dir(cfg.Store.Path)))
	}
	if strings.TrimSpace(cfg.Metrics.TextfilePath) != "" {
		results = append(results, CheckOutputDirectory("Metrics textfile directory", filepath.Dir(cfg.Metrics.TextfilePath)))
	}
	if strings.TrimSpace(cfg.Classification.MarketingRulesPath) != "" {
		results = append(results, CheckMarketingRules(cfg.Classification.MarketingRulesPath))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
