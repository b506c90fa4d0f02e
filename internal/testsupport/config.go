package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tvschema/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Inputs live in <tmp>/data, outputs in <tmp>/out and state in <tmp>/state.
// The history store is disabled unless WithStore is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.SpecsFile = filepath.Join(base, "data", "rtings_tv_data.csv")
	cfgVal.Paths.SpectralFile = filepath.Join(base, "data", "spd_analysis_results.csv")
	cfgVal.Paths.OutputCSV = filepath.Join(base, "out", "tv_database.csv")
	cfgVal.Paths.OutputJSON = filepath.Join(base, "out", "tv_database.json")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Store.Enabled = false
	cfgVal.Store.Path = filepath.Join(base, "state", "tvschema.db")
	cfgVal.Metrics.TextfilePath = ""
	cfgVal.Classification.MarketingRulesPath = ""

	if err := os.MkdirAll(cfgVal.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStore enables the history store under the temp state directory.
func WithStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Enabled = true
	}
}

// WithMetrics enables the metrics textfile under the temp directory.
func WithMetrics() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.TextfilePath = filepath.Join(b.baseDir, "textfile", "tvschema.prom")
	}
}

// WithMarketingRules writes an override rule file and points the config at it.
func WithMarketingRules(yaml string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "rules.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			b.t.Fatalf("write marketing rules: %v", err)
		}
		b.cfg.Classification.MarketingRulesPath = path
	}
}
